// Package traits implements the closed-world bound registry: which
// concrete types satisfy which named bounds. It is populated once per
// compilation unit before inference starts and is read-only afterwards,
// which makes it safe to share across concurrently inferred declarations.
package traits

import (
	"fmt"
	"sync"

	"tern/internal/source"
	"tern/internal/types"
)

// Registry maps bound names to the set of types satisfying them.
type Registry struct {
	in     *types.Interner
	impls  map[string]map[types.TypeID]struct{}
	bounds map[string]source.Span
	frozen bool

	cacheMu sync.RWMutex
	cache   map[cacheKey]bool
}

type cacheKey struct {
	id    types.TypeID
	bound string
}

// NewRegistry creates an empty registry over the unit's interner.
func NewRegistry(in *types.Interner) *Registry {
	return &Registry{
		in:     in,
		impls:  make(map[string]map[types.TypeID]struct{}),
		bounds: make(map[string]source.Span),
		cache:  make(map[cacheKey]bool),
	}
}

// DeclareBound registers a bound name (a trait declaration). Declaring the
// same name twice keeps the first span.
func (r *Registry) DeclareBound(name string, span source.Span) {
	if r.frozen {
		panic(fmt.Errorf("traits: DeclareBound(%q) after freeze", name))
	}
	if _, ok := r.bounds[name]; !ok {
		r.bounds[name] = span
	}
	if _, ok := r.impls[name]; !ok {
		r.impls[name] = make(map[types.TypeID]struct{})
	}
}

// Known reports whether the bound name was ever declared.
func (r *Registry) Known(bound string) bool {
	_, ok := r.bounds[bound]
	return ok
}

// Register records that id satisfies bound. The bound is declared
// implicitly when needed so manifests can list impls without a separate
// trait block.
func (r *Registry) Register(bound string, id types.TypeID) {
	if r.frozen {
		panic(fmt.Errorf("traits: Register(%q) after freeze", bound))
	}
	if id == types.NoTypeID {
		return
	}
	r.DeclareBound(bound, source.NoSpan)
	r.impls[bound][id] = struct{}{}
}

// Freeze forbids further registration. Inference must only ever see a
// frozen registry.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether registration is closed.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Satisfies reports whether id satisfies bound. Resolution order:
// direct registration, then structural rules (arrays and tuples satisfy a
// bound iff every element does; Option and Result satisfy iff their
// payload types do), then false. Unknown satisfies everything: the gradual
// escape hatch never blocks a bound.
func (r *Registry) Satisfies(id types.TypeID, bound string) bool {
	if id == types.NoTypeID {
		return false
	}
	key := cacheKey{id: id, bound: bound}
	r.cacheMu.RLock()
	cached, ok := r.cache[key]
	r.cacheMu.RUnlock()
	if ok {
		return cached
	}
	result := r.satisfies(id, bound, map[cacheKey]struct{}{})
	r.cacheMu.Lock()
	r.cache[key] = result
	r.cacheMu.Unlock()
	return result
}

func (r *Registry) satisfies(id types.TypeID, bound string, visiting map[cacheKey]struct{}) bool {
	key := cacheKey{id: id, bound: bound}
	if _, ok := visiting[key]; ok {
		// A structural cycle proves nothing; treat as unsatisfied.
		return false
	}
	visiting[key] = struct{}{}
	defer delete(visiting, key)

	tt, ok := r.in.Lookup(id)
	if !ok {
		return false
	}
	if tt.Kind == types.KindUnknown {
		return true
	}

	if set, ok := r.impls[bound]; ok {
		if _, ok := set[id]; ok {
			return true
		}
	}

	switch tt.Kind {
	case types.KindArray:
		return r.satisfies(tt.Elem, bound, visiting)
	case types.KindTuple:
		elems := r.in.Args(tt.Args)
		if len(elems) == 0 {
			return false
		}
		for _, e := range elems {
			if !r.satisfies(e, bound, visiting) {
				return false
			}
		}
		return true
	case types.KindNamed:
		name, _ := r.in.Strings().Lookup(tt.Name)
		if name != "Option" && name != "Result" {
			return false
		}
		args := r.in.Args(tt.Args)
		if len(args) == 0 {
			return false
		}
		for _, a := range args {
			if !r.satisfies(a, bound, visiting) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Bounds returns the declared bound names, for diagnostics.
func (r *Registry) Bounds() []string {
	out := make([]string, 0, len(r.bounds))
	for name := range r.bounds {
		out = append(out, name)
	}
	return out
}
