package types

import (
	"fmt"
)

// Subst maps inference variables to types. Bindings are created through
// Bind only, which enforces the occurs check, so applying a substitution
// can never loop. Application is idempotent: the result of Apply contains
// only variables the substitution does not bind.
type Subst struct {
	in       *Interner
	bindings map[VarID]TypeID
}

// NewSubst creates an empty substitution over the given interner.
func NewSubst(in *Interner) *Subst {
	return &Subst{in: in, bindings: make(map[VarID]TypeID, 16)}
}

// Len returns the number of bound variables.
func (s *Subst) Len() int {
	return len(s.bindings)
}

// Lookup returns the direct binding for v, if any.
func (s *Subst) Lookup(v VarID) (TypeID, bool) {
	id, ok := s.bindings[v]
	return id, ok
}

// Bind records v := t after rewriting t by the current substitution and
// running the occurs check. Binding a variable twice is a defect: the
// solver always resolves an existing binding before unifying further.
func (s *Subst) Bind(v VarID, t TypeID) error {
	if v == NoVarID {
		return fmt.Errorf("types: cannot bind NoVarID")
	}
	if _, ok := s.bindings[v]; ok {
		return fmt.Errorf("types: variable t%d already bound", v)
	}
	resolved := s.Apply(t)
	if tt, ok := s.in.Lookup(resolved); ok && tt.Kind == KindVar && tt.Var == v {
		// v := v is a no-op, not an infinite type.
		return nil
	}
	if s.Occurs(v, resolved) {
		return fmt.Errorf("types: occurs check failed: t%d in %s", v, s.in.Format(resolved))
	}
	s.bindings[v] = resolved
	return nil
}

// Apply rewrites every bound variable inside id, re-interning composite
// types as needed. Unbound variables survive unchanged.
func (s *Subst) Apply(id TypeID) TypeID {
	if id == NoTypeID || len(s.bindings) == 0 {
		return id
	}
	return s.apply(id)
}

func (s *Subst) apply(id TypeID) TypeID {
	tt, ok := s.in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindVar:
		if bound, ok := s.bindings[tt.Var]; ok {
			return s.apply(bound)
		}
		return id
	case KindArray, KindRef:
		elem := s.apply(tt.Elem)
		if elem == tt.Elem {
			return id
		}
		next := tt
		next.Elem = elem
		return s.in.Intern(next)
	case KindTuple, KindNamed:
		args, changed := s.applyArgs(tt.Args)
		if !changed {
			return id
		}
		next := tt
		next.Args = args
		return s.in.Intern(next)
	case KindFunc:
		args, changed := s.applyArgs(tt.Args)
		ret := s.apply(tt.Ret)
		if !changed && ret == tt.Ret {
			return id
		}
		next := tt
		next.Args = args
		next.Ret = ret
		return s.in.Intern(next)
	default:
		return id
	}
}

func (s *Subst) applyArgs(id ArgsID) (ArgsID, bool) {
	args := s.in.Args(id)
	if len(args) == 0 {
		return id, false
	}
	out := make([]TypeID, len(args))
	changed := false
	for i, a := range args {
		out[i] = s.apply(a)
		if out[i] != a {
			changed = true
		}
	}
	if !changed {
		return id, false
	}
	return s.in.InternArgs(out), true
}

// Occurs reports whether v appears free inside id.
func (s *Subst) Occurs(v VarID, id TypeID) bool {
	tt, ok := s.in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindVar:
		if tt.Var == v {
			return true
		}
		if bound, ok := s.bindings[tt.Var]; ok {
			return s.Occurs(v, bound)
		}
		return false
	case KindArray, KindRef:
		return s.Occurs(v, tt.Elem)
	case KindTuple, KindNamed:
		return s.occursInArgs(v, tt.Args)
	case KindFunc:
		return s.occursInArgs(v, tt.Args) || s.Occurs(v, tt.Ret)
	default:
		return false
	}
}

func (s *Subst) occursInArgs(v VarID, id ArgsID) bool {
	for _, a := range s.in.Args(id) {
		if s.Occurs(v, a) {
			return true
		}
	}
	return false
}
