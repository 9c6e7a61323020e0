package mono

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"tern/internal/source"
	"tern/internal/symbols"
	"tern/internal/types"
)

// InstantiationKind identifies the kind of entity being instantiated.
type InstantiationKind uint8

const (
	// InstFn represents a function instantiation.
	InstFn InstantiationKind = iota
	// InstType represents a struct or enum instantiation.
	InstType
)

// InstantiationKey is a comparable key for instantiations.
//
// Go maps cannot use slices as keys, so the normalized type arguments are
// flattened into a stable ArgsKey string; the slice itself lives in the
// entry.
type InstantiationKey struct {
	Sym     symbols.SymbolID
	ArgsKey string
}

// UseSite records a location where an instantiation occurs.
type UseSite struct {
	Span   source.Span
	Caller symbols.SymbolID
}

// InstEntry captures one generic symbol instantiated with one particular
// argument list, plus every site that demanded it.
type InstEntry struct {
	Kind     InstantiationKind
	Key      InstantiationKey
	TypeArgs []types.TypeID
	UseSites []UseSite
}

// InstantiationMap tracks every generic instantiation demanded across a
// unit. Recording is insert-or-get on the key: the same symbol with the
// same arguments always lands in one entry, regardless of how many call
// sites demand it or which goroutine records first.
type InstantiationMap struct {
	mu      sync.Mutex
	entries map[InstantiationKey]*InstEntry
}

// NewInstantiationMap creates a new empty InstantiationMap.
func NewInstantiationMap() *InstantiationMap {
	return &InstantiationMap{entries: make(map[InstantiationKey]*InstEntry)}
}

// NormalizeTypeArgs produces the canonical argument slice used for keys:
// declared parameter order, one slot per parameter. Nominal identity is
// preserved, so Box<int> and Box<Box<int>> never collide.
func NormalizeTypeArgs(args []types.TypeID) []types.TypeID {
	if len(args) == 0 {
		return nil
	}
	return slices.Clone(args)
}

// Record registers a generic instantiation at a specific site.
func (m *InstantiationMap) Record(kind InstantiationKind, sym symbols.SymbolID, typeArgs []types.TypeID, site source.Span, caller symbols.SymbolID) {
	if m == nil || !sym.IsValid() || len(typeArgs) == 0 {
		return
	}
	normalized := NormalizeTypeArgs(typeArgs)
	key := InstantiationKey{Sym: sym, ArgsKey: typeArgsKey(normalized)}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[InstantiationKey]*InstEntry)
	}
	entry := m.entries[key]
	if entry == nil {
		entry = &InstEntry{
			Kind:     kind,
			Key:      key,
			TypeArgs: normalized,
		}
		m.entries[key] = entry
	}

	if site != source.NoSpan {
		us := UseSite{Span: site, Caller: caller}
		for _, existing := range entry.UseSites {
			if existing == us {
				return
			}
		}
		entry.UseSites = append(entry.UseSites, us)
	}
}

// Len returns the number of distinct instantiations recorded.
func (m *InstantiationMap) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Entry returns the entry for a symbol and argument list, if recorded.
func (m *InstantiationMap) Entry(sym symbols.SymbolID, typeArgs []types.TypeID) (*InstEntry, bool) {
	if m == nil {
		return nil, false
	}
	key := InstantiationKey{Sym: sym, ArgsKey: typeArgsKey(typeArgs)}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok
}

// sortedEntries returns entries in a deterministic order: kind, then
// symbol, then type arguments. Specialization iterates this, never the
// map, so output never depends on map iteration order.
func (m *InstantiationMap) sortedEntries() []*InstEntry {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]*InstEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if e == nil || len(e.TypeArgs) == 0 {
			continue
		}
		entries = append(entries, e)
	}
	slices.SortStableFunc(entries, func(a, c *InstEntry) int {
		if a.Kind != c.Kind {
			return int(a.Kind) - int(c.Kind)
		}
		if a.Key.Sym != c.Key.Sym {
			if a.Key.Sym < c.Key.Sym {
				return -1
			}
			return 1
		}
		return slices.Compare(a.TypeArgs, c.TypeArgs)
	})
	return entries
}

func typeArgsKey(args []types.TypeID) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(arg), 10))
	}
	return b.String()
}
