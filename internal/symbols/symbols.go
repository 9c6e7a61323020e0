package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"tern/internal/source"
)

// SymbolID identifies a declaration inside the table.
type SymbolID uint32

// NoSymbolID marks the absence of a symbol reference.
const NoSymbolID SymbolID = 0

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolStruct
	SymbolEnum
	SymbolTrait
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolTrait:
		return "trait"
	default:
		return "invalid"
	}
}

// Symbol is one table entry: a declaration's identity plus the facts the
// generics core needs about it (type parameter names, origin span).
type Symbol struct {
	ID         SymbolID
	Kind       SymbolKind
	Name       string
	TypeParams []string
	Span       source.Span
}

// IsGeneric reports whether the declaration has type parameters.
func (s *Symbol) IsGeneric() bool {
	return s != nil && len(s.TypeParams) > 0
}

// Table allocates symbol IDs and resolves them back to declarations.
// Populated before inference, read-only afterwards.
type Table struct {
	symbols []Symbol
	byName  map[string]SymbolID
}

// NewTable creates an empty table. Slot 0 is reserved for NoSymbolID.
func NewTable() *Table {
	return &Table{
		symbols: make([]Symbol, 1),
		byName:  make(map[string]SymbolID),
	}
}

// Declare adds a symbol and returns its ID. Redeclaring a name is a defect
// in the upstream resolver, so it panics here.
func (t *Table) Declare(kind SymbolKind, name string, typeParams []string, span source.Span) SymbolID {
	if _, ok := t.byName[name]; ok {
		panic(fmt.Errorf("symbols: %q declared twice", name))
	}
	lenSyms, err := safecast.Conv[uint32](len(t.symbols))
	if err != nil {
		panic(fmt.Errorf("symbols: SymbolID overflow: %w", err))
	}
	id := SymbolID(lenSyms)
	t.symbols = append(t.symbols, Symbol{
		ID:         id,
		Kind:       kind,
		Name:       name,
		TypeParams: typeParams,
		Span:       span,
	})
	t.byName[name] = id
	return id
}

// Get returns the symbol for an ID, or nil when invalid.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.symbols) {
		return nil
	}
	return &t.symbols[id]
}

// LookupName resolves a declaration name to its ID.
func (t *Table) LookupName(name string) (SymbolID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the symbol's name or a placeholder for invalid IDs.
func (t *Table) Name(id SymbolID) string {
	if s := t.Get(id); s != nil {
		return s.Name
	}
	return fmt.Sprintf("sym#%d", id)
}

// Len returns the number of declared symbols.
func (t *Table) Len() int {
	return len(t.symbols) - 1
}
