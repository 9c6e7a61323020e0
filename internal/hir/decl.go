package hir

import (
	"tern/internal/source"
	"tern/internal/symbols"
	"tern/internal/types"
)

// GenericParam represents one generic type parameter and its bounds, in
// declared order. Owned by the declaration, immutable after construction.
type GenericParam struct {
	Name   string
	Bounds []string
	Span   source.Span
}

// FuncFlags represents function modifiers as a bitmask.
type FuncFlags uint8

const (
	// FuncEntrypoint marks a specialization seed (main and friends).
	FuncEntrypoint FuncFlags = 1 << iota
)

// HasFlag returns true if the given flag is set.
func (f FuncFlags) HasFlag(flag FuncFlags) bool {
	return f&flag != 0
}

// Param represents a function parameter. Type is the declared annotation
// and may reference rigid generic parameters; NoTypeID means unannotated.
type Param struct {
	Name string
	Type types.TypeID
	Span source.Span
}

// Func represents a function declaration.
type Func struct {
	Name     string
	SymbolID symbols.SymbolID
	Generics []GenericParam
	Params   []Param
	Result   types.TypeID // NoTypeID = infer
	Body     *Expr        // any expression; nil for externs
	Flags    FuncFlags
	Span     source.Span
}

// IsGeneric reports whether the function declares type parameters.
func (f *Func) IsGeneric() bool {
	return f != nil && len(f.Generics) > 0
}

// Field represents one struct field.
type Field struct {
	Name string
	Type types.TypeID
	Span source.Span
}

// Struct represents a struct declaration.
type Struct struct {
	Name     string
	SymbolID symbols.SymbolID
	Generics []GenericParam
	Fields   []Field
	Span     source.Span
}

// IsGeneric reports whether the struct declares type parameters.
func (s *Struct) IsGeneric() bool {
	return s != nil && len(s.Generics) > 0
}

// Variant represents one enum variant; Params are payload types.
type Variant struct {
	Name   string
	Params []types.TypeID
	Span   source.Span
}

// Enum represents an enum declaration.
type Enum struct {
	Name     string
	SymbolID symbols.SymbolID
	Generics []GenericParam
	Variants []Variant
	Span     source.Span
}

// IsGeneric reports whether the enum declares type parameters.
func (e *Enum) IsGeneric() bool {
	return e != nil && len(e.Generics) > 0
}

// Impl records the closed-world fact "Type satisfies Bound", consumed by
// the traits registry before inference.
type Impl struct {
	Bound string
	Type  types.TypeID
	Span  source.Span
}
