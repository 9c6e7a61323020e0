package mono

import (
	"tern/internal/hir"
	"tern/internal/symbols"
	"tern/internal/types"
)

// ArgsKey is the flattened canonical type-argument list, also used as the
// mangling suffix. Empty for non-generic symbols.
type ArgsKey string

func argsKeyFromTypes(args []types.TypeID) ArgsKey {
	if len(args) == 0 {
		return ""
	}
	return ArgsKey(typeArgsKey(args))
}

// MonoKey identifies one specialization: the original symbol plus its
// canonical argument key.
type MonoKey struct {
	Sym     symbols.SymbolID
	ArgsKey ArgsKey
}

// MonoFunc is one specialized function: a deep copy of the original body
// with every type parameter replaced and every call retargeted at other
// specializations.
type MonoFunc struct {
	Key         MonoKey
	InstanceSym symbols.SymbolID
	OrigSym     symbols.SymbolID
	TypeArgs    []types.TypeID
	Name        string

	Func *hir.Func
}

// MonoType is one specialized nominal type (struct or enum).
type MonoType struct {
	Key      MonoKey
	OrigSym  symbols.SymbolID
	TypeArgs []types.TypeID
	Name     string

	// TypeID is the interned concrete named type.
	TypeID types.TypeID
	// Fields holds substituted field types for structs, in declared
	// order; VariantParams the substituted payloads for enums.
	Fields        []types.TypeID
	VariantParams [][]types.TypeID
}

// MonoUnit is the output of monomorphization: only concrete definitions,
// no type parameters anywhere.
type MonoUnit struct {
	Source *hir.Unit

	Funcs     map[MonoKey]*MonoFunc
	FuncBySym map[symbols.SymbolID]*MonoFunc
	Types     map[MonoKey]*MonoType
}

// FuncCount returns the number of specialized functions.
func (u *MonoUnit) FuncCount() int {
	if u == nil {
		return 0
	}
	return len(u.Funcs)
}

// TypeCount returns the number of specialized nominal types.
func (u *MonoUnit) TypeCount() int {
	if u == nil {
		return 0
	}
	return len(u.Types)
}
