package types

import (
	"fmt"

	"tern/internal/source"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// VarID identifies an inference type variable. Variables are allocated by
// the inference engine and eliminated by substitution before lowering.
type VarID uint32

// NoVarID marks the absence of a variable.
const NoVarID VarID = 0

// ArgsID identifies an interned ordered sequence of TypeIDs (tuple
// elements, function parameters, named-type arguments).
type ArgsID uint32

// NoArgsID marks the empty sequence.
const NoArgsID ArgsID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUnknown is the gradual-typing escape hatch: it unifies with
	// anything and contributes no substitution.
	KindUnknown
	KindUnit
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray // Elem
	KindTuple // Args
	KindRef   // Elem, Mutable
	KindFunc  // Args = params, Ret = result
	KindNamed // Name, Args = type arguments
	// KindParam is a rigid generic parameter inside its own declaration.
	// It unifies only with itself; call sites replace it via instantiation.
	KindParam // Name, Owner
	// KindVar is a fresh inference variable.
	KindVar // Var
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindRef:
		return "ref"
	case KindFunc:
		return "fn"
	case KindNamed:
		return "named"
	case KindParam:
		return "param"
	case KindVar:
		return "var"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// OwnerID identifies the declaration that owns a rigid type parameter, so
// that `T` of one function never collides with `T` of another.
type OwnerID uint32

// NoOwnerID marks parameters without a recorded owner (tests, builtins).
const NoOwnerID OwnerID = 0

// Type is a compact descriptor for any supported type. Composite payloads
// are carried as interned references, so structural equality of ground
// descriptors is plain struct equality.
type Type struct {
	Kind    Kind
	Elem    TypeID          // array element, reference target
	Ret     TypeID          // function result
	Args    ArgsID          // tuple elems, fn params, named args
	Name    source.StringID // named type / parameter name
	Owner   OwnerID
	Var     VarID
	Mutable bool // for references
}
