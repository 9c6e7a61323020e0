package sema

import (
	"tern/internal/source"
	"tern/internal/types"
)

// ConstraintKind enumerates constraint variants.
type ConstraintKind uint8

const (
	// ConstraintEqual requires two types to unify.
	ConstraintEqual ConstraintKind = iota
	// ConstraintBound requires the resolved type to satisfy a named bound.
	ConstraintBound
	// ConstraintParamBounds declares the bounds of a rigid type parameter
	// inside its own declaration body.
	ConstraintParamBounds
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintEqual:
		return "Equal"
	case ConstraintBound:
		return "Bound"
	case ConstraintParamBounds:
		return "ParamBounds"
	default:
		return "Unknown"
	}
}

// Constraint is one obligation generated by inference and consumed by the
// solver. Constraints are immutable once emitted.
type Constraint struct {
	Kind   ConstraintKind
	A, B   types.TypeID // Equal: the two sides
	Type   types.TypeID // Bound / ParamBounds: the subject type
	Bound  string       // Bound: the required bound name
	Param  string       // ParamBounds: parameter name, for messages
	Bounds []string     // ParamBounds: declared bound set
	Span   source.Span
}

// Equal builds an equality constraint.
func Equal(a, b types.TypeID, span source.Span) Constraint {
	return Constraint{Kind: ConstraintEqual, A: a, B: b, Span: span}
}

// Bound builds a trait-bound constraint.
func Bound(subject types.TypeID, bound string, span source.Span) Constraint {
	return Constraint{Kind: ConstraintBound, Type: subject, Bound: bound, Span: span}
}

// ParamBounds declares the bounds of a rigid parameter.
func ParamBounds(param string, subject types.TypeID, bounds []string, span source.Span) Constraint {
	return Constraint{Kind: ConstraintParamBounds, Param: param, Type: subject, Bounds: bounds, Span: span}
}
