package diag

import (
	"fmt"
)

// Code identifies a diagnostic class. Codes are stable across releases so
// that golden files and editor integrations can match on them.
type Code uint16

const (
	UnknownCode Code = 0

	// Type inference and constraint solving.
	TypeInfo          Code = 3000
	TypeMismatch      Code = 3001 // two incompatible concrete types
	OccursCheck       Code = 3002 // infinite type construction
	UnboundTypeVar    Code = 3003 // internal invariant violation, always a defect
	MissingImpl       Code = 3004 // resolved type lacks a required bound
	UnknownBound      Code = 3005 // bound name never declared
	ArityMismatch     Code = 3006 // call/constructor argument count
	UnknownName       Code = 3007 // unresolved variable or field
	TypeArgCount      Code = 3008 // explicit type argument count
	CascadeIllTyped   Code = 3009 // depends on an ill-typed definition
	TypeAnnotConflict Code = 3010 // annotation disagrees with inferred type

	// Specialization.
	MonoInfo      Code = 4000
	AmbiguousInst Code = 4001 // call site with non-concrete type arguments
	InstLimit     Code = 4002 // instantiation budget exceeded
	DepthLimit    Code = 4003 // specialization chain depth exceeded

	// Resource budgets during inference.
	TypeVarLimit    Code = 4100
	ConstraintLimit Code = 4101
	StepLimit       Code = 4102
)

func (c Code) String() string {
	switch c {
	case UnknownCode:
		return "TRN0000"
	default:
		return fmt.Sprintf("TRN%04d", uint16(c))
	}
}

// Fatal reports whether the code aborts the whole unit's phase rather than
// just the definition it occurred in.
func (c Code) Fatal() bool {
	switch c {
	case InstLimit, DepthLimit, TypeVarLimit, ConstraintLimit, StepLimit:
		return true
	}
	return false
}
