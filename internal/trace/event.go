package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindBegin marks the start of a logical operation.
	KindBegin Kind = iota + 1
	// KindEnd marks the end of a logical operation.
	KindEnd
	// KindPoint represents an instant event.
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event. Lower numeric
// values represent coarser events.
type Scope uint8

const (
	// ScopeDriver covers top-level pipeline operations.
	ScopeDriver Scope = iota + 1
	// ScopePhase covers pipeline phases (check, solve, mono).
	ScopePhase
	// ScopeDecl covers per-declaration processing.
	ScopeDecl
	// ScopeNode is the most detailed level, per expression.
	ScopeNode
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopeDecl:
		return "decl"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time   time.Time
	Seq    uint64 // global sequence number, monotonic
	Kind   Kind
	Scope  Scope
	Name   string // e.g. "check", "mono", "decl:sort"
	Detail string // optional detail message
}
