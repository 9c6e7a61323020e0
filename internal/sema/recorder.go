package sema

import (
	"tern/internal/source"
	"tern/internal/symbols"
	"tern/internal/types"
)

// InstantiationRecorder captures concrete generic instantiations as a
// first-class artefact. The monomorphizer supplies the real
// implementation; tests may pass nil.
type InstantiationRecorder interface {
	// RecordFnInstantiation records a call of a generic function with the
	// given type arguments in declared-parameter order. Arguments may
	// still mention rigid parameters of the caller; the specializer
	// substitutes those when the caller itself is instantiated.
	RecordFnInstantiation(fn symbols.SymbolID, typeArgs []types.TypeID, site source.Span, caller symbols.SymbolID)

	// RecordTypeInstantiation records construction of a generic struct or
	// enum with the given type arguments.
	RecordTypeInstantiation(typeSym symbols.SymbolID, typeArgs []types.TypeID, site source.Span, caller symbols.SymbolID)
}

// CallInst is one recorded instantiation, kept on the declaration's result
// so the specializer can rewrite call sites.
type CallInst struct {
	Callee   symbols.SymbolID
	TypeArgs []types.TypeID
	Span     source.Span
	IsType   bool // struct/enum construction rather than a call
}
