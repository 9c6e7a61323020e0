package mono

import (
	"fmt"

	"tern/internal/hir"
	"tern/internal/source"
	"tern/internal/symbols"
	"tern/internal/types"
)

// rewriteCalls retargets every call inside a specialized body at the
// specialization it demands, creating missing ones on the way. The
// caller's own substitution closes over arguments that were recorded in
// terms of its rigid parameters.
func (b *builder) rewriteCalls(clone *hir.Func, origSym symbols.SymbolID, sub *subst, stack []MonoKey) error {
	var walkErr error
	hir.Walk(clone.Body, func(e *hir.Expr) bool {
		if walkErr != nil {
			return false
		}
		switch data := e.Data.(type) {
		case hir.CallData:
			inst, args, err := b.resolveCall(origSym, data.Callee, data.TypeArgs, e.Span, sub, stack)
			if err != nil {
				walkErr = err
				return false
			}
			data.Callee = inst.InstanceSym
			data.TypeArgs = args
			e.Data = data
		case hir.StructLitData:
			args, err := b.resolveTypeUse(origSym, data.Struct, data.TypeArgs, e.Span, sub, stack)
			if err != nil {
				walkErr = err
				return false
			}
			data.TypeArgs = args
			e.Data = data
		case hir.VariantLitData:
			args, err := b.resolveTypeUse(origSym, data.Enum, data.TypeArgs, e.Span, sub, stack)
			if err != nil {
				walkErr = err
				return false
			}
			data.TypeArgs = args
			e.Data = data
		}
		return true
	})
	return walkErr
}

// resolveCall closes the callee's type arguments and returns its
// specialization.
func (b *builder) resolveCall(caller, callee symbols.SymbolID, explicit []types.TypeID, span source.Span, sub *subst, stack []MonoKey) (*MonoFunc, []types.TypeID, error) {
	sym := b.unit.Table.Get(callee)
	if sym == nil {
		return nil, nil, fmt.Errorf("mono: call to unknown symbol %d", callee)
	}
	if len(sym.TypeParams) == 0 {
		inst, err := b.ensureFunc(callee, nil, stack)
		return inst, nil, err
	}

	args, err := b.closedArgsFor(InstFn, caller, callee, explicit, span, sub)
	if err != nil {
		return nil, nil, err
	}
	inst, err := b.ensureFunc(callee, args, stack)
	return inst, args, err
}

// resolveTypeUse closes a generic struct/enum literal's arguments and
// makes sure the concrete type exists.
func (b *builder) resolveTypeUse(caller, typeSym symbols.SymbolID, explicit []types.TypeID, span source.Span, sub *subst, stack []MonoKey) ([]types.TypeID, error) {
	sym := b.unit.Table.Get(typeSym)
	if sym == nil {
		return nil, fmt.Errorf("mono: literal of unknown symbol %d", typeSym)
	}
	if len(sym.TypeParams) == 0 {
		return nil, nil
	}
	args, err := b.closedArgsFor(InstType, caller, typeSym, explicit, span, sub)
	if err != nil {
		return nil, err
	}
	if err := b.ensureType(typeSym, args, stack); err != nil {
		return nil, err
	}
	return args, nil
}

// closedArgsFor determines a use site's concrete type arguments: explicit
// arguments win (already substituted by applyFunc), otherwise the
// arguments inference recorded for this exact site, closed over the
// caller's substitution.
func (b *builder) closedArgsFor(kind InstantiationKind, caller, callee symbols.SymbolID, explicit []types.TypeID, span source.Span, sub *subst) ([]types.TypeID, error) {
	args := explicit
	if len(args) == 0 {
		recorded, ok := b.useSites[useSiteKey{Kind: kind, Caller: caller, Callee: callee, Span: span}]
		if !ok {
			return nil, fmt.Errorf("mono: no recorded instantiation of %s in %s",
				b.unit.Table.Name(callee), b.unit.Table.Name(caller))
		}
		args = sub.applyTypeSlice(recorded)
	}
	if !b.argsClosed(args) {
		return nil, fmt.Errorf("mono: open type arguments for %s in %s",
			b.unit.Table.Name(callee), b.unit.Table.Name(caller))
	}
	return args, nil
}
