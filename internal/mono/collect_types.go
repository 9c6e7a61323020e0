package mono

import (
	"fmt"

	"tern/internal/hir"
	"tern/internal/symbols"
	"tern/internal/types"
)

// ensureType materializes one concrete nominal type. First demand per key
// creates the entry and chases the types its substituted fields mention;
// later demands are no-ops. A self-referencing generic type grows the
// stack on every level, so the depth budget bounds it instead of looping
// forever.
func (b *builder) ensureType(origSym symbols.SymbolID, typeArgs []types.TypeID, stack []MonoKey) error {
	sym := b.unit.Table.Get(origSym)
	if sym == nil {
		return fmt.Errorf("mono: unknown type symbol %d", origSym)
	}
	normalized := NormalizeTypeArgs(typeArgs)
	if len(normalized) != len(sym.TypeParams) {
		return fmt.Errorf("mono: %s expects %d type arguments, got %d", sym.Name, len(sym.TypeParams), len(normalized))
	}
	if !b.argsClosed(normalized) {
		return fmt.Errorf("mono: open type arguments for %s", b.monoName(origSym, normalized))
	}

	key := MonoKey{Sym: origSym, ArgsKey: argsKeyFromTypes(normalized)}
	if b.mm.Types[key] != nil {
		return nil
	}
	if err := b.checkDepth(stack, sym.Span); err != nil {
		return err
	}
	if err := b.checkBudget(sym.Span); err != nil {
		return err
	}

	out := &MonoType{
		Key:      key,
		OrigSym:  origSym,
		TypeArgs: normalized,
		Name:     b.monoName(origSym, normalized),
		TypeID:   b.in.MakeNamed(sym.Name, normalized),
	}
	b.mm.Types[key] = out

	var sub *subst
	if len(normalized) > 0 {
		sub = newSubst(b.in, types.OwnerID(origSym), sym.TypeParams, normalized)
	}

	stack = append(stack, key)
	if st := b.unit.StructBySym(origSym); st != nil {
		out.Fields = make([]types.TypeID, len(st.Fields))
		for i, f := range st.Fields {
			out.Fields[i] = sub.applyType(f.Type)
			if err := b.ensureTypesIn(out.Fields[i], stack); err != nil {
				return err
			}
		}
		return nil
	}
	if en := b.unit.EnumBySym(origSym); en != nil {
		out.VariantParams = make([][]types.TypeID, len(en.Variants))
		for i, v := range en.Variants {
			out.VariantParams[i] = make([]types.TypeID, len(v.Params))
			for j, p := range v.Params {
				out.VariantParams[i][j] = sub.applyType(p)
				if err := b.ensureTypesIn(out.VariantParams[i][j], stack); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return fmt.Errorf("mono: %s is not a nominal type", sym.Name)
}

// ensureTypesIn chases every generic nominal type mentioned inside id.
func (b *builder) ensureTypesIn(id types.TypeID, stack []MonoKey) error {
	tt, ok := b.in.Lookup(id)
	if !ok {
		return nil
	}
	switch tt.Kind {
	case types.KindNamed:
		args := b.in.Args(tt.Args)
		if len(args) > 0 {
			name := b.in.Strings().MustLookup(tt.Name)
			if sym, ok := b.unit.Table.LookupName(name); ok {
				if err := b.ensureType(sym, args, stack); err != nil {
					return err
				}
			}
		}
		for _, a := range args {
			if err := b.ensureTypesIn(a, stack); err != nil {
				return err
			}
		}
	case types.KindArray, types.KindRef:
		return b.ensureTypesIn(tt.Elem, stack)
	case types.KindTuple:
		for _, a := range b.in.Args(tt.Args) {
			if err := b.ensureTypesIn(a, stack); err != nil {
				return err
			}
		}
	case types.KindFunc:
		for _, a := range b.in.Args(tt.Args) {
			if err := b.ensureTypesIn(a, stack); err != nil {
				return err
			}
		}
		return b.ensureTypesIn(tt.Ret, stack)
	}
	return nil
}

// collectTypesFromFuncs chases nominal types reachable from specialized
// function signatures and bodies, in deterministic key order.
func (b *builder) collectTypesFromFuncs() error {
	for _, mf := range b.sortedFuncs() {
		if mf.Func == nil {
			continue
		}
		for _, p := range mf.Func.Params {
			if err := b.ensureTypesIn(p.Type, nil); err != nil {
				return err
			}
		}
		if err := b.ensureTypesIn(mf.Func.Result, nil); err != nil {
			return err
		}
		var walkErr error
		hir.Walk(mf.Func.Body, func(e *hir.Expr) bool {
			if walkErr != nil {
				return false
			}
			if let, ok := e.Data.(hir.LetData); ok && let.Annot != types.NoTypeID {
				walkErr = b.ensureTypesIn(let.Annot, nil)
			}
			return walkErr == nil
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}
