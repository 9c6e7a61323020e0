package mono

import (
	"slices"

	"tern/internal/hir"
	"tern/internal/symbols"
)

// applyDCE removes specializations unreachable from any entrypoint. Calls
// in specialized bodies already point at instance symbols, so plain graph
// reachability suffices.
func (b *builder) applyDCE() {
	roots := b.dceRoots()
	if len(roots) == 0 {
		return
	}

	reachable := make(map[symbols.SymbolID]struct{}, len(roots))
	work := slices.Clone(roots)
	for len(work) > 0 {
		last := len(work) - 1
		sym := work[last]
		work = work[:last]
		if _, ok := reachable[sym]; ok {
			continue
		}
		reachable[sym] = struct{}{}
		mf := b.mm.FuncBySym[sym]
		if mf == nil || mf.Func == nil {
			continue
		}
		hir.Walk(mf.Func.Body, func(e *hir.Expr) bool {
			if call, ok := e.Data.(hir.CallData); ok && call.Callee.IsValid() {
				work = append(work, call.Callee)
			}
			return true
		})
	}

	for k, mf := range b.mm.Funcs {
		if mf == nil {
			delete(b.mm.Funcs, k)
			continue
		}
		if _, ok := reachable[mf.InstanceSym]; !ok {
			delete(b.mm.FuncBySym, mf.InstanceSym)
			delete(b.mm.Funcs, k)
		}
	}
}

func (b *builder) dceRoots() []symbols.SymbolID {
	var roots []symbols.SymbolID
	for _, fn := range b.unit.Funcs {
		if fn == nil || fn.IsGeneric() || !fn.SymbolID.IsValid() {
			continue
		}
		if fn.Flags.HasFlag(hir.FuncEntrypoint) || fn.Name == "main" {
			if mf := b.mm.Funcs[MonoKey{Sym: fn.SymbolID}]; mf != nil {
				roots = append(roots, mf.InstanceSym)
			}
		}
	}
	return roots
}
