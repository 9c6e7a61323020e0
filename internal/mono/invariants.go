package mono

import (
	"fmt"
	"slices"

	"tern/internal/hir"
	"tern/internal/types"
)

// sortedFuncs returns specializations ordered by original symbol, then
// argument key.
func (b *builder) sortedFuncs() []*MonoFunc {
	out := make([]*MonoFunc, 0, len(b.mm.Funcs))
	for _, mf := range b.mm.Funcs {
		out = append(out, mf)
	}
	slices.SortFunc(out, func(a, c *MonoFunc) int {
		if a.Key.Sym != c.Key.Sym {
			if a.Key.Sym < c.Key.Sym {
				return -1
			}
			return 1
		}
		if a.Key.ArgsKey != c.Key.ArgsKey {
			if a.Key.ArgsKey < c.Key.ArgsKey {
				return -1
			}
			return 1
		}
		return 0
	})
	return out
}

// validateClosed enforces the monomorphization postcondition: no type
// parameter and no inference variable survives anywhere in the output.
func validateClosed(mm *MonoUnit, in *types.Interner) error {
	if mm == nil {
		return nil
	}
	for key, mf := range mm.Funcs {
		if mf == nil || mf.Func == nil {
			continue
		}
		for _, p := range mf.Func.Params {
			if err := checkClosed(in, p.Type, mf.Name); err != nil {
				return fmt.Errorf("func %s (key %v): %w", mf.Name, key, err)
			}
		}
		if err := checkClosed(in, mf.Func.Result, mf.Name); err != nil {
			return fmt.Errorf("func %s (key %v): %w", mf.Name, key, err)
		}
		var walkErr error
		hir.Walk(mf.Func.Body, func(e *hir.Expr) bool {
			switch data := e.Data.(type) {
			case hir.LetData:
				walkErr = checkClosed(in, data.Annot, mf.Name)
			case hir.CallData:
				for _, a := range data.TypeArgs {
					if walkErr == nil {
						walkErr = checkClosed(in, a, mf.Name)
					}
				}
			case hir.StructLitData:
				for _, a := range data.TypeArgs {
					if walkErr == nil {
						walkErr = checkClosed(in, a, mf.Name)
					}
				}
			case hir.VariantLitData:
				for _, a := range data.TypeArgs {
					if walkErr == nil {
						walkErr = checkClosed(in, a, mf.Name)
					}
				}
			}
			return walkErr == nil
		})
		if walkErr != nil {
			return fmt.Errorf("func %s: %w", mf.Name, walkErr)
		}
	}
	for key, mt := range mm.Types {
		if mt == nil {
			continue
		}
		for _, f := range mt.Fields {
			if err := checkClosed(in, f, mt.Name); err != nil {
				return fmt.Errorf("type %s (key %v): %w", mt.Name, key, err)
			}
		}
		for _, v := range mt.VariantParams {
			for _, p := range v {
				if err := checkClosed(in, p, mt.Name); err != nil {
					return fmt.Errorf("type %s (key %v): %w", mt.Name, key, err)
				}
			}
		}
	}
	return nil
}

func checkClosed(in *types.Interner, id types.TypeID, owner string) error {
	if id == types.NoTypeID {
		return nil
	}
	if in.ContainsParam(id) {
		return fmt.Errorf("type parameter survived in %s: %s", owner, in.Format(id))
	}
	if !in.Resolved(id) {
		return fmt.Errorf("inference variable survived in %s: %s", owner, in.Format(id))
	}
	return nil
}
