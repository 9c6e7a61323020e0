// Package testkit holds structural invariant checks that tests run
// against hand-built units before feeding them to the pipeline.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tern/internal/hir"
)

// CheckUnitInvariants verifies the structural invariants every
// well-formed unit satisfies:
//  1. expression IDs are unique across the unit and below ExprCount
//  2. every call, struct literal, and variant literal points at a
//     declared symbol of the matching declaration kind
//  3. no function body reuses an expression node of another function
func CheckUnitInvariants(u *hir.Unit) error {
	if u == nil {
		return fmt.Errorf("nil unit")
	}
	count, err := safecast.Conv[hir.ExprID](u.ExprCount())
	if err != nil {
		return fmt.Errorf("expr count overflow: %w", err)
	}

	owner := make(map[hir.ExprID]string, u.ExprCount())
	for _, fn := range u.Funcs {
		var walkErr error
		hir.Walk(fn.Body, func(e *hir.Expr) bool {
			if walkErr != nil {
				return false
			}
			if e.ID == hir.NoExprID || e.ID > count {
				walkErr = fmt.Errorf("%s: expression id %d out of range [1, %d]", fn.Name, e.ID, count)
				return false
			}
			if prev, dup := owner[e.ID]; dup {
				walkErr = fmt.Errorf("%s: expression id %d already used by %s", fn.Name, e.ID, prev)
				return false
			}
			owner[e.ID] = fn.Name

			switch data := e.Data.(type) {
			case hir.CallData:
				if u.FuncBySym(data.Callee) == nil {
					walkErr = fmt.Errorf("%s: call targets unknown function symbol %d", fn.Name, data.Callee)
					return false
				}
			case hir.StructLitData:
				if u.StructBySym(data.Struct) == nil {
					walkErr = fmt.Errorf("%s: struct literal targets unknown struct symbol %d", fn.Name, data.Struct)
					return false
				}
			case hir.VariantLitData:
				if u.EnumBySym(data.Enum) == nil {
					walkErr = fmt.Errorf("%s: variant literal targets unknown enum symbol %d", fn.Name, data.Enum)
					return false
				}
			}
			return true
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}
