package mono

import (
	"slices"

	"tern/internal/hir"
)

// cloneFunc deep-copies a function declaration so specialization can
// rewrite types and call targets without touching the original unit.
func cloneFunc(fn *hir.Func) *hir.Func {
	if fn == nil {
		return nil
	}
	out := *fn
	out.Params = slices.Clone(fn.Params)
	out.Generics = nil
	out.Body = cloneExpr(fn.Body)
	return &out
}

// cloneExpr deep-copies an expression tree. IDs and spans are preserved;
// the clone belongs to the specialized function only and is never shared
// with the source unit.
func cloneExpr(e *hir.Expr) *hir.Expr {
	if e == nil {
		return nil
	}
	out := *e
	switch data := e.Data.(type) {
	case hir.CallData:
		d := data
		d.TypeArgs = slices.Clone(data.TypeArgs)
		d.Args = cloneExprs(data.Args)
		out.Data = d
	case hir.StructLitData:
		d := data
		d.TypeArgs = slices.Clone(data.TypeArgs)
		d.Fields = make([]hir.FieldInit, len(data.Fields))
		for i, f := range data.Fields {
			d.Fields[i] = hir.FieldInit{Name: f.Name, Value: cloneExpr(f.Value)}
		}
		out.Data = d
	case hir.VariantLitData:
		d := data
		d.TypeArgs = slices.Clone(data.TypeArgs)
		d.Args = cloneExprs(data.Args)
		out.Data = d
	case hir.FieldAccessData:
		d := data
		d.Object = cloneExpr(data.Object)
		out.Data = d
	case hir.IndexData:
		d := data
		d.Object = cloneExpr(data.Object)
		d.Index = cloneExpr(data.Index)
		out.Data = d
	case hir.ArrayLitData:
		d := data
		d.Elems = cloneExprs(data.Elems)
		out.Data = d
	case hir.TupleLitData:
		d := data
		d.Elems = cloneExprs(data.Elems)
		out.Data = d
	case hir.UnaryData:
		d := data
		d.Operand = cloneExpr(data.Operand)
		out.Data = d
	case hir.BinaryData:
		d := data
		d.Left = cloneExpr(data.Left)
		d.Right = cloneExpr(data.Right)
		out.Data = d
	case hir.RefData:
		d := data
		d.Operand = cloneExpr(data.Operand)
		out.Data = d
	case hir.IfData:
		d := data
		d.Cond = cloneExpr(data.Cond)
		d.Then = cloneExpr(data.Then)
		d.Else = cloneExpr(data.Else)
		out.Data = d
	case hir.BlockData:
		d := data
		d.Exprs = cloneExprs(data.Exprs)
		out.Data = d
	case hir.LetData:
		d := data
		d.Value = cloneExpr(data.Value)
		out.Data = d
	case hir.ReturnData:
		d := data
		d.Value = cloneExpr(data.Value)
		out.Data = d
	}
	return &out
}

func cloneExprs(in []*hir.Expr) []*hir.Expr {
	if in == nil {
		return nil
	}
	out := make([]*hir.Expr, len(in))
	for i, e := range in {
		out[i] = cloneExpr(e)
	}
	return out
}
