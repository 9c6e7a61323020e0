package hir

// Walk calls fn for expr and every expression reachable from it, parents
// before children. Traversal stops early when fn returns false.
func Walk(expr *Expr, fn func(*Expr) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	switch data := expr.Data.(type) {
	case CallData:
		for _, a := range data.Args {
			Walk(a, fn)
		}
	case StructLitData:
		for _, f := range data.Fields {
			Walk(f.Value, fn)
		}
	case VariantLitData:
		for _, a := range data.Args {
			Walk(a, fn)
		}
	case FieldAccessData:
		Walk(data.Object, fn)
	case IndexData:
		Walk(data.Object, fn)
		Walk(data.Index, fn)
	case ArrayLitData:
		for _, e := range data.Elems {
			Walk(e, fn)
		}
	case TupleLitData:
		for _, e := range data.Elems {
			Walk(e, fn)
		}
	case UnaryData:
		Walk(data.Operand, fn)
	case BinaryData:
		Walk(data.Left, fn)
		Walk(data.Right, fn)
	case RefData:
		Walk(data.Operand, fn)
	case IfData:
		Walk(data.Cond, fn)
		Walk(data.Then, fn)
		Walk(data.Else, fn)
	case BlockData:
		for _, e := range data.Exprs {
			Walk(e, fn)
		}
	case LetData:
		Walk(data.Value, fn)
	case ReturnData:
		Walk(data.Value, fn)
	}
}
