package sema

import (
	"fmt"

	"tern/internal/diag"
	"tern/internal/hir"
	"tern/internal/source"
	"tern/internal/types"
)

// inferExpr assigns a provisional type to expr and emits the constraints
// its usage context implies. Every expression lands in the type map, even
// on error paths (as Unknown), so downstream stages never miss an entry.
func (e *inferencer) inferExpr(expr *hir.Expr, env Env) types.TypeID {
	if expr == nil {
		return e.in.Builtins().Unit
	}
	e.steps++
	if e.steps > e.opts.MaxSteps {
		if !e.exhausted {
			e.exhausted = true
			e.bag.Add(diag.NewError(diag.StepLimit, expr.Span,
				fmt.Sprintf("inference step budget exceeded (%d)", e.opts.MaxSteps)))
		}
		return e.note(expr, e.in.Builtins().Unknown)
	}
	if e.exhausted {
		return e.note(expr, e.in.Builtins().Unknown)
	}

	b := e.in.Builtins()
	switch data := expr.Data.(type) {
	case hir.LiteralData:
		return e.note(expr, e.inferLiteral(data))

	case hir.VarRefData:
		if t, ok := env.Lookup(data.Name); ok {
			return e.note(expr, t)
		}
		return e.note(expr, e.errorType(diag.UnknownName, expr.Span,
			fmt.Sprintf("unknown name %q", data.Name)))

	case hir.CallData:
		return e.note(expr, e.inferCall(expr, data, env))

	case hir.StructLitData:
		return e.note(expr, e.inferStructLit(expr, data, env))

	case hir.VariantLitData:
		return e.note(expr, e.inferVariantLit(expr, data, env))

	case hir.FieldAccessData:
		return e.note(expr, e.inferFieldAccess(expr, data, env))

	case hir.IndexData:
		objT := e.inferExpr(data.Object, env)
		idxT := e.inferExpr(data.Index, env)
		e.cs = append(e.cs, Equal(idxT, b.Int, data.Index.Span))
		elem := e.freshVar()
		e.cs = append(e.cs, Equal(objT, e.in.MakeArray(elem), expr.Span))
		return e.note(expr, elem)

	case hir.ArrayLitData:
		elem := e.freshVar()
		for _, el := range data.Elems {
			et := e.inferExpr(el, env)
			e.cs = append(e.cs, Equal(et, elem, el.Span))
		}
		return e.note(expr, e.in.MakeArray(elem))

	case hir.TupleLitData:
		elems := make([]types.TypeID, len(data.Elems))
		for i, el := range data.Elems {
			elems[i] = e.inferExpr(el, env)
		}
		return e.note(expr, e.in.MakeTuple(elems))

	case hir.UnaryData:
		opT := e.inferExpr(data.Operand, env)
		switch data.Op {
		case hir.UnaryNot:
			e.cs = append(e.cs, Equal(opT, b.Bool, expr.Span))
			return e.note(expr, b.Bool)
		default: // UnaryNeg
			e.cs = append(e.cs, Bound(opT, "Num", expr.Span))
			return e.note(expr, opT)
		}

	case hir.BinaryData:
		return e.note(expr, e.inferBinary(expr, data, env))

	case hir.RefData:
		opT := e.inferExpr(data.Operand, env)
		return e.note(expr, e.in.MakeRef(opT, data.Mutable))

	case hir.IfData:
		condT := e.inferExpr(data.Cond, env)
		e.cs = append(e.cs, Equal(condT, b.Bool, data.Cond.Span))
		thenT := e.inferExpr(data.Then, env)
		if data.Else == nil {
			return e.note(expr, b.Unit)
		}
		elseT := e.inferExpr(data.Else, env)
		e.cs = append(e.cs, Equal(thenT, elseT, expr.Span))
		return e.note(expr, thenT)

	case hir.BlockData:
		last := b.Unit
		scope := env
		for _, inner := range data.Exprs {
			last = e.inferExpr(inner, scope)
			if let, ok := inner.Data.(hir.LetData); ok {
				scope = scope.Bind(let.Name, e.letBindingType(let))
			}
		}
		return e.note(expr, last)

	case hir.LetData:
		valT := e.inferExpr(data.Value, env)
		if data.Annot != types.NoTypeID {
			e.cs = append(e.cs, Equal(valT, data.Annot, expr.Span))
		}
		return e.note(expr, b.Unit)

	case hir.ReturnData:
		if data.Value == nil {
			e.cs = append(e.cs, Equal(b.Unit, e.retType, expr.Span))
		} else {
			valT := e.inferExpr(data.Value, env)
			e.cs = append(e.cs, Equal(valT, e.retType, expr.Span))
		}
		// Early return never produces a value for the enclosing block.
		return e.note(expr, b.Unknown)

	default:
		return e.note(expr, e.errorType(diag.UnknownCode, expr.Span,
			fmt.Sprintf("internal: unhandled expression kind %s", expr.Kind)))
	}
}

// letBindingType gives the environment binding for a completed let:
// explicit annotation wins over the inferred value type.
func (e *inferencer) letBindingType(data hir.LetData) types.TypeID {
	if data.Annot != types.NoTypeID {
		return data.Annot
	}
	if data.Value != nil {
		if t, ok := e.exprTypes[data.Value.ID]; ok {
			return t
		}
	}
	return e.in.Builtins().Unknown
}

func (e *inferencer) inferLiteral(data hir.LiteralData) types.TypeID {
	b := e.in.Builtins()
	switch data.Kind {
	case hir.LiteralInt:
		v := e.freshVar()
		e.deferDefault(v, b.Int)
		return v
	case hir.LiteralFloat:
		v := e.freshVar()
		e.deferDefault(v, b.Float)
		return v
	case hir.LiteralBool:
		return b.Bool
	case hir.LiteralString:
		return b.String
	default:
		return b.Unit
	}
}

// deferDefault registers a literal default for a fresh variable; no-op
// when the budget already replaced the variable with Unknown.
func (e *inferencer) deferDefault(id, def types.TypeID) {
	tt, ok := e.in.Lookup(id)
	if !ok || tt.Kind != types.KindVar {
		return
	}
	e.defaults = append(e.defaults, LiteralDefault{Var: tt.Var, Type: def})
}

func (e *inferencer) inferBinary(expr *hir.Expr, data hir.BinaryData, env Env) types.TypeID {
	b := e.in.Builtins()
	leftT := e.inferExpr(data.Left, env)
	rightT := e.inferExpr(data.Right, env)
	e.cs = append(e.cs, Equal(leftT, rightT, expr.Span))

	switch {
	case data.Op.IsLogical():
		e.cs = append(e.cs, Equal(leftT, b.Bool, expr.Span))
		return b.Bool
	case data.Op.IsOrdering():
		e.cs = append(e.cs, Bound(leftT, "Ord", expr.Span))
		return b.Bool
	case data.Op.IsComparison():
		e.cs = append(e.cs, Bound(leftT, "Eq", expr.Span))
		return b.Bool
	default: // arithmetic
		e.cs = append(e.cs, Bound(leftT, "Num", expr.Span))
		return leftT
	}
}

// inferCall instantiates the callee's scheme with fresh variables (or the
// explicit type arguments), constrains arguments pairwise, emits the
// callee's declared bounds against the instantiated parameters, and
// registers the instantiation demand.
func (e *inferencer) inferCall(expr *hir.Expr, data hir.CallData, env Env) types.TypeID {
	fn := e.unit.FuncBySym(data.Callee)
	if fn == nil {
		return e.errorType(diag.UnknownName, expr.Span,
			fmt.Sprintf("call target %s is not a function", e.unit.Table.Name(data.Callee)))
	}

	mapping, ordered, ok := e.instantiationMapping(expr.Span, fn.Generics, data.TypeArgs)
	if !ok {
		return e.in.Builtins().Unknown
	}
	owner := types.OwnerID(fn.SymbolID)

	if len(data.Args) != len(fn.Params) {
		e.bag.Add(diag.NewError(diag.ArityMismatch, expr.Span,
			fmt.Sprintf("%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(data.Args))))
	}
	for i, arg := range data.Args {
		argT := e.inferExpr(arg, env)
		if i >= len(fn.Params) {
			continue
		}
		declared := fn.Params[i].Type
		if declared == types.NoTypeID {
			continue // gradual: unannotated parameter constrains nothing
		}
		inst := instantiateType(e.in, declared, owner, mapping)
		e.cs = append(e.cs, Equal(argT, inst, arg.Span))
	}

	for _, g := range fn.Generics {
		subject := mapping[e.in.Strings().Intern(g.Name)]
		for _, bound := range g.Bounds {
			e.cs = append(e.cs, Bound(subject, bound, expr.Span))
		}
	}

	if fn.IsGeneric() {
		e.pending = append(e.pending, CallInst{
			Callee:   fn.SymbolID,
			TypeArgs: ordered,
			Span:     expr.Span,
		})
	}

	if fn.Result == types.NoTypeID {
		return e.in.Builtins().Unknown
	}
	return instantiateType(e.in, fn.Result, owner, mapping)
}

func (e *inferencer) inferStructLit(expr *hir.Expr, data hir.StructLitData, env Env) types.TypeID {
	st := e.unit.StructBySym(data.Struct)
	if st == nil {
		return e.errorType(diag.UnknownName, expr.Span,
			fmt.Sprintf("%s is not a struct", e.unit.Table.Name(data.Struct)))
	}
	owner := types.OwnerID(st.SymbolID)
	mapping, ordered, ok := e.instantiationMapping(expr.Span, st.Generics, data.TypeArgs)
	if !ok {
		return e.in.Builtins().Unknown
	}

	for _, init := range data.Fields {
		valT := e.inferExpr(init.Value, env)
		field := findField(st, init.Name)
		if field == nil {
			e.bag.Add(diag.NewError(diag.UnknownName, init.Value.Span,
				fmt.Sprintf("struct %s has no field %q", st.Name, init.Name)))
			continue
		}
		inst := instantiateType(e.in, field.Type, owner, mapping)
		e.cs = append(e.cs, Equal(valT, inst, init.Value.Span))
	}

	for _, g := range st.Generics {
		subject := mapping[e.in.Strings().Intern(g.Name)]
		for _, bound := range g.Bounds {
			e.cs = append(e.cs, Bound(subject, bound, expr.Span))
		}
	}

	if st.IsGeneric() {
		e.pending = append(e.pending, CallInst{
			Callee:   st.SymbolID,
			TypeArgs: ordered,
			Span:     expr.Span,
			IsType:   true,
		})
	}
	return e.in.MakeNamed(st.Name, ordered)
}

func (e *inferencer) inferVariantLit(expr *hir.Expr, data hir.VariantLitData, env Env) types.TypeID {
	en := e.unit.EnumBySym(data.Enum)
	if en == nil {
		return e.errorType(diag.UnknownName, expr.Span,
			fmt.Sprintf("%s is not an enum", e.unit.Table.Name(data.Enum)))
	}
	owner := types.OwnerID(en.SymbolID)
	mapping, ordered, ok := e.instantiationMapping(expr.Span, en.Generics, data.TypeArgs)
	if !ok {
		return e.in.Builtins().Unknown
	}

	variant := findVariant(en, data.Variant)
	if variant == nil {
		return e.errorType(diag.UnknownName, expr.Span,
			fmt.Sprintf("enum %s has no variant %q", en.Name, data.Variant))
	}
	if len(data.Args) != len(variant.Params) {
		e.bag.Add(diag.NewError(diag.ArityMismatch, expr.Span,
			fmt.Sprintf("variant %s.%s expects %d payloads, got %d",
				en.Name, variant.Name, len(variant.Params), len(data.Args))))
	}
	for i, arg := range data.Args {
		argT := e.inferExpr(arg, env)
		if i >= len(variant.Params) {
			continue
		}
		inst := instantiateType(e.in, variant.Params[i], owner, mapping)
		e.cs = append(e.cs, Equal(argT, inst, arg.Span))
	}

	for _, g := range en.Generics {
		subject := mapping[e.in.Strings().Intern(g.Name)]
		for _, bound := range g.Bounds {
			e.cs = append(e.cs, Bound(subject, bound, expr.Span))
		}
	}

	if en.IsGeneric() {
		e.pending = append(e.pending, CallInst{
			Callee:   en.SymbolID,
			TypeArgs: ordered,
			Span:     expr.Span,
			IsType:   true,
		})
	}
	return e.in.MakeNamed(en.Name, ordered)
}

// inferFieldAccess resolves field access eagerly against the provisional
// object type. Access through an inference variable is rejected: the
// object needs an annotation or a construction site first.
func (e *inferencer) inferFieldAccess(expr *hir.Expr, data hir.FieldAccessData, env Env) types.TypeID {
	objT := e.inferExpr(data.Object, env)
	tt, ok := e.in.Lookup(objT)
	if !ok {
		return e.in.Builtins().Unknown
	}
	// Look through references.
	for tt.Kind == types.KindRef {
		objT = tt.Elem
		tt = e.in.MustLookup(objT)
	}
	switch tt.Kind {
	case types.KindUnknown:
		return e.in.Builtins().Unknown
	case types.KindNamed:
		name := e.in.Strings().MustLookup(tt.Name)
		sym, ok := e.unit.Table.LookupName(name)
		if !ok {
			break
		}
		st := e.unit.StructBySym(sym)
		if st == nil {
			break
		}
		field := findField(st, data.Field)
		if field == nil {
			return e.errorType(diag.UnknownName, expr.Span,
				fmt.Sprintf("struct %s has no field %q", st.Name, data.Field))
		}
		mapping := make(map[source.StringID]types.TypeID, len(st.Generics))
		args := e.in.Args(tt.Args)
		for i, g := range st.Generics {
			if i < len(args) {
				mapping[e.in.Strings().Intern(g.Name)] = args[i]
			}
		}
		return instantiateType(e.in, field.Type, types.OwnerID(st.SymbolID), mapping)
	}
	return e.errorType(diag.UnknownName, expr.Span,
		fmt.Sprintf("cannot access field %q on %s", data.Field, e.in.Format(objT)))
}

// instantiationMapping binds a declaration's type parameters to explicit
// type arguments or fresh variables, returning both the name mapping and
// the declared-order argument list.
func (e *inferencer) instantiationMapping(span source.Span, generics []hir.GenericParam, explicit []types.TypeID) (map[source.StringID]types.TypeID, []types.TypeID, bool) {
	if len(explicit) > 0 && len(explicit) != len(generics) {
		e.bag.Add(diag.NewError(diag.TypeArgCount, span,
			fmt.Sprintf("expected %d type arguments, got %d", len(generics), len(explicit))))
		return nil, nil, false
	}
	mapping := make(map[source.StringID]types.TypeID, len(generics))
	ordered := make([]types.TypeID, len(generics))
	for i, g := range generics {
		var t types.TypeID
		if len(explicit) > 0 {
			t = explicit[i]
		} else {
			t = e.freshVar()
		}
		mapping[e.in.Strings().Intern(g.Name)] = t
		ordered[i] = t
	}
	return mapping, ordered, true
}

func findField(st *hir.Struct, name string) *hir.Field {
	for i := range st.Fields {
		if st.Fields[i].Name == name {
			return &st.Fields[i]
		}
	}
	return nil
}

func findVariant(en *hir.Enum, name string) *hir.Variant {
	for i := range en.Variants {
		if en.Variants[i].Name == name {
			return &en.Variants[i]
		}
	}
	return nil
}
