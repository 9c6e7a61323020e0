package sema

import (
	"fmt"

	"tern/internal/diag"
	"tern/internal/hir"
	"tern/internal/source"
	"tern/internal/symbols"
	"tern/internal/traits"
	"tern/internal/types"
)

// DeclResult is the outcome of inferring one declaration: its private
// expression-type map, the generic instantiations it demands, and any
// diagnostics. Read-only once produced.
type DeclResult struct {
	Sym       symbols.SymbolID
	ExprTypes map[hir.ExprID]types.TypeID
	Insts     []CallInst
	Bag       *diag.Bag
	IllTyped  bool
}

// Result aggregates per-declaration inference results for a unit.
type Result struct {
	Unit  *hir.Unit
	Decls map[symbols.SymbolID]*DeclResult
	Bag   *diag.Bag
}

// TypeOf resolves an expression's final concrete type across all
// declarations of the unit.
func (r *Result) TypeOf(id hir.ExprID) types.TypeID {
	for _, d := range r.Decls {
		if t, ok := d.ExprTypes[id]; ok {
			return t
		}
	}
	return types.NoTypeID
}

// HasErrors reports whether any declaration failed.
func (r *Result) HasErrors() bool {
	return r.Bag.HasErrors()
}

// inferencer walks one function body, assigning provisional types and
// emitting constraints. One instance per declaration; never shared.
type inferencer struct {
	unit      *hir.Unit
	in        *types.Interner
	opts      Options
	fn        *hir.Func
	bag       *diag.Bag
	cs        []Constraint
	defaults  []LiteralDefault
	exprTypes map[hir.ExprID]types.TypeID
	pending   []CallInst
	retType   types.TypeID
	steps     int
	exhausted bool
}

// InferFunc runs inference for a single function declaration. The traits
// registry must be frozen. Instantiation recording is the unit level's
// job (see CheckUnit), so results can be withheld for ill-typed callers.
func InferFunc(unit *hir.Unit, reg *traits.Registry, fn *hir.Func, opts Options) *DeclResult {
	opts = opts.withDefaults()
	e := &inferencer{
		unit:      unit,
		in:        unit.Types,
		opts:      opts,
		fn:        fn,
		bag:       diag.NewBag(opts.MaxDiagnostics),
		exprTypes: make(map[hir.ExprID]types.TypeID, 32),
	}
	res := &DeclResult{Sym: fn.SymbolID, Bag: e.bag}

	owner := types.OwnerID(fn.SymbolID)
	env := NewEnv()

	// The declaration's own type parameters are rigid in its body.
	for _, g := range fn.Generics {
		pt := e.in.MakeParam(owner, g.Name)
		e.cs = append(e.cs, ParamBounds(g.Name, pt, g.Bounds, g.Span))
	}

	for _, p := range fn.Params {
		pt := p.Type
		if pt == types.NoTypeID {
			pt = e.freshVar()
		}
		env = env.Bind(p.Name, pt)
	}

	if fn.Result != types.NoTypeID {
		e.retType = fn.Result
	} else {
		e.retType = e.freshVar()
	}

	if fn.Body != nil {
		bodyT := e.inferExpr(fn.Body, env)
		e.cs = append(e.cs, Equal(bodyT, e.retType, fn.Span))
	}

	subst := Solve(e.in, reg, e.cs, e.defaults, e.opts, e.bag)

	// Finalize the expression-type map: apply the substitution, then
	// ground leftover variables to Unknown (gradual fallback).
	res.ExprTypes = make(map[hir.ExprID]types.TypeID, len(e.exprTypes))
	for id, t := range e.exprTypes {
		res.ExprTypes[id] = e.ground(subst.Apply(t))
	}

	// Resolve recorded instantiations. A call site whose type arguments
	// still contain an inference variable is ambiguous: fatal for that
	// site, never silently defaulted.
	for _, p := range e.pending {
		resolved := make([]types.TypeID, len(p.TypeArgs))
		ambiguous := false
		for i, a := range p.TypeArgs {
			resolved[i] = subst.Apply(a)
			if !e.in.Resolved(resolved[i]) {
				ambiguous = true
			}
		}
		if ambiguous {
			callee := unit.Table.Name(p.Callee)
			e.bag.Add(diag.NewError(diag.AmbiguousInst, p.Span,
				fmt.Sprintf("cannot resolve type arguments of %s; annotate the call site", callee)))
			continue
		}
		res.Insts = append(res.Insts, CallInst{
			Callee:   p.Callee,
			TypeArgs: resolved,
			Span:     p.Span,
			IsType:   p.IsType,
		})
	}

	res.IllTyped = e.bag.HasErrors()
	return res
}

// CheckUnit infers every declaration of the unit sequentially, merges the
// diagnostics, emits cascade notes for callers of ill-typed definitions,
// and records instantiations of healthy declarations.
func CheckUnit(unit *hir.Unit, reg *traits.Registry, rec InstantiationRecorder, opts Options) *Result {
	opts = opts.withDefaults()
	res := &Result{
		Unit:  unit,
		Decls: make(map[symbols.SymbolID]*DeclResult, len(unit.Funcs)),
		Bag:   diag.NewBag(opts.MaxDiagnostics * (len(unit.Funcs) + 1)),
	}
	for _, fn := range unit.Funcs {
		res.Decls[fn.SymbolID] = InferFunc(unit, reg, fn, opts)
	}
	MergeResult(unit, res, rec)
	return res
}

// MergeResult folds per-declaration results into the unit result: bags are
// merged, cascade notes added, and instantiations of healthy declarations
// recorded. Used by CheckUnit and by the parallel driver.
func MergeResult(unit *hir.Unit, res *Result, rec InstantiationRecorder) {
	for _, fn := range unit.Funcs {
		d := res.Decls[fn.SymbolID]
		if d == nil {
			continue
		}
		res.Bag.Extend(d.Bag)
		if d.IllTyped {
			continue
		}
		for _, inst := range d.Insts {
			if callee, ok := res.Decls[inst.Callee]; ok && callee.IllTyped {
				res.Bag.Add(diag.New(diag.SevInfo, diag.CascadeIllTyped, inst.Span,
					fmt.Sprintf("%s depends on ill-typed definition %s",
						fn.Name, unit.Table.Name(inst.Callee))))
				continue
			}
			if rec == nil {
				continue
			}
			if inst.IsType {
				rec.RecordTypeInstantiation(inst.Callee, inst.TypeArgs, inst.Span, fn.SymbolID)
			} else {
				rec.RecordFnInstantiation(inst.Callee, inst.TypeArgs, inst.Span, fn.SymbolID)
			}
		}
	}
	res.Bag.Sort()
}

// freshVar allocates an inference variable, honoring the unit-wide budget.
func (e *inferencer) freshVar() types.TypeID {
	if e.in.VarCount() >= e.opts.MaxTypeVars {
		if !e.exhausted {
			e.exhausted = true
			e.bag.Add(diag.NewError(diag.TypeVarLimit, e.fn.Span,
				fmt.Sprintf("type variable budget exceeded (%d)", e.opts.MaxTypeVars)))
		}
		return e.in.Builtins().Unknown
	}
	return e.in.FreshVar()
}

// ground replaces any remaining inference variable with Unknown: the
// gradual end of the precedence chain annotation > context > default.
func (e *inferencer) ground(id types.TypeID) types.TypeID {
	if e.in.Resolved(id) {
		return id
	}
	tt, ok := e.in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case types.KindVar:
		return e.in.Builtins().Unknown
	case types.KindArray, types.KindRef:
		next := tt
		next.Elem = e.ground(tt.Elem)
		return e.in.Intern(next)
	case types.KindTuple, types.KindNamed, types.KindFunc:
		args := e.in.Args(tt.Args)
		out := make([]types.TypeID, len(args))
		for i, a := range args {
			out[i] = e.ground(a)
		}
		next := tt
		next.Args = e.in.InternArgs(out)
		if tt.Kind == types.KindFunc {
			next.Ret = e.ground(tt.Ret)
		}
		return e.in.Intern(next)
	default:
		return id
	}
}

// note records the provisional type of an expression.
func (e *inferencer) note(expr *hir.Expr, id types.TypeID) types.TypeID {
	e.exprTypes[expr.ID] = id
	return id
}

func (e *inferencer) errorType(code diag.Code, span source.Span, msg string) types.TypeID {
	e.bag.Add(diag.NewError(code, span, msg))
	return e.in.Builtins().Unknown
}
