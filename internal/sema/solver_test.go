package sema

import (
	"testing"

	"tern/internal/diag"
	"tern/internal/source"
	"tern/internal/traits"
	"tern/internal/types"
)

func newSolverEnv(t *testing.T) (*types.Interner, *traits.Registry, types.Builtins) {
	t.Helper()
	in := types.NewInterner(source.NewInterner())
	reg := traits.NewRegistry(in)
	traits.RegisterBuiltins(reg, in.Builtins())
	reg.Freeze()
	return in, reg, in.Builtins()
}

func TestSolveEqualitiesInOrder(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	v := in.FreshVar()
	cs := []Constraint{
		Equal(v, b.Int, source.NoSpan),
		Equal(v, b.Int, source.NoSpan),
	}
	s := Solve(in, reg, cs, nil, DefaultOptions(), bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if got := s.Apply(v); got != b.Int {
		t.Fatalf("v should resolve to int, got %s", in.Format(got))
	}
}

func TestSolveCollectsAllErrors(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	cs := []Constraint{
		Equal(b.Int, b.Bool, source.NoSpan),
		Equal(b.String, b.Float, source.NoSpan),
	}
	Solve(in, reg, cs, nil, DefaultOptions(), bag)
	if got := bag.Len(); got != 2 {
		t.Fatalf("want 2 diagnostics, got %d: %v", got, bag.Items())
	}
	if !bag.HasCode(diag.TypeMismatch) {
		t.Fatalf("expected TypeMismatch diagnostics")
	}
}

func TestSolveBoundAfterEquality(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	v := in.FreshVar()
	cs := []Constraint{
		Bound(v, "Num", source.NoSpan),
		Equal(v, b.Int, source.NoSpan),
	}
	Solve(in, reg, cs, nil, DefaultOptions(), bag)
	if bag.HasErrors() {
		t.Fatalf("int satisfies Num after unification: %v", bag.Items())
	}
}

func TestSolveMissingImpl(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	sp := source.Span{File: 1, Start: 10, End: 14}
	cs := []Constraint{Bound(b.Bool, "Num", sp)}
	Solve(in, reg, cs, nil, DefaultOptions(), bag)
	if !bag.HasCode(diag.MissingImpl) {
		t.Fatalf("bool must not satisfy Num")
	}
	d := bag.Items()[0]
	if d.Primary != sp {
		t.Fatalf("diagnostic must carry the requirement site, got %+v", d.Primary)
	}
}

func TestSolveUnknownBoundName(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	cs := []Constraint{Bound(b.Int, "Frobnicate", source.NoSpan)}
	Solve(in, reg, cs, nil, DefaultOptions(), bag)
	if !bag.HasCode(diag.UnknownBound) {
		t.Fatalf("unknown bound name must be reported")
	}
}

func TestSolveLiteralDefaultWeakerThanContext(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	v := in.FreshVar()
	vt := in.MustLookup(v)
	defaults := []LiteralDefault{{Var: vt.Var, Type: b.Int}}

	// Context already pinned the literal to float; the default must not fire.
	cs := []Constraint{Equal(v, b.Float, source.NoSpan)}
	s := Solve(in, reg, cs, defaults, DefaultOptions(), bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if got := s.Apply(v); got != b.Float {
		t.Fatalf("context wins over default, got %s", in.Format(got))
	}
}

func TestSolveLiteralDefaultFires(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	v := in.FreshVar()
	vt := in.MustLookup(v)
	s := Solve(in, reg, nil, []LiteralDefault{{Var: vt.Var, Type: b.Int}}, DefaultOptions(), bag)
	if got := s.Apply(v); got != b.Int {
		t.Fatalf("unconstrained literal defaults to int, got %s", in.Format(got))
	}
}

func TestSolveLiteralDefaultChasesRepresentative(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	// The literal's variable is unified into another variable; the default
	// must land on whichever representative is still free.
	lit := in.FreshVar()
	rep := in.FreshVar()
	litT := in.MustLookup(lit)
	cs := []Constraint{Equal(lit, rep, source.NoSpan)}
	s := Solve(in, reg, cs, []LiteralDefault{{Var: litT.Var, Type: b.Int}}, DefaultOptions(), bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if got := s.Apply(rep); got != b.Int {
		t.Fatalf("representative should default to int, got %s", in.Format(got))
	}
	if got := s.Apply(lit); got != b.Int {
		t.Fatalf("literal var should resolve to int, got %s", in.Format(got))
	}
}

func TestSolveParamBoundSatisfiesItself(t *testing.T) {
	in, reg, _ := newSolverEnv(t)
	bag := diag.NewBag(64)

	p := in.MakeParam(types.OwnerID(7), "T")
	cs := []Constraint{
		ParamBounds("T", p, []string{"Ord"}, source.NoSpan),
		Bound(p, "Ord", source.NoSpan),
	}
	Solve(in, reg, cs, nil, DefaultOptions(), bag)
	if bag.HasErrors() {
		t.Fatalf("T: Ord satisfies Ord inside its declaration: %v", bag.Items())
	}
}

func TestSolveParamBoundNotDeclared(t *testing.T) {
	in, reg, _ := newSolverEnv(t)
	bag := diag.NewBag(64)

	p := in.MakeParam(types.OwnerID(7), "T")
	cs := []Constraint{
		ParamBounds("T", p, []string{"Clone"}, source.NoSpan),
		Bound(p, "Ord", source.NoSpan),
	}
	Solve(in, reg, cs, nil, DefaultOptions(), bag)
	if !bag.HasCode(diag.MissingImpl) {
		t.Fatalf("T: Clone must not satisfy Ord")
	}
}

func TestSolveStructuralArrayBound(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	cs := []Constraint{Bound(in.MakeArray(b.Int), "Eq", source.NoSpan)}
	Solve(in, reg, cs, nil, DefaultOptions(), bag)
	if bag.HasErrors() {
		t.Fatalf("int[] satisfies Eq structurally: %v", bag.Items())
	}
}

func TestSolveUnknownSatisfiesAnyBound(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	cs := []Constraint{Bound(b.Unknown, "Ord", source.NoSpan)}
	Solve(in, reg, cs, nil, DefaultOptions(), bag)
	if bag.HasErrors() {
		t.Fatalf("unknown satisfies every bound: %v", bag.Items())
	}
}

func TestSolveConstraintBudget(t *testing.T) {
	in, reg, b := newSolverEnv(t)
	bag := diag.NewBag(64)

	opts := DefaultOptions()
	opts.MaxConstraints = 1
	cs := []Constraint{
		Equal(b.Int, b.Int, source.NoSpan),
		Equal(b.Int, b.Int, source.NoSpan),
	}
	Solve(in, reg, cs, nil, opts, bag)
	if !bag.HasCode(diag.ConstraintLimit) {
		t.Fatalf("constraint budget must trip")
	}
}
