package types

import (
	"testing"
)

func TestSubstBindAndApply(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	s := NewSubst(in)

	v := in.MustLookup(in.FreshVar()).Var
	if err := s.Bind(v, b.Int); err != nil {
		t.Fatalf("bind: %v", err)
	}
	varID := in.Intern(Type{Kind: KindVar, Var: v})
	if got := s.Apply(in.MakeArray(varID)); got != in.MakeArray(b.Int) {
		t.Fatalf("apply: got=%s want=int[]", in.Format(got))
	}
}

func TestSubstApplyIdempotent(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	s := NewSubst(in)

	v1 := in.FreshVar()
	v2 := in.FreshVar()
	tv1 := in.MustLookup(v1).Var
	tv2 := in.MustLookup(v2).Var

	// Chained bindings: t1 := Box<t2>, t2 := int.
	if err := s.Bind(tv1, in.MakeNamed("Box", []TypeID{v2})); err != nil {
		t.Fatalf("bind t1: %v", err)
	}
	if err := s.Bind(tv2, b.Int); err != nil {
		t.Fatalf("bind t2: %v", err)
	}

	once := s.Apply(v1)
	twice := s.Apply(once)
	if once != twice {
		t.Fatalf("apply not idempotent: %s then %s", in.Format(once), in.Format(twice))
	}
	if want := in.MakeNamed("Box", []TypeID{b.Int}); once != want {
		t.Fatalf("apply: got=%s want=Box<int>", in.Format(once))
	}
	if !in.Resolved(once) {
		t.Fatalf("fully bound result must be resolved")
	}
}

func TestSubstOccursCheck(t *testing.T) {
	in := newTestInterner()
	s := NewSubst(in)

	v := in.FreshVar()
	tv := in.MustLookup(v).Var
	selfArray := in.MakeArray(v)
	if err := s.Bind(tv, selfArray); err == nil {
		t.Fatalf("binding t := t[] must fail the occurs check")
	}
	// Binding through another variable must be caught too.
	v2 := in.FreshVar()
	tv2 := in.MustLookup(v2).Var
	if err := s.Bind(tv2, v); err != nil {
		t.Fatalf("bind t2 := t1: %v", err)
	}
	if err := s.Bind(tv, in.MakeArray(v2)); err == nil {
		t.Fatalf("indirect occurs (t1 := t2[], t2 := t1) must fail")
	}
}

func TestSubstBindSelfIsNoOp(t *testing.T) {
	in := newTestInterner()
	s := NewSubst(in)
	v := in.FreshVar()
	tv := in.MustLookup(v).Var
	if err := s.Bind(tv, v); err != nil {
		t.Fatalf("t := t should be a no-op, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("no binding expected, got %d", s.Len())
	}
}

func TestFreeVars(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	v1 := in.FreshVar()
	v2 := in.FreshVar()
	fn := in.MakeFunc([]TypeID{v1, b.Int, v2}, v1)
	vars := in.FreeVars(fn, nil)
	if len(vars) != 2 {
		t.Fatalf("free vars: got=%d want=2", len(vars))
	}
}
