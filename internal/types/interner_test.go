package types

import (
	"testing"

	"tern/internal/source"
)

func newTestInterner() *Interner {
	return NewInterner(source.NewInterner())
}

func TestInternDeduplicates(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	a1 := in.MakeArray(b.Int)
	a2 := in.MakeArray(b.Int)
	if a1 != a2 {
		t.Fatalf("structurally equal arrays interned twice: %d vs %d", a1, a2)
	}
	box1 := in.MakeNamed("Box", []TypeID{b.Int})
	box2 := in.MakeNamed("Box", []TypeID{b.Int})
	if box1 != box2 {
		t.Fatalf("Box<int> interned twice: %d vs %d", box1, box2)
	}
	nested := in.MakeNamed("Box", []TypeID{box1})
	if nested == box1 {
		t.Fatalf("Box<Box<int>> must differ from Box<int>")
	}
}

func TestFreshVarsDistinct(t *testing.T) {
	in := newTestInterner()
	v1 := in.FreshVar()
	v2 := in.FreshVar()
	if v1 == v2 {
		t.Fatalf("fresh vars must be distinct, both %d", v1)
	}
	if got, want := in.VarCount(), 2; got != want {
		t.Fatalf("var count: got=%d want=%d", got, want)
	}
}

func TestConcrete(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	v := in.FreshVar()
	p := in.MakeParam(NoOwnerID, "T")

	cases := []struct {
		name string
		id   TypeID
		want bool
	}{
		{"int", b.Int, true},
		{"array of int", in.MakeArray(b.Int), true},
		{"var", v, false},
		{"array of var", in.MakeArray(v), false},
		{"rigid param", p, false},
		{"unknown", b.Unknown, false},
		{"fn(int)->bool", in.MakeFunc([]TypeID{b.Int}, b.Bool), true},
	}
	for _, tc := range cases {
		if got := in.Concrete(tc.id); got != tc.want {
			t.Errorf("%s: concrete got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestFormatNested(t *testing.T) {
	in := newTestInterner()
	b := in.Builtins()
	box := in.MakeNamed("Box", []TypeID{b.Int})
	nested := in.MakeNamed("Box", []TypeID{box})
	if got, want := in.Format(nested), "Box<Box<int>>"; got != want {
		t.Fatalf("format: got=%q want=%q", got, want)
	}
	fn := in.MakeFunc([]TypeID{b.Int, b.Bool}, in.MakeArray(b.String))
	if got, want := in.Format(fn), "fn(int, bool) -> string[]"; got != want {
		t.Fatalf("format: got=%q want=%q", got, want)
	}
}
