package traits

import (
	"testing"

	"tern/internal/source"
	"tern/internal/types"
)

func newTestRegistry() (*Registry, types.Builtins, *types.Interner) {
	in := types.NewInterner(source.NewInterner())
	r := NewRegistry(in)
	return r, in.Builtins(), in
}

func TestDirectRegistration(t *testing.T) {
	r, b, _ := newTestRegistry()
	r.Register("Ord", b.Int)
	r.Freeze()

	if !r.Satisfies(b.Int, "Ord") {
		t.Fatalf("int must satisfy Ord after registration")
	}
	if r.Satisfies(b.String, "Ord") {
		t.Fatalf("string was never registered for Ord")
	}
	if r.Satisfies(b.Int, "Clone") {
		t.Fatalf("unknown bound must not be satisfied")
	}
}

func TestStructuralArrayAndTuple(t *testing.T) {
	r, b, in := newTestRegistry()
	r.Register("Ord", b.Int)
	r.Freeze()

	if !r.Satisfies(in.MakeArray(b.Int), "Ord") {
		t.Fatalf("int[] must satisfy Ord structurally")
	}
	if r.Satisfies(in.MakeArray(b.String), "Ord") {
		t.Fatalf("string[] must not satisfy Ord")
	}
	pair := in.MakeTuple([]types.TypeID{b.Int, b.Int})
	if !r.Satisfies(pair, "Ord") {
		t.Fatalf("(int, int) must satisfy Ord structurally")
	}
	mixed := in.MakeTuple([]types.TypeID{b.Int, b.String})
	if r.Satisfies(mixed, "Ord") {
		t.Fatalf("(int, string) must not satisfy Ord")
	}
}

func TestStructuralOptionResult(t *testing.T) {
	r, b, in := newTestRegistry()
	r.Register("Clone", b.Int)
	r.Register("Clone", b.String)
	r.Freeze()

	opt := in.MakeNamed("Option", []types.TypeID{b.Int})
	if !r.Satisfies(opt, "Clone") {
		t.Fatalf("Option<int> must satisfy Clone structurally")
	}
	res := in.MakeNamed("Result", []types.TypeID{b.Int, b.String})
	if !r.Satisfies(res, "Clone") {
		t.Fatalf("Result<int, string> must satisfy Clone structurally")
	}
	box := in.MakeNamed("Box", []types.TypeID{b.Int})
	if r.Satisfies(box, "Clone") {
		t.Fatalf("user nominal types need direct registration")
	}
}

func TestUnknownSatisfiesEverything(t *testing.T) {
	r, b, _ := newTestRegistry()
	r.Freeze()
	if !r.Satisfies(b.Unknown, "Whatever") {
		t.Fatalf("unknown must satisfy every bound")
	}
}

func TestRegisterAfterFreezePanics(t *testing.T) {
	r, b, _ := newTestRegistry()
	r.Freeze()
	defer func() {
		if recover() == nil {
			t.Fatalf("Register after Freeze must panic")
		}
	}()
	r.Register("Ord", b.Int)
}
