package diag

import (
	"testing"

	"tern/internal/source"
)

func TestBagCap(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(NewError(TypeMismatch, source.NoSpan, "boom"))
	}
	if got, want := b.Len(), 2; got != want {
		t.Fatalf("bag len: got=%d want=%d", got, want)
	}
	if !b.HasErrors() {
		t.Fatalf("bag should report errors")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(MissingImpl, source.Span{File: 1, Start: 40, End: 41}, "later"))
	b.Add(NewError(TypeMismatch, source.Span{File: 1, Start: 10, End: 12}, "earlier"))
	b.Sort()
	items := b.Items()
	if items[0].Message != "earlier" || items[1].Message != "later" {
		t.Fatalf("sort order wrong: %q then %q", items[0].Message, items[1].Message)
	}
}

func TestCodeFatal(t *testing.T) {
	if TypeMismatch.Fatal() {
		t.Fatalf("TypeMismatch must be local to the definition")
	}
	for _, c := range []Code{InstLimit, DepthLimit, TypeVarLimit, ConstraintLimit, StepLimit} {
		if !c.Fatal() {
			t.Fatalf("%v must abort the phase", c)
		}
	}
}

func TestBagReporterCollects(t *testing.T) {
	b := NewBag(4)
	var rep Reporter = BagReporter{Bag: b}
	rep.Report(InstLimit, SevError, source.Span{File: 1, Start: 5, End: 9},
		"instantiation budget exceeded", []Note{{Msg: "raise mono.max_instantiations"}})

	if b.Len() != 1 {
		t.Fatalf("len: got=%d want=1", b.Len())
	}
	d := b.Items()[0]
	if d.Code != InstLimit || d.Severity != SevError || len(d.Notes) != 1 {
		t.Fatalf("reported diagnostic mangled: %+v", d)
	}

	NopReporter{}.Report(DepthLimit, SevError, source.NoSpan, "dropped", nil)
	if b.Len() != 1 {
		t.Fatalf("NopReporter must not touch the bag")
	}
}
