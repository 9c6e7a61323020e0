package mono

import (
	"slices"
	"testing"

	"tern/internal/diag"
	"tern/internal/hir"
	"tern/internal/sema"
	"tern/internal/source"
	"tern/internal/traits"
	"tern/internal/types"
)

func span(n uint32) source.Span {
	return source.Span{File: 1, Start: n, End: n + 1}
}

// checkAndMonomorphize runs the full pipeline: inference with an
// instantiation recorder, then specialization.
func checkAndMonomorphize(t *testing.T, u *hir.Unit, opt Options) (*MonoUnit, *diag.Bag) {
	t.Helper()

	reg := traits.NewRegistry(u.Types)
	traits.RegisterBuiltins(reg, u.Types.Builtins())
	for _, impl := range u.Impls {
		reg.Register(impl.Bound, impl.Type)
	}
	reg.Freeze()

	instMap := NewInstantiationMap()
	res := sema.CheckUnit(u, reg, NewInstantiationMapRecorder(instMap), sema.DefaultOptions())
	if res.HasErrors() {
		t.Fatalf("sema errors: %v", res.Bag.Items())
	}

	bag := diag.NewBag(64)
	mm, err := Monomorphize(u, instMap, opt, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("monomorphize: %v", err)
	}
	return mm, bag
}

func declareIdentity(u *hir.Unit) *hir.Func {
	fn := u.DeclareFunc("identity",
		[]hir.GenericParam{{Name: "T"}},
		nil, types.NoTypeID, 0, source.NoSpan)
	tp := u.Types.MakeParam(types.OwnerID(fn.SymbolID), "T")
	fn.Params = []hir.Param{{Name: "x", Type: tp}}
	fn.Result = tp
	u.SetBody(fn, u.Var("x", source.NoSpan))
	return fn
}

func monoNames(mm *MonoUnit) []string {
	names := make([]string, 0, len(mm.Funcs))
	for _, mf := range mm.Funcs {
		names = append(names, mf.Name)
	}
	slices.Sort(names)
	return names
}

func TestMonomorphizeIdentityAcrossTypes(t *testing.T) {
	u := hir.NewUnit("main")
	b := u.Types.Builtins()
	identity := declareIdentity(u)

	main := u.DeclareFunc("main", nil, nil, b.Unit, hir.FuncEntrypoint, source.NoSpan)
	u.SetBody(main, u.Block([]*hir.Expr{
		u.Let("a", types.NoTypeID, u.Call(identity.SymbolID, []*hir.Expr{u.IntLit(1, span(10))}, span(1)), source.NoSpan),
		u.Let("b", types.NoTypeID, u.Call(identity.SymbolID, []*hir.Expr{u.BoolLit(true, span(20))}, span(2)), source.NoSpan),
		u.Let("c", types.NoTypeID, u.Call(identity.SymbolID, []*hir.Expr{u.FloatLit(1.5, span(30))}, span(3)), source.NoSpan),
		u.UnitLit(source.NoSpan),
	}, source.NoSpan))

	mm, bag := checkAndMonomorphize(t, u, Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	want := []string{"identity<bool>", "identity<float>", "identity<int>", "main"}
	if got := monoNames(mm); !slices.Equal(got, want) {
		t.Fatalf("specializations: got %v want %v", got, want)
	}
	if err := validateClosed(mm, u.Types); err != nil {
		t.Fatalf("open types in output: %v", err)
	}
}

func TestMonomorphizeDeduplicatesRepeatedDemand(t *testing.T) {
	u := hir.NewUnit("main")
	b := u.Types.Builtins()
	identity := declareIdentity(u)

	// identity(identity(identity(1))): one specialization, three sites.
	inner := u.Call(identity.SymbolID, []*hir.Expr{u.IntLit(1, span(10))}, span(1))
	mid := u.Call(identity.SymbolID, []*hir.Expr{inner}, span(2))
	outer := u.Call(identity.SymbolID, []*hir.Expr{mid}, span(3))
	main := u.DeclareFunc("main", nil, nil, b.Unit, hir.FuncEntrypoint, source.NoSpan)
	u.SetBody(main, u.Block([]*hir.Expr{
		u.Let("a", types.NoTypeID, outer, source.NoSpan),
		u.UnitLit(source.NoSpan),
	}, source.NoSpan))

	mm, bag := checkAndMonomorphize(t, u, Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []string{"identity<int>", "main"}
	if got := monoNames(mm); !slices.Equal(got, want) {
		t.Fatalf("specializations: got %v want %v", got, want)
	}
}

func TestMonomorphizeNestedGenericCall(t *testing.T) {
	u := hir.NewUnit("main")
	b := u.Types.Builtins()
	identity := declareIdentity(u)

	// fn wrap<T>(x: T) -> T { identity(x) }
	wrap := u.DeclareFunc("wrap",
		[]hir.GenericParam{{Name: "T"}},
		nil, types.NoTypeID, 0, source.NoSpan)
	tp := u.Types.MakeParam(types.OwnerID(wrap.SymbolID), "T")
	wrap.Params = []hir.Param{{Name: "x", Type: tp}}
	wrap.Result = tp
	u.SetBody(wrap, u.Call(identity.SymbolID, []*hir.Expr{u.Var("x", source.NoSpan)}, span(5)))

	main := u.DeclareFunc("main", nil, nil, b.Unit, hir.FuncEntrypoint, source.NoSpan)
	u.SetBody(main, u.Block([]*hir.Expr{
		u.Let("a", types.NoTypeID, u.Call(wrap.SymbolID, []*hir.Expr{u.IntLit(1, span(10))}, span(1)), source.NoSpan),
		u.Let("b", types.NoTypeID, u.Call(wrap.SymbolID, []*hir.Expr{u.StringLit("x", span(20))}, span(2)), source.NoSpan),
		u.UnitLit(source.NoSpan),
	}, source.NoSpan))

	mm, bag := checkAndMonomorphize(t, u, Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []string{"identity<int>", "identity<string>", "main", "wrap<int>", "wrap<string>"}
	if got := monoNames(mm); !slices.Equal(got, want) {
		t.Fatalf("specializations: got %v want %v", got, want)
	}
	if err := validateClosed(mm, u.Types); err != nil {
		t.Fatalf("open types in output: %v", err)
	}

	// The specialized wrap<int> body must call identity<int> directly.
	wrapInt := mm.Funcs[MonoKey{Sym: wrap.SymbolID, ArgsKey: argsKeyFromTypes([]types.TypeID{b.Int})}]
	if wrapInt == nil || wrapInt.Func == nil {
		t.Fatalf("wrap<int> missing")
	}
	var callee *MonoFunc
	hir.Walk(wrapInt.Func.Body, func(e *hir.Expr) bool {
		if call, ok := e.Data.(hir.CallData); ok {
			callee = mm.FuncBySym[call.Callee]
		}
		return true
	})
	if callee == nil || callee.Name != "identity<int>" {
		t.Fatalf("wrap<int> should call identity<int>, got %+v", callee)
	}
}

func TestMonomorphizeNominalIdentityOfTypeArgs(t *testing.T) {
	u := hir.NewUnit("main")
	b := u.Types.Builtins()

	box := u.DeclareStruct("Box", []hir.GenericParam{{Name: "T"}}, nil, source.NoSpan)
	tp := u.Types.MakeParam(types.OwnerID(box.SymbolID), "T")
	box.Fields = []hir.Field{{Name: "value", Type: tp}}

	inner := u.StructLit(box.SymbolID, nil, []hir.FieldInit{
		{Name: "value", Value: u.IntLit(1, span(10))},
	}, span(1))
	outer := u.StructLit(box.SymbolID, nil, []hir.FieldInit{
		{Name: "value", Value: inner},
	}, span(2))
	main := u.DeclareFunc("main", nil, nil, b.Unit, hir.FuncEntrypoint, source.NoSpan)
	u.SetBody(main, u.Block([]*hir.Expr{
		u.Let("a", types.NoTypeID, outer, source.NoSpan),
		u.UnitLit(source.NoSpan),
	}, source.NoSpan))

	mm, bag := checkAndMonomorphize(t, u, Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if got := mm.TypeCount(); got != 2 {
		t.Fatalf("want 2 type specializations, got %d", got)
	}
	names := make([]string, 0, 2)
	for _, mt := range mm.Types {
		names = append(names, mt.Name)
	}
	slices.Sort(names)
	want := []string{"Box<Box<int>>", "Box<int>"}
	if !slices.Equal(names, want) {
		t.Fatalf("type names: got %v want %v", names, want)
	}
}

func TestMonomorphizeSelfReferentialTypeHitsDepthBudget(t *testing.T) {
	u := hir.NewUnit("main")
	b := u.Types.Builtins()

	// struct Spiral<T> { next: Spiral<Spiral<T>> } demands a fresh
	// instantiation at every level.
	spiral := u.DeclareStruct("Spiral", []hir.GenericParam{{Name: "T"}}, nil, source.NoSpan)
	tp := u.Types.MakeParam(types.OwnerID(spiral.SymbolID), "T")
	nested := u.Types.MakeNamed("Spiral", []types.TypeID{u.Types.MakeNamed("Spiral", []types.TypeID{tp})})
	spiral.Fields = []hir.Field{{Name: "next", Type: nested}}

	instMap := NewInstantiationMap()
	instMap.Record(InstType, spiral.SymbolID, []types.TypeID{b.Int}, span(1), 0)

	bag := diag.NewBag(64)
	mm, err := Monomorphize(u, instMap, Options{MaxDepth: 16}, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("budget trip must surface as a diagnostic, got error: %v", err)
	}
	if !bag.HasCode(diag.DepthLimit) {
		t.Fatalf("want DepthLimit diagnostic, got %v", bag.Items())
	}
	if mm == nil {
		t.Fatalf("partial output expected even after the budget trips")
	}
}

func TestMonomorphizeSelfReferentialTypeHitsCountBudget(t *testing.T) {
	u := hir.NewUnit("main")
	b := u.Types.Builtins()

	spiral := u.DeclareStruct("Spiral", []hir.GenericParam{{Name: "T"}}, nil, source.NoSpan)
	tp := u.Types.MakeParam(types.OwnerID(spiral.SymbolID), "T")
	nested := u.Types.MakeNamed("Spiral", []types.TypeID{u.Types.MakeNamed("Spiral", []types.TypeID{tp})})
	spiral.Fields = []hir.Field{{Name: "next", Type: nested}}

	instMap := NewInstantiationMap()
	instMap.Record(InstType, spiral.SymbolID, []types.TypeID{b.Int}, span(1), 0)

	bag := diag.NewBag(64)
	_, err := Monomorphize(u, instMap, Options{MaxDepth: 1 << 20, MaxInstantiations: 8}, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("budget trip must surface as a diagnostic, got error: %v", err)
	}
	if !bag.HasCode(diag.InstLimit) {
		t.Fatalf("want InstLimit diagnostic, got %v", bag.Items())
	}
}

func TestMonomorphizeDeterministicAcrossRuns(t *testing.T) {
	build := func() []string {
		u := hir.NewUnit("main")
		b := u.Types.Builtins()
		identity := declareIdentity(u)
		main := u.DeclareFunc("main", nil, nil, b.Unit, hir.FuncEntrypoint, source.NoSpan)
		u.SetBody(main, u.Block([]*hir.Expr{
			u.Let("a", types.NoTypeID, u.Call(identity.SymbolID, []*hir.Expr{u.IntLit(1, span(10))}, span(1)), source.NoSpan),
			u.Let("b", types.NoTypeID, u.Call(identity.SymbolID, []*hir.Expr{u.StringLit("s", span(20))}, span(2)), source.NoSpan),
			u.UnitLit(source.NoSpan),
		}, source.NoSpan))
		mm, bag := checkAndMonomorphize(t, u, Options{})
		if bag.HasErrors() {
			t.Fatalf("unexpected diagnostics: %v", bag.Items())
		}
		return monoNames(mm)
	}

	first := build()
	for i := 0; i < 5; i++ {
		if got := build(); !slices.Equal(got, first) {
			t.Fatalf("run %d diverged: got %v want %v", i, got, first)
		}
	}
}

func TestMonomorphizeDCE(t *testing.T) {
	u := hir.NewUnit("main")
	b := u.Types.Builtins()
	identity := declareIdentity(u)

	unused := u.DeclareFunc("unused", nil, nil, b.Unit, 0, source.NoSpan)
	u.SetBody(unused, u.UnitLit(source.NoSpan))

	main := u.DeclareFunc("main", nil, nil, b.Unit, hir.FuncEntrypoint, source.NoSpan)
	u.SetBody(main, u.Block([]*hir.Expr{
		u.Let("a", types.NoTypeID, u.Call(identity.SymbolID, []*hir.Expr{u.IntLit(1, span(10))}, span(1)), source.NoSpan),
		u.UnitLit(source.NoSpan),
	}, source.NoSpan))

	mm, bag := checkAndMonomorphize(t, u, Options{EnableDCE: true})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []string{"identity<int>", "main"}
	if got := monoNames(mm); !slices.Equal(got, want) {
		t.Fatalf("after DCE: got %v want %v", got, want)
	}
}
