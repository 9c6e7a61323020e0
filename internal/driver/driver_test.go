package driver

import (
	"context"
	"slices"
	"testing"

	"tern/internal/hir"
	"tern/internal/source"
	"tern/internal/testkit"
	"tern/internal/types"
)

func span(n uint32) source.Span {
	return source.Span{File: 1, Start: n, End: n + 1}
}

// identityUnit builds `fn identity<T>(x: T) -> T { x }` plus a main that
// instantiates it at int and bool.
func identityUnit(name string) *hir.Unit {
	u := hir.NewUnit(name)

	identity := u.DeclareFunc("identity",
		[]hir.GenericParam{{Name: "T"}},
		nil, types.NoTypeID, 0, source.NoSpan)
	tp := u.Types.MakeParam(types.OwnerID(identity.SymbolID), "T")
	identity.Params = []hir.Param{{Name: "x", Type: tp}}
	identity.Result = tp
	u.SetBody(identity, u.Var("x", source.NoSpan))

	main := u.DeclareFunc("main", nil, nil, types.NoTypeID, hir.FuncEntrypoint, source.NoSpan)
	u.SetBody(main, u.Block([]*hir.Expr{
		u.Call(identity.SymbolID, []*hir.Expr{u.IntLit(1, span(10))}, span(11)),
		u.Call(identity.SymbolID, []*hir.Expr{u.BoolLit(true, span(20))}, span(21)),
	}, source.NoSpan))

	return u
}

// brokenUnit calls an Ord-bounded function with bool, which never
// implements Ord.
func brokenUnit() *hir.Unit {
	u := hir.NewUnit("broken")

	least := u.DeclareFunc("least",
		[]hir.GenericParam{{Name: "T", Bounds: []string{"Ord"}}},
		nil, types.NoTypeID, 0, source.NoSpan)
	tp := u.Types.MakeParam(types.OwnerID(least.SymbolID), "T")
	least.Params = []hir.Param{{Name: "x", Type: tp}}
	least.Result = tp
	u.SetBody(least, u.Var("x", source.NoSpan))

	main := u.DeclareFunc("main", nil, nil, types.NoTypeID, hir.FuncEntrypoint, source.NoSpan)
	u.SetBody(main, u.Call(least.SymbolID, []*hir.Expr{u.BoolLit(true, span(30))}, span(31)))

	return u
}

func specializations(t *testing.T, res *Result) []string {
	t.Helper()
	if res.Summary == nil {
		t.Fatal("result has no summary")
	}
	return res.Summary.Specializations
}

func TestCheckPipeline(t *testing.T) {
	unit := identityUnit("app")
	if err := testkit.CheckUnitInvariants(unit); err != nil {
		t.Fatalf("malformed test unit: %v", err)
	}

	res, err := Check(context.Background(), unit, Options{Jobs: 4})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Sema.Bag.Items())
	}
	if res.Mono == nil {
		t.Fatal("expected a specialized unit")
	}

	got := specializations(t, res)
	want := []string{"identity<bool>", "identity<int>", "main"}
	if !slices.Equal(got, want) {
		t.Fatalf("specializations = %v, want %v", got, want)
	}
	if res.Summary.ErrorCount != 0 {
		t.Fatalf("ErrorCount = %d, want 0", res.Summary.ErrorCount)
	}

	var phases []string
	for _, p := range res.Timings.Phases {
		phases = append(phases, p.Name)
	}
	if !slices.Equal(phases, []string{"registry", "infer", "mono"}) {
		t.Fatalf("phases = %v", phases)
	}
}

func TestCheckDeterministicAcrossJobCounts(t *testing.T) {
	var want []string
	for _, jobs := range []int{1, 2, 8} {
		res, err := Check(context.Background(), identityUnit("app"), Options{Jobs: jobs})
		if err != nil {
			t.Fatalf("Check(jobs=%d): %v", jobs, err)
		}
		got := specializations(t, res)
		if want == nil {
			want = got
			continue
		}
		if !slices.Equal(got, want) {
			t.Fatalf("jobs=%d specializations = %v, want %v", jobs, got, want)
		}
	}
}

func TestCheckReportsInferenceErrors(t *testing.T) {
	res, err := Check(context.Background(), brokenUnit(), Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.HasErrors() {
		t.Fatal("expected bound violation diagnostics")
	}
	if res.Mono != nil {
		t.Fatal("ill-typed unit must not be specialized")
	}
	if res.Summary.ErrorCount == 0 {
		t.Fatal("summary must count the errors")
	}
}

func TestCheckCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Check(ctx, identityUnit("app"), Options{Jobs: 1}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestCheckCacheHitSkipsCleanUnit(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	opts := Options{Cache: cache}

	first, err := Check(context.Background(), identityUnit("app"), opts)
	if err != nil {
		t.Fatalf("first Check: %v", err)
	}
	if first.CacheHit {
		t.Fatal("first run must not hit the cache")
	}

	second, err := Check(context.Background(), identityUnit("app"), opts)
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if !second.CacheHit {
		t.Fatal("identical unit must be served from the cache")
	}
	if second.Mono != nil {
		t.Fatal("cache hit must skip specialization")
	}
	if !slices.Equal(second.Summary.Specializations, first.Summary.Specializations) {
		t.Fatalf("cached summary = %v, want %v",
			second.Summary.Specializations, first.Summary.Specializations)
	}

	opts.Force = true
	forced, err := Check(context.Background(), identityUnit("app"), opts)
	if err != nil {
		t.Fatalf("forced Check: %v", err)
	}
	if forced.CacheHit {
		t.Fatal("Force must bypass the cache lookup")
	}
}

func TestCheckErroredRunIsNeverServedFromCache(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	opts := Options{Cache: cache}

	if _, err := Check(context.Background(), brokenUnit(), opts); err != nil {
		t.Fatalf("first Check: %v", err)
	}
	second, err := Check(context.Background(), brokenUnit(), opts)
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if second.CacheHit {
		t.Fatal("errored runs must be re-checked so diagnostics are reproduced")
	}
	if !second.HasErrors() {
		t.Fatal("re-check must reproduce the diagnostics")
	}
}

func TestUnitDigestStableAndBodySensitive(t *testing.T) {
	a := UnitDigest(identityUnit("app"))
	b := UnitDigest(identityUnit("app"))
	if a != b {
		t.Fatal("identical units must digest identically")
	}

	changed := identityUnit("app")
	main := changed.Funcs[1]
	changed.SetBody(main, changed.Call(changed.Funcs[0].SymbolID,
		[]*hir.Expr{changed.FloatLit(2.5, span(40))}, span(41)))
	if UnitDigest(changed) == a {
		t.Fatal("body change must change the digest")
	}

	renamed := identityUnit("other")
	if UnitDigest(renamed) == a {
		t.Fatal("unit name must participate in the digest")
	}
}
