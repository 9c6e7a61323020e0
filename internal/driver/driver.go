// Package driver orchestrates the check pipeline: trait registry
// construction, parallel per-declaration inference, instantiation
// merging, and specialization. The CLI is a thin wrapper over Check.
package driver

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"time"

	"tern/internal/diag"
	"tern/internal/hir"
	"tern/internal/mono"
	"tern/internal/observ"
	"tern/internal/project"
	"tern/internal/sema"
	"tern/internal/trace"
	"tern/internal/traits"
)

// Options configures one pipeline run. The zero value is usable: all
// cores, default budgets, no tracing, no cache.
type Options struct {
	// Jobs caps concurrent declaration checks. <=0 means GOMAXPROCS.
	Jobs int

	Sema sema.Options
	Mono mono.Options

	// Manifest contributes closed-world impl facts; nil means builtins
	// and unit-level impls only.
	Manifest *project.Manifest

	Tracer trace.Tracer

	// Progress, when it is a terminal, gets a live per-declaration
	// progress line during inference.
	Progress io.Writer

	// Cache, when set, lets Check skip units whose digest matches a
	// previously clean run. Force bypasses the lookup but still stores.
	Cache *DiskCache
	Force bool
}

func (o Options) withDefaults() Options {
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.Tracer == nil {
		o.Tracer = trace.Nop
	}
	return o
}

// OptionsFromManifest seeds pipeline options from a project manifest.
func OptionsFromManifest(man *project.Manifest) Options {
	return Options{
		Sema:     man.SemaOptions(),
		Mono:     man.MonoOptions(),
		Manifest: man,
	}
}

// Result is the outcome of one pipeline run. Mono is nil when inference
// found errors or when the run was satisfied from the cache.
type Result struct {
	Unit     *hir.Unit
	Digest   Digest
	CacheHit bool
	Summary  *Summary

	Sema    *sema.Result
	Insts   *mono.InstantiationMap
	Mono    *mono.MonoUnit
	MonoBag *diag.Bag

	Timings observ.Report
}

// HasErrors reports whether any phase produced error diagnostics.
func (r *Result) HasErrors() bool {
	if r.Sema != nil && r.Sema.HasErrors() {
		return true
	}
	return r.MonoBag != nil && r.MonoBag.HasErrors()
}

// Check runs the full pipeline for one unit: trait registry, parallel
// inference, instantiation merge, then specialization. Inference errors
// are reported through the result, not the error return; the error
// return is for infrastructure failures (bad manifest impls, cache I/O,
// cancellation, internal invariant violations).
func Check(ctx context.Context, unit *hir.Unit, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	timer := observ.NewTimer()
	res := &Result{Unit: unit, Digest: UnitDigest(unit)}

	defer trace.Begin(opts.Tracer, trace.ScopeDriver, "check "+unit.Name)()

	if opts.Cache != nil && !opts.Force {
		sum, ok, err := opts.Cache.Get(res.Digest)
		if err != nil {
			return nil, err
		}
		if ok && sum.ErrorCount == 0 {
			trace.Point(opts.Tracer, trace.ScopeDriver, "cache hit", res.Digest.String())
			res.CacheHit = true
			res.Summary = sum
			res.Timings = timer.Report()
			return res, nil
		}
	}

	stop := startPhase(timer, opts.Tracer, "registry")
	reg, err := buildRegistry(unit, opts.Manifest)
	if err != nil {
		return nil, err
	}
	stop("")

	stop = startPhase(timer, opts.Tracer, "infer")
	res.Sema, err = inferAll(ctx, unit, reg, opts)
	if err != nil {
		return nil, err
	}
	res.Insts = mono.NewInstantiationMap()
	sema.MergeResult(unit, res.Sema, mono.NewInstantiationMapRecorder(res.Insts))
	stop(fmt.Sprintf("%d decls, %d instantiations", len(unit.Funcs), res.Insts.Len()))

	if !res.Sema.HasErrors() {
		stop = startPhase(timer, opts.Tracer, "mono")
		res.MonoBag = diag.NewBag(monoBagCap(opts.Sema))
		res.Mono, err = mono.Monomorphize(unit, res.Insts, opts.Mono, diag.BagReporter{Bag: res.MonoBag})
		if err != nil {
			return nil, err
		}
		stop(fmt.Sprintf("%d funcs, %d types", res.Mono.FuncCount(), res.Mono.TypeCount()))
	}

	res.Timings = timer.Report()
	res.Summary = summarize(res)

	if opts.Cache != nil {
		if err := opts.Cache.Put(res.Summary); err != nil {
			// A dead cache must not fail the check.
			trace.Point(opts.Tracer, trace.ScopeDriver, "cache put failed", err.Error())
		}
	}
	return res, nil
}

// startPhase opens one named pipeline phase on both the timer and the
// tracer. The returned func closes both; the note lands in the timing
// report only.
func startPhase(timer *observ.Timer, tracer trace.Tracer, name string) func(note string) {
	endTrace := trace.Begin(tracer, trace.ScopePhase, name)
	stop := timer.Phase(name)
	return func(note string) {
		stop(note)
		endTrace()
	}
}

// buildRegistry freezes the closed world of impl facts: builtins first,
// then the unit's own impl declarations, then manifest facts.
func buildRegistry(unit *hir.Unit, man *project.Manifest) (*traits.Registry, error) {
	reg := traits.NewRegistry(unit.Types)
	traits.RegisterBuiltins(reg, unit.Types.Builtins())
	for _, impl := range unit.Impls {
		reg.Register(impl.Bound, impl.Type)
	}
	if man != nil {
		if err := project.RegisterImpls(man, reg, unit.Types); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}

func monoBagCap(o sema.Options) int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return sema.DefaultOptions().MaxDiagnostics
}

// summarize flattens a completed run into its cacheable form.
func summarize(res *Result) *Summary {
	sum := &Summary{
		UnitName:  res.Unit.Name,
		Digest:    res.Digest,
		CheckedAt: time.Now().UTC(),
	}
	for _, d := range res.Sema.Bag.Items() {
		if d.Severity == diag.SevError {
			sum.ErrorCount++
		}
	}
	if res.MonoBag != nil {
		for _, d := range res.MonoBag.Items() {
			if d.Severity == diag.SevError {
				sum.ErrorCount++
			}
		}
	}
	if res.Mono != nil {
		sum.FuncCount = res.Mono.FuncCount()
		sum.TypeCount = res.Mono.TypeCount()
		for _, mf := range res.Mono.Funcs {
			sum.Specializations = append(sum.Specializations, mf.Name)
		}
		for _, mt := range res.Mono.Types {
			sum.Specializations = append(sum.Specializations, mt.Name)
		}
		sort.Strings(sum.Specializations)
	}
	return sum
}
