package driver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tern/internal/diag"
	"tern/internal/hir"
	"tern/internal/sema"
	"tern/internal/symbols"
	"tern/internal/traits"
	"tern/internal/ui"
)

// inferAll checks every declaration concurrently. Each goroutine writes
// only its own slot of the results slice, so no mutex is needed; merging
// into the shared bag happens afterwards on one goroutine.
func inferAll(ctx context.Context, unit *hir.Unit, reg *traits.Registry, opts Options) (*sema.Result, error) {
	res := &sema.Result{
		Unit:  unit,
		Decls: make(map[symbols.SymbolID]*sema.DeclResult, len(unit.Funcs)),
		Bag:   diag.NewBag(monoBagCap(opts.Sema) * (len(unit.Funcs) + 1)),
	}
	if len(unit.Funcs) == 0 {
		return res, nil
	}

	prog := ui.NewProgress(opts.Progress, "checking "+unit.Name, len(unit.Funcs))
	decls := make([]*sema.DeclResult, len(unit.Funcs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(unit.Funcs)))
	for i, fn := range unit.Funcs {
		i, fn := i, fn
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			decls[i] = sema.InferFunc(unit, reg, fn, opts.Sema)
			prog.Step(fn.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	prog.Done("checked")

	for i, fn := range unit.Funcs {
		res.Decls[fn.SymbolID] = decls[i]
	}
	return res, nil
}
