package mono

import (
	"errors"
	"fmt"
	"strings"

	"tern/internal/diag"
	"tern/internal/hir"
	"tern/internal/source"
	"tern/internal/symbols"
	"tern/internal/types"
)

// Options bounds one monomorphization run.
type Options struct {
	// MaxDepth limits the specialization chain: each nested demand
	// discovered while specializing pushes one level.
	MaxDepth int
	// MaxInstantiations limits total specialized functions plus types.
	MaxInstantiations int
	// EnableDCE drops specializations unreachable from entrypoints.
	EnableDCE bool
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = 64
	}
	if o.MaxInstantiations <= 0 {
		o.MaxInstantiations = 1 << 16
	}
	return o
}

// errLimit unwinds specialization after a budget diagnostic was emitted.
var errLimit = errors.New("mono: budget exceeded")

// Monomorphize specializes every demanded instantiation of the unit into
// concrete functions and types. Budget violations are handed to rep as
// fatal diagnostics and yield a partial unit; internal invariant
// violations (non-concrete arguments, missing records) return an error.
func Monomorphize(unit *hir.Unit, inst *InstantiationMap, opt Options, rep diag.Reporter) (*MonoUnit, error) {
	opt = opt.withDefaults()
	if rep == nil {
		rep = diag.NopReporter{}
	}
	b := newBuilder(unit, inst, opt, rep)
	if err := b.seed(); err != nil {
		if errors.Is(err, errLimit) {
			return b.mm, nil
		}
		return nil, err
	}
	if opt.EnableDCE {
		b.applyDCE()
	}
	if err := validateClosed(b.mm, unit.Types); err != nil {
		return nil, err
	}
	return b.mm, nil
}

type useSiteKey struct {
	Kind   InstantiationKind
	Caller symbols.SymbolID
	Callee symbols.SymbolID
	Span   source.Span
}

type builder struct {
	unit *hir.Unit
	inst *InstantiationMap
	in   *types.Interner
	opt  Options
	rep  diag.Reporter

	origFuncBySym map[symbols.SymbolID]*hir.Func
	useSites      map[useSiteKey][]types.TypeID

	nextSym uint32
	created int

	mm *MonoUnit
}

func newBuilder(unit *hir.Unit, inst *InstantiationMap, opt Options, rep diag.Reporter) *builder {
	b := &builder{
		unit:          unit,
		inst:          inst,
		in:            unit.Types,
		opt:           opt,
		rep:           rep,
		origFuncBySym: make(map[symbols.SymbolID]*hir.Func, len(unit.Funcs)),
		useSites:      make(map[useSiteKey][]types.TypeID),
		nextSym:       1,
		mm: &MonoUnit{
			Source:    unit,
			Funcs:     make(map[MonoKey]*MonoFunc),
			FuncBySym: make(map[symbols.SymbolID]*MonoFunc),
			Types:     make(map[MonoKey]*MonoType),
		},
	}
	for _, fn := range unit.Funcs {
		if fn != nil && fn.SymbolID.IsValid() {
			b.origFuncBySym[fn.SymbolID] = fn
		}
	}
	return b
}

// seed drives the worklist: every non-generic function is specialized
// as-is, then every recorded concrete demand, then the nominal types the
// specialized bodies mention. Iteration order is deterministic
// throughout, so mangled names and registry contents never depend on map
// order.
func (b *builder) seed() error {
	b.indexUseSites()

	for _, fn := range b.unit.Funcs {
		if fn == nil || !fn.SymbolID.IsValid() || fn.IsGeneric() {
			continue
		}
		if _, err := b.ensureFunc(fn.SymbolID, nil, nil); err != nil {
			return err
		}
	}

	for _, e := range b.inst.sortedEntries() {
		if !b.argsClosed(e.TypeArgs) {
			// Open arguments mean the demand came from inside another
			// generic body; it resolves while specializing that body.
			continue
		}
		var err error
		switch e.Kind {
		case InstFn:
			_, err = b.ensureFunc(e.Key.Sym, e.TypeArgs, nil)
		case InstType:
			err = b.ensureType(e.Key.Sym, e.TypeArgs, nil)
		}
		if err != nil {
			return err
		}
	}

	return b.collectTypesFromFuncs()
}

func (b *builder) indexUseSites() {
	if b.inst == nil {
		return
	}
	for _, e := range b.inst.sortedEntries() {
		for _, us := range e.UseSites {
			if us.Span == source.NoSpan || !us.Caller.IsValid() {
				continue
			}
			key := useSiteKey{
				Kind:   e.Kind,
				Caller: us.Caller,
				Callee: e.Key.Sym,
				Span:   us.Span,
			}
			if _, ok := b.useSites[key]; !ok {
				b.useSites[key] = NormalizeTypeArgs(e.TypeArgs)
			}
		}
	}
}

// Instance symbols live in a reserved range above the table so they never
// collide with declared symbols.
func (b *builder) allocInstanceSym() symbols.SymbolID {
	id := symbols.SymbolID(0x9000_0000 + b.nextSym)
	b.nextSym++
	return id
}

func (b *builder) checkBudget(span source.Span) error {
	b.created++
	if b.created > b.opt.MaxInstantiations {
		b.rep.Report(diag.InstLimit, diag.SevError, span,
			fmt.Sprintf("instantiation budget exceeded (%d); generic expansion does not terminate", b.opt.MaxInstantiations), nil)
		return errLimit
	}
	return nil
}

func (b *builder) checkDepth(stack []MonoKey, span source.Span) error {
	if len(stack) < b.opt.MaxDepth {
		return nil
	}
	parts := make([]string, 0, 8)
	for _, k := range stack[len(stack)-min(len(stack), 8):] {
		parts = append(parts, b.monoName(k.Sym, nil))
	}
	b.rep.Report(diag.DepthLimit, diag.SevError, span,
		fmt.Sprintf("instantiation depth exceeded (%d): ... %s", b.opt.MaxDepth, strings.Join(parts, " -> ")), nil)
	return errLimit
}

// monoName mangles a specialization name from the original symbol and its
// canonically formatted type arguments. Formatting is injective on
// concrete types, so distinct argument lists always get distinct names.
func (b *builder) monoName(sym symbols.SymbolID, args []types.TypeID) string {
	base := b.unit.Table.Name(sym)
	if len(args) == 0 {
		return base
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = b.in.Format(a)
	}
	return base + "<" + strings.Join(parts, ", ") + ">"
}

// argsClosed reports whether every argument is free of inference
// variables and rigid parameters. Unknown is allowed: gradual values take
// their single erased runtime representation.
func (b *builder) argsClosed(args []types.TypeID) bool {
	for _, a := range args {
		if b.in.ContainsParam(a) || !b.in.Resolved(a) {
			return false
		}
	}
	return true
}

// ensureFunc is the atomic insert-or-get at the heart of deduplication:
// the first demand for a key creates and specializes the entry, every
// later demand gets the existing one.
func (b *builder) ensureFunc(origSym symbols.SymbolID, typeArgs []types.TypeID, stack []MonoKey) (*MonoFunc, error) {
	if !origSym.IsValid() {
		return nil, fmt.Errorf("mono: invalid function symbol")
	}
	sym := b.unit.Table.Get(origSym)
	if sym == nil {
		return nil, fmt.Errorf("mono: unknown symbol %d", origSym)
	}

	normalized := NormalizeTypeArgs(typeArgs)
	switch {
	case len(sym.TypeParams) == 0 && len(normalized) > 0:
		return nil, fmt.Errorf("mono: non-generic %s instantiated with type arguments", sym.Name)
	case len(sym.TypeParams) > 0 && len(normalized) != len(sym.TypeParams):
		return nil, fmt.Errorf("mono: %s expects %d type arguments, got %d", sym.Name, len(sym.TypeParams), len(normalized))
	}
	if !b.argsClosed(normalized) {
		return nil, fmt.Errorf("mono: open type arguments for %s", b.monoName(origSym, normalized))
	}

	key := MonoKey{Sym: origSym, ArgsKey: argsKeyFromTypes(normalized)}
	if existing := b.mm.Funcs[key]; existing != nil {
		return existing, nil
	}

	if err := b.checkDepth(stack, sym.Span); err != nil {
		return nil, err
	}
	if err := b.checkBudget(sym.Span); err != nil {
		return nil, err
	}

	out := &MonoFunc{
		Key:         key,
		InstanceSym: b.allocInstanceSym(),
		OrigSym:     origSym,
		TypeArgs:    normalized,
		Name:        b.monoName(origSym, normalized),
	}
	b.mm.Funcs[key] = out
	b.mm.FuncBySym[out.InstanceSym] = out

	origFn := b.origFuncBySym[origSym]
	if origFn == nil {
		// Extern or intrinsic: no body to specialize.
		return out, nil
	}

	clone := cloneFunc(origFn)
	clone.SymbolID = out.InstanceSym
	clone.Name = out.Name

	var sub *subst
	if len(normalized) > 0 {
		sub = newSubst(b.in, types.OwnerID(origSym), sym.TypeParams, normalized)
		sub.applyFunc(clone)
	}

	if err := b.rewriteCalls(clone, origSym, sub, append(stack, key)); err != nil {
		return nil, err
	}

	out.Func = clone
	return out, nil
}
