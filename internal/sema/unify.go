package sema

import (
	"fmt"

	"tern/internal/diag"
	"tern/internal/source"
	"tern/internal/types"
)

// unify solves one equality between a and b, extending subst in place.
// Returns nil on success or the diagnostic that explains the failure.
//
// Structural recursion: primitives unify only with the identical
// primitive; functions componentwise; named types iff the identifier
// matches and all type arguments unify pairwise; a variable unifies with
// anything after the occurs check; Unknown unifies with anything and
// contributes no binding; a rigid parameter unifies only with itself.
func unify(in *types.Interner, subst *types.Subst, a, b types.TypeID, span source.Span) *diag.Diagnostic {
	a = subst.Apply(a)
	b = subst.Apply(b)
	if a == b {
		return nil
	}

	ta, okA := in.Lookup(a)
	tb, okB := in.Lookup(b)
	if !okA || !okB {
		d := diag.NewError(diag.UnboundTypeVar, span, "internal: unification over invalid TypeID")
		return &d
	}

	// Gradual escape hatch: unknown matches everything, binds nothing.
	if ta.Kind == types.KindUnknown || tb.Kind == types.KindUnknown {
		return nil
	}

	// Variable on either side binds to the other after the occurs check.
	if ta.Kind == types.KindVar {
		return bindVar(in, subst, ta.Var, b, span)
	}
	if tb.Kind == types.KindVar {
		return bindVar(in, subst, tb.Var, a, span)
	}

	if ta.Kind != tb.Kind {
		return mismatch(in, a, b, span)
	}

	switch ta.Kind {
	case types.KindUnit, types.KindBool, types.KindInt, types.KindFloat, types.KindString:
		// Same kind would have interned to the same ID.
		return mismatch(in, a, b, span)
	case types.KindParam:
		// Distinct rigid parameters never unify.
		return mismatch(in, a, b, span)
	case types.KindArray:
		return unify(in, subst, ta.Elem, tb.Elem, span)
	case types.KindRef:
		if ta.Mutable != tb.Mutable {
			return mismatch(in, a, b, span)
		}
		return unify(in, subst, ta.Elem, tb.Elem, span)
	case types.KindTuple:
		return unifyArgs(in, subst, a, b, ta.Args, tb.Args, span)
	case types.KindNamed:
		if ta.Name != tb.Name {
			return mismatch(in, a, b, span)
		}
		return unifyArgs(in, subst, a, b, ta.Args, tb.Args, span)
	case types.KindFunc:
		if d := unifyArgs(in, subst, a, b, ta.Args, tb.Args, span); d != nil {
			return d
		}
		return unify(in, subst, ta.Ret, tb.Ret, span)
	default:
		return mismatch(in, a, b, span)
	}
}

func unifyArgs(in *types.Interner, subst *types.Subst, a, b types.TypeID, argsA, argsB types.ArgsID, span source.Span) *diag.Diagnostic {
	as := in.Args(argsA)
	bs := in.Args(argsB)
	if len(as) != len(bs) {
		return mismatch(in, a, b, span)
	}
	for i := range as {
		if d := unify(in, subst, as[i], bs[i], span); d != nil {
			return d
		}
	}
	return nil
}

func bindVar(in *types.Interner, subst *types.Subst, v types.VarID, target types.TypeID, span source.Span) *diag.Diagnostic {
	if err := subst.Bind(v, target); err != nil {
		d := diag.NewError(diag.OccursCheck, span,
			fmt.Sprintf("cannot construct the infinite type t%d = %s", v, in.Format(subst.Apply(target))))
		return &d
	}
	return nil
}

func mismatch(in *types.Interner, a, b types.TypeID, span source.Span) *diag.Diagnostic {
	d := diag.NewError(diag.TypeMismatch, span,
		fmt.Sprintf("type mismatch: %s vs %s", in.Format(a), in.Format(b)))
	return &d
}
