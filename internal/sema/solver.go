package sema

import (
	"fmt"

	"tern/internal/diag"
	"tern/internal/source"
	"tern/internal/traits"
	"tern/internal/types"
)

// LiteralDefault requests that an inference variable fall back to a
// default type when contextual unification leaves it unbound. This gives
// numeric literals the precedence order: explicit annotation, contextual
// inference, literal default, Unknown.
type LiteralDefault struct {
	Var  types.VarID
	Type types.TypeID
}

// Solve runs the two-pass constraint solver.
//
// Pass 1 unifies equality constraints in emission order, accumulating one
// running substitution; literal defaults are applied to still-unbound
// variables afterwards. Pass 2 applies the final substitution to every
// bound constraint and checks the resolved type against the registry.
// Equalities must resolve before bound checking: a type variable's
// concrete identity is only known after unification.
//
// All failures land in bag; solving never stops at the first error, so a
// definition reports every problem at once.
func Solve(in *types.Interner, reg *traits.Registry, cs []Constraint, defaults []LiteralDefault, opts Options, bag *diag.Bag) *types.Subst {
	opts = opts.withDefaults()
	subst := types.NewSubst(in)

	if len(cs) > opts.MaxConstraints {
		bag.Add(diag.NewError(diag.ConstraintLimit, cs[0].Span,
			fmt.Sprintf("constraint budget exceeded: %d > %d", len(cs), opts.MaxConstraints)))
		return subst
	}

	// Pass 1: equalities.
	for _, c := range cs {
		if c.Kind != ConstraintEqual {
			continue
		}
		if d := unify(in, subst, c.A, c.B, c.Span); d != nil {
			bag.Add(*d)
		}
	}

	// Literal defaulting: weaker than any contextual binding. The
	// literal's variable may have been unified into another variable, so
	// chase the chain and default whatever representative is still free.
	// When two literals share a representative, the first default wins.
	for _, def := range defaults {
		varType := in.Intern(types.Type{Kind: types.KindVar, Var: def.Var})
		resolved := subst.Apply(varType)
		tt, ok := in.Lookup(resolved)
		if !ok || tt.Kind != types.KindVar {
			continue
		}
		if err := subst.Bind(tt.Var, def.Type); err != nil {
			bag.Add(diag.NewError(diag.UnboundTypeVar, source.NoSpan,
				fmt.Sprintf("internal: literal default for t%d: %v", def.Var, err)))
		}
	}

	// Declared bounds of rigid parameters, keyed by the parameter's TypeID.
	paramBounds := make(map[types.TypeID][]string)
	for _, c := range cs {
		if c.Kind != ConstraintParamBounds {
			continue
		}
		paramBounds[c.Type] = append(paramBounds[c.Type], c.Bounds...)
		for _, b := range c.Bounds {
			if !reg.Known(b) {
				bag.Add(diag.NewError(diag.UnknownBound, c.Span,
					fmt.Sprintf("unknown bound %q on type parameter %s", b, c.Param)))
			}
		}
	}

	// Pass 2: trait bounds against the closed-world registry.
	for _, c := range cs {
		if c.Kind != ConstraintBound {
			continue
		}
		if !reg.Known(c.Bound) {
			bag.Add(diag.NewError(diag.UnknownBound, c.Span,
				fmt.Sprintf("unknown bound %q", c.Bound)))
			continue
		}
		resolved := subst.Apply(c.Type)
		if !in.Resolved(resolved) {
			// Bound checking an unresolved variable is meaningless; the
			// call site reports ambiguity separately.
			continue
		}
		if !boundSatisfied(in, reg, paramBounds, resolved, c.Bound) {
			bag.Add(diag.NewError(diag.MissingImpl, c.Span,
				fmt.Sprintf("%s does not satisfy required bound %q", in.Format(resolved), c.Bound)))
		}
	}

	return subst
}

// boundSatisfied extends the registry's structural rules with rigid
// parameters: a parameter satisfies a bound iff its declaration listed it.
func boundSatisfied(in *types.Interner, reg *traits.Registry, paramBounds map[types.TypeID][]string, id types.TypeID, bound string) bool {
	if !in.ContainsParam(id) {
		return reg.Satisfies(id, bound)
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindParam:
		for _, b := range paramBounds[id] {
			if b == bound {
				return true
			}
		}
		return false
	case types.KindArray:
		return boundSatisfied(in, reg, paramBounds, tt.Elem, bound)
	case types.KindTuple:
		elems := in.Args(tt.Args)
		if len(elems) == 0 {
			return false
		}
		for _, e := range elems {
			if !boundSatisfied(in, reg, paramBounds, e, bound) {
				return false
			}
		}
		return true
	case types.KindNamed:
		name, _ := in.Strings().Lookup(tt.Name)
		if name != "Option" && name != "Result" {
			return false
		}
		args := in.Args(tt.Args)
		if len(args) == 0 {
			return false
		}
		for _, a := range args {
			if !boundSatisfied(in, reg, paramBounds, a, bound) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
