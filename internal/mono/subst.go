package mono

import (
	"tern/internal/hir"
	"tern/internal/source"
	"tern/internal/types"
)

// subst replaces the type parameters of one declaration with concrete
// arguments inside cloned bodies. Parameters of other owners pass through
// untouched; a specialized body never mentions them once its own
// substitution chain bottoms out.
type subst struct {
	in     *types.Interner
	owner  types.OwnerID
	byName map[source.StringID]types.TypeID
}

// newSubst pairs a declaration's parameter names with type arguments in
// declared order. paramNames comes from the symbol table and has the same
// length as args (validated by the caller).
func newSubst(in *types.Interner, owner types.OwnerID, paramNames []string, args []types.TypeID) *subst {
	byName := make(map[source.StringID]types.TypeID, len(args))
	for i, name := range paramNames {
		if i < len(args) {
			byName[in.Strings().Intern(name)] = args[i]
		}
	}
	return &subst{in: in, owner: owner, byName: byName}
}

func (s *subst) applyType(id types.TypeID) types.TypeID {
	if s == nil || id == types.NoTypeID {
		return id
	}
	tt, ok := s.in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case types.KindParam:
		if tt.Owner != s.owner {
			return id
		}
		if repl, ok := s.byName[tt.Name]; ok {
			return repl
		}
		return id
	case types.KindArray, types.KindRef:
		elem := s.applyType(tt.Elem)
		if elem == tt.Elem {
			return id
		}
		next := tt
		next.Elem = elem
		return s.in.Intern(next)
	case types.KindTuple, types.KindNamed:
		args, changed := s.applyArgs(tt.Args)
		if !changed {
			return id
		}
		next := tt
		next.Args = args
		return s.in.Intern(next)
	case types.KindFunc:
		args, changed := s.applyArgs(tt.Args)
		ret := s.applyType(tt.Ret)
		if !changed && ret == tt.Ret {
			return id
		}
		next := tt
		next.Args = args
		next.Ret = ret
		return s.in.Intern(next)
	default:
		return id
	}
}

func (s *subst) applyArgs(id types.ArgsID) (types.ArgsID, bool) {
	args := s.in.Args(id)
	if len(args) == 0 {
		return id, false
	}
	out := make([]types.TypeID, len(args))
	changed := false
	for i, a := range args {
		out[i] = s.applyType(a)
		if out[i] != a {
			changed = true
		}
	}
	if !changed {
		return id, false
	}
	return s.in.InternArgs(out), true
}

func (s *subst) applyTypeSlice(ids []types.TypeID) []types.TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]types.TypeID, len(ids))
	for i, id := range ids {
		out[i] = s.applyType(id)
	}
	return out
}

// applyFunc rewrites every type annotation reachable from the cloned
// function: parameter and result types, let annotations, and explicit
// type arguments on calls and literals. Call retargeting happens later in
// rewriteCalls, which needs the substituted arguments this pass leaves in
// place.
func (s *subst) applyFunc(fn *hir.Func) {
	if s == nil || fn == nil {
		return
	}
	for i := range fn.Params {
		fn.Params[i].Type = s.applyType(fn.Params[i].Type)
	}
	fn.Result = s.applyType(fn.Result)
	hir.Walk(fn.Body, func(e *hir.Expr) bool {
		switch data := e.Data.(type) {
		case hir.LetData:
			data.Annot = s.applyType(data.Annot)
			e.Data = data
		case hir.CallData:
			data.TypeArgs = s.applyTypeSlice(data.TypeArgs)
			e.Data = data
		case hir.StructLitData:
			data.TypeArgs = s.applyTypeSlice(data.TypeArgs)
			e.Data = data
		case hir.VariantLitData:
			data.TypeArgs = s.applyTypeSlice(data.TypeArgs)
			e.Data = data
		}
		return true
	})
}
