package sema

import (
	"tern/internal/source"
	"tern/internal/types"
)

// instantiateType replaces every rigid parameter owned by owner inside id
// with its mapped replacement, re-interning composites as needed. Types
// mentioning parameters of other owners pass through untouched; a nested
// generic body keeps its own parameters rigid.
func instantiateType(in *types.Interner, id types.TypeID, owner types.OwnerID, mapping map[source.StringID]types.TypeID) types.TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case types.KindParam:
		if tt.Owner != owner {
			return id
		}
		if repl, ok := mapping[tt.Name]; ok {
			return repl
		}
		return id
	case types.KindArray, types.KindRef:
		elem := instantiateType(in, tt.Elem, owner, mapping)
		if elem == tt.Elem {
			return id
		}
		next := tt
		next.Elem = elem
		return in.Intern(next)
	case types.KindTuple, types.KindNamed:
		args, changed := instantiateArgs(in, tt.Args, owner, mapping)
		if !changed {
			return id
		}
		next := tt
		next.Args = args
		return in.Intern(next)
	case types.KindFunc:
		args, changed := instantiateArgs(in, tt.Args, owner, mapping)
		ret := instantiateType(in, tt.Ret, owner, mapping)
		if !changed && ret == tt.Ret {
			return id
		}
		next := tt
		next.Args = args
		next.Ret = ret
		return in.Intern(next)
	default:
		return id
	}
}

func instantiateArgs(in *types.Interner, id types.ArgsID, owner types.OwnerID, mapping map[source.StringID]types.TypeID) (types.ArgsID, bool) {
	args := in.Args(id)
	if len(args) == 0 {
		return id, false
	}
	out := make([]types.TypeID, len(args))
	changed := false
	for i, a := range args {
		out[i] = instantiateType(in, a, owner, mapping)
		if out[i] != a {
			changed = true
		}
	}
	if !changed {
		return id, false
	}
	return in.InternArgs(out), true
}
