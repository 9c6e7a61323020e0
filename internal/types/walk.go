package types

// Resolved reports whether id contains no inference variable. Rigid
// parameters count as resolved inside their own declaration; callers that
// need fully concrete types combine this with ContainsParam.
func (in *Interner) Resolved(id TypeID) bool {
	return !in.containsKind(id, KindVar)
}

// ContainsParam reports whether id mentions a rigid generic parameter.
func (in *Interner) ContainsParam(id TypeID) bool {
	return in.containsKind(id, KindParam)
}

// Concrete reports whether id is fully monomorphic: no variables, no rigid
// parameters, no Unknown. Only concrete types may key an instantiation.
func (in *Interner) Concrete(id TypeID) bool {
	if id == NoTypeID {
		return false
	}
	return !in.containsKind(id, KindVar) &&
		!in.containsKind(id, KindParam) &&
		!in.containsKind(id, KindUnknown)
}

func (in *Interner) containsKind(id TypeID, kind Kind) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	if tt.Kind == kind {
		return true
	}
	switch tt.Kind {
	case KindArray, KindRef:
		return in.containsKind(tt.Elem, kind)
	case KindTuple, KindNamed:
		for _, a := range in.Args(tt.Args) {
			if in.containsKind(a, kind) {
				return true
			}
		}
		return false
	case KindFunc:
		for _, a := range in.Args(tt.Args) {
			if in.containsKind(a, kind) {
				return true
			}
		}
		return in.containsKind(tt.Ret, kind)
	default:
		return false
	}
}

// FreeVars appends every distinct variable inside id to out, in first-seen
// order.
func (in *Interner) FreeVars(id TypeID, out []VarID) []VarID {
	tt, ok := in.Lookup(id)
	if !ok {
		return out
	}
	switch tt.Kind {
	case KindVar:
		for _, v := range out {
			if v == tt.Var {
				return out
			}
		}
		return append(out, tt.Var)
	case KindArray, KindRef:
		return in.FreeVars(tt.Elem, out)
	case KindTuple, KindNamed:
		for _, a := range in.Args(tt.Args) {
			out = in.FreeVars(a, out)
		}
		return out
	case KindFunc:
		for _, a := range in.Args(tt.Args) {
			out = in.FreeVars(a, out)
		}
		return in.FreeVars(tt.Ret, out)
	default:
		return out
	}
}
