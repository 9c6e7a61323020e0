package types

import (
	"fmt"
	"strings"
)

// Format renders a type in surface syntax, e.g. `Box<Box<int>>` or
// `fn(int, T) -> bool`. Used by diagnostics and debug printing; the name
// mangler has its own injective encoding.
func (in *Interner) Format(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return in.Format(tt.Elem) + "[]"
	case KindRef:
		if tt.Mutable {
			return "&mut " + in.Format(tt.Elem)
		}
		return "&" + in.Format(tt.Elem)
	case KindTuple:
		return "(" + in.formatArgs(tt.Args) + ")"
	case KindFunc:
		return fmt.Sprintf("fn(%s) -> %s", in.formatArgs(tt.Args), in.Format(tt.Ret))
	case KindNamed:
		name := in.strings.MustLookup(tt.Name)
		if tt.Args == NoArgsID {
			return name
		}
		return name + "<" + in.formatArgs(tt.Args) + ">"
	case KindParam:
		return in.strings.MustLookup(tt.Name)
	case KindVar:
		return fmt.Sprintf("t%d", tt.Var)
	default:
		return "<invalid>"
	}
}

func (in *Interner) formatArgs(id ArgsID) string {
	args := in.Args(id)
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = in.Format(a)
	}
	return strings.Join(parts, ", ")
}
