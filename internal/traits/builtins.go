package traits

import (
	"tern/internal/types"
)

// Builtin bound names required by operators and the prelude.
const (
	BoundNum   = "Num"
	BoundEq    = "Eq"
	BoundOrd   = "Ord"
	BoundClone = "Clone"
)

// RegisterBuiltins installs the prelude impls every unit starts from:
// arithmetic needs Num, comparisons need Eq/Ord, and all primitives are
// trivially Clone. Call before Freeze.
func RegisterBuiltins(r *Registry, b types.Builtins) {
	r.Register(BoundNum, b.Int)
	r.Register(BoundNum, b.Float)

	for _, id := range []types.TypeID{b.Int, b.Float, b.Bool, b.String, b.Unit} {
		r.Register(BoundEq, id)
		r.Register(BoundClone, id)
	}

	r.Register(BoundOrd, b.Int)
	r.Register(BoundOrd, b.Float)
	r.Register(BoundOrd, b.String)
}
