package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"tern/internal/hir"
	"tern/internal/types"
)

// Digest identifies a unit's checkable content. Units with equal digests
// produce identical check results, so a digest match is a safe cache key.
type Digest [sha256.Size]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// UnitDigest fingerprints everything inference and specialization can
// observe: type declarations, impl facts, function signatures, and
// bodies. Spans are excluded so reformatting does not invalidate the
// cache; diagnostics that embed spans are not cached payloads.
func UnitDigest(u *hir.Unit) Digest {
	fp := &fingerprint{h: sha256.New(), in: u.Types}
	fp.str(u.Name)

	for _, s := range u.Structs {
		fp.str("struct")
		fp.str(s.Name)
		fp.generics(s.Generics)
		for _, f := range s.Fields {
			fp.str(f.Name)
			fp.typ(f.Type)
		}
	}
	for _, e := range u.Enums {
		fp.str("enum")
		fp.str(e.Name)
		fp.generics(e.Generics)
		for _, v := range e.Variants {
			fp.str(v.Name)
			fp.types(v.Params)
		}
	}
	for _, impl := range u.Impls {
		fp.str("impl")
		fp.str(impl.Bound)
		fp.typ(impl.Type)
	}
	for _, fn := range u.Funcs {
		fp.str("fn")
		fp.str(fn.Name)
		fp.u64(uint64(fn.Flags))
		fp.generics(fn.Generics)
		for _, p := range fn.Params {
			fp.str(p.Name)
			fp.typ(p.Type)
		}
		fp.typ(fn.Result)
		fp.expr(fn.Body)
	}

	var d Digest
	fp.h.Sum(d[:0])
	return d
}

// fingerprint feeds a deterministic byte stream into a hash. Strings are
// length-prefixed so adjacent fields cannot alias.
type fingerprint struct {
	h  hash.Hash
	in *types.Interner
}

func (fp *fingerprint) u64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	fp.h.Write(buf[:])
}

func (fp *fingerprint) str(s string) {
	fp.u64(uint64(len(s)))
	fp.h.Write([]byte(s))
}

// typ hashes the formatted spelling rather than the raw TypeID, so the
// digest does not depend on interner allocation order.
func (fp *fingerprint) typ(id types.TypeID) {
	if id == types.NoTypeID {
		fp.str("_")
		return
	}
	fp.str(fp.in.Format(id))
}

func (fp *fingerprint) types(ids []types.TypeID) {
	fp.u64(uint64(len(ids)))
	for _, id := range ids {
		fp.typ(id)
	}
}

func (fp *fingerprint) generics(gs []hir.GenericParam) {
	fp.u64(uint64(len(gs)))
	for _, g := range gs {
		fp.str(g.Name)
		fp.u64(uint64(len(g.Bounds)))
		for _, b := range g.Bounds {
			fp.str(b)
		}
	}
}

func (fp *fingerprint) expr(root *hir.Expr) {
	hir.Walk(root, func(e *hir.Expr) bool {
		fp.u64(uint64(e.Kind))
		switch data := e.Data.(type) {
		case hir.LiteralData:
			fp.u64(uint64(data.Kind))
			fp.u64(uint64(data.IntValue))
			fp.u64(math.Float64bits(data.FloatValue))
			if data.BoolValue {
				fp.u64(1)
			}
			fp.str(data.StringValue)
		case hir.VarRefData:
			fp.str(data.Name)
		case hir.CallData:
			fp.u64(uint64(data.Callee))
			fp.types(data.TypeArgs)
		case hir.StructLitData:
			fp.u64(uint64(data.Struct))
			fp.types(data.TypeArgs)
			for _, f := range data.Fields {
				fp.str(f.Name)
			}
		case hir.VariantLitData:
			fp.u64(uint64(data.Enum))
			fp.str(data.Variant)
			fp.types(data.TypeArgs)
		case hir.FieldAccessData:
			fp.str(data.Field)
		case hir.UnaryData:
			fp.u64(uint64(data.Op))
		case hir.BinaryData:
			fp.u64(uint64(data.Op))
		case hir.RefData:
			if data.Mutable {
				fp.u64(1)
			}
		case hir.LetData:
			fp.str(data.Name)
			fp.typ(data.Annot)
		}
		return true
	})
}
