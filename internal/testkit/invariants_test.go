package testkit

import (
	"testing"

	"tern/internal/hir"
	"tern/internal/source"
	"tern/internal/types"
)

func TestCheckUnitInvariantsAcceptsWellFormedUnit(t *testing.T) {
	u := hir.NewUnit("ok")
	fn := u.DeclareFunc("f", nil, nil, types.NoTypeID, 0, source.NoSpan)
	u.SetBody(fn, u.Block([]*hir.Expr{
		u.Let("x", types.NoTypeID, u.IntLit(1, source.NoSpan), source.NoSpan),
		u.Call(fn.SymbolID, nil, source.NoSpan),
	}, source.NoSpan))

	if err := CheckUnitInvariants(u); err != nil {
		t.Fatalf("CheckUnitInvariants: %v", err)
	}
}

func TestCheckUnitInvariantsRejectsUnknownCallee(t *testing.T) {
	u := hir.NewUnit("bad")
	fn := u.DeclareFunc("f", nil, nil, types.NoTypeID, 0, source.NoSpan)
	u.SetBody(fn, u.Call(fn.SymbolID+100, nil, source.NoSpan))

	if err := CheckUnitInvariants(u); err == nil {
		t.Fatal("expected an unknown callee error")
	}
}

func TestCheckUnitInvariantsRejectsSharedExpression(t *testing.T) {
	u := hir.NewUnit("shared")
	lit := u.IntLit(7, source.NoSpan)

	a := u.DeclareFunc("a", nil, nil, types.NoTypeID, 0, source.NoSpan)
	u.SetBody(a, lit)
	b := u.DeclareFunc("b", nil, nil, types.NoTypeID, 0, source.NoSpan)
	u.SetBody(b, lit)

	if err := CheckUnitInvariants(u); err == nil {
		t.Fatal("expected a shared expression error")
	}
}
