package main

import (
	"tern/internal/hir"
	"tern/internal/project"
	"tern/internal/source"
	"tern/internal/types"
)

// unitBuilder accumulates a pseudo-source alongside the unit: every span
// points at a real line of text, so diagnostics resolve to line:col and
// every call site gets its own instantiation record.
type unitBuilder struct {
	u   *hir.Unit
	src []byte
}

// span appends one line of pseudo-source and returns the span covering it.
func (b *unitBuilder) span(text string) source.Span {
	start := uint32(len(b.src))
	b.src = append(b.src, text...)
	b.src = append(b.src, '\n')
	return source.Span{File: 1, Start: start, End: start + uint32(len(text))}
}

// buildDemoUnit constructs the showcase unit the CLI checks: a generic
// container, generic functions with and without bounds, a nested generic
// call, and an entrypoint instantiating everything at several types.
// Until a frontend lands, this is the declared unit of every project.
// The returned FileSet holds the unit's pseudo-source for diagnostics.
func buildDemoUnit(man *project.Manifest) (*hir.Unit, *source.FileSet) {
	b := &unitBuilder{u: hir.NewUnit(man.Package.Name)}
	u := b.u

	box := u.DeclareStruct("Box",
		[]hir.GenericParam{{Name: "T"}}, nil, b.span("type Box<T> { value: T }"))
	boxT := u.Types.MakeParam(types.OwnerID(box.SymbolID), "T")
	box.Fields = []hir.Field{{Name: "value", Type: boxT}}

	identity := u.DeclareFunc("identity",
		[]hir.GenericParam{{Name: "T"}},
		nil, types.NoTypeID, 0, b.span("fn identity<T>(x: T) -> T"))
	idT := u.Types.MakeParam(types.OwnerID(identity.SymbolID), "T")
	identity.Params = []hir.Param{{Name: "x", Type: idT}}
	identity.Result = idT
	u.SetBody(identity, u.Var("x", b.span("x")))

	// wrap exercises a nested generic call: its instantiation closes
	// identity's open type argument.
	wrap := u.DeclareFunc("wrap",
		[]hir.GenericParam{{Name: "T"}},
		nil, types.NoTypeID, 0, b.span("fn wrap<T>(x: T) -> Box<T>"))
	wrapT := u.Types.MakeParam(types.OwnerID(wrap.SymbolID), "T")
	wrap.Params = []hir.Param{{Name: "x", Type: wrapT}}
	u.SetBody(wrap, u.StructLit(box.SymbolID, nil, []hir.FieldInit{
		{Name: "value", Value: u.Call(identity.SymbolID,
			[]*hir.Expr{u.Var("x", b.span("x"))}, b.span("identity(x)"))},
	}, b.span("Box { value: identity(x) }")))

	least := u.DeclareFunc("least",
		[]hir.GenericParam{{Name: "T", Bounds: []string{"Ord"}}},
		nil, types.NoTypeID, 0, b.span("fn least<T: Ord>(a: T, b: T) -> T"))
	leastT := u.Types.MakeParam(types.OwnerID(least.SymbolID), "T")
	least.Params = []hir.Param{
		{Name: "a", Type: leastT},
		{Name: "b", Type: leastT},
	}
	least.Result = leastT
	u.SetBody(least, u.If(
		u.Binary(hir.BinLt, u.Var("a", b.span("a")), u.Var("b", b.span("b")), b.span("a < b")),
		u.Var("a", b.span("a")),
		u.Var("b", b.span("b")),
		b.span("if a < b { a } else { b }")))

	entries := man.Package.Entries
	if len(entries) == 0 {
		entries = []string{"main"}
	}
	for _, name := range entries {
		entry := u.DeclareFunc(name, nil, nil, types.NoTypeID, hir.FuncEntrypoint, b.span("fn "+name+"()"))
		u.SetBody(entry, u.Block([]*hir.Expr{
			u.Let("i", types.NoTypeID,
				u.Call(identity.SymbolID, []*hir.Expr{u.IntLit(1, b.span("1"))}, b.span("identity(1)")),
				b.span("let i = identity(1)")),
			u.Let("f", types.NoTypeID,
				u.Call(identity.SymbolID, []*hir.Expr{u.FloatLit(2.5, b.span("2.5"))}, b.span("identity(2.5)")),
				b.span("let f = identity(2.5)")),
			u.Let("w", types.NoTypeID,
				u.Call(wrap.SymbolID, []*hir.Expr{u.BoolLit(true, b.span("true"))}, b.span("wrap(true)")),
				b.span("let w = wrap(true)")),
			u.Let("m", types.NoTypeID,
				u.Call(least.SymbolID, []*hir.Expr{u.IntLit(3, b.span("3")), u.IntLit(4, b.span("4"))}, b.span("least(3, 4)")),
				b.span("let m = least(3, 4)")),
		}, b.span("{ ... }")))
	}

	files := source.NewFileSet()
	files.AddVirtual("<demo>", b.src)
	return u, files
}
