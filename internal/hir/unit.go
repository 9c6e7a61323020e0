package hir

import (
	"tern/internal/source"
	"tern/internal/symbols"
	"tern/internal/types"
)

// Unit is one compilation unit's worth of declarations, sharing a symbol
// table and a type interner. Units are built by the upstream resolver (or
// programmatically in tests) and are immutable during inference.
type Unit struct {
	Name    string
	Table   *symbols.Table
	Types   *types.Interner
	Funcs   []*Func
	Structs []*Struct
	Enums   []*Enum
	Impls   []Impl

	funcBySym   map[symbols.SymbolID]*Func
	structBySym map[symbols.SymbolID]*Struct
	enumBySym   map[symbols.SymbolID]*Enum
	nextExpr    ExprID
}

// NewUnit creates an empty unit over a fresh symbol table and interner.
func NewUnit(name string) *Unit {
	strings := source.NewInterner()
	return &Unit{
		Name:        name,
		Table:       symbols.NewTable(),
		Types:       types.NewInterner(strings),
		funcBySym:   make(map[symbols.SymbolID]*Func),
		structBySym: make(map[symbols.SymbolID]*Struct),
		enumBySym:   make(map[symbols.SymbolID]*Enum),
	}
}

// DeclareFunc registers a function declaration; the body is attached later
// via SetBody so that bodies can reference any declared symbol.
func (u *Unit) DeclareFunc(name string, generics []GenericParam, params []Param, result types.TypeID, flags FuncFlags, span source.Span) *Func {
	paramNames := make([]string, len(generics))
	for i, g := range generics {
		paramNames[i] = g.Name
	}
	sym := u.Table.Declare(symbols.SymbolFunction, name, paramNames, span)
	fn := &Func{
		Name:     name,
		SymbolID: sym,
		Generics: generics,
		Params:   params,
		Result:   result,
		Flags:    flags,
		Span:     span,
	}
	u.Funcs = append(u.Funcs, fn)
	u.funcBySym[sym] = fn
	return fn
}

// DeclareStruct registers a struct declaration.
func (u *Unit) DeclareStruct(name string, generics []GenericParam, fields []Field, span source.Span) *Struct {
	paramNames := make([]string, len(generics))
	for i, g := range generics {
		paramNames[i] = g.Name
	}
	sym := u.Table.Declare(symbols.SymbolStruct, name, paramNames, span)
	st := &Struct{
		Name:     name,
		SymbolID: sym,
		Generics: generics,
		Fields:   fields,
		Span:     span,
	}
	u.Structs = append(u.Structs, st)
	u.structBySym[sym] = st
	return st
}

// DeclareEnum registers an enum declaration.
func (u *Unit) DeclareEnum(name string, generics []GenericParam, variants []Variant, span source.Span) *Enum {
	paramNames := make([]string, len(generics))
	for i, g := range generics {
		paramNames[i] = g.Name
	}
	sym := u.Table.Declare(symbols.SymbolEnum, name, paramNames, span)
	en := &Enum{
		Name:     name,
		SymbolID: sym,
		Generics: generics,
		Variants: variants,
		Span:     span,
	}
	u.Enums = append(u.Enums, en)
	u.enumBySym[sym] = en
	return en
}

// AddImpl records a trait implementation fact for the bound registry.
func (u *Unit) AddImpl(bound string, id types.TypeID, span source.Span) {
	u.Impls = append(u.Impls, Impl{Bound: bound, Type: id, Span: span})
}

// FuncBySym resolves a function symbol to its declaration.
func (u *Unit) FuncBySym(id symbols.SymbolID) *Func {
	return u.funcBySym[id]
}

// StructBySym resolves a struct symbol to its declaration.
func (u *Unit) StructBySym(id symbols.SymbolID) *Struct {
	return u.structBySym[id]
}

// EnumBySym resolves an enum symbol to its declaration.
func (u *Unit) EnumBySym(id symbols.SymbolID) *Enum {
	return u.enumBySym[id]
}

// ExprCount returns the number of expressions allocated in this unit.
func (u *Unit) ExprCount() int {
	return int(u.nextExpr)
}

// NewExpr allocates an expression node with a fresh ID.
func (u *Unit) NewExpr(kind ExprKind, span source.Span, data ExprData) *Expr {
	u.nextExpr++
	return &Expr{ID: u.nextExpr, Kind: kind, Span: span, Data: data}
}

// Expression shorthands used by unit builders and tests ----------------------

func (u *Unit) IntLit(v int64, span source.Span) *Expr {
	return u.NewExpr(ExprLiteral, span, LiteralData{Kind: LiteralInt, IntValue: v})
}

func (u *Unit) FloatLit(v float64, span source.Span) *Expr {
	return u.NewExpr(ExprLiteral, span, LiteralData{Kind: LiteralFloat, FloatValue: v})
}

func (u *Unit) BoolLit(v bool, span source.Span) *Expr {
	return u.NewExpr(ExprLiteral, span, LiteralData{Kind: LiteralBool, BoolValue: v})
}

func (u *Unit) StringLit(v string, span source.Span) *Expr {
	return u.NewExpr(ExprLiteral, span, LiteralData{Kind: LiteralString, StringValue: v})
}

func (u *Unit) UnitLit(span source.Span) *Expr {
	return u.NewExpr(ExprLiteral, span, LiteralData{Kind: LiteralUnit})
}

func (u *Unit) Var(name string, span source.Span) *Expr {
	return u.NewExpr(ExprVarRef, span, VarRefData{Name: name})
}

func (u *Unit) Call(callee symbols.SymbolID, args []*Expr, span source.Span) *Expr {
	return u.NewExpr(ExprCall, span, CallData{Callee: callee, Args: args})
}

func (u *Unit) CallWithTypeArgs(callee symbols.SymbolID, typeArgs []types.TypeID, args []*Expr, span source.Span) *Expr {
	return u.NewExpr(ExprCall, span, CallData{Callee: callee, Args: args, TypeArgs: typeArgs})
}

func (u *Unit) StructLit(sym symbols.SymbolID, typeArgs []types.TypeID, fields []FieldInit, span source.Span) *Expr {
	return u.NewExpr(ExprStructLit, span, StructLitData{Struct: sym, TypeArgs: typeArgs, Fields: fields})
}

func (u *Unit) VariantLit(enum symbols.SymbolID, variant string, typeArgs []types.TypeID, args []*Expr, span source.Span) *Expr {
	return u.NewExpr(ExprVariantLit, span, VariantLitData{Enum: enum, Variant: variant, TypeArgs: typeArgs, Args: args})
}

func (u *Unit) Field(obj *Expr, field string, span source.Span) *Expr {
	return u.NewExpr(ExprFieldAccess, span, FieldAccessData{Object: obj, Field: field})
}

func (u *Unit) Index(obj, index *Expr, span source.Span) *Expr {
	return u.NewExpr(ExprIndex, span, IndexData{Object: obj, Index: index})
}

func (u *Unit) ArrayLit(elems []*Expr, span source.Span) *Expr {
	return u.NewExpr(ExprArrayLit, span, ArrayLitData{Elems: elems})
}

func (u *Unit) TupleLit(elems []*Expr, span source.Span) *Expr {
	return u.NewExpr(ExprTupleLit, span, TupleLitData{Elems: elems})
}

func (u *Unit) Unary(op UnaryOp, operand *Expr, span source.Span) *Expr {
	return u.NewExpr(ExprUnary, span, UnaryData{Op: op, Operand: operand})
}

func (u *Unit) Binary(op BinaryOp, left, right *Expr, span source.Span) *Expr {
	return u.NewExpr(ExprBinary, span, BinaryData{Op: op, Left: left, Right: right})
}

func (u *Unit) Ref(mutable bool, operand *Expr, span source.Span) *Expr {
	return u.NewExpr(ExprRef, span, RefData{Mutable: mutable, Operand: operand})
}

func (u *Unit) If(cond, then, els *Expr, span source.Span) *Expr {
	return u.NewExpr(ExprIf, span, IfData{Cond: cond, Then: then, Else: els})
}

func (u *Unit) Block(exprs []*Expr, span source.Span) *Expr {
	return u.NewExpr(ExprBlock, span, BlockData{Exprs: exprs})
}

func (u *Unit) Let(name string, annot types.TypeID, value *Expr, span source.Span) *Expr {
	return u.NewExpr(ExprLet, span, LetData{Name: name, Annot: annot, Value: value})
}

func (u *Unit) Return(value *Expr, span source.Span) *Expr {
	return u.NewExpr(ExprReturn, span, ReturnData{Value: value})
}

// SetBody attaches a body to a declared function. Any expression works
// as a body; single-expression functions stay unwrapped. Externs keep a
// nil body.
func (u *Unit) SetBody(fn *Func, body *Expr) {
	fn.Body = body
}
