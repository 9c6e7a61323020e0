package hir

import (
	"tern/internal/source"
	"tern/internal/symbols"
	"tern/internal/types"
)

// ExprID uniquely identifies an expression within a Unit. Inference keys
// its expression-type map on it.
type ExprID uint32

// NoExprID marks the absence of an expression reference.
const NoExprID ExprID = 0

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, float, bool, string, unit).
	ExprLiteral ExprKind = iota
	// ExprVarRef represents a reference to a local binding or parameter.
	ExprVarRef
	// ExprCall represents a function call; the callee is a resolved symbol.
	ExprCall
	// ExprStructLit represents struct construction.
	ExprStructLit
	// ExprVariantLit represents enum variant construction.
	ExprVariantLit
	// ExprFieldAccess represents field access (expr.field).
	ExprFieldAccess
	// ExprIndex represents indexing (expr[index]).
	ExprIndex
	// ExprArrayLit represents array literals ([a, b, c]).
	ExprArrayLit
	// ExprTupleLit represents tuple literals ((a, b)).
	ExprTupleLit
	// ExprUnary represents unary operators (-, !).
	ExprUnary
	// ExprBinary represents binary operators (+, ==, <, ...).
	ExprBinary
	// ExprRef represents &expr / &mut expr.
	ExprRef
	// ExprIf represents a conditional expression.
	ExprIf
	// ExprBlock represents a block; its value is the last expression's.
	ExprBlock
	// ExprLet introduces a binding; the binding's value type may carry an
	// explicit annotation.
	ExprLet
	// ExprReturn represents early return from the enclosing function.
	ExprReturn
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVarRef:
		return "VarRef"
	case ExprCall:
		return "Call"
	case ExprStructLit:
		return "StructLit"
	case ExprVariantLit:
		return "VariantLit"
	case ExprFieldAccess:
		return "FieldAccess"
	case ExprIndex:
		return "Index"
	case ExprArrayLit:
		return "ArrayLit"
	case ExprTupleLit:
		return "TupleLit"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprRef:
		return "Ref"
	case ExprIf:
		return "If"
	case ExprBlock:
		return "Block"
	case ExprLet:
		return "Let"
	case ExprReturn:
		return "Return"
	default:
		return "Unknown"
	}
}

// Expr represents an HIR expression.
type Expr struct {
	ID   ExprID
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific payloads.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralBool
	LiteralString
	LiteralUnit
)

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind        LiteralKind
	IntValue    int64
	FloatValue  float64
	BoolValue   bool
	StringValue string
}

func (LiteralData) exprData() {}

// VarRefData holds data for ExprVarRef.
type VarRefData struct {
	Name string
}

func (VarRefData) exprData() {}

// CallData holds data for ExprCall. Callee symbols are resolved by the
// upstream name resolver before inference runs. TypeArgs carry explicit
// turbofish-style arguments; empty means infer.
type CallData struct {
	Callee   symbols.SymbolID
	Args     []*Expr
	TypeArgs []types.TypeID
}

func (CallData) exprData() {}

// FieldInit is one `name = value` entry of a struct literal.
type FieldInit struct {
	Name  string
	Value *Expr
}

// StructLitData holds data for ExprStructLit.
type StructLitData struct {
	Struct   symbols.SymbolID
	TypeArgs []types.TypeID
	Fields   []FieldInit
}

func (StructLitData) exprData() {}

// VariantLitData holds data for ExprVariantLit.
type VariantLitData struct {
	Enum     symbols.SymbolID
	Variant  string
	Args     []*Expr
	TypeArgs []types.TypeID
}

func (VariantLitData) exprData() {}

// FieldAccessData holds data for ExprFieldAccess.
type FieldAccessData struct {
	Object *Expr
	Field  string
}

func (FieldAccessData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Object *Expr
	Index  *Expr
}

func (IndexData) exprData() {}

// ArrayLitData holds data for ExprArrayLit.
type ArrayLitData struct {
	Elems []*Expr
}

func (ArrayLitData) exprData() {}

// TupleLitData holds data for ExprTupleLit.
type TupleLitData struct {
	Elems []*Expr
}

func (TupleLitData) exprData() {}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota // numeric negation
	UnaryNot                // boolean not
)

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

// IsComparison reports whether the operator yields bool from two equally
// typed operands.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinEq, BinNe, BinLt, BinLe, BinGt, BinGe:
		return true
	}
	return false
}

// IsOrdering reports whether the operator requires the Ord bound.
func (op BinaryOp) IsOrdering() bool {
	switch op {
	case BinLt, BinLe, BinGt, BinGe:
		return true
	}
	return false
}

// IsLogical reports whether the operator works on booleans.
func (op BinaryOp) IsLogical() bool {
	return op == BinAnd || op == BinOr
}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// RefData holds data for ExprRef.
type RefData struct {
	Mutable bool
	Operand *Expr
}

func (RefData) exprData() {}

// IfData holds data for ExprIf. Else may be nil, making the whole
// expression unit-typed.
type IfData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (IfData) exprData() {}

// BlockData holds data for ExprBlock.
type BlockData struct {
	Exprs []*Expr
}

func (BlockData) exprData() {}

// LetData holds data for ExprLet. Annot is NoTypeID when the binding is
// unannotated.
type LetData struct {
	Name  string
	Annot types.TypeID
	Value *Expr
}

func (LetData) exprData() {}

// ReturnData holds data for ExprReturn. Value may be nil (`return;`).
type ReturnData struct {
	Value *Expr
}

func (ReturnData) exprData() {}
