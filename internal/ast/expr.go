package ast

import (
	"typeflow/internal/source"
)

type ExprKind uint8

const (
	ExprName ExprKind = iota
	ExprLit
	ExprBinary
	ExprCompare
	ExprBoolOp
	ExprUnary
	ExprCall
	ExprLambda
	// ExprUnsupported keeps a recognizable expression outside the analyzed subset.
	ExprUnsupported
)

var exprKindNames = [...]string{
	ExprName: "Name", ExprLit: "Lit", ExprBinary: "Binary", ExprCompare: "Compare",
	ExprBoolOp: "BoolOp", ExprUnary: "Unary", ExprCall: "Call", ExprLambda: "Lambda",
	ExprUnsupported: "Unsupported",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "ExprKind(?)"
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitStr
	LitBool
)

func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitStr:
		return "str"
	}
	return "bool"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type NameExpr struct {
	Name source.StringID
}

// LitExpr.Value is the literal's source text.
type LitExpr struct {
	Kind  LitKind
	Value source.StringID
}

type BinaryExpr struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

// CompareExpr is a chain: Left Ops[0] Rights[0] Ops[1] Rights[1] ...
type CompareExpr struct {
	Left   ExprID
	Ops    []CompareOp
	Rights []ExprID
}

type BoolOpExpr struct {
	Op     BoolOp
	Values []ExprID
}

type UnaryExpr struct {
	Op      UnaryOp
	Operand ExprID
}

type CallExpr struct {
	Callee ExprID
	Args   []ExprID
}

type LambdaExpr struct {
	Params []Param
	Body   ExprID
}

type UnsupportedExpr struct {
	Label string
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena        *Arena[Expr]
	Names        *Arena[NameExpr]
	Literals     *Arena[LitExpr]
	Binaries     *Arena[BinaryExpr]
	Compares     *Arena[CompareExpr]
	BoolOps      *Arena[BoolOpExpr]
	Unaries      *Arena[UnaryExpr]
	Calls        *Arena[CallExpr]
	Lambdas      *Arena[LambdaExpr]
	Unsupporteds *Arena[UnsupportedExpr]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
// If capHint is 0, a default capacity of 1<<8 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := max(capHint/8, 1)
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Names:        NewArena[NameExpr](capHint),
		Literals:     NewArena[LitExpr](capHint),
		Binaries:     NewArena[BinaryExpr](capHint),
		Compares:     NewArena[CompareExpr](small),
		BoolOps:      NewArena[BoolOpExpr](small),
		Unaries:      NewArena[UnaryExpr](small),
		Calls:        NewArena[CallExpr](capHint),
		Lambdas:      NewArena[LambdaExpr](small),
		Unsupporteds: NewArena[UnsupportedExpr](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewName(span source.Span, name source.StringID) ExprID {
	return e.new(ExprName, span, e.Names.Allocate(NameExpr{Name: name}))
}

func (e *Exprs) Name(id ExprID) (*NameExpr, bool) {
	p, ok := e.payload(id, ExprName)
	if !ok {
		return nil, false
	}
	return e.Names.Get(p), true
}

func (e *Exprs) NewLiteral(span source.Span, kind LitKind, value source.StringID) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(LitExpr{Kind: kind, Value: value}))
}

func (e *Exprs) Literal(id ExprID) (*LitExpr, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(BinaryExpr{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*BinaryExpr, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewCompare(span source.Span, left ExprID, ops []CompareOp, rights []ExprID) ExprID {
	return e.new(ExprCompare, span, e.Compares.Allocate(CompareExpr{Left: left, Ops: ops, Rights: rights}))
}

func (e *Exprs) Compare(id ExprID) (*CompareExpr, bool) {
	p, ok := e.payload(id, ExprCompare)
	if !ok {
		return nil, false
	}
	return e.Compares.Get(p), true
}

func (e *Exprs) NewBoolOp(span source.Span, op BoolOp, values []ExprID) ExprID {
	return e.new(ExprBoolOp, span, e.BoolOps.Allocate(BoolOpExpr{Op: op, Values: values}))
}

func (e *Exprs) BoolOp(id ExprID) (*BoolOpExpr, bool) {
	p, ok := e.payload(id, ExprBoolOp)
	if !ok {
		return nil, false
	}
	return e.BoolOps.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(UnaryExpr{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*UnaryExpr, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(CallExpr{Callee: callee, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*CallExpr, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewLambda(span source.Span, params []Param, body ExprID) ExprID {
	return e.new(ExprLambda, span, e.Lambdas.Allocate(LambdaExpr{Params: params, Body: body}))
}

func (e *Exprs) Lambda(id ExprID) (*LambdaExpr, bool) {
	p, ok := e.payload(id, ExprLambda)
	if !ok {
		return nil, false
	}
	return e.Lambdas.Get(p), true
}

func (e *Exprs) NewUnsupported(span source.Span, label string) ExprID {
	return e.new(ExprUnsupported, span, e.Unsupporteds.Allocate(UnsupportedExpr{Label: label}))
}

func (e *Exprs) Unsupported(id ExprID) (*UnsupportedExpr, bool) {
	p, ok := e.payload(id, ExprUnsupported)
	if !ok {
		return nil, false
	}
	return e.Unsupporteds.Get(p), true
}
