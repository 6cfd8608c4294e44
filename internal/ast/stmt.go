package ast

import (
	"typeflow/internal/source"
)

type StmtKind uint8

const (
	StmtFunctionDef StmtKind = iota
	StmtIf
	StmtWhile
	StmtFor
	StmtAssign
	StmtAugAssign
	StmtGlobal
	StmtExpr
	StmtReturn
	StmtBreak
	StmtContinue
	StmtPass
	// StmtUnsupported keeps a recognizable statement outside the analyzed subset.
	StmtUnsupported
)

var stmtKindNames = [...]string{
	StmtFunctionDef: "FunctionDef", StmtIf: "If", StmtWhile: "While", StmtFor: "For",
	StmtAssign: "Assign", StmtAugAssign: "AugAssign", StmtGlobal: "Global", StmtExpr: "Expr",
	StmtReturn: "Return", StmtBreak: "Break", StmtContinue: "Continue", StmtPass: "Pass",
	StmtUnsupported: "Unsupported",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "StmtKind(?)"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// Param is a positional parameter of a def or lambda.
type Param struct {
	Name source.StringID
	Span source.Span
}

type FunctionDefStmt struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []Param
	Body     []StmtID
}

// IfStmt: elif-цепочки разворачиваются во вложенный If внутри Else.
type IfStmt struct {
	Cond ExprID
	Then []StmtID
	Else []StmtID
}

type WhileStmt struct {
	Cond ExprID
	Body []StmtID
	Else []StmtID
}

type ForStmt struct {
	Target ExprID
	Iter   ExprID
	Body   []StmtID
	Else   []StmtID
}

// AssignStmt covers chained assignment: a = b = value.
type AssignStmt struct {
	Targets []ExprID
	Value   ExprID
}

type AugAssignStmt struct {
	Target ExprID
	Op     BinaryOp
	Value  ExprID
}

type GlobalStmt struct {
	Names []Param
}

type ExprStmt struct {
	Value ExprID
}

// ReturnStmt.Value is NoExprID for a bare return.
type ReturnStmt struct {
	Value ExprID
}

type UnsupportedStmt struct {
	Label string
}

type Stmts struct {
	Arena        *Arena[Stmt]
	Defs         *Arena[FunctionDefStmt]
	Ifs          *Arena[IfStmt]
	Whiles       *Arena[WhileStmt]
	Fors         *Arena[ForStmt]
	Assigns      *Arena[AssignStmt]
	AugAssigns   *Arena[AugAssignStmt]
	Globals      *Arena[GlobalStmt]
	Exprs        *Arena[ExprStmt]
	Returns      *Arena[ReturnStmt]
	Unsupporteds *Arena[UnsupportedStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := max(capHint/4, 1)
	return &Stmts{
		Arena:        NewArena[Stmt](capHint),
		Defs:         NewArena[FunctionDefStmt](small),
		Ifs:          NewArena[IfStmt](small),
		Whiles:       NewArena[WhileStmt](small),
		Fors:         NewArena[ForStmt](small),
		Assigns:      NewArena[AssignStmt](capHint),
		AugAssigns:   NewArena[AugAssignStmt](small),
		Globals:      NewArena[GlobalStmt](small),
		Exprs:        NewArena[ExprStmt](small),
		Returns:      NewArena[ReturnStmt](small),
		Unsupporteds: NewArena[UnsupportedStmt](small),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewFunctionDef(span source.Span, def FunctionDefStmt) StmtID {
	return s.new(StmtFunctionDef, span, s.Defs.Allocate(def))
}

func (s *Stmts) FunctionDef(id StmtID) (*FunctionDefStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtFunctionDef {
		return nil, false
	}
	return s.Defs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els []StmtID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil, false
	}
	return s.Ifs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body, els []StmtID) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(WhileStmt{Cond: cond, Body: body, Else: els}))
}

func (s *Stmts) While(id StmtID) (*WhileStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtWhile {
		return nil, false
	}
	return s.Whiles.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewFor(span source.Span, target, iter ExprID, body, els []StmtID) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(ForStmt{Target: target, Iter: iter, Body: body, Else: els}))
}

func (s *Stmts) For(id StmtID) (*ForStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtFor {
		return nil, false
	}
	return s.Fors.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewAssign(span source.Span, targets []ExprID, value ExprID) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Allocate(AssignStmt{Targets: targets, Value: value}))
}

func (s *Stmts) Assign(id StmtID) (*AssignStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtAssign {
		return nil, false
	}
	return s.Assigns.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewAugAssign(span source.Span, target ExprID, op BinaryOp, value ExprID) StmtID {
	return s.new(StmtAugAssign, span, s.AugAssigns.Allocate(AugAssignStmt{Target: target, Op: op, Value: value}))
}

func (s *Stmts) AugAssign(id StmtID) (*AugAssignStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtAugAssign {
		return nil, false
	}
	return s.AugAssigns.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewGlobal(span source.Span, names []Param) StmtID {
	return s.new(StmtGlobal, span, s.Globals.Allocate(GlobalStmt{Names: names}))
}

func (s *Stmts) Global(id StmtID) (*GlobalStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtGlobal {
		return nil, false
	}
	return s.Globals.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewExpr(span source.Span, value ExprID) StmtID {
	return s.new(StmtExpr, span, s.Exprs.Allocate(ExprStmt{Value: value}))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(ReturnStmt{Value: value}))
}

func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(st.Payload)), true
}

// NewSimple allocates a payload-free statement (break, continue, pass).
func (s *Stmts) NewSimple(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, 0)
}

func (s *Stmts) NewUnsupported(span source.Span, label string) StmtID {
	return s.new(StmtUnsupported, span, s.Unsupporteds.Allocate(UnsupportedStmt{Label: label}))
}

func (s *Stmts) Unsupported(id StmtID) (*UnsupportedStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtUnsupported {
		return nil, false
	}
	return s.Unsupporteds.Get(uint32(st.Payload)), true
}
