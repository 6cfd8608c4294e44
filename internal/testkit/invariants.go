package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"typeflow/internal/ast"
	"typeflow/internal/source"
)

// CheckSpanInvariants runs the span invariants on a parsed file:
// 1) file.Span is within file content bounds and points at sf
// 2) every statement and expression span is non-empty and points at sf
// 3) every node span is contained in its parent's span
// 4) sibling statements of one block do not overlap and appear in order
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent || f.Span.Start > f.Span.End {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}
	c := checker{b: b, file: sf.ID}
	return c.block(f.Body, f.Span)
}

type checker struct {
	b    *ast.Builder
	file source.FileID
}

func (c checker) span(what string, sp, parent source.Span) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty %s span: %v", what, sp)
	}
	if sp.File != c.file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, c.file)
	}
	if !parent.Contains(sp) {
		return fmt.Errorf("%s span %v is outside parent span %v", what, sp, parent)
	}
	return nil
}

func (c checker) block(stmts []ast.StmtID, parent source.Span) error {
	var prev source.Span
	for i, id := range stmts {
		st := c.b.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("nil stmt for id=%d", id)
		}
		if err := c.span("stmt "+st.Kind.String(), st.Span, parent); err != nil {
			return err
		}
		if i > 0 && st.Span.Start < prev.End {
			return fmt.Errorf("stmt %v overlaps previous sibling %v", st.Span, prev)
		}
		prev = st.Span
		if err := c.stmt(id, st); err != nil {
			return err
		}
	}
	return nil
}

func (c checker) stmt(id ast.StmtID, st *ast.Stmt) error {
	stmts := c.b.Stmts
	sp := st.Span
	switch st.Kind {
	case ast.StmtFunctionDef:
		if def, ok := stmts.FunctionDef(id); ok {
			return c.block(def.Body, sp)
		}
	case ast.StmtIf:
		if s, ok := stmts.If(id); ok {
			return firstErr(c.expr(s.Cond, sp), c.block(s.Then, sp), c.block(s.Else, sp))
		}
	case ast.StmtWhile:
		if s, ok := stmts.While(id); ok {
			return firstErr(c.expr(s.Cond, sp), c.block(s.Body, sp), c.block(s.Else, sp))
		}
	case ast.StmtFor:
		if s, ok := stmts.For(id); ok {
			return firstErr(c.expr(s.Target, sp), c.expr(s.Iter, sp), c.block(s.Body, sp), c.block(s.Else, sp))
		}
	case ast.StmtAssign:
		if s, ok := stmts.Assign(id); ok {
			return firstErr(c.exprs(s.Targets, sp), c.expr(s.Value, sp))
		}
	case ast.StmtAugAssign:
		if s, ok := stmts.AugAssign(id); ok {
			return firstErr(c.expr(s.Target, sp), c.expr(s.Value, sp))
		}
	case ast.StmtExpr:
		if s, ok := stmts.Expr(id); ok {
			return c.expr(s.Value, sp)
		}
	case ast.StmtReturn:
		if s, ok := stmts.Return(id); ok && s.Value.IsValid() {
			return c.expr(s.Value, sp)
		}
	}
	return nil
}

func (c checker) exprs(ids []ast.ExprID, parent source.Span) error {
	for _, id := range ids {
		if err := c.expr(id, parent); err != nil {
			return err
		}
	}
	return nil
}

func (c checker) expr(id ast.ExprID, parent source.Span) error {
	e := c.b.Exprs.Get(id)
	if e == nil {
		return fmt.Errorf("nil expr for id=%d", id)
	}
	if err := c.span("expr "+e.Kind.String(), e.Span, parent); err != nil {
		return err
	}
	exprs := c.b.Exprs
	sp := e.Span
	switch e.Kind {
	case ast.ExprBinary:
		if x, ok := exprs.Binary(id); ok {
			return firstErr(c.expr(x.Left, sp), c.expr(x.Right, sp))
		}
	case ast.ExprCompare:
		if x, ok := exprs.Compare(id); ok {
			return firstErr(c.expr(x.Left, sp), c.exprs(x.Rights, sp))
		}
	case ast.ExprBoolOp:
		if x, ok := exprs.BoolOp(id); ok {
			return c.exprs(x.Values, sp)
		}
	case ast.ExprUnary:
		if x, ok := exprs.Unary(id); ok {
			return c.expr(x.Operand, sp)
		}
	case ast.ExprCall:
		if x, ok := exprs.Call(id); ok {
			return firstErr(c.expr(x.Callee, sp), c.exprs(x.Args, sp))
		}
	case ast.ExprLambda:
		if x, ok := exprs.Lambda(id); ok {
			return c.expr(x.Body, sp)
		}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
