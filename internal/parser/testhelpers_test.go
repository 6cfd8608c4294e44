package parser

import (
	"testing"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/lexer"
	"typeflow/internal/source"
)

// parseSource разбирает src как файл test.py; лексические и синтаксические
// диагностики попадают в один bag.
func parseSource(t *testing.T, src string) (*ast.Builder, *ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(src)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := ParseFile(lx, b, Options{Reporter: rep})
	return b, b.Files.Get(res.File), bag
}

func parseOK(t *testing.T, src string) (*ast.Builder, *ast.File) {
	t.Helper()
	b, f, bag := parseSource(t, src)
	if bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics for %q:\n%s", src, diag.FormatShort(nil, bag.Items()))
	}
	return b, f
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// firstUnsupported обходит дерево и возвращает метку первого Unsupported узла.
func firstUnsupported(b *ast.Builder, body []ast.StmtID) (string, bool) {
	for _, id := range body {
		if label, ok := stmtUnsupported(b, id); ok {
			return label, true
		}
	}
	return "", false
}

func stmtUnsupported(b *ast.Builder, id ast.StmtID) (string, bool) {
	st := b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtUnsupported:
		u, _ := b.Stmts.Unsupported(id)
		return u.Label, true
	case ast.StmtAssign:
		a, _ := b.Stmts.Assign(id)
		for _, t := range a.Targets {
			if label, ok := exprUnsupported(b, t); ok {
				return label, true
			}
		}
		return exprUnsupported(b, a.Value)
	case ast.StmtAugAssign:
		a, _ := b.Stmts.AugAssign(id)
		if label, ok := exprUnsupported(b, a.Target); ok {
			return label, true
		}
		return exprUnsupported(b, a.Value)
	case ast.StmtExpr:
		e, _ := b.Stmts.Expr(id)
		return exprUnsupported(b, e.Value)
	case ast.StmtReturn:
		r, _ := b.Stmts.Return(id)
		if r.Value.IsValid() {
			return exprUnsupported(b, r.Value)
		}
	case ast.StmtFunctionDef:
		d, _ := b.Stmts.FunctionDef(id)
		return firstUnsupported(b, d.Body)
	case ast.StmtFor:
		f, _ := b.Stmts.For(id)
		if label, ok := exprUnsupported(b, f.Target); ok {
			return label, true
		}
		return firstUnsupported(b, f.Body)
	}
	return "", false
}

func exprUnsupported(b *ast.Builder, id ast.ExprID) (string, bool) {
	e := b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprUnsupported:
		u, _ := b.Exprs.Unsupported(id)
		return u.Label, true
	case ast.ExprCall:
		c, _ := b.Exprs.Call(id)
		for _, a := range c.Args {
			if label, ok := exprUnsupported(b, a); ok {
				return label, true
			}
		}
		return exprUnsupported(b, c.Callee)
	case ast.ExprBinary:
		bin, _ := b.Exprs.Binary(id)
		if label, ok := exprUnsupported(b, bin.Left); ok {
			return label, true
		}
		return exprUnsupported(b, bin.Right)
	case ast.ExprLambda:
		l, _ := b.Exprs.Lambda(id)
		return exprUnsupported(b, l.Body)
	}
	return "", false
}
