package testkit

import (
	"strings"
	"testing"

	"typeflow/internal/ast"
	"typeflow/internal/driver"
	"typeflow/internal/source"
)

var corpus = []string{
	"x = 1\n",
	"def f(x, y):\n    z = x\n    z += y\n    if x < z:\n        w = 1\n    else:\n        w = \"s\"\n    return w\nres = f(1, 2)\n",
	"while a:\n    k = 1\nelse:\n    k = 'x'\n",
	"for c in 'abc':\n    pass\nelse:\n    c = 1.5\n",
	"g = (lambda a: lambda b: a + b)(1)(2)\n",
	"if a and not b or c is None:\n    pass\nelif d:\n    e = -1 ** 2\n",
	"def h():\n    global q\n    q = h\n    return\n",
	"x = (1 +\n     2)\n",
	"class A:\n    pass\n",
}

func TestParsedCorpusKeepsSpanInvariants(t *testing.T) {
	for _, src := range corpus {
		pr, err := driver.ParseSource("corpus.py", []byte(src), 0)
		if err != nil {
			t.Fatal(err)
		}
		if err := CheckSpanInvariants(pr.Builder, pr.FileID, pr.File); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestDetectsChildOutsideParent(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.py", []byte("x = y\n"))
	sf := fs.Get(id)

	b := ast.NewBuilder(ast.Hints{}, nil)
	file := b.NewFile(source.Span{File: id, Start: 0, End: 6})
	target := b.Exprs.NewName(source.Span{File: id, Start: 0, End: 1}, b.Strings.Intern("x"))
	value := b.Exprs.NewName(source.Span{File: id, Start: 4, End: 6}, b.Strings.Intern("y"))
	b.PushStmt(file, b.Stmts.NewAssign(source.Span{File: id, Start: 0, End: 5}, []ast.ExprID{target}, value))

	err := CheckSpanInvariants(b, file, sf)
	if err == nil || !strings.Contains(err.Error(), "outside parent") {
		t.Fatalf("expected containment error, got %v", err)
	}
}

func TestDetectsOverlappingSiblings(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.py", []byte("pass\npass\n"))
	b := ast.NewBuilder(ast.Hints{}, nil)
	file := b.NewFile(source.Span{File: id, Start: 0, End: 10})
	b.PushStmt(file, b.Stmts.NewSimple(ast.StmtPass, source.Span{File: id, Start: 0, End: 6}))
	b.PushStmt(file, b.Stmts.NewSimple(ast.StmtPass, source.Span{File: id, Start: 5, End: 9}))

	err := CheckSpanInvariants(b, file, fs.Get(id))
	if err == nil || !strings.Contains(err.Error(), "overlaps") {
		t.Fatalf("expected overlap error, got %v", err)
	}
}
