package parser

import (
	"testing"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/lexer"
	"typeflow/internal/source"
)

func TestFunctionDef(t *testing.T) {
	b, f := parseOK(t, "def f(x, y):\n    z = x\n    z += y\n    return z\n")
	if len(f.Body) != 1 {
		t.Fatalf("body len = %d", len(f.Body))
	}
	def, ok := b.Stmts.FunctionDef(f.Body[0])
	if !ok {
		t.Fatalf("want FunctionDef, got %v", b.Stmts.Get(f.Body[0]).Kind)
	}
	if b.Name(def.Name) != "f" || len(def.Params) != 2 || b.Name(def.Params[1].Name) != "y" {
		t.Fatalf("def header = %+v", def)
	}
	kinds := []ast.StmtKind{ast.StmtAssign, ast.StmtAugAssign, ast.StmtReturn}
	if len(def.Body) != len(kinds) {
		t.Fatalf("def body len = %d", len(def.Body))
	}
	for i, k := range kinds {
		if got := b.Stmts.Get(def.Body[i]).Kind; got != k {
			t.Errorf("stmt %d: %v, want %v", i, got, k)
		}
	}
	aug, _ := b.Stmts.AugAssign(def.Body[1])
	if aug.Op != ast.OpAdd {
		t.Errorf("aug op = %v", aug.Op)
	}
}

func TestElifChainNestsInElse(t *testing.T) {
	b, f := parseOK(t, "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n")
	outer, ok := b.Stmts.If(f.Body[0])
	if !ok {
		t.Fatal("want If")
	}
	if len(outer.Else) != 1 {
		t.Fatalf("outer else len = %d", len(outer.Else))
	}
	inner, ok := b.Stmts.If(outer.Else[0])
	if !ok {
		t.Fatal("elif must become nested If")
	}
	if len(inner.Then) != 1 || len(inner.Else) != 1 {
		t.Fatalf("inner if = %+v", inner)
	}
}

func TestSimpleStatementsOnOneLine(t *testing.T) {
	b, f := parseOK(t, "if a: x = 1; y = 2\nwhile b: pass\nfor c in s: break\nelse: continue\n")
	if len(f.Body) != 3 {
		t.Fatalf("body len = %d", len(f.Body))
	}
	iff, _ := b.Stmts.If(f.Body[0])
	if len(iff.Then) != 2 {
		t.Errorf("then len = %d", len(iff.Then))
	}
	loop, ok := b.Stmts.For(f.Body[2])
	if !ok || len(loop.Else) != 1 || b.Stmts.Get(loop.Else[0]).Kind != ast.StmtContinue {
		t.Errorf("for-else = %+v", loop)
	}
}

func TestPrecedence(t *testing.T) {
	b, f := parseOK(t, "x = a + b * c\ny = -a ** b\nz = a < b < c\nw = not a and b or c\n")
	value := func(i int) ast.ExprID {
		a, ok := b.Stmts.Assign(f.Body[i])
		if !ok {
			t.Fatalf("stmt %d is not Assign", i)
		}
		return a.Value
	}

	sum, ok := b.Exprs.Binary(value(0))
	if !ok || sum.Op != ast.OpAdd {
		t.Fatalf("x: want Add at root")
	}
	if mul, ok := b.Exprs.Binary(sum.Right); !ok || mul.Op != ast.OpMul {
		t.Errorf("x: want Mul on the right")
	}

	neg, ok := b.Exprs.Unary(value(1))
	if !ok || neg.Op != ast.UnaryNeg {
		t.Fatalf("y: want Neg at root")
	}
	if pow, ok := b.Exprs.Binary(neg.Operand); !ok || pow.Op != ast.OpPow {
		t.Errorf("y: ** must bind tighter than unary minus")
	}

	cmp, ok := b.Exprs.Compare(value(2))
	if !ok || len(cmp.Ops) != 2 || len(cmp.Rights) != 2 {
		t.Fatalf("z: want chained Compare, got %+v", cmp)
	}

	or, ok := b.Exprs.BoolOp(value(3))
	if !ok || or.Op != ast.BoolOr || len(or.Values) != 2 {
		t.Fatalf("w: want Or at root")
	}
	and, ok := b.Exprs.BoolOp(or.Values[0])
	if !ok || and.Op != ast.BoolAnd {
		t.Fatalf("w: want And under Or")
	}
	if not, ok := b.Exprs.Unary(and.Values[0]); !ok || not.Op != ast.UnaryNot {
		t.Errorf("w: want Not under And")
	}
}

func TestCompareOperators(t *testing.T) {
	b, f := parseOK(t, "r = a is not b\nr = a not in b\nr = a in b\nr = a is b\n")
	want := []ast.CompareOp{ast.CmpIsNot, ast.CmpNotIn, ast.CmpIn, ast.CmpIs}
	for i, op := range want {
		a, _ := b.Stmts.Assign(f.Body[i])
		cmp, ok := b.Exprs.Compare(a.Value)
		if !ok || cmp.Ops[0] != op {
			t.Errorf("stmt %d: want %v", i, op)
		}
	}
}

func TestChainedAssignmentAndLambda(t *testing.T) {
	b, f := parseOK(t, "a = b = 1\nh = lambda x, y: g(x + 1, y)\nk = lambda: 0\n")
	chain, _ := b.Stmts.Assign(f.Body[0])
	if len(chain.Targets) != 2 {
		t.Fatalf("targets = %d", len(chain.Targets))
	}
	if lit, ok := b.Exprs.Literal(chain.Value); !ok || lit.Kind != ast.LitInt {
		t.Errorf("value must be int literal")
	}

	h, _ := b.Stmts.Assign(f.Body[1])
	lam, ok := b.Exprs.Lambda(h.Value)
	if !ok || len(lam.Params) != 2 {
		t.Fatalf("want lambda with 2 params")
	}
	call, ok := b.Exprs.Call(lam.Body)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("lambda body must be a call with 2 args")
	}

	k, _ := b.Stmts.Assign(f.Body[2])
	if lam, ok := b.Exprs.Lambda(k.Value); !ok || len(lam.Params) != 0 {
		t.Errorf("zero-arg lambda")
	}
}

func TestLiterals(t *testing.T) {
	b, f := parseOK(t, "a = 3\nb = 2.5\nc = \"x\" 'y'\nd = True\ne = False\n")
	want := []ast.LitKind{ast.LitInt, ast.LitFloat, ast.LitStr, ast.LitBool, ast.LitBool}
	for i, k := range want {
		a, _ := b.Stmts.Assign(f.Body[i])
		lit, ok := b.Exprs.Literal(a.Value)
		if !ok || lit.Kind != k {
			t.Errorf("stmt %d: want %v literal", i, k)
		}
	}
	c, _ := b.Stmts.Assign(f.Body[2])
	lit, _ := b.Exprs.Literal(c.Value)
	if b.Name(lit.Value) != "\"x\"'y'" {
		t.Errorf("concatenated literal text = %q", b.Name(lit.Value))
	}
}

func TestParenthesesDoNotCreateNodes(t *testing.T) {
	b, f := parseOK(t, "x = (a + b) * c\n")
	a, _ := b.Stmts.Assign(f.Body[0])
	mul, ok := b.Exprs.Binary(a.Value)
	if !ok || mul.Op != ast.OpMul {
		t.Fatal("want Mul at root")
	}
	if add, ok := b.Exprs.Binary(mul.Left); !ok || add.Op != ast.OpAdd {
		t.Fatal("want Add on the left")
	}
	if sp := b.Exprs.Get(mul.Left).Span; sp.Start != 4 || sp.End != 11 {
		t.Errorf("parenthesized span = %v", sp)
	}
}

func TestUnsupportedConstructs(t *testing.T) {
	cases := []struct {
		src   string
		label string
	}{
		{"class A:\n    pass\n", "class definition"},
		{"import os\n", "import statement"},
		{"from os import path\n", "import statement"},
		{"raise E\n", "raise statement"},
		{"with f() as g:\n    pass\n", "with statement"},
		{"try:\n    pass\nexcept E:\n    pass\nfinally:\n    pass\n", "try statement"},
		{"@d\ndef f():\n    pass\n", "decorator"},
		{"x: int = 1\n", "annotated assignment"},
		{"x = [1, 2]\n", "list display"},
		{"x = {}\n", "dict or set display"},
		{"x = f(y=1)\n", "keyword argument"},
		{"x = f(*a)\n", "unpacking argument"},
		{"x = f(i for i in s)\n", "generator expression"},
		{"def f(x=1):\n    return x\n", "default parameter value"},
		{"def f(x: int):\n    return x\n", "parameter annotation"},
		{"def f(x) -> int:\n    return x\n", "return annotation"},
		{"def f(*a):\n    pass\n", "variadic parameter"},
		{"x.y = 1\n", "attribute access"},
		{"x = a[0]\n", "subscript"},
		{"a, b = 1, 2\n", "tuple"},
		{"x = ()\n", "tuple"},
		{"x = None\n", "None"},
		{"x = b'a'\n", "bytes literal"},
		{"x = f'a'\n", "f-string"},
		{"x = 1 if a else 2\n", "conditional expression"},
		{"x = 3j\n", "complex literal"},
		{"if (n := 1):\n    pass\n", "assignment expression"},
		{"x = lambda y=1: y\n", "default parameter value"},
		{"for a, b in s:\n    pass\n", "tuple"},
	}
	for _, tc := range cases {
		b, f := parseOK(t, tc.src)
		label, ok := firstUnsupported(b, f.Body)
		if !ok {
			// if-условие не обходится хелпером, проверим отдельно
			if iff, isIf := b.Stmts.If(f.Body[0]); isIf {
				label, ok = exprUnsupported(b, iff.Cond)
			}
		}
		if !ok || label != tc.label {
			t.Errorf("%q: label = %q (found %v), want %q", tc.src, label, ok, tc.label)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"def f(:\n    pass\n", diag.SynExpectIdentifier},
		{"def (x):\n    pass\n", diag.SynExpectIdentifier},
		{"def f x:\n    pass\n", diag.SynExpectParamList},
		{"if x\n    y = 1\n", diag.SynExpectColon},
		{"if x:\ny = 1\n", diag.SynExpectIndent},
		{"1 = x\n", diag.SynInvalidTarget},
		{"f() += 1\n", diag.SynInvalidTarget},
		{"for x y:\n    pass\n", diag.SynForMissingIn},
		{"else:\n    pass\n", diag.SynElseWithoutIf},
		{"  x = 1\n", diag.SynUnexpectedIndent},
		{"def f(a, a):\n    pass\n", diag.SynDuplicateParam},
		{"x = = 1\n", diag.SynExpectExpression},
		{"x = 1 2\n", diag.SynExpectNewline},
		{"global 1\n", diag.SynExpectIdentifier},
		{"x = a not b\n", diag.SynUnexpectedToken},
	}
	for _, tc := range cases {
		_, _, bag := parseSource(t, tc.src)
		if !hasCode(bag, tc.code) {
			t.Errorf("%q: want %s, got:\n%s", tc.src, tc.code.ID(), diag.FormatShort(nil, bag.Items()))
		}
	}
}

func TestRecoveryContinuesWithNextStatement(t *testing.T) {
	b, f, bag := parseSource(t, "x = = 1\ny = 2\ndef g(1):\n    pass\nz = 3\n")
	if !bag.HasErrors() {
		t.Fatal("expected errors")
	}
	if hasCode(bag, diag.SynUnexpectedIndent) {
		t.Fatalf("body of a broken def should be skipped:\n%s", diag.FormatShort(nil, bag.Items()))
	}
	var names []string
	for _, id := range f.Body {
		if a, ok := b.Stmts.Assign(id); ok {
			n, _ := b.Exprs.Name(a.Targets[0])
			names = append(names, b.Name(n.Name))
		}
	}
	if len(names) != 2 || names[0] != "y" || names[1] != "z" {
		t.Fatalf("recovered assignments = %v", names)
	}
}

func TestUnclosedParamListSwallowsRest(t *testing.T) {
	b, f, bag := parseSource(t, "y = 2\ndef g(:\n    pass\nz = 3\n")
	if !hasCode(bag, diag.LexUnbalancedBracket) {
		t.Fatalf("want %s, got:\n%s", diag.LexUnbalancedBracket.ID(), diag.FormatShort(nil, bag.Items()))
	}
	var names []string
	for _, id := range f.Body {
		if a, ok := b.Stmts.Assign(id); ok {
			n, _ := b.Exprs.Name(a.Targets[0])
			names = append(names, b.Name(n.Name))
		}
	}
	if len(names) != 1 || names[0] != "y" {
		t.Fatalf("assignments = %v", names)
	}
}

func TestMaxErrorsStopsReporting(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte("1 = a\n2 = b\n3 = c\n")))
	bag := diag.NewBag(0)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	opts := Options{MaxErrors: 1, Reporter: diag.BagReporter{Bag: bag}}
	ParseFile(lx, ast.NewBuilder(ast.Hints{}, nil), opts)
	if bag.Len() != 1 {
		t.Fatalf("want exactly one reported error, got %d", bag.Len())
	}
}
