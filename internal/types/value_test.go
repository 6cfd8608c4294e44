package types

import (
	"testing"

	"typeflow/internal/ast"
)

func TestJoinIsUnion(t *testing.T) {
	a := Join(Of(KindInt), Func(3))
	b := Join(Of(KindStr), Func(1))
	got := Join(a, b)
	if got.Key() != "int|str|fn1|fn3" {
		t.Fatalf("unexpected key %q", got.Key())
	}
	if !got.Contains(a) || !got.Contains(b) {
		t.Fatalf("join must contain both operands: %v", got)
	}
	// operands untouched
	if a.Key() != "int|fn3" || b.Key() != "str|fn1" {
		t.Fatalf("operands mutated: %v %v", a, b)
	}
}

func TestJoinLaws(t *testing.T) {
	vals := []TypeValue{
		Empty,
		Of(KindInt),
		Of(KindBool, KindFloat),
		Func(2),
		Join(Func(1), Of(KindStr)),
	}
	for _, x := range vals {
		if !Join(x, x).Equal(x) {
			t.Errorf("join not idempotent for %v", x)
		}
		if !Join(x, Empty).Equal(x) {
			t.Errorf("empty is not identity for %v", x)
		}
		for _, y := range vals {
			if !Join(x, y).Equal(Join(y, x)) {
				t.Errorf("join not commutative for %v %v", x, y)
			}
			for _, z := range vals {
				l := Join(Join(x, y), z)
				r := Join(x, Join(y, z))
				if !l.Equal(r) {
					t.Errorf("join not associative: %v vs %v", l, r)
				}
			}
		}
	}
}

func TestBoolIsNotInt(t *testing.T) {
	b := Of(KindBool)
	if b.Has(KindInt) {
		t.Fatal("bool must not imply int")
	}
	if LiteralKind(ast.LitBool) != KindBool {
		t.Fatal("bool literal must type as bool")
	}
	if LiteralKind(ast.LitInt) != KindInt || LiteralKind(ast.LitFloat) != KindFloat || LiteralKind(ast.LitStr) != KindStr {
		t.Fatal("literal kinds mismatch")
	}
}

func TestEmpty(t *testing.T) {
	var zero TypeValue
	if !zero.IsEmpty() || !Empty.IsEmpty() {
		t.Fatal("zero value must be empty")
	}
	if Func(NoFuncID).Len() != 0 {
		t.Fatal("invalid func id must give the empty set")
	}
	if Empty.String() != "{}" {
		t.Fatalf("got %q", Empty.String())
	}
}

func TestNames(t *testing.T) {
	v := JoinAll(Of(KindStr), Func(2), Of(KindInt))
	names := v.Names(func(id FuncID) string { return "f" })
	want := []string{"int", "str", "f"}
	if len(names) != len(want) {
		t.Fatalf("got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
	if v.String() != "{int, str, fn2}" {
		t.Fatalf("got %q", v.String())
	}
}

func TestSignatureKey(t *testing.T) {
	s1 := Signature{Of(KindInt), Join(Of(KindStr), Of(KindBool))}
	s2 := Signature{Of(KindInt), Join(Of(KindBool), Of(KindStr))}
	s3 := Signature{Join(Of(KindInt), Of(KindBool)), Of(KindStr)}
	if s1.Key() != s2.Key() || !s1.Equal(s2) {
		t.Fatalf("equal signatures differ: %s %s", s1.Key(), s2.Key())
	}
	if s1.Key() == s3.Key() {
		t.Fatalf("distinct signatures collide: %s", s1.Key())
	}
	if (Signature{}).Key() != "()" {
		t.Fatalf("got %q", Signature{}.Key())
	}
}

func TestLeftOperand(t *testing.T) {
	var op OpTyper = LeftOperand{}
	l, r := Of(KindStr), Of(KindInt)
	if got := op.Binary(ast.OpAdd, l, r); !got.Equal(l) {
		t.Errorf("binary: got %v", got)
	}
	if got := op.Compare([]ast.CompareOp{ast.CmpLt}, r, []TypeValue{l}); !got.Equal(r) {
		t.Errorf("compare: got %v", got)
	}
	if got := op.BoolOp(ast.BoolOr, []TypeValue{Of(KindFloat), l}); !got.Equal(Of(KindFloat)) {
		t.Errorf("boolop: got %v", got)
	}
	if got := op.Unary(ast.UnaryNot, r); !got.Equal(r) {
		t.Errorf("unary: got %v", got)
	}
}
