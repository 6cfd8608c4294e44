package ast

import (
	"testing"

	"typeflow/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatal("empty arena must return nil")
	}
	id := a.Allocate(42)
	if id != 1 || *a.Get(id) != 42 || a.Len() != 1 {
		t.Fatalf("Allocate = %d, Get = %v", id, a.Get(id))
	}
}

func TestTypedAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Exprs.NewName(source.Span{}, b.Strings.Intern("x"))
	one := b.Exprs.NewLiteral(source.Span{}, LitInt, b.Strings.Intern("1"))
	sum := b.Exprs.NewBinary(source.Span{}, OpAdd, x, one)

	if _, ok := b.Exprs.Literal(x); ok {
		t.Error("Name must not be readable as Literal")
	}
	bin, ok := b.Exprs.Binary(sum)
	if !ok || bin.Left != x || bin.Right != one || bin.Op != OpAdd {
		t.Fatalf("Binary payload = %+v", bin)
	}
	if name, ok := b.Exprs.Name(x); !ok || b.Name(name.Name) != "x" {
		t.Fatal("Name payload lost")
	}

	ret := b.Stmts.NewReturn(source.Span{}, sum)
	if _, ok := b.Stmts.If(ret); ok {
		t.Error("Return must not be readable as If")
	}
	if r, ok := b.Stmts.Return(ret); !ok || r.Value != sum {
		t.Fatal("Return payload lost")
	}
	file := b.NewFile(source.Span{})
	b.PushStmt(file, ret)
	if got := b.Files.Get(file).Body; len(got) != 1 || got[0] != ret {
		t.Fatalf("file body = %v", got)
	}
}

func TestKindNames(t *testing.T) {
	if StmtAugAssign.String() != "AugAssign" || ExprLambda.String() != "Lambda" {
		t.Error("kind names out of sync")
	}
	if OpFloorDiv.String() != "//" || CmpNotIn.String() != "not in" || UnaryNot.String() != "not" {
		t.Error("operator names out of sync")
	}
}
