package types

import (
	"fmt"

	"typeflow/internal/ast"
)

// Kind is one primitive member of a type set. Function members are carried
// separately as FuncIDs.
type Kind uint8

const (
	KindInt Kind = 1 << iota
	KindFloat
	KindBool
	KindStr

	kindMask = KindInt | KindFloat | KindBool | KindStr
)

// baseKinds lists primitive kinds in canonical order.
var baseKinds = [...]Kind{KindInt, KindFloat, KindBool, KindStr}

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// FuncID identifies a FunctionValue inside one analysis run (1-based).
type FuncID uint32

const NoFuncID FuncID = 0

func (id FuncID) IsValid() bool { return id != NoFuncID }

// LiteralKind maps a literal form to its kind. Booleans stay KindBool.
func LiteralKind(k ast.LitKind) Kind {
	switch k {
	case ast.LitInt:
		return KindInt
	case ast.LitFloat:
		return KindFloat
	case ast.LitStr:
		return KindStr
	default:
		return KindBool
	}
}
