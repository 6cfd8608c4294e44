package ast

// BinaryOp is an arithmetic or bitwise infix operator.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpMatMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpShl
	OpShr
	OpBitAnd
	OpBitOr
	OpBitXor
)

var binaryOpNames = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpMatMul: "@", OpDiv: "/", OpFloorDiv: "//",
	OpMod: "%", OpPow: "**", OpShl: "<<", OpShr: ">>", OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// CompareOp is one link of a comparison chain.
type CompareOp uint8

const (
	CmpLt CompareOp = iota
	CmpGt
	CmpLtE
	CmpGtE
	CmpEq
	CmpNotEq
	CmpIs
	CmpIsNot
	CmpIn
	CmpNotIn
)

var compareOpNames = [...]string{
	CmpLt: "<", CmpGt: ">", CmpLtE: "<=", CmpGtE: ">=", CmpEq: "==", CmpNotEq: "!=",
	CmpIs: "is", CmpIsNot: "is not", CmpIn: "in", CmpNotIn: "not in",
}

func (op CompareOp) String() string {
	if int(op) < len(compareOpNames) {
		return compareOpNames[op]
	}
	return "?"
}

type BoolOp uint8

const (
	BoolAnd BoolOp = iota
	BoolOr
)

func (op BoolOp) String() string {
	if op == BoolAnd {
		return "and"
	}
	return "or"
}

type UnaryOp uint8

const (
	UnaryPos UnaryOp = iota
	UnaryNeg
	UnaryInvert
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryPos:
		return "+"
	case UnaryNeg:
		return "-"
	case UnaryInvert:
		return "~"
	}
	return "not"
}
