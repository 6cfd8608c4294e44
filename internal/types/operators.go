package types

import "typeflow/internal/ast"

// OpTyper computes the result set of an operator from its operand sets.
type OpTyper interface {
	Binary(op ast.BinaryOp, left, right TypeValue) TypeValue
	Compare(ops []ast.CompareOp, left TypeValue, rights []TypeValue) TypeValue
	BoolOp(op ast.BoolOp, values []TypeValue) TypeValue
	Unary(op ast.UnaryOp, operand TypeValue) TypeValue
}

// LeftOperand is the default operator rule: every binary, comparison and
// boolean operator yields the set of its left operand, unary operators yield
// their operand's set. Int + Int is deliberately not narrowed to Int.
type LeftOperand struct{}

var _ OpTyper = LeftOperand{}

func (LeftOperand) Binary(_ ast.BinaryOp, left, _ TypeValue) TypeValue {
	return left
}

func (LeftOperand) Compare(_ []ast.CompareOp, left TypeValue, _ []TypeValue) TypeValue {
	return left
}

func (LeftOperand) BoolOp(_ ast.BoolOp, values []TypeValue) TypeValue {
	if len(values) == 0 {
		return Empty
	}
	return values[0]
}

func (LeftOperand) Unary(_ ast.UnaryOp, operand TypeValue) TypeValue {
	return operand
}
