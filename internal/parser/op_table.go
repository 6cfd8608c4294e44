package parser

import (
	"typeflow/internal/ast"
	"typeflow/internal/token"
)

// Таблица приоритетов для бинарных операторов (чем выше число, тем сильнее связывает).
// Сравнения, not/and/or и ** разбираются отдельными уровнями.
const (
	precBitwiseOr      = 1 // |
	precBitwiseXor     = 2 // ^
	precBitwiseAnd     = 3 // &
	precShift          = 4 // << >>
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * / // % @
)

// binaryPrec возвращает приоритет инфиксного оператора или -1.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.SlashSlash, token.Percent, token.At:
		return precMultiplicative
	default:
		return -1
	}
}

func binaryOp(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.Plus:
		return ast.OpAdd
	case token.Minus:
		return ast.OpSub
	case token.Star:
		return ast.OpMul
	case token.At:
		return ast.OpMatMul
	case token.Slash:
		return ast.OpDiv
	case token.SlashSlash:
		return ast.OpFloorDiv
	case token.Percent:
		return ast.OpMod
	case token.StarStar:
		return ast.OpPow
	case token.Shl:
		return ast.OpShl
	case token.Shr:
		return ast.OpShr
	case token.Amp:
		return ast.OpBitAnd
	case token.Pipe:
		return ast.OpBitOr
	default:
		return ast.OpBitXor
	}
}

// augOp maps "+=" and friends to the underlying binary operator.
func augOp(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.PlusAssign:
		return ast.OpAdd
	case token.MinusAssign:
		return ast.OpSub
	case token.StarAssign:
		return ast.OpMul
	case token.StarStarAssign:
		return ast.OpPow
	case token.SlashAssign:
		return ast.OpDiv
	case token.SlashSlashAssign:
		return ast.OpFloorDiv
	case token.PercentAssign:
		return ast.OpMod
	case token.AtAssign:
		return ast.OpMatMul
	case token.AmpAssign:
		return ast.OpBitAnd
	case token.PipeAssign:
		return ast.OpBitOr
	case token.CaretAssign:
		return ast.OpBitXor
	case token.ShlAssign:
		return ast.OpShl
	default:
		return ast.OpShr
	}
}

func unaryOp(kind token.Kind) (ast.UnaryOp, bool) {
	switch kind {
	case token.Plus:
		return ast.UnaryPos, true
	case token.Minus:
		return ast.UnaryNeg, true
	case token.Tilde:
		return ast.UnaryInvert, true
	default:
		return ast.UnaryPos, false
	}
}
