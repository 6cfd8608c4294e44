package lexer

import (
	"typeflow/internal/diag"
	"typeflow/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x..., 1.0, 1., .5, 1e-3, 1.0e+10, 3j.
// Мнимые литералы получают Kind FloatLit с суффиксом j в Text; парсер
// помечает их как неподдерживаемые.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	bad := func(msg string) token.Token {
		// доедаем хвост, чтобы не получить каскад ошибок
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, msg)
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	if lx.cursor.Peek() == '0' {
		if b1 := lx.cursor.PeekAt(1); b1 == 'x' || b1 == 'X' || b1 == 'o' || b1 == 'O' || b1 == 'b' || b1 == 'B' {
			lx.cursor.Off += 2
			var digit func(byte) bool
			switch b1 {
			case 'x', 'X':
				digit = isHex
			case 'o', 'O':
				digit = isOct
			default:
				digit = isBin
			}
			if !lx.eatDigits(digit) {
				return bad("invalid digit in radix literal")
			}
			if isIdentContinueByte(lx.cursor.Peek()) {
				return bad("invalid digit in radix literal")
			}
			return lx.emitNumber(start, kind)
		}
	}

	if lx.cursor.Peek() != '.' {
		intStart := lx.cursor.Off
		if !lx.eatDigits(isDec) {
			return bad("invalid decimal literal")
		}
		digits := lx.file.Content[intStart:lx.cursor.Off]
		leadingZero := len(digits) > 1 && digits[0] == '0'
		if leadingZero {
			for _, d := range digits {
				if d != '0' && d != '_' {
					// "0123": только если это не float вроде "0123.5"
					if b := lx.cursor.Peek(); b != '.' && b != 'e' && b != 'E' && b != 'j' && b != 'J' {
						return bad("leading zeros in decimal integer literals are not permitted")
					}
					break
				}
			}
		}
	}

	// дробная часть
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		if isDec(lx.cursor.Peek()) && !lx.eatDigits(isDec) {
			return bad("invalid decimal literal")
		}
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(mark)
			return bad("expected digit after exponent")
		}
		if !lx.eatDigits(isDec) {
			return bad("invalid decimal literal")
		}
		kind = token.FloatLit
	}

	if b := lx.cursor.Peek(); b == 'j' || b == 'J' {
		lx.cursor.Bump()
		kind = token.FloatLit
	}

	if isIdentContinueByte(lx.cursor.Peek()) {
		return bad("invalid decimal literal")
	}
	return lx.emitNumber(start, kind)
}

// eatDigits съедает цифры с одиночными '_' между ними.
// Возвращает false, если '_' стоит в начале, в конце или дублируется.
func (lx *Lexer) eatDigits(digit func(byte) bool) bool {
	if lx.cursor.Peek() == '_' {
		// допустимо только после префикса основания: 0x_ff
		lx.cursor.Bump()
	}
	if !digit(lx.cursor.Peek()) {
		return false
	}
	for {
		b := lx.cursor.Peek()
		if digit(b) {
			lx.cursor.Bump()
			continue
		}
		if b == '_' {
			lx.cursor.Bump()
			if !digit(lx.cursor.Peek()) {
				return false
			}
			continue
		}
		return true
	}
}

func (lx *Lexer) emitNumber(start Mark, kind token.Kind) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
