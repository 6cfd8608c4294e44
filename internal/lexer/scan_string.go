package lexer

import (
	"typeflow/internal/diag"
	"typeflow/internal/token"
)

// atStringPrefix: курсор стоит на префиксе строки (r, u, b, f, rb, br, fr, rf
// в любом регистре), сразу за которым идёт кавычка.
func (lx *Lexer) atStringPrefix() bool {
	n, ok := lx.prefixLen()
	return ok && n > 0
}

func (lx *Lexer) prefixLen() (uint32, bool) {
	lower := func(b byte) byte {
		if b >= 'A' && b <= 'Z' {
			return b + ('a' - 'A')
		}
		return b
	}
	isQuote := func(b byte) bool { return b == '"' || b == '\'' }

	b0 := lower(lx.cursor.PeekAt(0))
	b1 := lx.cursor.PeekAt(1)
	switch b0 {
	case 'r', 'u', 'b', 'f':
		if isQuote(b1) {
			return 1, true
		}
	default:
		return 0, false
	}
	b1 = lower(b1)
	pair := string([]byte{b0, b1})
	switch pair {
	case "rb", "br", "rf", "fr":
		if isQuote(lx.cursor.PeekAt(2)) {
			return 2, true
		}
	}
	return 0, false
}

// scanString сканирует строковый литерал целиком, включая префикс и кавычки.
// Escape-последовательности не декодируются: анализатору нужен только вид литерала.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	n, _ := lx.prefixLen()
	lx.cursor.Off += n

	quote := lx.cursor.Bump()
	triple := false
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == quote && b1 == quote {
		lx.cursor.Off += 2
		triple = true
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			// и в raw-строках '\' экранирует кавычку и перевод строки
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		case b == quote && !triple:
			lx.cursor.Bump()
			return lx.emitString(start)
		case b == quote && triple:
			if b1, b2, ok := lx.cursor.Peek2(); ok && b1 == quote && b2 == quote && lx.cursor.PeekAt(2) == quote {
				lx.cursor.Off += 3
				return lx.emitString(start)
			}
		case b == '\n' && !triple:
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	msg := "unterminated string literal"
	if triple {
		msg = "unterminated triple-quoted string literal"
	}
	lx.errLex(diag.LexUnterminatedString, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) emitString(start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
