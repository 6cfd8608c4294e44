package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

const utf8RuneSelf = utf8.RuneSelf

// peekRune decodes the rune at the cursor; size 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	if b := lx.cursor.Peek(); b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	n, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += n
}

// Идентификаторы Python: ASCII быстро, остальное по XID_Start/XID_Continue.
func isIdentStartByte(b byte) bool {
	return b == '_' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.In(r, unicode.Nl, unicode.Other_ID_Start)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }
func isOct(b byte) bool { return '0' <= b && b <= '7' }
func isBin(b byte) bool { return b == '0' || b == '1' }

func isHex(b byte) bool {
	return isDec(b) || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}

// isNumberAfterDot matches the ".5" form of a float literal.
func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1))
}

// tryBytes consumes s when the input continues with it.
func (lx *Lexer) tryBytes(s string) bool {
	for i := range len(s) {
		if lx.cursor.PeekAt(uint32(i)) != s[i] {
			return false
		}
	}
	lx.cursor.Off += uint32(len(s))
	return true
}
