package lexer

import (
	"typeflow/internal/diag"
	"typeflow/internal/token"
)

// scanIndentation пропускает пустые строки и строки-комментарии, измеряет
// отступ первой строки с кодом и кладёт INDENT/DEDENT в pending.
func (lx *Lexer) scanIndentation() {
	for {
		start := lx.cursor.Mark()
		var col uint32
		sawSpace, sawTab := false, false
		for {
			b := lx.cursor.Peek()
			if b == ' ' {
				sawSpace = true
				col++
			} else if b == '\t' {
				sawTab = true
				col = (col/lx.opts.TabSize + 1) * lx.opts.TabSize
			} else if b == '\f' {
				col = 0
			} else {
				break
			}
			lx.cursor.Bump()
		}
		ws := lx.cursor.SpanFrom(start)
		if !ws.Empty() {
			lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaSpace, Span: ws, Text: string(lx.file.Content[ws.Start:ws.End])})
		}

		switch lx.cursor.Peek() {
		case '#':
			lx.scanComment()
			if lx.cursor.Peek() == '\n' {
				lx.blankLine()
			}
			continue
		case '\n':
			lx.blankLine()
			continue
		case 0:
			if lx.cursor.EOF() {
				return
			}
		}

		if sawSpace && sawTab {
			lx.errLex(diag.LexTabsAndSpaces, ws, "inconsistent use of tabs and spaces in indentation")
		}
		lx.applyIndent(col)
		return
	}
}

func (lx *Lexer) blankLine() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaBlankLine, Span: sp, Text: "\n"})
}

func (lx *Lexer) applyIndent(col uint32) {
	at := lx.emptySpan()
	top := lx.indents[len(lx.indents)-1]
	switch {
	case col > top:
		lx.indents = append(lx.indents, col)
		lx.pending = append(lx.pending, token.Token{Kind: token.Indent, Span: at})
	case col < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > col {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.pending = append(lx.pending, token.Token{Kind: token.Dedent, Span: at})
		}
		if lx.indents[len(lx.indents)-1] != col {
			lx.errLex(diag.LexInconsistentDedent, at, "unindent does not match any outer indentation level")
			// дальше считаем строку выровненной по найденному уровню
		}
	}
	// INDENT/DEDENT забирают trivia; сама строка получит свежий hold
	if len(lx.pending) > 0 && len(lx.hold) > 0 {
		lx.pending[0].Leading = lx.hold
		lx.hold = nil
	}
}
