package lexer

import (
	"typeflow/internal/diag"
	"typeflow/internal/token"
)

// collectLineTrivia собирает trivia внутри логической строки:
//   - ' ', '\t', '\f' коалесцируются в один TriviaSpace
//   - '#...' до '\n' -> TriviaComment
//   - '\' + '\n' -> TriviaContinuation (явное продолжение строки)
//   - '\n' внутри скобок -> TriviaBlankLine (неявное продолжение)
func (lx *Lexer) collectLineTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\f':
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\f' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '#':
			lx.scanComment()
		case b == '\\':
			lx.cursor.Bump()
			if !lx.cursor.Eat('\n') {
				lx.errLex(diag.LexBadContinuation, lx.cursor.SpanFrom(start), "unexpected character after line continuation character")
				continue
			}
			lx.pushTrivia(token.TriviaContinuation, start)
		case b == '\n' && len(lx.brackets) > 0:
			lx.cursor.Bump()
			lx.pushTrivia(token.TriviaBlankLine, start)
		default:
			return
		}
	}
}

func (lx *Lexer) scanComment() {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	lx.pushTrivia(token.TriviaComment, start)
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}
