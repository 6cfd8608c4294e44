package lexer

import (
	"typeflow/internal/diag"
	"typeflow/internal/source"
	"typeflow/internal/token"
)

// maxTokenLength bounds a single token; longer input is treated as garbage.
const maxTokenLength = 1 << 16

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	look    *token.Token   // 1 элементный буфер для токена
	pending []token.Token  // INDENT/DEDENT/NEWLINE, выданные пачкой
	hold    []token.Trivia // накопленные leading trivia

	indents     []uint32 // стек колонок отступов, indents[0] == 0
	brackets    []token.Token
	atLineStart bool
	lineHasCode bool // на текущей логической строке был значимый токен
	done        bool
}

func New(file *source.File, opts Options) *Lexer {
	if opts.TabSize == 0 {
		opts.TabSize = 8
	}
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		indents:     []uint32{0},
		atLineStart: true,
	}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// Логические строки завершаются NEWLINE, блоки открываются INDENT и
// закрываются DEDENT. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if tok, ok := lx.popPending(); ok {
		return tok
	}
	if lx.done {
		return lx.eofToken()
	}

	if lx.atLineStart && len(lx.brackets) == 0 {
		lx.atLineStart = false
		lx.scanIndentation()
		if tok, ok := lx.popPending(); ok {
			return tok
		}
	}

	lx.collectLineTrivia()

	if lx.cursor.EOF() {
		return lx.finish()
	}

	ch := lx.cursor.Peek()
	if ch == '\n' {
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.atLineStart = true
		lx.lineHasCode = false
		return lx.withLeading(token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(start), Text: "\n"})
	}

	var tok token.Token
	switch {
	case lx.atStringPrefix():
		tok = lx.scanString()
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()
	case ch == '"' || ch == '\'':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, tok.Span, "token exceeds maximum length")
		lx.cursor.Off = lx.cursor.Limit
		lx.brackets = lx.brackets[:0]
		tok.Kind = token.Invalid
		tok.Text = ""
	}
	lx.lineHasCode = true
	return lx.withLeading(tok)
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) withLeading(tok token.Token) token.Token {
	if len(lx.hold) > 0 {
		tok.Leading = lx.hold
		lx.hold = nil
	}
	return tok
}

func (lx *Lexer) popPending() (token.Token, bool) {
	if len(lx.pending) == 0 {
		return token.Token{}, false
	}
	tok := lx.pending[0]
	lx.pending = lx.pending[1:]
	return tok, true
}

// finish закрывает последнюю строку и все открытые блоки.
func (lx *Lexer) finish() token.Token {
	lx.done = true
	at := lx.emptySpan()
	for i := len(lx.brackets) - 1; i >= 0; i-- {
		open := lx.brackets[i]
		lx.errLex(diag.LexUnbalancedBracket, open.Span, "'"+open.Text+"' was never closed")
	}
	lx.brackets = lx.brackets[:0]
	if lx.lineHasCode {
		lx.pending = append(lx.pending, token.Token{Kind: token.Newline, Span: at})
		lx.lineHasCode = false
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.pending = append(lx.pending, token.Token{Kind: token.Dedent, Span: at})
	}
	lx.hold = nil
	if tok, ok := lx.popPending(); ok {
		return tok
	}
	return lx.eofToken()
}

func (lx *Lexer) eofToken() token.Token {
	return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
