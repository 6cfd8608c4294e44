package lexer

import (
	"typeflow/internal/diag"
	"typeflow/internal/token"
)

// compoundOps are tried in order, so longer operators come first.
var compoundOps = [...]struct {
	text string
	kind token.Kind
}{
	{"**=", token.StarStarAssign}, {"//=", token.SlashSlashAssign},
	{"<<=", token.ShlAssign}, {">>=", token.ShrAssign}, {"...", token.Ellipsis},
	{"**", token.StarStar}, {"//", token.SlashSlash}, {"<<", token.Shl}, {">>", token.Shr},
	{"<=", token.LtEq}, {">=", token.GtEq}, {"==", token.EqEq}, {"!=", token.BangEq},
	{"->", token.Arrow}, {":=", token.ColonAssign},
	{"+=", token.PlusAssign}, {"-=", token.MinusAssign}, {"*=", token.StarAssign},
	{"/=", token.SlashAssign}, {"%=", token.PercentAssign}, {"@=", token.AtAssign},
	{"&=", token.AmpAssign}, {"|=", token.PipeAssign}, {"^=", token.CaretAssign},
}

// Жадность: сначала составные операторы, затем односимвольные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	for _, op := range compoundOps {
		if lx.tryBytes(op.text) {
			return emit(op.kind)
		}
	}

	// односимвольные
	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '@':
		return emit(token.At)
	case '&':
		return emit(token.Amp)
	case '|':
		return emit(token.Pipe)
	case '^':
		return emit(token.Caret)
	case '~':
		return emit(token.Tilde)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case '=':
		return emit(token.Assign)
	case ',':
		return emit(token.Comma)
	case ':':
		return emit(token.Colon)
	case '.':
		return emit(token.Dot)
	case ';':
		return emit(token.Semicolon)
	case '(', '[', '{':
		tok := emit(openKind(ch))
		lx.brackets = append(lx.brackets, tok)
		return tok
	case ')', ']', '}':
		tok := emit(closeKind(ch))
		lx.closeBracket(tok)
		return tok
	default:
		// неизвестный символ; не-ASCII байты съедаем целой руной
		if ch >= utf8RuneSelf {
			lx.cursor.Reset(start)
			lx.bumpRune()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
}

func openKind(ch byte) token.Kind {
	switch ch {
	case '(':
		return token.LParen
	case '[':
		return token.LBracket
	}
	return token.LBrace
}

func closeKind(ch byte) token.Kind {
	switch ch {
	case ')':
		return token.RParen
	case ']':
		return token.RBracket
	}
	return token.RBrace
}

func (lx *Lexer) closeBracket(tok token.Token) {
	if len(lx.brackets) == 0 {
		lx.errLex(diag.LexUnbalancedBracket, tok.Span, "unmatched '"+tok.Text+"'")
		return
	}
	open := lx.brackets[len(lx.brackets)-1]
	lx.brackets = lx.brackets[:len(lx.brackets)-1]
	if closeKind(matching(open.Text[0])) != tok.Kind {
		lx.errLex(diag.LexUnbalancedBracket, tok.Span,
			"closing parenthesis '"+tok.Text+"' does not match opening parenthesis '"+open.Text+"'")
	}
}

func matching(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return '}'
}
