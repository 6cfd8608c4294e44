package parser

import (
	"typeflow/internal/diag"
	"typeflow/internal/source"
	"typeflow/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && !tok.Span.Empty() {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan возвращает лучший span для диагностики.
// Для NEWLINE/EOF/DEDENT указываем на конец последнего токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.IsLayout() || peek.Kind == token.EOF {
		return p.lastSpan.At()
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если его нет, репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	limited := p.opts.Enough()
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil || limited {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}

// describe renders a token for messages.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Newline:
		return "end of line"
	case token.Indent:
		return "indent"
	case token.Dedent:
		return "dedent"
	}
	return "'" + tok.Text + "'"
}

// syncLine: восстановление после ошибки: прокручиваем до конца логической
// строки (NEWLINE съедаем) или до EOF/DEDENT.
func (p *Parser) syncLine() {
	for {
		switch p.lx.Peek().Kind {
		case token.EOF, token.Dedent:
			return
		case token.Newline:
			p.advance()
			return
		case token.Indent:
			// тело блока после сломанного заголовка пропускаем целиком
			p.skipIndentedBlock()
			return
		}
		p.advance()
	}
}

// syncHeader пропускает сломанный заголовок составного оператора вместе с его телом.
func (p *Parser) syncHeader() {
	p.syncLine()
	if p.at(token.Indent) {
		p.skipIndentedBlock()
	}
}

// skipIndentedBlock съедает INDENT ... парный DEDENT.
func (p *Parser) skipIndentedBlock() {
	depth := 0
	for {
		switch p.advance().Kind {
		case token.Indent:
			depth++
		case token.Dedent:
			depth--
			if depth <= 0 {
				return
			}
		case token.EOF:
			return
		}
	}
}

// skipBalanced съедает всё до закрывающей скобки close включительно.
// Лексер склеивает строки внутри скобок, так что NEWLINE здесь не встречается.
func (p *Parser) skipBalanced(close token.Kind) source.Span {
	depth := 1
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.EOF, token.Newline:
			p.err(diag.SynUnclosedParen, "expected '"+close.String()+"'")
			return p.lastSpan
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		p.advance()
		if depth == 0 {
			return tok.Span
		}
	}
}
