package parser

import (
	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/source"
	"typeflow/internal/token"
)

// parseBlock: ':' затем либо простые операторы на той же строке,
// либо NEWLINE INDENT stmt+ DEDENT.
func (p *Parser) parseBlock(what string) ([]ast.StmtID, bool) {
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after "+what); !ok {
		p.syncLine()
		return nil, false
	}
	if !p.at(token.Newline) {
		return p.parseSimpleStmts(), true
	}
	p.advance()
	if _, ok := p.expect(token.Indent, diag.SynExpectIndent, "expected an indented block after "+what); !ok {
		return nil, false
	}
	body := p.parseStmtsUntil(token.Dedent)
	if p.at(token.Dedent) {
		p.advance()
	}
	return body, true
}

// blockEnd: span последнего оператора блока либо lastSpan.
func (p *Parser) blockEnd(body []ast.StmtID) source.Span {
	if len(body) == 0 {
		return p.lastSpan
	}
	return p.arenas.Stmts.Get(body[len(body)-1]).Span
}

// def NAME '(' params ')' ['->' test] ':' block
func (p *Parser) parseFunctionDef() (ast.StmtID, bool) {
	kw := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name after 'def'")
	if !ok {
		p.syncHeader()
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.LParen, diag.SynExpectParamList, "expected '(' after function name"); !ok {
		p.syncHeader()
		return ast.NoStmtID, false
	}
	params, unsupported, ok := p.parseParams(token.RParen)
	if !ok {
		p.syncHeader()
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		p.syncHeader()
		return ast.NoStmtID, false
	}
	if p.at(token.Arrow) {
		p.advance()
		if _, ok := p.parseTest(); !ok {
			p.syncHeader()
			return ast.NoStmtID, false
		}
		if unsupported == "" {
			unsupported = "return annotation"
		}
	}
	body, ok := p.parseBlock("function definition")
	if !ok {
		return ast.NoStmtID, false
	}
	span := kw.Span.Cover(p.blockEnd(body))
	if unsupported != "" {
		return p.arenas.Stmts.NewUnsupported(span, unsupported), true
	}
	return p.arenas.Stmts.NewFunctionDef(span, ast.FunctionDefStmt{
		Name:     p.arenas.Strings.Intern(nameTok.Text),
		NameSpan: nameTok.Span,
		Params:   params,
		Body:     body,
	}), true
}

// parseParams разбирает позиционные параметры до end (')' для def, ':' для lambda).
// Всё, что не является простым именем, помечается меткой unsupported.
func (p *Parser) parseParams(end token.Kind) (params []ast.Param, unsupported string, ok bool) {
	seen := make(map[string]struct{})
	note := func(label string) {
		if unsupported == "" {
			unsupported = label
		}
	}
	for !p.at(end) {
		switch p.lx.Peek().Kind {
		case token.Star, token.StarStar:
			p.advance()
			note("variadic parameter")
			if p.at(token.Ident) {
				p.advance()
			}
		case token.Slash:
			p.advance()
			note("positional-only marker")
		case token.Ident:
			tok := p.advance()
			if _, dup := seen[tok.Text]; dup {
				p.report(diag.SynDuplicateParam, diag.SevError, tok.Span, "duplicate argument '"+tok.Text+"' in function definition")
				return nil, "", false
			}
			seen[tok.Text] = struct{}{}
			params = append(params, ast.Param{Name: p.arenas.Strings.Intern(tok.Text), Span: tok.Span})
			if end == token.RParen && p.at(token.Colon) {
				p.advance()
				if _, ok := p.parseTest(); !ok {
					return nil, "", false
				}
				note("parameter annotation")
			}
			if p.at(token.Assign) {
				p.advance()
				if _, ok := p.parseTest(); !ok {
					return nil, "", false
				}
				note("default parameter value")
			}
		default:
			p.err(diag.SynExpectIdentifier, "expected parameter name, got "+describe(p.lx.Peek()))
			return nil, "", false
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return params, unsupported, true
}

// if test ':' block ('elif' test ':' block)* ['else' ':' block]
func (p *Parser) parseIf() (ast.StmtID, bool) {
	kw := p.advance()
	return p.parseIfRest(kw.Span)
}

func (p *Parser) parseIfRest(start source.Span) (ast.StmtID, bool) {
	cond, ok := p.parseNamedTest()
	if !ok {
		p.syncLine()
		return ast.NoStmtID, false
	}
	then, ok := p.parseBlock("'if' statement")
	if !ok {
		return ast.NoStmtID, false
	}
	var els []ast.StmtID
	switch p.lx.Peek().Kind {
	case token.KwElif:
		kw := p.advance()
		nested, ok := p.parseIfRest(kw.Span)
		if !ok {
			return ast.NoStmtID, false
		}
		els = []ast.StmtID{nested}
	case token.KwElse:
		p.advance()
		els, ok = p.parseBlock("'else'")
		if !ok {
			return ast.NoStmtID, false
		}
	}
	end := p.blockEnd(then)
	if len(els) > 0 {
		end = p.blockEnd(els)
	}
	return p.arenas.Stmts.NewIf(start.Cover(end), cond, then, els), true
}

// while test ':' block ['else' ':' block]
func (p *Parser) parseWhile() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseNamedTest()
	if !ok {
		p.syncLine()
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock("'while' statement")
	if !ok {
		return ast.NoStmtID, false
	}
	els, ok := p.parseLoopElse()
	if !ok {
		return ast.NoStmtID, false
	}
	end := p.blockEnd(body)
	if len(els) > 0 {
		end = p.blockEnd(els)
	}
	return p.arenas.Stmts.NewWhile(kw.Span.Cover(end), cond, body, els), true
}

// for target 'in' testlist ':' block ['else' ':' block]
func (p *Parser) parseFor() (ast.StmtID, bool) {
	kw := p.advance()
	target, ok := p.parseTargetList()
	if !ok {
		p.syncLine()
		return ast.NoStmtID, false
	}
	if !p.checkTarget(target) {
		p.syncLine()
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynForMissingIn, "expected 'in' in for loop"); !ok {
		p.syncLine()
		return ast.NoStmtID, false
	}
	iter, ok := p.parseTestList()
	if !ok {
		p.syncLine()
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock("'for' statement")
	if !ok {
		return ast.NoStmtID, false
	}
	els, ok := p.parseLoopElse()
	if !ok {
		return ast.NoStmtID, false
	}
	end := p.blockEnd(body)
	if len(els) > 0 {
		end = p.blockEnd(els)
	}
	return p.arenas.Stmts.NewFor(kw.Span.Cover(end), target, iter, body, els), true
}

func (p *Parser) parseLoopElse() ([]ast.StmtID, bool) {
	if !p.at(token.KwElse) {
		return nil, true
	}
	p.advance()
	return p.parseBlock("'else'")
}

// parseUnsupportedCompound разбирает class/with/try/async целиком (заголовок,
// тело и клаузы except/else/finally) и возвращает один Unsupported узел.
func (p *Parser) parseUnsupportedCompound(label string) (ast.StmtID, bool) {
	kw := p.lx.Peek()
	isTry := kw.Kind == token.KwTry
	p.advance()
	body, ok := p.skipHeaderAndBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	end := p.blockEnd(body)
	if isTry {
		for p.atOr(token.KwExcept, token.KwElse, token.KwFinally) {
			p.advance()
			clause, ok := p.skipHeaderAndBlock()
			if !ok {
				return ast.NoStmtID, false
			}
			end = p.blockEnd(clause)
		}
	}
	return p.arenas.Stmts.NewUnsupported(kw.Span.Cover(end), label), true
}

// parseDecorated: '@' expr NEWLINE затем def/class.
func (p *Parser) parseDecorated() (ast.StmtID, bool) {
	at := p.advance()
	for !p.atOr(token.Newline, token.EOF) {
		p.advance()
	}
	if p.at(token.Newline) {
		p.advance()
	}
	inner := p.parseStmt()
	end := p.lastSpan
	if len(inner) > 0 {
		end = p.arenas.Stmts.Get(inner[len(inner)-1]).Span
	}
	return p.arenas.Stmts.NewUnsupported(at.Span.Cover(end), "decorator"), true
}

// skipHeaderAndBlock пропускает токены заголовка до ':' на нулевой глубине
// скобок (лямбды внутри скобок не мешают) и разбирает блок.
func (p *Parser) skipHeaderAndBlock() ([]ast.StmtID, bool) {
	depth := 0
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.Colon:
			if depth <= 0 {
				return p.parseBlock("statement header")
			}
		case token.Newline, token.EOF:
			p.err(diag.SynExpectColon, "expected ':'")
			p.syncLine()
			return nil, false
		}
		p.advance()
	}
}
