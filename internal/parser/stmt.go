package parser

import (
	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/source"
	"typeflow/internal/token"
)

// parseStmtsUntil разбирает последовательность операторов до end (EOF или DEDENT).
// Сам end не съедается.
func (p *Parser) parseStmtsUntil(end token.Kind) []ast.StmtID {
	var out []ast.StmtID
	for !p.at(end) && !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Newline:
			p.advance()
			continue
		case token.Indent:
			p.err(diag.SynUnexpectedIndent, "unexpected indent")
			p.advance()
			out = append(out, p.parseStmtsUntil(token.Dedent)...)
			if p.at(token.Dedent) {
				p.advance()
			}
			continue
		case token.Dedent:
			// лишний DEDENT на верхнем уровне после восстановления
			p.advance()
			continue
		}
		out = append(out, p.parseStmt()...)
	}
	return out
}

// parseStmt разбирает один оператор; простые операторы через ';' дают несколько узлов.
func (p *Parser) parseStmt() []ast.StmtID {
	if !p.enter() {
		p.leave()
		p.syncLine()
		return nil
	}
	defer p.leave()

	switch p.lx.Peek().Kind {
	case token.KwDef:
		return one(p.parseFunctionDef())
	case token.KwIf:
		return one(p.parseIf())
	case token.KwWhile:
		return one(p.parseWhile())
	case token.KwFor:
		return one(p.parseFor())
	case token.KwClass:
		return one(p.parseUnsupportedCompound("class definition"))
	case token.KwWith:
		return one(p.parseUnsupportedCompound("with statement"))
	case token.KwTry:
		return one(p.parseUnsupportedCompound("try statement"))
	case token.KwAsync:
		return one(p.parseUnsupportedCompound("async statement"))
	case token.At:
		return one(p.parseDecorated())
	case token.KwElif, token.KwElse, token.KwExcept, token.KwFinally:
		tok := p.lx.Peek()
		p.err(diag.SynElseWithoutIf, describe(tok)+" without a matching statement")
		p.advance()
		p.skipHeaderAndBlock()
		return nil
	}
	return p.parseSimpleStmts()
}

func one(id ast.StmtID, ok bool) []ast.StmtID {
	if !ok || !id.IsValid() {
		return nil
	}
	return []ast.StmtID{id}
}

// parseSimpleStmts: small_stmt (';' small_stmt)* [';'] NEWLINE
func (p *Parser) parseSimpleStmts() []ast.StmtID {
	var out []ast.StmtID
	for {
		id, ok := p.parseSmallStmt()
		if !ok {
			p.syncLine()
			return out
		}
		out = append(out, id)
		if !p.at(token.Semicolon) {
			break
		}
		p.advance()
		if p.atOr(token.Newline, token.EOF) {
			break
		}
	}
	if p.at(token.EOF) {
		return out
	}
	if _, ok := p.expect(token.Newline, diag.SynExpectNewline, "expected end of line, got "+describe(p.lx.Peek())); !ok {
		p.syncLine()
	}
	return out
}

func (p *Parser) parseSmallStmt() (ast.StmtID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.KwPass:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtPass, tok.Span), true
	case token.KwBreak:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtBreak, tok.Span), true
	case token.KwContinue:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtContinue, tok.Span), true
	case token.KwReturn:
		return p.parseReturn()
	case token.KwGlobal:
		return p.parseGlobal()
	case token.KwImport, token.KwFrom:
		return p.parseUnsupportedSimple("import statement")
	case token.KwRaise:
		return p.parseUnsupportedSimple("raise statement")
	case token.KwDel:
		return p.parseUnsupportedSimple("del statement")
	case token.KwAssert:
		return p.parseUnsupportedSimple("assert statement")
	case token.KwNonlocal:
		return p.parseUnsupportedSimple("nonlocal statement")
	case token.KwYield:
		return p.parseUnsupportedSimple("yield expression")
	}
	return p.parseExprOrAssign()
}

func (p *Parser) parseReturn() (ast.StmtID, bool) {
	kw := p.advance()
	if p.atOr(token.Newline, token.Semicolon, token.EOF) {
		return p.arenas.Stmts.NewReturn(kw.Span, ast.NoExprID), true
	}
	value, ok := p.parseTestList()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(kw.Span.Cover(p.span(value)), value), true
}

func (p *Parser) parseGlobal() (ast.StmtID, bool) {
	kw := p.advance()
	var names []ast.Param
	span := kw.Span
	for {
		tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name after 'global'")
		if !ok {
			return ast.NoStmtID, false
		}
		names = append(names, ast.Param{Name: p.arenas.Strings.Intern(tok.Text), Span: tok.Span})
		span = span.Cover(tok.Span)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return p.arenas.Stmts.NewGlobal(span, names), true
}

// parseExprOrAssign: testlist (('=' testlist)* | augassign testlist | ':' annotation ...)
func (p *Parser) parseExprOrAssign() (ast.StmtID, bool) {
	first, ok := p.parseTestList()
	if !ok {
		return ast.NoStmtID, false
	}
	start := p.span(first)
	tok := p.lx.Peek()

	switch {
	case tok.Kind == token.Assign:
		targets := []ast.ExprID{first}
		var value ast.ExprID
		for p.at(token.Assign) {
			p.advance()
			next, ok := p.parseTestList()
			if !ok {
				return ast.NoStmtID, false
			}
			targets = append(targets, next)
			value = next
		}
		targets = targets[:len(targets)-1]
		for _, t := range targets {
			if !p.checkTarget(t) {
				return ast.NoStmtID, false
			}
		}
		return p.arenas.Stmts.NewAssign(start.Cover(p.span(value)), targets, value), true

	case tok.IsAugAssign():
		p.advance()
		if !p.checkTarget(first) {
			return ast.NoStmtID, false
		}
		value, ok := p.parseTestList()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewAugAssign(start.Cover(p.span(value)), first, augOp(tok.Kind), value), true

	case tok.Kind == token.Colon:
		// x: int = 1
		for !p.atOr(token.Newline, token.Semicolon, token.EOF) {
			p.advance()
		}
		return p.arenas.Stmts.NewUnsupported(start.Cover(p.lastSpan), "annotated assignment"), true
	}
	return p.arenas.Stmts.NewExpr(start, first), true
}

// checkTarget: присваивать можно только имени; неподдерживаемые формы
// (кортежи, атрибуты, индексы) пропускаем дальше как Unsupported.
func (p *Parser) checkTarget(id ast.ExprID) bool {
	e := p.arenas.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprName, ast.ExprUnsupported:
		return true
	}
	p.report(diag.SynInvalidTarget, diag.SevError, e.Span, "cannot assign to "+targetDescription(e.Kind))
	return false
}

func targetDescription(k ast.ExprKind) string {
	switch k {
	case ast.ExprLit:
		return "literal"
	case ast.ExprCall:
		return "function call"
	case ast.ExprLambda:
		return "lambda"
	case ast.ExprCompare:
		return "comparison"
	}
	return "expression"
}

func (p *Parser) parseUnsupportedSimple(label string) (ast.StmtID, bool) {
	start := p.advance().Span
	for !p.atOr(token.Newline, token.Semicolon, token.EOF) {
		p.advance()
	}
	return p.arenas.Stmts.NewUnsupported(start.Cover(p.lastSpan), label), true
}

func (p *Parser) span(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}
