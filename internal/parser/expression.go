package parser

import (
	"strings"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/token"
)

// parseTestList: test (',' test)* [','], кортеж без скобок не поддерживается.
func (p *Parser) parseTestList() (ast.ExprID, bool) {
	first, ok := p.parseNamedTest()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Comma) {
		return first, true
	}
	span := p.span(first)
	for p.at(token.Comma) {
		span = span.Cover(p.advance().Span)
		if !startsExpr(p.lx.Peek().Kind) {
			break
		}
		next, ok := p.parseNamedTest()
		if !ok {
			return ast.NoExprID, false
		}
		span = span.Cover(p.span(next))
	}
	return p.arenas.Exprs.NewUnsupported(span, "tuple"), true
}

// parseTargetList разбирает цель for: выражение до 'in' без сравнений.
func (p *Parser) parseTargetList() (ast.ExprID, bool) {
	first, ok := p.parseBinary(0)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Comma) {
		return first, true
	}
	span := p.span(first)
	for p.at(token.Comma) {
		span = span.Cover(p.advance().Span)
		if p.at(token.KwIn) {
			break
		}
		next, ok := p.parseBinary(0)
		if !ok {
			return ast.NoExprID, false
		}
		span = span.Cover(p.span(next))
	}
	return p.arenas.Exprs.NewUnsupported(span, "tuple"), true
}

// parseNamedTest: test [':=' test]
func (p *Parser) parseNamedTest() (ast.ExprID, bool) {
	left, ok := p.parseTest()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.ColonAssign) {
		return left, true
	}
	p.advance()
	right, ok := p.parseTest()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnsupported(p.span(left).Cover(p.span(right)), "assignment expression"), true
}

// parseTest: lambda | or_test ['if' or_test 'else' test]
func (p *Parser) parseTest() (ast.ExprID, bool) {
	if !p.enter() {
		p.leave()
		return ast.NoExprID, false
	}
	defer p.leave()

	if p.at(token.KwLambda) {
		return p.parseLambda()
	}
	body, ok := p.parseOr()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.KwIf) {
		return body, true
	}
	p.advance()
	if _, ok := p.parseOr(); !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.KwElse, diag.SynUnexpectedToken, "expected 'else' in conditional expression"); !ok {
		return ast.NoExprID, false
	}
	orelse, ok := p.parseTest()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnsupported(p.span(body).Cover(p.span(orelse)), "conditional expression"), true
}

// lambda [params] ':' test
func (p *Parser) parseLambda() (ast.ExprID, bool) {
	kw := p.advance()
	params, unsupported, ok := p.parseParams(token.Colon)
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' in lambda"); !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseTest()
	if !ok {
		return ast.NoExprID, false
	}
	span := kw.Span.Cover(p.span(body))
	if unsupported != "" {
		return p.arenas.Exprs.NewUnsupported(span, unsupported), true
	}
	return p.arenas.Exprs.NewLambda(span, params, body), true
}

func (p *Parser) parseOr() (ast.ExprID, bool) {
	return p.parseBoolChain(token.KwOr, ast.BoolOr, p.parseAnd)
}

func (p *Parser) parseAnd() (ast.ExprID, bool) {
	return p.parseBoolChain(token.KwAnd, ast.BoolAnd, p.parseNot)
}

func (p *Parser) parseBoolChain(kw token.Kind, op ast.BoolOp, next func() (ast.ExprID, bool)) (ast.ExprID, bool) {
	first, ok := next()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(kw) {
		return first, true
	}
	values := []ast.ExprID{first}
	for p.at(kw) {
		p.advance()
		v, ok := next()
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after '"+kw.String()+"'")
			return ast.NoExprID, false
		}
		values = append(values, v)
	}
	span := p.span(first).Cover(p.span(values[len(values)-1]))
	return p.arenas.Exprs.NewBoolOp(span, op, values), true
}

// not_test: 'not' not_test | comparison
func (p *Parser) parseNot() (ast.ExprID, bool) {
	if !p.at(token.KwNot) {
		return p.parseComparison()
	}
	if !p.enter() {
		p.leave()
		return ast.NoExprID, false
	}
	defer p.leave()
	kw := p.advance()
	operand, ok := p.parseNot()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnary(kw.Span.Cover(p.span(operand)), ast.UnaryNot, operand), true
}

// comparison: bitor (comp_op bitor)*
func (p *Parser) parseComparison() (ast.ExprID, bool) {
	left, ok := p.parseBinary(0)
	if !ok {
		return ast.NoExprID, false
	}
	var ops []ast.CompareOp
	var rights []ast.ExprID
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		right, ok := p.parseBinary(0)
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after comparison operator")
			return ast.NoExprID, false
		}
		rights = append(rights, right)
	}
	if len(ops) == 0 {
		return left, true
	}
	span := p.span(left).Cover(p.span(rights[len(rights)-1]))
	return p.arenas.Exprs.NewCompare(span, left, ops, rights), true
}

// compareOp съедает оператор сравнения, включая "not in" и "is not".
func (p *Parser) compareOp() (ast.CompareOp, bool) {
	switch p.lx.Peek().Kind {
	case token.Lt:
		p.advance()
		return ast.CmpLt, true
	case token.Gt:
		p.advance()
		return ast.CmpGt, true
	case token.LtEq:
		p.advance()
		return ast.CmpLtE, true
	case token.GtEq:
		p.advance()
		return ast.CmpGtE, true
	case token.EqEq:
		p.advance()
		return ast.CmpEq, true
	case token.BangEq:
		p.advance()
		return ast.CmpNotEq, true
	case token.KwIn:
		p.advance()
		return ast.CmpIn, true
	case token.KwIs:
		p.advance()
		if p.at(token.KwNot) {
			p.advance()
			return ast.CmpIsNot, true
		}
		return ast.CmpIs, true
	case token.KwNot:
		// "not" в позиции оператора допустим только как "not in"
		p.advance()
		if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' after 'not'"); !ok {
			return 0, false
		}
		return ast.CmpNotIn, true
	}
	return 0, false
}

// parseBinary: precedence climbing для | ^ & << >> + - * / // % @.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseFactor()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		opTok := p.lx.Peek()
		prec := binaryPrec(opTok.Kind)
		if prec < 0 || prec < minPrec {
			break
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after binary operator")
			return ast.NoExprID, false
		}
		span := p.span(left).Cover(p.span(right))
		left = p.arenas.Exprs.NewBinary(span, binaryOp(opTok.Kind), left, right)
	}
	return left, true
}

// factor: ('+'|'-'|'~') factor | power
func (p *Parser) parseFactor() (ast.ExprID, bool) {
	op, isUnary := unaryOp(p.lx.Peek().Kind)
	if !isUnary {
		return p.parsePower()
	}
	if !p.enter() {
		p.leave()
		return ast.NoExprID, false
	}
	defer p.leave()
	opTok := p.advance()
	operand, ok := p.parseFactor()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnary(opTok.Span.Cover(p.span(operand)), op, operand), true
}

// power: ['await'] primary ['**' factor]
func (p *Parser) parsePower() (ast.ExprID, bool) {
	if p.at(token.KwAwait) {
		kw := p.advance()
		operand, ok := p.parsePower()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnsupported(kw.Span.Cover(p.span(operand)), "await expression"), true
	}
	base, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.StarStar) {
		return base, true
	}
	p.advance()
	exp, ok := p.parseFactor()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after '**'")
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewBinary(p.span(base).Cover(p.span(exp)), ast.OpPow, base, exp), true
}

// primary: atom trailer*
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	expr, ok := p.parseAtom()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		switch p.lx.Peek().Kind {
		case token.LParen:
			expr, ok = p.parseCall(expr)
			if !ok {
				return ast.NoExprID, false
			}
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected attribute name after '.'")
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewUnsupported(p.span(expr).Cover(name.Span), "attribute access")
		case token.LBracket:
			p.advance()
			end := p.skipBalanced(token.RBracket)
			expr = p.arenas.Exprs.NewUnsupported(p.span(expr).Cover(end), "subscript")
		default:
			return expr, true
		}
	}
}

// parseCall: '(' [arg (',' arg)* [',']] ')'; только позиционные аргументы.
func (p *Parser) parseCall(callee ast.ExprID) (ast.ExprID, bool) {
	p.advance() // (
	var args []ast.ExprID
	unsupported := ""
	note := func(label string) {
		if unsupported == "" {
			unsupported = label
		}
	}
	for !p.at(token.RParen) {
		switch {
		case p.atOr(token.Star, token.StarStar):
			p.advance()
			note("unpacking argument")
			if _, ok := p.parseTest(); !ok {
				return ast.NoExprID, false
			}
		default:
			arg, ok := p.parseNamedTest()
			if !ok {
				return ast.NoExprID, false
			}
			switch {
			case p.at(token.Assign):
				p.advance()
				if _, ok := p.parseTest(); !ok {
					return ast.NoExprID, false
				}
				note("keyword argument")
			case p.atOr(token.KwFor, token.KwAsync):
				p.skipBalanced(token.RParen)
				return p.arenas.Exprs.NewUnsupported(p.span(callee).Cover(p.lastSpan), "generator expression"), true
			}
			args = append(args, arg)
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close call")
	if !ok {
		return ast.NoExprID, false
	}
	span := p.span(callee).Cover(closeTok.Span)
	if unsupported != "" {
		return p.arenas.Exprs.NewUnsupported(span, unsupported), true
	}
	return p.arenas.Exprs.NewCall(span, callee, args), true
}

func (p *Parser) parseAtom() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewName(tok.Span, p.arenas.Strings.Intern(tok.Text)), true
	case token.IntLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitInt, p.arenas.Strings.Intern(tok.Text)), true
	case token.FloatLit:
		p.advance()
		if last := tok.Text[len(tok.Text)-1]; last == 'j' || last == 'J' {
			return p.arenas.Exprs.NewUnsupported(tok.Span, "complex literal"), true
		}
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitFloat, p.arenas.Strings.Intern(tok.Text)), true
	case token.StringLit:
		return p.parseStrings()
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitBool, p.arenas.Strings.Intern(tok.Text)), true
	case token.KwNone:
		p.advance()
		return p.arenas.Exprs.NewUnsupported(tok.Span, "None"), true
	case token.Ellipsis:
		p.advance()
		return p.arenas.Exprs.NewUnsupported(tok.Span, "Ellipsis"), true
	case token.LParen:
		return p.parseParen()
	case token.LBracket:
		p.advance()
		end := p.skipBalanced(token.RBracket)
		return p.arenas.Exprs.NewUnsupported(tok.Span.Cover(end), "list display"), true
	case token.LBrace:
		p.advance()
		end := p.skipBalanced(token.RBrace)
		return p.arenas.Exprs.NewUnsupported(tok.Span.Cover(end), "dict or set display"), true
	case token.KwYield:
		p.advance()
		for !p.atOr(token.RParen, token.Newline, token.EOF) {
			p.advance()
		}
		return p.arenas.Exprs.NewUnsupported(tok.Span.Cover(p.lastSpan), "yield expression"), true
	case token.Star:
		p.advance()
		operand, ok := p.parseBinary(0)
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnsupported(tok.Span.Cover(p.span(operand)), "starred expression"), true
	case token.Invalid:
		// лексер уже сообщил об ошибке
		p.advance()
		return ast.NoExprID, false
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return ast.NoExprID, false
}

// parseStrings склеивает соседние строковые литералы ("a" "b").
// Байтовые строки и f-строки в подмножество не входят.
func (p *Parser) parseStrings() (ast.ExprID, bool) {
	first := p.lx.Peek()
	span := first.Span
	var text strings.Builder
	unsupported := ""
	for p.at(token.StringLit) {
		tok := p.advance()
		span = span.Cover(tok.Span)
		text.WriteString(tok.Text)
		prefix := strings.ToLower(tok.Text[:strings.IndexAny(tok.Text, `'"`)])
		switch {
		case strings.Contains(prefix, "b"):
			unsupported = "bytes literal"
		case strings.Contains(prefix, "f") && unsupported == "":
			unsupported = "f-string"
		}
	}
	if unsupported != "" {
		return p.arenas.Exprs.NewUnsupported(span, unsupported), true
	}
	return p.arenas.Exprs.NewLiteral(span, ast.LitStr, p.arenas.Strings.Intern(text.String())), true
}

// parseParen: '(' ')' | '(' testlist ')' | '(' generator ')'
func (p *Parser) parseParen() (ast.ExprID, bool) {
	open := p.advance()
	if p.at(token.RParen) {
		closeTok := p.advance()
		return p.arenas.Exprs.NewUnsupported(open.Span.Cover(closeTok.Span), "tuple"), true
	}
	if p.at(token.KwYield) {
		p.parseAtom()
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnsupported(open.Span.Cover(closeTok.Span), "yield expression"), true
	}
	inner, ok := p.parseTestList()
	if !ok {
		return ast.NoExprID, false
	}
	if p.atOr(token.KwFor, token.KwAsync) {
		end := p.skipBalanced(token.RParen)
		return p.arenas.Exprs.NewUnsupported(open.Span.Cover(end), "generator expression"), true
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	if !ok {
		return ast.NoExprID, false
	}
	// скобки не создают узла; span расширяем, чтобы диагностика покрывала их
	e := p.arenas.Exprs.Get(inner)
	e.Span = open.Span.Cover(closeTok.Span)
	return inner, true
}

// startsExpr: может ли токен начинать выражение (для завершающей запятой).
func startsExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNone, token.KwLambda, token.KwNot, token.KwAwait,
		token.LParen, token.LBracket, token.LBrace, token.Plus, token.Minus, token.Tilde,
		token.Star, token.Ellipsis:
		return true
	}
	return false
}
