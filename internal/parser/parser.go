package parser

import (
	"slices"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/lexer"
	"typeflow/internal/source"
	"typeflow/internal/token"
)

// maxNesting bounds statement and expression recursion on adversarial input.
const maxNesting = 512

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
}

// Parser хранит состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer // поток токенов (Peek/Next)
	arenas   *ast.Builder // построитель аренных узлов
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	depth    int
	tooDeep  bool
}

// ParseFile: входная точка для разбора одного файла.
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	first := lx.Peek().Span
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(first),
		opts:     opts,
		lastSpan: first.At(),
	}

	for _, st := range p.parseStmtsUntil(token.EOF) {
		p.arenas.PushStmt(p.file, st)
	}
	f := p.arenas.Files.Get(p.file)
	f.Span = first.Cover(p.lx.Peek().Span)

	var bag *diag.Bag
	switch br := opts.Reporter.(type) {
	case *diag.BagReporter:
		bag = br.Bag
	case diag.BagReporter:
		bag = br.Bag
	}
	return Result{File: p.file, Bag: bag}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// enter/leave ограничивают глубину рекурсии.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > maxNesting {
		if !p.tooDeep {
			p.tooDeep = true
			p.err(diag.SynUnexpectedToken, "too many nested statements or expressions")
		}
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}
