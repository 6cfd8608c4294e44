package symbols

import (
	"fmt"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/source"
)

// Options configure scope construction.
type Options struct {
	// Files resolves definition positions into line:col keys. When nil the
	// key carries the byte offset instead.
	Files *source.FileSet
	// Reporter receives non-fatal findings such as unreachable statements.
	Reporter diag.Reporter
	Hints    Hints
}

// Build registers every scope and binding of file. Any construct outside the
// supported subset aborts construction with an *Error.
func Build(builder *ast.Builder, file ast.FileID, opts Options) (*Table, error) {
	if builder == nil {
		return nil, fmt.Errorf("symbols: nil builder")
	}
	f := builder.Files.Get(file)
	if f == nil {
		return nil, fmt.Errorf("symbols: unknown file %d", file)
	}
	sb := &scopeBuilder{
		ast:   builder,
		table: NewTable(opts.Hints),
		opts:  opts,
		file:  file,
	}
	sb.table.Root = sb.table.Scopes.New(ScopeModule, NoScopeID, "", Owner{File: file, Span: f.Span})
	if err := sb.walkBody(sb.table.Root, f.Body); err != nil {
		return nil, err
	}
	return sb.table, nil
}

type scopeBuilder struct {
	ast   *ast.Builder
	table *Table
	opts  Options
	file  ast.FileID
}

func (sb *scopeBuilder) walkBody(scope ScopeID, body []ast.StmtID) error {
	terminated := false
	for _, id := range body {
		stmt := sb.ast.Stmts.Get(id)
		if stmt == nil {
			continue
		}
		if terminated {
			sb.warnUnreachable(stmt.Span)
			terminated = false
		}
		if err := sb.walkStmt(scope, id, stmt); err != nil {
			return err
		}
		switch stmt.Kind {
		case ast.StmtReturn, ast.StmtBreak, ast.StmtContinue:
			terminated = true
		}
	}
	return nil
}

func (sb *scopeBuilder) walkStmt(scope ScopeID, id ast.StmtID, stmt *ast.Stmt) error {
	switch stmt.Kind {
	case ast.StmtFunctionDef:
		def, ok := sb.ast.Stmts.FunctionDef(id)
		if !ok {
			return nil
		}
		sb.table.Add(scope, sb.ast.Name(def.Name), def.NameSpan)
		return sb.newFunction(scope, id, stmt.Span, def)
	case ast.StmtIf:
		s, ok := sb.ast.Stmts.If(id)
		if !ok {
			return nil
		}
		if err := sb.walkExpr(scope, s.Cond); err != nil {
			return err
		}
		if err := sb.walkBody(scope, s.Then); err != nil {
			return err
		}
		return sb.walkBody(scope, s.Else)
	case ast.StmtWhile:
		s, ok := sb.ast.Stmts.While(id)
		if !ok {
			return nil
		}
		if err := sb.walkExpr(scope, s.Cond); err != nil {
			return err
		}
		if err := sb.walkBody(scope, s.Body); err != nil {
			return err
		}
		return sb.walkBody(scope, s.Else)
	case ast.StmtFor:
		s, ok := sb.ast.Stmts.For(id)
		if !ok {
			return nil
		}
		if err := sb.bindTarget(scope, s.Target); err != nil {
			return err
		}
		if err := sb.walkExpr(scope, s.Iter); err != nil {
			return err
		}
		if err := sb.walkBody(scope, s.Body); err != nil {
			return err
		}
		return sb.walkBody(scope, s.Else)
	case ast.StmtAssign:
		s, ok := sb.ast.Stmts.Assign(id)
		if !ok {
			return nil
		}
		for _, target := range s.Targets {
			if err := sb.bindTarget(scope, target); err != nil {
				return err
			}
		}
		return sb.walkExpr(scope, s.Value)
	case ast.StmtAugAssign:
		s, ok := sb.ast.Stmts.AugAssign(id)
		if !ok {
			return nil
		}
		if err := sb.bindTarget(scope, s.Target); err != nil {
			return err
		}
		return sb.walkExpr(scope, s.Value)
	case ast.StmtExpr:
		s, ok := sb.ast.Stmts.Expr(id)
		if !ok {
			return nil
		}
		return sb.walkExpr(scope, s.Value)
	case ast.StmtReturn:
		if s := sb.table.Scopes.Get(scope); s != nil && s.Kind == ScopeModule {
			return errorf(diag.AnaUnsupported, stmt.Span, "unsupported construct: return outside function")
		}
		s, ok := sb.ast.Stmts.Return(id)
		if !ok || !s.Value.IsValid() {
			return nil
		}
		return sb.walkExpr(scope, s.Value)
	case ast.StmtGlobal, ast.StmtBreak, ast.StmtContinue, ast.StmtPass:
		// globals of function bodies are hoisted in newFunction
		return nil
	case ast.StmtUnsupported:
		label := "statement"
		if s, ok := sb.ast.Stmts.Unsupported(id); ok {
			label = s.Label
		}
		return errorf(diag.AnaUnsupported, stmt.Span, "unsupported construct: "+label)
	default:
		return errorf(diag.AnaUnsupported, stmt.Span, "unsupported construct: "+stmt.Kind.String())
	}
}

func (sb *scopeBuilder) bindTarget(scope ScopeID, id ast.ExprID) error {
	expr := sb.ast.Exprs.Get(id)
	if expr == nil {
		return nil
	}
	if name, ok := sb.ast.Exprs.Name(id); ok {
		sb.table.Add(scope, sb.ast.Name(name.Name), expr.Span)
		return nil
	}
	if expr.Kind == ast.ExprUnsupported {
		return sb.walkExpr(scope, id)
	}
	return errorf(diag.AnaUnsupported, expr.Span, "unsupported construct: assignment to "+expr.Kind.String())
}

// walkExpr visits every expression position, registering lambdas and
// rejecting unsupported shapes.
func (sb *scopeBuilder) walkExpr(scope ScopeID, id ast.ExprID) error {
	if !id.IsValid() {
		return nil
	}
	expr := sb.ast.Exprs.Get(id)
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case ast.ExprName, ast.ExprLit:
		return nil
	case ast.ExprBinary:
		e, _ := sb.ast.Exprs.Binary(id)
		return sb.walkExprs(scope, e.Left, e.Right)
	case ast.ExprCompare:
		e, _ := sb.ast.Exprs.Compare(id)
		if err := sb.walkExpr(scope, e.Left); err != nil {
			return err
		}
		return sb.walkExprs(scope, e.Rights...)
	case ast.ExprBoolOp:
		e, _ := sb.ast.Exprs.BoolOp(id)
		return sb.walkExprs(scope, e.Values...)
	case ast.ExprUnary:
		e, _ := sb.ast.Exprs.Unary(id)
		return sb.walkExpr(scope, e.Operand)
	case ast.ExprCall:
		e, _ := sb.ast.Exprs.Call(id)
		if err := sb.walkExpr(scope, e.Callee); err != nil {
			return err
		}
		return sb.walkExprs(scope, e.Args...)
	case ast.ExprLambda:
		e, _ := sb.ast.Exprs.Lambda(id)
		return sb.newLambda(scope, id, expr.Span, e)
	case ast.ExprUnsupported:
		label := "expression"
		if e, ok := sb.ast.Exprs.Unsupported(id); ok {
			label = e.Label
		}
		return errorf(diag.AnaUnsupported, expr.Span, "unsupported construct: "+label)
	default:
		return errorf(diag.AnaUnsupported, expr.Span, "unsupported construct: "+expr.Kind.String())
	}
}

func (sb *scopeBuilder) walkExprs(scope ScopeID, ids ...ast.ExprID) error {
	for _, id := range ids {
		if err := sb.walkExpr(scope, id); err != nil {
			return err
		}
	}
	return nil
}

func (sb *scopeBuilder) newFunction(parent ScopeID, id ast.StmtID, sp source.Span, def *ast.FunctionDefStmt) error {
	name := sb.ast.Name(def.Name)
	line, col := sb.position(sp)
	key := DefKey{Kind: DefFunction, Name: name, Line: line, Col: col}
	if existing, ok := sb.table.defs[key]; ok {
		sb.table.stmtScope[id] = existing
		return nil
	}

	scope := sb.table.Scopes.New(ScopeFunction, parent, sb.childName(parent, name), Owner{
		File: sb.file,
		Stmt: id,
		Span: sp,
		Key:  key,
	})
	p := sb.table.Scopes.Get(parent)
	p.Children[name] = scope
	p.Nested = append(p.Nested, scope)
	sb.table.register(key, scope)
	sb.table.stmtScope[id] = scope

	s := sb.table.Scopes.Get(scope)
	params := make(map[string]bool, len(def.Params))
	for _, param := range def.Params {
		pname := sb.ast.Name(param.Name)
		params[pname] = true
		s.Params = append(s.Params, sb.table.Add(scope, pname, param.Span))
	}

	// global объявления поднимаются до любых локальных связываний
	for _, g := range sb.collectGlobals(def.Body, nil) {
		gname := sb.ast.Name(g.Name)
		if params[gname] {
			return errorf(diag.AnaGlobalParam, g.Span, fmt.Sprintf("name %q is parameter and global", gname))
		}
		if s.IsGlobal(gname) {
			continue
		}
		root := sb.table.Add(sb.table.Root, gname, g.Span)
		sb.table.alias(scope, gname, root)
		s.Globals = append(s.Globals, gname)
	}

	if sb.hasReturn(def.Body) {
		sb.table.Add(scope, ReturnSlot, sp)
	}
	return sb.walkBody(scope, def.Body)
}

func (sb *scopeBuilder) newLambda(parent ScopeID, id ast.ExprID, sp source.Span, lam *ast.LambdaExpr) error {
	line, col := sb.position(sp)
	key := DefKey{Kind: DefLambda, Line: line, Col: col}
	if existing, ok := sb.table.defs[key]; ok {
		sb.table.exprScope[id] = existing
		return nil
	}

	scope := sb.table.Scopes.New(ScopeLambda, parent, sb.childName(parent, key.String()), Owner{
		File: sb.file,
		Expr: id,
		Span: sp,
		Key:  key,
	})
	p := sb.table.Scopes.Get(parent)
	p.Children[key.String()] = scope
	p.Nested = append(p.Nested, scope)
	sb.table.register(key, scope)
	sb.table.exprScope[id] = scope

	s := sb.table.Scopes.Get(scope)
	for _, param := range lam.Params {
		s.Params = append(s.Params, sb.table.Add(scope, sb.ast.Name(param.Name), param.Span))
	}
	sb.table.Add(scope, ReturnSlot, sp)
	return sb.walkExpr(scope, lam.Body)
}

// collectGlobals gathers global declarations of a body, descending into
// compound statements but not into nested definitions.
func (sb *scopeBuilder) collectGlobals(body []ast.StmtID, acc []ast.Param) []ast.Param {
	for _, id := range body {
		stmt := sb.ast.Stmts.Get(id)
		if stmt == nil {
			continue
		}
		switch stmt.Kind {
		case ast.StmtGlobal:
			if g, ok := sb.ast.Stmts.Global(id); ok {
				acc = append(acc, g.Names...)
			}
		case ast.StmtIf:
			if s, ok := sb.ast.Stmts.If(id); ok {
				acc = sb.collectGlobals(s.Then, acc)
				acc = sb.collectGlobals(s.Else, acc)
			}
		case ast.StmtWhile:
			if s, ok := sb.ast.Stmts.While(id); ok {
				acc = sb.collectGlobals(s.Body, acc)
				acc = sb.collectGlobals(s.Else, acc)
			}
		case ast.StmtFor:
			if s, ok := sb.ast.Stmts.For(id); ok {
				acc = sb.collectGlobals(s.Body, acc)
				acc = sb.collectGlobals(s.Else, acc)
			}
		}
	}
	return acc
}

func (sb *scopeBuilder) hasReturn(body []ast.StmtID) bool {
	for _, id := range body {
		stmt := sb.ast.Stmts.Get(id)
		if stmt == nil {
			continue
		}
		switch stmt.Kind {
		case ast.StmtReturn:
			return true
		case ast.StmtIf:
			if s, ok := sb.ast.Stmts.If(id); ok && (sb.hasReturn(s.Then) || sb.hasReturn(s.Else)) {
				return true
			}
		case ast.StmtWhile:
			if s, ok := sb.ast.Stmts.While(id); ok && (sb.hasReturn(s.Body) || sb.hasReturn(s.Else)) {
				return true
			}
		case ast.StmtFor:
			if s, ok := sb.ast.Stmts.For(id); ok && (sb.hasReturn(s.Body) || sb.hasReturn(s.Else)) {
				return true
			}
		}
	}
	return false
}

func (sb *scopeBuilder) childName(parent ScopeID, name string) string {
	prefix := ""
	if p := sb.table.Scopes.Get(parent); p != nil {
		prefix = p.Name
	}
	return prefix + "." + name
}

func (sb *scopeBuilder) position(sp source.Span) (line, col uint32) {
	if sb.opts.Files == nil {
		return 0, sp.Start
	}
	start, _ := sb.opts.Files.Resolve(sp)
	return start.Line, start.Col
}

func (sb *scopeBuilder) warnUnreachable(sp source.Span) {
	if sb.opts.Reporter == nil {
		return
	}
	diag.ReportWarning(sb.opts.Reporter, diag.AnaUnreachable, sp,
		"statement follows return, break or continue; it is still analyzed").Emit()
}
