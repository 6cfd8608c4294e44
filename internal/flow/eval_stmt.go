package flow

import (
	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/symbols"
	"typeflow/internal/types"
)

// execBlock runs body in scope, mutating env in place.
func (c *Context) execBlock(scope symbols.ScopeID, body []ast.StmtID, env Env) error {
	for _, id := range body {
		if err := c.execStmt(scope, id, env); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) execStmt(scope symbols.ScopeID, id ast.StmtID, env Env) error {
	stmt := c.ast.Stmts.Get(id)
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case ast.StmtFunctionDef:
		def, _ := c.ast.Stmts.FunctionDef(id)
		fnScope, ok := c.table.DefScope(id)
		if !ok {
			return errorf(diag.AnaUnsupported, stmt.Span, "function definition was not registered")
		}
		ref, err := c.table.Resolve(scope, c.ast.Name(def.Name), def.NameSpan)
		if err != nil {
			return asFlowError(err)
		}
		env.Set(ref, types.Func(c.byScope[fnScope]))
		return nil

	case ast.StmtIf:
		s, _ := c.ast.Stmts.If(id)
		if _, err := c.evalExpr(scope, s.Cond, env); err != nil {
			return err
		}
		return c.branch(scope, env, s.Then, s.Else, nil)

	case ast.StmtWhile:
		s, _ := c.ast.Stmts.While(id)
		if _, err := c.evalExpr(scope, s.Cond, env); err != nil {
			return err
		}
		return c.branch(scope, env, s.Body, s.Else, nil)

	case ast.StmtFor:
		s, _ := c.ast.Stmts.For(id)
		iter, err := c.evalExpr(scope, s.Iter, env)
		if err != nil {
			return err
		}
		target, err := c.targetRef(scope, s.Target)
		if err != nil {
			return err
		}
		elem := elementOf(iter)
		return c.branch(scope, env, s.Body, s.Else, func(taken Env) {
			if !elem.IsEmpty() {
				taken.Set(target, elem)
			}
		})

	case ast.StmtAssign:
		s, _ := c.ast.Stmts.Assign(id)
		v, err := c.evalExpr(scope, s.Value, env)
		if err != nil {
			return err
		}
		for _, t := range s.Targets {
			ref, err := c.targetRef(scope, t)
			if err != nil {
				return err
			}
			env.Set(ref, v)
		}
		return nil

	case ast.StmtAugAssign:
		s, _ := c.ast.Stmts.AugAssign(id)
		ref, err := c.targetRef(scope, s.Target)
		if err != nil {
			return err
		}
		cur, ok := env.Get(ref)
		if !ok {
			if err := c.undefined(c.table.Ref(ref).Name, c.spanOf(s.Target)); err != nil {
				return err
			}
		}
		rhs, err := c.evalExpr(scope, s.Value, env)
		if err != nil {
			return err
		}
		env.Set(ref, c.opts.Ops.Binary(s.Op, cur, rhs))
		return nil

	case ast.StmtReturn:
		s, _ := c.ast.Stmts.Return(id)
		if !s.Value.IsValid() {
			return nil
		}
		v, err := c.evalExpr(scope, s.Value, env)
		if err != nil {
			return err
		}
		if ref, ok := c.table.Scope(scope).Return(); ok {
			env.Set(ref, v)
		}
		return nil

	case ast.StmtExpr:
		s, _ := c.ast.Stmts.Expr(id)
		_, err := c.evalExpr(scope, s.Value, env)
		return err

	case ast.StmtGlobal, ast.StmtBreak, ast.StmtContinue, ast.StmtPass:
		return nil

	default:
		label := stmt.Kind.String()
		if u, ok := c.ast.Stmts.Unsupported(id); ok {
			label = u.Label
		}
		return errorf(diag.AnaUnsupported, stmt.Span, "unsupported construct: "+label)
	}
}

// branch runs taken and other on clones of env and merges them back into
// env. prepare, when set, seeds the taken side.
func (c *Context) branch(scope symbols.ScopeID, env Env, taken, other []ast.StmtID, prepare func(Env)) error {
	left := env.Clone()
	right := env.Clone()
	if prepare != nil {
		prepare(left)
	}
	if err := c.execBlock(scope, taken, left); err != nil {
		return err
	}
	if err := c.execBlock(scope, other, right); err != nil {
		return err
	}
	env.replace(Merge(left, right))
	return nil
}

// elementOf gives the kinds produced by iterating over v. Only strings are
// iterable in the supported subset.
func elementOf(v types.TypeValue) types.TypeValue {
	if v.Has(types.KindStr) {
		return types.Of(types.KindStr)
	}
	return types.Empty
}

func (c *Context) targetRef(scope symbols.ScopeID, target ast.ExprID) (symbols.RefID, error) {
	name, ok := c.ast.Exprs.Name(target)
	if !ok {
		return symbols.NoRefID, errorf(diag.AnaUnsupported, c.spanOf(target), "unsupported construct: assignment target")
	}
	ref, err := c.table.Resolve(scope, c.ast.Name(name.Name), c.spanOf(target))
	if err != nil {
		return symbols.NoRefID, asFlowError(err)
	}
	return ref, nil
}
