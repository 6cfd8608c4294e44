package flow

import (
	"errors"
	"fmt"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/source"
	"typeflow/internal/symbols"
	"typeflow/internal/types"
)

// evalExpr computes the kind set of an expression. Evaluation never changes
// env; calls analyze callees on copies.
func (c *Context) evalExpr(scope symbols.ScopeID, id ast.ExprID, env Env) (types.TypeValue, error) {
	expr := c.ast.Exprs.Get(id)
	if expr == nil {
		return types.Empty, nil
	}
	switch expr.Kind {
	case ast.ExprName:
		e, _ := c.ast.Exprs.Name(id)
		name := c.ast.Name(e.Name)
		ref, err := c.table.Resolve(scope, name, expr.Span)
		if err != nil {
			return types.Empty, asFlowError(err)
		}
		if v, ok := env.Get(ref); ok {
			return v, nil
		}
		return types.Empty, c.undefined(name, expr.Span)

	case ast.ExprLit:
		e, _ := c.ast.Exprs.Literal(id)
		return types.Of(types.LiteralKind(e.Kind)), nil

	case ast.ExprBinary:
		e, _ := c.ast.Exprs.Binary(id)
		l, err := c.evalExpr(scope, e.Left, env)
		if err != nil {
			return types.Empty, err
		}
		r, err := c.evalExpr(scope, e.Right, env)
		if err != nil {
			return types.Empty, err
		}
		return c.opts.Ops.Binary(e.Op, l, r), nil

	case ast.ExprCompare:
		e, _ := c.ast.Exprs.Compare(id)
		l, err := c.evalExpr(scope, e.Left, env)
		if err != nil {
			return types.Empty, err
		}
		rights, err := c.evalAll(scope, e.Rights, env)
		if err != nil {
			return types.Empty, err
		}
		return c.opts.Ops.Compare(e.Ops, l, rights), nil

	case ast.ExprBoolOp:
		e, _ := c.ast.Exprs.BoolOp(id)
		values, err := c.evalAll(scope, e.Values, env)
		if err != nil {
			return types.Empty, err
		}
		return c.opts.Ops.BoolOp(e.Op, values), nil

	case ast.ExprUnary:
		e, _ := c.ast.Exprs.Unary(id)
		v, err := c.evalExpr(scope, e.Operand, env)
		if err != nil {
			return types.Empty, err
		}
		return c.opts.Ops.Unary(e.Op, v), nil

	case ast.ExprCall:
		e, _ := c.ast.Exprs.Call(id)
		return c.evalCall(scope, expr.Span, e, env)

	case ast.ExprLambda:
		fnScope, ok := c.table.LambdaScope(id)
		if !ok {
			return types.Empty, errorf(diag.AnaUnsupported, expr.Span, "lambda was not registered")
		}
		return types.Func(c.byScope[fnScope]), nil

	default:
		label := expr.Kind.String()
		if u, ok := c.ast.Exprs.Unsupported(id); ok {
			label = u.Label
		}
		return types.Empty, errorf(diag.AnaUnsupported, expr.Span, "unsupported construct: "+label)
	}
}

func (c *Context) evalAll(scope symbols.ScopeID, ids []ast.ExprID, env Env) ([]types.TypeValue, error) {
	out := make([]types.TypeValue, 0, len(ids))
	for _, id := range ids {
		v, err := c.evalExpr(scope, id, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// evalCall applies every function member of the callee set and joins the
// results. Arguments are evaluated once, before the first application.
func (c *Context) evalCall(scope symbols.ScopeID, sp source.Span, call *ast.CallExpr, env Env) (types.TypeValue, error) {
	callee, err := c.evalExpr(scope, call.Callee, env)
	if err != nil {
		return types.Empty, err
	}
	targets := callee.Funcs()
	if len(targets) == 0 {
		diag.ReportInfo(c.opts.Reporter, diag.AnaNoCallee, sp,
			fmt.Sprintf("callee has kinds %s and no function; the call contributes nothing", callee)).Emit()
		return types.Empty, nil
	}
	values, err := c.evalAll(scope, call.Args, env)
	if err != nil {
		return types.Empty, err
	}
	args := types.Signature(values)

	result := types.Empty
	for _, id := range targets {
		fn := c.Function(id)
		if fn == nil {
			continue
		}
		v, ok, err := fn.Apply(c, args, env, sp)
		if err != nil {
			return types.Empty, err
		}
		if ok {
			result = types.Join(result, v)
		}
	}
	return result, nil
}

// undefined applies the run's policy to a read of an absent binding.
func (c *Context) undefined(name string, sp source.Span) error {
	if c.opts.Undefined == Lenient {
		return nil
	}
	return errorf(diag.AnaUndefined, sp, fmt.Sprintf("variable %q is read before any path assigns it", name))
}

func (c *Context) spanOf(id ast.ExprID) source.Span {
	if e := c.ast.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

// asFlowError carries scope lookup failures over unchanged in meaning.
func asFlowError(err error) error {
	var serr *symbols.Error
	if errors.As(err, &serr) {
		return &Error{Code: serr.Code, Span: serr.Span, Msg: serr.Msg}
	}
	return err
}
