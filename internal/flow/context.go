package flow

import (
	"context"
	"fmt"
	"strconv"

	"typeflow/internal/ast"
	"typeflow/internal/symbols"
	"typeflow/internal/trace"
	"typeflow/internal/types"
)

// Context owns every registry of one analysis run: the scope table, the
// function table and the per-function caches. Nothing is shared between
// runs.
type Context struct {
	ast   *ast.Builder
	table *symbols.Table
	opts  Options

	funcs   []*FunctionValue // FuncID-1
	byScope map[symbols.ScopeID]types.FuncID

	ctx      context.Context
	tracer   trace.Tracer
	depth    int
	analyses int
}

// NewContext registers one FunctionValue per def and lambda of table, in
// definition order.
func NewContext(builder *ast.Builder, table *symbols.Table, opts Options) *Context {
	c := &Context{
		ast:     builder,
		table:   table,
		opts:    opts.withDefaults(),
		byScope: make(map[symbols.ScopeID]types.FuncID),
		ctx:     context.Background(),
		tracer:  trace.Nop,
	}
	for i, scope := range table.Defs() {
		id := types.FuncID(i + 1)
		c.funcs = append(c.funcs, newFunctionValue(id, table, scope))
		c.byScope[scope] = id
	}
	return c
}

// Table returns the scope table the run was built on.
func (c *Context) Table() *symbols.Table { return c.table }

// Function returns the function registered under id.
func (c *Context) Function(id types.FuncID) *FunctionValue {
	if !id.IsValid() || int(id) > len(c.funcs) {
		return nil
	}
	return c.funcs[id-1]
}

// Functions lists every function in definition order.
func (c *Context) Functions() []*FunctionValue {
	out := make([]*FunctionValue, len(c.funcs))
	copy(out, c.funcs)
	return out
}

// FuncName renders a function member of a kind set.
func (c *Context) FuncName(id types.FuncID) string {
	if fn := c.Function(id); fn != nil {
		return "func " + fn.Label()
	}
	return "func#" + strconv.FormatUint(uint64(id), 10)
}

// Analyses counts function body analyses across the run.
func (c *Context) Analyses() int { return c.analyses }

// Run analyzes the module body once. Any fatal condition aborts the run and
// no result is returned.
func (c *Context) Run(ctx context.Context, file ast.FileID) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx = ctx
	c.tracer = trace.FromContext(ctx)

	f := c.ast.Files.Get(file)
	if f == nil {
		return nil, fmt.Errorf("flow: unknown file %d", file)
	}
	span, _ := trace.BeginCtx(ctx, trace.ScopePass, "eval")
	env := make(Env)
	err := c.execBlock(c.table.Root, f.Body, env)
	span.WithExtra("analyses", strconv.Itoa(c.analyses)).End("")
	if err != nil {
		return nil, err
	}
	return &Result{
		Table:     c.table,
		Module:    env,
		Functions: c.Functions(),
		Analyses:  c.analyses,
		names:     c.FuncName,
	}, nil
}

// runFunction analyzes the body of fn into env.
func (c *Context) runFunction(fn *FunctionValue, env Env) error {
	if fn.IsLambda() {
		lam, ok := c.ast.Exprs.Lambda(fn.Expr)
		if !ok {
			return fmt.Errorf("flow: lambda %s has no syntax", fn.Key)
		}
		v, err := c.evalExpr(fn.Scope, lam.Body, env)
		if err != nil {
			return err
		}
		if ref, ok := c.table.Scope(fn.Scope).Return(); ok {
			env.Set(ref, v)
		}
		return nil
	}
	def, ok := c.ast.Stmts.FunctionDef(fn.Stmt)
	if !ok {
		return fmt.Errorf("flow: function %s has no syntax", fn.Key)
	}
	return c.execBlock(fn.Scope, def.Body, env)
}

func (c *Context) trace(name string, fn *FunctionValue, args types.Signature, outcome string) {
	if !c.tracer.Enabled() {
		return
	}
	trace.Point(c.tracer, trace.ScopeNode, name, fn.Key.String(), map[string]string{
		"sig":   args.String(),
		"cache": outcome,
		"depth": strconv.Itoa(c.depth),
	})
}
