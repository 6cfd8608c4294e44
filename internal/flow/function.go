package flow

import (
	"fmt"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/source"
	"typeflow/internal/symbols"
	"typeflow/internal/types"
)

// Entry is one memoized analysis of a function.
type Entry struct {
	Signature types.Signature
	// Env is the final environment of the body. While the analysis is still
	// running it is the live environment.
	Env  Env
	done bool
	// reported guards the re-entrant note to one per entry.
	reported bool
}

// Done reports whether the body analysis for this signature has finished.
func (e *Entry) Done() bool { return e.done }

// FunctionValue is a def or lambda together with its per-signature cache.
type FunctionValue struct {
	ID     types.FuncID
	Key    symbols.DefKey
	Scope  symbols.ScopeID
	Name   string // dot-qualified scope path
	Stmt   ast.StmtID
	Expr   ast.ExprID
	Params []symbols.RefID

	entries  []*Entry
	index    map[string]*Entry
	analyses int
}

func newFunctionValue(id types.FuncID, table *symbols.Table, scope symbols.ScopeID) *FunctionValue {
	s := table.Scope(scope)
	return &FunctionValue{
		ID:     id,
		Key:    s.Owner.Key,
		Scope:  scope,
		Name:   s.Name,
		Stmt:   s.Owner.Stmt,
		Expr:   s.Owner.Expr,
		Params: s.Params,
		index:  make(map[string]*Entry),
	}
}

// IsLambda reports whether the function was defined by a lambda expression.
func (fn *FunctionValue) IsLambda() bool { return fn.Expr.IsValid() }

// Entries lists cache entries in the order they were created.
func (fn *FunctionValue) Entries() []*Entry {
	out := make([]*Entry, len(fn.entries))
	copy(out, fn.entries)
	return out
}

// Lookup returns the cache entry for sig.
func (fn *FunctionValue) Lookup(sig types.Signature) (*Entry, bool) {
	e, ok := fn.index[sig.Key()]
	return e, ok
}

// Analyses counts how many times the body was analyzed.
func (fn *FunctionValue) Analyses() int { return fn.analyses }

// Apply returns the return set of fn called with args from an environment
// equal to caller. A cached signature is answered without re-analysis, even
// if the caller's environment has changed since. The boolean is false when
// no path wrote the return slot.
func (fn *FunctionValue) Apply(c *Context, args types.Signature, caller Env, at source.Span) (types.TypeValue, bool, error) {
	if len(args) != len(fn.Params) {
		return types.Empty, false, errorf(diag.AnaArity, at,
			fmt.Sprintf("%s takes %d argument(s), called with %d", fn.Label(), len(fn.Params), len(args)))
	}
	key := args.Key()
	if e, ok := fn.index[key]; ok {
		if !e.done {
			c.trace("apply", fn, args, "reentrant")
			if !e.reported {
				e.reported = true
				diag.ReportInfo(c.opts.Reporter, diag.AnaReentrantCall, at,
					fmt.Sprintf("recursive call of %s with %s uses the partial result", fn.Label(), args)).Emit()
			}
		} else {
			c.trace("apply", fn, args, "hit")
		}
		return fn.returnOf(c, e.Env)
	}

	if c.depth >= c.opts.MaxCallDepth {
		return types.Empty, false, errorf(diag.AnaRecursionDepth, at,
			fmt.Sprintf("call depth limit %d exceeded while analyzing %s", c.opts.MaxCallDepth, fn.Label()))
	}
	if err := c.ctx.Err(); err != nil {
		return types.Empty, false, err
	}
	c.trace("apply", fn, args, "miss")

	env := caller.Clone()
	for i, param := range fn.Params {
		v := args[i]
		if prev, ok := env.Get(param); ok {
			v = types.Join(prev, v)
		}
		env.Set(param, v)
	}

	// запись кэша создаётся до анализа тела: рекурсивный вызов найдёт её
	entry := &Entry{Signature: append(types.Signature(nil), args...), Env: env}
	fn.entries = append(fn.entries, entry)
	fn.index[key] = entry
	fn.analyses++
	c.analyses++

	c.depth++
	err := c.runFunction(fn, env)
	c.depth--
	if err != nil {
		return types.Empty, false, err
	}
	entry.done = true
	return fn.returnOf(c, env)
}

func (fn *FunctionValue) returnOf(c *Context, env Env) (types.TypeValue, bool, error) {
	s := c.table.Scope(fn.Scope)
	ref, ok := s.Return()
	if !ok {
		return types.Empty, false, nil
	}
	v, ok := env.Get(ref)
	return v, ok, nil
}

// Label names the function for messages: "f" or "lambda:3:7".
func (fn *FunctionValue) Label() string {
	if fn.Key.Kind == symbols.DefLambda {
		return fn.Key.String()
	}
	return fn.Key.Name
}
