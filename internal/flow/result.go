package flow

import (
	"typeflow/internal/symbols"
	"typeflow/internal/types"
)

// Result is the outcome of one successful run.
type Result struct {
	Table     *symbols.Table
	Module    Env              // final top-level environment
	Functions []*FunctionValue // definition order
	Analyses  int

	names func(types.FuncID) string
}

// Global returns the final set of a module-level name.
func (r *Result) Global(name string) (types.TypeValue, bool) {
	ref, ok := r.Table.Scope(r.Table.Root).Local(name)
	if !ok {
		return types.Empty, false
	}
	return r.Module.Get(ref)
}

// Function finds a function by its scope path, e.g. ".f" or ".f.g".
func (r *Result) Function(path string) *FunctionValue {
	for _, fn := range r.Functions {
		if fn.Name == path {
			return fn
		}
	}
	return nil
}

// Names renders v with function members spelled by name.
func (r *Result) Names(v types.TypeValue) []string {
	return v.Names(r.names)
}

// Binding is one row of a function's reported environment.
type Binding struct {
	Ref   symbols.RefID
	Name  string
	Value types.TypeValue
	Bound bool
}

// Bindings lists every ref of scope in registration order together with its
// value in env. Refs without a value are reported with Bound=false.
func (r *Result) Bindings(scope symbols.ScopeID, env Env) []Binding {
	s := r.Table.Scope(scope)
	if s == nil {
		return nil
	}
	names := make(map[symbols.RefID]string, len(s.Refs))
	order := make([]symbols.RefID, 0, len(s.Refs)+len(s.Globals))
	for _, ref := range s.Refs {
		names[ref] = r.Table.Ref(ref).Name
		order = append(order, ref)
	}
	// global aliases belong to the module scope but are visible here
	for _, g := range s.Globals {
		if ref, ok := s.Local(g); ok {
			if _, seen := names[ref]; !seen {
				names[ref] = g
				order = append(order, ref)
			}
		}
	}
	out := make([]Binding, 0, len(order))
	for _, ref := range order {
		v, ok := env.Get(ref)
		out = append(out, Binding{Ref: ref, Name: names[ref], Value: v, Bound: ok})
	}
	return out
}
