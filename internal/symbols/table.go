package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Refs uint }

// Table aggregates the scope and binding arenas of one analysis run.
type Table struct {
	Scopes *Scopes
	Refs   *Refs
	Root   ScopeID

	defs      map[DefKey]ScopeID
	defOrder  []ScopeID
	stmtScope map[ast.StmtID]ScopeID
	exprScope map[ast.ExprID]ScopeID
}

// NewTable builds a fresh table with optional capacity hints.
func NewTable(h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	refCap, err := safecast.Conv[uint32](h.Refs)
	if err != nil {
		panic(fmt.Errorf("ref capacity overflow: %w", err))
	}
	return &Table{
		Scopes:    NewScopes(scopeCap),
		Refs:      NewRefs(refCap),
		defs:      make(map[DefKey]ScopeID),
		stmtScope: make(map[ast.StmtID]ScopeID),
		exprScope: make(map[ast.ExprID]ScopeID),
	}
}

// Add registers name in scope and returns its binding. The first add wins:
// later calls for the same name return the existing RefID.
func (t *Table) Add(scope ScopeID, name string, sp source.Span) RefID {
	s := t.Scopes.Get(scope)
	if s == nil {
		return NoRefID
	}
	if id, ok := s.names[name]; ok {
		return id
	}
	id := t.Refs.New(Ref{Scope: scope, Name: name, Span: sp})
	s.names[name] = id
	s.Refs = append(s.Refs, id)
	return id
}

// alias binds name in scope to an existing ref owned by another scope.
func (t *Table) alias(scope ScopeID, name string, ref RefID) RefID {
	s := t.Scopes.Get(scope)
	if s == nil {
		return NoRefID
	}
	if id, ok := s.names[name]; ok {
		return id
	}
	s.names[name] = ref
	return ref
}

// Lookup walks the scope chain from scope to the root and returns the
// first binding of name.
func (t *Table) Lookup(scope ScopeID, name string) (RefID, bool) {
	for id := scope; id.IsValid(); {
		s := t.Scopes.Get(id)
		if s == nil {
			break
		}
		if ref, ok := s.names[name]; ok {
			return ref, true
		}
		id = s.Parent
	}
	return NoRefID, false
}

// Resolve is Lookup that turns a miss into a NameError.
func (t *Table) Resolve(scope ScopeID, name string, sp source.Span) (RefID, error) {
	if ref, ok := t.Lookup(scope, name); ok {
		return ref, nil
	}
	return NoRefID, errorf(diag.AnaNameError, sp, fmt.Sprintf("name %q is not defined in any enclosing scope", name))
}

// Ref returns the binding record.
func (t *Table) Ref(id RefID) *Ref {
	return t.Refs.Get(id)
}

// Scope returns the scope record.
func (t *Table) Scope(id ScopeID) *Scope {
	return t.Scopes.Get(id)
}

// Def returns the scope registered for key.
func (t *Table) Def(key DefKey) (ScopeID, bool) {
	id, ok := t.defs[key]
	return id, ok
}

// DefScope returns the scope of a def statement.
func (t *Table) DefScope(stmt ast.StmtID) (ScopeID, bool) {
	id, ok := t.stmtScope[stmt]
	return id, ok
}

// LambdaScope returns the scope of a lambda expression.
func (t *Table) LambdaScope(expr ast.ExprID) (ScopeID, bool) {
	id, ok := t.exprScope[expr]
	return id, ok
}

// Defs lists function and lambda scopes in definition order.
func (t *Table) Defs() []ScopeID {
	out := make([]ScopeID, len(t.defOrder))
	copy(out, t.defOrder)
	return out
}

// RefName renders a binding as "scope.name" (module bindings have no prefix).
func (t *Table) RefName(id RefID) string {
	ref := t.Refs.Get(id)
	if ref == nil {
		return "<invalid>"
	}
	s := t.Scopes.Get(ref.Scope)
	if s == nil || s.Name == "" {
		return ref.Name
	}
	return s.Name + "." + ref.Name
}

func (t *Table) register(key DefKey, scope ScopeID) {
	t.defs[key] = scope
	t.defOrder = append(t.defOrder, scope)
}
