package symbols

import (
	"typeflow/internal/ast"
	"typeflow/internal/source"
)

// ReturnSlot is the reserved binding name holding a function's return set.
// It can never clash with a source identifier because `return` is a keyword.
const ReturnSlot = "return"

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeModule             // top-level statements
	ScopeFunction           // def body
	ScopeLambda             // lambda body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeLambda:
		return "lambda"
	default:
		return "invalid"
	}
}

// Owner references the syntax that introduced a scope.
type Owner struct {
	File ast.FileID
	Stmt ast.StmtID // def statement
	Expr ast.ExprID // lambda expression
	Span source.Span
	Key  DefKey
}

// Scope models one lexical scope. Built once; read-only after Build returns.
type Scope struct {
	Kind   ScopeKind
	Name   string // dot-qualified path, "" for the module
	Parent ScopeID
	Owner  Owner

	names    map[string]RefID
	Refs     []RefID // in registration order
	Params   []RefID
	Globals  []string
	Children map[string]ScopeID
	Nested   []ScopeID // children in definition order
}

// Local returns the binding of name in this scope only.
func (s *Scope) Local(name string) (RefID, bool) {
	id, ok := s.names[name]
	return id, ok
}

// Return returns the return slot binding, if the scope has one.
func (s *Scope) Return() (RefID, bool) {
	return s.Local(ReturnSlot)
}

// IsGlobal reports whether name was declared global in this scope.
func (s *Scope) IsGlobal(name string) bool {
	for _, g := range s.Globals {
		if g == name {
			return true
		}
	}
	return false
}
