package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"typeflow/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 16
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a scope and links it into the parent's child list.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, name string, owner Owner) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Kind:     kind,
		Name:     name,
		Parent:   parent,
		Owner:    owner,
		names:    make(map[string]RefID),
		Children: make(map[string]ScopeID),
	})
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (s *Scopes) Data() []Scope {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}

// Ref is one binding: (owning scope, name).
type Ref struct {
	Scope ScopeID
	Name  string
	Span  source.Span // first binding site
}

// Refs stores bindings in a compact arena.
type Refs struct {
	data []Ref
}

func NewRefs(capacity uint32) *Refs {
	if capacity == 0 {
		capacity = 64
	}
	return &Refs{
		data: make([]Ref, 1, capacity+1), // index 0 reserved for NoRefID
	}
}

func (r *Refs) New(ref Ref) RefID {
	value, err := safecast.Conv[uint32](len(r.data))
	if err != nil {
		panic(fmt.Errorf("refs arena overflow: %w", err))
	}
	r.data = append(r.data, ref)
	return RefID(value)
}

func (r *Refs) Get(id RefID) *Ref {
	if !id.IsValid() || int(id) >= len(r.data) {
		return nil
	}
	return &r.data[id]
}

func (r *Refs) Len() int { return len(r.data) - 1 }
