package symbols

// ScopeID identifies a scope in the table arena.
type ScopeID uint32

// NoScopeID marks the absence of a scope reference.
const NoScopeID ScopeID = 0

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// RefID identifies one variable binding: a name inside one scope.
type RefID uint32

// NoRefID marks the absence of a binding.
const NoRefID RefID = 0

// IsValid reports whether the ref ID refers to an allocated binding.
func (id RefID) IsValid() bool { return id != NoRefID }
