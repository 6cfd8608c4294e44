package source

// StringID is a handle into an Interner; NoStringID is the empty string.
type StringID uint32

const NoStringID StringID = 0

// Interner maps identifier and literal text to dense IDs for one parse.
type Interner struct {
	strs []string
	ids  map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{strs: []string{""}, ids: map[string]StringID{"": NoStringID}}
}

// Intern returns the ID of s, adding it on first sight. The stored copy does
// not alias the caller's buffer.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	owned := string([]byte(s))
	id := StringID(len(in.strs))
	in.strs = append(in.strs, owned)
	in.ids[owned] = id
	return id
}

// Lookup returns the text of id; false for IDs this interner never issued.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) < len(in.strs) {
		return in.strs[id], true
	}
	return "", false
}

// Len counts interned strings, the reserved empty string included.
func (in *Interner) Len() int { return len(in.strs) }
