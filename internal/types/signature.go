package types

import "strings"

// Signature is the ordered list of argument sets of one call.
type Signature []TypeValue

// Key canonicalizes the signature; equal signatures produce equal keys.
func (s Signature) Key() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range s {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(v.Key())
	}
	b.WriteByte(')')
	return b.String()
}

func (s Signature) Equal(other Signature) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (s Signature) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
