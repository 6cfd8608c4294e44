package types

import (
	"slices"
	"strconv"
	"strings"
)

// TypeValue is an immutable set of kinds: a primitive mask plus a sorted,
// duplicate-free list of function members. The zero value is the empty set.
type TypeValue struct {
	base  Kind
	funcs []FuncID
}

// Empty is the empty set; only calls without function members produce it.
var Empty = TypeValue{}

// Of returns the set of the given primitive kinds.
func Of(kinds ...Kind) TypeValue {
	var v TypeValue
	for _, k := range kinds {
		v.base |= k & kindMask
	}
	return v
}

// Func returns the singleton set holding one function.
func Func(id FuncID) TypeValue {
	if !id.IsValid() {
		return Empty
	}
	return TypeValue{funcs: []FuncID{id}}
}

func (v TypeValue) IsEmpty() bool {
	return v.base == 0 && len(v.funcs) == 0
}

// Has reports whether the primitive kind k is a member.
func (v TypeValue) Has(k Kind) bool {
	return v.base&k != 0
}

// HasFunc reports whether function id is a member.
func (v TypeValue) HasFunc(id FuncID) bool {
	_, ok := slices.BinarySearch(v.funcs, id)
	return ok
}

// Base returns the primitive members in canonical order.
func (v TypeValue) Base() []Kind {
	out := make([]Kind, 0, len(baseKinds))
	for _, k := range baseKinds {
		if v.base&k != 0 {
			out = append(out, k)
		}
	}
	return out
}

// Funcs returns the function members in ascending order. The slice is a copy.
func (v TypeValue) Funcs() []FuncID {
	return slices.Clone(v.funcs)
}

// Len counts members.
func (v TypeValue) Len() int {
	n := len(v.funcs)
	for _, k := range baseKinds {
		if v.base&k != 0 {
			n++
		}
	}
	return n
}

// Join returns the union of v and other. Neither operand is modified.
func Join(a, b TypeValue) TypeValue {
	out := TypeValue{base: a.base | b.base}
	switch {
	case len(a.funcs) == 0:
		out.funcs = b.funcs
	case len(b.funcs) == 0:
		out.funcs = a.funcs
	default:
		merged := make([]FuncID, 0, len(a.funcs)+len(b.funcs))
		i, j := 0, 0
		for i < len(a.funcs) && j < len(b.funcs) {
			switch {
			case a.funcs[i] < b.funcs[j]:
				merged = append(merged, a.funcs[i])
				i++
			case a.funcs[i] > b.funcs[j]:
				merged = append(merged, b.funcs[j])
				j++
			default:
				merged = append(merged, a.funcs[i])
				i++
				j++
			}
		}
		merged = append(merged, a.funcs[i:]...)
		merged = append(merged, b.funcs[j:]...)
		out.funcs = merged
	}
	return out
}

// JoinAll folds Join over values.
func JoinAll(values ...TypeValue) TypeValue {
	out := Empty
	for _, v := range values {
		out = Join(out, v)
	}
	return out
}

func (v TypeValue) Join(other TypeValue) TypeValue {
	return Join(v, other)
}

// Equal compares by members.
func (v TypeValue) Equal(other TypeValue) bool {
	return v.base == other.base && slices.Equal(v.funcs, other.funcs)
}

// Contains reports whether v is a superset of other.
func (v TypeValue) Contains(other TypeValue) bool {
	if other.base&^v.base != 0 {
		return false
	}
	for _, id := range other.funcs {
		if !v.HasFunc(id) {
			return false
		}
	}
	return true
}

// Key is the canonical encoding used in cache signatures,
// e.g. "int|str|fn3". The empty set encodes as "".
func (v TypeValue) Key() string {
	var b strings.Builder
	for _, k := range baseKinds {
		if v.base&k == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k.String())
	}
	for _, id := range v.funcs {
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString("fn")
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

// Names renders members as strings, asking funcName for function members.
func (v TypeValue) Names(funcName func(FuncID) string) []string {
	out := make([]string, 0, v.Len())
	for _, k := range v.Base() {
		out = append(out, k.String())
	}
	for _, id := range v.funcs {
		if funcName != nil {
			out = append(out, funcName(id))
		} else {
			out = append(out, "fn"+strconv.FormatUint(uint64(id), 10))
		}
	}
	return out
}

func (v TypeValue) String() string {
	return "{" + strings.Join(v.Names(nil), ", ") + "}"
}
