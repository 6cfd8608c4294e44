package flow

import (
	"maps"
	"slices"

	"typeflow/internal/symbols"
	"typeflow/internal/types"
)

// Env maps bindings to their current kind sets. An absent key means the
// binding has not been assigned on this path; a present key never holds the
// empty set.
type Env map[symbols.RefID]types.TypeValue

// Get returns the set bound to ref; false means absent.
func (e Env) Get(ref symbols.RefID) (types.TypeValue, bool) {
	v, ok := e[ref]
	return v, ok
}

// Set overwrites ref. Writing the empty set removes the binding.
func (e Env) Set(ref symbols.RefID, v types.TypeValue) {
	if v.IsEmpty() {
		delete(e, ref)
		return
	}
	e[ref] = v
}

func (e Env) Clone() Env {
	return maps.Clone(e)
}

// Refs returns the bound refs in ascending order.
func (e Env) Refs() []symbols.RefID {
	return slices.Sorted(maps.Keys(e))
}

// Merge joins two branch environments: every ref present in either side
// maps to the union of its sets where present.
func Merge(a, b Env) Env {
	out := make(Env, max(len(a), len(b)))
	for ref, v := range a {
		out[ref] = v
	}
	for ref, v := range b {
		if prev, ok := out[ref]; ok {
			out[ref] = types.Join(prev, v)
		} else {
			out[ref] = v
		}
	}
	return out
}

// replace makes e hold exactly the bindings of src. The map identity is kept
// so in-progress cache entries observe the update.
func (e Env) replace(src Env) {
	clear(e)
	maps.Copy(e, src)
}
