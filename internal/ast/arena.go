package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one kind. IDs are 1-based so the zero ID of every
// handle type means "none".
type Arena[T any] struct {
	data []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]T, 0, capHint)}
}

// Allocate appends value and returns its 1-based ID.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return a.Len()
}

// Get returns a pointer into the arena; it stays valid until the next
// Allocate.
func (a *Arena[T]) Get(id uint32) *T {
	if id == 0 || uint64(id) > uint64(len(a.data)) {
		return nil
	}
	return &a.data[id-1]
}

// Len panics past 2^32 nodes; IDs could not address them.
func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("ast arena overflow: %w", err))
	}
	return n
}
