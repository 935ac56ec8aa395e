package thinvec

import (
	"iter"
	"slices"
)

// All yields the index and value of each element front to back.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return slices.All(v.Slice())
}

// Values yields the elements front to back.
func (v *Vec[T]) Values() iter.Seq[T] {
	return slices.Values(v.Slice())
}

// Backward yields the index and value of each element back to front.
func (v *Vec[T]) Backward() iter.Seq2[int, T] {
	return slices.Backward(v.Slice())
}
