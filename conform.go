package thinvec

import (
	"cmp"
	"encoding/json"
	"fmt"
	"hash/maphash"
	"slices"
)

// Equal reports whether a and b hold equal elements in the same order.
func Equal[T comparable](a, b *Vec[T]) bool {
	return slices.Equal(a.Slice(), b.Slice())
}

// EqualSlice reports whether v holds the elements of s in order.
func EqualSlice[T comparable](v *Vec[T], s []T) bool {
	return slices.Equal(v.Slice(), s)
}

// Compare orders a and b lexicographically.
func Compare[T cmp.Ordered](a, b *Vec[T]) int {
	return slices.Compare(a.Slice(), b.Slice())
}

// Hash writes the length and elements of v to h.
func Hash[T comparable](h *maphash.Hash, v *Vec[T]) {
	s := v.Slice()
	maphash.WriteComparable(h, len(s))
	for _, x := range s {
		maphash.WriteComparable(h, x)
	}
}

// String formats the elements like a slice.
func (v *Vec[T]) String() string {
	return fmt.Sprint(v.Slice())
}

// MarshalJSON encodes the elements as a JSON array. An empty vector encodes
// as [].
func (v *Vec[T]) MarshalJSON() ([]byte, error) {
	s := v.Slice()
	if s == nil {
		s = []T{}
	}
	return json.Marshal(s)
}

// UnmarshalJSON replaces the elements with the decoded array. The old
// elements are dropped. On a decoding or allocation error v is unchanged.
func (v *Vec[T]) UnmarshalJSON(data []byte) error {
	var s []T
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if err := v.TryReserve(max(len(s)-v.Len(), 0)); err != nil {
		return err
	}
	v.Clear()
	v.appendMoved(s)
	return nil
}
