package thinvec

import "iter"

// IntoIter consumes a vector and yields its elements by value.
type IntoIter[T any] struct {
	vec  Vec[T]
	pos  int
	end  int
	done bool
}

// IntoIter moves the elements out of v, which is left empty. Close drops
// what was not yielded and releases the block.
func (v *Vec[T]) IntoIter() *IntoIter[T] {
	it := &IntoIter[T]{vec: *v, end: v.Len()}
	v.buf = sentinel
	return it
}

// Next yields the next element from the front.
func (it *IntoIter[T]) Next() (T, bool) {
	var zero T
	if it.pos >= it.end {
		return zero, false
	}
	s := it.vec.slots()
	x := s[it.pos]
	s[it.pos] = zero
	it.pos++
	return x, true
}

// NextBack yields the next element from the back.
func (it *IntoIter[T]) NextBack() (T, bool) {
	var zero T
	if it.pos >= it.end {
		return zero, false
	}
	s := it.vec.slots()
	it.end--
	x := s[it.end]
	s[it.end] = zero
	return x, true
}

// Len returns the number of elements left.
func (it *IntoIter[T]) Len() int {
	return it.end - it.pos
}

// AsSlice returns the elements left without consuming them.
func (it *IntoIter[T]) AsSlice() []T {
	return it.vec.slots()[it.pos:it.end:it.end]
}

// Close drops the elements left and releases the block. It is safe to call
// more than once.
func (it *IntoIter[T]) Close() {
	if it.done {
		return
	}
	it.done = true
	rest := it.AsSlice()
	it.pos = it.end
	it.vec.setLen(0)
	defer it.vec.release()
	dropAll(rest)
}

// All yields the elements front to back and closes the iterator when the
// loop ends.
func (it *IntoIter[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Close()
		for {
			x, ok := it.Next()
			if !ok || !yield(x) {
				return
			}
		}
	}
}

// Backward yields the elements back to front and closes the iterator when
// the loop ends.
func (it *IntoIter[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Close()
		for {
			x, ok := it.NextBack()
			if !ok || !yield(x) {
				return
			}
		}
	}
}
