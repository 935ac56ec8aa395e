package thinvec

import "fmt"

// Push appends x, growing the block when it is full. It panics with an
// *errors.Error when the block cannot grow.
func (v *Vec[T]) Push(x T) {
	v.reserveOne()
	h := v.header()
	v.slots()[h.Len] = x
	h.Len++
}

// Pop removes and returns the last element.
func (v *Vec[T]) Pop() (T, bool) {
	var zero T
	h := v.header()
	if h.Len == 0 {
		return zero, false
	}
	s := v.slots()
	h.Len--
	x := s[h.Len]
	s[h.Len] = zero
	return x, true
}

// Insert places x at index i, shifting later elements right.
// It panics if i > Len.
func (v *Vec[T]) Insert(i int, x T) {
	if n := v.Len(); i < 0 || i > n {
		panic(fmt.Sprintf("thinvec: insertion index (is %d) should be <= len (is %d)", i, n))
	}
	v.reserveOne()
	h := v.header()
	s := v.slots()[:h.Len+1]
	copy(s[i+1:], s[i:h.Len])
	s[i] = x
	h.Len++
}

// Remove removes and returns the element at i, shifting later elements left.
// It panics if i >= Len.
func (v *Vec[T]) Remove(i int) T {
	h := v.header()
	if i < 0 || i >= h.Len {
		panic(fmt.Sprintf("thinvec: removal index (is %d) should be < len (is %d)", i, h.Len))
	}
	var zero T
	s := v.slots()[:h.Len]
	x := s[i]
	copy(s[i:], s[i+1:])
	s[h.Len-1] = zero
	h.Len--
	return x
}

// SwapRemove removes and returns the element at i, replacing it with the
// last element. It does not preserve order. It panics if i >= Len.
func (v *Vec[T]) SwapRemove(i int) T {
	h := v.header()
	if i < 0 || i >= h.Len {
		panic(fmt.Sprintf("thinvec: swap-remove index (is %d) should be < len (is %d)", i, h.Len))
	}
	var zero T
	s := v.slots()
	last := h.Len - 1
	x := s[i]
	s[i] = s[last]
	s[last] = zero
	h.Len--
	return x
}

// Truncate drops the elements past n. It does nothing when n >= Len.
func (v *Vec[T]) Truncate(n int) {
	if n < 0 {
		panic(fmt.Sprintf("thinvec: negative length %d", n))
	}
	h := v.header()
	if n >= h.Len {
		return
	}
	tail := v.slots()[n:h.Len]
	h.Len = n
	defer clear(tail)
	dropAll(tail)
}

// Clear drops every element and keeps the capacity.
func (v *Vec[T]) Clear() {
	v.Truncate(0)
}

// Resize sets the length to n. New slots are filled with clones of x, the
// last one with x itself; surplus elements are dropped. When nothing is
// filled x is dropped.
func (v *Vec[T]) Resize(n int, x T) {
	cur := v.Len()
	if n <= cur {
		v.Truncate(n)
		dropOne(&x)
		return
	}
	v.Reserve(n - cur)
	s := v.slots()
	h := v.header()
	for h.Len < n-1 {
		s[h.Len] = cloneOf(&x)
		h.Len++
	}
	s[h.Len] = x
	h.Len++
}

// ResizeWith sets the length to n, filling new slots with values from fill.
// If fill panics the elements produced so far are kept.
func (v *Vec[T]) ResizeWith(n int, fill func() T) {
	cur := v.Len()
	if n <= cur {
		v.Truncate(n)
		return
	}
	v.Reserve(n - cur)
	s := v.slots()
	h := v.header()
	for h.Len < n {
		s[h.Len] = fill()
		h.Len++
	}
}

// Uninit is the spare capacity of a vector, the slots past its length. The
// slots hold zero values; values written there become elements once SetLen
// covers them.
type Uninit[T any] []T

// SpareCapacity returns the slots [Len, Cap).
func (v *Vec[T]) SpareCapacity() Uninit[T] {
	n := v.Len()
	s := v.slots()
	return Uninit[T](s[n:len(s):len(s)])
}

// SetLen sets the length to n without dropping or initializing anything.
// Shrinking forgets the elements past n and zeroes their slots; growing
// publishes whatever was written into the spare capacity.
// It panics if n > Cap.
func (v *Vec[T]) SetLen(n int) {
	h := v.header()
	if n < 0 || n > h.Cap {
		panic(fmt.Sprintf("thinvec: new length %d exceeds capacity %d", n, h.Cap))
	}
	if n < h.Len {
		clear(v.slots()[n:h.Len])
	}
	v.setLen(n)
}

// appendMoved moves s into the vector. The caller gives up s.
func (v *Vec[T]) appendMoved(s []T) {
	if len(s) == 0 {
		return
	}
	v.Reserve(len(s))
	h := v.header()
	copy(v.slots()[h.Len:], s)
	h.Len += len(s)
}
