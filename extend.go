package thinvec

import (
	"fmt"
	"iter"
)

// Collect returns a vector holding the values of seq.
func Collect[T any](seq iter.Seq[T]) Vec[T] {
	v := New[T]()
	v.Extend(seq)
	return v
}

// Extend appends every value of seq.
func (v *Vec[T]) Extend(seq iter.Seq[T]) {
	for x := range seq {
		v.Push(x)
	}
}

// ExtendFromSlice appends clones of the elements of s.
func (v *Vec[T]) ExtendFromSlice(s []T) {
	if len(s) == 0 {
		return
	}
	v.Reserve(len(s))
	dst := v.slots()
	h := v.header()
	for i := range s {
		dst[h.Len] = cloneOf(&s[i])
		h.Len++
	}
}

// ExtendFromWithin appends clones of the elements in [start, end).
func (v *Vec[T]) ExtendFromWithin(start, end int) {
	checkRange(start, end, v.Len())
	if start == end {
		return
	}
	v.Reserve(end - start)
	s := v.slots()
	h := v.header()
	for i := start; i < end; i++ {
		s[h.Len] = cloneOf(&s[i])
		h.Len++
	}
}

// Append moves every element of other to the end of v, leaving other empty
// with its capacity intact.
func (v *Vec[T]) Append(other *Vec[T]) {
	if other == v || (other.buf == v.buf && !v.isEmptyBlock()) {
		panic("thinvec: cannot append a vector to itself")
	}
	src := other.Slice()
	if len(src) == 0 {
		return
	}
	v.Reserve(len(src))
	h := v.header()
	copy(v.slots()[h.Len:], src)
	h.Len += len(src)
	clear(src)
	other.setLen(0)
}

// SplitOff moves the elements from at onwards into a new vector with the
// same alignment and returns it. v keeps its capacity. It panics if at > Len.
func (v *Vec[T]) SplitOff(at int) Vec[T] {
	n := v.Len()
	if at < 0 || at > n {
		panic(fmt.Sprintf("thinvec: split index (is %d) should be <= len (is %d)", at, n))
	}
	out := New[T]()
	if at == n {
		return out
	}
	must(out.grow(n-at, v.Alignment()))

	tail := v.slots()[at:n]
	copy(out.slots(), tail)
	out.setLen(n - at)
	clear(tail)
	v.setLen(at)
	return out
}

// Clone returns a vector with clones of every element, the same alignment,
// and capacity equal to Len.
func (v *Vec[T]) Clone() Vec[T] {
	out := New[T]()
	n := v.Len()
	if n == 0 {
		return out
	}
	must(out.grow(n, v.Alignment()))

	done := false
	defer func() {
		if !done {
			out.Free()
		}
	}()

	src := v.slots()
	dst := out.slots()
	h := out.header()
	for i := range n {
		dst[i] = cloneOf(&src[i])
		h.Len++
	}
	done = true
	return out
}

func checkRange(start, end, n int) {
	if start < 0 || start > end {
		panic(fmt.Sprintf("thinvec: slice index starts at %d but ends at %d", start, end))
	}
	if end > n {
		panic(fmt.Sprintf("thinvec: range end index %d out of range for slice of length %d", end, n))
	}
}
