package thinvec

import "iter"

// Drain removes a range of elements and yields them.
//
// From creation until Close, the parent vector reports only the elements
// before the range. Close drops whatever was not yielded and moves the
// elements after the range back into place. A Drain that is never closed
// leaks the range and the tail but never drops anything twice.
//
// The parent must not be used while the Drain is open.
type Drain[T any] struct {
	vec     *Vec[T]
	pos     int // next slot from the front
	end     int // one past the next slot from the back
	tail    int // first slot of the untouched tail
	tailLen int
	done    bool
}

// Drain removes the elements in [start, end). It panics if start > end or
// end > Len, before touching the vector.
func (v *Vec[T]) Drain(start, end int) *Drain[T] {
	n := v.Len()
	checkRange(start, end, n)
	v.setLen(start)
	return &Drain[T]{vec: v, pos: start, end: end, tail: end, tailLen: n - end}
}

// Next yields the next element from the front.
func (d *Drain[T]) Next() (T, bool) {
	var zero T
	if d.pos >= d.end {
		return zero, false
	}
	s := d.vec.slots()
	x := s[d.pos]
	s[d.pos] = zero
	d.pos++
	return x, true
}

// NextBack yields the next element from the back.
func (d *Drain[T]) NextBack() (T, bool) {
	var zero T
	if d.pos >= d.end {
		return zero, false
	}
	s := d.vec.slots()
	d.end--
	x := s[d.end]
	s[d.end] = zero
	return x, true
}

// Len returns the number of elements left to yield.
func (d *Drain[T]) Len() int {
	return d.end - d.pos
}

// Remaining returns the elements left to yield without consuming them.
func (d *Drain[T]) Remaining() []T {
	return d.vec.slots()[d.pos:d.end:d.end]
}

// Close drops the elements not yet yielded and closes the gap. It is safe to
// call more than once.
func (d *Drain[T]) Close() {
	if d.done {
		return
	}
	d.done = true
	defer d.restoreTail()
	d.dropRest()
}

func (d *Drain[T]) dropRest() {
	if d.pos >= d.end {
		return
	}
	rest := d.vec.slots()[d.pos:d.end]
	d.pos = d.end
	dropAll(rest)
}

// restoreTail moves the tail down to the current length and zeroes the
// slots it vacates.
func (d *Drain[T]) restoreTail() {
	v := d.vec
	start := v.Len()
	if d.tailLen > 0 && d.tail != start {
		s := v.slots()
		copy(s[start:], s[d.tail:d.tail+d.tailLen])
	}
	if d.tail > start {
		clear(v.slots()[start+d.tailLen : d.tail+d.tailLen])
	}
	v.setLen(start + d.tailLen)
	d.tail = start
}

// All yields the elements front to back and closes the Drain when the loop
// ends.
func (d *Drain[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer d.Close()
		for {
			x, ok := d.Next()
			if !ok || !yield(x) {
				return
			}
		}
	}
}

// Backward yields the elements back to front and closes the Drain when the
// loop ends.
func (d *Drain[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer d.Close()
		for {
			x, ok := d.NextBack()
			if !ok || !yield(x) {
				return
			}
		}
	}
}
