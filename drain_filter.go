package thinvec

import "iter"

// DrainFilter removes, in one left-to-right pass, the elements a predicate
// selects and yields them. Elements the predicate rejects are compacted in
// place and keep their order.
//
// The parent vector reports no elements until Close. Close runs the
// predicate over the unexamined elements and drops the selected ones, then
// sets the parent length. If the predicate panicked, Close skips that step
// and keeps every untested element, so each original element is dropped
// exactly once whichever way the pass ends.
type DrainFilter[T any] struct {
	vec      *Vec[T]
	pred     func(*T) bool
	pos      int // next slot to test
	newLen   int // slots [0, newLen) hold kept elements
	oldLen   int
	panicked bool
	done     bool
}

// DrainFilter removes the elements for which pred returns true. pred may
// modify the element it is given.
func (v *Vec[T]) DrainFilter(pred func(*T) bool) *DrainFilter[T] {
	n := v.Len()
	v.setLen(0)
	return &DrainFilter[T]{vec: v, pred: pred, oldLen: n}
}

// Next yields the next selected element.
func (d *DrainFilter[T]) Next() (T, bool) {
	var zero T
	s := d.vec.slots()
	for d.pos < d.oldLen {
		p := &s[d.pos]
		d.panicked = true
		selected := d.pred(p)
		d.panicked = false
		d.pos++

		if selected {
			x := *p
			*p = zero
			return x, true
		}
		if d.pos-1 != d.newLen {
			s[d.newLen] = *p
			*p = zero
		}
		d.newLen++
	}
	return zero, false
}

// Len returns the number of elements not yet tested.
func (d *DrainFilter[T]) Len() int {
	return d.oldLen - d.pos
}

// Close finishes the pass and repairs the parent. It is safe to call more
// than once.
func (d *DrainFilter[T]) Close() {
	if d.done {
		return
	}
	d.done = true
	defer d.backshift()
	if d.panicked {
		return
	}
	for {
		x, ok := d.Next()
		if !ok {
			return
		}
		dropOne(&x)
	}
}

// backshift moves the untested elements down to the kept ones.
func (d *DrainFilter[T]) backshift() {
	s := d.vec.slots()
	untested := d.oldLen - d.pos
	if untested > 0 && d.pos > d.newLen {
		copy(s[d.newLen:], s[d.pos:d.oldLen])
	}
	if d.oldLen > 0 {
		clear(s[d.newLen+untested : d.oldLen])
	}
	d.vec.setLen(d.newLen + untested)
}

// All yields the selected elements and closes the DrainFilter when the loop
// ends.
func (d *DrainFilter[T]) All() iter.Seq[T] {
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
