package thinvec

import "iter"

// Splice removes a range like Drain and, on Close, fills the gap with the
// values of a replacement sequence. The replacement may be shorter than the
// range, the same length, or longer; it is not consumed before Close.
type Splice[T any] struct {
	drain Drain[T]
	fill  iter.Seq[T]
}

// Splice replaces the elements in [start, end) with the values of
// replacement. It panics if start > end or end > Len, before touching the
// vector. A nil replacement removes the range.
func (v *Vec[T]) Splice(start, end int, replacement iter.Seq[T]) *Splice[T] {
	d := v.Drain(start, end)
	return &Splice[T]{drain: *d, fill: replacement}
}

// Next yields the next removed element from the front.
func (sp *Splice[T]) Next() (T, bool) {
	return sp.drain.Next()
}

// NextBack yields the next removed element from the back.
func (sp *Splice[T]) NextBack() (T, bool) {
	return sp.drain.NextBack()
}

// Len returns the number of removed elements left to yield.
func (sp *Splice[T]) Len() int {
	return sp.drain.Len()
}

// Close drops the removed elements not yet yielded, then consumes the
// replacement into the gap. It is safe to call more than once.
func (sp *Splice[T]) Close() {
	d := &sp.drain
	if d.done {
		return
	}
	d.done = true

	dropped := false
	defer func() {
		if !dropped {
			d.restoreTail()
		}
	}()
	d.dropRest()
	dropped = true

	sp.refill()
}

// refill writes the replacement into the gap [Len, tail). Leftover values
// are buffered, the parent is grown to fit them exactly, and the tail moves
// right to make room.
func (sp *Splice[T]) refill() {
	d := &sp.drain
	v := d.vec

	var extra Vec[T]
	defer extra.Free()

	finished := false
	defer func() {
		if !finished {
			d.restoreTail()
		}
	}()

	if sp.fill == nil {
		finished = true
		d.restoreTail()
		return
	}
	next, stop := iter.Pull(sp.fill)
	defer stop()

	s := v.slots()
	for v.Len() < d.tail {
		x, ok := next()
		if !ok {
			finished = true
			d.restoreTail()
			return
		}
		n := v.Len()
		s[n] = x
		v.setLen(n + 1)
	}

	for {
		x, ok := next()
		if !ok {
			break
		}
		extra.Push(x)
	}

	at := d.tail
	finished = true
	d.restoreTail()

	k := extra.Len()
	if k == 0 {
		return
	}
	v.ReserveExact(k)
	s = v.slots()
	n := v.Len()
	copy(s[at+k:n+k], s[at:n])
	copy(s[at:at+k], extra.Slice())
	v.setLen(n + k)
	extra.forget()
}

// forget releases the block without dropping the elements, which now
// belong elsewhere.
func (v *Vec[T]) forget() {
	clear(v.Slice())
	v.setLen(0)
	v.release()
}

// All yields the removed elements front to back and closes the Splice when
// the loop ends.
func (sp *Splice[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer sp.Close()
		for {
			x, ok := sp.Next()
			if !ok || !yield(x) {
				return
			}
		}
	}
}

// Backward yields the removed elements back to front and closes the Splice
// when the loop ends.
func (sp *Splice[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer sp.Close()
		for {
			x, ok := sp.NextBack()
			if !ok || !yield(x) {
				return
			}
		}
	}
}
