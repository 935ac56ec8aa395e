package thinvec

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/thinvec/alloc"
	"github.com/wippyai/thinvec/errors"
	"github.com/wippyai/thinvec/internal/layout"
)

// grow moves the vector into a new block of exactly capacity slots aligned
// to alignment. capacity must be at least Len.
func (v *Vec[T]) grow(capacity int, alignment uintptr) error {
	elem := layout.Of[T]()
	l, err := layout.Native.Make(elem, capacity, alignment)
	if err != nil {
		return err
	}
	p, err := alloc.Default().Allocate(alloc.RequestFor(l, reflect.TypeFor[T]()))
	if err != nil {
		return err
	}

	old := v.header()
	n := old.Len
	from := old.Cap

	h := (*layout.Header)(p)
	h.Len, h.Cap, h.Align = n, capacity, int(alignment)
	if n > 0 {
		dst := unsafe.Slice((*T)(unsafe.Add(p, l.Offset)), capacity)
		copy(dst[:n], v.Slice())
	}

	v.release()
	v.buf = p
	debug("grow",
		zap.String("type", reflect.TypeFor[T]().String()),
		zap.Int("len", n),
		zap.Int("from", from),
		zap.Int("to", capacity),
		zap.Uintptr("align", alignment),
	)
	return nil
}

// TryReserve makes room for at least additional more elements, following the
// growth policy. It returns an error of kind capacity_overflow when the total
// cannot be laid out, or allocation when the block cannot be allocated; the
// vector is unchanged in both cases.
func (v *Vec[T]) TryReserve(additional int) error {
	return v.tryReserve(additional, false)
}

// TryReserveExact makes room for exactly additional more elements.
func (v *Vec[T]) TryReserveExact(additional int) error {
	return v.tryReserve(additional, true)
}

// Reserve is TryReserve that panics on failure.
func (v *Vec[T]) Reserve(additional int) {
	must(v.TryReserve(additional))
}

// ReserveExact is TryReserveExact that panics on failure.
func (v *Vec[T]) ReserveExact(additional int) {
	must(v.TryReserveExact(additional))
}

func (v *Vec[T]) tryReserve(additional int, exact bool) error {
	if additional < 0 {
		panic(fmt.Sprintf("thinvec: negative reservation %d", additional))
	}
	h := v.header()
	elem := layout.Of[T]()
	if additional > math.MaxInt-h.Len {
		return errors.CapacityOverflow(errors.PhaseReserve, h.Len, uint64(elem.Size))
	}
	need := h.Len + additional
	if need <= h.Cap {
		return nil
	}

	align := v.Alignment()
	limit := layout.Native.MaxElements(elem, align)
	if need > limit {
		return errors.CapacityOverflow(errors.PhaseReserve, need, uint64(elem.Size))
	}

	capacity := need
	if !exact {
		capacity = h.Cap
		for capacity < need {
			capacity = layout.NextCapacity(elem.Size, capacity)
		}
		capacity = min(capacity, limit)
	}
	return v.grow(capacity, align)
}

// reserveOne is the push path.
func (v *Vec[T]) reserveOne() {
	if h := v.header(); h.Len == h.Cap {
		must(v.tryReserve(1, false))
	}
}

// ShrinkToFit drops spare capacity. An emptied vector returns to the empty
// block.
func (v *Vec[T]) ShrinkToFit() {
	v.ShrinkTo(0)
}

// ShrinkTo lowers the capacity to max(Len, minCapacity) if that is smaller
// than the current capacity.
func (v *Vec[T]) ShrinkTo(minCapacity int) {
	h := v.header()
	target := max(h.Len, minCapacity)
	if target >= h.Cap {
		return
	}
	if target == 0 {
		v.release()
		return
	}
	must(v.grow(target, v.Alignment()))
}
