package thinvec

import (
	"fmt"
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/thinvec/alloc"
	"github.com/wippyai/thinvec/errors"
	"github.com/wippyai/thinvec/internal/layout"
)

// Vec is a growable array whose length, capacity, alignment and elements
// live in one heap block. A Vec is a single pointer wide.
//
// The zero value is an empty vector ready to use. A Vec owns its block:
// copying a Vec value aliases the block, so exactly one copy may be used
// afterwards. Free releases the block and drops the elements.
type Vec[T any] struct {
	buf unsafe.Pointer
}

// Header is the metadata record at the front of every block.
type Header = layout.Header

// emptyHeader is the shared block of every empty vector. It is never written.
var emptyHeader layout.Header

var sentinel = unsafe.Pointer(&emptyHeader)

// New returns an empty vector. It does not allocate.
func New[T any]() Vec[T] {
	layout.Of[T]()
	return Vec[T]{buf: sentinel}
}

// WithCapacity returns an empty vector with room for exactly n elements.
// It panics with an *errors.Error when the block cannot be allocated.
func WithCapacity[T any](n int) Vec[T] {
	v := New[T]()
	if n < 0 {
		panic(fmt.Sprintf("thinvec: negative capacity %d", n))
	}
	if n > 0 {
		must(v.grow(n, v.Alignment()))
	}
	return v
}

// WithAlignment returns an empty vector with room for exactly n elements in a
// block aligned to alignment. The alignment must be a power of two no smaller
// than the element and header alignment. Pointer-bearing element types
// cannot be aligned past the Go heap alignment.
//
// A zero capacity yields the empty vector; the alignment applies to blocks
// allocated by later calls only when it is passed again.
func WithAlignment[T any](n int, alignment uintptr) (Vec[T], error) {
	v := New[T]()
	if err := layout.Native.Validate(layout.Of[T](), alignment); err != nil {
		return v, err
	}
	if limit := alloc.MaxAlign(reflect.TypeFor[T]()); alignment > limit {
		return v, errors.New(errors.PhaseLayout, errors.KindUnsupported).
			GoType(reflect.TypeFor[T]().String()).
			Layout(0, uint64(alignment)).
			Detail("alignment %d exceeds %d for this element type", alignment, limit).
			Build()
	}
	if n < 0 {
		return v, errors.CapacityOverflow(errors.PhaseLayout, n, uint64(layout.Of[T]().Size))
	}
	if n == 0 {
		return v, nil
	}
	if err := v.grow(n, alignment); err != nil {
		return v, err
	}
	return v, nil
}

// Of returns a vector holding elems. The elements are moved, not cloned.
func Of[T any](elems ...T) Vec[T] {
	v := WithCapacity[T](len(elems))
	v.appendMoved(elems)
	return v
}

// Repeat returns a vector of n clones of x.
func Repeat[T any](x T, n int) Vec[T] {
	v := WithCapacity[T](n)
	v.Resize(n, x)
	return v
}

// FromSlice returns a vector holding clones of the elements of s.
func FromSlice[T any](s []T) Vec[T] {
	v := WithCapacity[T](len(s))
	v.ExtendFromSlice(s)
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func (v *Vec[T]) header() *layout.Header {
	if v.buf == nil {
		return &emptyHeader
	}
	return (*layout.Header)(v.buf)
}

func (v *Vec[T]) isEmptyBlock() bool {
	return v.buf == nil || v.buf == sentinel
}

// setLen writes the length. The empty block only ever holds zero.
func (v *Vec[T]) setLen(n int) {
	if v.isEmptyBlock() {
		if n != 0 {
			panic("thinvec: length set on the empty block")
		}
		return
	}
	v.header().Len = n
}

func (v *Vec[T]) payloadOffset() uintptr {
	return layout.NextAligned(layout.HeaderSize, uintptr(v.header().Align))
}

// slots returns every slot of the block, [0, Cap).
func (v *Vec[T]) slots() []T {
	if v.isEmptyBlock() {
		return nil
	}
	h := v.header()
	return unsafe.Slice((*T)(unsafe.Add(v.buf, v.payloadOffset())), h.Cap)
}

// request rebuilds the allocator request of the current block.
func (v *Vec[T]) request() alloc.Request {
	h := v.header()
	l, err := layout.Native.Make(layout.Of[T](), h.Cap, uintptr(h.Align))
	if err != nil {
		panic(fmt.Sprintf("thinvec: block header does not describe a valid layout: %v", err))
	}
	return alloc.RequestFor(l, reflect.TypeFor[T]())
}

// release returns the block to the allocator without dropping elements and
// leaves the vector empty.
func (v *Vec[T]) release() {
	if !v.isEmptyBlock() {
		r := v.request()
		alloc.Default().Release(v.buf, r)
		debug("release", zap.Int("cap", r.Count), zap.Uintptr("size", r.Size))
	}
	v.buf = sentinel
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int {
	return v.header().Len
}

// Cap returns the number of element slots in the block.
func (v *Vec[T]) Cap() int {
	return v.header().Cap
}

// IsEmpty reports whether the vector holds no elements.
func (v *Vec[T]) IsEmpty() bool {
	return v.Len() == 0
}

// Alignment returns the block alignment. An empty vector reports the
// default alignment for T.
func (v *Vec[T]) Alignment() uintptr {
	if a := v.header().Align; a != 0 {
		return uintptr(a)
	}
	return layout.Native.MaxAlign(layout.Of[T]().Align)
}

// Slice returns the live elements. The slice aliases the block and is valid
// until the next call that may reallocate; its capacity equals its length.
func (v *Vec[T]) Slice() []T {
	n := v.Len()
	return v.slots()[:n:n]
}

// Data returns the address of the first slot, or nil for an empty block.
func (v *Vec[T]) Data() unsafe.Pointer {
	if v.isEmptyBlock() {
		return nil
	}
	return unsafe.Add(v.buf, v.payloadOffset())
}

func (v *Vec[T]) checkIndex(i int) {
	if n := v.Len(); i < 0 || i >= n {
		panic(fmt.Sprintf("thinvec: index out of range [%d] with length %d", i, n))
	}
}

// At returns the element at i. It panics if i is out of range.
func (v *Vec[T]) At(i int) T {
	v.checkIndex(i)
	return v.slots()[i]
}

// Ptr returns the address of the element at i, valid until the next call
// that may reallocate. It panics if i is out of range.
func (v *Vec[T]) Ptr(i int) *T {
	v.checkIndex(i)
	return &v.slots()[i]
}

// Set replaces the element at i, dropping the old one.
func (v *Vec[T]) Set(i int, x T) {
	v.checkIndex(i)
	s := v.slots()
	old := s[i]
	s[i] = x
	dropOne(&old)
}

// Get returns the element at i and whether i is in range.
func (v *Vec[T]) Get(i int) (T, bool) {
	if i < 0 || i >= v.Len() {
		var zero T
		return zero, false
	}
	return v.slots()[i], true
}

// First returns the first element, if any.
func (v *Vec[T]) First() (T, bool) {
	return v.Get(0)
}

// Last returns the last element, if any.
func (v *Vec[T]) Last() (T, bool) {
	return v.Get(v.Len() - 1)
}

// Free drops every element and releases the block. The vector is empty
// and usable afterwards.
func (v *Vec[T]) Free() {
	if v.isEmptyBlock() {
		v.buf = sentinel
		return
	}
	live := v.Slice()
	v.setLen(0)
	defer v.release()
	dropAll(live)
}
