package thinvec

import (
	"fmt"
	"unsafe"
)

// IntoRaw gives up ownership of the block and returns its address with the
// length and capacity. v is left empty and the elements are not dropped.
// The address points at the block header, never at the first element; an
// empty vector returns the shared empty block.
//
// Only FromRaw and FromRawParts may take the block back.
func (v *Vec[T]) IntoRaw() (p unsafe.Pointer, length, capacity int) {
	h := v.header()
	p, length, capacity = v.buf, h.Len, h.Cap
	if p == nil {
		p = sentinel
	}
	v.buf = sentinel
	return p, length, capacity
}

// FromRaw rebuilds a vector from an address returned by IntoRaw, reading
// length, capacity and alignment back from the header. A nil address yields
// an empty vector. Any other address is undefined behavior.
func FromRaw[T any](p unsafe.Pointer) Vec[T] {
	if p == nil {
		return New[T]()
	}
	return Vec[T]{buf: p}
}

// FromRawParts is FromRaw that also checks the recorded length and capacity
// against the header. It panics on mismatch.
func FromRawParts[T any](p unsafe.Pointer, length, capacity int) Vec[T] {
	v := FromRaw[T](p)
	if h := v.header(); h.Len != length || h.Cap != capacity {
		panic(fmt.Sprintf("thinvec: raw parts (len %d, cap %d) do not match block header (len %d, cap %d)",
			length, capacity, h.Len, h.Cap))
	}
	return v
}
