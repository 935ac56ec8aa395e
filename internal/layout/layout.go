package layout

import (
	"math"
	"unsafe"

	"github.com/wippyai/thinvec/errors"
)

// Header is the metadata record stored at offset 0 of every block.
type Header struct {
	Len   int
	Cap   int
	Align int
}

const (
	HeaderSize  = unsafe.Sizeof(Header{})
	HeaderAlign = unsafe.Alignof(Header{})
)

// Target describes where blocks are allocated.
type Target struct {
	Name        string
	HeaderSize  uintptr
	HeaderAlign uintptr
	// MaxSize is the largest block size, rounded up to the block alignment,
	// the target can allocate.
	MaxSize uintptr
}

var (
	Native = Target{Name: "native", HeaderSize: HeaderSize, HeaderAlign: HeaderAlign, MaxSize: math.MaxInt}
	Wasm32 = Target{Name: "wasm32", HeaderSize: 12, HeaderAlign: 4, MaxSize: math.MaxInt32}
)

// Elem is the size and natural alignment of an element type.
type Elem struct {
	Size  uintptr
	Align uintptr
}

// Layout is the computed shape of one block.
type Layout struct {
	Size   uintptr // header, padding and Cap slots
	Align  uintptr // block alignment
	Offset uintptr // payload offset from the block start
	Cap    int
}

// Of returns the element layout of T. Zero-size types are not supported.
func Of[T any]() Elem {
	var zero T
	e := Elem{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
	if e.Size == 0 {
		panic("thinvec: zero-size element types are not supported")
	}
	return e
}

// NextAligned rounds n up to a multiple of align, which must be a power of two.
func NextAligned(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// IsPowerOfTwo reports whether n is a nonzero power of two.
func IsPowerOfTwo(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// MaxAlign returns the default block alignment for elements aligned to elemAlign.
func (t Target) MaxAlign(elemAlign uintptr) uintptr {
	return max(elemAlign, t.HeaderAlign)
}

// Validate checks a requested block alignment for elements of e.
func (t Target) Validate(e Elem, alignment uintptr) error {
	if !IsPowerOfTwo(alignment) {
		return errors.InvalidLayout(errors.PhaseLayout, uint64(alignment), "alignment must be a power of two")
	}
	if minAlign := t.MaxAlign(e.Align); alignment < minAlign {
		return errors.New(errors.PhaseLayout, errors.KindInvalidLayout).
			Layout(0, uint64(alignment)).
			Value(alignment).
			Detail("alignment %d is below the minimum %d for %s", alignment, minAlign, t.Name).
			Build()
	}
	if alignment > t.MaxSize {
		return errors.InvalidLayout(errors.PhaseLayout, uint64(alignment), "alignment exceeds the maximum block size")
	}
	return nil
}

// Make computes the layout of a block holding capacity elements of e.
// An oversized request is reported as capacity overflow, never clamped.
func (t Target) Make(e Elem, capacity int, alignment uintptr) (Layout, error) {
	if err := t.Validate(e, alignment); err != nil {
		return Layout{}, err
	}
	if capacity < 0 {
		return Layout{}, errors.CapacityOverflow(errors.PhaseLayout, capacity, uint64(e.Size))
	}

	offset := NextAligned(t.HeaderSize, alignment)
	payload, ok := mulOverflowSafe(uintptr(capacity), e.Size)
	if !ok {
		return Layout{}, errors.CapacityOverflow(errors.PhaseLayout, capacity, uint64(e.Size))
	}
	size, ok := addOverflowSafe(offset, payload)
	if !ok {
		return Layout{}, errors.CapacityOverflow(errors.PhaseLayout, capacity, uint64(e.Size))
	}
	// the rounded size must stay representable as well
	rounded, ok := addOverflowSafe(size, alignment-1)
	if !ok || rounded&^(alignment-1) > t.MaxSize {
		return Layout{}, errors.CapacityOverflow(errors.PhaseLayout, capacity, uint64(e.Size))
	}

	return Layout{Size: size, Align: alignment, Offset: offset, Cap: capacity}, nil
}

// MaxElements returns the largest capacity Make accepts for e and alignment.
func (t Target) MaxElements(e Elem, alignment uintptr) int {
	limit := t.MaxSize &^ (alignment - 1)
	offset := NextAligned(t.HeaderSize, alignment)
	if limit < offset {
		return 0
	}
	n := (limit - offset) / e.Size
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// NextCapacity returns the capacity that follows capacity under the growth
// policy for elements of elemSize bytes.
func NextCapacity(elemSize uintptr, capacity int) int {
	if capacity == 0 {
		switch {
		case elemSize == 1:
			return 8
		case elemSize <= 1024:
			return 4
		default:
			return 1
		}
	}
	if capacity > math.MaxInt/2 {
		return math.MaxInt
	}
	return capacity * 2
}
