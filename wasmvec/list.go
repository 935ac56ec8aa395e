package wasmvec

import (
	"fmt"
	"reflect"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/thinvec"
	"github.com/wippyai/thinvec/errors"
	"github.com/wippyai/thinvec/internal/layout"
)

// checkList verifies that T and elemType share one canonical layout.
func checkList[T any](phase errors.Phase, elemType wit.Type) (layout.Elem, error) {
	e, err := checkElem[T](phase)
	if err != nil {
		return e, err
	}
	goType := reflect.TypeFor[T]().String()
	if elemType == nil {
		return e, errors.NilPointer(phase, "element type")
	}
	witType := typeName(elemType)
	if holdsPointers(elemType) {
		return e, errors.New(phase, errors.KindUnsupported).
			GoType(goType).
			WitType(witType).
			Detail("element type refers to guest memory").
			Build()
	}
	info := NewCalculator().Calculate(elemType)
	if uintptr(info.Size) != e.Size || uintptr(info.Align) != e.Align {
		return e, errors.TypeMismatch(phase, goType, witType,
			fmt.Sprintf("canonical layout is size %d align %d, Go layout is size %d align %d",
				info.Size, info.Align, e.Size, e.Align))
	}
	return e, nil
}

// LowerList copies the elements of v into guest memory as the payload of a
// list<elemType> and returns the (pointer, length) pair. An empty vector
// lowers to (0, 0) without allocating.
func LowerList[T any](mem Memory, a Allocator, v *thinvec.Vec[T], elemType wit.Type) (ptr, length uint32, err error) {
	e, err := checkList[T](errors.PhaseExport, elemType)
	if err != nil {
		return 0, 0, err
	}
	n := v.Len()
	if n == 0 {
		return 0, 0, nil
	}
	if mem == nil || a == nil {
		return 0, 0, errors.NilPointer(errors.PhaseExport, "memory or allocator")
	}
	size := uintptr(n) * e.Size
	if size > uintptr(layout.Wasm32.MaxSize) {
		return 0, 0, errors.CapacityOverflow(errors.PhaseExport, n, uint64(e.Size))
	}

	ptr, err = a.Alloc(uint32(size), uint32(e.Align))
	if err != nil {
		return 0, 0, errors.New(errors.PhaseExport, errors.KindAllocation).
			Layout(uint64(size), uint64(e.Align)).
			Cause(err).
			Build()
	}
	if err := mem.Write(ptr, payloadBytes(v.Data(), n, e)); err != nil {
		a.Free(ptr, uint32(size), uint32(e.Align))
		return 0, 0, errors.Wrap(errors.PhaseExport, errors.KindOutOfBounds, err, "writing list payload")
	}
	return ptr, uint32(n), nil
}

// LiftList copies the payload of a list<elemType> of length n at ptr into a
// new vector with capacity n. The guest memory is not freed.
func LiftList[T any](mem Memory, ptr, n uint32, elemType wit.Type) (thinvec.Vec[T], error) {
	v := thinvec.New[T]()
	e, err := checkList[T](errors.PhaseImport, elemType)
	if err != nil {
		return v, err
	}
	if n == 0 {
		return v, nil
	}
	if mem == nil {
		return v, errors.NilPointer(errors.PhaseImport, "memory")
	}
	size := uint64(n) * uint64(e.Size)
	if size > uint64(mem.Size()) {
		return v, errors.OutOfBounds(errors.PhaseImport, int(ptr), int(mem.Size()))
	}
	if uintptr(ptr)%e.Align != 0 {
		return v, errors.InvalidData(errors.PhaseImport,
			fmt.Sprintf("list pointer %#x is not aligned to %d", ptr, e.Align))
	}
	payload, err := mem.Read(ptr, uint32(size))
	if err != nil {
		return v, errors.Wrap(errors.PhaseImport, errors.KindOutOfBounds, err, "reading list payload")
	}
	if _, ok := elemType.(wit.Bool); ok {
		for i, b := range payload {
			if b > 1 {
				return v, errors.InvalidData(errors.PhaseImport, fmt.Sprintf("bool element %d has value %d", i, b))
			}
		}
	}

	v = thinvec.WithCapacity[T](int(n))
	v.SetLen(int(n))
	copy(payloadBytes(v.Data(), int(n), e), payload)
	return v, nil
}
