package wasmvec

import (
	"fmt"
	"reflect"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/thinvec"
	"github.com/wippyai/thinvec/alloc"
	"github.com/wippyai/thinvec/errors"
	"github.com/wippyai/thinvec/internal/layout"
)

// GuestHeader is the header of a wasm32 block.
type GuestHeader struct {
	Len   uint32
	Cap   uint32
	Align uint32
}

var littleEndian = func() bool {
	one := uint16(1)
	return *(*byte)(unsafe.Pointer(&one)) == 1
}()

// checkElem rejects element types whose bytes cannot be copied into guest
// memory.
func checkElem[T any](phase errors.Phase) (layout.Elem, error) {
	t := reflect.TypeFor[T]()
	if !littleEndian {
		return layout.Elem{}, errors.Unsupported(phase, "big-endian host")
	}
	if alloc.HasPointers(t) {
		return layout.Elem{}, errors.New(phase, errors.KindUnsupported).
			GoType(t.String()).
			Detail("element type holds pointers").
			Build()
	}
	return layout.Of[T](), nil
}

// payloadBytes views the first n elements of p as bytes.
func payloadBytes(p unsafe.Pointer, n int, e layout.Elem) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), uintptr(n)*e.Size)
}

// Export copies v into guest memory as a wasm32 block and returns its address.
// An empty vector with no capacity exports as 0 and allocates nothing. v is
// left unchanged.
func Export[T any](mem Memory, a Allocator, v *thinvec.Vec[T]) (uint32, error) {
	e, err := checkElem[T](errors.PhaseExport)
	if err != nil {
		return 0, err
	}
	if mem == nil {
		return 0, errors.NilPointer(errors.PhaseExport, "memory")
	}
	if a == nil {
		return 0, errors.NilPointer(errors.PhaseExport, "allocator")
	}
	if v.Cap() == 0 {
		return 0, nil
	}

	l, err := layout.Wasm32.Make(e, v.Cap(), v.Alignment())
	if err != nil {
		return 0, err
	}
	ptr, err := a.Alloc(uint32(l.Size), uint32(l.Align))
	if err != nil {
		return 0, errors.New(errors.PhaseExport, errors.KindAllocation).
			GoType(reflect.TypeFor[T]().String()).
			Layout(uint64(l.Size), uint64(l.Align)).
			Cause(err).
			Build()
	}
	if uintptr(ptr)%l.Align != 0 {
		a.Free(ptr, uint32(l.Size), uint32(l.Align))
		return 0, errors.InvalidData(errors.PhaseExport,
			fmt.Sprintf("guest allocator returned %#x, not aligned to %d", ptr, l.Align))
	}

	if err := writeBlock(mem, ptr, l, v.Len(), payloadBytes(v.Data(), v.Len(), e)); err != nil {
		a.Free(ptr, uint32(l.Size), uint32(l.Align))
		return 0, err
	}
	Logger().Debug("exported block",
		zap.Uint32("ptr", ptr),
		zap.Int("len", v.Len()),
		zap.Int("cap", v.Cap()))
	return ptr, nil
}

func writeBlock(mem Memory, ptr uint32, l layout.Layout, length int, payload []byte) error {
	header := [3]uint32{uint32(length), uint32(l.Cap), uint32(l.Align)}
	for i, f := range header {
		if err := mem.WriteU32(ptr+uint32(4*i), f); err != nil {
			return errors.Wrap(errors.PhaseExport, errors.KindOutOfBounds, err, "writing block header")
		}
	}
	if len(payload) > 0 {
		if err := mem.Write(ptr+uint32(l.Offset), payload); err != nil {
			return errors.Wrap(errors.PhaseExport, errors.KindOutOfBounds, err, "writing block payload")
		}
	}
	return nil
}

// ReadHeader reads the header of the wasm32 block at ptr.
func ReadHeader(mem Memory, ptr uint32) (GuestHeader, error) {
	var h GuestHeader
	if mem == nil {
		return h, errors.NilPointer(errors.PhaseImport, "memory")
	}
	for i, f := range []*uint32{&h.Len, &h.Cap, &h.Align} {
		v, err := mem.ReadU32(ptr + uint32(4*i))
		if err != nil {
			return h, errors.Wrap(errors.PhaseImport, errors.KindOutOfBounds, err, "reading block header")
		}
		*f = v
	}
	return h, nil
}

// guestLayout checks a guest header against the wasm32 layout of T.
func guestLayout(e layout.Elem, h GuestHeader) (layout.Layout, error) {
	if h.Len > h.Cap {
		return layout.Layout{}, errors.InvalidData(errors.PhaseImport,
			fmt.Sprintf("block length %d exceeds capacity %d", h.Len, h.Cap))
	}
	l, err := layout.Wasm32.Make(e, int(h.Cap), uintptr(h.Align))
	if err != nil {
		return layout.Layout{}, errors.New(errors.PhaseImport, errors.KindInvalidData).
			Detail("block header does not describe a wasm32 layout").
			Cause(err).
			Build()
	}
	return l, nil
}

// Import copies the wasm32 block at ptr into a new host vector with the same
// length and capacity. The block alignment is kept when the host can honor
// it. Address 0 imports as an empty vector. The guest block is not freed.
func Import[T any](mem Memory, ptr uint32) (thinvec.Vec[T], error) {
	v := thinvec.New[T]()
	e, err := checkElem[T](errors.PhaseImport)
	if err != nil {
		return v, err
	}
	if ptr == 0 {
		return v, nil
	}
	h, err := ReadHeader(mem, ptr)
	if err != nil {
		return v, err
	}
	l, err := guestLayout(e, h)
	if err != nil {
		return v, err
	}
	n := int(h.Len)
	payload, err := mem.Read(ptr+uint32(l.Offset), uint32(uintptr(n)*e.Size))
	if err != nil {
		return v, errors.Wrap(errors.PhaseImport, errors.KindOutOfBounds, err, "reading block payload")
	}
	if int(h.Cap) == 0 {
		return v, nil
	}

	align := max(l.Align, layout.Native.MaxAlign(e.Align))
	v, err = thinvec.WithAlignment[T](int(h.Cap), align)
	if err != nil {
		return v, err
	}
	v.SetLen(n)
	copy(payloadBytes(v.Data(), n, e), payload)
	return v, nil
}

// Release frees the wasm32 block at ptr through the guest allocator.
func Release[T any](mem Memory, a Allocator, ptr uint32) error {
	if ptr == 0 {
		return nil
	}
	if a == nil {
		return errors.NilPointer(errors.PhaseImport, "allocator")
	}
	e, err := checkElem[T](errors.PhaseImport)
	if err != nil {
		return err
	}
	h, err := ReadHeader(mem, ptr)
	if err != nil {
		return err
	}
	l, err := guestLayout(e, h)
	if err != nil {
		return err
	}
	a.Free(ptr, uint32(l.Size), uint32(l.Align))
	return nil
}
