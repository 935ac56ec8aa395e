package alloc

import (
	"math"
	"math/bits"
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/thinvec/errors"
	"github.com/wippyai/thinvec/internal/layout"
)

// maxBlockSize is the largest block the platform can hand out: 128 TiB on
// 64-bit targets, 2 GiB on 32-bit ones.
const maxBlockSize = 1<<(31+16*(bits.UintSize/64)) - 1

// Request describes one block.
type Request struct {
	Size   uintptr // total bytes, header included
	Align  uintptr
	Offset uintptr // payload offset
	Count  int     // element slots
	Elem   reflect.Type
}

// RequestFor builds the request for a computed layout of elem.
func RequestFor(l layout.Layout, elem reflect.Type) Request {
	return Request{Size: l.Size, Align: l.Align, Offset: l.Offset, Count: l.Cap, Elem: elem}
}

// Stats is a snapshot of heap activity.
type Stats struct {
	Live     int64 // blocks allocated and not yet released
	Bytes    int64 // bytes held by live blocks
	Peak     int64 // high-water mark of Bytes
	Allocs   int64
	Releases int64
	Failures int64
}

// Heap allocates blocks and keeps statistics. The zero value is ready to use
// and has no budget.
type Heap struct {
	limit    atomic.Int64
	live     atomic.Int64
	bytes    atomic.Int64
	peak     atomic.Int64
	allocs   atomic.Int64
	releases atomic.Int64
	failures atomic.Int64
}

var defaultHeap Heap

// Default returns the process-wide heap.
func Default() *Heap {
	return &defaultHeap
}

// SetLimit caps the bytes held by live blocks. Zero or a negative value
// removes the cap.
func (h *Heap) SetLimit(bytes int64) {
	h.limit.Store(max(bytes, 0))
}

// Limit returns the configured cap, or 0 when there is none.
func (h *Heap) Limit() int64 {
	return h.limit.Load()
}

// Stats returns the current counters.
func (h *Heap) Stats() Stats {
	return Stats{
		Live:     h.live.Load(),
		Bytes:    h.bytes.Load(),
		Peak:     h.peak.Load(),
		Allocs:   h.allocs.Load(),
		Releases: h.releases.Load(),
		Failures: h.failures.Load(),
	}
}

// Allocate returns a zeroed block for r. The returned pointer addresses the
// header and is aligned to r.Align.
func (h *Heap) Allocate(r Request) (unsafe.Pointer, error) {
	if r.Elem == nil {
		return nil, errors.NilPointer(errors.PhaseAlloc, "element type")
	}
	if !layout.IsPowerOfTwo(r.Align) || r.Align < layout.HeaderAlign || r.Offset < layout.HeaderSize {
		return nil, errors.InvalidLayout(errors.PhaseAlloc, uint64(r.Align), "malformed block request")
	}
	if r.Align > MaxAlign(r.Elem) {
		return nil, errors.New(errors.PhaseAlloc, errors.KindUnsupported).
			GoType(r.Elem.String()).
			Layout(uint64(r.Size), uint64(r.Align)).
			Detail("alignment %d exceeds %d for this element type", r.Align, MaxAlign(r.Elem)).
			Build()
	}

	typed := HasPointers(r.Elem)
	if r.Size > maxBlockSize-r.Align || !h.fits(footprint(r, typed)) || !h.reserve(int64(r.Size)) {
		h.failures.Add(1)
		err := errors.AllocationFailed(errors.PhaseAlloc, uint64(r.Size), uint64(r.Align))
		Logger().Debug("allocation failed",
			zap.Uint64("size", uint64(r.Size)),
			zap.Uint64("align", uint64(r.Align)),
			zap.Int64("limit", h.limit.Load()),
			zap.Uint64("memory", MemoryBound()),
		)
		return nil, err
	}

	var p unsafe.Pointer
	if typed {
		p = typedBlock(r)
	} else {
		p = rawBlock(r)
	}

	h.live.Add(1)
	h.allocs.Add(1)
	return p, nil
}

// Release retires a block obtained from Allocate with the same request.
func (h *Heap) Release(p unsafe.Pointer, r Request) {
	if p == nil {
		return
	}
	h.bytes.Add(-int64(r.Size))
	h.live.Add(-1)
	h.releases.Add(1)
}

var systemMemoryOnce = sync.OnceValue(systemMemory)

// MemoryBound returns the most memory the process may hold: physical memory
// plus swap, lowered to the runtime soft memory limit when one is set. It
// returns 0 when neither is known.
func MemoryBound() uint64 {
	bound := systemMemoryOnce()
	if soft := debug.SetMemoryLimit(-1); soft > 0 && soft < math.MaxInt64 {
		if bound == 0 || uint64(soft) < bound {
			bound = uint64(soft)
		}
	}
	return bound
}

// fits reports whether n more bytes can live next to the live blocks
// without exceeding MemoryBound. The runtime aborts the process on an
// allocation it cannot back, so requests past the bound are refused here.
func (h *Heap) fits(n uintptr) bool {
	bound := MemoryBound()
	if bound == 0 {
		return true
	}
	live := uint64(max(h.bytes.Load(), 0))
	return uint64(n) <= bound && live <= bound-uint64(n)
}

// footprint returns the bytes the Go heap actually hands out for r.
func footprint(r Request, typed bool) uintptr {
	if !typed {
		return r.Size + r.Align - 1
	}
	extra := uintptr(slotClass(r.Count)-r.Count) * r.Elem.Size()
	if extra > maxBlockSize-r.Size {
		return maxBlockSize
	}
	return r.Size + extra
}

// reserve accounts size bytes against the budget.
func (h *Heap) reserve(size int64) bool {
	for {
		cur := h.bytes.Load()
		next := cur + size
		if limit := h.limit.Load(); limit > 0 && next > limit {
			return false
		}
		if h.bytes.CompareAndSwap(cur, next) {
			h.raisePeak(next)
			return true
		}
	}
}

func (h *Heap) raisePeak(v int64) {
	for {
		cur := h.peak.Load()
		if v <= cur || h.peak.CompareAndSwap(cur, v) {
			return
		}
	}
}

// slotClass rounds n up to one of four steps per power of two, so a type
// gets a bounded number of distinct block shapes whatever capacities are
// asked for.
func slotClass(n int) int {
	if n <= 4 {
		return n
	}
	shift := bits.Len(uint(n)) - 3
	return ((n-1)>>shift + 1) << shift
}

type blockKey struct {
	elem  reflect.Type
	pad   uintptr
	slots int
}

var blockTypes sync.Map // blockKey -> reflect.Type

// blockType returns {Header, pad, [slots]Elem}, built once per shape.
func blockType(elem reflect.Type, pad uintptr, slots int) reflect.Type {
	key := blockKey{elem: elem, pad: pad, slots: slots}
	if t, ok := blockTypes.Load(key); ok {
		return t.(reflect.Type)
	}
	fields := []reflect.StructField{{Name: "Header", Type: reflect.TypeFor[layout.Header]()}}
	if pad > 0 {
		fields = append(fields, reflect.StructField{Name: "Pad", Type: reflect.ArrayOf(int(pad), reflect.TypeFor[byte]())})
	}
	fields = append(fields, reflect.StructField{Name: "Data", Type: reflect.ArrayOf(slots, elem)})
	t, _ := blockTypes.LoadOrStore(key, reflect.StructOf(fields))
	return t.(reflect.Type)
}

// typedBlock allocates a block whose payload has at least r.Count slots, so
// the collector scans it with the element's pointer map. The slot count is
// rounded up by slotClass; the header still records the exact capacity.
func typedBlock(r Request) unsafe.Pointer {
	typ := blockType(r.Elem, r.Offset-layout.HeaderSize, slotClass(r.Count))
	if off := typ.Field(typ.NumField() - 1).Offset; off != r.Offset {
		panic("thinvec: typed block payload offset mismatch")
	}
	return reflect.New(typ).UnsafePointer()
}

// rawBlock over-allocates a noscan buffer and returns its first address
// aligned to r.Align. The interior pointer keeps the buffer alive.
func rawBlock(r Request) unsafe.Pointer {
	buf := make([]byte, r.Size+r.Align-1)
	base := uintptr(unsafe.Pointer(&buf[0]))
	off := layout.NextAligned(base, r.Align) - base
	return unsafe.Pointer(&buf[off])
}
