// Package alloc hands out thin vector blocks from the Go heap.
//
// A block is one Go object holding a layout.Header followed by the element
// payload. The garbage collector must see every pointer the payload holds, so
// the shape of the object depends on the element type:
//
//   - Pointer-bearing elements get a typed object built with reflect.StructOf
//     (header, optional padding, [N]Elem). N is Count rounded up to one of
//     four steps per power of two, so each element type has a bounded set of
//     block shapes. Its alignment is the Go alignment of the type, so
//     requests above that are rejected.
//   - Pointer-free elements get a noscan byte buffer, over-allocated and
//     aligned by hand. Any power-of-two alignment up to MaxRawAlign works.
//
// Release does not free memory; it retires the block from the statistics and
// the collector reclaims it once nothing references it.
//
// # Budget
//
// Heap.SetLimit caps the bytes held by live blocks. A request past that cap,
// past MemoryBound or past the platform block limit fails with an allocation
// error carrying the requested size and alignment. The runtime cannot recover
// from running out of memory, so oversized requests never reach it.
//
// Default returns the process-wide heap used by thinvec.Vec.
package alloc
