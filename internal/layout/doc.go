// Package layout computes the byte layout of a thin vector block.
//
// A block is a Header followed by the element payload:
//
//	offset 0                     NextAligned(HeaderSize, Align)
//	+--------+---------+--------+--------------------------------+
//	| Len    | Cap     | Align  | pad | elem 0 | elem 1 | ...     |
//	+--------+---------+--------+--------------------------------+
//
// The block alignment is max(element alignment, header alignment) unless a
// larger power of two is requested. The total size is the payload offset plus
// Cap element slots; it must fit the target's maximum allocation size.
//
// # Targets
//
// Native describes blocks on the Go heap, with a three-word header. Wasm32
// describes blocks in 32-bit WebAssembly linear memory, with a header of three
// u32 fields and a 2 GiB size limit.
//
// # Growth
//
// NextCapacity is the amortized growth policy: the first allocation jumps to
// a small capacity chosen by element size, every later one doubles.
//
// This package is internal to thinvec.
package layout
