// Package wasmvec moves vectors across a WebAssembly linear memory.
//
// Two representations are supported:
//
//   - Thin blocks. Export writes a vector into guest memory as a wasm32 block:
//     a 12-byte header of three little-endian u32 fields (length, capacity,
//     alignment) followed by the payload at the header size rounded up to the
//     alignment. Import reads such a block back into a host vector.
//
//   - Canonical ABI lists. LowerList and LiftList move the payload of a
//     list<T> as a (pointer, length) pair after checking that the Go element
//     type has the same size and alignment as the WIT element type.
//
// Only pointer-free element types can cross the boundary. Element bytes are
// copied verbatim, so the host must be little-endian.
//
// # Usage
//
//	mem := wasmvec.WrapMemory(mod.ExportedMemory("memory"))
//	a := wasmvec.WrapAllocator(ctx, mod.ExportedFunction("cabi_realloc"))
//
//	ptr, err := wasmvec.Export(mem, a, &v)
//	...
//	w, err := wasmvec.Import[uint32](mem, ptr)
package wasmvec
