// Package thinvec provides Vec, a growable array that is one pointer wide.
//
// A conventional slice carries a pointer, a length and a capacity. A Vec
// keeps the length, capacity and block alignment in a header at the front
// of its heap block, so passing it by value or embedding it in a struct
// costs a single word.
//
// # Architecture Overview
//
//	thinvec/             Vec, Drain, DrainFilter, Splice, IntoIter
//	├── internal/layout/ Header, block layout and growth policy
//	├── alloc/           Block allocator over the Go heap, budget and stats
//	├── wasmvec/         Moving blocks and list<T> payloads through wasm memory
//	├── errors/          Structured error types
//	└── cmd/thinvec/     Layout calculator, script runner and inspector
//
// # Quick Start
//
//	v := thinvec.New[int]()
//	defer v.Free()
//
//	for i := range 10 {
//	    v.Push(i)
//	}
//
//	for x := range v.Drain(1, 4).All() {
//	    fmt.Println(x) // 1 2 3
//	}
//
//	sp := v.Splice(0, 1, slices.Values([]int{7, 8}))
//	sp.Close()
//	fmt.Println(v.String()) // [7 8 4 5 6 7 8 9]
//
// # Block Layout
//
// The payload starts at the header size rounded up to the block alignment.
// The alignment defaults to max(element alignment, header alignment);
// WithAlignment raises it for pointer-free element types. An empty vector
// points at a shared read-only header and owns no memory.
//
// # Element Ownership
//
// Elements that implement Dropper are dropped exactly once by whatever
// operation destroys them, including when a predicate, a fill function or
// a Drop call panics partway. Elements that implement Cloner are cloned by
// the operations that duplicate them.
//
// # Errors
//
// Reserve, Push and the other growing calls panic with an *errors.Error when
// a block cannot be allocated; TryReserve and TryReserveExact return it.
// Capacity overflow and allocation failure have distinct kinds. Index and
// range violations panic with a message before anything is modified.
//
// # Thread Safety
//
// A Vec is not safe for concurrent mutation. The parent vector must not be
// touched while a Drain, DrainFilter or Splice taken from it is open.
package thinvec
