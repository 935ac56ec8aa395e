package wasmvec

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// guestWASM imports env.cabi_realloc and re-exports it next to 1 page of
// memory, so the allocator is reached through a guest function.
var guestWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	// type section: (i32 i32 i32 i32) -> i32
	0x01, 0x09, 0x01, 0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f,
	// import section: env.cabi_realloc, func type 0
	0x02, 0x14, 0x01,
	0x03, 0x65, 0x6e, 0x76,
	0x0c, 0x63, 0x61, 0x62, 0x69, 0x5f, 0x72, 0x65, 0x61, 0x6c, 0x6c, 0x6f, 0x63,
	0x00, 0x00,
	// memory section: 1 page, no max
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export section: "memory" (memory 0), "cabi_realloc" (func 0)
	0x07, 0x19, 0x02,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x0c, 0x63, 0x61, 0x62, 0x69, 0x5f, 0x72, 0x65, 0x61, 0x6c, 0x6c, 0x6f, 0x63, 0x00, 0x00,
}

const pageSize = 65536

// bump is a cabi_realloc that never reuses memory.
type bump struct {
	next  uint32
	frees int
}

func (b *bump) realloc(_ context.Context, old, oldSize, align, newSize uint32) uint32 {
	if newSize == 0 {
		b.frees++
		return 0
	}
	p := alignTo(b.next, align)
	if uint64(p)+uint64(newSize) > pageSize {
		return 0
	}
	b.next = p + newSize
	return p
}

type guest struct {
	mem   Memory
	alloc Allocator
	bump  *bump
}

func newGuest(t *testing.T) *guest {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	// Address 0 stays unused so that a null result means failure.
	b := &bump{next: 8}
	if _, err := rt.NewHostModuleBuilder("env").
		NewFunctionBuilder().WithFunc(b.realloc).Export("cabi_realloc").
		Instantiate(ctx); err != nil {
		t.Fatalf("failed to create env module: %v", err)
	}

	compiled, err := rt.CompileModule(ctx, guestWASM)
	if err != nil {
		t.Fatalf("failed to compile: %v", err)
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}

	realloc := mod.ExportedFunction("cabi_realloc")
	if realloc == nil {
		t.Fatal("guest does not export cabi_realloc")
	}
	return &guest{
		mem:   WrapMemory(mod.ExportedMemory("memory")),
		alloc: WrapAllocator(ctx, realloc),
		bump:  b,
	}
}

func TestWrapMemory_Nil(t *testing.T) {
	if mem := WrapMemory(nil); mem != nil {
		t.Error("expected nil for nil memory")
	}
}

func TestWrapAllocator_Nil(t *testing.T) {
	var fn api.Function
	if a := WrapAllocator(context.Background(), fn); a != nil {
		t.Error("expected nil for nil function")
	}
}

func TestMemory_ReadWrite(t *testing.T) {
	g := newGuest(t)

	if g.mem.Size() != pageSize {
		t.Fatalf("size: got %d, want %d", g.mem.Size(), pageSize)
	}
	if err := g.mem.Write(16, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	v, err := g.mem.ReadU32(16)
	if err != nil {
		t.Fatalf("ReadU32 failed: %v", err)
	}
	if v != 0x04030201 {
		t.Errorf("ReadU32: got %#x, want 0x04030201", v)
	}
	if err := g.mem.WriteU32(20, 0xdeadbeef); err != nil {
		t.Fatalf("WriteU32 failed: %v", err)
	}
	data, err := g.mem.Read(20, 4)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if data[0] != 0xef || data[3] != 0xde {
		t.Errorf("Read: got %x", data)
	}
}

func TestMemory_OutOfBounds(t *testing.T) {
	g := newGuest(t)

	if _, err := g.mem.Read(pageSize, 1); err == nil {
		t.Error("expected error for out of bounds read")
	}
	if err := g.mem.Write(pageSize-1, []byte{1, 2}); err == nil {
		t.Error("expected error for out of bounds write")
	}
	if _, err := g.mem.ReadU32(pageSize - 2); err == nil {
		t.Error("expected error for out of bounds u32 read")
	}
	if err := g.mem.WriteU32(pageSize, 1); err == nil {
		t.Error("expected error for out of bounds u32 write")
	}
}

func TestAllocator(t *testing.T) {
	g := newGuest(t)

	p, err := g.alloc.Alloc(10, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if p == 0 || p%8 != 0 {
		t.Errorf("Alloc: got %#x, want non-zero multiple of 8", p)
	}

	if _, err := g.alloc.Alloc(pageSize, 4); err == nil {
		t.Error("expected error when the guest allocator is exhausted")
	}

	g.alloc.Free(p, 10, 8)
	if g.bump.frees != 1 {
		t.Errorf("frees: got %d, want 1", g.bump.frees)
	}
}
