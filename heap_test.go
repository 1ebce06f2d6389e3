package rtcore

import "testing"

func TestRawAllocateChunkHeader(t *testing.T) {
	h := newHeap(256)
	off, ok := h.rawAllocate(24)
	if !ok {
		t.Fatal("rawAllocate failed on a fresh heap")
	}
	if off != headerSize {
		t.Errorf("first payload offset = %d, want %d", off, headerSize)
	}
	got := h.chunkSizeAt(off)
	want := headerSize + roundUp(24, maxAlign)
	if got != want {
		t.Errorf("chunk size = %d, want %d", got, want)
	}
	if h.next != off+roundUp(24, maxAlign) {
		t.Errorf("heap.next not advanced by the full chunk size")
	}
}

func TestRawAllocateFailsWhenFull(t *testing.T) {
	h := newHeap(32)
	if _, ok := h.rawAllocate(64); ok {
		t.Fatal("rawAllocate should fail when the request exceeds the space")
	}
	if h.next != 0 {
		t.Errorf("a failed allocation must not move next, got %d", h.next)
	}
}

func TestRawAllocateZerosPayload(t *testing.T) {
	h := newHeap(256)
	off, _ := h.rawAllocate(16)
	for i := off; i < off+16; i++ {
		h.bytes[i] = 0xAA
	}
	off2, _ := h.rawAllocate(16)
	_ = off2
	// re-allocate over the same bytes only happens after GC; here we just
	// check a fresh allocation starts zeroed.
	off3, _ := h.rawAllocate(8)
	for i := off3; i < off3+8; i++ {
		if h.bytes[i] != 0 {
			t.Fatalf("byte %d of fresh allocation not zeroed", i-off3)
		}
	}
}

func TestHeapSpace(t *testing.T) {
	h := newHeap(64)
	if !h.Space(16) {
		t.Fatal("64-byte heap should have room for a 16-byte request")
	}
	h.rawAllocate(48)
	if h.Space(32) {
		t.Fatal("heap should report no room once it's nearly full")
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[uintptr]uintptr{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 8: 8, 9: 16, 1000: 1024}
	for in, want := range cases {
		if got := nextPow2(in); got != want {
			t.Errorf("nextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}
