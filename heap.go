package rtcore

import "unsafe"

// maxAlign is the alignment granularity for every chunk, matching the
// 8-byte alignment cloudfly-readgo's allocator uses for all but its
// largest size classes.
const maxAlign = uintptr(8)

// headerSize is the machine word prefixing every chunk, recording the
// chunk's total size (header + tag area + payload, alignment-padded).
// Ground truth: idris_rts.c's allocate() writes
// *((size_t*)(vm->heap.next)) = chunk_size before returning the payload
// pointer.
const headerSize = unsafe.Sizeof(uintptr(0))

// tagAreaSize is the fixed 8-byte area immediately following the chunk
// header: a one-byte tag plus padding, keeping every tag-specific payload
// 8-byte aligned regardless of the tag byte's own size.
const tagAreaSize = uintptr(8)

func roundUp(n, a uintptr) uintptr {
	return (n + a - 1) &^ (a - 1)
}

func nextPow2(n uintptr) uintptr {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// Heap is a single semispace: a flat byte arena walked by a bump
// allocator. next is the first free byte; end is one past the last
// usable byte. A Value's boxed offset is always an index into bytes,
// valid only while this particular Heap is the owning Executor's
// current space.
type Heap struct {
	bytes []byte
	next  uintptr
	end   uintptr
}

func newHeap(size uintptr) Heap {
	size = roundUp(size, maxAlign)
	return Heap{
		bytes: make([]byte, size),
		next:  0,
		end:   size,
	}
}

// Space non-destructively reports whether a closure carrying size bytes of
// payload after its tag area would fit without triggering collection,
// i.e. whether Executor.Allocate(size, ...) succeeds on its fast path.
func (h *Heap) Space(size uintptr) bool {
	chunk := headerSize + roundUp(tagAreaSize+size, maxAlign)
	return h.next+chunk <= h.end
}

// rawAllocate bump-allocates a zeroed chunk able to hold size payload
// bytes and returns the offset of the payload (immediately after the
// chunk header). It never triggers collection; callers needing the
// retry-after-GC contract use Executor.Allocate.
func (h *Heap) rawAllocate(size uintptr) (uintptr, bool) {
	payload := roundUp(size, maxAlign)
	chunk := headerSize + payload
	if h.next+chunk > h.end {
		return 0, false
	}
	hdrOff := h.next
	payloadOff := hdrOff + headerSize
	*(*uintptr)(unsafe.Pointer(&h.bytes[hdrOff])) = chunk
	clear(h.bytes[payloadOff : payloadOff+payload])
	h.next += chunk
	return payloadOff, true
}

// allocRaw allocates a closure chunk (tag area plus size payload bytes)
// with a fatal instead of a bool: used only during collection, copying
// into a to-space sized to guarantee success.
func (h *Heap) allocRaw(size uintptr) uintptr {
	off, ok := h.rawAllocate(tagAreaSize + size)
	if !ok {
		fatal("Fatal Error: to-space exhausted during garbage collection")
	}
	return off
}

func (h *Heap) chunkSizeAt(off uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(&h.bytes[off-headerSize]))
}

// tag/setTag read and write the one-byte closure tag stored at the start
// of a chunk's tag area.
func (h *Heap) tag(off uintptr) Tag {
	return Tag(h.bytes[off])
}

func (h *Heap) setTag(off uintptr, t Tag) {
	h.bytes[off] = byte(t)
}

// payload returns the offset immediately following the tag area, where
// tag-specific fields begin.
func (h *Heap) payload(off uintptr) uintptr {
	return off + tagAreaSize
}

func (h *Heap) u8(off uintptr) uint8   { return h.bytes[off] }
func (h *Heap) setU8(off uintptr, v uint8) { h.bytes[off] = v }

func (h *Heap) u16(off uintptr) uint16 {
	return *(*uint16)(unsafe.Pointer(&h.bytes[off]))
}
func (h *Heap) setU16(off uintptr, v uint16) {
	*(*uint16)(unsafe.Pointer(&h.bytes[off])) = v
}

func (h *Heap) u32(off uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(&h.bytes[off]))
}
func (h *Heap) setU32(off uintptr, v uint32) {
	*(*uint32)(unsafe.Pointer(&h.bytes[off])) = v
}

func (h *Heap) u64(off uintptr) uint64 {
	return *(*uint64)(unsafe.Pointer(&h.bytes[off]))
}
func (h *Heap) setU64(off uintptr, v uint64) {
	*(*uint64)(unsafe.Pointer(&h.bytes[off])) = v
}

func (h *Heap) f64(off uintptr) float64 {
	return *(*float64)(unsafe.Pointer(&h.bytes[off]))
}
func (h *Heap) setF64(off uintptr, v float64) {
	*(*float64)(unsafe.Pointer(&h.bytes[off])) = v
}

func (h *Heap) value(off uintptr) Value {
	return Value(h.u64(off))
}
func (h *Heap) setValue(off uintptr, v Value) {
	h.setU64(off, uint64(v))
}

// bytesAt returns a direct slice into the arena; callers must not retain
// it across an allocation or collection.
func (h *Heap) bytesAt(off, n uintptr) []byte {
	return h.bytes[off : off+n]
}
