package rtcore

// Layout helpers for each closure tag's payload, shared by the builders,
// the collector and the deep-copy code so the three never disagree about
// where a field lives.
//
// Every payload begins at h.payload(off), i.e. 8 bytes after the chunk's
// offset (the tag area). Fixed-width fields are stored at constant
// sub-offsets from there.

// --- Con: ctag uint16, arity uint16, pad uint32, then arity * Value ---

const conHeaderSize = uintptr(8)

func (h *Heap) conHeader(off uintptr) (ctag uint16, arity uint16) {
	p := h.payload(off)
	return h.u16(p), h.u16(p + 2)
}

func (h *Heap) setConHeader(off uintptr, ctag, arity uint16) {
	p := h.payload(off)
	h.setU16(p, ctag)
	h.setU16(p+2, arity)
}

func (h *Heap) conArg(off uintptr, i int) Value {
	p := h.payload(off) + conHeaderSize + uintptr(i)*8
	return h.value(p)
}

func (h *Heap) setConArg(off uintptr, i int, v Value) {
	p := h.payload(off) + conHeaderSize + uintptr(i)*8
	h.setValue(p, v)
}

func conPayloadSize(arity uint16) uintptr {
	return conHeaderSize + uintptr(arity)*8
}

// --- Float: one float64 ---

func (h *Heap) floatAt(off uintptr) float64 {
	return h.f64(h.payload(off))
}

func (h *Heap) setFloatAt(off uintptr, v float64) {
	h.setF64(h.payload(off), v)
}

// --- String: NUL-terminated bytes inline ---

func (h *Heap) stringBytes(off uintptr) []byte {
	p := h.payload(off)
	n := uintptr(0)
	for h.bytes[p+n] != 0 {
		n++
	}
	return h.bytesAt(p, n)
}

func stringPayloadSize(s []byte) uintptr {
	return uintptr(len(s)) + 1
}

func (h *Heap) setString(off uintptr, s []byte) {
	p := h.payload(off)
	copy(h.bytesAt(p, uintptr(len(s))), s)
	h.bytes[p+uintptr(len(s))] = 0
}

// --- StrOffset: root Value, offset uint64 ---

const strOffsetPayloadSize = uintptr(16)

func (h *Heap) strOffsetRoot(off uintptr) Value {
	return h.value(h.payload(off))
}

func (h *Heap) strOffsetOffset(off uintptr) uint64 {
	return h.u64(h.payload(off) + 8)
}

func (h *Heap) setStrOffset(off uintptr, root Value, strOff uint64) {
	p := h.payload(off)
	h.setValue(p, root)
	h.setU64(p+8, strOff)
}

// --- Ptr: one opaque uintptr-sized handle ---

func (h *Heap) ptrAt(off uintptr) uintptr {
	return uintptr(h.u64(h.payload(off)))
}

func (h *Heap) setPtrAt(off uintptr, v uintptr) {
	h.setU64(h.payload(off), uint64(v))
}

// --- ManagedPtr: size uint64, then size bytes inline ---

func (h *Heap) managedSize(off uintptr) uint64 {
	return h.u64(h.payload(off))
}

func (h *Heap) managedBytes(off uintptr) []byte {
	p := h.payload(off)
	n := h.u64(p)
	return h.bytesAt(p+8, uintptr(n))
}

func managedPayloadSize(n uint64) uintptr {
	return 8 + uintptr(n)
}

func (h *Heap) setManaged(off uintptr, data []byte) {
	p := h.payload(off)
	h.setU64(p, uint64(len(data)))
	copy(h.bytesAt(p+8, uintptr(len(data))), data)
}

// --- BigInt: treated as an opaque length-prefixed blob, same shape as
// ManagedPtr; the arbitrary-precision arithmetic itself lives outside
// this core (spec Non-goals), all this needs to do is copy the bytes
// faithfully across GC and inter-heap transfer. ---

func (h *Heap) bigIntBytes(off uintptr) []byte     { return h.managedBytes(off) }
func bigIntPayloadSize(n uint64) uintptr           { return managedPayloadSize(n) }
func (h *Heap) setBigInt(off uintptr, data []byte) { h.setManaged(off, data) }

// --- Buffer: cap uint64, fill uint64, then cap bytes inline store ---

const bufferHeaderSize = uintptr(16)

func (h *Heap) bufferCap(off uintptr) uint64 {
	return h.u64(h.payload(off))
}

func (h *Heap) bufferFill(off uintptr) uint64 {
	return h.u64(h.payload(off) + 8)
}

func (h *Heap) setBufferFill(off uintptr, fill uint64) {
	h.setU64(h.payload(off)+8, fill)
}

func (h *Heap) bufferStore(off uintptr) []byte {
	p := h.payload(off) + bufferHeaderSize
	return h.bytesAt(p, uintptr(h.bufferCap(off)))
}

func bufferPayloadSize(capacity uint64) uintptr {
	return bufferHeaderSize + uintptr(capacity)
}

func (h *Heap) setBufferHeader(off uintptr, capacity, fill uint64) {
	p := h.payload(off)
	h.setU64(p, capacity)
	h.setU64(p+8, fill)
}

// --- Bits8/16/32/64: a single zero-extended 8-byte slot ---

func (h *Heap) bitsRaw(off uintptr) uint64 {
	return h.u64(h.payload(off))
}

func (h *Heap) setBitsRaw(off uintptr, v uint64) {
	h.setU64(h.payload(off), v)
}

// --- Bits8x16/16x8/32x4/64x2: 16 bytes of lane data, aligned to a
// 16-byte boundary measured from the heap base. The tag area leaves up
// to 15 bytes of slack before the lane data so that boundary can always
// be found regardless of where the chunk landed. ---

const lane128Slack = uintptr(15)
const lane128DataSize = uintptr(16)
const lane128PayloadSize = lane128Slack + lane128DataSize

func (h *Heap) lane128Offset(off uintptr) uintptr {
	return roundUp(h.payload(off), 16)
}

func (h *Heap) lane128(off uintptr) []byte {
	p := h.lane128Offset(off)
	return h.bytesAt(p, 16)
}

func (h *Heap) setLane128(off uintptr, data [16]byte) {
	copy(h.lane128(off), data[:])
}

// --- Forward: the collector overwrites a from-space chunk's tag with
// TagForward and stashes the to-space Value in the first payload word
// once it has been relocated, so any other root still pointing at the
// old offset can be redirected without copying the object twice. ---

func (h *Heap) forwardTarget(off uintptr) Value {
	return h.value(h.payload(off))
}

func (h *Heap) setForward(off uintptr, target Value) {
	h.setTag(off, TagForward)
	h.setValue(h.payload(off), target)
}
