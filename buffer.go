package rtcore

// Buffer is a growable byte store: a closure with a power-of-two
// capacity and a fill cursor. idris_rts.c's internal_prepare_append
// rounds the *total* allocation (closure header + Buffer header +
// requested bytes) up to a power of two and derives the usable capacity
// by subtracting the header sizes back out; here the capacity itself is
// the next power of two at or above the requested bytes plus the fixed
// overhead, computed as one clear expression rather than the original's
// size-then-subtract-then-reuse-the-remainder dance
// (spec.md's open question on this routine asks for exactly that
// clarity), matching cloudfly-readgo/runtime/msize.go's stated goal of
// bounding round-up waste to a known, documented fraction.

const bufferFixedOverhead = tagAreaSize + bufferHeaderSize

// BufferAllocate creates a buffer with capacity rounded up to the next
// power of two that can hold at least hint bytes alongside the closure's
// fixed overhead.
func (e *Executor) BufferAllocate(hint uint64, outerLocked bool) Value {
	capacity := uint64(nextPow2(uintptr(hint) + bufferFixedOverhead))
	off := e.Allocate(bufferPayloadSize(capacity), outerLocked)
	e.heap.setTag(off, TagBuffer)
	e.heap.setBufferHeader(off, capacity, 0)
	return mkHeapRef(off)
}

func (e *Executor) BufferCap(buf Value) uint64  { return e.heap.bufferCap(heapOffset(buf)) }
func (e *Executor) BufferFill(buf Value) uint64 { return e.heap.bufferFill(heapOffset(buf)) }

// BufferData returns the filled prefix of buf's store.
func (e *Executor) BufferData(buf Value) []byte {
	off := heapOffset(buf)
	return e.heap.bufferStore(off)[:e.heap.bufferFill(off)]
}

// bufferEnsure returns a Value for a buffer with at least extra bytes of
// headroom beyond its current fill: buf itself if it already has room
// (the in-place fast path), or a freshly allocated, larger buffer with
// buf's filled prefix already copied in.
func (e *Executor) bufferEnsure(buf Value, extra int) Value {
	off := heapOffset(buf)
	capacity := e.heap.bufferCap(off)
	fill := e.heap.bufferFill(off)
	if fill+uint64(extra) <= capacity {
		return buf
	}
	grown := e.BufferAllocate(fill+uint64(extra), false)
	newOff := heapOffset(grown)
	copy(e.heap.bufferStore(newOff), e.heap.bufferStore(off)[:fill])
	e.heap.setBufferFill(newOff, fill)
	return grown
}

// BufferAppendBytes appends raw bytes to buf, returning the (possibly
// reallocated) buffer Value.
func (e *Executor) BufferAppendBytes(buf Value, data []byte) Value {
	buf = e.bufferEnsure(buf, len(data))
	off := heapOffset(buf)
	fill := e.heap.bufferFill(off)
	copy(e.heap.bufferStore(off)[fill:], data)
	e.heap.setBufferFill(off, fill+uint64(len(data)))
	return buf
}

// BufferAppend is the generic append idris_appendBuffer implements: it
// writes count repetitions of the elemLen-byte chunk found at
// src.store[elemOff:elemOff+elemLen] onto buf starting at bufLen (the
// caller's view of buf's current fill), extending in place when bufLen
// still matches buf's actual fill and the result fits within capacity,
// or allocating a fresh buffer of the combined size otherwise — mirrors
// internal_prepare_append's "at the fill and under cap" fast path
// exactly. Note elemOff is not advanced between repetitions: each of
// the count copies reads the same source chunk, per
// internal_memset's fixed src pointer.
func (e *Executor) BufferAppend(buf Value, bufLen uint64, count uint64, elemLen int, src Value, elemOff uint64, outerLocked bool) Value {
	off := heapOffset(buf)
	fill := e.heap.bufferFill(off)
	capacity := e.heap.bufferCap(off)
	appLen := count * uint64(elemLen)
	totalLen := bufLen + appLen

	var result Value
	if bufLen != fill || totalLen > capacity {
		result = e.BufferAllocate(totalLen, outerLocked)
		newOff := heapOffset(result)
		copy(e.heap.bufferStore(newOff), e.heap.bufferStore(off)[:bufLen])
		e.heap.setBufferFill(newOff, totalLen)
	} else {
		result = buf
		e.heap.setBufferFill(off, fill+appLen)
	}

	resOff := heapOffset(result)
	srcOff := heapOffset(src)
	chunk := e.heap.bufferStore(srcOff)[elemOff : elemOff+uint64(elemLen)]
	dst := e.heap.bufferStore(resOff)[bufLen:]
	for i := uint64(0); i < count; i++ {
		copy(dst[i*uint64(elemLen):], chunk)
	}
	return result
}

func appendLE(dst []byte, v uint64, width int) []byte {
	for i := 0; i < width; i++ {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

func appendBE(dst []byte, v uint64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

// BufferAppendB8/16/32/64: native uses the host's in-memory layout
// directly (fastest path, matches a raw *(uintN*)ptr = v store);
// LE/BE compose the bytes explicitly regardless of host endianness,
// mirroring idris_rts.c's idris_appendB16LE/idris_appendB16BE pairs.

func (e *Executor) BufferAppendB8(buf Value, v uint8) Value {
	return e.BufferAppendBytes(buf, []byte{v})
}

func (e *Executor) BufferAppendB16Native(buf Value, v uint16) Value {
	buf = e.bufferEnsure(buf, 2)
	off := heapOffset(buf)
	fill := e.heap.bufferFill(off)
	e.heap.setU16(e.heap.payload(off)+bufferHeaderSize+uintptr(fill), v)
	e.heap.setBufferFill(off, fill+2)
	return buf
}
func (e *Executor) BufferAppendB16LE(buf Value, v uint16) Value {
	return e.BufferAppendBytes(buf, appendLE(nil, uint64(v), 2))
}
func (e *Executor) BufferAppendB16BE(buf Value, v uint16) Value {
	return e.BufferAppendBytes(buf, appendBE(nil, uint64(v), 2))
}

func (e *Executor) BufferAppendB32Native(buf Value, v uint32) Value {
	buf = e.bufferEnsure(buf, 4)
	off := heapOffset(buf)
	fill := e.heap.bufferFill(off)
	e.heap.setU32(e.heap.payload(off)+bufferHeaderSize+uintptr(fill), v)
	e.heap.setBufferFill(off, fill+4)
	return buf
}
func (e *Executor) BufferAppendB32LE(buf Value, v uint32) Value {
	return e.BufferAppendBytes(buf, appendLE(nil, uint64(v), 4))
}
func (e *Executor) BufferAppendB32BE(buf Value, v uint32) Value {
	return e.BufferAppendBytes(buf, appendBE(nil, uint64(v), 4))
}

func (e *Executor) BufferAppendB64Native(buf Value, v uint64) Value {
	buf = e.bufferEnsure(buf, 8)
	off := heapOffset(buf)
	fill := e.heap.bufferFill(off)
	e.heap.setU64(e.heap.payload(off)+bufferHeaderSize+uintptr(fill), v)
	e.heap.setBufferFill(off, fill+8)
	return buf
}
func (e *Executor) BufferAppendB64LE(buf Value, v uint64) Value {
	return e.BufferAppendBytes(buf, appendLE(nil, v, 8))
}
func (e *Executor) BufferAppendB64BE(buf Value, v uint64) Value {
	return e.BufferAppendBytes(buf, appendBE(nil, v, 8))
}

func readLE(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func readBE(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// BufferPeekB8/16/32/64: native/LE/BE readers at a byte offset into
// buf's filled region.

func (e *Executor) BufferPeekB8(buf Value, offset int) uint8 {
	return e.BufferData(buf)[offset]
}

func (e *Executor) BufferPeekB16Native(buf Value, offset int) uint16 {
	off := heapOffset(buf)
	return e.heap.u16(e.heap.payload(off) + bufferHeaderSize + uintptr(offset))
}
func (e *Executor) BufferPeekB16LE(buf Value, offset int) uint16 {
	return uint16(readLE(e.BufferData(buf)[offset : offset+2]))
}
func (e *Executor) BufferPeekB16BE(buf Value, offset int) uint16 {
	return uint16(readBE(e.BufferData(buf)[offset : offset+2]))
}

func (e *Executor) BufferPeekB32Native(buf Value, offset int) uint32 {
	off := heapOffset(buf)
	return e.heap.u32(e.heap.payload(off) + bufferHeaderSize + uintptr(offset))
}
func (e *Executor) BufferPeekB32LE(buf Value, offset int) uint32 {
	return uint32(readLE(e.BufferData(buf)[offset : offset+4]))
}
func (e *Executor) BufferPeekB32BE(buf Value, offset int) uint32 {
	return uint32(readBE(e.BufferData(buf)[offset : offset+4]))
}

func (e *Executor) BufferPeekB64Native(buf Value, offset int) uint64 {
	off := heapOffset(buf)
	return e.heap.u64(e.heap.payload(off) + bufferHeaderSize + uintptr(offset))
}
func (e *Executor) BufferPeekB64LE(buf Value, offset int) uint64 {
	return readLE(e.BufferData(buf)[offset : offset+8])
}
func (e *Executor) BufferPeekB64BE(buf Value, offset int) uint64 {
	return readBE(e.BufferData(buf)[offset : offset+8])
}
