package rtcore

// Builders allocate a closure of the requested shape and return a
// boxed Value pointing at it. Every builder takes outerLocked so it can
// be called both from ordinary mutator code (outerLocked=false) and from
// inside a Reserve/DoneReserve bracket or the deep-copy path
// (outerLocked=true), collapsing the C original's MKxxx/MKxxxc pairs
// into one explicit parameter, per spec.md's own preferred alternative
// to a recursive allocation lock.

// MkCon allocates a constructor closure of the given tag and arity,
// copying args into its fields. Nullary constructors with ctag < 256 are
// never actually allocated: the interned singleton is returned instead.
func (e *Executor) MkCon(ctag uint16, args []Value, outerLocked bool) Value {
	if len(args) == 0 && ctag < maxInternedTag {
		return Nullary(ctag)
	}
	off := e.Allocate(conPayloadSize(uint16(len(args))), outerLocked)
	e.heap.setTag(off, TagCon)
	e.heap.setConHeader(off, ctag, uint16(len(args)))
	for i, a := range args {
		e.heap.setConArg(off, i, a)
	}
	return mkHeapRef(off)
}

// ConTag and ConArity inspect a (non-interned) constructor closure.
func (e *Executor) ConTag(v Value) uint16 {
	if isInterned(v) {
		return internedTagOf(v)
	}
	ctag, _ := e.heap.conHeader(heapOffset(v))
	return ctag
}

func (e *Executor) ConArity(v Value) uint16 {
	if isInterned(v) {
		return 0
	}
	_, arity := e.heap.conHeader(heapOffset(v))
	return arity
}

func (e *Executor) ConArg(v Value, i int) Value {
	return e.heap.conArg(heapOffset(v), i)
}

// MkFloat boxes a float64.
func (e *Executor) MkFloat(f float64, outerLocked bool) Value {
	off := e.Allocate(8, outerLocked)
	e.heap.setTag(off, TagFloat)
	e.heap.setFloatAt(off, f)
	return mkHeapRef(off)
}

func (e *Executor) GetFloat(v Value) float64 {
	if e.heap.tag(heapOffset(v)) != TagFloat {
		fatalUnexpectedTag("GetFloat", e.heap.tag(heapOffset(v)))
	}
	return e.heap.floatAt(heapOffset(v))
}

// MkStr boxes a Go string as a NUL-terminated inline closure. A nil/empty
// Go string still produces a valid zero-length closure, matching
// idris_rts.c's MKSTR handling of a NULL C string as "" rather than
// propagating the NULL.
func (e *Executor) MkStr(s string, outerLocked bool) Value {
	b := []byte(s)
	off := e.Allocate(stringPayloadSize(b), outerLocked)
	e.heap.setTag(off, TagString)
	e.heap.setString(off, b)
	return mkHeapRef(off)
}

// GetStr resolves v (a String or a chain of StrOffset closures) down to
// its underlying bytes, following the tail sharing described in spec.md
// §4.3.
func (e *Executor) GetStr(v Value) []byte {
	off := heapOffset(v)
	switch e.heap.tag(off) {
	case TagString:
		return e.heap.stringBytes(off)
	case TagStrOffset:
		base := e.GetStr(e.heap.strOffsetRoot(off))
		o := e.heap.strOffsetOffset(off)
		if uint64(len(base)) < o {
			return nil
		}
		return base[o:]
	default:
		fatalUnexpectedTag("GetStr", e.heap.tag(off))
		return nil
	}
}

// MkStrOffset builds a StrOffset closure ("string tail") referencing
// root at byte offset strOff, avoiding a copy of the tail bytes. If the
// heap has no room left even for the 16-byte offset closure, callers
// should fall back to materialising a fresh full string instead (spec.md
// §4.3's GC-safe fallback); this builder itself only constructs the
// offset closure and leaves that choice to the caller/StrTail.
func (e *Executor) MkStrOffset(root Value, strOff uint64, outerLocked bool) Value {
	off := e.Allocate(strOffsetPayloadSize, outerLocked)
	e.heap.setTag(off, TagStrOffset)
	e.heap.setStrOffset(off, root, strOff)
	return mkHeapRef(off)
}

// StrTail returns the tail of s starting at byte offset n, preferring a
// shared StrOffset closure but falling back to a freshly materialised
// string if there isn't room to reserve one without forcing a GC here
// (spec.md §4.3, "GC-safe fallback").
func (e *Executor) StrTail(s Value, n uint64) Value {
	if !e.heap.Space(strOffsetPayloadSize) {
		return e.MkStr(string(e.GetStr(s)[n:]), false)
	}
	root := s
	off := heapOffset(s)
	base := n
	if e.heap.tag(off) == TagStrOffset {
		base += e.heap.strOffsetOffset(off)
		root = e.heap.strOffsetRoot(off)
	}
	return e.MkStrOffset(root, base, false)
}

// MkPtr boxes an opaque external handle.
func (e *Executor) MkPtr(p uintptr, outerLocked bool) Value {
	off := e.Allocate(8, outerLocked)
	e.heap.setTag(off, TagPtr)
	e.heap.setPtrAt(off, p)
	return mkHeapRef(off)
}

func (e *Executor) GetPtr(v Value) uintptr {
	return e.heap.ptrAt(heapOffset(v))
}

// MkManagedPtr boxes a byte blob the collector and deep-copy must carry
// faithfully but never interpret (opaque foreign-managed memory).
func (e *Executor) MkManagedPtr(data []byte, outerLocked bool) Value {
	off := e.Allocate(managedPayloadSize(uint64(len(data))), outerLocked)
	e.heap.setTag(off, TagManagedPtr)
	e.heap.setManaged(off, data)
	return mkHeapRef(off)
}

func (e *Executor) GetManagedPtr(v Value) []byte {
	return e.heap.managedBytes(heapOffset(v))
}

// MkBigInt boxes an arbitrary-precision integer's byte representation.
// The arithmetic bridge itself is out of scope for this core; this just
// needs to move the bytes around correctly under GC and mailbox
// transfer.
func (e *Executor) MkBigInt(data []byte, outerLocked bool) Value {
	off := e.Allocate(bigIntPayloadSize(uint64(len(data))), outerLocked)
	e.heap.setTag(off, TagBigInt)
	e.heap.setBigInt(off, data)
	return mkHeapRef(off)
}

func (e *Executor) GetBigInt(v Value) []byte {
	return e.heap.bigIntBytes(heapOffset(v))
}

// bitsTagFor maps a bit width to its closure tag.
func bitsTagFor(width int) Tag {
	switch width {
	case 8:
		return TagBits8
	case 16:
		return TagBits16
	case 32:
		return TagBits32
	case 64:
		return TagBits64
	default:
		fatal("Fatal Error: unsupported bitword width %d", width)
		return TagBits64
	}
}

func (e *Executor) mkBits(width int, v uint64, outerLocked bool) Value {
	off := e.Allocate(8, outerLocked)
	e.heap.setTag(off, bitsTagFor(width))
	e.heap.setBitsRaw(off, v)
	return mkHeapRef(off)
}

func (e *Executor) MkB8(v uint8, outerLocked bool) Value   { return e.mkBits(8, uint64(v), outerLocked) }
func (e *Executor) MkB16(v uint16, outerLocked bool) Value { return e.mkBits(16, uint64(v), outerLocked) }
func (e *Executor) MkB32(v uint32, outerLocked bool) Value { return e.mkBits(32, uint64(v), outerLocked) }
func (e *Executor) MkB64(v uint64, outerLocked bool) Value { return e.mkBits(64, v, outerLocked) }

// MkB8Const/... are the raw-primitive variants used by the cast/bit
// operations that already have a widened uint64 in hand and just need
// the correct tag attached; distinct names document intent even though
// they delegate to the same builder.
func (e *Executor) MkB8Const(v uint64, outerLocked bool) Value  { return e.mkBits(8, v&0xFF, outerLocked) }
func (e *Executor) MkB16Const(v uint64, outerLocked bool) Value { return e.mkBits(16, v&0xFFFF, outerLocked) }
func (e *Executor) MkB32Const(v uint64, outerLocked bool) Value {
	return e.mkBits(32, v&0xFFFFFFFF, outerLocked)
}
func (e *Executor) MkB64Const(v uint64, outerLocked bool) Value { return e.mkBits(64, v, outerLocked) }

func (e *Executor) GetB8(v Value) uint8   { return uint8(e.heap.bitsRaw(heapOffset(v))) }
func (e *Executor) GetB16(v Value) uint16 { return uint16(e.heap.bitsRaw(heapOffset(v))) }
func (e *Executor) GetB32(v Value) uint32 { return uint32(e.heap.bitsRaw(heapOffset(v))) }
func (e *Executor) GetB64(v Value) uint64 { return e.heap.bitsRaw(heapOffset(v)) }

func lane128TagFor(shape string) Tag {
	switch shape {
	case "8x16":
		return TagBits8x16
	case "16x8":
		return TagBits16x8
	case "32x4":
		return TagBits32x4
	case "64x2":
		return TagBits64x2
	default:
		fatal("Fatal Error: unsupported bitvector lane shape %q", shape)
		return TagBits64x2
	}
}

func (e *Executor) mkLane128(shape string, data [16]byte, outerLocked bool) Value {
	off := e.Allocate(lane128PayloadSize, outerLocked)
	e.heap.setTag(off, lane128TagFor(shape))
	e.heap.setLane128(off, data)
	return mkHeapRef(off)
}

func (e *Executor) MkB8x16(data [16]byte, outerLocked bool) Value {
	return e.mkLane128("8x16", data, outerLocked)
}
func (e *Executor) MkB16x8(data [16]byte, outerLocked bool) Value {
	return e.mkLane128("16x8", data, outerLocked)
}
func (e *Executor) MkB32x4(data [16]byte, outerLocked bool) Value {
	return e.mkLane128("32x4", data, outerLocked)
}
func (e *Executor) MkB64x2(data [16]byte, outerLocked bool) Value {
	return e.mkLane128("64x2", data, outerLocked)
}

// MkB8x16Const/... accept already-packed lane bytes, mirroring the
// const-primitive entry points the bitword builders expose.
func (e *Executor) MkB8x16Const(data [16]byte, outerLocked bool) Value {
	return e.MkB8x16(data, outerLocked)
}
func (e *Executor) MkB16x8Const(data [16]byte, outerLocked bool) Value {
	return e.MkB16x8(data, outerLocked)
}
func (e *Executor) MkB32x4Const(data [16]byte, outerLocked bool) Value {
	return e.MkB32x4(data, outerLocked)
}
func (e *Executor) MkB64x2Const(data [16]byte, outerLocked bool) Value {
	return e.MkB64x2(data, outerLocked)
}

func (e *Executor) GetLane128(v Value) [16]byte {
	var out [16]byte
	copy(out[:], e.heap.lane128(heapOffset(v)))
	return out
}
