package rtcore

// collect runs a single Cheney-style semispace collection: every live
// value reachable from the value stack, the ret/reg1 registers, and any
// pending mailbox entries is copied into a freshly allocated to-space,
// forwarding pointers are left behind in from-space so shared
// substructure is copied exactly once, and the executor's heap is
// swapped to the new space. needed is the size of the allocation the
// caller is about to retry, so the new space is always grown large
// enough to satisfy it immediately.
func (e *Executor) collect(needed uintptr) {
	e.stats.enterGC()
	defer e.stats.leaveGC()

	from := e.heap
	to := newHeap(from.growthTarget(needed))

	cp := func(v Value) Value { return gcCopy(&from, &to, v) }

	for i := 0; i < e.top; i++ {
		e.stack[i] = cp(e.stack[i])
	}
	e.ret = cp(e.ret)
	e.reg1 = cp(e.reg1)

	e.mailbox.mu.Lock()
	for i := 0; i < e.mailbox.writeIdx; i++ {
		e.mailbox.entries[i].Body = cp(e.mailbox.entries[i].Body)
	}
	e.mailbox.mu.Unlock()

	e.heap = to
}

// growthTarget picks the next semispace size. The precise resizing
// policy is left to the implementer by spec; this one doubles when at
// least 70% of the space was allocated going into collection (counting
// garbage as well as live data) and otherwise keeps
// the same size, then grows further as needed so the pending allocation
// (plus headroom) is guaranteed to fit — the one hard postcondition the
// caller's immediate retry depends on.
func (h *Heap) growthTarget(needed uintptr) uintptr {
	size := h.end
	if size == 0 {
		size = maxAlign
	}
	if h.next*10 >= size*7 {
		size *= 2
	}
	const slack = 4096
	for size < h.next+headerSize+roundUp(needed, maxAlign)+slack {
		size *= 2
	}
	return size
}

// gcCopy relocates v (a root or a field reached from one) out of from
// into to, returning the Value to store in place of v. Immediates, the
// nil sentinel, and interned nullary constructors are untouched:
// interned closures live outside every executor's heap and are never
// collected or relocated.
func gcCopy(from, to *Heap, v Value) Value {
	if IsImmediate(v) || IsNil(v) || isInterned(v) {
		return v
	}
	off := heapOffset(v)
	switch from.tag(off) {
	case TagForward:
		return from.forwardTarget(off)

	case TagCon:
		ctag, arity := from.conHeader(off)
		newOff := to.allocRaw(conPayloadSize(arity))
		to.setTag(newOff, TagCon)
		to.setConHeader(newOff, ctag, arity)
		from.setForward(off, mkHeapRef(newOff))
		for i := 0; i < int(arity); i++ {
			to.setConArg(newOff, i, gcCopy(from, to, from.conArg(off, i)))
		}
		return mkHeapRef(newOff)

	case TagFloat:
		newOff := to.allocRaw(8)
		to.setTag(newOff, TagFloat)
		to.setFloatAt(newOff, from.floatAt(off))
		from.setForward(off, mkHeapRef(newOff))
		return mkHeapRef(newOff)

	case TagString:
		s := from.stringBytes(off)
		newOff := to.allocRaw(stringPayloadSize(s))
		to.setTag(newOff, TagString)
		to.setString(newOff, s)
		from.setForward(off, mkHeapRef(newOff))
		return mkHeapRef(newOff)

	case TagStrOffset:
		root := from.strOffsetRoot(off)
		strOff := from.strOffsetOffset(off)
		newOff := to.allocRaw(strOffsetPayloadSize)
		to.setTag(newOff, TagStrOffset)
		from.setForward(off, mkHeapRef(newOff))
		to.setStrOffset(newOff, gcCopy(from, to, root), strOff)
		return mkHeapRef(newOff)

	case TagBigInt:
		data := from.bigIntBytes(off)
		newOff := to.allocRaw(bigIntPayloadSize(uint64(len(data))))
		to.setTag(newOff, TagBigInt)
		to.setBigInt(newOff, data)
		from.setForward(off, mkHeapRef(newOff))
		return mkHeapRef(newOff)

	case TagPtr:
		newOff := to.allocRaw(8)
		to.setTag(newOff, TagPtr)
		to.setPtrAt(newOff, from.ptrAt(off))
		from.setForward(off, mkHeapRef(newOff))
		return mkHeapRef(newOff)

	case TagManagedPtr:
		data := from.managedBytes(off)
		newOff := to.allocRaw(managedPayloadSize(uint64(len(data))))
		to.setTag(newOff, TagManagedPtr)
		to.setManaged(newOff, data)
		from.setForward(off, mkHeapRef(newOff))
		return mkHeapRef(newOff)

	case TagBuffer:
		capacity, fill := from.bufferCap(off), from.bufferFill(off)
		newOff := to.allocRaw(bufferPayloadSize(capacity))
		to.setTag(newOff, TagBuffer)
		to.setBufferHeader(newOff, capacity, fill)
		copy(to.bufferStore(newOff), from.bufferStore(off))
		from.setForward(off, mkHeapRef(newOff))
		return mkHeapRef(newOff)

	case TagBits8, TagBits16, TagBits32, TagBits64:
		tag := from.tag(off)
		newOff := to.allocRaw(8)
		to.setTag(newOff, tag)
		to.setBitsRaw(newOff, from.bitsRaw(off))
		from.setForward(off, mkHeapRef(newOff))
		return mkHeapRef(newOff)

	case TagBits8x16, TagBits16x8, TagBits32x4, TagBits64x2:
		tag := from.tag(off)
		newOff := to.allocRaw(lane128PayloadSize)
		to.setTag(newOff, tag)
		var lane [16]byte
		copy(lane[:], from.lane128(off))
		to.setLane128(newOff, lane)
		from.setForward(off, mkHeapRef(newOff))
		return mkHeapRef(newOff)

	default:
		fatalUnexpectedTag("collect", from.tag(off))
		panic("unreachable")
	}
}
