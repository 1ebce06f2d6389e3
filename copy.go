package rtcore

// copyTo deep-copies v out of src's heap and into dest's heap, building
// fresh closures in dest rather than rewriting src in place (unlike
// gcCopy, there is no forwarding here: shared substructure in the
// source may be duplicated in the destination, which spec.md §4.6
// leaves implementation-defined). Interned nullary constructors and
// immediates need no copy at all since they don't reference either
// heap. dest's allocation lock must already be held by the caller
// (Send) for the whole of this call: every builder invocation below
// passes outerLocked=true.
func copyTo(src, dest *Executor, v Value) Value {
	if IsImmediate(v) || IsNil(v) || isInterned(v) {
		return v
	}
	off := heapOffset(v)
	switch src.heap.tag(off) {
	case TagCon:
		ctag, arity := src.heap.conHeader(off)
		args := make([]Value, arity)
		for i := range args {
			args[i] = copyTo(src, dest, src.heap.conArg(off, i))
		}
		return dest.MkCon(ctag, args, true)

	case TagFloat:
		return dest.MkFloat(src.heap.floatAt(off), true)

	case TagString:
		return dest.MkStr(string(src.heap.stringBytes(off)), true)

	case TagStrOffset:
		root := copyTo(src, dest, src.heap.strOffsetRoot(off))
		return dest.MkStrOffset(root, src.heap.strOffsetOffset(off), true)

	case TagBigInt:
		return dest.MkBigInt(append([]byte(nil), src.heap.bigIntBytes(off)...), true)

	case TagPtr:
		return dest.MkPtr(src.heap.ptrAt(off), true)

	case TagManagedPtr:
		return dest.MkManagedPtr(append([]byte(nil), src.heap.managedBytes(off)...), true)

	case TagBuffer:
		capacity, fill := src.heap.bufferCap(off), src.heap.bufferFill(off)
		newOff := dest.Allocate(bufferPayloadSize(capacity), true)
		dest.heap.setTag(newOff, TagBuffer)
		dest.heap.setBufferHeader(newOff, capacity, fill)
		copy(dest.heap.bufferStore(newOff), src.heap.bufferStore(off))
		return mkHeapRef(newOff)

	case TagBits8:
		return dest.MkB8Const(src.heap.bitsRaw(off), true)
	case TagBits16:
		return dest.MkB16Const(src.heap.bitsRaw(off), true)
	case TagBits32:
		return dest.MkB32Const(src.heap.bitsRaw(off), true)
	case TagBits64:
		return dest.MkB64Const(src.heap.bitsRaw(off), true)

	case TagBits8x16:
		return dest.MkB8x16Const(src.GetLane128(v), true)
	case TagBits16x8:
		return dest.MkB16x8Const(src.GetLane128(v), true)
	case TagBits32x4:
		return dest.MkB32x4Const(src.GetLane128(v), true)
	case TagBits64x2:
		return dest.MkB64x2Const(src.GetLane128(v), true)

	case TagForward:
		fatal("Fatal Error: copyTo encountered a forwarding pointer; source heap mid-collection")
		return 0

	default:
		fatalUnexpectedTag("copyTo", src.heap.tag(off))
		return 0
	}
}
