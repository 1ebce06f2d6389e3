package rtcore

import "testing"

func TestBufferAllocateRoundsCapacityToPowerOfTwo(t *testing.T) {
	e := newTestExecutor(t)
	buf := e.BufferAllocate(10, false)
	cap := e.BufferCap(buf)
	if cap&(cap-1) != 0 {
		t.Errorf("buffer capacity %d is not a power of two", cap)
	}
	if cap < 10 {
		t.Errorf("buffer capacity %d smaller than the requested hint", cap)
	}
}

func TestBufferAppendInPlaceFastPath(t *testing.T) {
	e := newTestExecutor(t)
	buf := e.BufferAllocate(64, false)
	grown := e.BufferAppendBytes(buf, []byte("hi"))
	if grown != buf {
		t.Fatal("appending within capacity should reuse the same buffer closure")
	}
	if string(e.BufferData(buf)) != "hi" {
		t.Fatalf("BufferData = %q", e.BufferData(buf))
	}
}

func TestBufferAppendGrowsWhenFull(t *testing.T) {
	e := newTestExecutor(t)
	buf := e.BufferAllocate(1, false)
	small := e.BufferCap(buf)
	grown := e.BufferAppendBytes(buf, []byte("0123456789012345678901234567890123456789"))
	if e.BufferCap(grown) <= small {
		t.Fatal("buffer should have grown to accommodate data beyond its capacity")
	}
	if string(e.BufferData(grown)) != "0123456789012345678901234567890123456789" {
		t.Fatalf("BufferData after growth = %q", e.BufferData(grown))
	}
}

func TestBufferAppendRepeatsSourceChunkInPlace(t *testing.T) {
	e := newTestExecutor(t)
	src := e.BufferAllocate(8, false)
	src = e.BufferAppendBytes(src, []byte("ab"))

	buf := e.BufferAllocate(64, false)
	grown := e.BufferAppend(buf, e.BufferFill(buf), 3, 2, src, 0, false)
	if grown != buf {
		t.Fatal("append within capacity at the buffer's fill should reuse the same closure")
	}
	if got := string(e.BufferData(grown)); got != "ababab" {
		t.Fatalf("BufferAppend data = %q, want %q", got, "ababab")
	}
}

func TestBufferAppendWithOffsetAndReallocation(t *testing.T) {
	e := newTestExecutor(t)
	src := e.BufferAllocate(8, false)
	src = e.BufferAppendBytes(src, []byte("xxcd"))

	buf := e.BufferAllocate(1, false)
	small := e.BufferCap(buf)
	grown := e.BufferAppend(buf, e.BufferFill(buf), 20, 2, src, 2, false)
	if e.BufferCap(grown) <= small {
		t.Fatal("buffer should have grown to accommodate the appended data")
	}
	if got := string(e.BufferData(grown)); got != "cdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd" {
		t.Fatalf("BufferAppend data = %q, want %q", got, "cdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd")
	}
}

func TestBufferLittleAndBigEndianRoundTrip(t *testing.T) {
	e := newTestExecutor(t)
	buf := e.BufferAllocate(64, false)
	buf = e.BufferAppendB32LE(buf, 0x01020304)
	buf = e.BufferAppendB32BE(buf, 0x01020304)

	le := e.BufferPeekB32LE(buf, 0)
	be := e.BufferPeekB32BE(buf, 4)
	if le != 0x01020304 {
		t.Errorf("LE round trip = %#x", le)
	}
	if be != 0x01020304 {
		t.Errorf("BE round trip = %#x", be)
	}

	data := e.BufferData(buf)
	if data[0] != 0x04 || data[3] != 0x01 {
		t.Errorf("LE encoding has wrong byte order: %v", data[:4])
	}
	if data[4] != 0x01 || data[7] != 0x04 {
		t.Errorf("BE encoding has wrong byte order: %v", data[4:8])
	}
}

func TestBufferNativeRoundTrip(t *testing.T) {
	e := newTestExecutor(t)
	buf := e.BufferAllocate(64, false)
	buf = e.BufferAppendB64Native(buf, 0xdeadbeefcafef00d)
	if got := e.BufferPeekB64Native(buf, 0); got != 0xdeadbeefcafef00d {
		t.Errorf("native round trip = %#x", got)
	}
}
