package rtcore

import (
	"testing"
	"time"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	e, err := NewExecutor(64, 4096, 8)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	return e
}

func TestNewExecutorValidatesArguments(t *testing.T) {
	if _, err := NewExecutor(0, 4096, 8); err == nil {
		t.Error("expected an error for a zero stack size")
	}
	if _, err := NewExecutor(64, 0, 8); err == nil {
		t.Error("expected an error for a zero heap size")
	}
	if _, err := NewExecutor(64, 4096, -1); err == nil {
		t.Error("expected an error for a negative mailbox capacity")
	}
}

func TestPushPop(t *testing.T) {
	e := newTestExecutor(t)
	e.Push(MkInt(1))
	e.Push(MkInt(2))
	if got := GetInt(e.Pop()); got != 2 {
		t.Errorf("Pop = %d, want 2", got)
	}
	if got := GetInt(e.Pop()); got != 1 {
		t.Errorf("Pop = %d, want 1", got)
	}
}

func TestProjectAndSlide(t *testing.T) {
	e := newTestExecutor(t)
	con := e.MkCon(7, []Value{MkInt(10), MkInt(20), MkInt(30)}, false)

	e.Push(MkInt(0))
	e.Push(MkInt(0))
	e.Push(MkInt(0))
	e.Project(con, e.base, 3)
	if GetInt(e.Loc(0)) != 10 || GetInt(e.Loc(1)) != 20 || GetInt(e.Loc(2)) != 30 {
		t.Fatalf("Project did not unpack constructor fields correctly")
	}

	e.Push(MkInt(99))
	e.Slide(1)
	if e.top != e.base+1 {
		t.Fatalf("Slide did not move the frame top, got top=%d base=%d", e.top, e.base)
	}
	if GetInt(e.Loc(0)) != 99 {
		t.Errorf("Slide(1) left wrong value at base: %d", GetInt(e.Loc(0)))
	}
}

func TestAllocateTriggersCollectionOnExhaustion(t *testing.T) {
	e, err := NewExecutor(16, 256, 4)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	var last Value
	for i := 0; i < 64; i++ {
		last = e.MkStr("0123456789abcdef", false)
	}
	if e.Stats().Collections() == 0 {
		t.Fatal("expected at least one collection from sustained allocation into a small heap")
	}
	if string(e.GetStr(last)) != "0123456789abcdef" {
		t.Fatal("value survived collection with corrupted contents")
	}
}

func TestReserveDoneReserveRoundTrip(t *testing.T) {
	e := newTestExecutor(t)
	e.SetProcesses(2)
	e.Reserve(64)
	off := e.Allocate(16, true)
	e.heap.setTag(off, TagFloat)
	e.heap.setFloatAt(off, 3.5)
	e.DoneReserve()
	if e.GetFloat(mkHeapRef(off)) != 3.5 {
		t.Fatal("value built under Reserve/DoneReserve did not round-trip")
	}
}

func TestTerminateStampsExitAndMutatorTime(t *testing.T) {
	e := newTestExecutor(t)
	time.Sleep(time.Millisecond)
	e.Terminate()
	if e.Stats().ExitTime <= 0 {
		t.Error("Terminate should record a nonzero ExitTime")
	}
	if e.Stats().MutatorTime <= 0 {
		t.Error("Terminate should derive a nonzero MutatorTime from elapsed wall clock")
	}
}
