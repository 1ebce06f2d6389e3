package rtcore

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Executor is one logical mutator: a value stack, a current heap
// semispace, a return register, a scratch register, and a mailbox. In
// single-executor mode
// allocation never blocks; once Processes is incremented above zero,
// Allocate and Reserve start taking allocLock the way idris_rts.c's
// vm->alloc_lock is only contended once idris_requireAlloc's caller is
// one of several OS threads sharing the runtime.
type Executor struct {
	stack []Value
	base  int
	top   int

	heap Heap
	ret  Value
	reg1 Value

	mailbox *Mailbox

	processes int32
	allocMu   sync.Mutex

	stats Stats
}

// NewExecutor constructs an executor with the given value-stack capacity
// and initial heap size. Unlike the C original, which has no graceful
// way to report a bad size argument, construction-time validation is a
// boundary Go can recover at, so invalid sizes are reported as an error
// rather than left to corrupt the allocator on first use.
func NewExecutor(stackSize, heapSize int, mailboxCapacity int) (*Executor, error) {
	if stackSize <= 0 {
		return nil, fmt.Errorf("rtcore: stack size must be positive, got %d", stackSize)
	}
	if heapSize <= 0 {
		return nil, fmt.Errorf("rtcore: heap size must be positive, got %d", heapSize)
	}
	if mailboxCapacity < 0 {
		return nil, fmt.Errorf("rtcore: mailbox capacity must not be negative, got %d", mailboxCapacity)
	}
	t0 := time.Now()
	e := &Executor{
		stack:   make([]Value, stackSize),
		heap:    newHeap(uintptr(heapSize)),
		mailbox: newMailbox(mailboxCapacity),
	}
	e.stats.InitTime = time.Since(t0)
	e.stats.startTime = time.Now()
	return e, nil
}

// Terminate stamps ExitTime and derives MutatorTime from the wall clock
// elapsed since construction minus time spent in GC, the counterpart of
// idris_rts.c's terminate(). Callers invoke it once, when the executor
// is done running, before reading its final Stats.
func (e *Executor) Terminate() {
	e.stats.terminate()
}

// Processes reports how many executors the runtime currently considers
// live; Allocate and Reserve use this to decide whether allocation
// locking is necessary at all.
func (e *Executor) Processes() int32 {
	return atomic.LoadInt32(&e.processes)
}

// SetProcesses updates the live-executor count. Spawning a second
// executor is the trigger that switches allocation from lock-free to
// locked, matching spec.md §5's "locking is relevant only once more than
// one executor is active".
func (e *Executor) SetProcesses(n int32) {
	atomic.StoreInt32(&e.processes, n)
}

func (e *Executor) locking() bool {
	return atomic.LoadInt32(&e.processes) > 0
}

// Allocate reserves a zeroed chunk holding the closure tag area plus size
// bytes of payload in the executor's current heap, running a single
// collection and retrying once if the fast path doesn't fit; a second
// failure is a fatal out-of-heap condition. outerLocked must be true when
// the caller already holds allocLock (i.e. everything invoked between
// Reserve and DoneReserve).
func (e *Executor) Allocate(size uintptr, outerLocked bool) uintptr {
	size += tagAreaSize
	if e.locking() && !outerLocked {
		e.allocMu.Lock()
		defer e.allocMu.Unlock()
	}
	if off, ok := e.heap.rawAllocate(size); ok {
		e.stats.recordAlloc(headerSize + roundUp(size, maxAlign))
		return off
	}
	e.collect(size)
	off, ok := e.heap.rawAllocate(size)
	if !ok {
		fatalOutOfHeap()
	}
	e.stats.recordAlloc(headerSize + roundUp(size, maxAlign))
	return off
}

// Reserve takes allocLock (when locking is in effect) and guarantees the
// current heap can satisfy a subsequent Allocate(size, true) without
// itself triggering a second collection mid-construction of a composite
// closure. DoneReserve releases the lock.
func (e *Executor) Reserve(size uintptr) {
	if !e.heap.Space(size) {
		if e.locking() {
			e.allocMu.Lock()
		}
		e.collect(size)
		if e.locking() {
			e.allocMu.Unlock()
		}
	}
	if e.locking() {
		e.allocMu.Lock()
	}
}

func (e *Executor) DoneReserve() {
	if e.locking() {
		e.allocMu.Unlock()
	}
}

// Push appends v to the current frame, aborting with a fatal stack
// overflow if the stack's max frontier would be exceeded.
func (e *Executor) Push(v Value) {
	if e.top >= len(e.stack) {
		fatalStackOverflow()
	}
	e.stack[e.top] = v
	e.top++
}

// Pop removes and returns the top value of the current frame.
func (e *Executor) Pop() Value {
	e.top--
	v := e.stack[e.top]
	e.stack[e.top] = 0
	return v
}

// Top returns the value i slots below the current top without removing
// it (Top(0) is the most recently pushed value).
func (e *Executor) Top(i int) Value {
	return e.stack[e.top-1-i]
}

// Loc returns the value at offset i from the current frame's base, the
// calling convention's argument-slot addressing.
func (e *Executor) Loc(i int) Value {
	return e.stack[e.base+i]
}

func (e *Executor) SetLoc(i int, v Value) {
	e.stack[e.base+i] = v
}

// Project unpacks the arity fields of constructor v into frame slots
// base..base+arity, the counterpart of idris_rts.c's PROJECT macro.
func (e *Executor) Project(v Value, base int, arity int) {
	if !isHeapRef(v) {
		fatal("Fatal Error: PROJECT on non-constructor value")
	}
	off := heapOffset(v)
	if e.heap.tag(off) != TagCon {
		fatalUnexpectedTag("PROJECT", e.heap.tag(off))
	}
	for i := 0; i < arity; i++ {
		e.SetLoc(base+i, e.heap.conArg(off, i))
	}
}

// Slide copies the top n values of the stack down over the current
// frame's base and drops the top to just past them, closing out a tail
// call's frame the way idris_rts.c's SLIDE macro does.
func (e *Executor) Slide(n int) {
	src := e.top - n
	for i := 0; i < n; i++ {
		e.stack[e.base+i] = e.stack[src+i]
	}
	e.top = e.base + n
}

// Ret/SetRet access the return register used to pass a result out of a
// called closure.
func (e *Executor) Ret() Value        { return e.ret }
func (e *Executor) SetRet(v Value)    { e.ret = v }
func (e *Executor) Reg1() Value       { return e.reg1 }
func (e *Executor) SetReg1(v Value)   { e.reg1 = v }

// Stats exposes the executor's cumulative counters for diagnostics.
func (e *Executor) Stats() *Stats { return &e.stats }
