package rtcore

import "testing"

func TestCollectPreservesNullaryIdentity(t *testing.T) {
	e := newTestExecutor(t)
	before := e.MkCon(5, nil, false)
	if !IsNullary(before) {
		t.Fatal("zero-arity constructor with tag < 256 should be interned")
	}
	e.Push(before)
	e.collect(0)
	after := e.Pop()
	if after != before {
		t.Fatal("interned nullary constructor's Value changed across a collection")
	}
}

func TestCollectPreservesSharing(t *testing.T) {
	e := newTestExecutor(t)
	child := e.MkStr("shared", false)
	parent := e.MkCon(9, []Value{child, child}, false)
	e.Push(parent)

	e.collect(0)

	got := e.Pop()
	a := e.ConArg(got, 0)
	b := e.ConArg(got, 1)
	if a != b {
		t.Fatal("a doubly-referenced child must be copied once and shared in to-space")
	}
	if string(e.GetStr(a)) != "shared" {
		t.Fatal("shared child's contents corrupted by collection")
	}
}

func TestCollectRelocatesLiveValues(t *testing.T) {
	e := newTestExecutor(t)
	v := e.MkCon(3, []Value{MkInt(1), MkInt(2)}, false)
	e.Push(v)

	e.collect(0)
	newV := e.Pop()

	if GetInt(e.ConArg(newV, 0)) != 1 || GetInt(e.ConArg(newV, 1)) != 2 {
		t.Fatal("constructor fields corrupted by relocation")
	}
}

func TestHeapInvariantAfterCollection(t *testing.T) {
	e := newTestExecutor(t)
	for i := 0; i < 8; i++ {
		e.Push(e.MkStr("x", false))
	}
	e.collect(0)
	if e.heap.next > e.heap.end {
		t.Fatalf("next (%d) exceeds end (%d) after collection", e.heap.next, e.heap.end)
	}
}
