package rtcore

import "testing"

func TestCopyToConstructorWithMixedFields(t *testing.T) {
	src := newTestExecutor(t)
	dest := newTestExecutor(t)

	inner := src.MkStr("inner", false)
	con := src.MkCon(4, []Value{MkInt(5), inner, src.MkFloat(1.5, false)}, false)

	got := copyTo(src, dest, con)

	if dest.ConTag(got) != 4 || dest.ConArity(got) != 3 {
		t.Fatalf("copied constructor shape wrong: tag=%d arity=%d", dest.ConTag(got), dest.ConArity(got))
	}
	if GetInt(dest.ConArg(got, 0)) != 5 {
		t.Error("copied int field wrong")
	}
	if string(dest.GetStr(dest.ConArg(got, 1))) != "inner" {
		t.Error("copied string field wrong")
	}
	if dest.GetFloat(dest.ConArg(got, 2)) != 1.5 {
		t.Error("copied float field wrong")
	}
}

func TestCopyToImmediateAndInternedAreNoOps(t *testing.T) {
	src := newTestExecutor(t)
	dest := newTestExecutor(t)

	i := MkInt(99)
	if got := copyTo(src, dest, i); got != i {
		t.Error("copying an immediate should return it unchanged")
	}

	nullary := src.MkCon(2, nil, false)
	if got := copyTo(src, dest, nullary); got != nullary {
		t.Error("copying an interned nullary constructor should return it unchanged")
	}
}

func TestCopyToBuffer(t *testing.T) {
	src := newTestExecutor(t)
	dest := newTestExecutor(t)

	buf := src.BufferAllocate(32, false)
	buf = src.BufferAppendBytes(buf, []byte("payload"))

	got := copyTo(src, dest, buf)
	if string(dest.BufferData(got)) != "payload" {
		t.Fatalf("copied buffer data = %q", dest.BufferData(got))
	}
}
