package rtcore

// String operations are byte-indexed, matching idris_rts.c's
// idris_strHead/idris_strTail/idris_strIndex/idris_strCons/idris_strlen/
// idris_strRev, none of which decode UTF-8: idris_strlen is a bare
// strlen(), idris_strHead/idris_strIndex index GETSTR(str) directly as
// a char array, and idris_strCons/idris_strRev copy and reverse raw
// bytes. A string holding multi-byte UTF-8 text is therefore indexed
// and reversed byte-by-byte here too, not code-point-by-code-point.

// StrLen returns the number of bytes in s.
func (e *Executor) StrLen(s Value) int {
	return len(e.GetStr(s))
}

// StrCons prepends the single byte c to s, always materialising a fresh
// string (there is no sharing win for consing onto the front).
func (e *Executor) StrCons(c byte, s Value, outerLocked bool) Value {
	tail := e.GetStr(s)
	buf := make([]byte, 1+len(tail))
	buf[0] = c
	copy(buf[1:], tail)
	return e.MkStr(string(buf), outerLocked)
}

// StrHead returns the first byte of s. Pre: StrLen(s) > 0.
func (e *Executor) StrHead(s Value) byte {
	return e.GetStr(s)[0]
}

// StrIndex returns the byte at index i.
func (e *Executor) StrIndex(s Value, i int) byte {
	return e.GetStr(s)[i]
}

// StrRev reverses s byte by byte.
func (e *Executor) StrRev(s Value, outerLocked bool) Value {
	b := e.GetStr(s)
	buf := make([]byte, len(b))
	for i, c := range b {
		buf[len(b)-1-i] = c
	}
	return e.MkStr(string(buf), outerLocked)
}

// Concat concatenates a and b into a fresh string.
func (e *Executor) Concat(a, b Value, outerLocked bool) Value {
	ab := e.GetStr(a)
	bb := e.GetStr(b)
	buf := make([]byte, len(ab)+len(bb))
	copy(buf, ab)
	copy(buf[len(ab):], bb)
	return e.MkStr(string(buf), outerLocked)
}

// StrEq reports byte-wise equality between a and b.
func (e *Executor) StrEq(a, b Value) bool {
	ab, bb := e.GetStr(a), e.GetStr(b)
	if len(ab) != len(bb) {
		return false
	}
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}

// StrLt reports whether a sorts before b under ordinary byte-wise
// (equivalently, code-point) ordering.
func (e *Executor) StrLt(a, b Value) bool {
	ab, bb := e.GetStr(a), e.GetStr(b)
	n := len(ab)
	if len(bb) < n {
		n = len(bb)
	}
	for i := 0; i < n; i++ {
		if ab[i] != bb[i] {
			return ab[i] < bb[i]
		}
	}
	return len(ab) < len(bb)
}
