package rtcore

import (
	"strconv"
	"strings"
)

// CastIntStr renders an immediate integer in decimal.
func (e *Executor) CastIntStr(i int64, outerLocked bool) Value {
	return e.MkStr(strconv.FormatInt(i, 10), outerLocked)
}

// CastBitsStr renders an unsigned bitword in decimal.
func (e *Executor) CastBitsStr(v uint64, outerLocked bool) Value {
	return e.MkStr(strconv.FormatUint(v, 10), outerLocked)
}

// CastFloatStr renders a float using Go's shortest round-tripping
// representation.
func (e *Executor) CastFloatStr(f float64, outerLocked bool) Value {
	return e.MkStr(strconv.FormatFloat(f, 'g', -1, 64), outerLocked)
}

// CastStrFloat parses s as a float, returning 0.0 for anything that
// doesn't parse, mirroring strtod's tolerant failure mode in the C
// original rather than propagating a Go error.
func (e *Executor) CastStrFloat(s Value) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(e.GetStr(s))), 64)
	if err != nil {
		return 0.0
	}
	return f
}

// CastStrInt parses the leading decimal integer in s. If anything
// besides trailing whitespace follows the digits actually consumed, the
// cast is considered to have failed and yields 0 rather than a partial
// parse — idris_rts.c's idris_castStrInt checks strtol's end pointer
// against "all whitespace to end of string" for exactly this reason.
func (e *Executor) CastStrInt(s Value) int64 {
	str := string(e.GetStr(s))
	i := 0
	for i < len(str) && (str[i] == ' ' || str[i] == '\t' || str[i] == '\n' || str[i] == '\r') {
		i++
	}
	start := i
	if i < len(str) && (str[i] == '+' || str[i] == '-') {
		i++
	}
	digitsStart := i
	for i < len(str) && str[i] >= '0' && str[i] <= '9' {
		i++
	}
	if i == digitsStart {
		return 0
	}
	rest := str[i:]
	if strings.TrimSpace(rest) != "" {
		return 0
	}
	n, err := strconv.ParseInt(str[start:i], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
