package rtcore

// Interned nullary constructors: up to 256 process-wide singleton Values
// for zero-arity constructor tags, so code that builds, say, `Nothing`
// or `[]` over and over never touches any executor's heap for it.
// Grounded on idris_rts.c's init_nullaries/nullary_cons global table:
// the entries never move and are never collected or inter-heap copied,
// since interned Values carry their tag inline and reference no heap at
// all (see isInterned in value.go).
const maxInternedTag = 256

// Nullary returns the interned singleton Value for constructor tag ctag.
// Pre: ctag < 256 (spec.md §4.5's interning window).
func Nullary(ctag uint16) Value {
	if ctag >= maxInternedTag {
		fatal("Fatal Error: Nullary: tag %d outside interned range", ctag)
	}
	return mkInterned(ctag)
}

// IsNullary reports whether v is one of the 256 interned singletons.
func IsNullary(v Value) bool {
	return isInterned(v)
}

// NullaryTag extracts the constructor tag from an interned singleton.
// Pre: IsNullary(v).
func NullaryTag(v Value) uint16 {
	return internedTagOf(v)
}
