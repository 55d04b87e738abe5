package nat

// Equal reports whether a and b have the same shape.
//
//	Zero == Zero           true
//	Zero == Succ, Succ == Zero  false
//	Succ(pa) == Succ(pb)   pa == pb
func Equal(a, b Nat) bool {
	pa, aok := Pred(a)
	pb, bok := Pred(b)
	switch {
	case !aok && !bok:
		return true
	case aok != bok:
		return false
	default:
		return Equal(pa, pb)
	}
}

// Less reports whether a < b.
//
//	Zero < Succ(_)       true
//	_ < Zero             false
//	Succ(pa) < Succ(pb)  pa < pb
func Less(a, b Nat) bool {
	pb, ok := Pred(b)
	if !ok {
		return false
	}
	pa, ok := Pred(a)
	if !ok {
		return true
	}
	return Less(pa, pb)
}

// Greater reports whether a > b.
func Greater(a, b Nat) bool {
	return Less(b, a)
}

// LessEqual reports whether a <= b.
func LessEqual(a, b Nat) bool {
	return !Less(b, a)
}

// GreaterEqual reports whether a >= b.
func GreaterEqual(a, b Nat) bool {
	return !Less(a, b)
}

// Compare returns -1 if a < b, 0 if a == b and +1 if a > b.
// Suitable for slices.SortFunc.
func Compare(a, b Nat) int {
	switch {
	case Less(a, b):
		return -1
	case Less(b, a):
		return 1
	default:
		return 0
	}
}

// Min returns the smallest argument. Ties keep the earliest argument.
func Min(first Nat, rest ...Nat) Nat {
	m := first
	for _, n := range rest {
		if Less(n, m) {
			m = n
		}
	}
	return m
}

// Max returns the largest argument. Ties keep the latest argument.
func Max(first Nat, rest ...Nat) Nat {
	m := first
	for _, n := range rest {
		if !Less(n, m) {
			m = n
		}
	}
	return m
}
