package nat

// Add returns a + b.
//
//	a + Zero       = a
//	Zero + b       = b
//	Succ(pa) + b   = pa + Succ(b)
func Add(a, b Nat) Nat {
	if IsZero(b) {
		return a
	}
	pa, ok := Pred(a)
	if !ok {
		return b
	}
	return Add(pa, Succ{Pred: b})
}

// Sub returns the saturating difference a - b, clamped at Zero when b > a.
//
//	Zero - _           = Zero
//	Succ(_) - Zero     = a
//	Succ(pa) - Succ(pb) = pa - pb
func Sub(a, b Nat) Nat {
	pa, ok := Pred(a)
	if !ok {
		return Zero{}
	}
	pb, ok := Pred(b)
	if !ok {
		return a
	}
	return Sub(pa, pb)
}

// Mul returns a * b as repeated addition.
//
//	Zero * _     = Zero
//	_ * Zero     = Zero
//	Succ(pa) * b = (pa * b) + b
func Mul(a, b Nat) Nat {
	if IsZero(b) {
		return Zero{}
	}
	pa, ok := Pred(a)
	if !ok {
		return Zero{}
	}
	return Add(Mul(pa, b), b)
}

// Pow returns a raised to the power b as repeated multiplication.
// Any base to the Zero power is one, including Zero^Zero.
//
//	_ ^ Zero         = Succ(Zero)
//	Zero ^ Succ(_)   = Zero
//	a ^ Succ(pb)     = a * (a ^ pb)
func Pow(a, b Nat) Nat {
	pb, ok := Pred(b)
	if !ok {
		return one
	}
	if IsZero(a) {
		return Zero{}
	}
	return Mul(a, Pow(a, pb))
}

// Distance returns the absolute difference between a and b.
// Distance(a, b) == Distance(b, a).
func Distance(a, b Nat) Nat {
	if Greater(a, b) {
		return Sub(a, b)
	}
	return Sub(b, a)
}

// Mod returns the remainder of a divided by b.
// While a >= b the dividend is replaced by Distance(a, b), which equals a - b
// under that guard.
func Mod(a, b Nat) (Nat, error) {
	if IsZero(b) {
		return nil, ErrDivisionByZero
	}
	return mod(a, b), nil
}

func mod(a, b Nat) Nat {
	if Less(a, b) {
		return a
	}
	return mod(Distance(a, b), b)
}

// Div returns the truncated quotient of a divided by b, counting how many
// times b can be taken from a. For b != Zero:
//
//	a == Add(Mul(Div(a, b), b), Mod(a, b))
func Div(a, b Nat) (Nat, error) {
	if IsZero(b) {
		return nil, ErrDivisionByZero
	}
	return div(a, b), nil
}

func div(a, b Nat) Nat {
	if Less(a, b) {
		return Zero{}
	}
	return Succ{Pred: div(Distance(a, b), b)}
}
