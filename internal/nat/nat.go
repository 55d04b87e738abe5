package nat

import (
	"errors"
	"strconv"
)

var (
	// ErrNegative is returned when constructing a Nat from a negative integer.
	ErrNegative = errors.New("nat: negative integer has no natural representation")

	// ErrDivisionByZero is returned by Mod and Div when the divisor is Zero.
	ErrDivisionByZero = errors.New("nat: division by zero")
)

// Nat is a sealed interface representing a natural number.
// Only Zero and Succ implement it.
type Nat interface {
	nat() // Sealed - only these types implement it
	String() string
}

// Zero is the base case, the natural number 0.
type Zero struct{}

func (Zero) nat() {}

// String returns "0".
func (Zero) String() string { return "0" }

// Succ is the successor of Pred, i.e. Pred + 1.
type Succ struct {
	Pred Nat
}

func (Succ) nat() {}

// String returns the decimal representation of the value.
func (s Succ) String() string {
	return strconv.Itoa(ToInt(s))
}

// one is Succ(Zero), the result of any base raised to the Zero power.
var one Nat = Succ{Pred: Zero{}}

// FromInt converts a non-negative integer into its unary representation.
func FromInt(n int) (Nat, error) {
	return FromIntAccum(n, Zero{})
}

// FromIntAccum wraps accum in Succ exactly n times.
// FromIntAccum(n, Zero{}) is FromInt(n).
func FromIntAccum(n int, accum Nat) (Nat, error) {
	if n < 0 {
		return nil, ErrNegative
	}
	if accum == nil {
		accum = Zero{}
	}
	for ; n > 0; n-- {
		accum = Succ{Pred: accum}
	}
	return accum, nil
}

// MustFromInt is like FromInt but panics on negative input.
// Use only for literals known to be valid.
func MustFromInt(n int) Nat {
	v, err := FromInt(n)
	if err != nil {
		panic(err)
	}
	return v
}

// Of is a shorthand for MustFromInt for literal construction.
// Example: Add(Of(1), Of(2))
func Of(n int) Nat {
	return MustFromInt(n)
}

// ToInt counts Succ layers until Zero.
// ToInt(FromInt(k)) == k for all k >= 0.
func ToInt(n Nat) int {
	p, ok := Pred(n)
	if !ok {
		return 0
	}
	return 1 + ToInt(p)
}

// Int is the integer value of n. It is an alias of ToInt for use as an accessor.
func Int(n Nat) int {
	return ToInt(n)
}

// IsZero reports whether n is Zero.
func IsZero(n Nat) bool {
	_, ok := n.(Zero)
	return ok
}

// Pred returns the value wrapped by a Succ.
// For Zero there is no predecessor and ok is false.
func Pred(n Nat) (p Nat, ok bool) {
	switch v := n.(type) {
	case Succ:
		return v.Pred, true
	default:
		return nil, false
	}
}
