package expr

import (
	"strconv"

	"github.com/roach88/peano/internal/nat"
)

// Kind classifies an evaluation result.
type Kind int

const (
	KindNat Kind = iota
	KindBool
	KindAbsent
)

func (k Kind) String() string {
	switch k {
	case KindNat:
		return "value"
	case KindBool:
		return "bool"
	case KindAbsent:
		return "absent"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the result of evaluating an expression.
// Nat is set only for KindNat; Bool only for KindBool.
type Value struct {
	Kind Kind
	Nat  nat.Nat
	Bool bool
}

// NatValue wraps a natural number.
func NatValue(n nat.Nat) Value {
	return Value{Kind: KindNat, Nat: n}
}

// BoolValue wraps a comparison result.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Absent is the value of pred(0).
func Absent() Value {
	return Value{Kind: KindAbsent}
}

// String renders numbers in decimal, booleans as true/false and absence as "none".
func (v Value) String() string {
	switch v.Kind {
	case KindNat:
		return v.Nat.String()
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "none"
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNat:
		return nat.Equal(v.Nat, other.Nat)
	case KindBool:
		return v.Bool == other.Bool
	default:
		return true
	}
}
