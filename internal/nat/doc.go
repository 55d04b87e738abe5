// Package nat provides a unary (Peano) representation of natural numbers.
//
// A Nat is either Zero or the successor of another Nat. Every operator in this
// package is defined by structural recursion over that shape: no operator
// converts its operands to machine integers to do the work. The only places
// machine integers appear are the conversions at the edges (FromInt, ToInt).
//
// Key constraints:
//   - Nat is a sealed interface: only Zero and Succ implement it
//   - Values are immutable; every operator builds a new value
//   - A nil Nat is not a valid value and is never returned as a Nat result
//   - Cost is linear in magnitude (recursion depth equals the integer value)
//
// Partial operations report failure explicitly:
//   - FromInt rejects negative input with ErrNegative
//   - Mod and Div reject a Zero divisor with ErrDivisionByZero
//   - Pred reports absence (ok == false) for Zero
package nat
