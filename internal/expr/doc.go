// Package expr parses and evaluates arithmetic expressions over Peano naturals.
//
// # Grammar
//
// Precedence from lowest to highest:
//
//	cmp     := sum [("==" | "!=" | "<" | "<=" | ">" | ">=") sum]
//	sum     := product {("+" | "-") product}
//	product := power {("*" | "/" | "%") power}
//	power   := primary ["^" power]
//	primary := NUMBER | "Z" | IDENT | IDENT "(" [cmp {"," cmp}] ")" | "(" cmp ")"
//
// "^" is right-associative; everything else is left-associative. "-" is the
// saturating difference, so "1 - 3" is 0. Number literals are decimal.
//
// Builtin functions:
//
//	S(x)            successor
//	pred(x)         predecessor, absent for 0
//	min(x, ...)     smallest argument
//	max(x, ...)     largest argument
//	distance(x, y)  absolute difference
//
// Other identifiers are looked up in the Env passed to the Evaluator.
//
// # Values
//
// An expression evaluates to a Value: a natural number, a boolean (from a
// comparison), or absent (from pred of 0). An absent value may be the final
// result, but using it as an operand fails with ErrAbsent.
//
// # Magnitude limit
//
// Naturals are unary, so the cost of every operation is linear in the size of
// its operands. Evaluator.MaxMagnitude bounds the integer value of any literal
// or intermediate result; the evaluator predicts the size of a result before
// building it and fails with ErrMagnitude instead of allocating.
package expr
