// Package compiler turns CUE definition specs into named bindings.
//
// A definition spec declares values under the top-level "define" struct:
//
//	define: {
//		two:  2
//		ten:  "5 + 5"
//		four: "S(S(S(S(Z))))"
//	}
//
// Values are non-negative integers or expression strings. Expressions may
// refer to other definitions; they are resolved in dependency order, so the
// order of fields in the file does not matter. All .cue files of a directory
// are unified before compiling, so definitions may be split across files.
//
// Errors carry a stable code and the CUE source position:
//
//	E100  CUE syntax or unification error
//	E101  definition cycle
//	E102  negative value
//	E103  value is not an integer, expression string or number result
//	E104  expression does not parse or fails to evaluate
//	E105  reference to an undefined name
//	E106  reserved or malformed definition name
package compiler
