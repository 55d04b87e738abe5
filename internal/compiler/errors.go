package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Compile error codes (E100-E199).
const (
	ErrCodeCUE          = "E100" // CUE syntax or unification error
	ErrCodeCycle        = "E101" // definitions depend on each other
	ErrCodeNegative     = "E102" // negative integer value
	ErrCodeBadType      = "E103" // unsupported value kind or non-number result
	ErrCodeBadExpr      = "E104" // unparsable or failing expression
	ErrCodeUndefined    = "E105" // reference to an undefined name
	ErrCodeReservedName = "E106" // name collides with a builtin or is not an identifier
)

// CompileError represents a compilation error with source position.
type CompileError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: [%s] %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// formatCUEError converts CUE errors into CompileErrors with position info,
// one per underlying error.
func formatCUEError(err error, field string) []error {
	if err == nil {
		return nil
	}

	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return []error{&CompileError{Code: ErrCodeCUE, Field: field, Message: err.Error()}}
	}

	out := make([]error, 0, len(cueErrs))
	for _, e := range cueErrs {
		ce := &CompileError{Code: ErrCodeCUE, Field: field, Message: e.Error()}
		if positions := errors.Positions(e); len(positions) > 0 {
			ce.Pos = positions[0]
		}
		out = append(out, ce)
	}
	return out
}
