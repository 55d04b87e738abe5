package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrAbsent is returned when an absent value is used as an operand.
	ErrAbsent = errors.New("absent value used as operand")

	// ErrNotNumber is returned when a boolean is used where a number is required.
	ErrNotNumber = errors.New("operand is not a number")

	// ErrMagnitude is returned when a literal or result would exceed MaxMagnitude.
	ErrMagnitude = errors.New("magnitude limit exceeded")

	// ErrUndefined is returned for names that are neither builtins nor bound in the Env.
	ErrUndefined = errors.New("undefined name")

	// ErrArity is returned when a builtin receives the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
)

// SyntaxError reports malformed input with the byte offset where it was detected.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// EvalError attaches the offending node's position to an evaluation failure.
// Unwrap exposes the cause for errors.Is.
type EvalError struct {
	Pos int
	Op  string
	Err error
}

func (e *EvalError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("offset %d: %s: %v", e.Pos, e.Op, e.Err)
	}
	return fmt.Sprintf("offset %d: %v", e.Pos, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
