package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/peano/internal/expr"
	"github.com/roach88/peano/internal/nat"
)

// RuntimeErrorCode classifies why an evaluation failed.
// Codes are stored in the evaluation log and must stay stable.
type RuntimeErrorCode string

const (
	ErrCodeDivisionByZero    RuntimeErrorCode = "DIVISION_BY_ZERO"
	ErrCodeNegativeInput     RuntimeErrorCode = "NEGATIVE_INPUT"
	ErrCodeMagnitudeExceeded RuntimeErrorCode = "MAGNITUDE_EXCEEDED"
	ErrCodeAbsentOperand     RuntimeErrorCode = "ABSENT_OPERAND"
	ErrCodeSyntax            RuntimeErrorCode = "SYNTAX"
	ErrCodeUndefinedName     RuntimeErrorCode = "UNDEFINED_NAME"
	ErrCodeTypeMismatch      RuntimeErrorCode = "TYPE_MISMATCH"
	ErrCodeArity             RuntimeErrorCode = "ARITY"
	ErrCodeInternal          RuntimeErrorCode = "INTERNAL"
)

// RuntimeError is a failed evaluation. The failure is part of the
// evaluation's outcome: it is recorded like any other result.
type RuntimeError struct {
	Code         RuntimeErrorCode
	Message      string
	SessionToken string
	Expr         string
	Seq          int64
	Err          error
}

func (e *RuntimeError) Error() string {
	if e.Expr != "" {
		return fmt.Sprintf("%s: %s (expr %q, seq %d)", e.Code, e.Message, e.Expr, e.Seq)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying sentinel, so errors.Is(err, nat.ErrDivisionByZero)
// holds for a DIVISION_BY_ZERO RuntimeError.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Classify maps an evaluation error to its runtime code.
func Classify(err error) RuntimeErrorCode {
	var syntax *expr.SyntaxError
	switch {
	case errors.As(err, &syntax):
		return ErrCodeSyntax
	case errors.Is(err, nat.ErrDivisionByZero):
		return ErrCodeDivisionByZero
	case errors.Is(err, nat.ErrNegative):
		return ErrCodeNegativeInput
	case errors.Is(err, expr.ErrMagnitude):
		return ErrCodeMagnitudeExceeded
	case errors.Is(err, expr.ErrAbsent):
		return ErrCodeAbsentOperand
	case errors.Is(err, expr.ErrUndefined):
		return ErrCodeUndefinedName
	case errors.Is(err, expr.ErrNotNumber):
		return ErrCodeTypeMismatch
	case errors.Is(err, expr.ErrArity):
		return ErrCodeArity
	default:
		return ErrCodeInternal
	}
}

// newRuntimeError wraps an evaluation failure with its code and context.
func newRuntimeError(err error, sessionToken, src string, seq int64) *RuntimeError {
	return &RuntimeError{
		Code:         Classify(err),
		Message:      err.Error(),
		SessionToken: sessionToken,
		Expr:         src,
		Seq:          seq,
		Err:          err,
	}
}

// IsBudgetError reports whether err is a magnitude limit failure.
func IsBudgetError(err error) bool {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr.Code == ErrCodeMagnitudeExceeded
	}
	return errors.Is(err, expr.ErrMagnitude)
}

// IsDivisionByZero reports whether err is a zero-divisor failure.
func IsDivisionByZero(err error) bool {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr.Code == ErrCodeDivisionByZero
	}
	return errors.Is(err, nat.ErrDivisionByZero)
}

// IsQuotaError reports whether err is an evaluation quota failure.
func IsQuotaError(err error) bool {
	var qErr *EvaluationsExceededError
	return errors.As(err, &qErr)
}
