package engine

import "fmt"

// DefaultMaxEvaluations is the default number of evaluations allowed per session.
const DefaultMaxEvaluations = 10000

// DefaultMaxMagnitude bounds the integer value of any literal or intermediate
// result. Unary values cost memory and stack linear in their magnitude.
const DefaultMaxMagnitude = 1 << 16

// QuotaEnforcer counts evaluations in a session and enforces a limit.
type QuotaEnforcer struct {
	max     int
	current int
}

// NewQuotaEnforcer creates an enforcer allowing max evaluations.
func NewQuotaEnforcer(max int) *QuotaEnforcer {
	return &QuotaEnforcer{max: max}
}

// Check counts one evaluation and fails once the limit is passed.
func (q *QuotaEnforcer) Check(sessionToken string) error {
	q.current++
	if q.current > q.max {
		return &EvaluationsExceededError{
			SessionToken: sessionToken,
			Count:        q.current,
			Limit:        q.max,
		}
	}
	return nil
}

// Current returns the number of evaluations counted so far.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// EvaluationsExceededError is returned when a session exceeds its evaluation quota.
type EvaluationsExceededError struct {
	SessionToken string
	Count        int
	Limit        int
}

func (e *EvaluationsExceededError) Error() string {
	return fmt.Sprintf("session %s exceeded evaluation quota: %d > %d", e.SessionToken, e.Count, e.Limit)
}
