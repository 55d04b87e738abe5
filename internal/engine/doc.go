// Package engine evaluates expressions within a session and records the results.
//
// An Engine owns one session: a session token, a logical clock and the
// definitions (named bindings) expressions may refer to. Every call to Eval
// stamps the evaluation with the next seq, computes its content-addressed ID
// and, when a Recorder is configured, appends the record to the log.
//
// Determinism:
//   - Seq comes from a logical clock, never from wall time
//   - IDs are computed from (session, canonical expression, definitions, seq)
//   - Evaluation itself is a pure function of the expression and definitions
//
// Together these make Replay possible: re-evaluating the logged expressions of
// a session must reproduce the same IDs and the same outcomes.
//
// Resource limits:
//   - MaxMagnitude bounds any literal or intermediate value (unary cost)
//   - MaxEvaluations bounds the number of evaluations in one session
//
// An Engine is not safe for concurrent use; each goroutine should own its
// own session.
package engine
