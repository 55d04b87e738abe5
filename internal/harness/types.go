package harness

import "github.com/roach88/peano/internal/ir"

// TraceEvent is one recorded evaluation as it appears in a trace.
type TraceEvent struct {
	Seq       int64  `json:"seq"`
	Expr      string `json:"expr"`
	Outcome   string `json:"outcome"`
	Result    string `json:"result,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// traceEventFrom converts a stored evaluation to a trace event.
func traceEventFrom(e ir.Evaluation) TraceEvent {
	return TraceEvent{
		Seq:       e.Seq,
		Expr:      e.Expr,
		Outcome:   string(e.Outcome),
		Result:    e.Result,
		ErrorCode: e.ErrorCode,
	}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every case met its expectation and every assertion held.
	Pass bool `json:"pass"`

	// Trace holds the session's evaluations in seq order, as read back
	// from the store.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
