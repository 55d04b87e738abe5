package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/peano/internal/expr"
)

// AssertionError is returned when an assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s => %s\n", event.Seq, event.Expr, describeEvent(event))
	}

	return buf.String()
}

// describeEvent renders an event's outcome for messages.
func describeEvent(e TraceEvent) string {
	switch e.Outcome {
	case "error":
		return "error " + e.ErrorCode
	case "absent":
		return "absent"
	default:
		return e.Result
	}
}

// canonicalExpr normalizes spacing and parentheses so assertions match
// expressions the way the engine records them. Unparsable input is kept as-is.
func canonicalExpr(src string) string {
	n, err := expr.Parse(src)
	if err != nil {
		return strings.TrimSpace(src)
	}
	return expr.Format(n)
}

// assertTraceContains checks that an evaluation of the expression appears,
// with the given outcome and result when those are set.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	want := canonicalExpr(assertion.Expr)
	for _, event := range trace {
		if event.Expr != want {
			continue
		}
		if assertion.Outcome != "" && event.Outcome != assertion.Outcome {
			continue
		}
		if assertion.Result != "" && event.Result != assertion.Result {
			continue
		}
		return nil
	}

	expected := fmt.Sprintf("evaluation of %q", want)
	if assertion.Outcome != "" {
		expected += " with outcome " + assertion.Outcome
	}
	if assertion.Result != "" {
		expected += " and result " + assertion.Result
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that expressions appear in the specified order.
// They don't need to be consecutive.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event.Expr]; !seen {
			positions[event.Expr] = i + 1 // 1-indexed for readability
		}
	}

	wants := make([]string, len(assertion.Exprs))
	for i, e := range assertion.Exprs {
		wants[i] = canonicalExpr(e)
		if positions[wants[i]] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all expressions present: %q", assertion.Exprs),
				Actual:   fmt.Sprintf("missing expression: %q", wants[i]),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(wants); i++ {
		prev, curr := wants[i-1], wants[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("expressions in order: %q", wants),
				Actual: fmt.Sprintf("%q (pos %d) should be before %q (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks the number of evaluations, optionally only those
// with a given outcome.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if assertion.Outcome == "" || event.Outcome == assertion.Outcome {
			count++
		}
	}

	if count != assertion.Count {
		what := "evaluations"
		if assertion.Outcome != "" {
			what = assertion.Outcome + " evaluations"
		}
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d %s", assertion.Count, what),
			Actual:   fmt.Sprintf("%d %s", count, what),
			Trace:    trace,
		}
	}
	return nil
}

// assertAllPass checks that no case expectation failed before assertions ran.
func assertAllPass(result *Result) error {
	if len(result.Errors) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertAllPass,
		Expected: "all cases pass",
		Actual:   fmt.Sprintf("%d failed", len(result.Errors)),
		Trace:    result.Trace,
	}
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertAllPass:
			err = assertAllPass(result)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
