package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Expr: "1 + 2", Outcome: "value", Result: "3"},
		{Seq: 2, Expr: "2 == 2", Outcome: "bool", Result: "true"},
		{Seq: 3, Expr: "pred(0)", Outcome: "absent"},
		{Seq: 4, Expr: "1 % 0", Outcome: "error", ErrorCode: "DIVISION_BY_ZERO"},
	}
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Expr: "1+2"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Expr: "(1 + 2)", Result: "3"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Expr: "1 % 0", Outcome: "error"}))

	err := assertTraceContains(trace, Assertion{Expr: "1 + 2", Result: "4"})
	require.Error(t, err)
	var aErr *AssertionError
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, AssertTraceContains, aErr.Type)
	assert.Equal(t, `evaluation of "1 + 2" and result 4`, aErr.Expected)

	assert.Error(t, assertTraceContains(trace, Assertion{Expr: "9"}))
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Exprs: []string{"1 + 2", "1 % 0"}}))
	assert.NoError(t, assertTraceOrder(trace, Assertion{Exprs: []string{"2==2", "pred(0)", "1%0"}}))

	err := assertTraceOrder(trace, Assertion{Exprs: []string{"1 % 0", "1 + 2"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"1 % 0" (pos 4) should be before "1 + 2" (pos 1)`)

	err = assertTraceOrder(trace, Assertion{Exprs: []string{"1 + 2", "5"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing expression: "5"`)
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Count: 4}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Count: 1, Outcome: "error"}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Count: 0, Outcome: "nothing"}))

	err := assertTraceCount(trace, Assertion{Count: 2, Outcome: "bool"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 2 bool evaluations")
	assert.Contains(t, err.Error(), "Actual: 1 bool evaluations")
}

func TestAssertAllPass(t *testing.T) {
	result := NewResult()
	assert.NoError(t, assertAllPass(result))

	result.AddError("cases[0]: wrong")
	assert.Error(t, assertAllPass(result))
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	result.Trace = sampleTrace()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Count: 4},
		{Type: AssertTraceContains, Expr: "42"},
		{Type: AssertAllPass},
		{Type: "bogus"},
	})

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Assertion failed: trace_contains")
	assert.Contains(t, errs[1], `unknown assertion type "bogus"`)
}

func TestAssertionErrorIncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "1",
		Actual:   "4",
		Trace:    sampleTrace(),
	}

	msg := err.Error()
	assert.Contains(t, msg, "[1] 1 + 2 => 3")
	assert.Contains(t, msg, "[3] pred(0) => absent")
	assert.Contains(t, msg, "[4] 1 % 0 => error DIVISION_BY_ZERO")
}
