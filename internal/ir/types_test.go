package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluationCanonical(t *testing.T) {
	e := Evaluation{
		ID:            "ignored",
		SessionToken:  "ignored",
		Expr:          "(5 + 5) % 4",
		Outcome:       OutcomeValue,
		Result:        "2",
		Seq:           3,
		EngineVersion: EngineVersion,
		IRVersion:     IRVersion,
	}

	data, err := MarshalCanonical(e.Canonical())
	require.NoError(t, err)
	assert.Equal(t, `{"expr":"(5 + 5) % 4","outcome":"value","result":"2","seq":3}`, string(data))
}

func TestEvaluationCanonicalError(t *testing.T) {
	e := Evaluation{Expr: "1 % 0", Outcome: OutcomeError, ErrorCode: "DIVISION_BY_ZERO", Seq: 1}

	data, err := MarshalCanonical(e.Canonical())
	require.NoError(t, err)
	assert.Equal(t, `{"error_code":"DIVISION_BY_ZERO","expr":"1 % 0","outcome":"error","seq":1}`, string(data))
}

func TestSameOutcome(t *testing.T) {
	a := Evaluation{Outcome: OutcomeValue, Result: "3", Seq: 1}
	b := Evaluation{Outcome: OutcomeValue, Result: "3", Seq: 9}
	c := Evaluation{Outcome: OutcomeBool, Result: "true"}

	assert.True(t, a.SameOutcome(b))
	assert.False(t, a.SameOutcome(c))
	assert.True(t, ValidOutcomes[OutcomeAbsent])
	assert.False(t, ValidOutcomes[Outcome("maybe")])
}
