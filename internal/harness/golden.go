package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/peano/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	SessionToken string       `json:"session_token,omitempty"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot for ir.MarshalCanonical, which
// only handles IR types and primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":     event.Seq,
			"expr":    event.Expr,
			"outcome": event.Outcome,
		}
		if event.Result != "" {
			eventMap["result"] = event.Result
		}
		if event.ErrorCode != "" {
			eventMap["error_code"] = event.ErrorCode
		}
		traceList[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
	if s.SessionToken != "" {
		result["session_token"] = s.SessionToken
	}
	return result
}

// MarshalTrace renders a snapshot as canonical JSON.
func MarshalTrace(s TraceSnapshot) ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	traceJSON, err := MarshalTrace(TraceSnapshot{
		ScenarioName: scenario.Name,
		SessionToken: scenario.SessionToken,
		Trace:        result.Trace,
	})
	if err != nil {
		return nil, err
	}

	newGoldie(t).Assert(t, scenario.Name, traceJSON)
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
	})
	if err != nil {
		return err
	}

	newGoldie(t).Assert(t, scenarioName, traceJSON)
	return nil
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
