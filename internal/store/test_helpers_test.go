package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/peano/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEvaluation creates an evaluation with minimal required fields.
func createTestEvaluation(id, sessionToken, expr string, seq int64) ir.Evaluation {
	return ir.Evaluation{
		ID:              id,
		SessionToken:    sessionToken,
		Expr:            expr,
		Outcome:         ir.OutcomeValue,
		Result:          "3",
		Seq:             seq,
		DefinitionsHash: "test-hash",
		EngineVersion:   ir.EngineVersion,
		IRVersion:       ir.IRVersion,
	}
}
