package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/peano/internal/ir"
)

// ReplayResult summarizes the replay of a session.
type ReplayResult struct {
	SessionToken string
	Total        int
	Mismatches   []ReplayMismatch
}

// OK reports whether every record reproduced identically.
func (r *ReplayResult) OK() bool {
	return len(r.Mismatches) == 0
}

// ReplayMismatch describes one record that did not reproduce.
type ReplayMismatch struct {
	Seq    int64
	Expr   string
	Reason string
	Want   ir.Evaluation // as recorded
	Got    ir.Evaluation // as recomputed
}

// Replay re-evaluates recorded evaluations against the engine's definitions
// and reports every record whose ID or outcome differs.
//
// Records are replayed with their own session token and seq, so nothing is
// drawn from the engine's clock or quota and nothing is recorded.
func (e *Engine) Replay(ctx context.Context, records []ir.Evaluation) (*ReplayResult, error) {
	result := &ReplayResult{Total: len(records)}
	if len(records) > 0 {
		result.SessionToken = records[0].SessionToken
	}

	for _, want := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		got, _, _, err := e.evaluate(want.SessionToken, want.Expr, want.Seq)
		if err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", want.Seq, err)
		}

		if reason := compareRecords(want, got); reason != "" {
			slog.Debug("replay mismatch",
				"session", want.SessionToken,
				"seq", want.Seq,
				"reason", reason,
			)
			result.Mismatches = append(result.Mismatches, ReplayMismatch{
				Seq:    want.Seq,
				Expr:   want.Expr,
				Reason: reason,
				Want:   want,
				Got:    got,
			})
		}
	}

	slog.Info("replay complete",
		"session", result.SessionToken,
		"total", result.Total,
		"mismatches", len(result.Mismatches),
	)
	return result, nil
}

func compareRecords(want, got ir.Evaluation) string {
	switch {
	case want.DefinitionsHash != got.DefinitionsHash:
		return "definitions changed"
	case want.ID != got.ID:
		return "id mismatch"
	case !want.SameOutcome(got):
		return fmt.Sprintf("outcome mismatch: recorded %s, replayed %s", describe(want), describe(got))
	default:
		return ""
	}
}

func describe(e ir.Evaluation) string {
	switch e.Outcome {
	case ir.OutcomeError:
		return "error " + e.ErrorCode
	case ir.OutcomeAbsent:
		return "absent"
	default:
		return fmt.Sprintf("%s %s", e.Outcome, e.Result)
	}
}
