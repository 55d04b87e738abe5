package store

import (
	"context"
	"fmt"

	"github.com/roach88/peano/internal/ir"
)

// WriteEvaluation appends an evaluation record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: duplicate IDs are silently
// ignored. Other constraint violations (e.g. an unknown outcome) return errors.
func (s *Store) WriteEvaluation(ctx context.Context, e ir.Evaluation) error {
	if !ir.ValidOutcomes[e.Outcome] {
		return fmt.Errorf("write evaluation: invalid outcome %q", e.Outcome)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations
		(id, session_token, expr, outcome, result, error_code, seq, definitions_hash, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.SessionToken,
		e.Expr,
		string(e.Outcome),
		e.Result,
		e.ErrorCode,
		e.Seq,
		e.DefinitionsHash,
		e.EngineVersion,
		e.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write evaluation: %w", err)
	}

	return nil
}

// WriteDefinitions stores the definition set identified by hash.
// Writing the same hash twice is a no-op.
func (s *Store) WriteDefinitions(ctx context.Context, hash string, defs []ir.Definition) error {
	bindings, err := marshalDefinitions(defs)
	if err != nil {
		return fmt.Errorf("write definitions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO definition_sets (hash, bindings)
		VALUES (?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, bindings)
	if err != nil {
		return fmt.Errorf("write definitions: %w", err)
	}

	return nil
}
