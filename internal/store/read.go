package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/peano/internal/ir"
)

const evaluationColumns = `id, session_token, expr, outcome, result, error_code, seq, definitions_hash, engine_version, ir_version`

// ReadEvaluation retrieves a single evaluation by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadEvaluation(ctx context.Context, id string) (ir.Evaluation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+evaluationColumns+`
		FROM evaluations
		WHERE id = ?
	`, id)

	return scanEvaluation(row)
}

// ReadSession returns all evaluations of a session in seq order.
// Returns an empty slice (not nil) if the session has no records.
func (s *Store) ReadSession(ctx context.Context, sessionToken string) ([]ir.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+evaluationColumns+`
		FROM evaluations
		WHERE session_token = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return collectEvaluations(rows)
}

// ReadAll returns every evaluation in the log.
// Sessions interleave by seq; ties are broken by session token.
func (s *Store) ReadAll(ctx context.Context) ([]ir.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+evaluationColumns+`
		FROM evaluations
		ORDER BY seq ASC, session_token COLLATE BINARY ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all evaluations: %w", err)
	}
	return collectEvaluations(rows)
}

// ReadFailures returns all evaluations with the given error code, or every
// failed evaluation when code is empty.
func (s *Store) ReadFailures(ctx context.Context, code string) ([]ir.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+evaluationColumns+`
		FROM evaluations
		WHERE outcome = 'error' AND (? = '' OR error_code = ?)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, code, code)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	return collectEvaluations(rows)
}

// ReadDefinitions retrieves the definition set stored under hash.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadDefinitions(ctx context.Context, hash string) ([]ir.Definition, error) {
	var bindings string
	err := s.db.QueryRowContext(ctx, `
		SELECT bindings FROM definition_sets WHERE hash = ?
	`, hash).Scan(&bindings)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return unmarshalDefinitions(bindings)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row scanner) (ir.Evaluation, error) {
	var (
		e       ir.Evaluation
		outcome string
	)
	err := row.Scan(
		&e.ID,
		&e.SessionToken,
		&e.Expr,
		&outcome,
		&e.Result,
		&e.ErrorCode,
		&e.Seq,
		&e.DefinitionsHash,
		&e.EngineVersion,
		&e.IRVersion,
	)
	if err != nil {
		return ir.Evaluation{}, fmt.Errorf("scan evaluation: %w", err)
	}
	e.Outcome = ir.Outcome(outcome)
	return e, nil
}

func collectEvaluations(rows *sql.Rows) ([]ir.Evaluation, error) {
	defer rows.Close()

	evals := []ir.Evaluation{}
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}

	return evals, nil
}
