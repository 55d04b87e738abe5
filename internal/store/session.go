package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SessionSummary describes one session in the log.
type SessionSummary struct {
	Token           string
	Count           int
	Failures        int
	FirstSeq        int64
	LastSeq         int64
	DefinitionsHash string // hash of the session's last evaluation
}

// ListSessions returns a summary of every session, ordered by token.
// UUIDv7 tokens sort by creation time, so this is oldest-first for
// production sessions.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			e.session_token,
			COUNT(*),
			SUM(CASE WHEN e.outcome = 'error' THEN 1 ELSE 0 END),
			MIN(e.seq),
			MAX(e.seq),
			(SELECT l.definitions_hash FROM evaluations l
			 WHERE l.session_token = e.session_token
			 ORDER BY l.seq DESC, l.id COLLATE BINARY DESC LIMIT 1)
		FROM evaluations e
		GROUP BY e.session_token
		ORDER BY e.session_token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionSummary{}
	for rows.Next() {
		var ss SessionSummary
		if err := rows.Scan(&ss.Token, &ss.Count, &ss.Failures, &ss.FirstSeq, &ss.LastSeq, &ss.DefinitionsHash); err != nil {
			return nil, fmt.Errorf("list sessions: scan: %w", err)
		}
		sessions = append(sessions, ss)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: iterate: %w", err)
	}

	return sessions, nil
}

// MaxSeq returns the highest seq recorded for a session, or 0 if the session
// has no records. A new engine clock for the session starts here.
func (s *Store) MaxSeq(ctx context.Context, sessionToken string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM evaluations WHERE session_token = ?
	`, sessionToken).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}
