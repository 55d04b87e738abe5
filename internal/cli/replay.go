package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/peano/internal/compiler"
	"github.com/roach88/peano/internal/engine"
	"github.com/roach88/peano/internal/ir"
	"github.com/roach88/peano/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	SessionToken  string           `json:"session_token"`
	Evaluations   int              `json:"evaluations"`
	Deterministic bool             `json:"deterministic"`
	Mismatches    []ReplayMismatch `json:"mismatches,omitempty"`
}

// ReplayMismatch is one record that did not reproduce.
type ReplayMismatch struct {
	Seq    int64  `json:"seq"`
	Expr   string `json:"expr"`
	Reason string `json:"reason"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay logged sessions and verify determinism",
		Long: `Re-evaluate logged sessions and verify that every record reproduces.

Each record is evaluated again with its own session token, seq and the
definition set it was recorded with. A record whose ID or outcome differs
is reported as a mismatch. Use the --max-magnitude the session was
recorded with.

Exit codes:
  0 - All sessions are deterministic
  1 - At least one record did not reproduce
  2 - Command error (database not found, unknown session, etc.)

Examples:
  peano replay --db ./peano.db
  peano replay --db ./peano.db --session 0192...
  peano replay --db ./peano.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $PEANO_DB)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := opts.formatter(cmd)

	dbPath, err := opts.database(opts.Database)
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var tokens []string
	if opts.Session != "" {
		tokens = []string{opts.Session}
	} else {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		for _, s := range sessions {
			tokens = append(tokens, s.Token)
		}
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(tokens)),
		TotalSessions:    len(tokens),
		AllDeterministic: true,
	}

	if len(tokens) == 0 {
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintln(formatter.Writer, "No sessions found in database.")
		return nil
	}

	for _, token := range tokens {
		formatter.VerboseLog("Replaying session %s", token)
		sessionResult, err := replaySession(ctx, st, token, opts.maxMagnitude())
		if err != nil {
			_ = formatter.Error(ErrCodeReplay, err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", token), err)
		}

		result.Sessions = append(result.Sessions, sessionResult)
		if !sessionResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if formatter.Format == "json" {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter, result)
}

// replaySession re-evaluates one session against its stored definitions.
func replaySession(ctx context.Context, st *store.Store, token string, maxMagnitude int) (ReplaySessionResult, error) {
	records, err := st.ReadSession(ctx, token)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	if len(records) == 0 {
		return ReplaySessionResult{}, fmt.Errorf("session not found: %s", token)
	}

	eng, err := replayEngine(ctx, st, token, records, maxMagnitude)
	if err != nil {
		return ReplaySessionResult{}, err
	}

	replay, err := eng.Replay(ctx, records)
	if err != nil {
		return ReplaySessionResult{}, err
	}

	result := ReplaySessionResult{
		SessionToken:  token,
		Evaluations:   replay.Total,
		Deterministic: replay.OK(),
	}
	for _, m := range replay.Mismatches {
		result.Mismatches = append(result.Mismatches, ReplayMismatch{Seq: m.Seq, Expr: m.Expr, Reason: m.Reason})
	}
	return result, nil
}

// replayEngine builds an engine bound to the definitions the session was
// recorded with. A missing definition set replays against an empty one, so
// records that used definitions surface as mismatches.
func replayEngine(ctx context.Context, st *store.Store, token string, records []ir.Evaluation, maxMagnitude int) (*engine.Engine, error) {
	hash := records[len(records)-1].DefinitionsHash

	stored, err := st.ReadDefinitions(ctx, hash)
	if errors.Is(err, sql.ErrNoRows) {
		stored = nil
	} else if err != nil {
		return nil, err
	}

	defs, err := compiler.Restore(stored)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		hash = defs.Hash
	}

	return engine.New(engine.NewFixedGenerator(token),
		engine.WithDefinitions(defs.Env, hash),
		engine.WithMaxMagnitude(maxMagnitude),
	), nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	if result.AllDeterministic {
		return f.Success(result)
	}

	msg := "replay produced different results"
	if err := f.Failure(result, ErrCodeReplay, msg); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

// outputReplayText outputs the replay result as text.
func outputReplayText(f *OutputFormatter, result ReplayResult) error {
	for _, s := range result.Sessions {
		if s.Deterministic {
			fmt.Fprintf(f.Writer, "✓ %s  %s evaluations reproduced\n", s.SessionToken, formatCount(s.Evaluations))
			continue
		}
		fmt.Fprintf(f.Writer, "✗ %s  %s of %s evaluations differ\n",
			s.SessionToken, formatCount(len(s.Mismatches)), formatCount(s.Evaluations))
		for _, m := range s.Mismatches {
			fmt.Fprintf(f.Writer, "  [%d] %s: %s\n", m.Seq, m.Expr, m.Reason)
		}
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay produced different results")
	}
	fmt.Fprintf(f.Writer, "\n✓ All %s session(s) deterministic\n", formatCount(result.TotalSessions))
	return nil
}
