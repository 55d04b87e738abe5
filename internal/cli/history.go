package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/peano/internal/ir"
	"github.com/roach88/peano/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Session  string // optional - show one session's evaluations
	Failed   bool   // only failed evaluations, across sessions
	Code     string // with Failed, only this error code
}

// SessionInfo describes one logged session.
type SessionInfo struct {
	SessionToken    string `json:"session_token"`
	Evaluations     int    `json:"evaluations"`
	Failures        int    `json:"failures"`
	FirstSeq        int64  `json:"first_seq"`
	LastSeq         int64  `json:"last_seq"`
	DefinitionsHash string `json:"definitions_hash"`
}

// HistoryResult holds history output. Exactly one of Sessions and
// Evaluations is set.
type HistoryResult struct {
	Sessions    []SessionInfo   `json:"sessions,omitempty"`
	Evaluations []ir.Evaluation `json:"evaluations,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged evaluations",
		Long: `List the evaluations logged to a database.

Without --session, lists every session with its evaluation and failure
counts. With --session, shows that session's evaluations in seq order.
--failed lists failed evaluations across all sessions, optionally only
those with the error code given by --code.

Examples:
  peano history --db ./peano.db
  peano history --db ./peano.db --session 0192...
  peano history --db ./peano.db --failed --code DIVISION_BY_ZERO`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $PEANO_DB)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "show one session's evaluations")
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "list failed evaluations")
	cmd.Flags().StringVar(&opts.Code, "code", "", "with --failed, only this error code")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := opts.formatter(cmd)

	dbPath, err := opts.database(opts.Database)
	if err != nil {
		return err
	}
	if opts.Session != "" && opts.Failed {
		return NewExitError(ExitCommandError, "--session and --failed are mutually exclusive")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	switch {
	case opts.Session != "":
		records, err := st.ReadSession(ctx, opts.Session)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read session", err)
		}
		if len(records) == 0 {
			msg := fmt.Sprintf("session not found: %s", opts.Session)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		return outputEvaluations(formatter, records, false)

	case opts.Failed:
		records, err := st.ReadFailures(ctx, opts.Code)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read failures", err)
		}
		return outputEvaluations(formatter, records, true)

	default:
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		return outputSessions(formatter, sessions)
	}
}

func outputSessions(f *OutputFormatter, sessions []store.SessionSummary) error {
	infos := make([]SessionInfo, len(sessions))
	for i, s := range sessions {
		infos[i] = SessionInfo{
			SessionToken:    s.Token,
			Evaluations:     s.Count,
			Failures:        s.Failures,
			FirstSeq:        s.FirstSeq,
			LastSeq:         s.LastSeq,
			DefinitionsHash: s.DefinitionsHash,
		}
	}

	if f.Format == "json" {
		return f.Success(HistoryResult{Sessions: infos})
	}

	if len(infos) == 0 {
		fmt.Fprintln(f.Writer, "No sessions found in database.")
		return nil
	}
	for _, s := range infos {
		fmt.Fprintf(f.Writer, "%s  %s evaluations, %s failed  (seq %d-%d)\n",
			s.SessionToken, formatCount(s.Evaluations), formatCount(s.Failures), s.FirstSeq, s.LastSeq)
	}
	return nil
}

func outputEvaluations(f *OutputFormatter, records []ir.Evaluation, withSession bool) error {
	if f.Format == "json" {
		if records == nil {
			records = []ir.Evaluation{}
		}
		return f.Success(HistoryResult{Evaluations: records})
	}

	if len(records) == 0 {
		fmt.Fprintln(f.Writer, "No evaluations found.")
		return nil
	}
	for _, rec := range records {
		if withSession {
			fmt.Fprintf(f.Writer, "%s ", rec.SessionToken)
		}
		fmt.Fprintf(f.Writer, "[%d] %s => %s\n", rec.Seq, rec.Expr, formatOutcome(rec))
	}
	return nil
}
