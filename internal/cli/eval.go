package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/peano/internal/compiler"
	"github.com/roach88/peano/internal/engine"
	"github.com/roach88/peano/internal/ir"
	"github.com/roach88/peano/internal/store"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Database string
	Define   string // specs directory with definitions
	Session  string // append to an existing session

	// SessionGenerator allows overriding the session token generator (for
	// testing). If nil, defaults to UUIDv7Generator.
	SessionGenerator engine.SessionTokenGenerator
}

// EvalLine is one evaluated expression in eval output.
type EvalLine struct {
	ID        string `json:"id"`
	Seq       int64  `json:"seq"`
	Expr      string `json:"expr"`
	Outcome   string `json:"outcome"`
	Result    string `json:"result,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`
}

// EvalResult holds the outcome of an eval command.
type EvalResult struct {
	SessionToken    string     `json:"session_token"`
	DefinitionsHash string     `json:"definitions_hash"`
	Evaluations     []EvalLine `json:"evaluations"`
	Failures        int        `json:"failures"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval [expr...]",
		Short: "Evaluate expressions",
		Long: `Evaluate natural-number expressions in one session.

Expressions are read from the arguments, or one per line from stdin when
no arguments are given. With --db every evaluation is logged to SQLite;
--session appends to an existing logged session.

Exit codes:
  0 - Every expression evaluated
  1 - At least one expression failed (division by zero, syntax, ...)
  2 - Command error (invalid definitions, database error, etc.)

Examples:
  peano eval "(5 + 5) % 4" "pred(0)"
  peano eval --define ./specs "four ^ two"
  peano eval --db ./peano.db --format json "7 / 2"`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $PEANO_DB)")
	cmd.Flags().StringVar(&opts.Define, "define", "", "directory of CUE definition specs")
	cmd.Flags().StringVar(&opts.Session, "session", "", "append to this session (requires --db)")

	return cmd
}

func runEval(opts *EvalOptions, args []string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := opts.formatter(cmd)

	exprs := args
	if len(exprs) == 0 {
		var err error
		exprs, err = readExpressions(cmd.InOrStdin())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read expressions", err)
		}
	}
	if len(exprs) == 0 {
		_ = formatter.Error(ErrCodeGeneric, "no expressions given", nil)
		return NewExitError(ExitCommandError, "no expressions given")
	}

	defs, err := evalDefinitions(opts)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded %d definition(s), hash %s", defs.Len(), defs.Hash)

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Config.Database
	}
	if opts.Session != "" && dbPath == "" {
		_ = formatter.Error(ErrCodeGeneric, "--session requires --db", nil)
		return NewExitError(ExitCommandError, "--session requires --db")
	}

	engineOpts := []engine.Option{
		engine.WithMaxMagnitude(opts.maxMagnitude()),
		engine.WithDefinitions(defs.Env, defs.Hash),
	}
	gen := opts.SessionGenerator
	if gen == nil {
		gen = engine.UUIDv7Generator{}
	}

	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		if err := st.WriteDefinitions(ctx, defs.Hash, defs.Defs); err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to store definitions", err)
		}
		engineOpts = append(engineOpts, engine.WithRecorder(st))

		if opts.Session != "" {
			clock, err := resumeSession(ctx, st, opts.Session, defs.Hash)
			if err != nil {
				_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to resume session", err)
			}
			gen = engine.NewFixedGenerator(opts.Session)
			engineOpts = append(engineOpts, engine.WithClock(clock))
		}
	}

	eng := engine.New(gen, engineOpts...)
	slog.Debug("session started", "session", eng.SessionToken(), "db", dbPath)

	result := EvalResult{
		SessionToken:    eng.SessionToken(),
		DefinitionsHash: eng.DefinitionsHash(),
		Evaluations:     make([]EvalLine, 0, len(exprs)),
	}

	for _, src := range exprs {
		rec, _, err := eng.Eval(ctx, src)
		line := EvalLine{
			ID:        rec.ID,
			Seq:       rec.Seq,
			Expr:      rec.Expr,
			Outcome:   string(rec.Outcome),
			Result:    rec.Result,
			ErrorCode: rec.ErrorCode,
		}

		var rtErr *engine.RuntimeError
		switch {
		case err == nil:
		case errors.As(err, &rtErr):
			line.Message = rtErr.Message
			result.Failures++
		default:
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to evaluate %q", src), err)
		}

		result.Evaluations = append(result.Evaluations, line)
		if formatter.Format != "json" {
			writeEvalLine(formatter, rec, line)
		}
	}

	if formatter.Format == "json" {
		if result.Failures > 0 {
			if err := formatter.Failure(result, "E_EVAL_FAILED", fmt.Sprintf("%d evaluation(s) failed", result.Failures)); err != nil {
				return err
			}
		} else if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		formatter.VerboseLog("session %s", result.SessionToken)
	}

	if result.Failures > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d evaluation(s) failed", result.Failures))
	}
	return nil
}

// evalDefinitions loads --define specs, or returns the empty definition set.
func evalDefinitions(opts *EvalOptions) (*compiler.Definitions, error) {
	if opts.Define == "" {
		defs, err := compiler.Restore(nil)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to build definitions", err)
		}
		return defs, nil
	}

	loaded, errs := LoadSpecs(opts.Define, opts.maxMagnitude())
	if len(errs) > 0 {
		loadErr := firstLoadError(errs)
		return nil, WrapExitError(ExitCommandError, "invalid definitions", loadErr)
	}
	return loaded.Definitions, nil
}

// resumeSession returns a clock continuing after the session's last seq.
// A session cannot mix definition sets, since replay checks each record
// against a single set.
func resumeSession(ctx context.Context, st *store.Store, token, defsHash string) (*engine.Clock, error) {
	records, err := st.ReadSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("session not found: %s", token)
	}
	if last := records[len(records)-1]; last.DefinitionsHash != defsHash {
		return nil, fmt.Errorf("session %s was recorded with different definitions", token)
	}

	maxSeq, err := st.MaxSeq(ctx, token)
	if err != nil {
		return nil, err
	}
	return engine.NewClockAt(maxSeq), nil
}

// readExpressions returns the non-blank lines of r, skipping # comments.
func readExpressions(r io.Reader) ([]string, error) {
	var exprs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exprs = append(exprs, line)
	}
	return exprs, scanner.Err()
}

func writeEvalLine(f *OutputFormatter, rec ir.Evaluation, line EvalLine) {
	if rec.Outcome == ir.OutcomeError {
		fmt.Fprintf(f.Writer, "%s => error %s: %s\n", line.Expr, line.ErrorCode, line.Message)
		return
	}
	fmt.Fprintf(f.Writer, "%s => %s\n", line.Expr, formatOutcome(rec))
}
