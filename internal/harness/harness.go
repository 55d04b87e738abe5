package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/peano/internal/compiler"
	"github.com/roach88/peano/internal/engine"
	"github.com/roach88/peano/internal/expr"
	"github.com/roach88/peano/internal/ir"
	"github.com/roach88/peano/internal/store"
	"github.com/roach88/peano/internal/testutil"
)

// Harness executes one scenario.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
//  1. Compile the scenario's definition specs
//  2. Evaluate each case through the engine, checking expectations
//  3. Read the trace back from the store
//  4. Replay the recorded session and flag records that don't reproduce
//  5. Evaluate assertions against the trace
//
// An error is returned only when the scenario cannot be executed; failed
// expectations and assertions are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	defs, err := loadDefinitions(scenario)
	if err != nil {
		return nil, err
	}
	if err := st.WriteDefinitions(ctx, defs.Hash, defs.Defs); err != nil {
		return nil, fmt.Errorf("failed to store definitions: %w", err)
	}

	opts := []engine.Option{
		engine.WithRecorder(st),
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithDefinitions(defs.Env, defs.Hash),
	}
	if scenario.MaxMagnitude > 0 {
		opts = append(opts, engine.WithMaxMagnitude(scenario.MaxMagnitude))
	}

	h := &Harness{
		store:  st,
		engine: engine.New(testutil.NewFixedSessionGenerator(scenario.SessionToken), opts...),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	if err := h.executeCases(ctx, scenario.Cases, result); err != nil {
		return nil, fmt.Errorf("failed to execute cases: %w", err)
	}

	records, err := st.ReadSession(ctx, h.engine.SessionToken())
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	for _, rec := range records {
		result.Trace = append(result.Trace, traceEventFrom(rec))
	}

	if err := h.checkReplay(ctx, records, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// loadDefinitions compiles the scenario's specs, or returns an empty set.
func loadDefinitions(scenario *Scenario) (*compiler.Definitions, error) {
	var opts []compiler.Option
	if scenario.MaxMagnitude > 0 {
		opts = append(opts, compiler.WithMaxMagnitude(scenario.MaxMagnitude))
	}

	if len(scenario.Specs) == 0 {
		return compiler.Restore(nil)
	}

	loaded, errs := compiler.LoadFiles(scenario.Specs)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load specs: %w", errors.Join(errs...))
	}
	defs, errs := compiler.CompileDefinitions(loaded.Value, opts...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to compile definitions: %w", errors.Join(errs...))
	}
	return defs, nil
}

// executeCases evaluates each case and checks its expectation.
func (h *Harness) executeCases(ctx context.Context, cases []Case, result *Result) error {
	for i, c := range cases {
		rec, val, err := h.engine.Eval(ctx, c.Expr)
		var rtErr *engine.RuntimeError
		if err != nil && !errors.As(err, &rtErr) {
			return fmt.Errorf("cases[%d] %q: %w", i, c.Expr, err)
		}

		h.logger.Debug("case evaluated",
			"index", i,
			"expr", rec.Expr,
			"outcome", rec.Outcome,
		)

		if c.Expect == nil {
			continue
		}
		if msg := checkExpect(c.Expect, rec, val); msg != "" {
			result.AddError(fmt.Sprintf("cases[%d] %q: %s", i, c.Expr, msg))
		}
	}
	return nil
}

// checkExpect returns a failure message, or "" if the outcome matches.
func checkExpect(want *Expect, rec ir.Evaluation, val expr.Value) string {
	got := describeEvent(traceEventFrom(rec))
	if rec.Outcome == ir.OutcomeBool || rec.Outcome == ir.OutcomeValue {
		got = string(rec.Outcome) + " " + rec.Result
	}

	switch {
	case want.Value != nil:
		if rec.Outcome == ir.OutcomeValue && val.Kind == expr.KindNat && rec.Result == strconv.Itoa(*want.Value) {
			return ""
		}
		return fmt.Sprintf("expected value %d, got %s", *want.Value, got)

	case want.Bool != nil:
		if rec.Outcome == ir.OutcomeBool && val.Bool == *want.Bool {
			return ""
		}
		return fmt.Sprintf("expected bool %t, got %s", *want.Bool, got)

	case want.Absent:
		if rec.Outcome == ir.OutcomeAbsent {
			return ""
		}
		return fmt.Sprintf("expected absent, got %s", got)

	default:
		if rec.Outcome == ir.OutcomeError && rec.ErrorCode == want.Error {
			return ""
		}
		return fmt.Sprintf("expected error %s, got %s", want.Error, got)
	}
}

// checkReplay re-evaluates the recorded session and reports mismatches.
func (h *Harness) checkReplay(ctx context.Context, records []ir.Evaluation, result *Result) error {
	replay, err := h.engine.Replay(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to replay session: %w", err)
	}
	for _, m := range replay.Mismatches {
		result.AddError(fmt.Sprintf("replay seq %d %q: %s", m.Seq, m.Expr, m.Reason))
	}
	return nil
}
