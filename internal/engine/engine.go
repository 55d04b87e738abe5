package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/peano/internal/expr"
	"github.com/roach88/peano/internal/ir"
)

// Recorder persists evaluation records. Implemented by *store.Store.
type Recorder interface {
	WriteEvaluation(ctx context.Context, e ir.Evaluation) error
}

// Engine evaluates expressions for one session.
type Engine struct {
	recorder     Recorder // nil disables recording
	clock        SeqSource
	sessionToken string
	env          expr.Env
	defsHash     string
	maxMagnitude int
	quota        *QuotaEnforcer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder appends every evaluation to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithClock sets the seq source. Use NewClockAt to continue an existing session.
func WithClock(c SeqSource) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithMaxMagnitude bounds literal and intermediate values.
// Zero or negative disables the limit.
func WithMaxMagnitude(n int) Option {
	return func(e *Engine) {
		e.maxMagnitude = n
	}
}

// WithMaxEvaluations sets the per-session evaluation quota.
func WithMaxEvaluations(n int) Option {
	return func(e *Engine) {
		e.quota = NewQuotaEnforcer(n)
	}
}

// WithDefinitions binds names for expressions to refer to.
// hash identifies the binding set and is folded into every evaluation ID.
func WithDefinitions(env expr.Env, hash string) Option {
	return func(e *Engine) {
		e.env = env.Clone()
		e.defsHash = hash
	}
}

// emptyDefinitionsHash identifies a session without definitions.
var emptyDefinitionsHash = func() string {
	h, err := ir.DefinitionsHash(nil)
	if err != nil {
		panic(err)
	}
	return h
}()

// New creates an engine for a new session whose token comes from gen.
//
// Example:
//
//	eng := engine.New(engine.UUIDv7Generator{}, engine.WithRecorder(st))
//	rec, val, err := eng.Eval(ctx, "(5 + 5) % 4")
func New(gen SessionTokenGenerator, opts ...Option) *Engine {
	e := &Engine{
		clock:        NewClock(),
		sessionToken: gen.Generate(),
		env:          expr.Env{},
		defsHash:     emptyDefinitionsHash,
		maxMagnitude: DefaultMaxMagnitude,
		quota:        NewQuotaEnforcer(DefaultMaxEvaluations),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SessionToken returns the token of the engine's session.
func (e *Engine) SessionToken() string {
	return e.sessionToken
}

// DefinitionsHash returns the hash of the engine's definitions.
func (e *Engine) DefinitionsHash() string {
	return e.defsHash
}

// Eval evaluates src, stamps it with the next seq and records it.
//
// Evaluation failures (division by zero, syntax errors, ...) are outcomes:
// the record is returned and written with OutcomeError, and the error is a
// *RuntimeError. Any other error means nothing was recorded.
func (e *Engine) Eval(ctx context.Context, src string) (ir.Evaluation, expr.Value, error) {
	if err := ctx.Err(); err != nil {
		return ir.Evaluation{}, expr.Value{}, err
	}
	if err := e.quota.Check(e.sessionToken); err != nil {
		return ir.Evaluation{}, expr.Value{}, err
	}

	seq := e.clock.Next()
	slog.Debug("evaluating expression",
		"session", e.sessionToken,
		"seq", seq,
		"expr", src,
	)

	rec, val, rtErr, err := e.evaluate(e.sessionToken, src, seq)
	if err != nil {
		return ir.Evaluation{}, expr.Value{}, err
	}

	if e.recorder != nil {
		if err := e.recorder.WriteEvaluation(ctx, rec); err != nil {
			slog.Error("failed to record evaluation",
				"session", e.sessionToken,
				"seq", seq,
				"error", err,
			)
			return ir.Evaluation{}, expr.Value{}, fmt.Errorf("record evaluation seq %d: %w", seq, err)
		}
	}

	slog.Debug("evaluation complete",
		"session", e.sessionToken,
		"seq", seq,
		"outcome", rec.Outcome,
		"result", rec.Result,
		"error_code", rec.ErrorCode,
	)

	if rtErr != nil {
		return rec, expr.Value{}, rtErr
	}
	return rec, val, nil
}

// evaluate is the pure part of Eval: it never touches the clock, quota or
// recorder, which lets Replay reuse it with historical seqs.
func (e *Engine) evaluate(sessionToken, src string, seq int64) (ir.Evaluation, expr.Value, *RuntimeError, error) {
	canonical := strings.TrimSpace(src)
	node, parseErr := expr.Parse(src)
	if parseErr == nil {
		canonical = expr.Format(node)
	}

	id, err := ir.EvaluationID(sessionToken, canonical, e.defsHash, seq)
	if err != nil {
		return ir.Evaluation{}, expr.Value{}, nil, fmt.Errorf("compute evaluation ID: %w", err)
	}

	rec := ir.Evaluation{
		ID:              id,
		SessionToken:    sessionToken,
		Expr:            canonical,
		Seq:             seq,
		DefinitionsHash: e.defsHash,
		EngineVersion:   ir.EngineVersion,
		IRVersion:       ir.IRVersion,
	}

	var val expr.Value
	evalErr := parseErr
	if evalErr == nil {
		ev := &expr.Evaluator{Env: e.env, MaxMagnitude: e.maxMagnitude}
		val, evalErr = ev.Eval(node)
	}

	if evalErr != nil {
		rtErr := newRuntimeError(evalErr, sessionToken, canonical, seq)
		rec.Outcome = ir.OutcomeError
		rec.ErrorCode = string(rtErr.Code)
		return rec, expr.Value{}, rtErr, nil
	}

	rec.Outcome, rec.Result = outcomeOf(val)
	return rec, val, nil, nil
}

// outcomeOf renders a value as a stored outcome and result.
func outcomeOf(v expr.Value) (ir.Outcome, string) {
	switch v.Kind {
	case expr.KindBool:
		return ir.OutcomeBool, strconv.FormatBool(v.Bool)
	case expr.KindAbsent:
		return ir.OutcomeAbsent, ""
	default:
		return ir.OutcomeValue, v.Nat.String()
	}
}
