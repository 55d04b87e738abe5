package compiler

import (
	"fmt"
	"log/slog"
	"regexp"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/peano/internal/expr"
	"github.com/roach88/peano/internal/ir"
	"github.com/roach88/peano/internal/nat"
)

// Definitions is a compiled set of named bindings.
type Definitions struct {
	Names []string        // resolution order
	Defs  []ir.Definition // same order as Names
	Env   expr.Env
	Hash  string
}

// Len returns the number of definitions.
func (d *Definitions) Len() int {
	return len(d.Names)
}

// Option configures compilation.
type Option func(*options)

type options struct {
	maxMagnitude int
}

// WithMaxMagnitude bounds the values definitions may evaluate to.
func WithMaxMagnitude(n int) Option {
	return func(o *options) {
		o.maxMagnitude = n
	}
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedNames are builtins an expression could not refer to as bindings.
var reservedNames = map[string]bool{
	"Z": true, "S": true, "pred": true, "min": true, "max": true, "distance": true,
}

// pending is a definition that passed static checks.
type pending struct {
	name   string
	source string
	node   expr.Node
	pos    token.Pos
}

// CompileDefinitions compiles the "define" struct of a CUE value.
// A value without a "define" field compiles to an empty set.
// Returns all errors found (does not fail-fast).
func CompileDefinitions(v cue.Value, opts ...Option) (*Definitions, []error) {
	o := options{maxMagnitude: expr.DefaultMaxMagnitude}
	for _, opt := range opts {
		opt(&o)
	}

	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err, "define")
	}

	defineVal := v.LookupPath(cue.ParsePath("define"))
	if !defineVal.Exists() {
		return build(nil, expr.Env{})
	}
	if err := defineVal.Err(); err != nil {
		return nil, formatCUEError(err, "define")
	}

	iter, err := defineVal.Fields()
	if err != nil {
		return nil, formatCUEError(err, "define")
	}

	var (
		errs  []error
		items = map[string]pending{}
	)
	for iter.Next() {
		p, err := compileField(iter.Label(), iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items[p.name] = p
	}

	// Names that failed static checks still count as defined, so their
	// dependents are not also reported as undefined.
	declared := map[string]bool{}
	iter, _ = defineVal.Fields()
	for iter.Next() {
		declared[iter.Label()] = true
	}

	graph := dependencyGraph{}
	for name, p := range items {
		graph[name] = []string{}
		for _, dep := range expr.Names(p.node) {
			if !declared[dep] {
				errs = append(errs, &CompileError{
					Code:    ErrCodeUndefined,
					Field:   "define." + name,
					Message: fmt.Sprintf("undefined name %q", dep),
					Pos:     p.pos,
				})
				continue
			}
			graph[name] = append(graph[name], dep)
		}
	}

	for _, path := range findCycles(graph) {
		errs = append(errs, &CompileError{
			Code:    ErrCodeCycle,
			Field:   "define." + path[0],
			Message: cycleMessage(path),
			Pos:     items[path[0]].pos,
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	env := expr.Env{}
	ev := &expr.Evaluator{Env: env, MaxMagnitude: o.maxMagnitude}
	var defs []ir.Definition
	for _, name := range resolutionOrder(graph) {
		p := items[name]
		val, err := ev.Eval(p.node)
		if err != nil {
			errs = append(errs, &CompileError{
				Code:    ErrCodeBadExpr,
				Field:   "define." + name,
				Message: err.Error(),
				Pos:     p.pos,
			})
			continue
		}
		if val.Kind != expr.KindNat {
			errs = append(errs, &CompileError{
				Code:    ErrCodeBadType,
				Field:   "define." + name,
				Message: fmt.Sprintf("expression %q yields a %s, not a number", p.source, val.Kind),
				Pos:     p.pos,
			})
			continue
		}

		env[name] = val.Nat
		defs = append(defs, ir.Definition{Name: name, Source: p.source, Value: val.Nat.String()})
		slog.Debug("definition resolved", "name", name, "value", val.Nat.String())
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return build(defs, env)
}

// compileField checks one field of "define" and parses its expression.
func compileField(label string, v cue.Value) (pending, error) {
	field := "define." + label
	p := pending{name: label, pos: v.Pos()}

	if err := v.Err(); err != nil {
		return p, formatCUEError(err, field)[0]
	}

	if !identPattern.MatchString(label) || reservedNames[label] {
		return p, &CompileError{
			Code:    ErrCodeReservedName,
			Field:   field,
			Message: fmt.Sprintf("%q cannot be used as a definition name", label),
			Pos:     p.pos,
		}
	}

	if !v.IsConcrete() {
		return p, &CompileError{
			Code:    ErrCodeBadType,
			Field:   field,
			Message: "value must be concrete",
			Pos:     p.pos,
		}
	}

	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return p, &CompileError{Code: ErrCodeBadType, Field: field, Message: err.Error(), Pos: p.pos}
		}
		if n < 0 {
			return p, &CompileError{
				Code:    ErrCodeNegative,
				Field:   field,
				Message: fmt.Sprintf("%d is negative: natural numbers start at zero", n),
				Pos:     p.pos,
			}
		}
		p.source = fmt.Sprintf("%d", n)

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return p, &CompileError{Code: ErrCodeBadType, Field: field, Message: err.Error(), Pos: p.pos}
		}
		p.source = s

	default:
		return p, &CompileError{
			Code:    ErrCodeBadType,
			Field:   field,
			Message: fmt.Sprintf("unsupported value kind %s: want int or expression string", v.Kind()),
			Pos:     p.pos,
		}
	}

	node, err := expr.Parse(p.source)
	if err != nil {
		return p, &CompileError{
			Code:    ErrCodeBadExpr,
			Field:   field,
			Message: err.Error(),
			Pos:     p.pos,
		}
	}
	p.node = node
	return p, nil
}

// Restore rebuilds a definition set from stored definitions, e.g. for replay.
// Stored values are taken as-is; sources are not re-evaluated.
func Restore(stored []ir.Definition) (*Definitions, error) {
	env := make(expr.Env, len(stored))
	for _, d := range stored {
		n, err := nat.Parse(d.Value)
		if err != nil {
			return nil, fmt.Errorf("restore definition %q: %w", d.Name, err)
		}
		env[d.Name] = n
	}
	defs, errs := build(stored, env)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return defs, nil
}

// build assembles Definitions and computes their hash.
func build(defs []ir.Definition, env expr.Env) (*Definitions, []error) {
	bindings := make(map[string]string, len(defs))
	names := make([]string, len(defs))
	for i, d := range defs {
		bindings[d.Name] = d.Value
		names[i] = d.Name
	}

	hash, err := ir.DefinitionsHash(bindings)
	if err != nil {
		return nil, []error{fmt.Errorf("hash definitions: %w", err)}
	}

	if defs == nil {
		defs = []ir.Definition{}
	}
	return &Definitions{Names: names, Defs: defs, Env: env, Hash: hash}, nil
}
