package testutil

import (
	"github.com/roach88/peano/internal/expr"
	"github.com/roach88/peano/internal/nat"
)

// DefaultSessionToken is used when a scenario does not name its session.
const DefaultSessionToken = "test-session-default"

// FixedSessionGenerator returns the same session token every time, so the
// same scenario produces byte-identical evaluation logs.
//
// Implements engine.SessionTokenGenerator. Stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	token string
}

// NewFixedSessionGenerator creates a generator for token.
// An empty token falls back to DefaultSessionToken.
func NewFixedSessionGenerator(token string) *FixedSessionGenerator {
	if token == "" {
		token = DefaultSessionToken
	}
	return &FixedSessionGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedSessionGenerator) Generate() string {
	return g.token
}

// Env builds an expression env from integer bindings.
// Panics on negative values; use only with literals.
func Env(bindings map[string]int) expr.Env {
	env := make(expr.Env, len(bindings))
	for name, v := range bindings {
		env[name] = nat.MustFromInt(v)
	}
	return env
}
