package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("max(1, x2) <= 10^2")
	require.NoError(t, err)

	kinds := make([]TokenKind, len(tokens))
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
		texts[i] = tok.Text
	}

	assert.Equal(t, []TokenKind{
		TokenIdent, TokenLParen, TokenNumber, TokenComma, TokenIdent, TokenRParen,
		TokenOp, TokenNumber, TokenOp, TokenNumber, TokenEOF,
	}, kinds)
	assert.Equal(t, []string{"max", "(", "1", ",", "x2", ")", "<=", "10", "^", "2", ""}, texts)
	assert.Equal(t, 18, tokens[len(tokens)-1].Pos)
}

func TestTokenizeRejectsUnknownCharacter(t *testing.T) {
	_, err := Tokenize("1 & 2")

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Pos)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1+2", "1 + 2"},
		{"1 + 2 * 3", "1 + (2 * 3)"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"(5 + 5) % 4", "(5 + 5) % 4"},
		{"10 - 3 - 2", "(10 - 3) - 2"},
		{"2 ^ 3 ^ 2", "2 ^ (3 ^ 2)"},
		{"2 * 3 ^ 2", "2 * (3 ^ 2)"},
		{"max(1,2,3)", "max(1, 2, 3)"},
		{"S(S(Z))", "S(S(Z))"},
		{"pred(1 + 1) == 1", "pred(1 + 1) == 1"},
		{"f()", "f()"},
		{"((7))", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(n))

			// Canonical form re-parses to the same tree
			again, err := Parse(Format(n))
			require.NoError(t, err)
			assert.Equal(t, Format(n), Format(again))
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in  string
		pos int
	}{
		{"", 0},
		{"   ", 0},
		{"1 +", 3},
		{"(1 + 2", 6},
		{"1 2", 2},
		{"max(1 2)", 6},
		{"1 < 2 < 3", 6},
		{")", 0},
		{"99999999999999999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "expected SyntaxError, got %v", err)
			assert.Equal(t, tt.pos, se.Pos)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("1 +") })
	assert.NotPanics(t, func() { MustParse("1 + 1") })
}

func TestNames(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"1 + 2", []string{}},
		{"Z", []string{}},
		{"ten % four", []string{"four", "ten"}},
		{"max(b, a, S(b)) - pred(c)", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, Names(MustParse(tt.src)))
		})
	}
}
