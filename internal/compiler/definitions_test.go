package compiler

import (
	"errors"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/peano/internal/ir"
	"github.com/roach88/peano/internal/nat"
)

func compileString(t *testing.T, src string, opts ...Option) (*Definitions, []error) {
	t.Helper()
	v := cuecontext.New().CompileString(src, cue.Filename("defs.cue"))
	require.NoError(t, v.Err())
	return CompileDefinitions(v, opts...)
}

// codes extracts CompileError codes in order.
func codes(t *testing.T, errs []error) []string {
	t.Helper()
	var out []string
	for _, err := range errs {
		var ce *CompileError
		require.True(t, errors.As(err, &ce), "want *CompileError, got %T: %v", err, err)
		out = append(out, ce.Code)
	}
	return out
}

func TestCompileDefinitionsBasic(t *testing.T) {
	defs, errs := compileString(t, `
		define: {
			ten:  "five + five"
			five: 5
			four: "S(S(S(S(Z))))"
		}
	`)
	require.Empty(t, errs)

	assert.Equal(t, []string{"five", "four", "ten"}, defs.Names)
	assert.Equal(t, 3, defs.Len())
	assert.Equal(t, 10, nat.ToInt(defs.Env["ten"]))
	assert.Equal(t, 4, nat.ToInt(defs.Env["four"]))

	assert.Equal(t, ir.Definition{Name: "ten", Source: "five + five", Value: "10"}, defs.Defs[2])
	assert.Equal(t, ir.Definition{Name: "five", Source: "5", Value: "5"}, defs.Defs[0])

	want, err := ir.DefinitionsHash(map[string]string{"five": "5", "four": "4", "ten": "10"})
	require.NoError(t, err)
	assert.Equal(t, want, defs.Hash)
}

func TestCompileDefinitionsDependencyOrder(t *testing.T) {
	defs, errs := compileString(t, `
		define: {
			a: "b * 2"
			b: "c + 1"
			c: 1
			z: 0
		}
	`)
	require.Empty(t, errs)

	assert.Equal(t, []string{"c", "b", "a", "z"}, defs.Names)
	assert.Equal(t, 4, nat.ToInt(defs.Env["a"]))
}

func TestCompileDefinitionsMissingDefine(t *testing.T) {
	defs, errs := compileString(t, `other: 1`)
	require.Empty(t, errs)

	assert.Equal(t, 0, defs.Len())
	assert.NotNil(t, defs.Defs)

	empty, err := ir.DefinitionsHash(nil)
	require.NoError(t, err)
	assert.Equal(t, empty, defs.Hash)
}

func TestCompileDefinitionsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"negative", `define: x: -1`, []string{ErrCodeNegative}},
		{"float", `define: x: 1.5`, []string{ErrCodeBadType}},
		{"bool", `define: x: true`, []string{ErrCodeBadType}},
		{"struct", `define: x: {a: 1}`, []string{ErrCodeBadType}},
		{"not concrete", `define: x: int`, []string{ErrCodeBadType}},
		{"bad expression", `define: x: "1 +"`, []string{ErrCodeBadExpr}},
		{"undefined", `define: x: "y + 1"`, []string{ErrCodeUndefined}},
		{"self cycle", `define: x: "x + 1"`, []string{ErrCodeCycle}},
		{"reserved", `define: pred: 1`, []string{ErrCodeReservedName}},
		{"bad name", `define: "two words": 1`, []string{ErrCodeReservedName}},
		{"comparison", `define: x: "1 < 2"`, []string{ErrCodeBadType}},
		{"absent", `define: x: "pred(0)"`, []string{ErrCodeBadType}},
		{"division by zero", `define: x: "1 % 0"`, []string{ErrCodeBadExpr}},
		{"collects all", `define: {a: -1, b: true}`, []string{ErrCodeNegative, ErrCodeBadType}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs, errs := compileString(t, tt.src)
			assert.Nil(t, defs)
			assert.Equal(t, tt.want, codes(t, errs))
		})
	}
}

func TestCompileDefinitionsDependentOfInvalidIsNotUndefined(t *testing.T) {
	_, errs := compileString(t, `
		define: {
			a: -1
			b: "a + 1"
		}
	`)
	assert.Equal(t, []string{ErrCodeNegative}, codes(t, errs))
}

func TestCompileDefinitionsCycle(t *testing.T) {
	_, errs := compileString(t, `
		define: {
			a: "b + 1"
			b: "c + 1"
			c: "a + 1"
			d: 1
		}
	`)
	require.Len(t, errs, 1)

	var ce *CompileError
	require.ErrorAs(t, errs[0], &ce)
	assert.Equal(t, ErrCodeCycle, ce.Code)
	assert.Equal(t, "define.a", ce.Field)
	assert.Equal(t, "definition cycle: a → b → c → a", ce.Message)
	assert.True(t, ce.Pos.IsValid())
	assert.Equal(t, "defs.cue", ce.Pos.Filename())
}

func TestCompileDefinitionsMagnitude(t *testing.T) {
	_, errs := compileString(t, `define: big: "2 ^ 10"`, WithMaxMagnitude(100))
	assert.Equal(t, []string{ErrCodeBadExpr}, codes(t, errs))

	defs, errs := compileString(t, `define: big: "2 ^ 10"`)
	require.Empty(t, errs)
	assert.Equal(t, 1024, nat.ToInt(defs.Env["big"]))
}

func TestCompileDefinitionsCUEError(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`define: x: 1`).Unify(ctx.CompileString(`define: x: 2`))
	_, errs := CompileDefinitions(v)
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrCodeCUE, codes(t, errs)[0])
}

func TestRestore(t *testing.T) {
	compiled, errs := compileString(t, `define: {two: 2, ten: "5 + 5"}`)
	require.Empty(t, errs)

	restored, err := Restore(compiled.Defs)
	require.NoError(t, err)

	assert.Equal(t, compiled.Hash, restored.Hash)
	assert.Equal(t, compiled.Names, restored.Names)
	assert.True(t, nat.Equal(compiled.Env["ten"], restored.Env["ten"]))

	_, err = Restore([]ir.Definition{{Name: "x", Source: "1", Value: "-1"}})
	assert.Error(t, err)
}

func TestCompileErrorString(t *testing.T) {
	err := &CompileError{Code: ErrCodeNegative, Field: "define.x", Message: "negative"}
	assert.Equal(t, "[E102] define.x: negative", err.Error())
}
