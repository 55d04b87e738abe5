package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidSpecs(t *testing.T) {
	out, err := execute(t, "validate", specsDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 6 definitions valid")
}

func TestValidateValidSpecsJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", specsDir)
	require.NoError(t, err)

	resp, result := decodeResponse[ValidationResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 6, result.Definitions)
}

func TestValidateInvalidSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec string
		code string
	}{
		{"cycle", "define: {a: \"b\", b: \"a\"}\n", "E101"},
		{"negative", "define: a: -1\n", "E102"},
		{"bad type", "define: a: 1.5\n", "E103"},
		{"bad expr", "define: a: \"1 +\"\n", "E104"},
		{"undefined", "define: a: \"b + 1\"\n", "E105"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSpec(t, dir, "defs.cue", tt.spec)

			out, err := execute(t, "validate", dir)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "✗ Validation failed")
			assert.Contains(t, out, tt.code)
		})
	}
}

func TestValidateInvalidSpecsJSON(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "defs.cue", "define: {a: \"b\", b: \"a\"}\n")

	out, err := execute(t, "--format", "json", "validate", dir)
	require.Error(t, err)

	resp, result := decodeResponse[ValidationResult](t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E101", resp.Error.Code)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "E101", result.Errors[0].Code)
}

func TestValidateMissingDirectory(t *testing.T) {
	out, err := execute(t, "validate", "/nonexistent/specs")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E003")
}

func TestValidateRequiresArgument(t *testing.T) {
	_, err := execute(t, "validate")
	require.Error(t, err)
}
