package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: parse
description: Parses every field
session_token: s-1
max_magnitude: 100
cases:
  - expr: "1 + 2"
    expect: { value: 3 }
  - expr: "1 < 2"
    expect: { bool: true }
  - expr: "pred(0)"
    expect: { absent: true }
  - expr: "1 % 0"
    expect: { error: DIVISION_BY_ZERO }
  - expr: "4"
assertions:
  - type: trace_order
    exprs: ["1 + 2", "4"]
  - type: all_pass
`))
	require.NoError(t, err)

	assert.Equal(t, "parse", scenario.Name)
	assert.Equal(t, "s-1", scenario.SessionToken)
	assert.Equal(t, 100, scenario.MaxMagnitude)
	require.Len(t, scenario.Cases, 5)
	assert.Equal(t, 3, *scenario.Cases[0].Expect.Value)
	assert.True(t, *scenario.Cases[1].Expect.Bool)
	assert.True(t, scenario.Cases[2].Expect.Absent)
	assert.Equal(t, "DIVISION_BY_ZERO", scenario.Cases[3].Expect.Error)
	assert.Nil(t, scenario.Cases[4].Expect)
	assert.Equal(t, []string{"1 + 2", "4"}, scenario.Assertions[0].Exprs)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: a\ndescription: b\ncases: [{expr: '1'}]\nassertion: []\n", "field assertion not found"},
		{"missing name", "description: b\ncases: [{expr: '1'}]\n", "name is required"},
		{"missing description", "name: a\ncases: [{expr: '1'}]\n", "description is required"},
		{"no cases", "name: a\ndescription: b\n", "cases list is required"},
		{"empty expr", "name: a\ndescription: b\ncases: [{expr: ''}]\n", "cases[0]: expr is required"},
		{"two expectations", "name: a\ndescription: b\ncases: [{expr: '1', expect: {value: 1, bool: true}}]\n", "exactly one of"},
		{"empty expectation", "name: a\ndescription: b\ncases: [{expr: '1', expect: {}}]\n", "exactly one of"},
		{"negative value", "name: a\ndescription: b\ncases: [{expr: '1', expect: {value: -1}}]\n", "value must be non-negative"},
		{"negative magnitude", "name: a\ndescription: b\nmax_magnitude: -1\ncases: [{expr: '1'}]\n", "max_magnitude"},
		{"unknown assertion", "name: a\ndescription: b\ncases: [{expr: '1'}]\nassertions: [{type: final_state}]\n", "unknown assertion type"},
		{"contains without expr", "name: a\ndescription: b\ncases: [{expr: '1'}]\nassertions: [{type: trace_contains}]\n", "expr is required for trace_contains"},
		{"order without exprs", "name: a\ndescription: b\ncases: [{expr: '1'}]\nassertions: [{type: trace_order}]\n", "exprs list is required"},
		{"negative count", "name: a\ndescription: b\ncases: [{expr: '1'}]\nassertions: [{type: trace_count, count: -1}]\n", "count must be non-negative"},
		{"missing type", "name: a\ndescription: b\ncases: [{expr: '1'}]\nassertions: [{count: 1}]\n", "type is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_ResolvesSpecsRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "specs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "specs", "d.cue"), []byte("define: x: 1\n"), 0o644))

	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\ndescription: b\nspecs: [specs/d.cue]\ncases: [{expr: 'x'}]\n"), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "specs", "d.cue")}, scenario.Specs)
}

func TestLoadScenario_MissingSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\ndescription: b\nspecs: [missing.cue]\ncases: [{expr: '1'}]\n"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec file not found")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d.cue"), []byte("define: x: 1\n"), 0o644))

	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\ndescription: b\nspecs: [d.cue]\ncases: [{expr: 'x'}]\n"), 0o644))

	scenario, err := LoadScenarioWithBasePath(path, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "d.cue")}, scenario.Specs)
}
