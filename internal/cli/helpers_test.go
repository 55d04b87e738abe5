package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/peano/internal/engine"
)

const specsDir = "../../testdata/specs"

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(testConfig())
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// evalInto evaluates exprs into the database at dbPath under a fixed
// session token.
func evalInto(t *testing.T, dbPath, token string, define string, exprs ...string) (string, error) {
	t.Helper()

	opts := &EvalOptions{
		RootOptions:      &RootOptions{Format: "text", MaxMagnitude: 65536},
		Database:         dbPath,
		Define:           define,
		SessionGenerator: engine.NewFixedGenerator(token),
	}
	cmd := NewEvalCommand(opts.RootOptions)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	err := runEval(opts, exprs, cmd)
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "peano.db")
}

// decodeResponse decodes a JSON CLIResponse whose data has type T.
func decodeResponse[T any](t *testing.T, out string) (CLIResponse, T) {
	t.Helper()

	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.NewDecoder(strings.NewReader(out)).Decode(&raw), "output: %s", out)

	var data T
	if len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, &data))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}, data
}
