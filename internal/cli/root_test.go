package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/peano/internal/config"
)

func testConfig() config.Config {
	return config.Config{MaxMagnitude: 65536, Format: "text"}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(testConfig())
	require.NotNil(t, cmd)
	assert.Equal(t, "peano", cmd.Use)
	assert.Contains(t, cmd.Long, "successor")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(testConfig())
	commands := []string{"eval", "compile", "validate", "test", "history", "replay"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(testConfig())

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	magnitudeFlag := cmd.PersistentFlags().Lookup("max-magnitude")
	require.NotNil(t, magnitudeFlag)
	assert.Equal(t, "65536", magnitudeFlag.DefValue)
}

func TestGlobalFlagsFromConfig(t *testing.T) {
	cmd := NewRootCommand(config.Config{MaxMagnitude: 100, Format: "json", Verbose: true})

	assert.Equal(t, "json", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "true", cmd.PersistentFlags().Lookup("verbose").DefValue)
	assert.Equal(t, "100", cmd.PersistentFlags().Lookup("max-magnitude").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand(testConfig())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "eval", "1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDatabaseFallsBackToConfig(t *testing.T) {
	opts := &RootOptions{Config: config.Config{Database: "/tmp/from-env.db"}}

	db, err := opts.database("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", db)

	db, err = opts.database("/tmp/flag.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", db)

	_, err = (&RootOptions{}).database("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PEANO_DB")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMaxMagnitudeFallback(t *testing.T) {
	assert.Equal(t, 10, (&RootOptions{MaxMagnitude: 10}).maxMagnitude())
	assert.Equal(t, 20, (&RootOptions{Config: config.Config{MaxMagnitude: 20}}).maxMagnitude())
	assert.Equal(t, defaultMaxMagnitude, (&RootOptions{}).maxMagnitude())
}
