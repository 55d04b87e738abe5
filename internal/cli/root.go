package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/peano/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// MaxMagnitude bounds literals and intermediate results. Replay must
	// use the limit the session was recorded with.
	MaxMagnitude int

	// Config supplies environment defaults for command flags.
	Config config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the peano CLI.
// cfg provides the defaults for flags that were not set explicitly.
func NewRootCommand(cfg config.Config) *cobra.Command {
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:   "peano",
		Short: "peano - natural numbers from zero and successor",
		Long: `Evaluate arithmetic over unary natural numbers.

Every number is built from Z (zero) and S (successor). Expressions are
evaluated by structural recursion, logged to SQLite, and replayed to
verify that every recorded result reproduces.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.MaxMagnitude < 0 {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid max magnitude %d: must be positive", opts.MaxMagnitude))
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", cfg.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", defaultFormat(cfg.Format), "output format (json|text)")
	cmd.PersistentFlags().IntVar(&opts.MaxMagnitude, "max-magnitude", cfg.MaxMagnitude, "largest number an evaluation may produce")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

// configureLogging routes slog output to stderr. Debug records are only
// emitted in verbose mode.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func defaultFormat(f string) string {
	if f == "" {
		return "text"
	}
	return f
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// maxMagnitude returns the magnitude limit, falling back to the engine
// default when options were built by hand.
func (o *RootOptions) maxMagnitude() int {
	if o.MaxMagnitude > 0 {
		return o.MaxMagnitude
	}
	if o.Config.MaxMagnitude > 0 {
		return o.Config.MaxMagnitude
	}
	return defaultMaxMagnitude
}

// database returns the flag value, or the configured database when the flag
// is empty.
func (o *RootOptions) database(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if o.Config.Database != "" {
		return o.Config.Database, nil
	}
	return "", NewExitError(ExitCommandError, "required flag \"db\" not set (or set PEANO_DB)")
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// commandContext returns the command's context, or Background when the
// command is run without Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
