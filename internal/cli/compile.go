package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/peano/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult holds the compiled definition set.
type CompilationResult struct {
	Hash        string          `json:"hash"`
	Definitions []ir.Definition `json:"definitions"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile definition specs to canonical JSON",
		Long: `Compile the CUE definitions under a directory to canonical JSON.

Each definition is resolved to its decimal value, in dependency order.
The hash identifies the definition set; evaluations made with these
definitions carry the same hash.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, loadErrs := LoadSpecs(specsDir, opts.maxMagnitude())
	if loaded == nil {
		loadErr := firstLoadError(loadErrs)
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
	}
	if len(loadErrs) > 0 {
		return outputValidationErrors(formatter, loadErrs)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", len(loaded.Files), specsDir)

	result := CompilationResult{
		Hash:        loaded.Definitions.Hash,
		Definitions: loaded.Definitions.Defs,
	}

	if opts.Output != "" {
		if err := writeDefinitionsFile(result, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "failed to write output file", err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %s definitions\n", formatCount(len(result.Definitions)))
	fmt.Fprintf(formatter.Writer, "  hash: %s\n", result.Hash)
	for _, d := range result.Definitions {
		fmt.Fprintf(formatter.Writer, "  %s = %s\n", d.Name, formatOutcome(ir.Evaluation{Outcome: ir.OutcomeValue, Result: d.Value}))
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "  written to %s\n", opts.Output)
	}
	return nil
}

// writeDefinitionsFile writes the result as canonical JSON.
func writeDefinitionsFile(result CompilationResult, path string) error {
	defs := make([]any, len(result.Definitions))
	for i, d := range result.Definitions {
		defs[i] = map[string]any{
			"name":   d.Name,
			"source": d.Source,
			"value":  d.Value,
		}
	}

	data, err := ir.MarshalCanonical(map[string]any{
		"hash":        result.Hash,
		"definitions": defs,
	})
	if err != nil {
		return fmt.Errorf("marshal definitions: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
