package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationIssue is one problem found in a specs directory.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	Definitions int               `json:"definitions"`
	Errors      []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate definition specs",
		Long: `Validate the CUE definitions under a directory.

Reports CUE conflicts, negative or non-integer values, expressions that
fail to parse or evaluate, undefined names, and cyclic definitions.

Exit codes:
  0 - All definitions valid
  1 - One or more definitions invalid
  2 - Command error (directory not found, no CUE files)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result, loadErrs := LoadSpecs(specsDir, opts.maxMagnitude())
	if result == nil {
		loadErr := firstLoadError(loadErrs)
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", len(result.Files), specsDir)

	if len(loadErrs) > 0 {
		return outputValidationErrors(formatter, loadErrs)
	}

	for _, name := range result.Definitions.Names {
		formatter.VerboseLog("Validated definition: %s", name)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Definitions: result.Definitions.Len()})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s definitions valid\n", formatCount(result.Definitions.Len()))
	return nil
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, errs []error) error {
	issues := make([]ValidationIssue, len(errs))
	for i, err := range errs {
		loadErr := toLoadError(err)
		issues[i] = ValidationIssue{
			Code:    loadErr.Code,
			Field:   loadErr.Field,
			Message: loadErr.Message,
			Line:    loadErr.Line(),
		}
	}

	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))

	if formatter.Format == "json" {
		if err := formatter.Failure(ValidationResult{Valid: false, Errors: issues}, issues[0].Code, issues[0].Message); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", issue.Line)
		}
		if issue.Field != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", issue.Code, issue.Field, issue.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
		}
	}
	return exitErr
}
