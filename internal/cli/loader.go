package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/peano/internal/compiler"
)

// Error code constants shared by all CLI commands. Compile errors keep the
// compiler's own E1xx codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeDatabase    = "E008" // Database open/read/write error
	ErrCodeReplay      = "E009" // Replay found mismatching records
)

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Line returns the source line of the error, or 0 when unknown.
func (e *LoadError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// LoadResult holds compiled definitions and the files they came from.
type LoadResult struct {
	Definitions *compiler.Definitions
	Files       []string
}

// LoadSpecs compiles the definitions declared in the CUE files under dir.
// Every returned error is a *LoadError. A nil result with errors means the
// directory itself could not be used.
func LoadSpecs(dir string, maxMagnitude int) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := compiler.FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	loaded, errs := compiler.LoadFiles(files)
	if len(errs) > 0 {
		return &LoadResult{Files: files}, toLoadErrors(errs)
	}

	defs, errs := compiler.CompileDefinitions(loaded.Value, compiler.WithMaxMagnitude(maxMagnitude))
	if len(errs) > 0 {
		return &LoadResult{Files: files}, toLoadErrors(errs)
	}

	return &LoadResult{Definitions: defs, Files: files}, nil
}

// firstLoadError returns the first error as a *LoadError.
func firstLoadError(errs []error) *LoadError {
	var loadErr *LoadError
	if errors.As(errs[0], &loadErr) {
		return loadErr
	}
	return &LoadError{Code: ErrCodeGeneric, Message: errs[0].Error()}
}

func toLoadErrors(errs []error) []error {
	out := make([]error, len(errs))
	for i, err := range errs {
		out[i] = toLoadError(err)
	}
	return out
}

func toLoadError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    compileErr.Code,
			Field:   compileErr.Field,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}
