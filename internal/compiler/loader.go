package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadResult contains the unified CUE value of a set of spec files.
type LoadResult struct {
	Value cue.Value
	Files []string
}

// LoadSpecs unifies all .cue files found under dir.
func LoadSpecs(dir string) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("specs directory: %w", err)}
	}
	if !info.IsDir() {
		return nil, []error{fmt.Errorf("not a directory: %s", dir)}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("scan %s: %w", dir, err)}
	}
	if len(files) == 0 {
		return nil, []error{fmt.Errorf("no CUE files found in %s", dir)}
	}

	return LoadFiles(files)
}

// LoadFiles compiles each file and unifies the results.
// Conflicting values across files surface as E100 errors.
func LoadFiles(paths []string) (*LoadResult, []error) {
	ctx := cuecontext.New()

	var (
		unified cue.Value
		errs    []error
	)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}

		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			errs = append(errs, formatCUEError(err, filepath.Base(path))...)
			continue
		}

		if !unified.Exists() {
			unified = v
		} else {
			unified = unified.Unify(v)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if err := unified.Validate(); err != nil {
		return nil, formatCUEError(err, "unify")
	}

	return &LoadResult{Value: unified, Files: slices.Clone(paths)}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths, sorted.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}

// LoadDefinitions loads the specs under dir and compiles their definitions.
func LoadDefinitions(dir string, opts ...Option) (*Definitions, []error) {
	res, errs := LoadSpecs(dir)
	if len(errs) > 0 {
		return nil, errs
	}
	return CompileDefinitions(res.Value, opts...)
}
