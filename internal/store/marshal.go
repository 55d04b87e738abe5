package store

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/peano/internal/ir"
)

// marshalDefinitions converts a definition set to canonical JSON TEXT.
// Definitions are sorted by name so the stored text depends only on content.
func marshalDefinitions(defs []ir.Definition) (string, error) {
	sorted := slices.Clone(defs)
	slices.SortFunc(sorted, func(a, b ir.Definition) int {
		return strings.Compare(a.Name, b.Name)
	})

	arr := make([]any, len(sorted))
	for i, d := range sorted {
		arr[i] = map[string]any{
			"name":   d.Name,
			"source": d.Source,
			"value":  d.Value,
		}
	}

	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal definitions: %w", err)
	}
	return string(data), nil
}

// unmarshalDefinitions parses canonical JSON TEXT back to a definition set.
func unmarshalDefinitions(data string) ([]ir.Definition, error) {
	if data == "" || data == "[]" {
		return []ir.Definition{}, nil
	}
	var defs []ir.Definition
	if err := json.Unmarshal([]byte(data), &defs); err != nil {
		return nil, fmt.Errorf("unmarshal definitions: %w", err)
	}
	return defs, nil
}
