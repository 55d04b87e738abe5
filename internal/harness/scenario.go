package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a list of expressions to evaluate with their expected
// outcomes, and assertions over the resulting trace.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists CUE definition files whose bindings the cases may use.
	// Relative paths are resolved against the scenario file's directory.
	Specs []string `yaml:"specs,omitempty"`

	// SessionToken is the fixed session token for deterministic traces.
	// Defaults to testutil.DefaultSessionToken.
	SessionToken string `yaml:"session_token,omitempty"`

	// MaxMagnitude overrides the engine's magnitude limit when positive.
	MaxMagnitude int `yaml:"max_magnitude,omitempty"`

	// Cases are evaluated in order within one session.
	Cases []Case `yaml:"cases"`

	// Assertions validate the final trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case is one expression and, optionally, its expected outcome.
type Case struct {
	Expr   string  `yaml:"expr"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies an expected outcome. Exactly one field must be set.
type Expect struct {
	Value  *int   `yaml:"value,omitempty"`
	Bool   *bool  `yaml:"bool,omitempty"`
	Absent bool   `yaml:"absent,omitempty"`
	Error  string `yaml:"error,omitempty"` // runtime error code, e.g. DIVISION_BY_ZERO
}

// Assertion validates the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an evaluation of Expr appears (optionally with Outcome/Result)
	// - "trace_order": the expressions in Exprs appear in this order
	// - "trace_count": exactly Count evaluations appear (optionally only those with Outcome)
	// - "all_pass": every case met its expectation
	Type string `yaml:"type"`

	Expr    string   `yaml:"expr,omitempty"`
	Exprs   []string `yaml:"exprs,omitempty"`
	Outcome string   `yaml:"outcome,omitempty"`
	Result  string   `yaml:"result,omitempty"`
	Count   int      `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertAllPass       = "all_pass"
)

// LoadScenario reads and parses a scenario YAML file.
// Spec paths are resolved relative to the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving spec paths relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	for _, specPath := range scenario.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: spec file not found: %s", specPath)
		}
	}

	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	if s.MaxMagnitude < 0 {
		return fmt.Errorf("max_magnitude must be non-negative")
	}

	for i, c := range s.Cases {
		if c.Expr == "" {
			return fmt.Errorf("cases[%d]: expr is required", i)
		}
		if c.Expect != nil {
			if err := validateExpect(c.Expect); err != nil {
				return fmt.Errorf("cases[%d].expect: %w", i, err)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(e *Expect) error {
	set := 0
	if e.Value != nil {
		set++
		if *e.Value < 0 {
			return fmt.Errorf("value must be non-negative")
		}
	}
	if e.Bool != nil {
		set++
	}
	if e.Absent {
		set++
	}
	if e.Error != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one of value, bool, absent, error is required")
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Expr == "" {
			return fmt.Errorf("assertions[%d]: expr is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Exprs) == 0 {
			return fmt.Errorf("assertions[%d]: exprs list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertAllPass:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
