package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario: a sequence of facade operations
// run against a fresh repository, with per-step expectations and final-state
// checks.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file
	// name when the scenario runs under RunWithGolden.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps is the ordered list of operations to run.
	Steps []Step `yaml:"steps"`

	// Checks validate the final repository state after all steps ran.
	Checks []Check `yaml:"checks,omitempty"`
}

// Step is one facade operation invocation.
type Step struct {
	// Op names the operation, facade-dot-method: "admin.createUser",
	// "connections.send", "resources.approve". See dispatch.go for the
	// full table.
	Op string `yaml:"op"`

	// Args are the operation arguments. String values starting with "$"
	// are references into saved results: "$alice.id" is the id field of
	// the record saved under "alice".
	Args map[string]any `yaml:"args"`

	// Save stores the step's result record under this alias for later
	// steps and expectations to reference.
	Save string `yaml:"save,omitempty"`

	// Expect validates the step outcome. Nil means the step must simply
	// not return an error.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Error is the expected validation or transition code, e.g.
	// "SELF_CONNECTION" or "ILLEGAL_TRANSITION". Empty means the step
	// must succeed.
	Error string `yaml:"error,omitempty"`

	// Absent, when true, expects the operation to report not-found.
	Absent bool `yaml:"absent,omitempty"`

	// Result contains expected result field values, matched as a subset
	// against the JSON form of the returned record. Values may use "$"
	// references.
	Result map[string]any `yaml:"result,omitempty"`
}

// Check is a final-state assertion over one collection.
type Check struct {
	// Type is "count" or "record".
	Type string `yaml:"type"`

	// Collection names the repository collection: "users", "posts",
	// "connections", "resourceSubmissions", ...
	Collection string `yaml:"collection"`

	// Where filters rows by exact field match on the JSON form. Values
	// may use "$" references.
	Where map[string]any `yaml:"where,omitempty"`

	// Count is the expected number of matching rows (type "count").
	Count int `yaml:"count,omitempty"`

	// Expect contains expected field values for the single matching row
	// (type "record"). Subset match.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Check type constants.
const (
	CheckCount  = "count"
	CheckRecord = "record"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so a typo like "check:" instead of "checks:" fails loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if step.Args == nil {
			return fmt.Errorf("steps[%d]: args is required (use empty map if no args)", i)
		}
		if step.Expect != nil && step.Expect.Error != "" && step.Expect.Absent {
			return fmt.Errorf("steps[%d].expect: error and absent are mutually exclusive", i)
		}
	}
	for i, c := range s.Checks {
		if err := validateCheck(i, &c); err != nil {
			return err
		}
	}
	return nil
}

func validateCheck(index int, c *Check) error {
	if c.Collection == "" {
		return fmt.Errorf("checks[%d]: collection is required", index)
	}
	switch c.Type {
	case CheckCount:
		if c.Count < 0 {
			return fmt.Errorf("checks[%d]: count must be non-negative", index)
		}
	case CheckRecord:
		if len(c.Expect) == 0 {
			return fmt.Errorf("checks[%d]: expect is required for record checks", index)
		}
	case "":
		return fmt.Errorf("checks[%d]: type is required", index)
	default:
		return fmt.Errorf("checks[%d]: unknown check type %q", index, c.Type)
	}
	return nil
}
