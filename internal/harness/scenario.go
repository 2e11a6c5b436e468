package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one input pack plus
// the expected outcome of resolving it.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name for scenarios with golden output.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now is the reference instant, in Unix seconds, used to anchor
	// relative times. Zero means the wall clock, which is only safe
	// for packs with absolute times.
	Now int64 `yaml:"now,omitempty"`

	// Records is the input pack, one map per record using the wire
	// labels (bn, bt, n, v, vs, ...).
	Records []map[string]any `yaml:"records"`

	// Expect specifies the expected outcome.
	Expect ExpectClause `yaml:"expect"`
}

// ExpectClause holds the expected outcome of a scenario. Exactly one
// of Records or Error must be set.
type ExpectClause struct {
	// Records are the expected resolved records, one map per record
	// using the wire labels. Subset match: only listed fields are
	// compared.
	Records []map[string]any `yaml:"records,omitempty"`

	// Error is the expected resolution failure.
	Error *ExpectError `yaml:"error,omitempty"`
}

// ExpectError specifies an expected codec error.
type ExpectError struct {
	// Code is the expected error code (e.g. "version_mismatch").
	Code string `yaml:"code"`

	// Index is the expected failing record index. Nil skips the check.
	Index *int `yaml:"index,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
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

	if len(s.Records) == 0 {
		return fmt.Errorf("records list is required and must be non-empty")
	}

	hasRecords := len(s.Expect.Records) > 0
	hasError := s.Expect.Error != nil
	if hasRecords == hasError {
		return fmt.Errorf("expect must set exactly one of records or error")
	}

	if hasError && s.Expect.Error.Code == "" {
		return fmt.Errorf("expect.error: code is required")
	}

	return nil
}
