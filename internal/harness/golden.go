package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares the canonical
// encoding of the resolved pack against a golden file stored at
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Scenarios expecting errors have no canonical output and are
// rejected; use Run and Check for those.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	if scenario.Expect.Error != nil {
		return fmt.Errorf("scenario %s expects an error, golden comparison needs output", scenario.Name)
	}

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if result.Err != nil {
		return fmt.Errorf("scenario %s failed to resolve: %w", scenario.Name, result.Err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, result.Encoded)

	return nil
}
