package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	// Regenerate after intentional output changes:
	//   go test ./internal/harness -update
	names := []string{
		"single-datapoint",
		"base-fields",
		"value-kinds",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestRunWithGolden_RejectsErrorScenario(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "version-mismatch.yaml"))
	require.NoError(t, err)

	require.Error(t, RunWithGolden(t, scenario))
}
