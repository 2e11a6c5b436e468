package store

import (
	"path/filepath"
	"testing"
	"time"

	senml "github.com/SINTEF/sindit-senml"
)

// createTestStore creates a file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestBatch returns a batch with a fixed ingest time so tests
// stay deterministic.
func createTestBatch(id, source string) Batch {
	return Batch{
		ID:         id,
		Source:     source,
		IngestedAt: time.Date(2023, 11, 1, 12, 0, 0, 0, time.UTC),
	}
}

// createTestRecord builds a resolved float record at the given time.
func createTestRecord(name string, value float64, at time.Time) senml.ResolvedRecord {
	return senml.ResolvedRecord{
		Name:  name,
		Unit:  "Cel",
		Value: senml.FloatValue(value),
		Time:  at,
	}
}
