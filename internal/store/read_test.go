package store

import (
	"context"
	"testing"
	"time"

	senml "github.com/SINTEF/sindit-senml"
)

func seedReadFixtures(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	records := []senml.ResolvedRecord{
		createTestRecord("dev:a/temp", 20, time.Unix(1000, 0).UTC()),
		createTestRecord("dev:a/temp", 21, time.Unix(2000, 0).UTC()),
		createTestRecord("dev:b/temp", 22, time.Unix(1500, 0).UTC()),
		createTestRecord("other/temp", 23, time.Unix(3000, 0).UTC()),
	}
	if err := s.WriteBatch(ctx, createTestBatch("batch-read", "read.json"), records); err != nil {
		t.Fatalf("WriteBatch() failed: %v", err)
	}
}

func TestMeasurements_OrderedByTime(t *testing.T) {
	s := createTestStore(t)
	seedReadFixtures(t, s)

	got, err := s.Measurements(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Measurements() failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d measurements, want 4", len(got))
	}

	wantNames := []string{"dev:a/temp", "dev:b/temp", "dev:a/temp", "other/temp"}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("row %d name = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestMeasurements_NamePrefix(t *testing.T) {
	s := createTestStore(t)
	seedReadFixtures(t, s)

	got, err := s.Measurements(context.Background(), Query{NamePrefix: "dev:"})
	if err != nil {
		t.Fatalf("Measurements() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d measurements, want 3", len(got))
	}
	for _, m := range got {
		if m.Name[:4] != "dev:" {
			t.Errorf("unexpected name %q for prefix dev:", m.Name)
		}
	}
}

func TestMeasurements_TimeRange(t *testing.T) {
	s := createTestStore(t)
	seedReadFixtures(t, s)

	got, err := s.Measurements(context.Background(), Query{
		Since: time.Unix(1500, 0).UTC(),
		Until: time.Unix(3000, 0).UTC(),
	})
	if err != nil {
		t.Fatalf("Measurements() failed: %v", err)
	}
	// Since is inclusive, Until exclusive.
	if len(got) != 2 {
		t.Fatalf("got %d measurements, want 2", len(got))
	}
	if got[0].Name != "dev:b/temp" || got[1].Name != "dev:a/temp" {
		t.Errorf("rows = %q, %q", got[0].Name, got[1].Name)
	}
}

func TestMeasurements_Limit(t *testing.T) {
	s := createTestStore(t)
	seedReadFixtures(t, s)

	got, err := s.Measurements(context.Background(), Query{Limit: 2})
	if err != nil {
		t.Fatalf("Measurements() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d measurements, want 2", len(got))
	}
}

func TestMeasurements_Empty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.Measurements(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Measurements() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d measurements from empty store", len(got))
	}
}
