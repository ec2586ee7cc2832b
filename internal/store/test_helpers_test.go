package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/lexsync/internal/instrument"
)

// createTestStore creates a new store in a temp directory for testing.
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

// createTestRun creates a run with minimal required fields.
func createTestRun(id, date string) Run {
	return Run{
		ID:           id,
		Date:         date,
		SnapshotPath: "api/snapshots/" + date + ".json",
		InForcePath:  "api/laws.json",
		Digest:       "test-digest",
	}
}

func testInstruments(status instrument.Status) []instrument.Instrument {
	return []instrument.Instrument{
		{ID: "fdl-33-2021", Title: "Federal Decree-Law No. 33 of 2021", Topic: "labour", Status: status, EffectiveFrom: "2022-02-02"},
		{ID: "cab-res-1-2022", Title: "Cabinet Resolution No. 1 of 2022", Topic: "labour", Status: instrument.StatusInForce},
	}
}
