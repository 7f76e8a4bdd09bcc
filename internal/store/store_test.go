package store

import (
	"testing"
	"time"

	"github.com/spinescan/spinescan/internal/catalog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)

	start := time.Now().UTC().Truncate(time.Second)
	runID, err := s.BeginRun(start)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if runID == "" {
		t.Fatalf("BeginRun returned empty ID")
	}

	if err := s.FinishRun(runID, start.Add(2*time.Second), 3); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := s.Runs(10)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != runID || r.SpinesDetected != 3 {
		t.Fatalf("unexpected run summary: %+v", r)
	}
	if r.EndTime == nil {
		t.Fatalf("finished run should carry an end time")
	}
}

func TestDetectionVariantLookupChain(t *testing.T) {
	s := openTestStore(t)

	runID, err := s.BeginRun(time.Now())
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	detID, err := s.LogDetection(runID)
	if err != nil {
		t.Fatalf("LogDetection failed: %v", err)
	}
	if detID <= 0 {
		t.Fatalf("detection ID = %d, want positive", detID)
	}

	varID, err := s.LogVariant(detID, "spine.jpg", "der zauberberg")
	if err != nil {
		t.Fatalf("LogVariant failed: %v", err)
	}

	book := &catalog.Book{Title: "Der Zauberberg", Authors: "Thomas Mann"}
	if _, err := s.LogLookup(varID, "dnb", book); err != nil {
		t.Fatalf("LogLookup failed: %v", err)
	}
}

func TestRunsOrderedNewestFirst(t *testing.T) {
	s := openTestStore(t)

	old := time.Now().Add(-time.Hour)
	recent := time.Now()
	if _, err := s.BeginRun(old); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	newID, err := s.BeginRun(recent)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	runs, err := s.Runs(0)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != newID {
		t.Fatalf("runs not newest first: %+v", runs)
	}
}
