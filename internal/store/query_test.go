package store_test

import (
	"errors"
	"testing"
	"time"

	"appaudit/internal/store"
)

// TestListRunsOrdersByStart verifies newest runs come first.
func TestListRunsOrdersByStart(t *testing.T) {
	db, ctx := openTestDB(t)
	older := fixtureResults("run-old", time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	newer := fixtureResults("run-new", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	if err := store.IngestRun(ctx, db, older); err != nil {
		t.Fatalf("ingest older: %v", err)
	}
	if err := store.IngestRun(ctx, db, newer); err != nil {
		t.Fatalf("ingest newer: %v", err)
	}

	runs, err := store.ListRuns(ctx, db)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-new" || runs[1].RunID != "run-old" {
		t.Fatalf("unexpected order: %s, %s", runs[0].RunID, runs[1].RunID)
	}
	if runs[0].AppsTotal != 2 || runs[0].AppsCompliant != 1 {
		t.Fatalf("unexpected summary: %+v", runs[0])
	}
}

// TestLoadRunRoundTrip verifies a stored run reconstructs with its
// ordering and summary intact.
func TestLoadRunRoundTrip(t *testing.T) {
	db, ctx := openTestDB(t)
	stored := fixtureResults("run-1", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err := store.IngestRun(ctx, db, stored); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	loaded, err := store.LoadRun(ctx, db, "run-1")
	if err != nil {
		t.Fatalf("load run: %v", err)
	}

	if loaded.RunID != stored.RunID || loaded.Filter != stored.Filter || loaded.AppID != "" {
		t.Fatalf("run identity drifted: %+v", loaded)
	}
	if !loaded.Runtime {
		t.Fatalf("expected runtime to persist")
	}
	if !loaded.StartedAt.Equal(stored.StartedAt) || !loaded.FinishedAt.Equal(stored.FinishedAt) {
		t.Fatalf("timestamps drifted: %s / %s", loaded.StartedAt, loaded.FinishedAt)
	}
	if loaded.Window == nil || !loaded.Window.From.Equal(stored.Window.From) || !loaded.Window.To.Equal(stored.Window.To) {
		t.Fatalf("window drifted: %+v", loaded.Window)
	}

	if len(loaded.Criteria) != len(stored.Criteria) {
		t.Fatalf("expected %d criteria, got %d", len(stored.Criteria), len(loaded.Criteria))
	}
	for i, criterion := range stored.Criteria {
		if loaded.Criteria[i] != criterion {
			t.Fatalf("criterion %d drifted: %+v", i, loaded.Criteria[i])
		}
	}

	if len(loaded.Apps) != len(stored.Apps) {
		t.Fatalf("expected %d applications, got %d", len(stored.Apps), len(loaded.Apps))
	}
	for i, app := range stored.Apps {
		got := loaded.Apps[i]
		if got.AppID != app.AppID || got.AppName != app.AppName {
			t.Fatalf("application %d drifted: %+v", i, got)
		}
		if len(got.Results) != len(app.Results) {
			t.Fatalf("application %s: expected %d results, got %d", app.AppID, len(app.Results), len(got.Results))
		}
		for j, result := range app.Results {
			if got.Results[j] != result {
				t.Fatalf("application %s result %d drifted: %+v", app.AppID, j, got.Results[j])
			}
		}
	}

	if loaded.Summary.AppsTotal != 2 || loaded.Summary.AppsCompliant != 1 || loaded.Summary.ComplianceRate != 0.5 {
		t.Fatalf("summary drifted: %+v", loaded.Summary)
	}
	for i, count := range stored.Summary.PerCriterion {
		if loaded.Summary.PerCriterion[i] != count {
			t.Fatalf("per-criterion count drifted: %+v", loaded.Summary.PerCriterion)
		}
	}
}

// TestLoadRunMissing verifies unknown run ids surface the sentinel.
func TestLoadRunMissing(t *testing.T) {
	db, ctx := openTestDB(t)
	_, err := store.LoadRun(ctx, db, "run-missing")
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Fatalf("expected run not found, got %v", err)
	}
}
