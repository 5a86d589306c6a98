package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"appaudit/internal/store"
	storetesting "appaudit/internal/store/testing"
	"appaudit/internal/testutil"
)

// TestIngestRunPersistsRun verifies every table receives its rows.
func TestIngestRunPersistsRun(t *testing.T) {
	db, ctx := openTestDB(t)
	results := fixtureResults("run-1", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	if err := store.IngestRun(ctx, db, results); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM runs"); got != 1 {
		t.Fatalf("runs: got %d want 1", got)
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM run_criteria WHERE run_id = 'run-1'"); got != 3 {
		t.Fatalf("run_criteria: got %d want 3", got)
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM run_apps WHERE run_id = 'run-1'"); got != 2 {
		t.Fatalf("run_apps: got %d want 2", got)
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM run_results WHERE run_id = 'run-1'"); got != 6 {
		t.Fatalf("run_results: got %d want 6", got)
	}
	if got := queryInt(t, ctx, db, "SELECT complied FROM v_criterion_compliance WHERE run_id = 'run-1' AND reference = 'APP-DF02'"); got != 1 {
		t.Fatalf("view complied: got %d want 1", got)
	}
}

// TestIngestRunIdempotent verifies re-ingesting a run id changes nothing.
func TestIngestRunIdempotent(t *testing.T) {
	db, ctx := openTestDB(t)
	results := fixtureResults("run-1", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	if err := store.IngestRun(ctx, db, results); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := store.IngestRun(ctx, db, results); err != nil {
		t.Fatalf("ingest again: %v", err)
	}

	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM runs"); got != 1 {
		t.Fatalf("runs: got %d want 1", got)
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM run_results"); got != 6 {
		t.Fatalf("run_results: got %d want 6", got)
	}
}

// TestIngestRunRejectsEmptyID verifies runs without an id are refused.
func TestIngestRunRejectsEmptyID(t *testing.T) {
	db, ctx := openTestDB(t)
	results := fixtureResults("", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err := store.IngestRun(ctx, db, results); err == nil {
		t.Fatalf("expected an error")
	}
}

// TestStoreDurability verifies ingested data survives a close and that a
// byte-for-byte copy of the database file opens cleanly.
func TestStoreDurability(t *testing.T) {
	ctx := testutil.Context(t, storeTestTimeout)
	dbPath := filepath.Join(t.TempDir(), "audit.duckdb")
	db := storetesting.OpenInitialized(t, dbPath)

	results := fixtureResults("run-1", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err := store.IngestRun(ctx, db, results); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	copyPath := filepath.Join(t.TempDir(), "copy.duckdb")
	testutil.CopyFile(t, dbPath, copyPath)

	copyDB := storetesting.Open(t, copyPath)
	if got := queryInt(t, ctx, copyDB, "SELECT COUNT(*) FROM runs"); got != 1 {
		t.Fatalf("expected 1 run in the copied database, got %d", got)
	}
}
