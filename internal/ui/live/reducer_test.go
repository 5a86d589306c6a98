package live

import (
	"testing"
	"time"

	"appaudit/internal/audit"
	"appaudit/internal/testutil"
)

// TestReduceAppLifecycle verifies core status transitions are recorded.
func TestReduceAppLifecycle(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		start := time.Now()
		state := State{Criteria: []string{"APP-DF01", "APP-DF02"}}
		state = Reduce(state, appEvent(audit.EventAppDiscovered, "app-1", 0), start)
		state = Reduce(state, appEvent(audit.EventAppEvaluating, "app-1", 0), start)
		check := appEvent(audit.EventCriterionDone, "app-1", 0)
		check.Reference = "APP-DF01"
		check.Complied = true
		state = Reduce(state, check, start)
		check.Reference = "APP-DF02"
		state = Reduce(state, check, start)
		state = Reduce(state, appEvent(audit.EventAppCompliant, "app-1", 0), start.Add(150*time.Millisecond))

		row := state.Rows[0]
		if row.Status != audit.EventAppCompliant {
			t.Fatalf("expected compliant status, got %s", row.Status)
		}
		if row.Checked != 2 {
			t.Fatalf("expected 2 checks, got %d", row.Checked)
		}
		if len(row.Violations) != 0 {
			t.Fatalf("expected no violations, got %v", row.Violations)
		}
		if state.Counts.Compliant != 1 || state.Counts.Done != 1 {
			t.Fatalf("unexpected counts: %+v", state.Counts)
		}
	})
}

// TestReduceRecordsViolations verifies failed criteria are listed per row.
func TestReduceRecordsViolations(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		now := time.Now()
		state := State{Criteria: []string{"APP-DF01", "APP-DF02"}}
		state = Reduce(state, appEvent(audit.EventAppDiscovered, "app-1", 0), now)
		check := appEvent(audit.EventCriterionDone, "app-1", 0)
		check.Reference = "APP-DF02"
		check.Complied = false
		state = Reduce(state, check, now)
		state = Reduce(state, appEvent(audit.EventAppNonCompliant, "app-1", 0), now)

		row := state.Rows[0]
		if len(row.Violations) != 1 || row.Violations[0] != "APP-DF02" {
			t.Fatalf("unexpected violations: %v", row.Violations)
		}
		if state.Counts.NonCompliant != 1 {
			t.Fatalf("expected non-compliant count, got %+v", state.Counts)
		}
	})
}

// TestReduceFailureRecordsError verifies evaluator errors surface on the row.
func TestReduceFailureRecordsError(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		now := time.Now()
		state := State{}
		state = Reduce(state, appEvent(audit.EventAppDiscovered, "app-1", 0), now)
		failed := appEvent(audit.EventAppFailed, "app-1", 0)
		failed.Error = "search unavailable"
		state = Reduce(state, failed, now)

		row := state.Rows[0]
		if row.Status != audit.EventAppFailed {
			t.Fatalf("expected failed status, got %s", row.Status)
		}
		if row.Error != "search unavailable" {
			t.Fatalf("expected error to be recorded, got %q", row.Error)
		}
		if state.Counts.Failed != 1 {
			t.Fatalf("expected failed count, got %+v", state.Counts)
		}
	})
}

// TestReduceOutOfOrderDiscovery verifies rows grow to the listing index.
func TestReduceOutOfOrderDiscovery(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		now := time.Now()
		state := State{}
		state = Reduce(state, appEvent(audit.EventAppDiscovered, "app-3", 2), now)
		if len(state.Rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(state.Rows))
		}
		if state.Rows[2].ID != "app-3" {
			t.Fatalf("expected app-3 at index 2, got %q", state.Rows[2].ID)
		}
		state = Reduce(state, appEvent(audit.EventAppDiscovered, "app-1", 0), now)
		if state.Rows[0].ID != "app-1" {
			t.Fatalf("expected app-1 at index 0, got %q", state.Rows[0].ID)
		}
	})
}

// appEvent builds an AppEvent for testing.
func appEvent(kind audit.AppEventType, appID string, index int) audit.AppEvent {
	return audit.AppEvent{
		Type:    kind,
		AppID:   appID,
		AppName: "Application " + appID,
		Index:   index,
	}
}

// runWithTimeout executes a test body with a timeout.
func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}
