package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"appaudit/internal/audit"
	"appaudit/internal/criteria"
	storetesting "appaudit/internal/store/testing"
	"appaudit/internal/testutil"
)

const storeTestTimeout = 5 * time.Second

// openTestDB opens an in-memory store with the schema applied.
func openTestDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx := testutil.Context(t, storeTestTimeout)
	db := storetesting.OpenInitialized(t, ":memory:")
	return db, ctx
}

// queryInt returns a single integer value from the database.
func queryInt(t *testing.T, ctx context.Context, db *sql.DB, query string, args ...interface{}) int {
	t.Helper()
	var out int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&out); err != nil {
		t.Fatalf("query int failed: %v", err)
	}
	return out
}

// fixtureResults builds a completed two-application run.
func fixtureResults(runID string, startedAt time.Time) audit.Results {
	window := audit.Window{From: startedAt.Add(-720 * time.Hour), To: startedAt}
	return audit.Results{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(90 * time.Second),
		Filter:     "billing",
		Runtime:    true,
		Window:     &window,
		Criteria: []audit.CriterionInfo{
			{Reference: "APP-DF01", Description: "Name follows the naming convention"},
			{Reference: "APP-DF02", Description: "Description has at least the minimum length"},
			{Reference: "APP-R00", Description: "Traffic observed within the audit window", Runtime: true},
		},
		Apps: []audit.AppReport{
			{
				AppID:   "app-1",
				AppName: "Billing - Invoicing - FR",
				Results: []criteria.Result{
					{Reference: "APP-DF01", Description: "Name follows the naming convention", Complied: true},
					{Reference: "APP-DF02", Description: "Description has at least the minimum length", Complied: true},
					{Reference: "APP-R00", Description: "Traffic observed within the audit window", Complied: true},
				},
			},
			{
				AppID:   "app-2",
				AppName: "Billing - Refunds",
				Results: []criteria.Result{
					{Reference: "APP-DF01", Description: "Name follows the naming convention", Complied: true},
					{Reference: "APP-DF02", Description: "Description has at least the minimum length", Complied: false},
					{Reference: "APP-R00", Description: "Traffic observed within the audit window", Complied: false},
				},
			},
		},
		Summary: audit.Summary{
			AppsTotal:      2,
			AppsCompliant:  1,
			ComplianceRate: 0.5,
			PerCriterion: []audit.CriterionCount{
				{Reference: "APP-DF01", Complied: 2},
				{Reference: "APP-DF02", Complied: 1},
				{Reference: "APP-R00", Complied: 1},
			},
		},
	}
}
