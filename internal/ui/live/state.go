package live

import (
	"time"

	"appaudit/internal/audit"
)

// AppRow holds UI state for a single application.
type AppRow struct {
	Index      int
	ID         string
	Name       string
	Status     audit.AppEventType
	Checked    int
	Violations []string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Discovered   int
	Evaluating   int
	Compliant    int
	NonCompliant int
	Failed       int
	Done         int
}

// State captures the live UI state for an audit run.
type State struct {
	RunID     string
	Criteria  []string
	StartedAt time.Time
	LastEvent string
	Rows      []AppRow
	Counts    StatusCounts
}
