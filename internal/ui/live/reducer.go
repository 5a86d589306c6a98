package live

import (
	"fmt"
	"time"

	"appaudit/internal/audit"
)

// Reduce applies an application event to the UI state. Events carry no
// timestamps, so the caller provides the receive time.
func Reduce(state State, event audit.AppEvent, now time.Time) State {
	state = ensureRow(state, event)
	state = applyAppEvent(state, event, now)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows or extends the state rows to cover the event's
// application. Discovery events carry the listing index; later events
// are matched by application id.
func ensureRow(state State, event audit.AppEvent) State {
	if event.Type == audit.EventAppDiscovered {
		if event.Index < 0 {
			return state
		}
		if event.Index < len(state.Rows) {
			return state
		}
		rows := make([]AppRow, event.Index+1)
		copy(rows, state.Rows)
		for i := len(state.Rows); i < len(rows); i++ {
			rows[i] = AppRow{Index: i, Status: audit.EventAppDiscovered}
		}
		state.Rows = rows
		return state
	}
	if rowIndexByID(state.Rows, event.AppID) >= 0 {
		return state
	}
	state.Rows = append(state.Rows, AppRow{
		Index:  len(state.Rows),
		ID:     event.AppID,
		Name:   event.AppName,
		Status: audit.EventAppDiscovered,
	})
	return state
}

// applyAppEvent updates a row with the given event.
func applyAppEvent(state State, event audit.AppEvent, now time.Time) State {
	idx := rowIndexByID(state.Rows, event.AppID)
	if event.Type == audit.EventAppDiscovered {
		idx = event.Index
	}
	if idx < 0 || idx >= len(state.Rows) {
		return state
	}
	row := state.Rows[idx]
	if row.ID == "" {
		row.ID = event.AppID
	}
	if row.Name == "" {
		row.Name = event.AppName
	}
	switch event.Type {
	case audit.EventAppDiscovered:
		row.Status = audit.EventAppDiscovered
	case audit.EventAppEvaluating:
		row.Status = audit.EventAppEvaluating
		if row.StartedAt.IsZero() {
			row.StartedAt = now
		}
	case audit.EventCriterionDone:
		row.Checked++
		if !event.Complied {
			row.Violations = append(row.Violations, event.Reference)
		}
	case audit.EventAppCompliant, audit.EventAppNonCompliant:
		row.Status = event.Type
		row.FinishedAt = now
	case audit.EventAppFailed:
		row.Status = audit.EventAppFailed
		row.Error = event.Error
		row.FinishedAt = now
	}
	state.Rows[idx] = row
	return state
}

// rowIndexByID finds a row by application id.
func rowIndexByID(rows []AppRow, appID string) int {
	if appID == "" {
		return -1
	}
	for i, row := range rows {
		if row.ID == appID {
			return i
		}
	}
	return -1
}

// recount recomputes status counts for the current rows.
func recount(rows []AppRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case audit.EventAppDiscovered:
			counts.Discovered++
		case audit.EventAppEvaluating:
			counts.Evaluating++
		case audit.EventAppCompliant:
			counts.Done++
			counts.Compliant++
		case audit.EventAppNonCompliant:
			counts.Done++
			counts.NonCompliant++
		case audit.EventAppFailed:
			counts.Done++
			counts.Failed++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event audit.AppEvent) string {
	switch event.Type {
	case audit.EventCriterionDone:
		verdict := "passed"
		if !event.Complied {
			verdict = "failed"
		}
		return fmt.Sprintf("%s %s %s", event.AppID, event.Reference, verdict)
	case audit.EventAppCompliant:
		return fmt.Sprintf("%s compliant", event.AppID)
	case audit.EventAppNonCompliant:
		return fmt.Sprintf("%s non-compliant", event.AppID)
	case audit.EventAppFailed:
		return fmt.Sprintf("%s error: %s", event.AppID, event.Error)
	}
	return ""
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}
