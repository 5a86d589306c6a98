package live

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"appaudit/internal/audit"
)

// formatAppID returns the display id for an application row.
func formatAppID(row AppRow) string {
	if row.ID != "" {
		return row.ID
	}
	return "#" + fmtInt(row.Index+1)
}

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatAppName truncates application names for display.
func formatAppName(name string) string {
	normalized := strings.Join(strings.Fields(name), " ")
	if normalized == "" {
		return ""
	}
	const limit = 40
	if len(normalized) <= limit {
		return normalized
	}
	return normalized[:limit-3] + "..."
}

// formatStatus renders a status string for a row.
func formatStatus(row AppRow, noColor bool) string {
	return stylizeStatus(statusLabel(row.Status), row.Status, noColor)
}

// statusLabel maps status codes to display labels.
func statusLabel(status audit.AppEventType) string {
	switch status {
	case audit.EventAppDiscovered:
		return "discovered"
	case audit.EventAppEvaluating:
		return "evaluating"
	case audit.EventAppCompliant:
		return "compliant"
	case audit.EventAppNonCompliant:
		return "non-compliant"
	case audit.EventAppFailed:
		return "failed"
	default:
		return string(status)
	}
}

// formatChecks renders evaluated criteria progress for a row.
func formatChecks(row AppRow, total int) string {
	if total <= 0 {
		return ""
	}
	return fmtInt(row.Checked) + "/" + fmtInt(total)
}

// formatViolations lists the references an application failed.
func formatViolations(row AppRow) string {
	if row.Error != "" {
		return row.Error
	}
	return strings.Join(row.Violations, " ")
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row AppRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return formatDuration(row.FinishedAt.Sub(row.StartedAt))
	}
	if !row.StartedAt.IsZero() {
		return formatDuration(now.Sub(row.StartedAt))
	}
	return ""
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status audit.AppEventType, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status audit.AppEventType) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case audit.EventAppCompliant:
		color = lipgloss.Color("42")
	case audit.EventAppNonCompliant:
		color = lipgloss.Color("220")
	case audit.EventAppFailed:
		color = lipgloss.Color("196")
	case audit.EventAppEvaluating:
		color = lipgloss.Color("33")
	case audit.EventAppDiscovered:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
