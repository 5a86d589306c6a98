package live

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	elapsed := ""
	if !state.StartedAt.IsZero() {
		elapsed = formatDuration(now.Sub(state.StartedAt))
	}
	line := "Audit " + state.RunID
	if len(state.Criteria) > 0 {
		line += " | Criteria: " + strings.Join(state.Criteria, " ")
	}
	if elapsed != "" {
		line += " | Elapsed: " + elapsed
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Discovered: " + fmtInt(counts.Discovered) +
		" Evaluating: " + fmtInt(counts.Evaluating) +
		" Done: " + fmtInt(counts.Done) +
		" Compliant: " + fmtInt(counts.Compliant) +
		" Non-compliant: " + fmtInt(counts.NonCompliant) +
		" Failed: " + fmtInt(counts.Failed)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
