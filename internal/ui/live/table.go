package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns the table layout before the first resize.
func defaultColumns() []table.Column {
	return columnsForWidth(120)
}

// columnsForWidth sizes the columns for the given terminal width. The
// name column absorbs the slack.
func columnsForWidth(width int) []table.Column {
	const fixed = 16 + 14 + 10 + 22 + 8
	nameWidth := width - fixed - 12
	if nameWidth < 16 {
		nameWidth = 16
	}
	if nameWidth > 44 {
		nameWidth = 44
	}
	return []table.Column{
		{Title: "Application", Width: 16},
		{Title: "Name", Width: nameWidth},
		{Title: "Status", Width: 14},
		{Title: "Checks", Width: 10},
		{Title: "Violations", Width: 22},
		{Title: "Elapsed", Width: 8},
	}
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatAppID(row),
			formatAppName(row.Name),
			formatStatus(row, noColor),
			formatChecks(row, len(state.Criteria)),
			formatViolations(row),
			formatRowDuration(row, now),
		})
	}
	return rows
}
