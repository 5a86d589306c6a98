// Package report renders stored audit runs as an HTML page and loads
// run records from the output directory.
package report

import (
	"context"

	"appaudit/internal/audit"
)

// BuildReportHTML renders the report page, returning an empty string
// when rendering fails.
func BuildReportHTML(runs []audit.Results) string {
	html, err := RenderReportHTML(context.Background(), runs)
	if err != nil {
		return ""
	}
	return html
}
