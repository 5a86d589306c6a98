package report

import (
	"context"
	"strings"

	"appaudit/internal/audit"
)

// RenderReportHTML renders the report page into a string.
func RenderReportHTML(ctx context.Context, runs []audit.Results) (string, error) {
	var builder strings.Builder
	if err := ReportPage(runs).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
