package report

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"appaudit/internal/audit"
)

const pageHeader = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>Application audit report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
.pass { color: #1a7f37; }
.fail { color: #cf222e; }
</style>
</head>
<body>
<h1>Application audit report</h1>
`

const pageFooter = `</body>
</html>
`

// ReportPage renders the run history, one compliance table per run.
// Dynamic values are escaped, so application names cannot inject markup.
func ReportPage(runs []audit.Results) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHeader); err != nil {
			return err
		}
		if len(runs) == 0 {
			if _, err := io.WriteString(w, "<p>No runs recorded yet.</p>\n"); err != nil {
				return err
			}
		}
		for _, run := range runs {
			if err := writeRunSection(w, run); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, pageFooter)
		return err
	})
}

func writeRunSection(w io.Writer, run audit.Results) error {
	if _, err := fmt.Fprintf(w, "<section>\n<h2>Run %s</h2>\n", templ.EscapeString(run.RunID)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(
		w,
		"<p>Started %s. %d applications, %d compliant (%s%%).</p>\n",
		templ.EscapeString(formatTime(run.StartedAt)),
		run.Summary.AppsTotal,
		run.Summary.AppsCompliant,
		formatPercent(run.Summary.ComplianceRate),
	); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<table>\n<thead>\n<tr><th>Application id</th><th>Application name</th>"); err != nil {
		return err
	}
	for _, criterion := range run.Criteria {
		if _, err := fmt.Fprintf(w, "<th>%s</th>", templ.EscapeString(criterion.Reference)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</tr>\n</thead>\n<tbody>\n"); err != nil {
		return err
	}
	for _, app := range run.Apps {
		if _, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td>", templ.EscapeString(app.AppID), templ.EscapeString(app.AppName)); err != nil {
			return err
		}
		for _, result := range app.Results {
			cell := `<td class="fail">no</td>`
			if result.Complied {
				cell = `<td class="pass">yes</td>`
			}
			if _, err := io.WriteString(w, cell); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr>\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</tbody>\n</table>\n</section>\n")
	return err
}
