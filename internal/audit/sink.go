package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV renders the per-application compliance table. The first two
// columns identify the application; the remaining columns carry one
// boolean per criterion, ordered ascending by reference. Rows keep the
// discovery order of the run.
func WriteCSV(w io.Writer, results Results) error {
	writer := csv.NewWriter(w)

	header := []string{"Application id", "Application name"}
	for _, criterion := range results.Criteria {
		header = append(header, criterion.Reference)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for _, app := range results.Apps {
		if len(app.Results) != len(results.Criteria) {
			return fmt.Errorf("application %s has %d results, expected %d", app.AppID, len(app.Results), len(results.Criteria))
		}
		row := []string{app.AppID, app.AppName}
		for _, result := range app.Results {
			row = append(row, strconv.FormatBool(result.Complied))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write report row for %s: %w", app.AppID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
