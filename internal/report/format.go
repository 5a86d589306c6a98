package report

import (
	"fmt"
	"time"
)

// formatPercent returns a percentage string with two decimals.
func formatPercent(rate float64) string {
	return fmt.Sprintf("%.2f", rate*100)
}

func formatTime(ts time.Time) string {
	return ts.UTC().Format("2006-01-02 15:04:05 MST")
}
