package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"appaudit/internal/audit"
	"appaudit/internal/config"
	"appaudit/internal/criteria"
)

// writeProjectConfig writes a config file under root/.appaudit and
// returns its path.
func writeProjectConfig(t *testing.T, root, body string) string {
	t.Helper()
	path := config.ConfigPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// minimalConfig renders a valid config pointing at the given base URLs.
func minimalConfig(mgmtURL, searchURL string) string {
	return fmt.Sprintf(`version: 1
management:
  base_url: %q
search:
  base_url: %q
  index: "gateway-requests"
`, mgmtURL, searchURL)
}

// sampleResults builds a small finished run for command output tests.
func sampleResults(runID string) audit.Results {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return audit.Results{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Runtime:    false,
		Criteria: []audit.CriterionInfo{
			{Reference: "APP-DF01", Description: "Application name matches the naming rule"},
			{Reference: "APP-DF02", Description: "Application description is long enough"},
		},
		Apps: []audit.AppReport{
			{
				AppID:   "app-1",
				AppName: "Billing",
				Results: []criteria.Result{
					{Reference: "APP-DF01", Complied: true},
					{Reference: "APP-DF02", Complied: false},
				},
			},
			{
				AppID:   "app-2",
				AppName: "Payments",
				Results: []criteria.Result{
					{Reference: "APP-DF01", Complied: true},
					{Reference: "APP-DF02", Complied: true},
				},
			},
		},
		Summary: audit.Summary{
			AppsTotal:      2,
			AppsCompliant:  1,
			ComplianceRate: 0.5,
			PerCriterion: []audit.CriterionCount{
				{Reference: "APP-DF01", Complied: 2},
				{Reference: "APP-DF02", Complied: 1},
			},
		},
	}
}

// mkdirAll creates a directory tree, failing the test on error.
func mkdirAll(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
}

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
