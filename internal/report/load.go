package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"appaudit/internal/audit"
)

// LoadResults reads a single stored run record.
func LoadResults(path string) (audit.Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return audit.Results{}, err
	}
	var results audit.Results
	if err := json.Unmarshal(data, &results); err != nil {
		return audit.Results{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return results, nil
}

// ResolveRun locates a stored run by id, or the most recent run when
// ref is empty. It returns the results together with the run directory.
func ResolveRun(outputDir, ref string) (audit.Results, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		runDir, err := findLatestRunDir(outputDir)
		if err != nil {
			return audit.Results{}, "", err
		}
		results, err := LoadResults(filepath.Join(runDir, "results.json"))
		return results, runDir, err
	}
	runDir := filepath.Join(outputDir, ref)
	if info, err := os.Stat(runDir); err != nil || !info.IsDir() {
		return audit.Results{}, "", fmt.Errorf("run %s not found in %s", ref, outputDir)
	}
	results, err := LoadResults(filepath.Join(runDir, "results.json"))
	return results, runDir, err
}

// LoadAllRuns reads every stored run, newest first. Run directories
// without a readable record are skipped.
func LoadAllRuns(outputDir string) ([]audit.Results, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	runIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			runIDs = append(runIDs, entry.Name())
		}
	}
	// Run ids start with a UTC timestamp, so the lexicographic order is
	// the chronological order.
	sort.Sort(sort.Reverse(sort.StringSlice(runIDs)))
	runs := make([]audit.Results, 0, len(runIDs))
	for _, runID := range runIDs {
		results, err := LoadResults(filepath.Join(outputDir, runID, "results.json"))
		if err != nil {
			continue
		}
		runs = append(runs, results)
	}
	return runs, nil
}

func findLatestRunDir(outputDir string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", err
	}
	runIDs := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			runIDs = append(runIDs, entry.Name())
		}
	}
	if len(runIDs) == 0 {
		return "", fmt.Errorf("no runs found in %s", outputDir)
	}
	sort.Strings(runIDs)
	return filepath.Join(outputDir, runIDs[len(runIDs)-1]), nil
}
