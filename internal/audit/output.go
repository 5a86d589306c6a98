package audit

import "path/filepath"

// OutputPaths locates the artifacts of a single run under the output
// directory.
type OutputPaths struct {
	Root  string
	RunID string
}

// RunDir is the directory holding every artifact of the run.
func (p OutputPaths) RunDir() string {
	return filepath.Join(p.Root, p.RunID)
}

// ResultsPath is the full run record in JSON form.
func (p OutputPaths) ResultsPath() string {
	return filepath.Join(p.RunDir(), "results.json")
}

// ReportPath is the compliance table in CSV form.
func (p OutputPaths) ReportPath() string {
	return filepath.Join(p.RunDir(), "report.csv")
}
