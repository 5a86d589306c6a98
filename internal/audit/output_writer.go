package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"appaudit/internal/spec"
)

// WriteRunOutputs persists the run record and the CSV report under the
// run's own directory and returns the paths it wrote.
func WriteRunOutputs(outputDir string, results Results) (OutputPaths, error) {
	paths := OutputPaths{Root: outputDir, RunID: results.RunID}
	if err := os.MkdirAll(paths.RunDir(), 0o755); err != nil {
		return OutputPaths{}, fmt.Errorf("create run directory: %w", err)
	}

	record, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return OutputPaths{}, fmt.Errorf("encode run record: %w", err)
	}
	record = append(record, '\n')
	if err := os.WriteFile(paths.ResultsPath(), record, 0o644); err != nil {
		return OutputPaths{}, fmt.Errorf("write run record: %w", err)
	}

	var report bytes.Buffer
	if err := WriteCSV(&report, results); err != nil {
		return OutputPaths{}, err
	}
	if err := os.WriteFile(paths.ReportPath(), report.Bytes(), 0o644); err != nil {
		return OutputPaths{}, fmt.Errorf("write report: %w", err)
	}
	return paths, nil
}

// RunAndWrite executes a run and persists its outputs. The output
// directory comes from the parameters when set, otherwise from the
// configuration.
func RunAndWrite(ctx context.Context, cfg spec.Config, params RunParams) (Results, OutputPaths, error) {
	results, err := Run(ctx, cfg, params)
	if err != nil {
		return Results{}, OutputPaths{}, err
	}
	outputDir := params.OutputDir
	if outputDir == "" {
		outputDir = cfg.Audit.OutputDir
	}
	paths, err := WriteRunOutputs(outputDir, results)
	if err != nil {
		return Results{}, OutputPaths{}, err
	}
	return results, paths, nil
}
