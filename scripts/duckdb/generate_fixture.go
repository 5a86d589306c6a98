package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"appaudit/internal/audit"
	"appaudit/internal/criteria"
	"appaudit/internal/store"
)

// fixtureConfig defines the JSON config for generating a DuckDB fixture.
type fixtureConfig struct {
	Name string `json:"name"`
	Runs int    `json:"runs"`
	Apps int    `json:"apps"`
}

func main() {
	configPath := flag.String("config", "", "path to fixture config JSON")
	outPath := flag.String("out", "", "output duckdb file path")
	flag.Parse()
	if *configPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: generate_fixture --config <path> --out <duckdb file>")
		os.Exit(2)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := removeIfExists(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := generateFixture(ctx, *outPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "generate fixture: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (fixtureConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixtureConfig{}, err
	}
	var cfg fixtureConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fixtureConfig{}, err
	}
	if cfg.Runs <= 0 {
		cfg.Runs = 6
	}
	if cfg.Apps <= 0 {
		cfg.Apps = 8
	}
	return cfg, nil
}

func generateFixture(ctx context.Context, path string, cfg fixtureConfig) error {
	db, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	defs := criteria.Enabled(true, nil)
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for run := 0; run < cfg.Runs; run++ {
		started := base.Add(time.Duration(run) * 24 * time.Hour)
		if err := store.IngestRun(ctx, db, fixtureRun(cfg, defs, run, started)); err != nil {
			return fmt.Errorf("ingest run %d: %w", run, err)
		}
	}
	return nil
}

// fixtureRun builds a deterministic run so repeated generations produce
// identical stores.
func fixtureRun(cfg fixtureConfig, defs []criteria.Definition, run int, started time.Time) audit.Results {
	results := audit.Results{
		RunID:      fmt.Sprintf("%s-%012x", started.Format("20060102T150405Z"), run+1),
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Runtime:    true,
		Window: &audit.Window{
			From: started.Add(-30 * 24 * time.Hour),
			To:   started,
		},
	}
	for _, def := range defs {
		results.Criteria = append(results.Criteria, audit.CriterionInfo{
			Reference:   def.Reference,
			Description: def.Description,
			Runtime:     def.Runtime,
		})
	}

	complied := make(map[string]int, len(defs))
	for app := 0; app < cfg.Apps; app++ {
		report := audit.AppReport{
			AppID:   fmt.Sprintf("%s-app-%04d", cfg.Name, app+1),
			AppName: fmt.Sprintf("team-%02d - service-%02d", app%4, app+1),
		}
		for position, def := range defs {
			// Roughly three passing verdicts out of four, drifting per run.
			pass := (app+position+run)%4 != 0
			report.Results = append(report.Results, criteria.Result{
				Reference:   def.Reference,
				Description: def.Description,
				Complied:    pass,
			})
			if pass {
				complied[def.Reference]++
			}
		}
		results.Apps = append(results.Apps, report)
	}

	results.Summary.AppsTotal = len(results.Apps)
	for _, report := range results.Apps {
		if report.Compliant() {
			results.Summary.AppsCompliant++
		}
	}
	if results.Summary.AppsTotal > 0 {
		results.Summary.ComplianceRate = float64(results.Summary.AppsCompliant) / float64(results.Summary.AppsTotal)
	}
	for _, def := range defs {
		results.Summary.PerCriterion = append(results.Summary.PerCriterion, audit.CriterionCount{
			Reference: def.Reference,
			Complied:  complied[def.Reference],
		})
	}
	return results
}

// removeIfExists deletes an existing fixture file so we always start fresh.
func removeIfExists(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove existing fixture: %w", err)
		}
		return nil
	}
	if os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("stat fixture: %w", err)
}
