package reportserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"appaudit/internal/report"
)

// NewHandler builds the HTTP handler for the report page, the run
// listing API and the raw store download.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.OutputDir == "" {
		return nil, errors.New("reportserver: output dir is required")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", serveReport(cfg.OutputDir))
	mux.HandleFunc("/api/runs", serveRunList(cfg.OutputDir))
	mux.Handle("/data/db.duckdb", serveDatabase(cfg.DBPath))
	return mux, nil
}

// serveReport renders the report page from the stored runs on every
// request, so new runs show up without a restart.
func serveReport(outputDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		runs, err := report.LoadAllRuns(outputDir)
		if err != nil {
			http.Error(w, "load runs: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := report.ReportPage(runs).Render(r.Context(), w); err != nil {
			http.Error(w, "render report: "+err.Error(), http.StatusInternalServerError)
		}
	}
}

type runSummary struct {
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	AppsTotal      int       `json:"apps_total"`
	AppsCompliant  int       `json:"apps_compliant"`
	ComplianceRate float64   `json:"compliance_rate"`
}

// serveRunList returns run summaries as JSON, newest first.
func serveRunList(outputDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		runs, err := report.LoadAllRuns(outputDir)
		if err != nil {
			http.Error(w, "load runs: "+err.Error(), http.StatusInternalServerError)
			return
		}
		summaries := make([]runSummary, 0, len(runs))
		for _, run := range runs {
			summaries = append(summaries, runSummary{
				RunID:          run.RunID,
				StartedAt:      run.StartedAt,
				FinishedAt:     run.FinishedAt,
				AppsTotal:      run.Summary.AppsTotal,
				AppsCompliant:  run.Summary.AppsCompliant,
				ComplianceRate: run.Summary.ComplianceRate,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(summaries)
	}
}

// serveDatabase serves the DuckDB store file for offline inspection.
// Without a configured store the endpoint reports not found.
func serveDatabase(dbPath string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if dbPath == "" {
			http.Error(w, "no store configured", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		http.ServeFile(w, r, dbPath)
	})
}
