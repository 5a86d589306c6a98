package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"appaudit/internal/audit"
	"appaudit/internal/criteria"
)

// ErrRunNotFound marks a lookup for a run id the store does not hold.
var ErrRunNotFound = errors.New("store: run not found")

// RunSummary is one row of the run history listing.
type RunSummary struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	AppsTotal      int
	AppsCompliant  int
	ComplianceRate float64
}

// ListRuns returns stored runs, most recent first.
func ListRuns(ctx context.Context, db *sql.DB) ([]RunSummary, error) {
	rows, err := db.QueryContext(
		ctx,
		`SELECT run_id, started_at, finished_at, apps_total, apps_compliant, compliance_rate
		 FROM runs ORDER BY started_at DESC, run_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var summary RunSummary
		if err := rows.Scan(
			&summary.RunID,
			&summary.StartedAt,
			&summary.FinishedAt,
			&summary.AppsTotal,
			&summary.AppsCompliant,
			&summary.ComplianceRate,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// LoadRun reconstructs a stored run: criteria in report order,
// applications in discovery order, verdicts ascending by reference.
func LoadRun(ctx context.Context, db *sql.DB, runID string) (audit.Results, error) {
	var results audit.Results
	var filter, appID sql.NullString
	var windowFrom, windowTo sql.NullTime
	err := db.QueryRowContext(
		ctx,
		`SELECT run_id, started_at, finished_at, filter, app_id, runtime,
		        window_from, window_to, apps_total, apps_compliant, compliance_rate
		 FROM runs WHERE run_id = ?`,
		runID,
	).Scan(
		&results.RunID,
		&results.StartedAt,
		&results.FinishedAt,
		&filter,
		&appID,
		&results.Runtime,
		&windowFrom,
		&windowTo,
		&results.Summary.AppsTotal,
		&results.Summary.AppsCompliant,
		&results.Summary.ComplianceRate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return audit.Results{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return audit.Results{}, fmt.Errorf("load run %s: %w", runID, err)
	}
	results.Filter = filter.String
	results.AppID = appID.String
	if windowFrom.Valid && windowTo.Valid {
		results.Window = &audit.Window{From: windowFrom.Time, To: windowTo.Time}
	}

	if results.Criteria, err = loadCriteria(ctx, db, runID); err != nil {
		return audit.Results{}, err
	}
	if results.Apps, err = loadApps(ctx, db, runID); err != nil {
		return audit.Results{}, err
	}

	counts := make(map[string]int, len(results.Criteria))
	for _, app := range results.Apps {
		for _, result := range app.Results {
			if result.Complied {
				counts[result.Reference]++
			}
		}
	}
	for _, criterion := range results.Criteria {
		results.Summary.PerCriterion = append(results.Summary.PerCriterion, audit.CriterionCount{
			Reference: criterion.Reference,
			Complied:  counts[criterion.Reference],
		})
	}
	return results, nil
}

func loadCriteria(ctx context.Context, db *sql.DB, runID string) ([]audit.CriterionInfo, error) {
	rows, err := db.QueryContext(
		ctx,
		"SELECT reference, description, runtime FROM run_criteria WHERE run_id = ? ORDER BY position",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load criteria: %w", err)
	}
	defer rows.Close()

	var out []audit.CriterionInfo
	for rows.Next() {
		var info audit.CriterionInfo
		if err := rows.Scan(&info.Reference, &info.Description, &info.Runtime); err != nil {
			return nil, fmt.Errorf("scan criterion: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func loadApps(ctx context.Context, db *sql.DB, runID string) ([]audit.AppReport, error) {
	verdicts, err := loadVerdicts(ctx, db, runID)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(
		ctx,
		"SELECT app_id, app_name FROM run_apps WHERE run_id = ? ORDER BY position",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	defer rows.Close()

	var out []audit.AppReport
	for rows.Next() {
		var report audit.AppReport
		if err := rows.Scan(&report.AppID, &report.AppName); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		report.Results = verdicts[report.AppID]
		out = append(out, report)
	}
	return out, rows.Err()
}

func loadVerdicts(ctx context.Context, db *sql.DB, runID string) (map[string][]criteria.Result, error) {
	rows, err := db.QueryContext(
		ctx,
		`SELECT run_results.app_id, run_results.reference, run_criteria.description, run_results.complied
		 FROM run_results
		 JOIN run_criteria
		   ON run_criteria.run_id = run_results.run_id
		  AND run_criteria.reference = run_results.reference
		 WHERE run_results.run_id = ?
		 ORDER BY run_results.app_id, run_results.reference`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]criteria.Result)
	for rows.Next() {
		var appID string
		var result criteria.Result
		if err := rows.Scan(&appID, &result.Reference, &result.Description, &result.Complied); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out[appID] = append(out[appID], result)
	}
	return out, rows.Err()
}
