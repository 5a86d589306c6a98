package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"appaudit/internal/audit"
)

// IngestRun records a completed run with its criteria, applications,
// and per-criterion verdicts. Ingesting a run id that is already stored
// is a no-op, so retries stay safe.
func IngestRun(ctx context.Context, db *sql.DB, results audit.Results) error {
	if db == nil {
		return errors.New("store: db is nil")
	}
	if results.RunID == "" {
		return errors.New("store: run id is empty")
	}
	exists, err := runExists(ctx, db, results.RunID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var windowFrom, windowTo interface{}
	if results.Window != nil {
		windowFrom = results.Window.From
		windowTo = results.Window.To
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO runs (
		   run_id, started_at, finished_at, filter, app_id, runtime,
		   window_from, window_to, apps_total, apps_compliant, compliance_rate
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		results.RunID,
		results.StartedAt,
		results.FinishedAt,
		nullableString(results.Filter),
		nullableString(results.AppID),
		results.Runtime,
		windowFrom,
		windowTo,
		results.Summary.AppsTotal,
		results.Summary.AppsCompliant,
		results.Summary.ComplianceRate,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for position, criterion := range results.Criteria {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO run_criteria (run_id, position, reference, description, runtime)
			 VALUES (?, ?, ?, ?, ?)`,
			results.RunID,
			position,
			criterion.Reference,
			criterion.Description,
			criterion.Runtime,
		); err != nil {
			return fmt.Errorf("insert criterion %s: %w", criterion.Reference, err)
		}
	}

	for position, app := range results.Apps {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO run_apps (row_id, run_id, position, app_id, app_name, compliant)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(),
			results.RunID,
			position,
			app.AppID,
			app.AppName,
			app.Compliant(),
		); err != nil {
			return fmt.Errorf("insert application %s: %w", app.AppID, err)
		}
		for _, result := range app.Results {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO run_results (row_id, run_id, app_id, reference, complied)
				 VALUES (?, ?, ?, ?, ?)`,
				uuid.NewString(),
				results.RunID,
				app.AppID,
				result.Reference,
				result.Complied,
			); err != nil {
				return fmt.Errorf("insert result %s/%s: %w", app.AppID, result.Reference, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest: %w", err)
	}
	return nil
}

// nullableString converts an optional string into a SQL argument.
func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func runExists(ctx context.Context, db *sql.DB, runID string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE run_id = ?", runID).Scan(&count); err != nil {
		return false, fmt.Errorf("check run %s: %w", runID, err)
	}
	return count > 0, nil
}
