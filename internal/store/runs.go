package store

import (
	"context"
	"database/sql"
	"time"

	"jobscout-engine/internal/domain"
)

// InsertRunLog opens the audit row for one ingestion run (status=running).
func InsertRunLog(ctx context.Context, db *sql.DB, run domain.IngestionRun) (int64, error) {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = domain.RunRunning
	}

	res, err := db.ExecContext(ctx, `
INSERT INTO ingestion_runs(source, started_at, status, keywords, locations)
VALUES(?,?,?,?,?);`,
		run.Source,
		run.StartedAt.Format(time.RFC3339),
		run.Status,
		run.Keywords,
		run.Locations,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishRunLog closes the audit row. Terminal status and ended_at are set in
// the same statement so no observer can see one without the other.
func FinishRunLog(ctx context.Context, db *sql.DB, id int64, status string, found, added int, errMsg string) error {
	_, err := db.ExecContext(ctx, `
UPDATE ingestion_runs
SET status = ?, ended_at = ?, found = ?, added = ?, error = ?
WHERE id = ?;`,
		status,
		time.Now().UTC().Format(time.RFC3339),
		found,
		added,
		errMsg,
		id,
	)
	return err
}

// GetRun reads one audit row back.
func GetRun(ctx context.Context, db *sql.DB, id int64) (domain.IngestionRun, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, source, started_at, ended_at, found, added, status, error, keywords, locations
FROM ingestion_runs
WHERE id = ?;`, id)

	var r domain.IngestionRun
	var started string
	var ended sql.NullString
	if err := row.Scan(
		&r.ID, &r.Source, &started, &ended,
		&r.Found, &r.Added, &r.Status, &r.Error,
		&r.Keywords, &r.Locations,
	); err != nil {
		return r, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339, started)
	if ended.Valid {
		t, _ := time.Parse(time.RFC3339, ended.String)
		r.EndedAt = &t
	}
	return r, nil
}
