package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
)

// FindPostingByURL returns the posting for a source URL, or nil when the URL
// has never been seen.
func FindPostingByURL(ctx context.Context, db *sql.DB, url string) (*domain.Posting, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, title, company, url, source, location, salary, description, requirements, match_score, status, discovered_at
FROM postings
WHERE url = ?
LIMIT 1;`, url)

	var p domain.Posting
	var score sql.NullFloat64
	var discovered string
	err := row.Scan(
		&p.ID, &p.Title, &p.Company, &p.URL, &p.Source,
		&p.Location, &p.Salary, &p.Description, &p.Requirements,
		&score, &p.Status, &discovered,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if score.Valid {
		v := score.Float64
		p.MatchScore = &v
	}
	p.DiscoveredAt, _ = time.Parse(time.RFC3339, discovered)
	return &p, nil
}

// InsertPostingIfNew persists a posting unless its URL already exists.
// The unique index on url makes this safe even when two runs discover the
// same listing at once; a conflict reports added=false, not an error.
func InsertPostingIfNew(ctx context.Context, db *sql.DB, p domain.Posting) (added bool, err error) {
	if strings.TrimSpace(p.URL) == "" {
		return false, errors.New("missing url")
	}
	if strings.TrimSpace(p.Title) == "" {
		return false, errors.New("missing title")
	}
	if p.Company == "" {
		p.Company = "Unknown Company"
	}
	if p.Location == "" {
		p.Location = "Location not specified"
	}
	if p.Status == "" {
		p.Status = domain.StatusPending
	}
	if p.DiscoveredAt.IsZero() {
		p.DiscoveredAt = time.Now().UTC()
	}

	var score any
	if p.MatchScore != nil {
		score = *p.MatchScore
	}

	_, err = db.ExecContext(ctx, `
INSERT OR IGNORE INTO postings(title, company, url, source, location, salary, description, requirements, match_score, status, discovered_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?);`,
		p.Title,
		p.Company,
		strings.TrimSpace(p.URL),
		p.Source,
		p.Location,
		p.Salary,
		p.Description,
		p.Requirements,
		score,
		p.Status,
		p.DiscoveredAt.Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}

	// OR IGNORE swallows the conflict; changes() says whether a row landed.
	var changes int
	if e := db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

// CountPostingsByURL exists for the idempotence guarantee: re-ingesting the
// same URL must leave exactly one row.
func CountPostingsByURL(ctx context.Context, db *sql.DB, url string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM postings WHERE url = ?;`, url).Scan(&n)
	return n, err
}
