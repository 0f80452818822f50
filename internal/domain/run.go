package domain

import "time"

// IngestionRun statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// IngestionRun is the audit row for one scrape invocation. EndedAt and a
// terminal status are always written together; a row observed at "running"
// after a normal return means the process died mid-run.
type IngestionRun struct {
	ID        int64
	Source    string
	StartedAt time.Time
	EndedAt   *time.Time
	Found     int
	Added     int
	Status    string
	Error     string
	Keywords  string // comma-joined, as searched
	Locations string
}
