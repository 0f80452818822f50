package domain

import "time"

// Posting statuses. The pipeline only ever writes StatusPending; the rest
// belong to the application-tracking side of the house.
const (
	StatusPending            = "pending"
	StatusApplicationStarted = "application_started"
	StatusReadyForReview     = "ready_for_review"
	StatusSubmitted          = "submitted"
	StatusClosed             = "closed"
)

// Posting is a persisted, deduplicated job listing. Identity is URL:
// the store enforces a unique index on it.
type Posting struct {
	ID           int64
	Title        string
	Company      string
	URL          string
	Source       string // site identifier, e.g. "indeed"
	Location     string
	Salary       string
	Description  string
	Requirements string
	MatchScore   *float64 // 0-100, set by the application layer, never here
	Status       string
	DiscoveredAt time.Time
}

// RawListing is one unvalidated extraction result. It lives between a
// scraped page and the store; a record that can't be persisted is dropped.
type RawListing struct {
	Title       string
	URL         string
	Company     string
	Location    string
	Salary      string
	Description string
	Source      string
}
