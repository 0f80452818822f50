package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/domain"
)

// Page-level fault taxonomy shared by Fetcher implementations. Callers
// treat both as "this page yielded nothing", never as run killers.
var (
	ErrLoadTimeout = errors.New("page load timed out")
	ErrNavigation  = errors.New("navigation failed")
)

// Fetcher drives a rendering browser session. Implementations own the
// session lifecycle: lazy start on first use, torn down by Close exactly
// once per run.
type Fetcher interface {
	// EnsureSession starts the browser session if one isn't live. Safe to
	// call before every fetch.
	EnsureSession(ctx context.Context) error

	// FetchRendered navigates to url and blocks (bounded by timeout) until
	// an element matching readySelector exists, then returns the rendered
	// document. Fails with ErrLoadTimeout or ErrNavigation; both are
	// recoverable page-level faults, not run killers.
	FetchRendered(ctx context.Context, url, readySelector string, timeout time.Duration) (*goquery.Document, error)

	Close() error
}

// Site is the per-board extraction contract. One implementation per source
// site; the engine selects the variant for each configured source.
type Site interface {
	Name() string

	// BuildSearchURL constructs the search URL for a keyword/location pair.
	// page 0 is the base search; higher pages append the site's offset
	// parameter.
	BuildSearchURL(keyword, location string, page int) string

	// ParseListing extracts one listing card. Returns nil when the card is
	// unusable (no title or no link); optional fields get defaults instead
	// of failing.
	ParseListing(sel *goquery.Selection) *domain.RawListing

	// ScrapePage fetches and extracts one results page. Fetch or parse
	// trouble yields an empty slice, never an error: an unreachable page
	// reads as "nothing found here".
	ScrapePage(ctx context.Context, f Fetcher, url string) []domain.RawListing
}
