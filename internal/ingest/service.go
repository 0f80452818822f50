// Package ingest turns scraped raw listings into persisted postings and
// keeps the per-run audit trail.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobscout-engine/internal/cache"
	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/logging"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/browser"
	"jobscout-engine/internal/scrape/indeed"
	"jobscout-engine/internal/store"
)

// StatusSkipped marks an invocation that found another run for the same
// site already in flight and backed off without doing anything.
const StatusSkipped = "skipped"

// Summary is what every RunIngestion caller gets back, success or not.
// Per-page and per-record trouble never surfaces as an error; it shows up
// in the counts and, for run-fatal faults, in Status/Error.
type Summary struct {
	Found     int    `json:"found"`
	Added     int    `json:"added"`
	Duplicate int    `json:"duplicate"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type Service struct {
	db   *store.DB
	cfg  config.Config
	seen *cache.SeenCache
	log  *logging.Logger

	// OnNewPosting fires once per newly persisted posting.
	OnNewPosting func(domain.Posting)

	sites      map[string]scrape.Site
	newFetcher func() scrape.Fetcher
}

// New wires the service with the per-site extractors the config enables.
// seen may be nil; the service then leans on sqlite alone.
func New(db *store.DB, cfg config.Config, seen *cache.SeenCache, log *logging.Logger) *Service {
	s := &Service{
		db:   db,
		cfg:  cfg,
		seen: seen,
		log:  log,
	}

	s.newFetcher = func() scrape.Fetcher {
		return browser.New(browser.Config{
			Headless:          cfg.Browser.Headless,
			RequestsPerSecond: cfg.Browser.RequestsPerSecond,
		}, log)
	}

	s.sites = map[string]scrape.Site{}
	if site, ok := cfg.Sites["indeed"]; ok {
		s.sites["indeed"] = indeed.New(site, cfg.PageTimeout(), log)
	}

	return s
}

// RunIngestion executes one full scrape-dedup-persist cycle for a source
// site. Nil or empty keywords/locations and a non-positive maxItems fall
// back to the configured defaults. Callable from the scheduler or manually;
// the Summary is the whole contract either way.
func (s *Service) RunIngestion(ctx context.Context, source string, keywords, locations []string, maxItems int) Summary {
	if len(keywords) == 0 {
		keywords = s.cfg.Scraping.Keywords
	}
	if len(locations) == 0 {
		locations = s.cfg.Scraping.Locations
	}
	if maxItems <= 0 {
		maxItems = s.cfg.Scraping.MaxPostings
	}

	// One run per site at a time: an overlapping trigger skips, it doesn't
	// queue behind a slow run.
	lock := newRunLock(s.cfg.App.DataDir, source)
	locked, err := lock.TryLock()
	if err != nil {
		s.log.Warn("run lock unavailable, proceeding without it", "source", source, "error", err)
	} else if !locked {
		s.log.Info("run already in flight, skipping", "source", source)
		return Summary{Status: StatusSkipped}
	} else {
		defer func() { _ = lock.Unlock() }()
	}

	run := domain.IngestionRun{
		Source:    source,
		Keywords:  strings.Join(keywords, ", "),
		Locations: strings.Join(locations, ", "),
	}
	runID, err := store.InsertRunLog(ctx, s.db.Pool, run)
	if err != nil {
		s.log.Error("could not open run log", "source", source, "error", err)
		return Summary{Status: domain.RunFailed, Error: err.Error()}
	}

	s.log.Info("ingestion run started",
		"source", source, "run", runID,
		"keywords", keywords, "locations", locations, "max", maxItems)

	var res scrape.Result
	if site, known := s.sites[source]; known {
		res = scrape.Run(ctx, s.log, site, s.newFetcher(), scrape.Options{
			Keywords:  keywords,
			Locations: locations,
			MaxItems:  maxItems,
			MaxPages:  s.cfg.Scraping.MaxPages,
			Delay:     scrape.DelayPolicy{Min: s.cfg.DelayMin(), Max: s.cfg.DelayMax()},
		})
	} else {
		res = scrape.Result{Err: fmt.Errorf("unknown source site %q", source)}
	}

	// Persist whatever the run accumulated, even when it stopped early.
	found := len(res.Listings)
	added, duplicate := s.persist(ctx, res.Listings)

	status := domain.RunCompleted
	errMsg := ""
	if res.Err != nil {
		status = domain.RunFailed
		errMsg = res.Err.Error()
	}

	if ferr := store.FinishRunLog(ctx, s.db.Pool, runID, status, found, added, errMsg); ferr != nil {
		s.log.Error("could not finalize run log", "run", runID, "error", ferr)
	}

	s.log.Info("ingestion run finished",
		"source", source, "run", runID, "status", status,
		"found", found, "added", added, "duplicate", duplicate)

	return Summary{
		Found:     found,
		Added:     added,
		Duplicate: duplicate,
		Status:    status,
		Error:     errMsg,
	}
}

// persist deduplicates against the seen cache and the store, inserting what
// is genuinely new. First-seen data wins: duplicates never update the
// stored posting. A failure on one record drops that record only.
func (s *Service) persist(ctx context.Context, listings []domain.RawListing) (added, duplicate int) {
	for _, l := range listings {
		if s.seen.Seen(ctx, l.URL) {
			duplicate++
			continue
		}

		existing, err := store.FindPostingByURL(ctx, s.db.Pool, l.URL)
		if err != nil {
			s.log.Error("posting lookup failed, record dropped", "url", l.URL, "error", err)
			continue
		}
		if existing != nil {
			duplicate++
			s.seen.MarkSeen(ctx, l.URL)
			continue
		}

		p := domain.Posting{
			Title:        l.Title,
			Company:      l.Company,
			URL:          l.URL,
			Source:       l.Source,
			Location:     l.Location,
			Salary:       l.Salary,
			Description:  l.Description,
			Status:       domain.StatusPending,
			DiscoveredAt: time.Now().UTC(),
		}

		ok, err := store.InsertPostingIfNew(ctx, s.db.Pool, p)
		if err != nil {
			s.log.Error("posting insert failed, record dropped", "url", l.URL, "error", err)
			continue
		}
		if !ok {
			// lost the insert race; same outcome as a found duplicate
			duplicate++
			s.seen.MarkSeen(ctx, l.URL)
			continue
		}

		added++
		s.seen.MarkSeen(ctx, l.URL)
		if s.OnNewPosting != nil {
			s.OnNewPosting(p)
		}
	}
	return added, duplicate
}
