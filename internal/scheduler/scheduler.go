// Package scheduler wires up the cron job that periodically triggers an
// ingestion run for every configured source site.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/ingest"
	"jobscout-engine/internal/logging"
)

// Ingestor is the one operation the scheduler needs from the ingest side.
type Ingestor interface {
	RunIngestion(ctx context.Context, source string, keywords, locations []string, maxItems int) ingest.Summary
}

// Scheduler owns the recurring trigger. Construct one at startup and hand
// it to whatever performs shutdown; it is not ambient global state.
type Scheduler struct {
	cron *cron.Cron
	svc  Ingestor
	cfg  config.Config
	log  *logging.Logger

	mu      sync.Mutex
	entry   cron.EntryID
	running bool
}

func New(svc Ingestor, cfg config.Config, log *logging.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		svc:  svc,
		cfg:  cfg,
		log:  log,
	}
}

// Start registers the recurring trigger and fires one cycle immediately so
// the store fills without waiting out the first interval. No-op when
// scraping is disabled. Calling Start again replaces the schedule instead
// of stacking a second one.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Scraping.Enabled {
		s.log.Info("scraping disabled, scheduler not started")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The entry outlives Stop (cron.Stop only halts the runner), so a stale
	// one must go regardless of the running flag or a restart would tick
	// twice per interval.
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}

	spec := fmt.Sprintf("@every %ds", s.cfg.Scraping.IntervalSeconds)
	entry, err := s.cron.AddFunc(spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.entry = entry

	if !s.running {
		s.cron.Start()
	}
	s.running = true
	s.log.Info("scheduler started", "spec", spec, "sources", s.cfg.Scraping.Sources)

	// immediate first run, off the caller's goroutine
	go s.runCycle(ctx)

	return nil
}

// Stop cancels future firings. In-flight cycles finish on their own.
// Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.log.Info("scheduler stopped")
}

// runCycle triggers one ingestion run per configured source site. Sites run
// concurrently; each run is sequential inside and owns its own browser
// session, so nothing is shared across them. A site's failure is already
// folded into its Summary, so the group never aborts early.
func (s *Scheduler) runCycle(ctx context.Context) {
	sources := s.cfg.Scraping.Sources
	if len(sources) == 0 {
		s.log.Info("no source sites configured, nothing to scrape")
		return
	}

	var g errgroup.Group
	for _, source := range sources {
		source := source
		g.Go(func() error {
			sum := s.svc.RunIngestion(ctx, source, nil, nil, 0)
			s.log.Info("scheduled run done",
				"source", source, "status", sum.Status,
				"found", sum.Found, "added", sum.Added, "duplicate", sum.Duplicate)
			return nil
		})
	}
	_ = g.Wait()
}
