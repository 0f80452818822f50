package scrape

import (
	"context"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/logging"
)

// Options configure one orchestrated run over a site.
type Options struct {
	Keywords  []string
	Locations []string
	MaxItems  int
	MaxPages  int // pagination depth per keyword/location pair
	Delay     DelayPolicy
}

// Result is what a run produced. Err nil means the run completed; non-nil
// means it stopped early, with Listings holding whatever was accumulated
// before the fault.
type Result struct {
	Listings []domain.RawListing
	Err      error
}

// Run walks the keyword × location cross product against one site,
// keyword-major, paginating each pair until a page comes back empty, the
// pair hits MaxPages, or the run hits MaxItems. The fetch session is opened
// once for the whole run and closed unconditionally, success or not.
func Run(ctx context.Context, log *logging.Logger, site Site, f Fetcher, opts Options) Result {
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn("session close failed", "site", site.Name(), "error", err)
		}
	}()

	if opts.MaxItems <= 0 || len(opts.Keywords) == 0 || len(opts.Locations) == 0 {
		return Result{}
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1
	}

	if err := f.EnsureSession(ctx); err != nil {
		return Result{Err: err}
	}

	var acc []domain.RawListing
	first := true

	for _, keyword := range opts.Keywords {
		for _, location := range opts.Locations {
			if len(acc) >= opts.MaxItems {
				log.Info("item cap reached, stopping run", "site", site.Name(), "cap", opts.MaxItems)
				return Result{Listings: acc[:opts.MaxItems]}
			}

			for page := 0; page < opts.MaxPages; page++ {
				if len(acc) >= opts.MaxItems {
					break
				}
				if err := ctx.Err(); err != nil {
					return Result{Listings: truncate(acc, opts.MaxItems), Err: err}
				}

				// Pause before every request except the very first, which
				// also covers "no pause after the last".
				if !first {
					if err := sleep(ctx, opts.Delay.Next()); err != nil {
						return Result{Listings: truncate(acc, opts.MaxItems), Err: err}
					}
				}
				first = false

				url := site.BuildSearchURL(keyword, location, page)
				log.Debug("scraping page", "site", site.Name(), "keyword", keyword, "location", location, "page", page)

				listings := site.ScrapePage(ctx, f, url)
				if len(listings) == 0 {
					// end of results for this pair, not a failure
					break
				}
				acc = append(acc, listings...)

				log.Info("page scraped",
					"site", site.Name(), "keyword", keyword, "location", location,
					"page", page, "listings", len(listings), "total", len(acc))
			}
		}
	}

	return Result{Listings: truncate(acc, opts.MaxItems)}
}

func truncate(xs []domain.RawListing, n int) []domain.RawListing {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

// sleep is a ctx-aware time.Sleep so a stopped engine isn't stuck mid-delay.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
