package scrape_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/logging"
	"jobscout-engine/internal/scrape"
)

// fakeSite serves canned listings per search URL and records request order.
type fakeSite struct {
	pages    map[string][]domain.RawListing
	requests []string
}

func (s *fakeSite) Name() string { return "fake" }

func (s *fakeSite) BuildSearchURL(keyword, location string, page int) string {
	return fmt.Sprintf("%s|%s|%d", keyword, location, page)
}

func (s *fakeSite) ParseListing(sel *goquery.Selection) *domain.RawListing { return nil }

func (s *fakeSite) ScrapePage(ctx context.Context, f scrape.Fetcher, url string) []domain.RawListing {
	s.requests = append(s.requests, url)
	return s.pages[url]
}

type fakeFetcher struct {
	ensureErr error
	ensured   int
	closed    int
}

func (f *fakeFetcher) EnsureSession(ctx context.Context) error {
	f.ensured++
	return f.ensureErr
}

func (f *fakeFetcher) FetchRendered(ctx context.Context, url, readySelector string, timeout time.Duration) (*goquery.Document, error) {
	return nil, scrape.ErrNavigation
}

func (f *fakeFetcher) Close() error {
	f.closed++
	return nil
}

func listings(urls ...string) []domain.RawListing {
	out := make([]domain.RawListing, 0, len(urls))
	for _, u := range urls {
		out = append(out, domain.RawListing{Title: "t", URL: u, Source: "fake"})
	}
	return out
}

func TestRun_CrossProductKeywordMajor(t *testing.T) {
	site := &fakeSite{pages: map[string][]domain.RawListing{
		"go|london|0":   listings("a"),
		"go|remote|0":   listings("b"),
		"rust|london|0": listings("c"),
		"rust|remote|0": listings("d"),
	}}
	f := &fakeFetcher{}

	res := scrape.Run(context.Background(), logging.NewNop(), site, f, scrape.Options{
		Keywords:  []string{"go", "rust"},
		Locations: []string{"london", "remote"},
		MaxItems:  100,
		MaxPages:  1,
	})
	if res.Err != nil {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if len(res.Listings) != 4 {
		t.Fatalf("got %d listings, want 4", len(res.Listings))
	}

	want := []string{"go|london|0", "go|remote|0", "rust|london|0", "rust|remote|0"}
	if len(site.requests) != len(want) {
		t.Fatalf("got %d requests %v, want %d", len(site.requests), site.requests, len(want))
	}
	for i, u := range want {
		if site.requests[i] != u {
			t.Errorf("request[%d] = %q, want %q", i, site.requests[i], u)
		}
	}

	if f.ensured != 1 {
		t.Errorf("EnsureSession called %d times, want 1", f.ensured)
	}
	if f.closed != 1 {
		t.Errorf("Close called %d times, want 1", f.closed)
	}
}

func TestRun_PaginationStopsOnEmptyPage(t *testing.T) {
	site := &fakeSite{pages: map[string][]domain.RawListing{
		"go|london|0": listings("a", "b"),
		"go|london|1": listings("c"),
		// page 2 empty: pair ends, page 3 must never be requested
		"go|london|3": listings("never"),
	}}
	f := &fakeFetcher{}

	res := scrape.Run(context.Background(), logging.NewNop(), site, f, scrape.Options{
		Keywords:  []string{"go"},
		Locations: []string{"london"},
		MaxItems:  100,
		MaxPages:  10,
	})
	if res.Err != nil {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if len(res.Listings) != 3 {
		t.Errorf("got %d listings, want 3", len(res.Listings))
	}

	want := []string{"go|london|0", "go|london|1", "go|london|2"}
	if len(site.requests) != len(want) {
		t.Fatalf("requests = %v, want %v", site.requests, want)
	}
}

func TestRun_ItemCapTruncates(t *testing.T) {
	site := &fakeSite{pages: map[string][]domain.RawListing{
		"go|london|0": listings("a", "b", "c", "d", "e"),
		"go|remote|0": listings("f", "g"),
	}}
	f := &fakeFetcher{}

	res := scrape.Run(context.Background(), logging.NewNop(), site, f, scrape.Options{
		Keywords:  []string{"go"},
		Locations: []string{"london", "remote"},
		MaxItems:  3,
		MaxPages:  5,
	})
	if res.Err != nil {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if len(res.Listings) != 3 {
		t.Errorf("got %d listings, want exactly the cap 3", len(res.Listings))
	}
	// cap was hit after page one of the first pair; the second pair must not
	// have been scraped
	for _, u := range site.requests {
		if u == "go|remote|0" {
			t.Errorf("scraped %q after cap was reached", u)
		}
	}
	if f.closed != 1 {
		t.Errorf("Close called %d times, want 1", f.closed)
	}
}

func TestRun_EmptyInputsSucceedWithoutScraping(t *testing.T) {
	cases := []struct {
		name string
		opts scrape.Options
	}{
		{"no keywords", scrape.Options{Locations: []string{"x"}, MaxItems: 10}},
		{"no locations", scrape.Options{Keywords: []string{"x"}, MaxItems: 10}},
		{"zero cap", scrape.Options{Keywords: []string{"x"}, Locations: []string{"y"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			site := &fakeSite{}
			f := &fakeFetcher{}
			res := scrape.Run(context.Background(), logging.NewNop(), site, f, tc.opts)
			if res.Err != nil {
				t.Fatalf("Run() error = %v, want nil", res.Err)
			}
			if len(res.Listings) != 0 {
				t.Errorf("got %d listings, want 0", len(res.Listings))
			}
			if len(site.requests) != 0 {
				t.Errorf("scraped %v, want no requests", site.requests)
			}
			if f.closed != 1 {
				t.Errorf("Close called %d times, want 1", f.closed)
			}
		})
	}
}

func TestRun_SessionFailureClosesAndReports(t *testing.T) {
	boom := errors.New("browser would not start")
	site := &fakeSite{}
	f := &fakeFetcher{ensureErr: boom}

	res := scrape.Run(context.Background(), logging.NewNop(), site, f, scrape.Options{
		Keywords:  []string{"go"},
		Locations: []string{"london"},
		MaxItems:  10,
	})
	if !errors.Is(res.Err, boom) {
		t.Fatalf("Run() error = %v, want %v", res.Err, boom)
	}
	if len(res.Listings) != 0 {
		t.Errorf("got %d listings, want 0", len(res.Listings))
	}
	if f.closed != 1 {
		t.Errorf("Close called %d times, want 1 even on failure", f.closed)
	}
	if len(site.requests) != 0 {
		t.Errorf("scraped %v despite dead session", site.requests)
	}
}

func TestRun_CancelledContextStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	site := &fakeSite{pages: map[string][]domain.RawListing{
		"go|london|0": listings("a"),
	}}
	f := &fakeFetcher{}

	res := scrape.Run(ctx, logging.NewNop(), site, f, scrape.Options{
		Keywords:  []string{"go"},
		Locations: []string{"london"},
		MaxItems:  10,
	})
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", res.Err)
	}
	if f.closed != 1 {
		t.Errorf("Close called %d times, want 1", f.closed)
	}
}
