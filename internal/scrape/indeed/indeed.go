// Package indeed extracts job listings from Indeed search result pages.
package indeed

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/logging"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/util"
)

const resultsPerPage = 10 // Indeed's start= offset unit

type Scraper struct {
	base    string
	sel     config.SelectorSet
	timeout time.Duration
	log     *logging.Logger
}

func New(site config.SiteConfig, pageTimeout time.Duration, log *logging.Logger) *Scraper {
	return &Scraper{
		base:    site.BaseURL,
		sel:     site.Selectors,
		timeout: pageTimeout,
		log:     log,
	}
}

func (s *Scraper) Name() string { return "indeed" }

// BuildSearchURL produces /jobs?q=<keyword>&l=<location>, plus the start=
// offset for pages past the first.
func (s *Scraper) BuildSearchURL(keyword, location string, page int) string {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("l", location)

	u := s.base + "/jobs?" + q.Encode()
	if page > 0 {
		u += "&start=" + strconv.Itoa(page*resultsPerPage)
	}
	return u
}

// ParseListing pulls one job card apart. Title and link are required; a card
// missing either is unusable and reads as nil. Everything else degrades to a
// default so markup drift on a secondary field never drops a listing.
func (s *Scraper) ParseListing(sel *goquery.Selection) *domain.RawListing {
	title := firstText(sel, s.sel.Title)
	link := firstAttr(sel, s.sel.Link, "href")
	if title == "" || link == "" {
		return nil
	}

	listing := domain.RawListing{
		Title:  title,
		URL:    util.CanonicalizeURL(util.ResolveLink(s.base, link)),
		Source: s.Name(),
	}

	listing.Company = firstText(sel, s.sel.Company)
	if listing.Company == "" {
		listing.Company = "Unknown Company"
	}

	listing.Location = util.NormalizeLocation(firstText(sel, s.sel.Location))
	if listing.Location == "" {
		listing.Location = "Location not specified"
	}

	listing.Salary = firstText(sel, s.sel.Salary)
	listing.Description = firstText(sel, s.sel.Description)

	return &listing
}

// ScrapePage fetches one results page and extracts whatever it can. Every
// failure mode here is page-local: the caller gets an empty slice and the
// run moves on.
func (s *Scraper) ScrapePage(ctx context.Context, f scrape.Fetcher, pageURL string) []domain.RawListing {
	doc, err := f.FetchRendered(ctx, pageURL, s.sel.Ready, s.timeout)
	if err != nil {
		switch {
		case errors.Is(err, scrape.ErrLoadTimeout):
			s.log.Warn("results never loaded", "url", pageURL, "error", err)
		default:
			s.log.Warn("page fetch failed", "url", pageURL, "error", err)
		}
		return nil
	}

	cards := findCards(doc, s.sel.Cards)
	if cards == nil {
		s.log.Warn("no job cards found on page", "url", pageURL)
		return nil
	}

	var out []domain.RawListing
	cards.Each(func(_ int, card *goquery.Selection) {
		if listing := s.ParseListing(card); listing != nil {
			out = append(out, *listing)
		}
	})

	s.log.Debug("page parsed", "url", pageURL, "cards", cards.Length(), "listings", len(out))
	return out
}

// findCards tries each card selector in turn, keeping the first that
// matches anything.
func findCards(doc *goquery.Document, candidates []string) *goquery.Selection {
	for _, sel := range candidates {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func firstText(sel *goquery.Selection, candidates []string) string {
	for _, c := range candidates {
		if t := util.CleanText(sel.Find(c).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func firstAttr(sel *goquery.Selection, candidates []string, attr string) string {
	for _, c := range candidates {
		if v, ok := sel.Find(c).First().Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}
