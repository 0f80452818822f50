package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg plus everything a
// careful operator should hear about before a scrape cycle runs with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Scraping.Keywords = trimList(out.Scraping.Keywords)
	out.Scraping.Locations = trimList(out.Scraping.Locations)
	out.Scraping.Sources = trimList(out.Scraping.Sources)

	// ---- Validation rules ----

	if out.Scraping.Enabled {
		if out.Scraping.IntervalSeconds <= 0 {
			res.addErr("scraping.interval_seconds must be > 0")
		} else if out.Scraping.IntervalSeconds < 60 {
			res.addWarn("scraping.interval_seconds is very low (%d) and may get the scraper blocked.", out.Scraping.IntervalSeconds)
		}
	}

	if out.Scraping.DelayMinSeconds < 0 {
		res.addErr("scraping.delay_min_seconds must be >= 0")
	}
	if out.Scraping.DelayMaxSeconds < out.Scraping.DelayMinSeconds {
		res.addErr("scraping.delay_max_seconds must be >= delay_min_seconds")
	}
	if out.Scraping.DelayMinSeconds == 0 && out.Scraping.DelayMaxSeconds == 0 {
		res.addWarn("inter-request delay is zero; job boards tend to notice that.")
	}

	if out.Scraping.MaxPages <= 0 {
		res.addErr("scraping.max_pages must be > 0")
	}
	if out.Scraping.MaxPostings < 0 {
		res.addErr("scraping.max_postings must be >= 0")
	}

	if out.Browser.PageTimeoutSeconds <= 0 {
		res.addErr("browser.page_timeout_seconds must be > 0")
	}
	if out.Browser.RequestsPerSecond <= 0 {
		res.addWarn("browser.requests_per_second is not set; the host backstop defaults to 1 req/s.")
	}

	// every enabled source needs a site config with usable selectors
	for _, src := range out.Scraping.Sources {
		site, ok := out.Sites[src]
		if !ok {
			res.addErr("scraping.sources includes %q but sites.%s is not configured", src, src)
			continue
		}
		if strings.TrimSpace(site.BaseURL) == "" {
			res.addErr("sites.%s.base_url is required", src)
		}
		if len(site.Selectors.Cards) == 0 {
			res.addErr("sites.%s.selectors.cards needs at least one selector", src)
		}
		if strings.TrimSpace(site.Selectors.Ready) == "" {
			res.addErr("sites.%s.selectors.ready is required", src)
		}
		if len(site.Selectors.Title) == 0 || len(site.Selectors.Link) == 0 {
			res.addErr("sites.%s needs title and link selectors (records without them are unusable)", src)
		}
	}

	if len(out.Scraping.Sources) == 0 {
		res.addWarn("scraping.sources is empty; scheduled cycles will do nothing.")
	}

	return out, res
}
