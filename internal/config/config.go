package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SelectorSet holds the CSS selector candidates for one site. Each field
// lists a primary selector first and fallbacks after it, so a site's markup
// can drift without breaking extraction.
type SelectorSet struct {
	Cards       []string `yaml:"cards"`
	Ready       string   `yaml:"ready"`
	Title       []string `yaml:"title"`
	Link        []string `yaml:"link"`
	Company     []string `yaml:"company"`
	Location    []string `yaml:"location"`
	Salary      []string `yaml:"salary"`
	Description []string `yaml:"description"`
}

type SiteConfig struct {
	BaseURL   string      `yaml:"base_url"`
	Selectors SelectorSet `yaml:"selectors"`
}

type Config struct {
	App struct {
		DataDir  string `yaml:"data_dir"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Scraping struct {
		Enabled         bool     `yaml:"enabled"`
		IntervalSeconds int      `yaml:"interval_seconds"`
		Keywords        []string `yaml:"keywords"`
		Locations       []string `yaml:"locations"`
		MaxPostings     int      `yaml:"max_postings"`
		DelayMinSeconds int      `yaml:"delay_min_seconds"`
		DelayMaxSeconds int      `yaml:"delay_max_seconds"`
		MaxPages        int      `yaml:"max_pages"`
		Sources         []string `yaml:"sources"`
	} `yaml:"scraping"`

	Browser struct {
		Headless           bool    `yaml:"headless"`
		PageTimeoutSeconds int     `yaml:"page_timeout_seconds"`
		RequestsPerSecond  float64 `yaml:"requests_per_second"`
	} `yaml:"browser"`

	Cache struct {
		RedisURL string `yaml:"redis_url"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"cache"`

	Sites map[string]SiteConfig `yaml:"sites"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.Scraping.IntervalSeconds) * time.Second
}

func (c Config) DelayMin() time.Duration {
	return time.Duration(c.Scraping.DelayMinSeconds) * time.Second
}

func (c Config) DelayMax() time.Duration {
	return time.Duration(c.Scraping.DelayMaxSeconds) * time.Second
}

func (c Config) PageTimeout() time.Duration {
	return time.Duration(c.Browser.PageTimeoutSeconds) * time.Second
}

// Default returns the compiled-in configuration written to the data dir on
// first start. Selector sets ship for Indeed; other sites are added here or
// through the selectors overlay file.
func Default() Config {
	var cfg Config

	cfg.App.DataDir = "."
	cfg.App.LogLevel = "info"

	cfg.Scraping.Enabled = true
	cfg.Scraping.IntervalSeconds = 7200
	cfg.Scraping.Keywords = []string{"software engineer", "backend developer"}
	cfg.Scraping.Locations = []string{"United Kingdom", "London", "Remote"}
	cfg.Scraping.MaxPostings = 50
	cfg.Scraping.DelayMinSeconds = 2
	cfg.Scraping.DelayMaxSeconds = 5
	cfg.Scraping.MaxPages = 3
	cfg.Scraping.Sources = []string{"indeed"}

	cfg.Browser.Headless = true
	cfg.Browser.PageTimeoutSeconds = 10
	cfg.Browser.RequestsPerSecond = 0.5

	cfg.Cache.TTLHours = 24

	cfg.Sites = map[string]SiteConfig{
		"indeed": {
			BaseURL: "https://uk.indeed.com",
			Selectors: SelectorSet{
				Cards:       []string{"div.job_seen_beacon", "div.cardOutline", "td.resultContent"},
				Ready:       "div.job_seen_beacon",
				Title:       []string{"h2.jobTitle a", "a.jcs-JobTitle", "h2.jobTitle"},
				Link:        []string{"h2.jobTitle a", "a.jcs-JobTitle"},
				Company:     []string{"span.companyName", `span[data-testid="company-name"]`},
				Location:    []string{"div.companyLocation", `div[data-testid="text-location"]`},
				Salary:      []string{"div.salary-snippet", `div[data-testid="attribute_snippet_testid"]`},
				Description: []string{"div.job-snippet", "div.underShelfFooter"},
			},
		},
	}

	return cfg
}
