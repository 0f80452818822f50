package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.Scraping.IntervalSeconds < 0 {
		errs = append(errs, "scraping.interval_seconds must be >= 0")
	}
	if cfg.Scraping.DelayMaxSeconds < cfg.Scraping.DelayMinSeconds {
		errs = append(errs, "scraping.delay_max_seconds must be >= delay_min_seconds")
	}
	for name, site := range cfg.Sites {
		if site.BaseURL == "" {
			errs = append(errs, fmt.Sprintf("sites.%s.base_url is required", name))
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
