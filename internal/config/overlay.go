package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SelectorsFile is the shape of an optional selectors.yml dropped next to
// the main config. It lets selector sets be patched after markup drift
// without rewriting the whole config.
type SelectorsFile struct {
	Sites map[string]SiteConfig `yaml:"sites"`
}

func OverlaySelectors(cfg *Config, selectorsPath string) error {
	b, err := os.ReadFile(selectorsPath)
	if err != nil {
		// Missing overlay file should not kill startup
		return nil
	}

	var sf SelectorsFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return err
	}

	if cfg.Sites == nil {
		cfg.Sites = map[string]SiteConfig{}
	}
	for name, site := range sf.Sites {
		cur := cfg.Sites[name]
		if site.BaseURL != "" {
			cur.BaseURL = site.BaseURL
		}
		if len(site.Selectors.Cards) > 0 {
			cur.Selectors = site.Selectors
		}
		cfg.Sites[name] = cur
	}
	return nil
}
