package ingest

import (
	"path/filepath"

	"github.com/gofrs/flock"
)

// newRunLock returns the per-site run lock. It's a file lock rather than a
// mutex so two engine processes sharing a data dir can't scrape the same
// site at once either.
func newRunLock(dataDir, source string) *flock.Flock {
	if dataDir == "" {
		dataDir = "."
	}
	return flock.New(filepath.Join(dataDir, source+".scrape.lock"))
}
