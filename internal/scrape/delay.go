package scrape

import (
	"math/rand"
	"time"
)

// DelayPolicy picks a randomized pause between requests so traffic doesn't
// land on a metronome. Draws are uniform in [Min, Max].
type DelayPolicy struct {
	Min time.Duration
	Max time.Duration
}

func (p DelayPolicy) Next() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + time.Duration(rand.Int63n(int64(p.Max-p.Min)))
}
