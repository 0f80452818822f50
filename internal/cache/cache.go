// Package cache is an optional Redis front for the duplicate-URL check.
// Scheduled runs revisit the same search pages over and over; remembering
// recently seen URLs here skips a sqlite round trip for most of them.
// The store's unique index stays the source of truth.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type SeenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at the given URL and returns a SeenCache.
// URL format: redis://localhost:6379
func New(redisURL string, ttl time.Duration) (*SeenCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &SeenCache{client: client, ttl: ttl}, nil
}

// Seen reports whether the URL was marked within the TTL. A nil cache or a
// Redis error reads as "not seen" so the caller falls through to the store.
func (c *SeenCache) Seen(ctx context.Context, url string) bool {
	if c == nil {
		return false
	}
	n, err := c.client.Exists(ctx, seenKey(url)).Result()
	return err == nil && n > 0
}

// MarkSeen records the URL; best effort.
func (c *SeenCache) MarkSeen(ctx context.Context, url string) {
	if c == nil {
		return
	}
	_ = c.client.Set(ctx, seenKey(url), 1, c.ttl).Err()
}

func (c *SeenCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func seenKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("jobscout:seen:%x", hash[:12])
}
