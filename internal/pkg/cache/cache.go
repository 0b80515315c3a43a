// Package cache holds small lookups (resolved team keys, scraped school ids) between runs.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
)

// Cache is a byte-value cache with per-entry TTL. A zero TTL means the backend default.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Stats reports lookup counters.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// New builds the backend selected by cfg.Cache.Backend.
func New(cfg *config.Config) (Cache, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return NewMemory(cfg.Cache.MaxEntries, cfg.Cache.TTL), nil
	case "redis":
		return NewRedis(&cfg.Redis, cfg.Cache.KeyPrefix, cfg.Cache.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
