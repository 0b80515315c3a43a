// Package app assembles the collector from its config.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Vodeneev/collegetennis/internal/collector/jobs"
	"github.com/Vodeneev/collegetennis/internal/collector/jobutil"
	"github.com/Vodeneev/collegetennis/internal/collector/transport"
	"github.com/Vodeneev/collegetennis/internal/collector/upsert"
	"github.com/Vodeneev/collegetennis/internal/pkg/cache"
	"github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/interfaces"
	"github.com/Vodeneev/collegetennis/internal/pkg/notify"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage/memstore"

	// Register every job via init().
	_ "github.com/Vodeneev/collegetennis/internal/collector/jobs/all"
)

// MemoryDSN selects the in-process store.
const MemoryDSN = "memory"

type App struct {
	Config   *config.Config
	Store    storage.Store
	Cache    cache.Cache
	Jobs     []interfaces.Job
	Runner   *jobutil.Runner
	Notifier notify.Notifier
}

// New opens the store and cache and builds the jobs named in sync.enabled_jobs
// (every registered job when the list is empty). all builds every job regardless.
func New(cfg *config.Config, all bool) (*App, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	deps := jobs.Deps{
		Config: cfg,
		Store:  store,
		Client: transport.New(&cfg.Provider),
		Engine: upsert.New(c, cfg.Cache.TTL),
	}
	names := cfg.Sync.EnabledJobs
	if all {
		names = nil
	}
	list, err := jobs.Build(names, deps)
	if err != nil {
		store.Close()
		return nil, err
	}

	notifier := notify.New(cfg.Telegram)
	return &App{
		Config:   cfg,
		Store:    store,
		Cache:    c,
		Jobs:     list,
		Runner:   jobutil.NewRunner(list, notifier, performance.GetTracker()),
		Notifier: notifier,
	}, nil
}

// OpenStore connects to Postgres, or returns an empty in-process store for the memory DSN.
func OpenStore(cfg *config.Config) (storage.Store, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.Postgres.DSN), MemoryDSN) {
		slog.Warn("Using in-memory store, nothing will be persisted")
		return memstore.New(), nil
	}
	store, err := storage.NewPostgres(&cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

// Close flushes notifications and releases the store and cache.
func (a *App) Close() {
	a.Notifier.Close()
	if c, ok := a.Cache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("Failed to close cache", "error", err)
		}
	}
	if err := a.Store.Close(); err != nil {
		slog.Warn("Failed to close store", "error", err)
	}
}
