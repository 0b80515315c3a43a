// Package syncer pulls upstream collections page by page and writes them through the upsert
// engine, one transaction per page.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/Vodeneev/collegetennis/internal/collector/jobs"
	"github.com/Vodeneev/collegetennis/internal/collector/pager"
	"github.com/Vodeneev/collegetennis/internal/collector/scraper"
	"github.com/Vodeneev/collegetennis/internal/collector/transport"
	"github.com/Vodeneev/collegetennis/internal/collector/upsert"
	"github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

// Orchestrator holds what the collectors share.
type Orchestrator struct {
	cfg     *config.Config
	store   storage.Store
	client  *transport.Client
	engine  *upsert.Engine
	scraper *scraper.Scraper
	now     func() time.Time
}

func New(deps jobs.Deps) *Orchestrator {
	return &Orchestrator{
		cfg:     deps.Config,
		store:   deps.Store,
		client:  deps.Client,
		engine:  deps.Engine,
		scraper: scraper.New(deps.Client, deps.Config.Provider.SchoolPagesURL),
		now:     time.Now,
	}
}

func (o *Orchestrator) window() (time.Time, time.Time) {
	return o.cfg.Window(o.now())
}

func (o *Orchestrator) walker(fetch pager.Fetcher) *pager.Walker {
	return pager.NewWalker(fetch, pager.Options{
		PageSize:    o.cfg.Provider.PageSize,
		Delay:       o.cfg.Provider.PageDelay,
		MaxFailures: o.cfg.Provider.MaxPageFailures,
	})
}

// PageSpec describes one paginated collection: R is the raw item, N the mapped record.
type PageSpec[R, N any] struct {
	Fetch  pager.Fetcher
	Map    func(R) ([]N, []error)
	Upsert func(ctx context.Context, tx storage.Tx, rec N) (storage.Outcome, error)

	// Filter drops records (keep=false) or ends the walk after the current page (stop=true).
	Filter func(rec N) (keep, stop bool)
	// AfterCommit runs with the records of a page once its transaction committed.
	AfterCommit func(ctx context.Context, recs []N) error
}

// RunPages walks a collection to the end. Failed pages are counted and skipped; only
// cancellation and an unavailable store end the run with an error.
func RunPages[R, N any](ctx context.Context, o *Orchestrator, stats *performance.RunStats, spec PageSpec[R, N]) error {
	w := o.walker(spec.Fetch)
	for {
		batch, ok, err := w.Next(ctx)
		if !ok {
			if errors.Is(err, pager.ErrTooManyFailures) {
				stats.FailedPages++
				slog.Error("Giving up on collection", "job", stats.Job, "offset", batch.Offset, "error", err)
				return nil
			}
			return err
		}
		if err != nil {
			stats.FailedPages++
			continue
		}
		stats.Pages++

		recs, stop := mapPage(stats, batch, spec)
		if err := commit(ctx, o, stats, recs, spec.Upsert); err != nil {
			return err
		}
		if spec.AfterCommit != nil && len(recs) > 0 {
			if err := spec.AfterCommit(ctx, recs); err != nil {
				return err
			}
		}
		if stop {
			return nil
		}
	}
}

func mapPage[R, N any](stats *performance.RunStats, batch pager.Batch, spec PageSpec[R, N]) ([]N, bool) {
	var (
		out  []N
		stop bool
	)
	for i, item := range batch.Items {
		var raw R
		if err := json.Unmarshal(item, &raw); err != nil {
			stats.Items++
			stats.MappingFailed++
			slog.Warn("Failed to decode item", "job", stats.Job, "offset", batch.Offset+i, "error", err)
			continue
		}
		recs, errs := spec.Map(raw)
		stats.Items += len(recs) + len(errs)
		stats.MappingFailed += len(errs)
		for _, err := range errs {
			slog.Warn("Failed to map item", "job", stats.Job, "offset", batch.Offset+i, "error", err)
		}
		for _, rec := range recs {
			if spec.Filter == nil {
				out = append(out, rec)
				continue
			}
			keep, halt := spec.Filter(rec)
			if halt {
				stop = true
				continue
			}
			if keep {
				out = append(out, rec)
			}
		}
	}
	return out, stop
}

// commit writes recs in one transaction. Counters are merged only after the commit; a rolled
// back page counts its records as failed.
func commit[N any](
	ctx context.Context,
	o *Orchestrator,
	stats *performance.RunStats,
	recs []N,
	upsertFn func(context.Context, storage.Tx, N) (storage.Outcome, error),
) error {
	if len(recs) == 0 {
		return nil
	}
	page := &performance.RunStats{}
	err := o.store.WithTx(ctx, func(tx storage.Tx) error {
		for _, rec := range recs {
			out, err := upsertFn(ctx, tx, rec)
			if err != nil {
				return err
			}
			page.Record(out)
		}
		return nil
	})
	switch {
	case err == nil:
		stats.Merge(page)
		return nil
	case errors.Is(err, storage.ErrUnavailable):
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	}
	stats.FailedPages++
	stats.ItemFailed += len(recs)
	slog.Error("Page rolled back", "job", stats.Job, "records", len(recs), "error", err)
	return nil
}

// EachSpec describes a per-key collection: one request and one transaction per key.
type EachSpec[K, N any] struct {
	Fetch  func(ctx context.Context, key K) ([]N, []error, error)
	Upsert func(ctx context.Context, tx storage.Tx, rec N) (storage.Outcome, error)
	Name   func(key K) string
}

// RunEach fetches every key, paced by the page delay. A failed fetch counts one failed item.
func RunEach[K, N any](ctx context.Context, o *Orchestrator, stats *performance.RunStats, keys []K, spec EachSpec[K, N]) error {
	limit := rate.Inf
	if o.cfg.Provider.PageDelay > 0 {
		limit = rate.Every(o.cfg.Provider.PageDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	for _, key := range keys {
		if err := limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		recs, errs, err := spec.Fetch(ctx, key)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			stats.Items++
			stats.ItemFailed++
			slog.Warn("Fetch failed, skipping", "job", stats.Job, "key", spec.Name(key), "error", err)
			continue
		}
		stats.Pages++
		stats.Items += len(recs) + len(errs)
		stats.MappingFailed += len(errs)
		for _, err := range errs {
			slog.Warn("Failed to map item", "job", stats.Job, "key", spec.Name(key), "error", err)
		}
		if err := commit(ctx, o, stats, recs, spec.Upsert); err != nil {
			return err
		}
	}
	return nil
}

// one lifts a single-record mapper into a page mapper.
func one[R, N any](f func(R) (N, error)) func(R) ([]N, []error) {
	return func(raw R) ([]N, []error) {
		rec, err := f(raw)
		if err != nil {
			return nil, []error{err}
		}
		return []N{rec}, nil
	}
}

// decodeAll decodes and maps a list of raw items, collecting per-item failures.
func decodeAll[R, N any](items []json.RawMessage, f func(R) (N, error)) ([]N, []error) {
	var (
		out  []N
		errs []error
	)
	for _, item := range items {
		var raw R
		if err := json.Unmarshal(item, &raw); err != nil {
			errs = append(errs, fmt.Errorf("failed to decode item: %w", err))
			continue
		}
		rec, err := f(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, rec)
	}
	return out, errs
}
