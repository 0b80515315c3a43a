// Package pager walks skip/limit paginated upstream collections.
package pager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// ErrTooManyFailures stops a walk after consecutive page failures.
var ErrTooManyFailures = errors.New("too many consecutive page failures")

// Page is one upstream page. Total <= 0 means the upstream did not declare a total.
type Page struct {
	Total int
	Items []json.RawMessage
}

// Fetcher loads the page at offset.
type Fetcher func(ctx context.Context, offset, limit int) (Page, error)

// Batch is what the walker yields for one page.
type Batch struct {
	Offset int
	Items  []json.RawMessage
}

type Options struct {
	PageSize    int
	Delay       time.Duration // minimum spacing between fetches
	MaxFailures int           // consecutive failed pages before giving up
}

// Walker is a finite, non-restartable sequence of pages.
type Walker struct {
	fetch       Fetcher
	pageSize    int
	maxFailures int
	limiter     *rate.Limiter

	offset   int
	seen     int
	failures int
	done     bool
}

func NewWalker(fetch Fetcher, opts Options) *Walker {
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = 3
	}
	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	return &Walker{
		fetch:       fetch,
		pageSize:    opts.PageSize,
		maxFailures: opts.MaxFailures,
		limiter:     rate.NewLimiter(limit, 1),
	}
}

// Next fetches the next page.
//
//	(batch, true, nil)  a page was fetched
//	(batch, true, err)  the page at batch.Offset failed and was skipped; call Next again
//	(_, false, nil)     the walk is complete
//	(_, false, err)     the walk was stopped by cancellation or repeated failures
func (w *Walker) Next(ctx context.Context) (Batch, bool, error) {
	if w.done {
		return Batch{}, false, nil
	}
	if err := w.limiter.Wait(ctx); err != nil {
		w.done = true
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Batch{}, false, ctxErr
		}
		return Batch{}, false, err
	}

	offset := w.offset
	w.offset += w.pageSize

	page, err := w.fetch(ctx, offset, w.pageSize)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			w.done = true
			return Batch{Offset: offset}, false, ctxErr
		}
		w.failures++
		slog.Warn("Page fetch failed, skipping", "offset", offset, "consecutive_failures", w.failures, "error", err)
		if w.failures >= w.maxFailures {
			w.done = true
			return Batch{Offset: offset}, false, fmt.Errorf("%w (%d) at offset %d: %w", ErrTooManyFailures, w.failures, offset, err)
		}
		return Batch{Offset: offset}, true, err
	}
	w.failures = 0

	if len(page.Items) == 0 {
		w.done = true
		return Batch{}, false, nil
	}

	w.seen += len(page.Items)
	if page.Total > 0 && (w.seen >= page.Total || w.offset >= page.Total) {
		w.done = true
	}
	return Batch{Offset: offset, Items: page.Items}, true, nil
}

// Offset is the offset the next fetch will use.
func (w *Walker) Offset() int {
	return w.offset
}
