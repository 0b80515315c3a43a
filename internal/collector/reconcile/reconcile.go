// Package reconcile repairs references left incomplete by partial or historical imports.
// Every job is idempotent: a second run over repaired data writes nothing.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/metrics"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

const defaultBatchSize = 100

// Result counts what one pass saw. Rows that cannot be repaired are counted, never returned as errors.
type Result struct {
	Scanned    int `json:"scanned"`
	Updated    int `json:"updated"`
	Unresolved int `json:"unresolved"`
	Skipped    int `json:"skipped"`
}

type Options struct {
	BatchSize int
	// DryRun counts what would change without writing.
	DryRun bool
}

func (o Options) batchSize() int {
	if o.BatchSize <= 0 {
		return defaultBatchSize
	}
	return o.BatchSize
}

// Job is one named repair pass.
type Job interface {
	Name() string
	Run(ctx context.Context, store storage.Store, opts Options) (Result, error)
}

// All returns every reconciliation job in the order they are best run: teams first so
// that abbreviations can be derived from them.
func All() []Job {
	return []Job{NullTeams{}, TeamAttributes{}, Abbreviations{}, ClassYears{}}
}

// Lookup returns the job registered under name.
func Lookup(name string) (Job, bool) {
	for _, j := range All() {
		if j.Name() == name {
			return j, true
		}
	}
	return nil, false
}

// Run executes job, logs its result and records it in metrics.
func Run(ctx context.Context, job Job, store storage.Store, opts Options) (Result, error) {
	start := time.Now()
	slog.Info("Reconciliation started", "job", job.Name(), "dry_run", opts.DryRun, "batch_size", opts.batchSize())

	res, err := job.Run(ctx, store, opts)
	metrics.RecordReconcile(job.Name(), res.Scanned, res.Updated, res.Unresolved, res.Skipped)
	if err != nil {
		slog.Error("Reconciliation failed", "job", job.Name(), "error", err, "scanned", res.Scanned)
		return res, err
	}
	slog.Info("Reconciliation finished",
		"job", job.Name(),
		"dry_run", opts.DryRun,
		"scanned", res.Scanned,
		"updated", res.Updated,
		"unresolved", res.Unresolved,
		"skipped", res.Skipped,
		"duration", time.Since(start))
	return res, nil
}

// scan walks rows in key order, one transaction per batch, so each batch commits on its own.
func scan[T any](
	ctx context.Context,
	store storage.Store,
	batchSize int,
	list func(ctx context.Context, tx storage.Tx, after string, limit int) ([]T, error),
	key func(T) string,
	each func(ctx context.Context, tx storage.Tx, row T) error,
) error {
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var n int
		err := store.WithTx(ctx, func(tx storage.Tx) error {
			rows, err := list(ctx, tx, after, batchSize)
			if err != nil {
				return err
			}
			n = len(rows)
			for _, r := range rows {
				if err := each(ctx, tx, r); err != nil {
					return err
				}
				after = key(r)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if n < batchSize {
			return nil
		}
	}
}
