// Package jobutil runs registered jobs: one run per job at a time, with every finished run
// published to metrics, the stats tracker and the notifier.
package jobutil

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/interfaces"
	"github.com/Vodeneev/collegetennis/internal/pkg/metrics"
	"github.com/Vodeneev/collegetennis/internal/pkg/notify"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

var _ interfaces.JobRunner = (*Runner)(nil)

// Runner serializes runs of the same job. Different jobs run concurrently.
type Runner struct {
	notifier notify.Notifier
	tracker  *performance.Tracker

	mu      sync.Mutex
	jobs    map[string]interfaces.Job
	running map[string]time.Time
}

func NewRunner(list []interfaces.Job, notifier notify.Notifier, tracker *performance.Tracker) *Runner {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if tracker == nil {
		tracker = performance.GetTracker()
	}
	r := &Runner{
		notifier: notifier,
		tracker:  tracker,
		jobs:     make(map[string]interfaces.Job, len(list)),
		running:  make(map[string]time.Time),
	}
	for _, j := range list {
		r.jobs[j.Name()] = j
	}
	return r
}

// Job returns the job registered under name.
func (r *Runner) Job(name string) (interfaces.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[name]
	return j, ok
}

// Names lists the runner's jobs.
func (r *Runner) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Runner) States() []interfaces.JobState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]interfaces.JobState, 0, len(r.jobs))
	for name, j := range r.jobs {
		st := interfaces.JobState{Name: name}
		if since, ok := r.running[name]; ok {
			st.Running = true
			st.RunningSince = &since
		}
		_, st.Keyed = j.(interfaces.KeyedJob)
		out = append(out, st)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// Run runs the named job to completion.
func (r *Runner) Run(ctx context.Context, name string) (*performance.RunStats, error) {
	j, ok := r.Job(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", interfaces.ErrUnknownJob, name)
	}
	return r.exec(ctx, name, j.Run)
}

// RunOne runs a keyed job for a single entity id. It shares the job's run guard.
func (r *Runner) RunOne(ctx context.Context, name, id string) (*performance.RunStats, error) {
	j, ok := r.Job(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", interfaces.ErrUnknownJob, name)
	}
	kj, ok := j.(interfaces.KeyedJob)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, interfaces.ErrNotKeyed)
	}
	return r.exec(ctx, name, func(ctx context.Context) (*performance.RunStats, error) {
		return kj.RunOne(ctx, id)
	})
}

func (r *Runner) tryLock(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.running[name]; busy {
		return false
	}
	r.running[name] = time.Now()
	return true
}

func (r *Runner) unlock(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, name)
}

func (r *Runner) exec(ctx context.Context, name string, run func(context.Context) (*performance.RunStats, error)) (*performance.RunStats, error) {
	if !r.tryLock(name) {
		slog.Warn("Job already running, skipping", "job", name)
		return nil, fmt.Errorf("%s: %w", name, interfaces.ErrAlreadyRunning)
	}
	defer r.unlock(name)

	slog.Info("Job started", "job", name)
	stats, err := run(ctx)
	if stats == nil {
		stats = performance.NewRunStats(name)
	}
	stats.Job = name
	stats.Finish(err)

	metrics.RecordJobRun(name, stats.Status(), stats.Duration, stats.Counts())
	r.tracker.RecordRun(stats)
	r.notifier.NotifyRun(stats.Summary())

	logArgs := []any{
		"job", name,
		"status", stats.Status(),
		"pages", stats.Pages,
		"failed_pages", stats.FailedPages,
		"items", stats.Items,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"unchanged", stats.Unchanged,
		"mapping_failed", stats.MappingFailed,
		"item_failed", stats.ItemFailed,
		"duration", stats.Duration,
	}
	if err != nil {
		slog.Error("Job failed", append(logArgs, "error", err)...)
		return stats, err
	}
	slog.Info("Job finished", logArgs...)
	return stats, nil
}

// RunOptions configures RunAll.
type RunOptions struct {
	// OnError is called when a job returns an error. If nil, errors are logged.
	OnError func(name string, err error)
	// WaitForCompletion blocks until all jobs finish. When false RunAll returns at once and
	// the caller must keep ctx alive until the jobs are done.
	WaitForCompletion bool
}

// RunAll starts the named jobs in parallel.
func (r *Runner) RunAll(ctx context.Context, names []string, opts RunOptions) {
	onError := opts.OnError
	if onError == nil {
		onError = func(string, error) {}
	}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Run(ctx, name); err != nil && ctx.Err() == nil {
				onError(name, err)
			}
		}()
	}
	if opts.WaitForCompletion {
		wg.Wait()
	}
}

// RunContext bounds one run with timeout; zero means no limit.
func RunContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}
