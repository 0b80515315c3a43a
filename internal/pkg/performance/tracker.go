package performance

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/metrics"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// RunStats counts what one job run did. A RunStats is owned by a single worker.
type RunStats struct {
	Job      string
	Started  time.Time
	Duration time.Duration

	Pages         int
	FailedPages   int
	Items         int
	Inserted      int
	Updated       int
	Unchanged     int
	MappingFailed int
	ItemFailed    int

	Err error
}

func NewRunStats(job string) *RunStats {
	return &RunStats{Job: job, Started: time.Now()}
}

// Record counts one committed record by its outcome.
func (s *RunStats) Record(o storage.Outcome) {
	switch o {
	case storage.Inserted:
		s.Inserted++
	case storage.Updated:
		s.Updated++
	default:
		s.Unchanged++
	}
}

// Merge adds the counters of other into s.
func (s *RunStats) Merge(other *RunStats) {
	s.Pages += other.Pages
	s.FailedPages += other.FailedPages
	s.Items += other.Items
	s.Inserted += other.Inserted
	s.Updated += other.Updated
	s.Unchanged += other.Unchanged
	s.MappingFailed += other.MappingFailed
	s.ItemFailed += other.ItemFailed
}

func (s *RunStats) Succeeded() int { return s.Inserted + s.Updated + s.Unchanged }

func (s *RunStats) Failed() int { return s.MappingFailed + s.ItemFailed }

// Status is failed when the run returned an error or nothing succeeded despite failures,
// partial when some items or pages failed, success otherwise.
func (s *RunStats) Status() string {
	switch {
	case s.Err != nil:
		return StatusFailed
	case s.Succeeded() == 0 && (s.Failed() > 0 || s.FailedPages > 0):
		return StatusFailed
	case s.Failed() > 0 || s.FailedPages > 0:
		return StatusPartial
	}
	return StatusSuccess
}

func (s *RunStats) Counts() metrics.JobCounts {
	return metrics.JobCounts{
		Pages:         s.Pages,
		FailedPages:   s.FailedPages,
		Inserted:      s.Inserted,
		Updated:       s.Updated,
		Unchanged:     s.Unchanged,
		MappingFailed: s.MappingFailed,
		ItemFailed:    s.ItemFailed,
	}
}

// Finish stamps the duration and the terminal error.
func (s *RunStats) Finish(err error) {
	s.Duration = time.Since(s.Started)
	s.Err = err
}

// Summary is the JSON shape of a run returned by triggers.
type Summary struct {
	Job       string `json:"job"`
	Status    string `json:"status"`
	Processed int    `json:"processed"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Inserted  int    `json:"inserted"`
	Updated   int    `json:"updated"`
	Unchanged int    `json:"unchanged"`
	Pages     int    `json:"pages"`
	PagesFail int    `json:"failed_pages"`
	Duration  string `json:"duration"`
	Error     string `json:"error,omitempty"`
}

func (s *RunStats) Summary() Summary {
	sum := Summary{
		Job:       s.Job,
		Status:    s.Status(),
		Processed: s.Items,
		Succeeded: s.Succeeded(),
		Failed:    s.Failed(),
		Inserted:  s.Inserted,
		Updated:   s.Updated,
		Unchanged: s.Unchanged,
		Pages:     s.Pages,
		PagesFail: s.FailedPages,
		Duration:  s.Duration.Round(time.Millisecond).String(),
	}
	if s.Err != nil {
		sum.Error = s.Err.Error()
	}
	return sum
}

// Tracker accumulates finished runs per job for the /stats endpoint.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]*jobTotals
}

type jobTotals struct {
	runs     int
	statuses map[string]int
	duration time.Duration
	totals   RunStats
	last     Summary
	lastAt   time.Time
}

var globalTracker = NewTracker()

func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]*jobTotals)}
}

// GetTracker returns the process-wide tracker.
func GetTracker() *Tracker {
	return globalTracker
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs = make(map[string]*jobTotals)
}

// RecordRun adds a finished run.
func (t *Tracker) RecordRun(s *RunStats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	jt, ok := t.jobs[s.Job]
	if !ok {
		jt = &jobTotals{statuses: make(map[string]int)}
		t.jobs[s.Job] = jt
	}
	jt.runs++
	jt.statuses[s.Status()]++
	jt.duration += s.Duration
	jt.totals.Merge(s)
	jt.last = s.Summary()
	jt.lastAt = s.Started
}

// JobStats is the JSON shape of one job's totals.
type JobStats struct {
	Runs        int            `json:"runs"`
	Statuses    map[string]int `json:"statuses"`
	AvgDuration string         `json:"avg_duration"`
	Pages       int            `json:"pages"`
	FailedPages int            `json:"failed_pages"`
	Items       int            `json:"items"`
	Inserted    int            `json:"inserted"`
	Updated     int            `json:"updated"`
	Unchanged   int            `json:"unchanged"`
	Failed      int            `json:"failed"`
	LastRun     Summary        `json:"last_run"`
	LastRunAt   time.Time      `json:"last_run_at"`
}

type StatsResponse struct {
	TotalRuns int                 `json:"total_runs"`
	Jobs      map[string]JobStats `json:"jobs"`
}

// GetStats returns a snapshot of all job totals.
func (t *Tracker) GetStats() StatsResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()

	resp := StatsResponse{Jobs: make(map[string]JobStats, len(t.jobs))}
	for name, jt := range t.jobs {
		statuses := make(map[string]int, len(jt.statuses))
		for k, v := range jt.statuses {
			statuses[k] = v
		}
		resp.TotalRuns += jt.runs
		resp.Jobs[name] = JobStats{
			Runs:        jt.runs,
			Statuses:    statuses,
			AvgDuration: (jt.duration / time.Duration(jt.runs)).Round(time.Millisecond).String(),
			Pages:       jt.totals.Pages,
			FailedPages: jt.totals.FailedPages,
			Items:       jt.totals.Items,
			Inserted:    jt.totals.Inserted,
			Updated:     jt.totals.Updated,
			Unchanged:   jt.totals.Unchanged,
			Failed:      jt.totals.Failed(),
			LastRun:     jt.last,
			LastRunAt:   jt.lastAt,
		}
	}
	return resp
}

// PrintSummary logs the totals of every job.
func (t *Tracker) PrintSummary() {
	stats := t.GetStats()
	if stats.TotalRuns == 0 {
		slog.Info("No job runs recorded yet")
		return
	}

	names := make([]string, 0, len(stats.Jobs))
	for name := range stats.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	slog.Info("RUN SUMMARY", "total_runs", stats.TotalRuns)
	for _, name := range names {
		js := stats.Jobs[name]
		slog.Info("Job totals",
			"job", name,
			"runs", js.Runs,
			"avg_duration", js.AvgDuration,
			"pages", js.Pages,
			"failed_pages", js.FailedPages,
			"inserted", js.Inserted,
			"updated", js.Updated,
			"unchanged", js.Unchanged,
			"failed", js.Failed,
			"last_status", js.LastRun.Status)
	}
}
