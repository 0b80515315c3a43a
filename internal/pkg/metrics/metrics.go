// Package metrics exposes Prometheus instrumentation for upstream calls, sync jobs and the store.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_upstream_requests_total",
			Help: "Upstream HTTP attempts by operation and result",
		},
		[]string{"operation", "result"}, // result: ok, transient, permanent, rejected
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collector_upstream_request_duration_seconds",
			Help:    "Upstream HTTP attempt latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	UpstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_upstream_retries_total",
			Help: "Retries of transient upstream failures",
		},
		[]string{"operation"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "collector_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Job metrics
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_job_runs_total",
			Help: "Job runs by job and status",
		},
		[]string{"job", "status"}, // status: success, partial, failed, skipped
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collector_job_duration_seconds",
			Help:    "Job run duration",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"job"},
	)

	JobRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_job_records_total",
			Help: "Records handled by jobs, by outcome",
		},
		[]string{"job", "outcome"}, // outcome: inserted, updated, unchanged, mapping_failed, item_failed
	)

	JobPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_job_pages_total",
			Help: "Pages processed by jobs, by result",
		},
		[]string{"job", "result"}, // result: committed, failed
	)

	JobLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "collector_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run",
		},
		[]string{"job"},
	)

	// Reconciliation metrics
	ReconcileRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_reconcile_rows_total",
			Help: "Rows visited by reconciliation jobs, by result",
		},
		[]string{"job", "result"}, // result: scanned, updated, unresolved, skipped
	)
)

// RecordUpstreamAttempt records one HTTP attempt.
func RecordUpstreamAttempt(operation, result string, duration time.Duration) {
	UpstreamRequests.WithLabelValues(operation, result).Inc()
	UpstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordUpstreamRetry(operation string) {
	UpstreamRetries.WithLabelValues(operation).Inc()
}

func RecordBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// JobCounts is the subset of run counters exported per job.
type JobCounts struct {
	Pages         int
	FailedPages   int
	Inserted      int
	Updated       int
	Unchanged     int
	MappingFailed int
	ItemFailed    int
}

// RecordJobRun records the outcome of one job run.
func RecordJobRun(job, status string, duration time.Duration, c JobCounts) {
	JobRuns.WithLabelValues(job, status).Inc()
	JobDuration.WithLabelValues(job).Observe(duration.Seconds())

	JobPages.WithLabelValues(job, "committed").Add(float64(c.Pages - c.FailedPages))
	JobPages.WithLabelValues(job, "failed").Add(float64(c.FailedPages))
	JobRecords.WithLabelValues(job, "inserted").Add(float64(c.Inserted))
	JobRecords.WithLabelValues(job, "updated").Add(float64(c.Updated))
	JobRecords.WithLabelValues(job, "unchanged").Add(float64(c.Unchanged))
	JobRecords.WithLabelValues(job, "mapping_failed").Add(float64(c.MappingFailed))
	JobRecords.WithLabelValues(job, "item_failed").Add(float64(c.ItemFailed))

	if status == "success" || status == "partial" {
		JobLastSuccess.WithLabelValues(job).Set(float64(time.Now().Unix()))
	}
}

func RecordReconcile(job string, scanned, updated, unresolved, skipped int) {
	ReconcileRows.WithLabelValues(job, "scanned").Add(float64(scanned))
	ReconcileRows.WithLabelValues(job, "updated").Add(float64(updated))
	ReconcileRows.WithLabelValues(job, "unresolved").Add(float64(unresolved))
	ReconcileRows.WithLabelValues(job, "skipped").Add(float64(skipped))
}
