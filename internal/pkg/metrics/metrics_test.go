package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordJobRun(t *testing.T) {
	job := "test-job-run"
	RecordJobRun(job, "partial", 3*time.Second, JobCounts{
		Pages: 4, FailedPages: 1, Inserted: 10, Updated: 2, Unchanged: 5, MappingFailed: 1,
	})

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"runs", testutil.ToFloat64(JobRuns.WithLabelValues(job, "partial")), 1},
		{"committed pages", testutil.ToFloat64(JobPages.WithLabelValues(job, "committed")), 3},
		{"failed pages", testutil.ToFloat64(JobPages.WithLabelValues(job, "failed")), 1},
		{"inserted", testutil.ToFloat64(JobRecords.WithLabelValues(job, "inserted")), 10},
		{"mapping failed", testutil.ToFloat64(JobRecords.WithLabelValues(job, "mapping_failed")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if testutil.ToFloat64(JobLastSuccess.WithLabelValues(job)) == 0 {
		t.Error("last success timestamp not set for partial run")
	}
}

func TestRecordJobRun_FailedDoesNotTouchLastSuccess(t *testing.T) {
	job := "test-job-failed"
	RecordJobRun(job, "failed", time.Second, JobCounts{})
	if got := testutil.ToFloat64(JobLastSuccess.WithLabelValues(job)); got != 0 {
		t.Errorf("last success = %v, want 0", got)
	}
}

func TestRecordUpstreamAttempt(t *testing.T) {
	op := "test-op"
	RecordUpstreamAttempt(op, "transient", 10*time.Millisecond)
	RecordUpstreamAttempt(op, "transient", 20*time.Millisecond)
	RecordUpstreamRetry(op)

	if got := testutil.ToFloat64(UpstreamRequests.WithLabelValues(op, "transient")); got != 2 {
		t.Errorf("transient attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(UpstreamRetries.WithLabelValues(op)); got != 1 {
		t.Errorf("retries = %v, want 1", got)
	}
}
