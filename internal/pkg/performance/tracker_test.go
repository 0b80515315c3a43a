package performance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

func TestRunStats_Status(t *testing.T) {
	tests := []struct {
		name  string
		stats RunStats
		want  string
	}{
		{"empty run", RunStats{}, StatusSuccess},
		{"all committed", RunStats{Inserted: 3, Unchanged: 2}, StatusSuccess},
		{"some mapping failures", RunStats{Inserted: 3, MappingFailed: 1}, StatusPartial},
		{"failed page only", RunStats{Updated: 1, FailedPages: 1}, StatusPartial},
		{"nothing succeeded", RunStats{ItemFailed: 2}, StatusFailed},
		{"terminal error", RunStats{Inserted: 5, Err: errors.New("store down")}, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.Status())
		})
	}
}

func TestRunStats_Record(t *testing.T) {
	s := NewRunStats("seasons")
	for _, o := range []storage.Outcome{storage.Inserted, storage.Updated, storage.Unchanged, storage.Inserted} {
		s.Record(o)
	}
	s.Items = 5
	s.MappingFailed = 1
	s.Finish(nil)

	sum := s.Summary()
	assert.Equal(t, "seasons", sum.Job)
	assert.Equal(t, StatusPartial, sum.Status)
	assert.Equal(t, 5, sum.Processed)
	assert.Equal(t, 4, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 2, sum.Inserted)
	assert.Empty(t, sum.Error)
}

func TestTracker_RecordRun(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 2; i++ {
		s := NewRunStats("draws")
		s.Pages = 2
		s.Inserted = 4
		s.Finish(nil)
		tr.RecordRun(s)
	}
	failed := NewRunStats("schools")
	failed.Finish(errors.New("boom"))
	tr.RecordRun(failed)

	stats := tr.GetStats()
	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 2, stats.Jobs["draws"].Runs)
	assert.Equal(t, 4, stats.Jobs["draws"].Pages)
	assert.Equal(t, 8, stats.Jobs["draws"].Inserted)
	assert.Equal(t, map[string]int{StatusFailed: 1}, stats.Jobs["schools"].Statuses)
	assert.Equal(t, "boom", stats.Jobs["schools"].LastRun.Error)

	tr.Reset()
	assert.Zero(t, tr.GetStats().TotalRuns)
}
