package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

var (
	// ErrAlreadyRunning is returned when a job is started while a run of the same job is in progress.
	ErrAlreadyRunning = errors.New("job is already running")
	ErrUnknownJob     = errors.New("unknown job")
	ErrNotKeyed       = errors.New("job cannot run for a single id")
)

// Job is one named, independently schedulable unit of work.
type Job interface {
	// Name is the registry key, e.g. "dual-matches".
	Name() string

	// Run performs one complete pass. Item and page failures are counted in the stats;
	// a returned error means the run could not continue.
	Run(ctx context.Context) (*performance.RunStats, error)
}

// KeyedJob can also run for a single entity, e.g. one tournament by id.
type KeyedJob interface {
	Job

	RunOne(ctx context.Context, id string) (*performance.RunStats, error)
}

// JobState is the JSON shape of one job in the /jobs listing.
type JobState struct {
	Name         string     `json:"name"`
	Running      bool       `json:"running"`
	RunningSince *time.Time `json:"running_since,omitempty"`
	Keyed        bool       `json:"keyed"`
}

// JobRunner triggers registered jobs by name.
type JobRunner interface {
	Run(ctx context.Context, name string) (*performance.RunStats, error)
	RunOne(ctx context.Context, name, id string) (*performance.RunStats, error)
	States() []JobState
}
