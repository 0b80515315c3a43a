package reconcile

import (
	"context"

	"github.com/Vodeneev/collegetennis/internal/collector/jobs"
	"github.com/Vodeneev/collegetennis/internal/pkg/interfaces"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

// JobPrefix namespaces reconciliation jobs in the job registry.
const JobPrefix = "reconcile-"

func init() {
	for _, j := range All() {
		j := j
		jobs.Register(JobPrefix+j.Name(), func(deps jobs.Deps) interfaces.Job {
			return &scheduled{
				job:   j,
				store: deps.Store,
				opts: Options{
					BatchSize: deps.Config.Reconcile.BatchSize,
					DryRun:    deps.Config.Reconcile.DryRun,
				},
			}
		})
	}
}

// scheduled runs a reconciliation job under the job runner and reports it as run stats.
type scheduled struct {
	job   Job
	store storage.Store
	opts  Options
}

func (s *scheduled) Name() string { return JobPrefix + s.job.Name() }

func (s *scheduled) Run(ctx context.Context) (*performance.RunStats, error) {
	stats := performance.NewRunStats(s.Name())
	res, err := Run(ctx, s.job, s.store, s.opts)
	stats.Items = res.Scanned
	stats.Updated = res.Updated
	stats.Unchanged = res.Scanned - res.Updated
	return stats, err
}
