package syncer

import (
	"context"

	"github.com/Vodeneev/collegetennis/internal/collector/jobs"
	"github.com/Vodeneev/collegetennis/internal/pkg/interfaces"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

// Job names.
const (
	JobSeasons       = "seasons"
	JobDualMatches   = "dual-matches"
	JobRosters       = "rosters"
	JobTournaments   = "tournaments"
	JobRegistrations = "registrations"
	JobDraws         = "draws"
	JobPlayerMatches = "player-matches"
	JobSchools       = "schools"
	JobRankings      = "rankings"
	JobTournament    = "tournament"
)

type collectFunc func(o *Orchestrator, ctx context.Context, stats *performance.RunStats) error

func init() {
	register(JobSeasons, (*Orchestrator).Seasons)
	register(JobDualMatches, (*Orchestrator).DualMatches)
	register(JobRosters, (*Orchestrator).Rosters)
	register(JobTournaments, (*Orchestrator).Tournaments)
	register(JobRegistrations, (*Orchestrator).Registrations)
	register(JobDraws, (*Orchestrator).Draws)
	register(JobPlayerMatches, (*Orchestrator).PlayerMatches)
	register(JobSchools, (*Orchestrator).Schools)
	register(JobRankings, (*Orchestrator).Rankings)

	jobs.Register(JobTournament, func(deps jobs.Deps) interfaces.Job {
		return &tournamentJob{o: New(deps)}
	})
}

func register(name string, collect collectFunc) {
	jobs.Register(name, func(deps jobs.Deps) interfaces.Job {
		return &job{name: name, o: New(deps), collect: collect}
	})
}

type job struct {
	name    string
	o       *Orchestrator
	collect collectFunc
}

func (j *job) Name() string { return j.name }

func (j *job) Run(ctx context.Context) (*performance.RunStats, error) {
	stats := performance.NewRunStats(j.name)
	return stats, j.collect(j.o, ctx, stats)
}

// tournamentJob refreshes one tournament on demand, or every tournament in the window when
// scheduled.
type tournamentJob struct {
	o *Orchestrator
}

var _ interfaces.KeyedJob = (*tournamentJob)(nil)

func (j *tournamentJob) Name() string { return JobTournament }

func (j *tournamentJob) Run(ctx context.Context) (*performance.RunStats, error) {
	stats := performance.NewRunStats(JobTournament)
	return stats, j.o.TournamentsInWindow(ctx, stats)
}

func (j *tournamentJob) RunOne(ctx context.Context, id string) (*performance.RunStats, error) {
	stats := performance.NewRunStats(JobTournament)
	return stats, j.o.Tournament(ctx, stats, id)
}
