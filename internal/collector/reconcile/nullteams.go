package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

// NullTeams fills null home/away references of dual matches from their match-team rows.
type NullTeams struct{}

func (NullTeams) Name() string { return "null-teams" }

func (NullTeams) Run(ctx context.Context, store storage.Store, opts Options) (Result, error) {
	var res Result
	err := scan(ctx, store, opts.batchSize(),
		func(ctx context.Context, tx storage.Tx, after string, limit int) ([]models.Match, error) {
			return tx.MatchesMissingTeams(ctx, after, limit)
		},
		func(m models.Match) string { return m.ID },
		func(ctx context.Context, tx storage.Tx, m models.Match) error {
			res.Scanned++
			rows, err := tx.MatchTeams(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("failed to load teams of match %s: %w", m.ID, err)
			}

			var fillHome, fillAway *string
			switch {
			case m.HomeTeamID == nil && m.AwayTeamID == nil:
				fillHome, fillAway = ResolveSides(rows)
			case m.HomeTeamID == nil:
				fillHome, _ = ResolveSides(without(rows, *m.AwayTeamID))
			case m.AwayTeamID == nil:
				fillAway = otherSide(without(rows, *m.HomeTeamID))
			}
			if (m.HomeTeamID == nil && fillHome == nil) || (m.AwayTeamID == nil && fillAway == nil) {
				res.Unresolved++
				slog.Warn("Match side cannot be resolved", "match", m.ID, "team_rows", len(rows))
			}
			if fillHome == nil && fillAway == nil {
				return nil
			}
			res.Updated++
			if opts.DryRun {
				return nil
			}
			if err := tx.FillMatchTeams(ctx, m.ID, fillHome, fillAway); err != nil {
				return fmt.Errorf("failed to fill teams of match %s: %w", m.ID, err)
			}
			return nil
		})
	return res, err
}

// ResolveSides picks home and away from match-team rows ordered by side number.
// Home is the row flagged home, else the first row. Away is the first other row not
// flagged home, else the first other row. With fewer than two rows away stays nil.
func ResolveSides(rows []models.MatchTeam) (home, away *string) {
	if len(rows) == 0 {
		return nil, nil
	}
	hi := 0
	for i, r := range rows {
		if r.IsHomeTeam {
			hi = i
			break
		}
	}
	home = &rows[hi].TeamID
	if len(rows) < 2 {
		return home, nil
	}

	ai := -1
	for i, r := range rows {
		if i != hi && !r.IsHomeTeam {
			ai = i
			break
		}
	}
	if ai < 0 {
		ai = 1
		if hi == 1 {
			ai = 0
		}
	}
	return home, &rows[ai].TeamID
}

// without drops the rows of teamID.
func without(rows []models.MatchTeam, teamID string) []models.MatchTeam {
	out := make([]models.MatchTeam, 0, len(rows))
	for _, r := range rows {
		if r.TeamID != teamID {
			out = append(out, r)
		}
	}
	return out
}

// otherSide picks away from rows that exclude the stored home: the first row not flagged
// home, else the first row.
func otherSide(rows []models.MatchTeam) *string {
	for i := range rows {
		if !rows[i].IsHomeTeam {
			return &rows[i].TeamID
		}
	}
	if len(rows) > 0 {
		return &rows[0].TeamID
	}
	return nil
}
