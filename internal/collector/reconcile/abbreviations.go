package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

// Abbreviations fills null lineup side names with the abbreviation of the team on that side.
type Abbreviations struct{}

func (Abbreviations) Name() string { return "abbreviations" }

func (Abbreviations) Run(ctx context.Context, store storage.Store, opts Options) (Result, error) {
	var res Result
	err := scan(ctx, store, opts.batchSize(),
		func(ctx context.Context, tx storage.Tx, after string, limit int) ([]models.MatchLineup, error) {
			return tx.LineupsMissingSideNames(ctx, after, limit)
		},
		func(l models.MatchLineup) string { return l.ID },
		func(ctx context.Context, tx storage.Tx, l models.MatchLineup) error {
			res.Scanned++
			names, err := sideAbbreviations(ctx, tx, l.MatchID)
			if err != nil {
				return err
			}

			var filled bool
			for _, side := range []int{1, 2} {
				if l.SideName(side) != nil {
					continue
				}
				name, ok := names[side]
				if !ok {
					res.Unresolved++
					slog.Warn("Lineup side has no team", "lineup", l.ID, "match", l.MatchID, "side", side)
					continue
				}
				filled = true
				if opts.DryRun {
					continue
				}
				if err := tx.FillLineupSideName(ctx, l.ID, side, name); err != nil {
					return fmt.Errorf("failed to fill side %d name of lineup %s: %w", side, l.ID, err)
				}
			}
			if filled {
				res.Updated++
			}
			return nil
		})
	return res, err
}

// sideAbbreviations maps side number to team abbreviation for one match. The side number
// comes from the match-team row, else 1 for the home team and 2 for the away team.
func sideAbbreviations(ctx context.Context, tx storage.Tx, matchID string) (map[int]string, error) {
	rows, err := tx.MatchTeams(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams of match %s: %w", matchID, err)
	}
	out := make(map[int]string, len(rows))
	for _, mt := range rows {
		team, err := tx.FindTeam(ctx, mt.TeamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team %s: %w", mt.TeamID, err)
		}
		if team == nil {
			continue
		}
		side := 2
		switch {
		case mt.SideNumber != nil:
			side = *mt.SideNumber
		case mt.IsHomeTeam:
			side = 1
		}
		if name := Abbreviation(*team); name != "" {
			out[side] = name
		}
	}
	return out, nil
}

// Abbreviation is the team's stored abbreviation, else the first three letters of its
// name upper-cased. Names shorter than three letters are used whole.
func Abbreviation(t models.Team) string {
	if t.Abbreviation != nil && strings.TrimSpace(*t.Abbreviation) != "" {
		return *t.Abbreviation
	}
	r := []rune(strings.TrimSpace(t.Name))
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}
