package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

var ErrNoActiveSeason = errors.New("exactly one active season is required")

// ClassYears rewrites the class year of earlier seasons from the class a player holds in
// the active season: a Junior in 2025-2026 was a Freshman in 2023-2024.
type ClassYears struct{}

func (ClassYears) Name() string { return "class-years" }

func (ClassYears) Run(ctx context.Context, store storage.Store, opts Options) (Result, error) {
	var (
		active    models.Season
		startYear map[string]int
	)
	err := store.WithTx(ctx, func(tx storage.Tx) error {
		seasons, err := tx.Seasons(ctx)
		if err != nil {
			return fmt.Errorf("failed to list seasons: %w", err)
		}
		active, startYear, err = seasonYears(seasons)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	activeYear := startYear[active.ID]

	var res Result
	err = scan(ctx, store, opts.batchSize(),
		func(ctx context.Context, tx storage.Tx, after string, limit int) ([]models.PlayerSeason, error) {
			return tx.PlayerSeasonsIn(ctx, active.ID, after, limit)
		},
		func(ps models.PlayerSeason) string { return ps.PersonID },
		func(ctx context.Context, tx storage.Tx, current models.PlayerSeason) error {
			res.Scanned++
			idx := 0
			if current.ClassYear != nil {
				idx = models.ClassIndex(*current.ClassYear)
			}
			if idx == 0 {
				res.Skipped++
				slog.Warn("Unknown class year in active season", "person", current.PersonID, "class_year", current.ClassYear)
				return nil
			}

			history, err := tx.PlayerSeasonsOf(ctx, current.PersonID)
			if err != nil {
				return fmt.Errorf("failed to load seasons of player %s: %w", current.PersonID, err)
			}
			var written bool
			for _, ps := range history {
				year, ok := startYear[ps.SeasonID]
				if !ok || ps.SeasonID == active.ID {
					continue
				}
				if year >= activeYear {
					// Later seasons carry their own class year.
					res.Skipped++
					continue
				}
				want := models.ClassLabel(models.HistoricalClass(idx, activeYear-year))
				if ps.ClassYear != nil && *ps.ClassYear == want {
					continue
				}
				written = true
				if opts.DryRun {
					continue
				}
				if err := tx.SetPlayerClassYear(ctx, ps.PersonID, ps.SeasonID, want); err != nil {
					return fmt.Errorf("failed to set class year of %s in %s: %w", ps.PersonID, ps.SeasonID, err)
				}
			}
			if written {
				res.Updated++
			}
			return nil
		})
	return res, err
}

// seasonYears finds the single active season and the start year of every season whose
// name parses.
func seasonYears(seasons []models.Season) (models.Season, map[string]int, error) {
	var active []models.Season
	years := make(map[string]int, len(seasons))
	for _, s := range seasons {
		if s.Active() {
			active = append(active, s)
		}
		y, err := models.SeasonStartYear(s.Name)
		if err != nil {
			slog.Warn("Skipping season with unparsable name", "season", s.ID, "name", s.Name)
			continue
		}
		years[s.ID] = y
	}
	if len(active) != 1 {
		return models.Season{}, nil, fmt.Errorf("%w: found %d", ErrNoActiveSeason, len(active))
	}
	if _, ok := years[active[0].ID]; !ok {
		return models.Season{}, nil, fmt.Errorf("active season %q has no start year", active[0].Name)
	}
	return active[0], years, nil
}
