package reconcile

import (
	"context"
	"fmt"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

// TeamAttributes copies conference and ITA region from the owning school onto teams
// that lack them.
type TeamAttributes struct{}

func (TeamAttributes) Name() string { return "team-attributes" }

func (TeamAttributes) Run(ctx context.Context, store storage.Store, opts Options) (Result, error) {
	var res Result
	err := scan(ctx, store, opts.batchSize(),
		func(ctx context.Context, tx storage.Tx, after string, limit int) ([]models.Team, error) {
			return tx.TeamsMissingAttributes(ctx, after, limit)
		},
		func(t models.Team) string { return t.ID },
		func(ctx context.Context, tx storage.Tx, t models.Team) error {
			res.Scanned++
			school, err := tx.FindSchoolByTeam(ctx, t.ID)
			if err == nil && school == nil {
				school, err = tx.FindSchoolByTeamFold(ctx, t.ID)
			}
			if err != nil {
				return fmt.Errorf("failed to find school of team %s: %w", t.ID, err)
			}
			if school == nil {
				res.Unresolved++
				return nil
			}

			var conference, region *string
			if t.Conference == nil {
				conference = school.Conference
			}
			if t.Region == nil {
				region = school.ITARegion
			}
			if conference == nil && region == nil {
				res.Skipped++
				return nil
			}
			res.Updated++
			if opts.DryRun {
				return nil
			}
			if err := tx.FillTeamAttributes(ctx, t.ID, conference, region); err != nil {
				return fmt.Errorf("failed to fill attributes of team %s: %w", t.ID, err)
			}
			return nil
		})
	return res, err
}
