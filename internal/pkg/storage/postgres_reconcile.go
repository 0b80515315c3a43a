package storage

import (
	"context"
	"fmt"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

func (x *pgTx) MatchesMissingTeams(ctx context.Context, after string, limit int) ([]models.Match, error) {
	where := "(home_team_id IS NULL OR away_team_id IS NULL) AND id > $1 ORDER BY id LIMIT $2"
	matches, err := queryList(ctx, x.q, matchesTable.selectSQL(where), matchFields, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches missing teams: %w", err)
	}
	return matches, nil
}

func (x *pgTx) MatchTeams(ctx context.Context, matchID string) ([]models.MatchTeam, error) {
	where := "match_id = $1 ORDER BY side_number NULLS LAST, team_id"
	teams, err := queryList(ctx, x.q, matchTeamsTable.selectSQL(where), matchTeamFields, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match teams: %w", err)
	}
	return teams, nil
}

func (x *pgTx) FillMatchTeams(ctx context.Context, matchID string, home, away *string) error {
	query := `
	UPDATE matches
	SET home_team_id = COALESCE(home_team_id, $2),
		away_team_id = COALESCE(away_team_id, $3),
		updated_at = NOW()
	WHERE id = $1
	`
	if _, err := x.q.ExecContext(ctx, query, matchID, home, away); err != nil {
		return fmt.Errorf("failed to fill match teams: %w", err)
	}
	return nil
}

func (x *pgTx) LineupsMissingSideNames(ctx context.Context, after string, limit int) ([]models.MatchLineup, error) {
	where := "(side1_name IS NULL OR side2_name IS NULL) AND id > $1 ORDER BY id LIMIT $2"
	lineups, err := queryList(ctx, x.q, lineupsTable.selectSQL(where), lineupFields, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lineups missing side names: %w", err)
	}
	return lineups, nil
}

func (x *pgTx) FillLineupSideName(ctx context.Context, lineupID string, side int, name string) error {
	var query string
	switch side {
	case 1:
		query = "UPDATE match_lineups SET side1_name = $2, updated_at = NOW() WHERE id = $1 AND side1_name IS NULL"
	case 2:
		query = "UPDATE match_lineups SET side2_name = $2, updated_at = NOW() WHERE id = $1 AND side2_name IS NULL"
	default:
		return fmt.Errorf("invalid lineup side %d", side)
	}
	if _, err := x.q.ExecContext(ctx, query, lineupID, name); err != nil {
		return fmt.Errorf("failed to fill lineup side name: %w", err)
	}
	return nil
}

func (x *pgTx) PlayerSeasonsIn(ctx context.Context, seasonID, after string, limit int) ([]models.PlayerSeason, error) {
	where := "season_id = $1 AND person_id > $2 ORDER BY person_id LIMIT $3"
	rows, err := queryList(ctx, x.q, playerSeasonsTable.selectSQL(where), playerSeasonFields, seasonID, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query player seasons: %w", err)
	}
	return rows, nil
}

func (x *pgTx) PlayerSeasonsOf(ctx context.Context, personID string) ([]models.PlayerSeason, error) {
	rows, err := queryList(ctx, x.q, playerSeasonsTable.selectSQL("person_id = $1 ORDER BY season_id"), playerSeasonFields, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player seasons: %w", err)
	}
	return rows, nil
}

func (x *pgTx) SetPlayerClassYear(ctx context.Context, personID, seasonID, classYear string) error {
	query := "UPDATE player_seasons SET class_year = $3, updated_at = NOW() WHERE person_id = $1 AND season_id = $2"
	if _, err := x.q.ExecContext(ctx, query, personID, seasonID, classYear); err != nil {
		return fmt.Errorf("failed to set class year: %w", err)
	}
	return nil
}

func (x *pgTx) TeamsMissingAttributes(ctx context.Context, after string, limit int) ([]models.Team, error) {
	where := "(conference IS NULL OR region IS NULL) AND id > $1 ORDER BY id LIMIT $2"
	teams, err := queryList(ctx, x.q, teamsTable.selectSQL(where), teamFields, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams missing attributes: %w", err)
	}
	return teams, nil
}

func (x *pgTx) FillTeamAttributes(ctx context.Context, teamID string, conference, region *string) error {
	query := `
	UPDATE teams
	SET conference = COALESCE(conference, $2),
		region = COALESCE(region, $3),
		updated_at = NOW()
	WHERE id = $1
	`
	if _, err := x.q.ExecContext(ctx, query, teamID, conference, region); err != nil {
		return fmt.Errorf("failed to fill team attributes: %w", err)
	}
	return nil
}
