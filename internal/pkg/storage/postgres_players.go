package storage

import (
	"context"
	"fmt"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

var playersTable = table{
	name: "players",
	keys: []string{"person_id"},
	cols: []string{"person_id", "tennis_id", "first_name", "last_name", "avatar_url"},
}

func playerFields(p *models.Player) []any {
	return []any{&p.PersonID, &p.TennisID, &p.FirstName, &p.LastName, &p.AvatarURL}
}

var playerSeasonsTable = table{
	name: "player_seasons",
	keys: []string{"person_id", "season_id"},
	cols: []string{"person_id", "season_id", "class_year"},
}

func playerSeasonFields(ps *models.PlayerSeason) []any {
	return []any{&ps.PersonID, &ps.SeasonID, &ps.ClassYear}
}

var rostersTable = table{
	name: "player_rosters",
	keys: []string{"person_id", "season_id", "team_id"},
	cols: []string{"person_id", "season_id", "team_id", "school_id", "active"},
}

var wtnTable = table{
	name: "player_wtn",
	keys: []string{"person_id", "season_id", "wtn_type"},
	cols: []string{"person_id", "season_id", "wtn_type", "confidence", "tennis_number", "is_ranked"},
}

var seasonsTable = table{
	name: "seasons",
	keys: []string{"id"},
	cols: []string{"id", "name", "status", "start_date", "end_date"},
}

func seasonFields(s *models.Season) []any {
	return []any{&s.ID, &s.Name, &s.Status, &s.StartDate, &s.EndDate}
}

func (x *pgTx) FindPlayer(ctx context.Context, personID string) (*models.Player, error) {
	var p models.Player
	ok, err := x.findOne(ctx, playersTable.selectSQL("person_id = $1"), playerFields(&p), personID)
	if err != nil || !ok {
		return nil, wrapFind("player", err)
	}
	return &p, nil
}

func (x *pgTx) PutPlayer(ctx context.Context, p models.Player) error {
	return x.put(ctx, playersTable, playerFields(&p))
}

func (x *pgTx) FindPlayerSeason(ctx context.Context, personID, seasonID string) (*models.PlayerSeason, error) {
	var ps models.PlayerSeason
	ok, err := x.findOne(ctx, playerSeasonsTable.selectSQL("person_id = $1 AND season_id = $2"), playerSeasonFields(&ps), personID, seasonID)
	if err != nil || !ok {
		return nil, wrapFind("player season", err)
	}
	return &ps, nil
}

func (x *pgTx) PutPlayerSeason(ctx context.Context, ps models.PlayerSeason) error {
	return x.put(ctx, playerSeasonsTable, playerSeasonFields(&ps))
}

func (x *pgTx) SaveRoster(ctx context.Context, r models.PlayerRoster) (Outcome, error) {
	return x.save(ctx, rostersTable, []any{&r.PersonID, &r.SeasonID, &r.TeamID, &r.SchoolID, &r.Active})
}

func (x *pgTx) SaveWTN(ctx context.Context, w models.PlayerWTN) (Outcome, error) {
	return x.save(ctx, wtnTable, []any{&w.PersonID, &w.SeasonID, &w.WTNType, &w.Confidence, &w.TennisNumber, &w.IsRanked})
}

func (x *pgTx) FindSeason(ctx context.Context, id string) (*models.Season, error) {
	var s models.Season
	ok, err := x.findOne(ctx, seasonsTable.selectSQL("id = $1"), seasonFields(&s), id)
	if err != nil || !ok {
		return nil, wrapFind("season", err)
	}
	utc(&s.StartDate)
	utc(&s.EndDate)
	return &s, nil
}

func (x *pgTx) PutSeason(ctx context.Context, s models.Season) error {
	return x.put(ctx, seasonsTable, seasonFields(&s))
}

func (x *pgTx) Seasons(ctx context.Context) ([]models.Season, error) {
	seasons, err := queryList(ctx, x.q, seasonsTable.selectSQL("TRUE ORDER BY name"), seasonFields)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	for i := range seasons {
		utc(&seasons[i].StartDate)
		utc(&seasons[i].EndDate)
	}
	return seasons, nil
}

func (x *pgTx) RosteredPlayers(ctx context.Context, seasonID string) ([]string, error) {
	ids, err := queryStrings(ctx, x.q,
		"SELECT DISTINCT person_id FROM player_rosters WHERE season_id = $1 AND active ORDER BY person_id", seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rostered players: %w", err)
	}
	return ids, nil
}
