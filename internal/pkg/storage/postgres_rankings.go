package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

var rankingListsTable = table{
	name: "ranking_lists",
	keys: []string{"id"},
	cols: []string{
		"id", "division_type", "gender", "match_format", "publish_date", "planned_publish_date",
		"date_range_start", "date_range_end", "upstream_created_at",
	},
}

func rankingListFields(l *models.RankingList) []any {
	return []any{
		&l.ID, &l.DivisionType, &l.Gender, &l.MatchFormat, &l.PublishDate, &l.PlannedPublishDate,
		&l.DateRangeStart, &l.DateRangeEnd, &l.CreatedAt,
	}
}

var teamRankingsTable = table{
	name: "team_rankings",
	keys: []string{"ranking_list_id", "team_id"},
	cols: []string{"ranking_list_id", "team_id", "rank", "points", "wins", "losses", "team_name", "conference"},
}

func teamRankingFields(r *models.TeamRanking) []any {
	return []any{&r.RankingListID, &r.TeamID, &r.Rank, &r.Points, &r.Wins, &r.Losses, &r.TeamName, &r.Conference}
}

var playerRankingsTable = table{
	name: "player_rankings",
	keys: []string{"ranking_list_id", "player_id"},
	cols: []string{
		"ranking_list_id", "player_id", "team_id", "rank", "points", "wins", "losses",
		"player_name", "team_name", "conference",
	},
}

func playerRankingFields(r *models.PlayerRanking) []any {
	return []any{
		&r.RankingListID, &r.PlayerID, &r.TeamID, &r.Rank, &r.Points, &r.Wins, &r.Losses,
		&r.PlayerName, &r.TeamName, &r.Conference,
	}
}

var doublesRankingsTable = table{
	name: "doubles_rankings",
	keys: []string{"ranking_list_id", "player1_id", "player2_id"},
	cols: []string{
		"ranking_list_id", "player1_id", "player2_id", "team_id", "rank", "points", "wins", "losses",
		"player1_name", "player2_name", "team_name", "conference",
	},
}

func doublesRankingFields(r *models.DoublesRanking) []any {
	return []any{
		&r.RankingListID, &r.Player1ID, &r.Player2ID, &r.TeamID, &r.Rank, &r.Points, &r.Wins, &r.Losses,
		&r.Player1Name, &r.Player2Name, &r.TeamName, &r.Conference,
	}
}

func (x *pgTx) FindRankingList(ctx context.Context, id string) (*models.RankingList, error) {
	var l models.RankingList
	ok, err := x.findOne(ctx, rankingListsTable.selectSQL("id = $1"), rankingListFields(&l), id)
	if err != nil || !ok {
		return nil, wrapFind("ranking list", err)
	}
	utc(&l.PublishDate)
	utc(&l.PlannedPublishDate)
	utc(&l.DateRangeStart)
	utc(&l.DateRangeEnd)
	utc(&l.CreatedAt)
	return &l, nil
}

func (x *pgTx) PutRankingList(ctx context.Context, l models.RankingList) error {
	return x.put(ctx, rankingListsTable, rankingListFields(&l))
}

func (x *pgTx) HasRankings(ctx context.Context, listID string) (bool, error) {
	var has bool
	err := x.q.QueryRowContext(ctx, `SELECT
		EXISTS (SELECT 1 FROM team_rankings WHERE ranking_list_id = $1)
		OR EXISTS (SELECT 1 FROM player_rankings WHERE ranking_list_id = $1)
		OR EXISTS (SELECT 1 FROM doubles_rankings WHERE ranking_list_id = $1)`, listID).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("failed to check rankings of list %s: %w", listID, err)
	}
	return has, nil
}

func (x *pgTx) ReplaceTeamRankings(ctx context.Context, listID string, rs []models.TeamRanking) (Outcome, error) {
	current, err := queryList(ctx, x.q, teamRankingsTable.selectSQL("ranking_list_id = $1 ORDER BY team_id COLLATE \"C\""), teamRankingFields, listID)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to query team rankings: %w", err)
	}
	next := slices.Clone(rs)
	slices.SortFunc(next, func(a, b models.TeamRanking) int { return strings.Compare(a.TeamID, b.TeamID) })
	return replace(ctx, x, teamRankingsTable, "ranking_list_id", listID, current, next, teamRankingFields)
}

func (x *pgTx) ReplacePlayerRankings(ctx context.Context, listID string, rs []models.PlayerRanking) (Outcome, error) {
	current, err := queryList(ctx, x.q, playerRankingsTable.selectSQL("ranking_list_id = $1 ORDER BY player_id COLLATE \"C\""), playerRankingFields, listID)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to query player rankings: %w", err)
	}
	next := slices.Clone(rs)
	slices.SortFunc(next, func(a, b models.PlayerRanking) int { return strings.Compare(a.PlayerID, b.PlayerID) })
	return replace(ctx, x, playerRankingsTable, "ranking_list_id", listID, current, next, playerRankingFields)
}

func (x *pgTx) ReplaceDoublesRankings(ctx context.Context, listID string, rs []models.DoublesRanking) (Outcome, error) {
	current, err := queryList(ctx, x.q,
		doublesRankingsTable.selectSQL("ranking_list_id = $1 ORDER BY player1_id COLLATE \"C\", player2_id COLLATE \"C\""),
		doublesRankingFields, listID)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to query doubles rankings: %w", err)
	}
	next := slices.Clone(rs)
	slices.SortFunc(next, compareDoubles)
	return replace(ctx, x, doublesRankingsTable, "ranking_list_id", listID, current, next, doublesRankingFields)
}

func compareDoubles(a, b models.DoublesRanking) int {
	if c := strings.Compare(a.Player1ID, b.Player1ID); c != 0 {
		return c
	}
	return strings.Compare(a.Player2ID, b.Player2ID)
}
