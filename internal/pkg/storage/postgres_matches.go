package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

var matchesTable = table{
	name: "matches",
	keys: []string{"id"},
	cols: []string{
		"id", "start_date", "time_zone", "no_scheduled_time", "is_conference_match", "gender",
		"home_team_id", "away_team_id", "season", "side_numbers", "completed", "scheduled_time",
	},
}

func matchFields(m *models.Match) []any {
	return []any{
		&m.ID, &m.StartDate, &m.TimeZone, &m.NoScheduledTime, &m.IsConferenceMatch, &m.Gender,
		&m.HomeTeamID, &m.AwayTeamID, &m.Season, &m.SideNumbers, &m.Completed, &m.ScheduledTime,
	}
}

var matchTeamsTable = table{
	name: "match_teams",
	keys: []string{"match_id", "team_id"},
	cols: []string{"match_id", "team_id", "score", "did_win", "side_number", "is_home_team", "team_position"},
}

func matchTeamFields(mt *models.MatchTeam) []any {
	return []any{&mt.MatchID, &mt.TeamID, &mt.Score, &mt.DidWin, &mt.SideNumber, &mt.IsHomeTeam, &mt.TeamPosition}
}

var webLinksTable = table{
	name: "web_links",
	keys: []string{"match_id", "url"},
	cols: []string{"match_id", "url", "name"},
}

var lineupsTable = table{
	name: "match_lineups",
	keys: []string{"id"},
	cols: []string{
		"id", "match_id", "match_type", "position", "collection_id",
		"side1_player1_id", "side1_player2_id", "side2_player1_id", "side2_player2_id",
		"side1_score", "side2_score", "side1_won", "side2_won", "side1_name", "side2_name",
	},
}

func lineupFields(l *models.MatchLineup) []any {
	return []any{
		&l.ID, &l.MatchID, &l.MatchType, &l.Position, &l.CollectionID,
		&l.Side1Player1ID, &l.Side1Player2ID, &l.Side2Player1ID, &l.Side2Player2ID,
		&l.Side1Score, &l.Side2Score, &l.Side1Won, &l.Side2Won, &l.Side1Name, &l.Side2Name,
	}
}

var lineupSetsTable = table{
	name: "match_lineup_sets",
	keys: []string{"lineup_id", "set_number"},
	cols: []string{"lineup_id", "set_number", "side1_score", "side2_score", "side1_tiebreak", "side2_tiebreak", "side1_won"},
}

func lineupSetFields(s *models.MatchLineupSet) []any {
	return []any{&s.LineupID, &s.SetNumber, &s.Side1Score, &s.Side2Score, &s.Side1Tiebreak, &s.Side2Tiebreak, &s.Side1Won}
}

var playerMatchesTable = table{
	name: "player_matches",
	keys: []string{"match_identifier"},
	cols: []string{
		"match_identifier", "winning_side", "start_time", "end_time", "match_type", "match_format", "status",
		"round_name", "collection_position", "tournament_id", "score_string", "source", "dual_match_id",
	},
}

func playerMatchFields(m *models.PlayerMatch) []any {
	return []any{
		&m.Identifier, &m.WinningSide, &m.Start, &m.End, &m.MatchType, &m.Format, &m.Status,
		&m.RoundName, &m.CollectionPosition, &m.TournamentID, &m.ScoreString, &m.Source, &m.DualMatchID,
	}
}

var playerMatchSetsTable = table{
	name: "player_match_sets",
	keys: []string{"match_identifier", "set_number"},
	cols: []string{
		"match_identifier", "set_number", "winner_games_won", "loser_games_won", "win_ratio",
		"tiebreak_winner_points", "tiebreak_loser_points",
	},
}

func playerMatchSetFields(s *models.PlayerMatchSet) []any {
	return []any{
		&s.MatchIdentifier, &s.SetNumber, &s.WinnerGamesWon, &s.LoserGamesWon, &s.WinRatio,
		&s.TiebreakWinnerPoints, &s.TiebreakLoserPoints,
	}
}

var participantsTable = table{
	name: "player_match_participants",
	keys: []string{"match_identifier", "person_id"},
	cols: []string{"match_identifier", "person_id", "team_id", "side_number", "family_name", "given_name", "is_winner"},
}

func participantFields(p *models.PlayerMatchParticipant) []any {
	return []any{&p.MatchIdentifier, &p.PersonID, &p.TeamID, &p.SideNumber, &p.FamilyName, &p.GivenName, &p.IsWinner}
}

func (x *pgTx) FindMatch(ctx context.Context, id string) (*models.Match, error) {
	var m models.Match
	ok, err := x.findOne(ctx, matchesTable.selectSQL("id = $1"), matchFields(&m), id)
	if err != nil || !ok {
		return nil, wrapFind("match", err)
	}
	utc(&m.StartDate)
	utc(&m.ScheduledTime)
	return &m, nil
}

func (x *pgTx) PutMatch(ctx context.Context, m models.Match) error {
	return x.put(ctx, matchesTable, matchFields(&m))
}

func (x *pgTx) SaveMatchTeam(ctx context.Context, mt models.MatchTeam) (Outcome, error) {
	return x.save(ctx, matchTeamsTable, matchTeamFields(&mt))
}

func (x *pgTx) SaveWebLink(ctx context.Context, wl models.WebLink) (Outcome, error) {
	return x.save(ctx, webLinksTable, []any{&wl.MatchID, &wl.URL, &wl.Name})
}

func (x *pgTx) FindLineup(ctx context.Context, id string) (*models.MatchLineup, error) {
	var l models.MatchLineup
	ok, err := x.findOne(ctx, lineupsTable.selectSQL("id = $1"), lineupFields(&l), id)
	if err != nil || !ok {
		return nil, wrapFind("lineup", err)
	}
	return &l, nil
}

func (x *pgTx) PutLineup(ctx context.Context, l models.MatchLineup) error {
	return x.put(ctx, lineupsTable, lineupFields(&l))
}

func (x *pgTx) ReplaceLineupSets(ctx context.Context, lineupID string, sets []models.MatchLineupSet) (Outcome, error) {
	current, err := queryList(ctx, x.q, lineupSetsTable.selectSQL("lineup_id = $1 ORDER BY set_number"), lineupSetFields, lineupID)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to query lineup sets: %w", err)
	}
	next := slices.Clone(sets)
	slices.SortFunc(next, func(a, b models.MatchLineupSet) int { return a.SetNumber - b.SetNumber })
	return replace(ctx, x, lineupSetsTable, "lineup_id", lineupID, current, next, lineupSetFields)
}

func (x *pgTx) FindPlayerMatch(ctx context.Context, identifier string) (*models.PlayerMatch, error) {
	var m models.PlayerMatch
	ok, err := x.findOne(ctx, playerMatchesTable.selectSQL("match_identifier = $1"), playerMatchFields(&m), identifier)
	if err != nil || !ok {
		return nil, wrapFind("player match", err)
	}
	utc(&m.Start)
	utc(&m.End)
	return &m, nil
}

func (x *pgTx) PutPlayerMatch(ctx context.Context, m models.PlayerMatch) error {
	return x.put(ctx, playerMatchesTable, playerMatchFields(&m))
}

func (x *pgTx) ReplacePlayerMatchSets(ctx context.Context, identifier string, sets []models.PlayerMatchSet) (Outcome, error) {
	current, err := queryList(ctx, x.q, playerMatchSetsTable.selectSQL("match_identifier = $1 ORDER BY set_number"), playerMatchSetFields, identifier)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to query player match sets: %w", err)
	}
	next := slices.Clone(sets)
	slices.SortFunc(next, func(a, b models.PlayerMatchSet) int { return a.SetNumber - b.SetNumber })
	return replace(ctx, x, playerMatchSetsTable, "match_identifier", identifier, current, next, playerMatchSetFields)
}

func (x *pgTx) ReplacePlayerMatchParticipants(ctx context.Context, identifier string, ps []models.PlayerMatchParticipant) (Outcome, error) {
	current, err := queryList(ctx, x.q, participantsTable.selectSQL("match_identifier = $1 ORDER BY person_id COLLATE \"C\""), participantFields, identifier)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to query player match participants: %w", err)
	}
	next := slices.Clone(ps)
	slices.SortFunc(next, func(a, b models.PlayerMatchParticipant) int { return strings.Compare(a.PersonID, b.PersonID) })
	return replace(ctx, x, participantsTable, "match_identifier", identifier, current, next, participantFields)
}
