package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

var tournamentsTable = table{
	name: "tournaments",
	keys: []string{"id"},
	cols: []string{
		"id", "identification_code", "name", "image", "is_cancelled", "start_date_time", "end_date_time",
		"time_zone", "url", "root_provider_id",
		"location_id", "location_name", "town", "county", "address", "postcode", "latitude", "longitude",
		"level_id", "level_name", "level_category",
		"organization_id", "organization_name", "organization_conference", "organization_division",
		"entries_open", "entries_close", "registration_status",
		"is_dual_match", "tournament_type", "gender", "event_types",
	},
}

func tournamentFields(t *models.Tournament) []any {
	return []any{
		&t.ID, &t.IdentificationCode, &t.Name, &t.Image, &t.IsCancelled, &t.StartDateTime, &t.EndDateTime,
		&t.TimeZone, &t.URL, &t.RootProviderID,
		&t.LocationID, &t.LocationName, &t.Town, &t.County, &t.Address, &t.Postcode, &t.Latitude, &t.Longitude,
		&t.LevelID, &t.LevelName, &t.LevelCategory,
		&t.OrganizationID, &t.OrganizationName, &t.OrganizationConference, &t.OrganizationDivision,
		&t.EntriesOpen, &t.EntriesClose, &t.RegistrationStatus,
		&t.IsDualMatch, &t.TournamentType, &t.Gender, &t.EventTypes,
	}
}

var tournamentEventsTable = table{
	name: "tournament_events",
	keys: []string{"id"},
	cols: []string{"id", "tournament_id", "gender", "event_type"},
}

func tournamentEventFields(e *models.TournamentEvent) []any {
	return []any{&e.ID, &e.TournamentID, &e.Gender, &e.EventType}
}

var tournamentPlayersTable = table{
	name: "tournament_players",
	keys: []string{"id"},
	cols: []string{
		"id", "tournament_id", "player_id", "first_name", "last_name", "player_name", "gender", "city", "state",
		"events_participating", "singles_event_id", "doubles_event_id",
		"player2_id", "player2_first_name", "player2_last_name",
	},
}

func tournamentPlayerFields(p *models.TournamentPlayer) []any {
	return []any{
		&p.ID, &p.TournamentID, &p.PlayerID, &p.FirstName, &p.LastName, &p.PlayerName, &p.Gender, &p.City, &p.State,
		&p.EventsParticipating, &p.SinglesEventID, &p.DoublesEventID,
		&p.Player2ID, &p.Player2FirstName, &p.Player2LastName,
	}
}

var drawsTable = table{
	name: "draws",
	keys: []string{"id"},
	cols: []string{
		"id", "tournament_id", "event_id", "name", "draw_type", "size", "event_type", "gender",
		"active", "completed", "match_up_format", "updated_at_api",
	},
}

func drawFields(d *models.Draw) []any {
	return []any{
		&d.ID, &d.TournamentID, &d.EventID, &d.Name, &d.DrawType, &d.Size, &d.EventType, &d.Gender,
		&d.Active, &d.Completed, &d.MatchUpFormat, &d.UpdatedAtAPI,
	}
}

var tournamentMatchesTable = table{
	name: "tournament_matches",
	keys: []string{"id"},
	cols: []string{
		"id", "draw_id", "tournament_id", "event_id", "round_name", "round_number", "round_position",
		"match_type", "format", "status", "stage", "structure_name", "winning_side",
		"scheduled_date", "scheduled_time", "venue_name", "score_side1", "score_side2",
		"side1_participant_id", "side1_participant_name", "side1_player1_id", "side1_player2_id",
		"side1_school_id", "side1_school_name", "side1_seed", "side1_draw_position",
		"side2_participant_id", "side2_participant_name", "side2_player1_id", "side2_player2_id",
		"side2_school_id", "side2_school_name", "side2_seed", "side2_draw_position",
		"winner_id",
	},
}

func tournamentMatchFields(m *models.TournamentMatch) []any {
	fields := []any{
		&m.ID, &m.DrawID, &m.TournamentID, &m.EventID, &m.RoundName, &m.RoundNumber, &m.RoundPosition,
		&m.MatchType, &m.Format, &m.Status, &m.Stage, &m.StructureName, &m.WinningSide,
		&m.ScheduledDate, &m.ScheduledTime, &m.VenueName, &m.ScoreSide1, &m.ScoreSide2,
	}
	fields = append(fields, matchSideFields(&m.Side1)...)
	fields = append(fields, matchSideFields(&m.Side2)...)
	return append(fields, &m.WinnerID)
}

func matchSideFields(s *models.MatchSide) []any {
	return []any{
		&s.ParticipantID, &s.ParticipantName, &s.Player1ID, &s.Player2ID,
		&s.SchoolID, &s.SchoolName, &s.Seed, &s.DrawPosition,
	}
}

func (x *pgTx) FindTournament(ctx context.Context, id string) (*models.Tournament, error) {
	var t models.Tournament
	ok, err := x.findOne(ctx, tournamentsTable.selectSQL("id = $1"), tournamentFields(&t), id)
	if err != nil || !ok {
		return nil, wrapFind("tournament", err)
	}
	utc(&t.StartDateTime)
	utc(&t.EndDateTime)
	utc(&t.EntriesOpen)
	utc(&t.EntriesClose)
	return &t, nil
}

func (x *pgTx) PutTournament(ctx context.Context, t models.Tournament) error {
	return x.put(ctx, tournamentsTable, tournamentFields(&t))
}

func (x *pgTx) TournamentEvents(ctx context.Context, tournamentID string) ([]models.TournamentEvent, error) {
	events, err := queryList(ctx, x.q, tournamentEventsTable.selectSQL("tournament_id = $1 ORDER BY id COLLATE \"C\""), tournamentEventFields, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament events: %w", err)
	}
	return events, nil
}

func (x *pgTx) ReplaceTournamentEvents(ctx context.Context, tournamentID string, events []models.TournamentEvent) (Outcome, error) {
	current, err := x.TournamentEvents(ctx, tournamentID)
	if err != nil {
		return Unchanged, err
	}
	next := slices.Clone(events)
	slices.SortFunc(next, func(a, b models.TournamentEvent) int { return strings.Compare(a.ID, b.ID) })
	return replace(ctx, x, tournamentEventsTable, "tournament_id", tournamentID, current, next, tournamentEventFields)
}

func (x *pgTx) FindTournamentPlayer(ctx context.Context, id string) (*models.TournamentPlayer, error) {
	var p models.TournamentPlayer
	ok, err := x.findOne(ctx, tournamentPlayersTable.selectSQL("id = $1"), tournamentPlayerFields(&p), id)
	if err != nil || !ok {
		return nil, wrapFind("tournament player", err)
	}
	return &p, nil
}

func (x *pgTx) PutTournamentPlayer(ctx context.Context, p models.TournamentPlayer) error {
	return x.put(ctx, tournamentPlayersTable, tournamentPlayerFields(&p))
}

func (x *pgTx) FindDraw(ctx context.Context, id string) (*models.Draw, error) {
	var d models.Draw
	ok, err := x.findOne(ctx, drawsTable.selectSQL("id = $1"), drawFields(&d), id)
	if err != nil || !ok {
		return nil, wrapFind("draw", err)
	}
	return &d, nil
}

func (x *pgTx) PutDraw(ctx context.Context, d models.Draw) error {
	return x.put(ctx, drawsTable, drawFields(&d))
}

func (x *pgTx) FindTournamentMatch(ctx context.Context, id string) (*models.TournamentMatch, error) {
	var m models.TournamentMatch
	ok, err := x.findOne(ctx, tournamentMatchesTable.selectSQL("id = $1"), tournamentMatchFields(&m), id)
	if err != nil || !ok {
		return nil, wrapFind("tournament match", err)
	}
	return &m, nil
}

func (x *pgTx) PutTournamentMatch(ctx context.Context, m models.TournamentMatch) error {
	return x.put(ctx, tournamentMatchesTable, tournamentMatchFields(&m))
}

func (x *pgTx) TournamentIDsBetween(ctx context.Context, from, to time.Time) ([]string, error) {
	ids, err := queryStrings(ctx, x.q,
		"SELECT id FROM tournaments WHERE start_date_time BETWEEN $1 AND $2 AND NOT is_cancelled ORDER BY start_date_time, id",
		from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments in range: %w", err)
	}
	return ids, nil
}

func (x *pgTx) TournamentEventsBetween(ctx context.Context, from, to time.Time) ([]models.TournamentEvent, error) {
	query := `
	SELECT e.id, e.tournament_id, e.gender, e.event_type
	FROM tournament_events e
	JOIN tournaments t ON t.id = e.tournament_id
	WHERE t.start_date_time BETWEEN $1 AND $2 AND NOT t.is_cancelled
	ORDER BY t.start_date_time, e.tournament_id, e.id
	`
	events, err := queryList(ctx, x.q, query, tournamentEventFields, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament events in range: %w", err)
	}
	return events, nil
}

// wrapFind annotates a lookup error; a nil error stays nil so misses read as (nil, nil).
func wrapFind(entity string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to find %s: %w", entity, err)
}
