package mapper

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestClassifySource(t *testing.T) {
	pos := 3
	tests := []struct {
		name     string
		round    *string
		position *int
		want     models.MatchSource
	}{
		{"bracket round", ptr("R32"), nil, models.SourceTournament},
		{"bracket round wins over position", ptr("R16"), &pos, models.SourceTournament},
		{"dual line", ptr("Final"), &pos, models.SourceDual},
		{"dual line without round", nil, &pos, models.SourceDual},
		{"lowercase is not a round", ptr("r32"), nil, models.SourceUnknown},
		{"nothing", nil, nil, models.SourceUnknown},
		{"qualifying", ptr("Q1"), nil, models.SourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySource(tt.round, tt.position))
		})
	}
}

func TestNormalizeGender(t *testing.T) {
	for in, want := range map[string]string{
		"male": GenderMale, "Female": GenderFemale, "MIXED": GenderMixed, "": GenderUnknown, "x-ray": GenderUnknown,
	} {
		assert.Equal(t, want, NormalizeGender(in), in)
	}
}

const tournamentJSON = `{
  "id": "ABC-123",
  "name": "ITA Fall Championships",
  "isCancelled": false,
  "startDateTime": "2025-10-01T14:00:00Z",
  "endDateTime": "2025-10-05T22:00:00.000Z",
  "timeZone": "America/Chicago",
  "location": {"id": "loc1", "name": "Center Courts", "geo": {"latitude": 30.1, "longitude": -97.7}},
  "primaryLocation": {"town": "Austin", "address1": "1 Court St"},
  "levelCategories": [{"name": "National"}, {"name": "Other"}],
  "organization": {"name": "ITA", "division": "DIVISION_1"},
  "registrationRestrictions": {"secondsUntilEntriesOpen": 0, "secondsUntilEntriesClose": 3600,
    "entriesCloseDateTime": "2025-09-20T00:00:00Z"},
  "events": [
    {"id": "EV1", "division": {"gender": "female", "eventType": "singles"}},
    {"id": "EV2", "division": {"gender": "female", "eventType": "doubles"}},
    {"id": "EV3", "division": {"gender": "male", "eventType": "singles"}},
    {"division": {"eventType": "singles"}}
  ]
}`

func TestTournament(t *testing.T) {
	rec, err := Tournament(decode[RawTournament](t, tournamentJSON))
	require.NoError(t, err)

	tr := rec.Tournament
	assert.Equal(t, "abc-123", tr.ID)
	assert.Equal(t, "ITA Fall Championships", tr.Name)
	assert.Equal(t, models.RegistrationOpen, tr.RegistrationStatus)
	assert.Equal(t, "National", *tr.LevelCategory)
	assert.Equal(t, GenderFemale, *tr.Gender)
	assert.Equal(t, "DOUBLES,SINGLES", *tr.EventTypes)
	assert.Equal(t, "Austin", *tr.Town)
	assert.Equal(t, 30.1, *tr.Latitude)
	assert.Nil(t, tr.County)
	assert.Nil(t, tr.EntriesOpen)
	assert.Equal(t, time.Date(2025, 10, 5, 22, 0, 0, 0, time.UTC), *tr.EndDateTime)
	assert.Equal(t, models.TournamentTypeTournament, tr.TournamentType)
	assert.False(t, tr.IsDualMatch)

	require.Len(t, rec.Events, 3)
	assert.Equal(t, models.TournamentEvent{ID: "ev3", TournamentID: "abc-123", Gender: ptr(GenderMale), EventType: ptr("SINGLES")}, rec.Events[2])
}

func TestTournament_RegistrationStatus(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		rr   *RawRegistrationRs
		want string
	}{
		{"no restrictions", nil, models.RegistrationClosed},
		{"not yet open", &RawRegistrationRs{SecondsUntilEntriesOpen: f(10), SecondsUntilEntriesClose: f(100)}, models.RegistrationUpcoming},
		{"open", &RawRegistrationRs{SecondsUntilEntriesOpen: f(-5), SecondsUntilEntriesClose: f(100)}, models.RegistrationOpen},
		{"closed", &RawRegistrationRs{SecondsUntilEntriesClose: f(-1)}, models.RegistrationClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Tournament(RawTournament{ID: ptr("t"), Name: ptr("n"), RegistrationRestricts: tt.rr})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Tournament.RegistrationStatus)
		})
	}
}

func TestTournament_MissingFields(t *testing.T) {
	_, err := Tournament(RawTournament{Name: ptr("x")})
	require.ErrorIs(t, err, ErrMissingField)

	_, err = Tournament(RawTournament{ID: ptr("x"), Name: ptr("  ")})
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "name", fe.Field)
	assert.Equal(t, "x", fe.Key)
}

func TestDualMatch_HomeAwayResolution(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantHome string
		wantAway string
		wantErr  bool
	}{
		{
			name:     "explicit home team",
			json:     `{"id":"m1","homeTeam":{"id":"B"},"teams":[{"id":"A","sideNumber":1},{"id":"B","sideNumber":2}]}`,
			wantHome: "B", wantAway: "A",
		},
		{
			name:     "first team is home without homeTeam",
			json:     `{"id":"m1","teams":[{"id":"A"},{"id":"B"}]}`,
			wantHome: "A", wantAway: "B",
		},
		{
			name:     "duplicate ids fall back to second team",
			json:     `{"id":"m1","teams":[{"id":"A"},{"id":"A"}]}`,
			wantHome: "A", wantAway: "A",
		},
		{
			name:    "single team",
			json:    `{"id":"m1","teams":[{"id":"A"}]}`,
			wantErr: true,
		},
		{
			name:    "no teams",
			json:    `{"id":"m1","teams":[]}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DualMatch(decode[RawDualMatch](t, tt.json))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMissingField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHome, *rec.Match.HomeTeamID)
			assert.Equal(t, tt.wantAway, *rec.Match.AwayTeamID)
		})
	}
}

func TestDualMatch_Fields(t *testing.T) {
	raw := decode[RawDualMatch](t, `{
	  "id": "DM-1",
	  "startDateTime": {"timezoneName": "America/New_York", "noScheduledTime": false, "dateTimeString": "2025-01-01T03:00:00Z"},
	  "teams": [
	    {"id": "T1", "name": "Stanford", "abbreviation": "STAN", "score": 4, "didWin": true, "sideNumber": 1},
	    {"id": "T2", "name": "Cal", "sideNumber": 2}
	  ],
	  "isConferenceMatch": true,
	  "gender": "male",
	  "webLinks": [{"name": "Live stats", "url": "https://stats.example/1"}, {"name": "empty"}]
	}`)
	rec, err := DualMatch(raw)
	require.NoError(t, err)

	m := rec.Match
	// 03:00Z on Jan 1 is still Dec 31 in New York.
	assert.Equal(t, "2023", *m.Season)
	assert.True(t, m.Completed)
	assert.True(t, m.IsConferenceMatch)
	assert.Equal(t, GenderMale, *m.Gender)
	assert.Equal(t, 2, m.SideNumbers)
	assert.Equal(t, m.StartDate, m.ScheduledTime)

	require.Len(t, rec.Teams, 2)
	assert.Equal(t, "STAN", *rec.Teams[0].Abbreviation)
	assert.Equal(t, GenderMale, *rec.Teams[1].Gender)

	require.Len(t, rec.MatchTeams, 2)
	assert.True(t, rec.MatchTeams[0].IsHomeTeam)
	assert.Equal(t, models.TeamPositionHome, rec.MatchTeams[0].TeamPosition)
	assert.Equal(t, models.TeamPositionAway, rec.MatchTeams[1].TeamPosition)

	require.Len(t, rec.WebLinks, 1)
	assert.Equal(t, "Live stats", *rec.WebLinks[0].Name)
}

func TestDualMatch_UnscheduledAndIncomplete(t *testing.T) {
	rec, err := DualMatch(decode[RawDualMatch](t, `{"id":"x","startDateTime":{"noScheduledTime":true,"dateTimeString":"2025-03-01T00:00:00Z"},
	  "teams":[{"id":"A"},{"id":"B"}]}`))
	require.NoError(t, err)
	assert.Nil(t, rec.Match.ScheduledTime)
	assert.False(t, rec.Match.Completed)
	assert.Equal(t, "2024", *rec.Match.Season)
}

const detailJSON = `{
  "id": "DM-1",
  "teams": [{"id": "T1", "abbreviation": "STAN", "sideNumber": 1}, {"id": "T2", "abbreviation": "CAL", "sideNumber": 2}],
  "tieMatchUps": [
    {"id": "L1", "type": "doubles", "collectionPosition": 1, "collectionId": "C1",
     "side1": {"participants": [{"personId": "p1"}, {"personId": "p2"}], "teamAbbreviation": "STN", "didWin": true,
               "score": {"scoreString": "6-4", "sets": [{"setScore": 6, "didWin": true}]}},
     "side2": {"participants": [{"personId": "p3"}, {"personId": "p4"}],
               "score": {"scoreString": "4-6", "sets": [{"setScore": "4"}]}}},
    {"id": "L2", "type": "SINGLES",
     "side1": {"participants": [{"personId": "p1"}], "score": {"scoreString": "7-6", "sets": [{"setScore": 7, "tiebreakScore": "7"}, {"setScore": 6}]}},
     "side2": {"participants": [{"personId": "p3"}], "score": {"scoreString": "6-7", "sets": [{"setScore": 6, "tiebreakScore": 5}]}}},
    {"id": "L3", "type": "SINGLES",
     "side1": {"participants": [{"personId": "p5"}], "score": {"scoreString": "6-0"}},
     "side2": {"participants": [], "score": {"scoreString": "0-6"}}}
  ]
}`

func TestLineups(t *testing.T) {
	recs, errs := Lineups("DM-1", decode[RawDualMatchDetail](t, detailJSON))
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingField)
	require.Len(t, recs, 2)

	doubles := recs[0]
	assert.Equal(t, "DOUBLES", *doubles.Lineup.MatchType)
	assert.Equal(t, "p2", *doubles.Lineup.Side1Player2ID)
	assert.Equal(t, "p4", *doubles.Lineup.Side2Player2ID)
	assert.Equal(t, "STN", *doubles.Lineup.Side1Name, "side abbreviation wins")
	assert.Equal(t, "CAL", *doubles.Lineup.Side2Name, "falls back to the team on that side")
	assert.True(t, doubles.Lineup.Side1Won)
	require.Len(t, doubles.Sets, 1)
	assert.Equal(t, models.MatchLineupSet{LineupID: "L1", SetNumber: 1, Side1Score: 6, Side2Score: 4, Side1Won: true}, doubles.Sets[0])

	singles := recs[1]
	assert.Nil(t, singles.Lineup.Side1Player2ID)
	assert.Empty(t, singles.Sets, "mismatched set counts yield no sets")
}

func TestRoster(t *testing.T) {
	members := decode[[]RawRosterMember](t, `[
	  {"personId": "P1", "standardGivenName": "Ana", "standardFamilyName": "Lee", "class": "junior",
	   "worldTennisNumbers": [{"type": "singles", "tennisNumber": 12.5, "confidence": 80, "isRanked": true}, {"tennisNumber": 3}]},
	  {"standardGivenName": "Nobody"},
	  {"personId": "P2", "class": "Redshirt"}
	]`)
	recs, errs := Roster("S1", "T1", "2025", members)
	require.Len(t, errs, 1)
	require.Len(t, recs, 2)

	assert.Equal(t, "Junior", *recs[0].Season.ClassYear)
	assert.Equal(t, models.PlayerRoster{PersonID: "P1", SeasonID: "2025", TeamID: "T1", SchoolID: ptr("S1"), Active: true}, recs[0].Roster)
	require.Len(t, recs[0].WTNs, 1)
	assert.Equal(t, "SINGLES", recs[0].WTNs[0].WTNType)
	assert.Equal(t, "Redshirt", *recs[1].Season.ClassYear)
}

func TestRegistration(t *testing.T) {
	raw := decode[RawRegistration](t, `{
	  "firstName": "Ana", "lastName": "Lee", "gender": "FEMALE", "playerName": "Ana Lee",
	  "playerId": {"key": "uuid", "value": "fallback"},
	  "playerCustomIds": [{"key": "ustaId", "value": "U1"}, {"key": "personId", "value": "P1"}],
	  "events": [{"id": "EV-S", "division": {"eventType": "singles"}}, {"id": "EV-D", "division": {"eventType": "Doubles"}}],
	  "eventEntries": [
	    {"eventId": "EV-S", "players": [{"customIds": [{"key": "personId", "value": "P9"}]}]},
	    {"eventId": "EV-D", "partnershipStatus": "CONFIRMED", "players": [
	      {"firstName": "Ana", "customIds": [{"key": "personId", "value": "P1"}]},
	      {"firstName": "Bea", "lastName": "Kim", "customId": {"key": "id", "value": "P2"}}
	    ]}
	  ]
	}`)
	p, err := Registration("TOURN-1", raw)
	require.NoError(t, err)

	assert.Equal(t, "tourn-1_P1", p.ID)
	assert.Equal(t, "tourn-1", p.TournamentID)
	assert.Equal(t, "singles,doubles", p.EventsParticipating)
	assert.Equal(t, "ev-s", *p.SinglesEventID)
	assert.Equal(t, "ev-d", *p.DoublesEventID)
	assert.Equal(t, "P2", *p.Player2ID)
	assert.Equal(t, "Bea", *p.Player2FirstName)
	assert.Equal(t, "Kim", *p.Player2LastName)
}

func TestRegistration_PlayerIDFallbackAndMissing(t *testing.T) {
	p, err := Registration("t", RawRegistration{PlayerID: &RawKeyValue{Value: ptr("V1")}})
	require.NoError(t, err)
	assert.Equal(t, "t_V1", p.ID)
	assert.Nil(t, p.Player2ID)

	_, err = Registration("t", RawRegistration{PlayerName: ptr("Ghost")})
	require.ErrorIs(t, err, ErrMissingField)
}

const eventDataJSON = `{
  "participants": [
    {"participantId": "ind-1", "participantName": "Ana Lee", "participantType": "INDIVIDUAL",
     "teams": [{"participantOtherName": "Stanford", "teamId": "team-s"}]},
    {"participantId": "ind-2", "participantName": "Bea Kim", "participantType": "INDIVIDUAL"},
    {"participantId": "pair-1", "participantName": "Lee/Kim", "participantType": "PAIR",
     "individualParticipantIds": ["ind-1", "ind-2"]}
  ],
  "eventData": {"drawsData": [
    {"drawId": "d-1", "drawName": "Women's Doubles Main", "drawCompleted": true,
     "structures": [{"positionAssignments": [{}, {}, {}, {}],
       "roundMatchUps": {
         "2": [{"matchUpId": "mu-final", "roundName": "F", "roundNumber": 2}],
         "1": [{"matchUpId": "mu-1", "roundName": "SF", "roundNumber": 1, "winningSide": 1,
                "sides": [{"sideNumber": 1, "participantId": "pair-1", "seedNumber": 1}, {"sideNumber": 2, "participantId": "ghost"}],
                "score": {"scoreStringSide1": "6-3", "scoreStringSide2": "3-6"}},
               {"roundName": "SF"}]
       }}]}
  ]}
}`

func TestEventDraws(t *testing.T) {
	recs, errs := EventDraws("T-1", "E-1", decode[RawEventData](t, eventDataJSON))
	require.Len(t, errs, 1, "match-up without id")
	require.Len(t, recs, 1)

	d := recs[0].Draw
	assert.Equal(t, "D-1", d.ID)
	assert.Equal(t, "t-1", d.TournamentID)
	assert.Equal(t, "e-1", d.EventID)
	assert.Equal(t, "DOUBLES", d.EventType)
	assert.Equal(t, GenderFemale, d.Gender)
	assert.Equal(t, 4, d.Size)
	assert.True(t, d.Active)
	assert.True(t, d.Completed)

	require.Len(t, recs[0].Matches, 2)
	sf := recs[0].Matches[0]
	assert.Equal(t, "MU-1", sf.ID, "rounds come out in numeric order")
	assert.Equal(t, "D-1", sf.DrawID)
	assert.Equal(t, "IND-1", *sf.Side1.Player1ID)
	assert.Equal(t, "IND-2", *sf.Side1.Player2ID)
	assert.Equal(t, "TEAM-S", *sf.Side1.SchoolID, "pair inherits a member's school")
	assert.Equal(t, "Stanford", *sf.Side1.SchoolName)
	assert.Equal(t, 1, *sf.Side1.Seed)
	assert.Equal(t, "GHOST", *sf.Side2.Player1ID)
	assert.Nil(t, sf.Side2.ParticipantName)
	assert.Equal(t, "PAIR-1", *sf.WinnerID)
}

func TestDrawGender(t *testing.T) {
	for name, want := range map[string]string{
		"Men's Singles":   GenderMale,
		"Women's Singles": GenderFemale,
		"Mixed Doubles":   GenderMixed,
		"Main Draw":       GenderUnknown,
	} {
		assert.Equal(t, want, drawGender(name), name)
	}
}

const playerMatchJSON = `{
  "score": {"scoreString": "6-4 7-6(5)", "sets": [
    {"winnerGamesWon": 6, "loserGamesWon": 4, "winRatio": 0.6},
    {"winnerGamesWon": 7, "loserGamesWon": 6, "tiebreaker": {"winnerPointsWon": 7, "loserPointsWon": 5}}
  ]},
  "sides": [
    {"sideNumber": 1, "players": [{"person": {"externalID": "zz9", "nativeFamilyName": "Lee", "nativeGivenName": "Ana"}}],
     "extensions": [{"name": "teamId", "value": "T1"}]},
    {"sideNumber": 2, "players": [{"person": {"externalID": "aa1"}}],
     "extensions": [{"name": "rank", "value": 4}, {"name": "schoolId", "value": "S2"}]}
  ],
  "winningSide": 1,
  "start": "2025-02-10T18:00:00Z",
  "type": "SINGLES",
  "status": "completed",
  "tournament": {"providerTournamentId": "PT-7"},
  "extensions": [{"name": "dualMatchId", "value": "DM-1"}],
  "roundName": "Round 1",
  "collectionPosition": 2
}`

func TestPlayerMatch(t *testing.T) {
	rec, err := PlayerMatch(decode[RawPlayerMatch](t, playerMatchJSON))
	require.NoError(t, err)

	m := rec.Match
	assert.Equal(t, "2025-02-10-PT-7-aa1-zz9-SINGLES", m.Identifier)
	assert.Equal(t, models.SourceDual, m.Source)
	assert.Equal(t, "DM-1", *m.DualMatchID)
	assert.Equal(t, "COMPLETED", *m.Status)
	assert.Equal(t, "6-4 7-6(5)", *m.ScoreString)

	require.Len(t, rec.Sets, 2)
	assert.Equal(t, 2, rec.Sets[1].SetNumber)
	assert.Equal(t, 7, *rec.Sets[1].TiebreakWinnerPoints)
	assert.Nil(t, rec.Sets[0].TiebreakWinnerPoints)

	require.Len(t, rec.Participants, 2)
	assert.True(t, rec.Participants[0].IsWinner)
	assert.Equal(t, "T1", *rec.Participants[0].TeamID)
	assert.False(t, rec.Participants[1].IsWinner)
	assert.Equal(t, "S2", *rec.Participants[1].TeamID)
}

func TestPlayerMatch_Missing(t *testing.T) {
	_, err := PlayerMatch(RawPlayerMatch{Type: ptr("SINGLES")})
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = PlayerMatch(RawPlayerMatch{Start: ptr("2025-01-01T00:00:00Z"), Type: ptr("SINGLES")})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestSeasonAndSchool(t *testing.T) {
	s, err := Season(RawSeason{ID: ptr("S25"), Name: ptr("2025-2026"), Status: ptr("active"), StartDate: ptr("2025-08-01")})
	require.NoError(t, err)
	assert.True(t, s.Active())
	assert.Equal(t, 2025, s.StartDate.Year())

	_, err = Season(RawSeason{ID: ptr("S25")})
	assert.ErrorIs(t, err, ErrMissingField)

	school, err := School(RawSchool{ID: ptr("SC1"), Name: ptr("Stanford"), ManID: ptr("m1"), WomanID: ptr(" ")})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, school.TeamIDs())
}

func TestRankListSummary(t *testing.T) {
	l, err := RankListSummary("div1", "singles", "F", RawRankListSummary{
		ID:                 ptr("RL-1"),
		PublishDate:        ptr("2025-02-05T14:00:00Z"),
		PlannedPublishDate: ptr("2025-02-05"),
	})
	require.NoError(t, err)
	assert.Equal(t, "DIV1", l.DivisionType)
	assert.Equal(t, models.RankingFormatSingles, l.MatchFormat)
	assert.Equal(t, GenderFemale, l.Gender)
	assert.Equal(t, time.Date(2025, 2, 5, 14, 0, 0, 0, time.UTC), *l.PublishDate)
	assert.Equal(t, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), *l.PlannedPublishDate)

	_, err = RankListSummary("DIV1", "TEAM", "M", RawRankListSummary{PublishDate: ptr("2025-02-05")})
	assert.ErrorIs(t, err, ErrMissingField)
}

func rankingListJSON(format, items string) string {
	return `{
  "id": "RL-9",
  "createdAt": "2025-02-04T09:30:00Z",
  "divisionType": "DIV1",
  "gender": "M",
  "matchFormat": "` + format + `",
  "dateRange": {"start": "2024-08-01T00:00:00Z", "end": "2025-02-03T00:00:00Z"},
  "rankingItems": {"totalItems": 3, "items": [` + items + `]}
}`
}

func TestRankingList_Team(t *testing.T) {
	raw := decode[RawRankingList](t, rankingListJSON("TEAM", `
    {"rank": 1, "points": {"total": 98.5}, "wins": {"total": 12}, "losses": {"total": 1},
     "participants": [{"participantType": "TEAM", "itemId": "T-1", "name": "Ohio State"}], "conference": "Big Ten"},
    {"rank": 2, "participants": [{"participantType": "TEAM", "itemId": "T-1", "name": "Ohio State"}]},
    {"participants": [{"participantType": "TEAM", "itemId": "T-2", "name": "TCU"}]},
    {"rank": 4, "participants": []}`))

	recs, errs := RankingList(raw)
	require.Len(t, recs, 1)
	assert.Len(t, errs, 2)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrMissingField)
	}

	l := recs[0].List
	assert.Equal(t, "RL-9", l.ID)
	assert.Equal(t, GenderMale, l.Gender)
	assert.Equal(t, models.RankingFormatTeam, l.MatchFormat)
	assert.Equal(t, 2024, l.DateRangeStart.Year())
	assert.Nil(t, l.PublishDate)

	require.Len(t, recs[0].Teams, 1, "repeated team keeps the first entry")
	tr := recs[0].Teams[0]
	assert.Equal(t, 1, tr.Rank)
	assert.Equal(t, 98.5, *tr.Points)
	assert.Equal(t, 12, *tr.Wins)
	assert.Equal(t, "Big Ten", *tr.Conference)
	assert.Empty(t, recs[0].Singles)
}

func TestRankingList_SinglesAndDoubles(t *testing.T) {
	singles, errs := RankingList(decode[RawRankingList](t, rankingListJSON("SINGLES", `
    {"rank": 1, "participants": [
      {"participantType": "INDIVIDUAL", "itemId": "P-1", "name": "Ana Lee"},
      {"participantType": "TEAM", "itemId": "T-1", "name": "Ohio State"}]},
    {"rank": 2, "participants": [{"participantType": "TEAM", "itemId": "T-2", "name": "TCU"}]}`)))
	require.Len(t, singles, 1)
	assert.Len(t, errs, 1)
	require.Len(t, singles[0].Singles, 1)
	assert.Equal(t, models.PlayerRanking{
		RankingListID: "RL-9", PlayerID: "P-1", TeamID: "T-1", Rank: 1, PlayerName: "Ana Lee", TeamName: "Ohio State",
	}, singles[0].Singles[0])

	doubles, errs := RankingList(decode[RawRankingList](t, rankingListJSON("DOUBLES", `
    {"rank": 3, "participants": [
      {"participantType": "TEAM", "itemId": "T-1", "name": "Ohio State"},
      {"participantType": "INDIVIDUAL", "itemId": "P-9", "name": "Zoe Ng"},
      {"participantType": "INDIVIDUAL", "itemId": "P-2", "name": "Bo Park"}]},
    {"rank": 4, "participants": [
      {"participantType": "TEAM", "itemId": "T-1", "name": "Ohio State"},
      {"participantType": "INDIVIDUAL", "itemId": "P-3", "name": "Cy Diaz"}]}`)))
	require.Len(t, doubles, 1)
	assert.Len(t, errs, 1)
	require.Len(t, doubles[0].Doubles, 1)
	d := doubles[0].Doubles[0]
	assert.Equal(t, "P-2", d.Player1ID, "pair is ordered by id")
	assert.Equal(t, "Bo Park", d.Player1Name)
	assert.Equal(t, "P-9", d.Player2ID)
	assert.Equal(t, "Zoe Ng", d.Player2Name)
}

func TestRankingList_Invalid(t *testing.T) {
	recs, errs := RankingList(RawRankingList{MatchFormat: ptr("TEAM")})
	assert.Empty(t, recs)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingField)

	recs, errs = RankingList(RawRankingList{ID: ptr("RL-1"), MatchFormat: ptr("MIXED")})
	assert.Empty(t, recs)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingField)
}
