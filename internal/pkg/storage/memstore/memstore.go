// Package memstore is an in-process storage.Store. Each transaction works on a copy
// of the state that replaces the shared state on commit.
package memstore

import (
	"cmp"
	"context"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

var _ storage.Store = (*Store)(nil)
var _ storage.Tx = (*tx)(nil)

type key2 struct{ a, b string }
type key3 struct{ a, b, c string }

type state struct {
	tournaments     map[string]models.Tournament
	events          map[string][]models.TournamentEvent
	players         map[string]models.TournamentPlayer
	draws           map[string]models.Draw
	tournamentMatch map[string]models.TournamentMatch
	matches         map[string]models.Match
	matchTeams      map[key2]models.MatchTeam
	webLinks        map[key2]models.WebLink
	lineups         map[string]models.MatchLineup
	lineupSets      map[string][]models.MatchLineupSet
	playerMatches   map[string]models.PlayerMatch
	playerMatchSets map[string][]models.PlayerMatchSet
	participants    map[string][]models.PlayerMatchParticipant
	teams           map[string]models.Team
	schools         map[string]models.SchoolInfo
	people          map[string]models.Player
	playerSeasons   map[key2]models.PlayerSeason
	rosters         map[key3]models.PlayerRoster
	wtns            map[key3]models.PlayerWTN
	seasons         map[string]models.Season
	rankingLists    map[string]models.RankingList
	teamRankings    map[string][]models.TeamRanking
	playerRankings  map[string][]models.PlayerRanking
	doublesRankings map[string][]models.DoublesRanking
}

func newState() *state {
	return &state{
		tournaments:     map[string]models.Tournament{},
		events:          map[string][]models.TournamentEvent{},
		players:         map[string]models.TournamentPlayer{},
		draws:           map[string]models.Draw{},
		tournamentMatch: map[string]models.TournamentMatch{},
		matches:         map[string]models.Match{},
		matchTeams:      map[key2]models.MatchTeam{},
		webLinks:        map[key2]models.WebLink{},
		lineups:         map[string]models.MatchLineup{},
		lineupSets:      map[string][]models.MatchLineupSet{},
		playerMatches:   map[string]models.PlayerMatch{},
		playerMatchSets: map[string][]models.PlayerMatchSet{},
		participants:    map[string][]models.PlayerMatchParticipant{},
		teams:           map[string]models.Team{},
		schools:         map[string]models.SchoolInfo{},
		people:          map[string]models.Player{},
		playerSeasons:   map[key2]models.PlayerSeason{},
		rosters:         map[key3]models.PlayerRoster{},
		wtns:            map[key3]models.PlayerWTN{},
		seasons:         map[string]models.Season{},
		rankingLists:    map[string]models.RankingList{},
		teamRankings:    map[string][]models.TeamRanking{},
		playerRankings:  map[string][]models.PlayerRanking{},
		doublesRankings: map[string][]models.DoublesRanking{},
	}
}

// clone copies the maps. Values are never mutated in place, so sharing them is safe.
func (s *state) clone() *state {
	return &state{
		tournaments:     maps.Clone(s.tournaments),
		events:          maps.Clone(s.events),
		players:         maps.Clone(s.players),
		draws:           maps.Clone(s.draws),
		tournamentMatch: maps.Clone(s.tournamentMatch),
		matches:         maps.Clone(s.matches),
		matchTeams:      maps.Clone(s.matchTeams),
		webLinks:        maps.Clone(s.webLinks),
		lineups:         maps.Clone(s.lineups),
		lineupSets:      maps.Clone(s.lineupSets),
		playerMatches:   maps.Clone(s.playerMatches),
		playerMatchSets: maps.Clone(s.playerMatchSets),
		participants:    maps.Clone(s.participants),
		teams:           maps.Clone(s.teams),
		schools:         maps.Clone(s.schools),
		people:          maps.Clone(s.people),
		playerSeasons:   maps.Clone(s.playerSeasons),
		rosters:         maps.Clone(s.rosters),
		wtns:            maps.Clone(s.wtns),
		seasons:         maps.Clone(s.seasons),
		rankingLists:    maps.Clone(s.rankingLists),
		teamRankings:    maps.Clone(s.teamRankings),
		playerRankings:  maps.Clone(s.playerRankings),
		doublesRankings: maps.Clone(s.doublesRankings),
	}
}

// Store is safe for concurrent use; transactions are serialized.
type Store struct {
	mu      sync.Mutex
	state   *state
	commits int
	failTx  []error
}

func New() *Store {
	return &Store{state: newState()}
}

// FailNextTx makes the next transaction fail with err at commit time.
func (s *Store) FailNextTx(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTx = append(s.failTx, err)
}

// Commits returns the number of committed transactions.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Store) WithTx(ctx context.Context, fn func(storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&tx{s: work}); err != nil {
		return err
	}
	if len(s.failTx) > 0 {
		err := s.failTx[0]
		s.failTx = s.failTx[1:]
		return err
	}
	s.state = work
	s.commits++
	return nil
}

func (s *Store) Close() error { return nil }

type tx struct {
	s *state
}

func find[K comparable, V any](m map[K]V, k K) (*V, error) {
	v, ok := m[k]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func save[K comparable, V any](m map[K]V, k K, v V) storage.Outcome {
	cur, ok := m[k]
	switch {
	case !ok:
		m[k] = v
		return storage.Inserted
	case reflect.DeepEqual(cur, v):
		return storage.Unchanged
	default:
		m[k] = v
		return storage.Updated
	}
}

func replace[V any](m map[string][]V, k string, next []V, less func(a, b V) int) storage.Outcome {
	next = slices.Clone(next)
	slices.SortFunc(next, less)
	cur := m[k]
	if len(cur) == 0 && len(next) == 0 {
		return storage.Unchanged
	}
	if reflect.DeepEqual(cur, next) {
		return storage.Unchanged
	}
	if len(next) == 0 {
		delete(m, k)
	} else {
		m[k] = next
	}
	if len(cur) == 0 {
		return storage.Inserted
	}
	return storage.Updated
}

// after returns the sorted keys greater than after, at most limit of them.
func after[V any](m map[string]V, from string, limit int, keep func(V) bool) []V {
	keys := slices.Sorted(maps.Keys(m))
	var out []V
	for _, k := range keys {
		if k <= from || !keep(m[k]) {
			continue
		}
		out = append(out, m[k])
		if len(out) == limit {
			break
		}
	}
	return out
}

func inRange(t *time.Time, from, to time.Time) bool {
	return t != nil && !t.Before(from) && !t.After(to)
}

// Tournaments

func (x *tx) FindTournament(_ context.Context, id string) (*models.Tournament, error) {
	return find(x.s.tournaments, id)
}

func (x *tx) PutTournament(_ context.Context, t models.Tournament) error {
	x.s.tournaments[t.ID] = t
	return nil
}

func (x *tx) TournamentEvents(_ context.Context, tournamentID string) ([]models.TournamentEvent, error) {
	return slices.Clone(x.s.events[tournamentID]), nil
}

func (x *tx) ReplaceTournamentEvents(_ context.Context, tournamentID string, events []models.TournamentEvent) (storage.Outcome, error) {
	return replace(x.s.events, tournamentID, events, func(a, b models.TournamentEvent) int { return strings.Compare(a.ID, b.ID) }), nil
}

func (x *tx) FindTournamentPlayer(_ context.Context, id string) (*models.TournamentPlayer, error) {
	return find(x.s.players, id)
}

func (x *tx) PutTournamentPlayer(_ context.Context, p models.TournamentPlayer) error {
	x.s.players[p.ID] = p
	return nil
}

func (x *tx) FindDraw(_ context.Context, id string) (*models.Draw, error) {
	return find(x.s.draws, id)
}

func (x *tx) PutDraw(_ context.Context, d models.Draw) error {
	x.s.draws[d.ID] = d
	return nil
}

func (x *tx) FindTournamentMatch(_ context.Context, id string) (*models.TournamentMatch, error) {
	return find(x.s.tournamentMatch, id)
}

func (x *tx) PutTournamentMatch(_ context.Context, m models.TournamentMatch) error {
	x.s.tournamentMatch[m.ID] = m
	return nil
}

func (x *tx) TournamentIDsBetween(_ context.Context, from, to time.Time) ([]string, error) {
	var list []models.Tournament
	for _, t := range x.s.tournaments {
		if !t.IsCancelled && inRange(t.StartDateTime, from, to) {
			list = append(list, t)
		}
	}
	slices.SortFunc(list, func(a, b models.Tournament) int {
		return cmp.Or(a.StartDateTime.Compare(*b.StartDateTime), strings.Compare(a.ID, b.ID))
	})
	ids := make([]string, len(list))
	for i, t := range list {
		ids[i] = t.ID
	}
	return ids, nil
}

func (x *tx) TournamentEventsBetween(ctx context.Context, from, to time.Time) ([]models.TournamentEvent, error) {
	ids, _ := x.TournamentIDsBetween(ctx, from, to)
	var out []models.TournamentEvent
	for _, id := range ids {
		out = append(out, x.s.events[id]...)
	}
	return out, nil
}

// Matches

func (x *tx) FindMatch(_ context.Context, id string) (*models.Match, error) {
	return find(x.s.matches, id)
}

func (x *tx) PutMatch(_ context.Context, m models.Match) error {
	x.s.matches[m.ID] = m
	return nil
}

func (x *tx) SaveMatchTeam(_ context.Context, mt models.MatchTeam) (storage.Outcome, error) {
	return save(x.s.matchTeams, key2{mt.MatchID, mt.TeamID}, mt), nil
}

func (x *tx) SaveWebLink(_ context.Context, wl models.WebLink) (storage.Outcome, error) {
	return save(x.s.webLinks, key2{wl.MatchID, wl.URL}, wl), nil
}

func (x *tx) FindLineup(_ context.Context, id string) (*models.MatchLineup, error) {
	return find(x.s.lineups, id)
}

func (x *tx) PutLineup(_ context.Context, l models.MatchLineup) error {
	x.s.lineups[l.ID] = l
	return nil
}

func (x *tx) ReplaceLineupSets(_ context.Context, lineupID string, sets []models.MatchLineupSet) (storage.Outcome, error) {
	return replace(x.s.lineupSets, lineupID, sets, func(a, b models.MatchLineupSet) int { return a.SetNumber - b.SetNumber }), nil
}

func (x *tx) FindPlayerMatch(_ context.Context, identifier string) (*models.PlayerMatch, error) {
	return find(x.s.playerMatches, identifier)
}

func (x *tx) PutPlayerMatch(_ context.Context, m models.PlayerMatch) error {
	x.s.playerMatches[m.Identifier] = m
	return nil
}

func (x *tx) ReplacePlayerMatchSets(_ context.Context, identifier string, sets []models.PlayerMatchSet) (storage.Outcome, error) {
	return replace(x.s.playerMatchSets, identifier, sets, func(a, b models.PlayerMatchSet) int { return a.SetNumber - b.SetNumber }), nil
}

func (x *tx) ReplacePlayerMatchParticipants(_ context.Context, identifier string, ps []models.PlayerMatchParticipant) (storage.Outcome, error) {
	return replace(x.s.participants, identifier, ps, func(a, b models.PlayerMatchParticipant) int { return strings.Compare(a.PersonID, b.PersonID) }), nil
}

// Teams and schools

func (x *tx) FindTeam(_ context.Context, id string) (*models.Team, error) {
	return find(x.s.teams, id)
}

func (x *tx) FindTeamFold(_ context.Context, id string) (*models.Team, error) {
	for _, k := range slices.Sorted(maps.Keys(x.s.teams)) {
		if strings.EqualFold(k, id) {
			t := x.s.teams[k]
			return &t, nil
		}
	}
	return nil, nil
}

func (x *tx) PutTeam(_ context.Context, t models.Team) error {
	x.s.teams[t.ID] = t
	return nil
}

func (x *tx) FindSchool(_ context.Context, id string) (*models.SchoolInfo, error) {
	return find(x.s.schools, id)
}

func (x *tx) FindSchoolByTeam(_ context.Context, teamID string) (*models.SchoolInfo, error) {
	for _, k := range slices.Sorted(maps.Keys(x.s.schools)) {
		s := x.s.schools[k]
		if ptrEq(s.ManID, teamID) || ptrEq(s.WomanID, teamID) {
			return &s, nil
		}
	}
	return nil, nil
}

func ptrEq(p *string, s string) bool {
	return p != nil && *p == s
}

func (x *tx) FindSchoolByTeamFold(_ context.Context, teamID string) (*models.SchoolInfo, error) {
	for _, k := range slices.Sorted(maps.Keys(x.s.schools)) {
		s := x.s.schools[k]
		if foldEq(s.ManID, teamID) || foldEq(s.WomanID, teamID) {
			return &s, nil
		}
	}
	return nil, nil
}

func foldEq(p *string, s string) bool {
	return p != nil && strings.EqualFold(*p, s)
}

func (x *tx) PutSchool(_ context.Context, s models.SchoolInfo) error {
	x.s.schools[s.ID] = s
	return nil
}

func (x *tx) Schools(_ context.Context) ([]models.SchoolInfo, error) {
	return after(x.s.schools, "", -1, func(models.SchoolInfo) bool { return true }), nil
}

func (x *tx) TeamsWithoutSchool(ctx context.Context) ([]models.Team, error) {
	var out []models.Team
	for _, k := range slices.Sorted(maps.Keys(x.s.teams)) {
		if s, _ := x.FindSchoolByTeamFold(ctx, k); s == nil {
			out = append(out, x.s.teams[k])
		}
	}
	return out, nil
}

// Players and seasons

func (x *tx) FindPlayer(_ context.Context, personID string) (*models.Player, error) {
	return find(x.s.people, personID)
}

func (x *tx) PutPlayer(_ context.Context, p models.Player) error {
	x.s.people[p.PersonID] = p
	return nil
}

func (x *tx) FindPlayerSeason(_ context.Context, personID, seasonID string) (*models.PlayerSeason, error) {
	return find(x.s.playerSeasons, key2{personID, seasonID})
}

func (x *tx) PutPlayerSeason(_ context.Context, ps models.PlayerSeason) error {
	x.s.playerSeasons[key2{ps.PersonID, ps.SeasonID}] = ps
	return nil
}

func (x *tx) SaveRoster(_ context.Context, r models.PlayerRoster) (storage.Outcome, error) {
	return save(x.s.rosters, key3{r.PersonID, r.SeasonID, r.TeamID}, r), nil
}

func (x *tx) SaveWTN(_ context.Context, w models.PlayerWTN) (storage.Outcome, error) {
	return save(x.s.wtns, key3{w.PersonID, w.SeasonID, w.WTNType}, w), nil
}

func (x *tx) FindSeason(_ context.Context, id string) (*models.Season, error) {
	return find(x.s.seasons, id)
}

func (x *tx) PutSeason(_ context.Context, s models.Season) error {
	x.s.seasons[s.ID] = s
	return nil
}

func (x *tx) Seasons(_ context.Context) ([]models.Season, error) {
	out := slices.Collect(maps.Values(x.s.seasons))
	slices.SortFunc(out, func(a, b models.Season) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (x *tx) RosteredPlayers(_ context.Context, seasonID string) ([]string, error) {
	seen := map[string]bool{}
	for k, r := range x.s.rosters {
		if k.b == seasonID && r.Active {
			seen[k.a] = true
		}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

// Rankings

func (x *tx) FindRankingList(_ context.Context, id string) (*models.RankingList, error) {
	return find(x.s.rankingLists, id)
}

func (x *tx) PutRankingList(_ context.Context, l models.RankingList) error {
	x.s.rankingLists[l.ID] = l
	return nil
}

func (x *tx) HasRankings(_ context.Context, listID string) (bool, error) {
	return len(x.s.teamRankings[listID]) > 0 || len(x.s.playerRankings[listID]) > 0 ||
		len(x.s.doublesRankings[listID]) > 0, nil
}

func (x *tx) ReplaceTeamRankings(_ context.Context, listID string, rs []models.TeamRanking) (storage.Outcome, error) {
	return replace(x.s.teamRankings, listID, rs, func(a, b models.TeamRanking) int { return strings.Compare(a.TeamID, b.TeamID) }), nil
}

func (x *tx) ReplacePlayerRankings(_ context.Context, listID string, rs []models.PlayerRanking) (storage.Outcome, error) {
	return replace(x.s.playerRankings, listID, rs, func(a, b models.PlayerRanking) int { return strings.Compare(a.PlayerID, b.PlayerID) }), nil
}

func (x *tx) ReplaceDoublesRankings(_ context.Context, listID string, rs []models.DoublesRanking) (storage.Outcome, error) {
	return replace(x.s.doublesRankings, listID, rs, func(a, b models.DoublesRanking) int {
		return cmp.Or(strings.Compare(a.Player1ID, b.Player1ID), strings.Compare(a.Player2ID, b.Player2ID))
	}), nil
}

// TeamRankings returns the stored team entries of a list ordered by team id.
func (s *Store) TeamRankings(listID string) []models.TeamRanking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.teamRankings[listID])
}

func (s *Store) PlayerRankings(listID string) []models.PlayerRanking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.playerRankings[listID])
}

func (s *Store) DoublesRankings(listID string) []models.DoublesRanking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.doublesRankings[listID])
}

// Reconciliation

func (x *tx) MatchesMissingTeams(_ context.Context, from string, limit int) ([]models.Match, error) {
	return after(x.s.matches, from, limit, func(m models.Match) bool {
		return m.HomeTeamID == nil || m.AwayTeamID == nil
	}), nil
}

func (x *tx) MatchTeams(_ context.Context, matchID string) ([]models.MatchTeam, error) {
	var out []models.MatchTeam
	for k, mt := range x.s.matchTeams {
		if k.a == matchID {
			out = append(out, mt)
		}
	}
	slices.SortFunc(out, func(a, b models.MatchTeam) int {
		switch {
		case a.SideNumber == nil && b.SideNumber == nil:
		case a.SideNumber == nil:
			return 1
		case b.SideNumber == nil:
			return -1
		case *a.SideNumber != *b.SideNumber:
			return *a.SideNumber - *b.SideNumber
		}
		return strings.Compare(a.TeamID, b.TeamID)
	})
	return out, nil
}

func (x *tx) FillMatchTeams(_ context.Context, matchID string, home, away *string) error {
	m, ok := x.s.matches[matchID]
	if !ok {
		return nil
	}
	if m.HomeTeamID == nil {
		m.HomeTeamID = home
	}
	if m.AwayTeamID == nil {
		m.AwayTeamID = away
	}
	x.s.matches[matchID] = m
	return nil
}

func (x *tx) LineupsMissingSideNames(_ context.Context, from string, limit int) ([]models.MatchLineup, error) {
	return after(x.s.lineups, from, limit, func(l models.MatchLineup) bool {
		return l.Side1Name == nil || l.Side2Name == nil
	}), nil
}

func (x *tx) FillLineupSideName(_ context.Context, lineupID string, side int, name string) error {
	l, ok := x.s.lineups[lineupID]
	if !ok {
		return nil
	}
	switch {
	case side == 1 && l.Side1Name == nil:
		l.Side1Name = &name
	case side == 2 && l.Side2Name == nil:
		l.Side2Name = &name
	}
	x.s.lineups[lineupID] = l
	return nil
}

func (x *tx) PlayerSeasonsIn(_ context.Context, seasonID, from string, limit int) ([]models.PlayerSeason, error) {
	bySeason := map[string]models.PlayerSeason{}
	for k, ps := range x.s.playerSeasons {
		if k.b == seasonID {
			bySeason[k.a] = ps
		}
	}
	return after(bySeason, from, limit, func(models.PlayerSeason) bool { return true }), nil
}

func (x *tx) PlayerSeasonsOf(_ context.Context, personID string) ([]models.PlayerSeason, error) {
	var out []models.PlayerSeason
	for k, ps := range x.s.playerSeasons {
		if k.a == personID {
			out = append(out, ps)
		}
	}
	slices.SortFunc(out, func(a, b models.PlayerSeason) int { return strings.Compare(a.SeasonID, b.SeasonID) })
	return out, nil
}

func (x *tx) SetPlayerClassYear(_ context.Context, personID, seasonID, classYear string) error {
	k := key2{personID, seasonID}
	ps, ok := x.s.playerSeasons[k]
	if !ok {
		return nil
	}
	ps.ClassYear = &classYear
	x.s.playerSeasons[k] = ps
	return nil
}

func (x *tx) TeamsMissingAttributes(_ context.Context, from string, limit int) ([]models.Team, error) {
	return after(x.s.teams, from, limit, func(t models.Team) bool {
		return t.Conference == nil || t.Region == nil
	}), nil
}

func (x *tx) FillTeamAttributes(_ context.Context, teamID string, conference, region *string) error {
	t, ok := x.s.teams[teamID]
	if !ok {
		return nil
	}
	if t.Conference == nil {
		t.Conference = conference
	}
	if t.Region == nil {
		t.Region = region
	}
	x.s.teams[teamID] = t
	return nil
}
