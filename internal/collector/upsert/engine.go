// Package upsert writes mapped records into the store idempotently.
package upsert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/cache"
	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

const teamKeyPrefix = "team:"

// Engine applies merge rules and reports what each write did. It holds no transaction;
// callers pass the one they opened.
type Engine struct {
	cache    cache.Cache
	cacheTTL time.Duration
}

// New returns an engine that remembers resolved team keys in c. c may be nil.
func New(c cache.Cache, ttl time.Duration) *Engine {
	return &Engine{cache: c, cacheTTL: ttl}
}

func apply[T any](
	ctx context.Context,
	in T,
	find func(context.Context) (*T, error),
	put func(context.Context, T) error,
	merge func(T, T) (T, bool),
) (storage.Outcome, error) {
	cur, err := find(ctx)
	if err != nil {
		return storage.Unchanged, err
	}
	if cur == nil {
		if err := put(ctx, in); err != nil {
			return storage.Unchanged, err
		}
		return storage.Inserted, nil
	}
	merged, changed := merge(*cur, in)
	if !changed {
		return storage.Unchanged, nil
	}
	if err := put(ctx, merged); err != nil {
		return storage.Unchanged, err
	}
	return storage.Updated, nil
}

// UpsertTeam writes a team, matching an existing row regardless of id casing.
func (e *Engine) UpsertTeam(ctx context.Context, tx storage.Tx, t models.Team) (storage.Outcome, error) {
	_, out, err := e.upsertTeam(ctx, tx, t)
	return out, err
}

// upsertTeam returns the stored id the team ended up under.
func (e *Engine) upsertTeam(ctx context.Context, tx storage.Tx, t models.Team) (string, storage.Outcome, error) {
	if t.ID == "" {
		return "", storage.Unchanged, errors.New("team without id")
	}
	cur, err := e.resolveTeam(ctx, tx, t.ID)
	if err != nil {
		return "", storage.Unchanged, fmt.Errorf("failed to resolve team %s: %w", t.ID, err)
	}
	if cur == nil {
		if err := tx.PutTeam(ctx, t); err != nil {
			return "", storage.Unchanged, fmt.Errorf("failed to insert team %s: %w", t.ID, err)
		}
		e.rememberTeam(ctx, t.ID, t.ID)
		return t.ID, storage.Inserted, nil
	}
	e.rememberTeam(ctx, t.ID, cur.ID)
	merged, changed := mergeTeam(*cur, t)
	if !changed {
		return cur.ID, storage.Unchanged, nil
	}
	if err := tx.PutTeam(ctx, merged); err != nil {
		return "", storage.Unchanged, fmt.Errorf("failed to update team %s: %w", cur.ID, err)
	}
	return cur.ID, storage.Updated, nil
}

// resolveTeam looks a team up exactly, then through the cached key, then ignoring case.
func (e *Engine) resolveTeam(ctx context.Context, tx storage.Tx, id string) (*models.Team, error) {
	t, err := tx.FindTeam(ctx, id)
	if err != nil || t != nil {
		return t, err
	}
	if stored, ok := e.cachedTeam(ctx, id); ok && stored != id {
		t, err := tx.FindTeam(ctx, stored)
		if err != nil || t != nil {
			return t, err
		}
	}
	return tx.FindTeamFold(ctx, id)
}

func (e *Engine) cachedTeam(ctx context.Context, id string) (string, bool) {
	if e.cache == nil {
		return "", false
	}
	v, ok, err := e.cache.Get(ctx, teamKeyPrefix+strings.ToUpper(id))
	if err != nil {
		slog.Warn("Team key cache read failed", "team", id, "error", err)
		return "", false
	}
	return string(v), ok
}

func (e *Engine) rememberTeam(ctx context.Context, id, stored string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, teamKeyPrefix+strings.ToUpper(id), []byte(stored), e.cacheTTL); err != nil {
		slog.Warn("Team key cache write failed", "team", id, "error", err)
	}
}

// UpsertTournament writes a tournament and makes its stored events equal to rec.Events.
func (e *Engine) UpsertTournament(ctx context.Context, tx storage.Tx, rec models.TournamentRecord) (storage.Outcome, error) {
	t := rec.Tournament
	out, err := apply(ctx, t,
		func(ctx context.Context) (*models.Tournament, error) { return tx.FindTournament(ctx, t.ID) },
		tx.PutTournament, mergeTournament)
	if err != nil {
		return out, fmt.Errorf("failed to upsert tournament %s: %w", t.ID, err)
	}
	events, err := tx.ReplaceTournamentEvents(ctx, t.ID, rec.Events)
	if err != nil {
		return out, fmt.Errorf("failed to replace events of tournament %s: %w", t.ID, err)
	}
	return out.Combine(events), nil
}

// UpsertDualMatch writes both teams, the match, its team links and web links. Team
// references are rewritten to the stored team ids.
func (e *Engine) UpsertDualMatch(ctx context.Context, tx storage.Tx, rec models.DualMatchRecord) (storage.Outcome, error) {
	ids := make(map[string]string, len(rec.Teams))
	var teamsOut storage.Outcome
	for _, t := range rec.Teams {
		stored, out, err := e.upsertTeam(ctx, tx, t)
		if err != nil {
			return storage.Unchanged, err
		}
		ids[t.ID] = stored
		teamsOut = teamsOut.Combine(out)
	}
	storedID := func(p *string) *string {
		if p == nil {
			return nil
		}
		if s, ok := ids[*p]; ok {
			return &s
		}
		return p
	}

	m := rec.Match
	m.HomeTeamID = storedID(m.HomeTeamID)
	m.AwayTeamID = storedID(m.AwayTeamID)
	out, err := apply(ctx, m,
		func(ctx context.Context) (*models.Match, error) { return tx.FindMatch(ctx, m.ID) },
		tx.PutMatch, mergeMatch)
	if err != nil {
		return out, fmt.Errorf("failed to upsert match %s: %w", m.ID, err)
	}
	out = out.Combine(teamsOut)

	for _, mt := range rec.MatchTeams {
		mt.TeamID = *storedID(&mt.TeamID)
		child, err := tx.SaveMatchTeam(ctx, mt)
		if err != nil {
			return out, fmt.Errorf("failed to save team %s of match %s: %w", mt.TeamID, m.ID, err)
		}
		out = out.Combine(child)
	}
	for _, wl := range rec.WebLinks {
		child, err := tx.SaveWebLink(ctx, wl)
		if err != nil {
			return out, fmt.Errorf("failed to save web link of match %s: %w", m.ID, err)
		}
		out = out.Combine(child)
	}
	return out, nil
}

func (e *Engine) UpsertLineup(ctx context.Context, tx storage.Tx, rec models.LineupRecord) (storage.Outcome, error) {
	l := rec.Lineup
	out, err := apply(ctx, l,
		func(ctx context.Context) (*models.MatchLineup, error) { return tx.FindLineup(ctx, l.ID) },
		tx.PutLineup, mergeUpstream[models.MatchLineup])
	if err != nil {
		return out, fmt.Errorf("failed to upsert lineup %s: %w", l.ID, err)
	}
	sets, err := tx.ReplaceLineupSets(ctx, l.ID, rec.Sets)
	if err != nil {
		return out, fmt.Errorf("failed to replace sets of lineup %s: %w", l.ID, err)
	}
	return out.Combine(sets), nil
}

// UpsertRoster writes the player, their class year for the season, the roster link and WTNs.
func (e *Engine) UpsertRoster(ctx context.Context, tx storage.Tx, rec models.RosterRecord) (storage.Outcome, error) {
	p := rec.Player
	out, err := apply(ctx, p,
		func(ctx context.Context) (*models.Player, error) { return tx.FindPlayer(ctx, p.PersonID) },
		tx.PutPlayer, mergeUpstream[models.Player])
	if err != nil {
		return out, fmt.Errorf("failed to upsert player %s: %w", p.PersonID, err)
	}

	ps := rec.Season
	child, err := apply(ctx, ps,
		func(ctx context.Context) (*models.PlayerSeason, error) {
			return tx.FindPlayerSeason(ctx, ps.PersonID, ps.SeasonID)
		},
		tx.PutPlayerSeason, mergeUpstream[models.PlayerSeason])
	if err != nil {
		return out, fmt.Errorf("failed to upsert season %s of player %s: %w", ps.SeasonID, ps.PersonID, err)
	}
	out = out.Combine(child)

	if child, err = tx.SaveRoster(ctx, rec.Roster); err != nil {
		return out, fmt.Errorf("failed to save roster entry of player %s: %w", p.PersonID, err)
	}
	out = out.Combine(child)
	for _, w := range rec.WTNs {
		if child, err = tx.SaveWTN(ctx, w); err != nil {
			return out, fmt.Errorf("failed to save %s WTN of player %s: %w", w.WTNType, p.PersonID, err)
		}
		out = out.Combine(child)
	}
	return out, nil
}

func (e *Engine) UpsertRegistration(ctx context.Context, tx storage.Tx, p models.TournamentPlayer) (storage.Outcome, error) {
	out, err := apply(ctx, p,
		func(ctx context.Context) (*models.TournamentPlayer, error) { return tx.FindTournamentPlayer(ctx, p.ID) },
		tx.PutTournamentPlayer, mergeUpstream[models.TournamentPlayer])
	if err != nil {
		return out, fmt.Errorf("failed to upsert registration %s: %w", p.ID, err)
	}
	return out, nil
}

// UpsertDraw writes a draw and every bracket match in it.
func (e *Engine) UpsertDraw(ctx context.Context, tx storage.Tx, rec models.DrawRecord) (storage.Outcome, error) {
	d := rec.Draw
	out, err := apply(ctx, d,
		func(ctx context.Context) (*models.Draw, error) { return tx.FindDraw(ctx, d.ID) },
		tx.PutDraw, mergeUpstream[models.Draw])
	if err != nil {
		return out, fmt.Errorf("failed to upsert draw %s: %w", d.ID, err)
	}
	for _, m := range rec.Matches {
		child, err := apply(ctx, m,
			func(ctx context.Context) (*models.TournamentMatch, error) { return tx.FindTournamentMatch(ctx, m.ID) },
			tx.PutTournamentMatch, mergeUpstream[models.TournamentMatch])
		if err != nil {
			return out, fmt.Errorf("failed to upsert match %s of draw %s: %w", m.ID, d.ID, err)
		}
		out = out.Combine(child)
	}
	return out, nil
}

func (e *Engine) UpsertPlayerMatch(ctx context.Context, tx storage.Tx, rec models.PlayerMatchRecord) (storage.Outcome, error) {
	m := rec.Match
	out, err := apply(ctx, m,
		func(ctx context.Context) (*models.PlayerMatch, error) { return tx.FindPlayerMatch(ctx, m.Identifier) },
		tx.PutPlayerMatch, mergeUpstream[models.PlayerMatch])
	if err != nil {
		return out, fmt.Errorf("failed to upsert player match %s: %w", m.Identifier, err)
	}
	sets, err := tx.ReplacePlayerMatchSets(ctx, m.Identifier, rec.Sets)
	if err != nil {
		return out, fmt.Errorf("failed to replace sets of player match %s: %w", m.Identifier, err)
	}
	parts, err := tx.ReplacePlayerMatchParticipants(ctx, m.Identifier, rec.Participants)
	if err != nil {
		return out, fmt.Errorf("failed to replace participants of player match %s: %w", m.Identifier, err)
	}
	return out.Combine(sets).Combine(parts), nil
}

func (e *Engine) UpsertSeason(ctx context.Context, tx storage.Tx, s models.Season) (storage.Outcome, error) {
	out, err := apply(ctx, s,
		func(ctx context.Context) (*models.Season, error) { return tx.FindSeason(ctx, s.ID) },
		tx.PutSeason, mergeUpstream[models.Season])
	if err != nil {
		return out, fmt.Errorf("failed to upsert season %s: %w", s.ID, err)
	}
	return out, nil
}

// UpsertSchool matches by school id, then by either team id exactly, then ignoring case.
func (e *Engine) UpsertSchool(ctx context.Context, tx storage.Tx, s models.SchoolInfo) (storage.Outcome, error) {
	find := func(ctx context.Context) (*models.SchoolInfo, error) {
		cur, err := tx.FindSchool(ctx, s.ID)
		if err != nil || cur != nil {
			return cur, err
		}
		for _, lookup := range []func(context.Context, string) (*models.SchoolInfo, error){
			tx.FindSchoolByTeam, tx.FindSchoolByTeamFold,
		} {
			for _, teamID := range s.TeamIDs() {
				if cur, err = lookup(ctx, teamID); err != nil || cur != nil {
					return cur, err
				}
			}
		}
		return nil, nil
	}
	out, err := apply(ctx, s, find, tx.PutSchool, mergeSchool)
	if err != nil {
		return out, fmt.Errorf("failed to upsert school %s: %w", s.ID, err)
	}
	return out, nil
}

// UpsertRankingList writes list metadata only. Stored entries are left alone.
func (e *Engine) UpsertRankingList(ctx context.Context, tx storage.Tx, l models.RankingList) (storage.Outcome, error) {
	out, err := apply(ctx, l,
		func(ctx context.Context) (*models.RankingList, error) { return tx.FindRankingList(ctx, l.ID) },
		tx.PutRankingList, mergeUpstream[models.RankingList])
	if err != nil {
		return out, fmt.Errorf("failed to upsert ranking list %s: %w", l.ID, err)
	}
	return out, nil
}

// UpsertRankings writes a list and makes its stored entries equal to the entries of its
// format. Team references are rewritten to the stored team ids; entries naming a team or
// player that is not stored are dropped.
func (e *Engine) UpsertRankings(ctx context.Context, tx storage.Tx, rec models.RankingListRecord) (storage.Outcome, error) {
	l := rec.List
	out, err := e.UpsertRankingList(ctx, tx, l)
	if err != nil {
		return out, err
	}

	r := rankingRefs{e: e, tx: tx, teams: map[string]string{}, players: map[string]bool{}}
	var (
		child   storage.Outcome
		dropped int
	)
	switch l.MatchFormat {
	case models.RankingFormatTeam:
		var rs []models.TeamRanking
		seen := map[string]bool{}
		for _, tr := range rec.Teams {
			ok, err := r.resolve(ctx, &tr.TeamID)
			if err != nil {
				return out, err
			}
			if !ok {
				dropped++
				continue
			}
			// Two upstream casings of one stored team keep the first.
			if seen[tr.TeamID] {
				continue
			}
			seen[tr.TeamID] = true
			rs = append(rs, tr)
		}
		child, err = tx.ReplaceTeamRankings(ctx, l.ID, rs)
	case models.RankingFormatSingles:
		var rs []models.PlayerRanking
		for _, pr := range rec.Singles {
			ok, err := r.resolve(ctx, &pr.TeamID, pr.PlayerID)
			if err != nil {
				return out, err
			}
			if !ok {
				dropped++
				continue
			}
			rs = append(rs, pr)
		}
		child, err = tx.ReplacePlayerRankings(ctx, l.ID, rs)
	case models.RankingFormatDoubles:
		var rs []models.DoublesRanking
		for _, dr := range rec.Doubles {
			ok, err := r.resolve(ctx, &dr.TeamID, dr.Player1ID, dr.Player2ID)
			if err != nil {
				return out, err
			}
			if !ok {
				dropped++
				continue
			}
			rs = append(rs, dr)
		}
		child, err = tx.ReplaceDoublesRankings(ctx, l.ID, rs)
	default:
		return out, fmt.Errorf("ranking list %s: unknown match format %q", l.ID, l.MatchFormat)
	}
	if err != nil {
		return out, fmt.Errorf("failed to replace entries of ranking list %s: %w", l.ID, err)
	}
	if dropped > 0 {
		slog.Warn("Dropped ranking entries with unknown team or player", "list", l.ID, "dropped", dropped)
	}
	return out.Combine(child), nil
}

// rankingRefs memoizes team and player lookups for one list.
type rankingRefs struct {
	e       *Engine
	tx      storage.Tx
	teams   map[string]string
	players map[string]bool
}

// resolve rewrites *teamID to the stored team id and reports whether the team and every
// player are stored.
func (r *rankingRefs) resolve(ctx context.Context, teamID *string, personIDs ...string) (bool, error) {
	stored, ok := r.teams[*teamID]
	if !ok {
		t, err := r.e.resolveTeam(ctx, r.tx, *teamID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve team %s: %w", *teamID, err)
		}
		if t != nil {
			stored = t.ID
			r.e.rememberTeam(ctx, *teamID, stored)
		}
		r.teams[*teamID] = stored
	}
	if stored == "" {
		return false, nil
	}
	*teamID = stored
	for _, id := range personIDs {
		known, ok := r.players[id]
		if !ok {
			p, err := r.tx.FindPlayer(ctx, id)
			if err != nil {
				return false, fmt.Errorf("failed to find player %s: %w", id, err)
			}
			known = p != nil
			r.players[id] = known
		}
		if !known {
			return false, nil
		}
	}
	return true, nil
}
