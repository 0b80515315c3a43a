package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Vodeneev/collegetennis/internal/collector/mapper"
	"github.com/Vodeneev/collegetennis/internal/collector/pager"
	"github.com/Vodeneev/collegetennis/internal/collector/scraper"
	"github.com/Vodeneev/collegetennis/internal/collector/transport"
	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

var (
	ErrNoActiveSeason    = errors.New("no active season")
	ErrUnknownTournament = errors.New("unknown tournament")
)

// Seasons refreshes the season list.
func (o *Orchestrator) Seasons(ctx context.Context, stats *performance.RunStats) error {
	fetch := func(ctx context.Context, offset, _ int) (pager.Page, error) {
		if offset > 0 {
			return pager.Page{}, nil
		}
		data, err := o.client.Do(ctx, transport.Request{
			URL:           o.cfg.Provider.MeshURL,
			OperationName: "listSeasons",
			Query:         seasonsQuery,
		})
		if err != nil {
			return pager.Page{}, err
		}
		items, err := field[[]json.RawMessage](data, "listSeasons")
		if err != nil {
			return pager.Page{}, err
		}
		return pager.Page{Total: len(items), Items: items}, nil
	}
	return RunPages(ctx, o, stats, PageSpec[mapper.RawSeason, models.Season]{
		Fetch:  fetch,
		Map:    one(mapper.Season),
		Upsert: o.engine.UpsertSeason,
	})
}

// DualMatches collects completed then upcoming dual matches inside the sync window, together
// with the lineups of every committed match.
func (o *Orchestrator) DualMatches(ctx context.Context, stats *performance.RunStats) error {
	from, to := o.window()
	for _, completed := range []bool{true, false} {
		err := RunPages(ctx, o, stats, PageSpec[mapper.RawDualMatch, models.DualMatchRecord]{
			Fetch:  o.dualMatchPage(completed),
			Map:    one(mapper.DualMatch),
			Upsert: o.engine.UpsertDualMatch,
			Filter: startedWithin(from, to),
			AfterCommit: func(ctx context.Context, recs []models.DualMatchRecord) error {
				return o.lineups(ctx, stats, recs)
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) dualMatchPage(completed bool) pager.Fetcher {
	return func(ctx context.Context, offset, limit int) (pager.Page, error) {
		data, err := o.client.Do(ctx, transport.Request{
			URL:           o.cfg.Provider.GraphQLURL,
			OperationName: "dualMatchesPaginated",
			Query:         dualMatchesQuery,
			Variables:     dualMatchesVars(offset, limit, o.cfg.Sync.SeasonStarting, o.cfg.Sync.Divisions, completed),
		})
		if err != nil {
			return pager.Page{}, err
		}
		conn, err := field[connection](data, "dualMatchesPaginated")
		if err != nil {
			return pager.Page{}, err
		}
		return pager.Page{Total: conn.TotalItems, Items: conn.Items}, nil
	}
}

// startedWithin keeps matches starting in [from, to]. Pages arrive newest first, so the first
// match before from ends the walk.
func startedWithin(from, to time.Time) func(models.DualMatchRecord) (bool, bool) {
	return func(rec models.DualMatchRecord) (bool, bool) {
		start := rec.Match.StartDate
		switch {
		case start == nil:
			return true, false
		case start.After(to):
			return false, false
		case start.Before(from):
			return false, true
		}
		return true, false
	}
}

func (o *Orchestrator) lineups(ctx context.Context, stats *performance.RunStats, recs []models.DualMatchRecord) error {
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.Match.ID)
	}
	return RunEach(ctx, o, stats, ids, EachSpec[string, models.LineupRecord]{
		Fetch: func(ctx context.Context, id string) ([]models.LineupRecord, []error, error) {
			data, err := o.client.Do(ctx, transport.Request{
				URL:           o.cfg.Provider.GraphQLURL,
				OperationName: "dualMatch",
				Query:         dualMatchQuery,
				Variables:     map[string]any{"id": id},
			})
			if err != nil {
				return nil, nil, err
			}
			raw, err := field[mapper.RawDualMatchDetail](data, "dualMatch")
			if err != nil {
				return nil, nil, err
			}
			recs, errs := mapper.Lineups(id, raw)
			return recs, errs, nil
		},
		Upsert: o.engine.UpsertLineup,
		Name:   func(id string) string { return id },
	})
}

// activeSeason returns the latest season whose status is active.
func activeSeason(ctx context.Context, tx storage.Tx) (models.Season, error) {
	seasons, err := tx.Seasons(ctx)
	if err != nil {
		return models.Season{}, err
	}
	for i := len(seasons) - 1; i >= 0; i-- {
		if seasons[i].Active() {
			return seasons[i], nil
		}
	}
	return models.Season{}, ErrNoActiveSeason
}

type rosterKey struct {
	schoolID string
	teamID   string
}

// Rosters collects the active season roster of every known school team.
func (o *Orchestrator) Rosters(ctx context.Context, stats *performance.RunStats) error {
	var (
		season models.Season
		keys   []rosterKey
	)
	err := o.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		if season, err = activeSeason(ctx, tx); err != nil {
			return err
		}
		schools, err := tx.Schools(ctx)
		if err != nil {
			return err
		}
		for _, s := range schools {
			for _, id := range s.TeamIDs() {
				keys = append(keys, rosterKey{schoolID: s.ID, teamID: id})
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return RunEach(ctx, o, stats, keys, EachSpec[rosterKey, models.RosterRecord]{
		Fetch: func(ctx context.Context, k rosterKey) ([]models.RosterRecord, []error, error) {
			data, err := o.client.Do(ctx, transport.Request{
				URL:           o.cfg.Provider.MeshURL,
				OperationName: "getRosterMembers",
				Query:         rosterQuery,
				Variables:     map[string]any{"rosterId": k.teamID, "role": "PLAYER", "seasonId": season.ID},
			})
			if err != nil {
				return nil, nil, err
			}
			members, err := field[[]mapper.RawRosterMember](data, "getRosterMembers")
			if err != nil {
				return nil, nil, err
			}
			recs, errs := mapper.Roster(k.schoolID, k.teamID, season.ID, members)
			return recs, errs, nil
		},
		Upsert: o.engine.UpsertRoster,
		Name:   func(k rosterKey) string { return k.teamID },
	})
}

// Tournaments searches tournaments inside the sync window.
func (o *Orchestrator) Tournaments(ctx context.Context, stats *performance.RunStats) error {
	from, to := o.window()
	fetch := func(ctx context.Context, offset, limit int) (pager.Page, error) {
		body, err := o.client.PostJSON(ctx, "tournamentSearch", o.cfg.Provider.SearchURL, tournamentSearch(from, to, offset, limit))
		if err != nil {
			return pager.Page{}, err
		}
		var resp mapper.RawSearchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return pager.Page{}, fmt.Errorf("failed to decode tournament search: %w", err)
		}
		items := make([]json.RawMessage, 0, len(resp.SearchResults))
		for _, r := range resp.SearchResults {
			items = append(items, r.Item)
		}
		return pager.Page{Total: resp.Total, Items: items}, nil
	}
	return RunPages(ctx, o, stats, PageSpec[mapper.RawTournament, models.TournamentRecord]{
		Fetch:  fetch,
		Map:    one(mapper.Tournament),
		Upsert: o.engine.UpsertTournament,
	})
}

// Registrations collects the registered players of every tournament in the sync window.
func (o *Orchestrator) Registrations(ctx context.Context, stats *performance.RunStats) error {
	from, to := o.window()
	var ids []string
	err := o.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		ids, err = tx.TournamentIDsBetween(ctx, from, to)
		return err
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := o.registrations(ctx, stats, id); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) registrations(ctx context.Context, stats *performance.RunStats, tournamentID string) error {
	fetch := func(ctx context.Context, offset, limit int) (pager.Page, error) {
		data, err := o.client.Do(ctx, transport.Request{
			URL:           o.cfg.Provider.TournamentsURL,
			OperationName: "GetPlayers",
			Query:         registrationsQuery,
			Variables:     registrationsVars(strings.ToUpper(tournamentID), offset, limit),
		})
		if err != nil {
			return pager.Page{}, err
		}
		conn, err := field[connection](data, "paginatedPublicTournamentRegistrations")
		if err != nil {
			return pager.Page{}, err
		}
		return pager.Page{Total: conn.TotalItems, Items: conn.Items}, nil
	}
	return RunPages(ctx, o, stats, PageSpec[mapper.RawRegistration, models.TournamentPlayer]{
		Fetch: fetch,
		Map: one(func(raw mapper.RawRegistration) (models.TournamentPlayer, error) {
			return mapper.Registration(tournamentID, raw)
		}),
		Upsert: o.engine.UpsertRegistration,
	})
}

// Draws collects the draws of every stored event of tournaments in the sync window.
func (o *Orchestrator) Draws(ctx context.Context, stats *performance.RunStats) error {
	from, to := o.window()
	var events []models.TournamentEvent
	err := o.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		events, err = tx.TournamentEventsBetween(ctx, from, to)
		return err
	})
	if err != nil {
		return err
	}
	return o.draws(ctx, stats, events)
}

func (o *Orchestrator) draws(ctx context.Context, stats *performance.RunStats, events []models.TournamentEvent) error {
	return RunEach(ctx, o, stats, events, EachSpec[models.TournamentEvent, models.DrawRecord]{
		Fetch: func(ctx context.Context, e models.TournamentEvent) ([]models.DrawRecord, []error, error) {
			data, err := o.client.Do(ctx, transport.Request{
				URL:           o.cfg.Provider.EventDataURL,
				OperationName: "TournamentPublicEventData",
				Query:         eventDataQuery,
				Variables: map[string]any{
					"eventId":      strings.ToUpper(e.ID),
					"tournamentId": strings.ToUpper(e.TournamentID),
				},
			})
			if err != nil {
				return nil, nil, err
			}
			payload, err := field[json.RawMessage](data, "tournamentPublicEventData")
			if err != nil {
				return nil, nil, err
			}
			raw, err := embeddedJSON[mapper.RawEventData](payload)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to decode event data: %w", err)
			}
			recs, errs := mapper.EventDraws(e.TournamentID, e.ID, raw)
			return recs, errs, nil
		},
		Upsert: o.engine.UpsertDraw,
		Name:   func(e models.TournamentEvent) string { return e.ID },
	})
}

// PlayerMatches collects the finished matches of every player rostered in the active season.
func (o *Orchestrator) PlayerMatches(ctx context.Context, stats *performance.RunStats) error {
	from, to := o.window()
	var people []string
	err := o.store.WithTx(ctx, func(tx storage.Tx) error {
		season, err := activeSeason(ctx, tx)
		if err != nil {
			return err
		}
		people, err = tx.RosteredPlayers(ctx, season.ID)
		return err
	})
	if err != nil {
		return err
	}

	return RunEach(ctx, o, stats, people, EachSpec[string, models.PlayerMatchRecord]{
		Fetch: func(ctx context.Context, personID string) ([]models.PlayerMatchRecord, []error, error) {
			data, err := o.client.Do(ctx, transport.Request{
				URL:           o.cfg.Provider.MeshURL,
				OperationName: "matchUps",
				Query:         playerMatchesQuery,
				Variables:     playerMatchesVars(personID, from, to),
			})
			if err != nil {
				return nil, nil, err
			}
			conn, err := field[connection](data, "td_matchUps")
			if err != nil {
				return nil, nil, err
			}
			recs, errs := decodeAll(conn.Items, mapper.PlayerMatch)
			return recs, errs, nil
		},
		Upsert: o.engine.UpsertPlayerMatch,
		Name:   func(id string) string { return id },
	})
}

// Schools resolves the school of every team that has none by scraping the team page for the
// school id and then querying the school.
func (o *Orchestrator) Schools(ctx context.Context, stats *performance.RunStats) error {
	var teams []models.Team
	err := o.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		teams, err = tx.TeamsWithoutSchool(ctx)
		return err
	})
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	return RunEach(ctx, o, stats, teams, EachSpec[models.Team, models.SchoolInfo]{
		Fetch: func(ctx context.Context, t models.Team) ([]models.SchoolInfo, []error, error) {
			id, err := o.scraper.SchoolID(ctx, t.Name)
			if errors.Is(err, scraper.ErrNotFound) {
				return nil, []error{err}, nil
			}
			if err != nil {
				return nil, nil, err
			}
			if seen[id] {
				slog.Debug("School already collected in this run", "team", t.Name, "school_id", id)
				return nil, nil, nil
			}
			seen[id] = true

			data, err := o.client.Do(ctx, transport.Request{
				URL:           o.cfg.Provider.MeshURL,
				OperationName: "school",
				Query:         schoolQuery(id),
			})
			if err != nil {
				return nil, nil, err
			}
			raw, err := field[mapper.RawSchool](data, "school")
			if err != nil {
				return nil, nil, err
			}
			s, err := mapper.School(raw)
			if err != nil {
				return nil, []error{err}, nil
			}
			return []models.SchoolInfo{s}, nil, nil
		},
		Upsert: o.engine.UpsertSchool,
		Name:   func(t models.Team) string { return t.Name },
	})
}

// Tournament re-collects registrations and draws of one stored tournament.
func (o *Orchestrator) Tournament(ctx context.Context, stats *performance.RunStats, id string) error {
	id = strings.ToLower(strings.TrimSpace(id))
	var events []models.TournamentEvent
	err := o.store.WithTx(ctx, func(tx storage.Tx) error {
		t, err := tx.FindTournament(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: %s", ErrUnknownTournament, id)
		}
		events, err = tx.TournamentEvents(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if err := o.registrations(ctx, stats, id); err != nil {
		return err
	}
	return o.draws(ctx, stats, events)
}

// TournamentsInWindow runs Tournament for every tournament in the sync window.
func (o *Orchestrator) TournamentsInWindow(ctx context.Context, stats *performance.RunStats) error {
	from, to := o.window()
	var ids []string
	err := o.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		ids, err = tx.TournamentIDsBetween(ctx, from, to)
		return err
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := o.Tournament(ctx, stats, id); err != nil {
			return err
		}
	}
	return nil
}
