package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

// ErrUnavailable means the store cannot be reached. Runs treat it as fatal.
var ErrUnavailable = errors.New("store unavailable")

// Outcome reports what a write did to the stored row set.
type Outcome int

const (
	Unchanged Outcome = iota
	Inserted
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// Combine folds a child outcome into a parent one: any insert or update marks the parent updated.
func (o Outcome) Combine(child Outcome) Outcome {
	if o == Unchanged && child != Unchanged {
		return Updated
	}
	return o
}

// Store is the relational store. All reads and writes happen inside WithTx.
type Store interface {
	// WithTx runs fn in one transaction, committing on nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Tx is the set of operations available inside one transaction.
// Find* return (nil, nil) when the row does not exist.
type Tx interface {
	TournamentTx
	MatchTx
	TeamTx
	PlayerTx
	RankingTx
	ReconcileTx
}

type TournamentTx interface {
	FindTournament(ctx context.Context, id string) (*models.Tournament, error)
	PutTournament(ctx context.Context, t models.Tournament) error
	// ReplaceTournamentEvents makes the stored event set equal to events.
	ReplaceTournamentEvents(ctx context.Context, tournamentID string, events []models.TournamentEvent) (Outcome, error)

	FindTournamentPlayer(ctx context.Context, id string) (*models.TournamentPlayer, error)
	PutTournamentPlayer(ctx context.Context, p models.TournamentPlayer) error

	FindDraw(ctx context.Context, id string) (*models.Draw, error)
	PutDraw(ctx context.Context, d models.Draw) error
	FindTournamentMatch(ctx context.Context, id string) (*models.TournamentMatch, error)
	PutTournamentMatch(ctx context.Context, m models.TournamentMatch) error

	// TournamentIDsBetween lists tournaments starting in [from, to].
	TournamentIDsBetween(ctx context.Context, from, to time.Time) ([]string, error)
	TournamentEventsBetween(ctx context.Context, from, to time.Time) ([]models.TournamentEvent, error)
	TournamentEvents(ctx context.Context, tournamentID string) ([]models.TournamentEvent, error)
}

type MatchTx interface {
	FindMatch(ctx context.Context, id string) (*models.Match, error)
	PutMatch(ctx context.Context, m models.Match) error
	SaveMatchTeam(ctx context.Context, mt models.MatchTeam) (Outcome, error)
	SaveWebLink(ctx context.Context, wl models.WebLink) (Outcome, error)

	FindLineup(ctx context.Context, id string) (*models.MatchLineup, error)
	PutLineup(ctx context.Context, l models.MatchLineup) error
	ReplaceLineupSets(ctx context.Context, lineupID string, sets []models.MatchLineupSet) (Outcome, error)

	FindPlayerMatch(ctx context.Context, identifier string) (*models.PlayerMatch, error)
	PutPlayerMatch(ctx context.Context, m models.PlayerMatch) error
	ReplacePlayerMatchSets(ctx context.Context, identifier string, sets []models.PlayerMatchSet) (Outcome, error)
	ReplacePlayerMatchParticipants(ctx context.Context, identifier string, ps []models.PlayerMatchParticipant) (Outcome, error)
}

type TeamTx interface {
	FindTeam(ctx context.Context, id string) (*models.Team, error)
	// FindTeamFold looks a team up ignoring id case.
	FindTeamFold(ctx context.Context, id string) (*models.Team, error)
	PutTeam(ctx context.Context, t models.Team) error

	FindSchool(ctx context.Context, id string) (*models.SchoolInfo, error)
	// FindSchoolByTeam finds the school whose man_id or woman_id equals teamID exactly.
	FindSchoolByTeam(ctx context.Context, teamID string) (*models.SchoolInfo, error)
	// FindSchoolByTeamFold finds the school whose man_id or woman_id equals teamID ignoring case.
	FindSchoolByTeamFold(ctx context.Context, teamID string) (*models.SchoolInfo, error)
	PutSchool(ctx context.Context, s models.SchoolInfo) error
	Schools(ctx context.Context) ([]models.SchoolInfo, error)
	TeamsWithoutSchool(ctx context.Context) ([]models.Team, error)
}

type PlayerTx interface {
	FindPlayer(ctx context.Context, personID string) (*models.Player, error)
	PutPlayer(ctx context.Context, p models.Player) error
	FindPlayerSeason(ctx context.Context, personID, seasonID string) (*models.PlayerSeason, error)
	PutPlayerSeason(ctx context.Context, ps models.PlayerSeason) error
	SaveRoster(ctx context.Context, r models.PlayerRoster) (Outcome, error)
	SaveWTN(ctx context.Context, w models.PlayerWTN) (Outcome, error)

	FindSeason(ctx context.Context, id string) (*models.Season, error)
	PutSeason(ctx context.Context, s models.Season) error
	Seasons(ctx context.Context) ([]models.Season, error)
	// RosteredPlayers lists person ids rostered in a season.
	RosteredPlayers(ctx context.Context, seasonID string) ([]string, error)
}

type RankingTx interface {
	FindRankingList(ctx context.Context, id string) (*models.RankingList, error)
	PutRankingList(ctx context.Context, l models.RankingList) error
	// HasRankings reports whether any entry of any format is stored for the list.
	HasRankings(ctx context.Context, listID string) (bool, error)
	ReplaceTeamRankings(ctx context.Context, listID string, rs []models.TeamRanking) (Outcome, error)
	ReplacePlayerRankings(ctx context.Context, listID string, rs []models.PlayerRanking) (Outcome, error)
	ReplaceDoublesRankings(ctx context.Context, listID string, rs []models.DoublesRanking) (Outcome, error)
}

// ReconcileTx holds the keyset-paged scans and narrow updates used by reconciliation.
// Scans return rows with key > after, ordered by key, at most limit rows.
type ReconcileTx interface {
	MatchesMissingTeams(ctx context.Context, after string, limit int) ([]models.Match, error)
	// MatchTeams returns a match's team rows ordered by side number, nulls last.
	MatchTeams(ctx context.Context, matchID string) ([]models.MatchTeam, error)
	// FillMatchTeams sets home/away only where they are currently null.
	FillMatchTeams(ctx context.Context, matchID string, home, away *string) error

	LineupsMissingSideNames(ctx context.Context, after string, limit int) ([]models.MatchLineup, error)
	// FillLineupSideName sets side1_name or side2_name only if it is currently null.
	FillLineupSideName(ctx context.Context, lineupID string, side int, name string) error

	PlayerSeasonsIn(ctx context.Context, seasonID, after string, limit int) ([]models.PlayerSeason, error)
	PlayerSeasonsOf(ctx context.Context, personID string) ([]models.PlayerSeason, error)
	SetPlayerClassYear(ctx context.Context, personID, seasonID, classYear string) error

	TeamsMissingAttributes(ctx context.Context, after string, limit int) ([]models.Team, error)
	// FillTeamAttributes sets conference/region only where they are currently null.
	FillTeamAttributes(ctx context.Context, teamID string, conference, region *string) error
}
