package models

import "time"

const (
	TeamPositionHome = "home"
	TeamPositionAway = "away"
)

// Match is a dual (team vs team) match. Home/away may be nil until reconciliation runs.
type Match struct {
	ID                string
	StartDate         *time.Time
	TimeZone          *string
	NoScheduledTime   bool
	IsConferenceMatch bool
	Gender            *string
	HomeTeamID        *string
	AwayTeamID        *string
	Season            *string
	SideNumbers       int
	Completed         bool
	ScheduledTime     *time.Time
}

// MatchTeam records one team's participation in a match.
type MatchTeam struct {
	MatchID      string
	TeamID       string
	Score        *float64
	DidWin       *bool
	SideNumber   *int
	IsHomeTeam   bool
	TeamPosition string
}

type WebLink struct {
	MatchID string
	URL     string
	Name    *string
}

// DualMatchRecord is everything one upstream dual match maps onto.
type DualMatchRecord struct {
	Match      Match
	Teams      []Team
	MatchTeams []MatchTeam
	WebLinks   []WebLink
}

// MatchLineup is one singles/doubles line of a dual match, keyed by the tie match-up id.
type MatchLineup struct {
	ID             string
	MatchID        string
	MatchType      *string
	Position       *int
	CollectionID   *string
	Side1Player1ID *string
	Side1Player2ID *string
	Side2Player1ID *string
	Side2Player2ID *string
	Side1Score     *string
	Side2Score     *string
	Side1Won       bool
	Side2Won       bool
	Side1Name      *string
	Side2Name      *string
}

// SideName returns the display name stored for side 1 or 2.
func (l MatchLineup) SideName(side int) *string {
	if side == 1 {
		return l.Side1Name
	}
	return l.Side2Name
}

type MatchLineupSet struct {
	LineupID      string
	SetNumber     int
	Side1Score    int
	Side2Score    int
	Side1Tiebreak *int
	Side2Tiebreak *int
	Side1Won      bool
}

type LineupRecord struct {
	Lineup MatchLineup
	Sets   []MatchLineupSet
}

// MatchSource classifies a player match by where it was played.
type MatchSource string

const (
	SourceTournament MatchSource = "TOURNAMENT"
	SourceDual       MatchSource = "DUAL"
	SourceUnknown    MatchSource = "UNKNOWN"
)

// PlayerMatch is a player's match-up history entry keyed by a composite identifier.
type PlayerMatch struct {
	Identifier         string
	WinningSide        *int
	Start              *time.Time
	End                *time.Time
	MatchType          *string
	Format             *string
	Status             *string
	RoundName          *string
	CollectionPosition *int
	TournamentID       *string
	ScoreString        *string
	Source             MatchSource
	DualMatchID        *string
}

type PlayerMatchSet struct {
	MatchIdentifier      string
	SetNumber            int
	WinnerGamesWon       *int
	LoserGamesWon        *int
	WinRatio             *float64
	TiebreakWinnerPoints *int
	TiebreakLoserPoints  *int
}

type PlayerMatchParticipant struct {
	MatchIdentifier string
	PersonID        string
	TeamID          *string
	SideNumber      int
	FamilyName      *string
	GivenName       *string
	IsWinner        bool
}

type PlayerMatchRecord struct {
	Match        PlayerMatch
	Sets         []PlayerMatchSet
	Participants []PlayerMatchParticipant
}
