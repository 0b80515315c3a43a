package models

import "time"

// Registration status of a tournament, derived from the upstream entry window.
const (
	RegistrationUpcoming = "UPCOMING"
	RegistrationOpen     = "OPEN"
	RegistrationClosed   = "CLOSED"
)

const TournamentTypeTournament = "TOURNAMENT"

// Tournament is keyed by the upstream tournament id, stored lower-cased.
type Tournament struct {
	ID                 string
	IdentificationCode *string
	Name               string
	Image              *string
	IsCancelled        bool
	StartDateTime      *time.Time
	EndDateTime        *time.Time
	TimeZone           *string
	URL                *string
	RootProviderID     *string

	LocationID   *string
	LocationName *string
	Town         *string
	County       *string
	Address      *string
	Postcode     *string
	Latitude     *float64
	Longitude    *float64

	LevelID       *string
	LevelName     *string
	LevelCategory *string

	OrganizationID         *string
	OrganizationName       *string
	OrganizationConference *string
	OrganizationDivision   *string

	EntriesOpen        *time.Time
	EntriesClose       *time.Time
	RegistrationStatus string

	IsDualMatch    bool
	TournamentType string
	Gender         *string
	EventTypes     *string
}

// TournamentEvent is owned by its tournament and replaced wholesale on every sync.
type TournamentEvent struct {
	ID           string
	TournamentID string
	Gender       *string
	EventType    *string
}

type TournamentRecord struct {
	Tournament Tournament
	Events     []TournamentEvent
}

// TournamentPlayer is a registration; ID is "<tournamentID>_<playerID>".
type TournamentPlayer struct {
	ID                  string
	TournamentID        string
	PlayerID            string
	FirstName           *string
	LastName            *string
	PlayerName          *string
	Gender              *string
	City                *string
	State               *string
	EventsParticipating string
	SinglesEventID      *string
	DoublesEventID      *string
	Player2ID           *string
	Player2FirstName    *string
	Player2LastName     *string
}

// Draw is a bracket for one tournament event.
type Draw struct {
	ID            string
	TournamentID  string
	EventID       string
	Name          *string
	DrawType      *string
	Size          int
	EventType     string
	Gender        string
	Active        bool
	Completed     bool
	MatchUpFormat *string
	UpdatedAtAPI  *string
}

// MatchSide is one participant slot of a bracket match.
type MatchSide struct {
	ParticipantID   *string
	ParticipantName *string
	Player1ID       *string
	Player2ID       *string
	SchoolID        *string
	SchoolName      *string
	Seed            *int
	DrawPosition    *int
}

// TournamentMatch is a bracket match-up keyed by its match-up id.
type TournamentMatch struct {
	ID            string
	DrawID        string
	TournamentID  string
	EventID       string
	RoundName     *string
	RoundNumber   int
	RoundPosition int
	MatchType     *string
	Format        *string
	Status        *string
	Stage         *string
	StructureName *string
	WinningSide   *int
	ScheduledDate *string
	ScheduledTime *string
	VenueName     *string
	ScoreSide1    *string
	ScoreSide2    *string
	Side1         MatchSide
	Side2         MatchSide
	WinnerID      *string
}

type DrawRecord struct {
	Draw    Draw
	Matches []TournamentMatch
}
