package models

import "time"

const SeasonStatusActive = "ACTIVE"

type Season struct {
	ID        string
	Name      string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s Season) Active() bool {
	return s.Status == SeasonStatusActive
}

type Player struct {
	PersonID  string
	TennisID  *string
	FirstName *string
	LastName  *string
	AvatarURL *string
}

// PlayerSeason carries the class year label a player held in one season.
type PlayerSeason struct {
	PersonID  string
	SeasonID  string
	ClassYear *string
}

type PlayerRoster struct {
	PersonID string
	SeasonID string
	TeamID   string
	SchoolID *string
	Active   bool
}

type PlayerWTN struct {
	PersonID     string
	SeasonID     string
	WTNType      string
	Confidence   *int
	TennisNumber *float64
	IsRanked     bool
}

// RosterRecord is one roster member of a team for a season.
type RosterRecord struct {
	Player Player
	Season PlayerSeason
	Roster PlayerRoster
	WTNs   []PlayerWTN
}
