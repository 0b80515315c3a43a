package models

import "time"

const (
	RankingFormatTeam    = "TEAM"
	RankingFormatSingles = "SINGLES"
	RankingFormatDoubles = "DOUBLES"
)

// RankingList is one published standing. MatchFormat says which entry set it carries.
type RankingList struct {
	ID                 string
	DivisionType       string
	Gender             string
	MatchFormat        string
	PublishDate        *time.Time
	PlannedPublishDate *time.Time
	DateRangeStart     *time.Time
	DateRangeEnd       *time.Time
	CreatedAt          *time.Time
}

type TeamRanking struct {
	RankingListID string
	TeamID        string
	Rank          int
	Points        *float64
	Wins          *int
	Losses        *int
	TeamName      string
	Conference    *string
}

type PlayerRanking struct {
	RankingListID string
	PlayerID      string
	TeamID        string
	Rank          int
	Points        *float64
	Wins          *int
	Losses        *int
	PlayerName    string
	TeamName      string
	Conference    *string
}

// DoublesRanking ranks a pair. Player1ID sorts before Player2ID.
type DoublesRanking struct {
	RankingListID string
	TeamID        string
	Player1ID     string
	Player2ID     string
	Rank          int
	Points        *float64
	Wins          *int
	Losses        *int
	Player1Name   string
	Player2Name   string
	TeamName      string
	Conference    *string
}

// RankingListRecord is a list with the entries of its format.
type RankingListRecord struct {
	List    RankingList
	Teams   []TeamRanking
	Singles []PlayerRanking
	Doubles []DoublesRanking
}
