package mapper

import (
	"fmt"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

const matchTypeDoubles = "DOUBLES"

// Lineups maps the tie match-ups of a dual match. Tie match-ups that cannot be mapped are
// reported individually and skipped.
func Lineups(matchID string, raw RawDualMatchDetail) ([]models.LineupRecord, []error) {
	var (
		out  []models.LineupRecord
		errs []error
	)
	for _, tm := range raw.TieMatchUps {
		rec, err := lineup(matchID, tm, raw.Teams)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, rec)
	}
	return out, errs
}

func lineup(matchID string, tm RawTieMatch, teams []RawTeam) (models.LineupRecord, error) {
	id := val(tm.ID)
	if id == "" {
		return models.LineupRecord{}, missing("lineup", "id", matchID)
	}
	for n, side := range []*RawSide{tm.Side1, tm.Side2} {
		prefix := fmt.Sprintf("side%d", n+1)
		switch {
		case side == nil:
			return models.LineupRecord{}, missing("lineup", prefix, id)
		case side.Score == nil || val(side.Score.ScoreString) == "":
			return models.LineupRecord{}, missing("lineup", prefix+".score.scoreString", id)
		case len(side.Participants) == 0:
			return models.LineupRecord{}, missing("lineup", prefix+".participants", id)
		case val(side.Participants[0].PersonID) == "":
			return models.LineupRecord{}, missing("lineup", prefix+".participants[0].personId", id)
		}
	}

	matchType := upper(tm.Type)
	l := models.MatchLineup{
		ID:             id,
		MatchID:        matchID,
		MatchType:      matchType,
		Position:       tm.CollectionPosition,
		CollectionID:   str(tm.CollectionID),
		Side1Player1ID: str(tm.Side1.Participants[0].PersonID),
		Side2Player1ID: str(tm.Side2.Participants[0].PersonID),
		Side1Score:     str(tm.Side1.Score.ScoreString),
		Side2Score:     str(tm.Side2.Score.ScoreString),
		Side1Won:       boolVal(tm.Side1.DidWin),
		Side2Won:       boolVal(tm.Side2.DidWin),
		Side1Name:      sideName(tm.Side1, 1, teams),
		Side2Name:      sideName(tm.Side2, 2, teams),
	}
	if matchType != nil && *matchType == matchTypeDoubles {
		if len(tm.Side1.Participants) > 1 {
			l.Side1Player2ID = str(tm.Side1.Participants[1].PersonID)
		}
		if len(tm.Side2.Participants) > 1 {
			l.Side2Player2ID = str(tm.Side2.Participants[1].PersonID)
		}
	}

	return models.LineupRecord{Lineup: l, Sets: lineupSets(id, tm.Side1.Score.Sets, tm.Side2.Score.Sets)}, nil
}

// sideName is the side's team abbreviation, else the abbreviation of the team playing that side.
func sideName(side *RawSide, number int, teams []RawTeam) *string {
	if v := str(side.TeamAbbreviation); v != nil {
		return v
	}
	for _, t := range teams {
		if t.SideNumber != nil && *t.SideNumber == number {
			return str(t.Abbreviation)
		}
	}
	return nil
}

// lineupSets pairs the sides' sets by index. A set count mismatch yields no sets at all.
func lineupSets(lineupID string, side1, side2 []RawSideSet) []models.MatchLineupSet {
	if len(side1) == 0 || len(side1) != len(side2) {
		return nil
	}
	var sets []models.MatchLineupSet
	for i := range side1 {
		a, b := side1[i], side2[i]
		if a.SetScore == nil || b.SetScore == nil {
			continue
		}
		sets = append(sets, models.MatchLineupSet{
			LineupID:      lineupID,
			SetNumber:     i + 1,
			Side1Score:    int(*a.SetScore),
			Side2Score:    int(*b.SetScore),
			Side1Tiebreak: flexPtr(a.TiebreakScore),
			Side2Tiebreak: flexPtr(b.TiebreakScore),
			Side1Won:      boolVal(a.DidWin),
		})
	}
	return sets
}

func flexPtr(f *FlexInt) *int {
	if f == nil {
		return nil
	}
	return ptr(int(*f))
}
