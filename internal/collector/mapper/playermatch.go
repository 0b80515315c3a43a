package mapper

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

var tournamentRound = regexp.MustCompile(`^R\d+`)

// ClassifySource guesses whether a match-up was played in a tournament bracket or a dual match.
// Bracket rounds are named R64, R32 and so on; dual match lines carry a collection position.
func ClassifySource(roundName *string, collectionPosition *int) models.MatchSource {
	switch {
	case tournamentRound.MatchString(val(roundName)):
		return models.SourceTournament
	case collectionPosition != nil:
		return models.SourceDual
	}
	return models.SourceUnknown
}

// PlayerMatch maps one entry of a player's match-up history.
func PlayerMatch(raw RawPlayerMatch) (models.PlayerMatchRecord, error) {
	start := val(raw.Start)
	if start == "" {
		return models.PlayerMatchRecord{}, missing("player match", "start", "")
	}
	matchType := NormalizeEventType(val(raw.Type))
	if matchType == "" {
		return models.PlayerMatchRecord{}, missing("player match", "type", start)
	}
	var tournamentID string
	if raw.Tournament != nil {
		tournamentID = val(raw.Tournament.ProviderTournamentID)
	}

	var playerIDs []string
	for _, side := range raw.Sides {
		for _, pl := range side.Players {
			if pl.Person != nil {
				if id := val(pl.Person.ExternalID); id != "" {
					playerIDs = append(playerIDs, id)
				}
			}
		}
	}
	if len(playerIDs) == 0 {
		return models.PlayerMatchRecord{}, missing("player match", "sides.players.person.externalID", start)
	}
	slices.Sort(playerIDs)

	date, _, _ := strings.Cut(start, "T")
	identifier := strings.Join([]string{date, tournamentID, strings.Join(playerIDs, "-"), matchType}, "-")

	m := models.PlayerMatch{
		Identifier:         identifier,
		WinningSide:        raw.WinningSide,
		Start:              parseTime(raw.Start),
		End:                parseTime(raw.End),
		MatchType:          ptr(matchType),
		Format:             str(raw.MatchUpFormat),
		Status:             upper(raw.Status),
		RoundName:          str(raw.RoundName),
		CollectionPosition: raw.CollectionPosition,
		TournamentID:       str(&tournamentID),
		Source:             ClassifySource(raw.RoundName, raw.CollectionPosition),
		DualMatchID:        extension(raw.Extensions, "dualMatchId", "tieMatchUpId"),
	}

	rec := models.PlayerMatchRecord{Match: m}
	if raw.Score != nil {
		rec.Match.ScoreString = str(raw.Score.ScoreString)
		for i, s := range raw.Score.Sets {
			set := models.PlayerMatchSet{
				MatchIdentifier: identifier,
				SetNumber:       i + 1,
				WinnerGamesWon:  s.WinnerGamesWon,
				LoserGamesWon:   s.LoserGamesWon,
				WinRatio:        s.WinRatio,
			}
			if tb := s.Tiebreaker; tb != nil {
				set.TiebreakWinnerPoints = tb.WinnerPointsWon
				set.TiebreakLoserPoints = tb.LoserPointsWon
			}
			rec.Sets = append(rec.Sets, set)
		}
	}

	for _, side := range raw.Sides {
		sideNumber := intVal(side.SideNumber)
		teamID := extension(side.Extensions, "teamId", "schoolId")
		for _, pl := range side.Players {
			if pl.Person == nil || val(pl.Person.ExternalID) == "" {
				continue
			}
			rec.Participants = append(rec.Participants, models.PlayerMatchParticipant{
				MatchIdentifier: identifier,
				PersonID:        val(pl.Person.ExternalID),
				TeamID:          teamID,
				SideNumber:      sideNumber,
				FamilyName:      str(pl.Person.NativeFamilyName),
				GivenName:       str(pl.Person.NativeGivenName),
				IsWinner:        raw.WinningSide != nil && *raw.WinningSide == sideNumber,
			})
		}
	}
	return rec, nil
}
