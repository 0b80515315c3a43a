package mapper

import (
	"math"
	"strconv"
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

const (
	participantTeam       = "TEAM"
	participantIndividual = "INDIVIDUAL"
)

// RankListSummary maps an index entry. The index does not echo its filter, so division,
// format and gender come from the query that listed it.
func RankListSummary(division, format, gender string, raw RawRankListSummary) (models.RankingList, error) {
	id := val(raw.ID)
	if id == "" {
		return models.RankingList{}, missing("ranking list", "id", "")
	}
	return models.RankingList{
		ID:                 id,
		DivisionType:       strings.ToUpper(division),
		Gender:             NormalizeGender(gender),
		MatchFormat:        strings.ToUpper(format),
		PublishDate:        parseTime(raw.PublishDate),
		PlannedPublishDate: parseTime(raw.PlannedPublishDate),
	}, nil
}

// RankingList maps a list and the entries of its match format. Entries without a rank or
// without the participants their format needs are reported and left out. When a key repeats
// the first entry is kept.
func RankingList(raw RawRankingList) ([]models.RankingListRecord, []error) {
	id := val(raw.ID)
	if id == "" {
		return nil, []error{missing("ranking list", "id", "")}
	}
	format := strings.ToUpper(val(raw.MatchFormat))
	switch format {
	case models.RankingFormatTeam, models.RankingFormatSingles, models.RankingFormatDoubles:
	default:
		return nil, []error{missing("ranking list", "matchFormat", id)}
	}
	l := models.RankingList{
		ID:           id,
		DivisionType: strings.ToUpper(val(raw.DivisionType)),
		Gender:       NormalizeGender(val(raw.Gender)),
		MatchFormat:  format,
		CreatedAt:    parseTime(raw.CreatedAt),
	}
	if raw.DateRange != nil {
		l.DateRangeStart = parseTime(raw.DateRange.Start)
		l.DateRangeEnd = parseTime(raw.DateRange.End)
	}

	rec := models.RankingListRecord{List: l}
	var errs []error
	if raw.RankingItems == nil {
		return []models.RankingListRecord{rec}, nil
	}
	seen := map[string]bool{}
	for i, item := range raw.RankingItems.Items {
		key := id + "#" + strconv.Itoa(i+1)
		if item.Rank == nil {
			errs = append(errs, missing("ranking", "rank", key))
			continue
		}
		team, players := splitParticipants(item.Participants)
		if team == nil {
			errs = append(errs, missing("ranking", "participants.TEAM", key))
			continue
		}
		e := rankingEntry{
			rank:       *item.Rank,
			points:     total(item.Points),
			wins:       count(item.Wins),
			losses:     count(item.Losses),
			conference: str(item.Conference),
		}
		switch format {
		case models.RankingFormatTeam:
			if seen[team.id] {
				continue
			}
			seen[team.id] = true
			rec.Teams = append(rec.Teams, models.TeamRanking{
				RankingListID: id,
				TeamID:        team.id,
				Rank:          e.rank,
				Points:        e.points,
				Wins:          e.wins,
				Losses:        e.losses,
				TeamName:      team.name,
				Conference:    e.conference,
			})
		case models.RankingFormatSingles:
			if len(players) < 1 {
				errs = append(errs, missing("ranking", "participants.INDIVIDUAL", key))
				continue
			}
			p := players[0]
			if seen[p.id] {
				continue
			}
			seen[p.id] = true
			rec.Singles = append(rec.Singles, models.PlayerRanking{
				RankingListID: id,
				PlayerID:      p.id,
				TeamID:        team.id,
				Rank:          e.rank,
				Points:        e.points,
				Wins:          e.wins,
				Losses:        e.losses,
				PlayerName:    p.name,
				TeamName:      team.name,
				Conference:    e.conference,
			})
		case models.RankingFormatDoubles:
			if len(players) < 2 {
				errs = append(errs, missing("ranking", "participants.INDIVIDUAL", key))
				continue
			}
			p1, p2 := players[0], players[1]
			if p2.id < p1.id {
				p1, p2 = p2, p1
			}
			pair := p1.id + "|" + p2.id
			if seen[pair] {
				continue
			}
			seen[pair] = true
			rec.Doubles = append(rec.Doubles, models.DoublesRanking{
				RankingListID: id,
				TeamID:        team.id,
				Player1ID:     p1.id,
				Player2ID:     p2.id,
				Rank:          e.rank,
				Points:        e.points,
				Wins:          e.wins,
				Losses:        e.losses,
				Player1Name:   p1.name,
				Player2Name:   p2.name,
				TeamName:      team.name,
				Conference:    e.conference,
			})
		}
	}
	return []models.RankingListRecord{rec}, errs
}

type rankingEntry struct {
	rank         int
	points       *float64
	wins, losses *int
	conference   *string
}

type rankedParticipant struct {
	id, name string
}

// splitParticipants returns the first team and the individuals in upstream order.
// Participants without an item id are ignored.
func splitParticipants(ps []RawRankingParticipant) (*rankedParticipant, []rankedParticipant) {
	var (
		team    *rankedParticipant
		players []rankedParticipant
	)
	for _, p := range ps {
		rp := rankedParticipant{id: val(p.ItemID), name: val(p.Name)}
		if rp.id == "" {
			continue
		}
		switch strings.ToUpper(val(p.ParticipantType)) {
		case participantTeam:
			if team == nil {
				team = &rp
			}
		case participantIndividual:
			players = append(players, rp)
		}
	}
	return team, players
}

func total(t *RawTotal) *float64 {
	if t == nil || t.Total == nil {
		return nil
	}
	return ptr(*t.Total)
}

func count(t *RawTotal) *int {
	if t == nil || t.Total == nil {
		return nil
	}
	return ptr(int(math.Round(*t.Total)))
}
