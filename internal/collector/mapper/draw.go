package mapper

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

type drawParticipant struct {
	name       *string
	players    []string
	schoolID   *string
	schoolName *string
}

// EventDraws maps the draws of one tournament event and every bracket match-up in them.
// Draw and match-up ids are upper-cased; tournament and event references are lower-cased.
func EventDraws(tournamentID, eventID string, raw RawEventData) ([]models.DrawRecord, []error) {
	tournamentID = strings.ToLower(strings.TrimSpace(tournamentID))
	eventID = strings.ToLower(strings.TrimSpace(eventID))
	if raw.EventData == nil {
		return nil, []error{missing("event data", "eventData", eventID)}
	}

	lookup := participantLookup(raw.Participants)

	var (
		out  []models.DrawRecord
		errs []error
	)
	for _, rd := range raw.EventData.DrawsData {
		drawID := strings.ToUpper(val(rd.DrawID))
		if drawID == "" {
			errs = append(errs, missing("draw", "drawId", eventID))
			continue
		}
		name := val(rd.DrawName)
		d := models.Draw{
			ID:            drawID,
			TournamentID:  tournamentID,
			EventID:       eventID,
			Name:          str(rd.DrawName),
			DrawType:      str(rd.DrawType),
			EventType:     drawEventType(name),
			Gender:        drawGender(name),
			Active:        rd.DrawActive == nil || *rd.DrawActive,
			Completed:     boolVal(rd.DrawCompleted),
			MatchUpFormat: str(rd.MatchUpFormat),
			UpdatedAtAPI:  str(rd.UpdatedAt),
		}
		if len(rd.Structures) > 0 {
			d.Size = len(rd.Structures[0].PositionAssignments)
		}

		rec := models.DrawRecord{Draw: d}
		for _, st := range rd.Structures {
			for _, round := range sortedRounds(st.RoundMatchUps) {
				for _, mu := range st.RoundMatchUps[round] {
					m, err := drawMatch(d, mu, lookup)
					if err != nil {
						errs = append(errs, err)
						continue
					}
					rec.Matches = append(rec.Matches, m)
				}
			}
		}
		out = append(out, rec)
	}
	return out, errs
}

// drawEventType and drawGender read the classification out of names like "Women's Doubles Main Draw".
func drawEventType(name string) string {
	if strings.Contains(strings.ToLower(name), "doubles") {
		return "DOUBLES"
	}
	return "SINGLES"
}

func drawGender(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "women"), strings.Contains(n, "female"):
		return GenderFemale
	case strings.Contains(n, "men"), strings.Contains(n, "male"):
		return GenderMale
	case strings.Contains(n, "mixed"):
		return GenderMixed
	}
	return GenderUnknown
}

func drawMatch(d models.Draw, mu RawDrawMatchUp, lookup map[string]drawParticipant) (models.TournamentMatch, error) {
	id := strings.ToUpper(val(mu.MatchUpID))
	if id == "" {
		return models.TournamentMatch{}, missing("draw match", "matchUpId", d.ID)
	}
	drawID := strings.ToUpper(val(mu.DrawID))
	if drawID == "" {
		drawID = d.ID
	}
	m := models.TournamentMatch{
		ID:            id,
		DrawID:        drawID,
		TournamentID:  d.TournamentID,
		EventID:       d.EventID,
		RoundName:     str(mu.RoundName),
		RoundNumber:   intVal(mu.RoundNumber),
		RoundPosition: intVal(mu.RoundPosition),
		MatchType:     upper(mu.MatchUpType),
		Format:        str(mu.MatchUpFormat),
		Status:        upper(mu.MatchUpStatus),
		Stage:         str(mu.Stage),
		StructureName: str(mu.StructureName),
		WinningSide:   mu.WinningSide,
	}
	if s := mu.Schedule; s != nil {
		m.ScheduledDate = str(s.ScheduledDate)
		m.ScheduledTime = str(s.ScheduledTime)
		m.VenueName = str(s.VenueName)
	}
	if s := mu.Score; s != nil {
		m.ScoreSide1 = str(s.ScoreStringSide1)
		m.ScoreSide2 = str(s.ScoreStringSide2)
	}

	for _, side := range mu.Sides {
		pid := strings.ToUpper(val(side.ParticipantID))
		if pid == "" || side.SideNumber == nil {
			continue
		}
		ms := models.MatchSide{
			ParticipantID: ptr(pid),
			DrawPosition:  side.DrawPosition,
			Seed:          side.SeedNumber,
		}
		p, ok := lookup[pid]
		if !ok {
			p = drawParticipant{players: []string{pid}}
		}
		ms.ParticipantName = p.name
		ms.SchoolID = p.schoolID
		ms.SchoolName = p.schoolName
		if len(p.players) > 0 {
			ms.Player1ID = ptr(p.players[0])
		}
		if len(p.players) > 1 {
			ms.Player2ID = ptr(p.players[1])
		}
		switch *side.SideNumber {
		case 1:
			m.Side1 = ms
		case 2:
			m.Side2 = ms
		}
	}

	if m.WinningSide != nil {
		switch *m.WinningSide {
		case 1:
			m.WinnerID = m.Side1.ParticipantID
		case 2:
			m.WinnerID = m.Side2.ParticipantID
		}
	}
	return m, nil
}

// participantLookup indexes individuals and pairs by upper-cased participant id.
// Pairs without their own school take the first school found among their members.
func participantLookup(ps []RawDrawParticipant) map[string]drawParticipant {
	out := make(map[string]drawParticipant, len(ps))
	for _, p := range ps {
		id := strings.ToUpper(val(p.ParticipantID))
		if id == "" {
			continue
		}
		dp := drawParticipant{name: str(p.ParticipantName)}
		if len(p.Teams) > 0 {
			t := p.Teams[0]
			dp.schoolName = str(t.ParticipantOtherName)
			if dp.schoolName == nil {
				dp.schoolName = str(t.ParticipantName)
			}
			dp.schoolID = upper(t.TeamID)
			if dp.schoolID == nil {
				dp.schoolID = upper(t.ParticipantID)
			}
		}
		if strings.EqualFold(val(p.ParticipantType), "PAIR") {
			for _, ind := range p.IndividualParticipantIDs {
				if ind = strings.ToUpper(strings.TrimSpace(ind)); ind != "" {
					dp.players = append(dp.players, ind)
				}
			}
		} else {
			dp.players = []string{id}
		}
		out[id] = dp
	}
	for id, dp := range out {
		if dp.schoolID != nil || len(dp.players) < 2 {
			continue
		}
		for _, ind := range dp.players {
			if member, ok := out[ind]; ok && member.schoolID != nil {
				dp.schoolID, dp.schoolName = member.schoolID, member.schoolName
				out[id] = dp
				break
			}
		}
	}
	return out
}

// sortedRounds orders round keys numerically so match-ups come out in bracket order.
func sortedRounds(rounds map[string][]RawDrawMatchUp) []string {
	keys := make([]string, 0, len(rounds))
	for k := range rounds {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}
