package mapper

import (
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

// DualMatch maps a dual match onto the match row, both teams, the match-team links and web links.
func DualMatch(raw RawDualMatch) (models.DualMatchRecord, error) {
	id := val(raw.ID)
	if id == "" {
		return models.DualMatchRecord{}, missing("dual match", "id", "")
	}
	if len(raw.Teams) == 0 {
		return models.DualMatchRecord{}, missing("dual match", "teams", id)
	}

	home := raw.HomeTeam
	if home == nil || val(home.ID) == "" {
		home = &raw.Teams[0]
	}
	homeID := val(home.ID)

	var away *RawTeam
	for i := range raw.Teams {
		if tid := val(raw.Teams[i].ID); tid != "" && tid != homeID {
			away = &raw.Teams[i]
			break
		}
	}
	if away == nil && len(raw.Teams) > 1 {
		away = &raw.Teams[1]
	}
	if homeID == "" {
		return models.DualMatchRecord{}, missing("dual match", "homeTeam.id", id)
	}
	if away == nil || val(away.ID) == "" {
		return models.DualMatchRecord{}, missing("dual match", "awayTeam.id", id)
	}

	gender := str(raw.Gender)
	if gender != nil {
		gender = ptr(NormalizeGender(*gender))
	}

	m := models.Match{
		ID:                id,
		IsConferenceMatch: boolVal(raw.IsConferenceMatch),
		Gender:            gender,
		HomeTeamID:        ptr(homeID),
		AwayTeamID:        ptr(val(away.ID)),
		SideNumbers:       len(raw.Teams),
	}
	if dt := raw.StartDateTime; dt != nil {
		m.TimeZone = str(dt.TimezoneName)
		m.NoScheduledTime = boolVal(dt.NoScheduledTime)
		m.StartDate = parseTime(dt.DateTimeString)
		if m.StartDate != nil {
			m.Season = ptr(strconv.Itoa(localYear(*m.StartDate, m.TimeZone) - 1))
			if !m.NoScheduledTime {
				m.ScheduledTime = m.StartDate
			}
		}
	}

	rec := models.DualMatchRecord{Match: m}
	seen := map[string]bool{}
	candidates := []*RawTeam{home, away}
	for i := range raw.Teams {
		candidates = append(candidates, &raw.Teams[i])
	}
	for _, rt := range candidates {
		if tid := val(rt.ID); tid != "" && !seen[tid] {
			seen[tid] = true
			rec.Teams = append(rec.Teams, team(rt, gender))
		}
	}
	for _, rt := range raw.Teams {
		tid := val(rt.ID)
		if tid == "" {
			continue
		}
		if rt.Score != nil {
			rec.Match.Completed = true
		}
		mt := models.MatchTeam{
			MatchID:      id,
			TeamID:       tid,
			Score:        rt.Score,
			DidWin:       rt.DidWin,
			SideNumber:   rt.SideNumber,
			IsHomeTeam:   tid == homeID,
			TeamPosition: models.TeamPositionAway,
		}
		if mt.IsHomeTeam {
			mt.TeamPosition = models.TeamPositionHome
		}
		rec.MatchTeams = append(rec.MatchTeams, mt)
	}
	for _, wl := range raw.WebLinks {
		u := val(wl.URL)
		if u == "" {
			continue
		}
		rec.WebLinks = append(rec.WebLinks, models.WebLink{MatchID: id, URL: u, Name: str(wl.Name)})
	}
	return rec, nil
}

func team(rt *RawTeam, gender *string) models.Team {
	name := val(rt.Name)
	if name == "" {
		name = val(rt.ID)
	}
	return models.Team{
		ID:           val(rt.ID),
		Name:         name,
		Abbreviation: str(rt.Abbreviation),
		Division:     str(rt.Division),
		Conference:   str(rt.Conference),
		Region:       str(rt.Region),
		Gender:       gender,
	}
}

// localYear is the calendar year of t in the match's own time zone.
func localYear(t time.Time, tz *string) int {
	if tz != nil {
		if loc, err := time.LoadLocation(*tz); err == nil {
			return t.In(loc).Year()
		}
	}
	return t.Year()
}
