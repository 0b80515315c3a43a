package mapper

import (
	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

// Roster maps the members of one team roster for a season.
func Roster(schoolID, teamID, seasonID string, members []RawRosterMember) ([]models.RosterRecord, []error) {
	var (
		out  []models.RosterRecord
		errs []error
	)
	for _, m := range members {
		personID := val(m.PersonID)
		if personID == "" {
			errs = append(errs, missing("roster member", "personId", teamID))
			continue
		}
		rec := models.RosterRecord{
			Player: models.Player{
				PersonID:  personID,
				TennisID:  str(m.TennisID),
				FirstName: str(m.StandardGivenName),
				LastName:  str(m.StandardFamilyName),
				AvatarURL: str(m.AvatarURL),
			},
			Season: models.PlayerSeason{
				PersonID:  personID,
				SeasonID:  seasonID,
				ClassYear: classLabel(m.Class),
			},
			Roster: models.PlayerRoster{
				PersonID: personID,
				SeasonID: seasonID,
				TeamID:   teamID,
				SchoolID: str(&schoolID),
				Active:   true,
			},
		}
		for _, w := range m.WorldTennisNumbers {
			wtnType := val(w.Type)
			if wtnType == "" {
				continue
			}
			rec.WTNs = append(rec.WTNs, models.PlayerWTN{
				PersonID:     personID,
				SeasonID:     seasonID,
				WTNType:      NormalizeEventType(wtnType),
				Confidence:   w.Confidence,
				TennisNumber: w.TennisNumber,
				IsRanked:     boolVal(w.IsRanked),
			})
		}
		out = append(out, rec)
	}
	return out, errs
}

// classLabel canonicalizes known class-year spellings and keeps unknown labels as sent.
func classLabel(p *string) *string {
	v := str(p)
	if v == nil {
		return nil
	}
	if idx := models.ClassIndex(*v); idx > 0 {
		return ptr(models.ClassLabel(idx))
	}
	return v
}
