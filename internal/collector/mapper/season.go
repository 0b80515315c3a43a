package mapper

import (
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

func Season(raw RawSeason) (models.Season, error) {
	id := val(raw.ID)
	if id == "" {
		return models.Season{}, missing("season", "id", "")
	}
	name := val(raw.Name)
	if name == "" {
		return models.Season{}, missing("season", "name", id)
	}
	return models.Season{
		ID:        id,
		Name:      name,
		Status:    strings.ToUpper(val(raw.Status)),
		StartDate: parseTime(raw.StartDate),
		EndDate:   parseTime(raw.EndDate),
	}, nil
}

// School maps the school record that links a school to its men's and women's teams.
func School(raw RawSchool) (models.SchoolInfo, error) {
	id := val(raw.ID)
	if id == "" {
		return models.SchoolInfo{}, missing("school", "id", "")
	}
	name := val(raw.Name)
	if name == "" {
		return models.SchoolInfo{}, missing("school", "name", id)
	}
	return models.SchoolInfo{
		ID:                 id,
		Name:               name,
		Conference:         str(raw.Conference),
		ITARegion:          str(raw.ITARegion),
		RankingAwardRegion: str(raw.RankingAwardRegion),
		USTASection:        str(raw.USTASection),
		ManID:              str(raw.ManID),
		WomanID:            str(raw.WomanID),
		Division:           str(raw.Division),
		MailingAddress:     str(raw.MailingAddress),
		City:               str(raw.City),
		State:              str(raw.State),
		ZipCode:            str(raw.ZipCode),
		TeamType:           str(raw.TeamType),
	}, nil
}
