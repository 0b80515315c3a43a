package mapper

import (
	"slices"
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

// Tournament maps one search result item onto a tournament and its events.
func Tournament(raw RawTournament) (models.TournamentRecord, error) {
	id := strings.ToLower(val(raw.ID))
	if id == "" {
		return models.TournamentRecord{}, missing("tournament", "id", "")
	}
	name := val(raw.Name)
	if name == "" {
		return models.TournamentRecord{}, missing("tournament", "name", id)
	}

	t := models.Tournament{
		ID:                 id,
		IdentificationCode: str(raw.IdentificationCode),
		Name:               name,
		Image:              str(raw.Image),
		IsCancelled:        boolVal(raw.IsCancelled),
		StartDateTime:      parseTime(raw.StartDateTime),
		EndDateTime:        parseTime(raw.EndDateTime),
		TimeZone:           str(raw.TimeZone),
		URL:                str(raw.URL),
		RootProviderID:     str(raw.RootProviderID),
		IsDualMatch:        false,
		TournamentType:     models.TournamentTypeTournament,
	}

	if loc := raw.Location; loc != nil {
		t.LocationID = str(loc.ID)
		t.LocationName = str(loc.Name)
		if loc.Geo != nil {
			t.Latitude = loc.Geo.Latitude
			t.Longitude = loc.Geo.Longitude
		}
	}
	if pl := raw.PrimaryLocation; pl != nil {
		t.Town = str(pl.Town)
		t.County = str(pl.County)
		t.Address = str(pl.Address1)
		t.Postcode = str(pl.Postcode)
	}
	if lvl := raw.Level; lvl != nil {
		t.LevelID = str(lvl.ID)
		t.LevelName = str(lvl.Name)
	}
	if len(raw.LevelCategories) > 0 {
		t.LevelCategory = str(raw.LevelCategories[0].Name)
	}
	if org := raw.Organization; org != nil {
		t.OrganizationID = str(org.ID)
		t.OrganizationName = str(org.Name)
		t.OrganizationConference = str(org.Conference)
		t.OrganizationDivision = str(org.Division)
	}

	t.RegistrationStatus = models.RegistrationClosed
	if rr := raw.RegistrationRestricts; rr != nil {
		t.EntriesOpen = parseTime(rr.EntriesOpenDateTime)
		t.EntriesClose = parseTime(rr.EntriesCloseDateTime)
		t.RegistrationStatus = registrationStatus(rr)
	}

	var (
		events     []models.TournamentEvent
		eventTypes []string
	)
	for _, ev := range raw.Events {
		var gender, eventType *string
		if ev.Division != nil {
			if g := str(ev.Division.Gender); g != nil {
				gender = ptr(NormalizeGender(*g))
				if t.Gender == nil {
					t.Gender = gender
				}
			}
			if et := str(ev.Division.EventType); et != nil {
				eventType = ptr(NormalizeEventType(*et))
				if !slices.Contains(eventTypes, *eventType) {
					eventTypes = append(eventTypes, *eventType)
				}
			}
		}
		eventID := strings.ToLower(val(ev.ID))
		if eventID == "" {
			continue
		}
		events = append(events, models.TournamentEvent{
			ID:           eventID,
			TournamentID: id,
			Gender:       gender,
			EventType:    eventType,
		})
	}
	if len(eventTypes) > 0 {
		slices.Sort(eventTypes)
		t.EventTypes = ptr(strings.Join(eventTypes, ","))
	}

	return models.TournamentRecord{Tournament: t, Events: events}, nil
}

func registrationStatus(rr *RawRegistrationRs) string {
	if rr.SecondsUntilEntriesOpen != nil && *rr.SecondsUntilEntriesOpen > 0 {
		return models.RegistrationUpcoming
	}
	if rr.SecondsUntilEntriesClose != nil && *rr.SecondsUntilEntriesClose > 0 {
		return models.RegistrationOpen
	}
	return models.RegistrationClosed
}
