package upsert

import (
	"reflect"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

// Merge rules. Each takes the stored row and the incoming upstream row and returns the row
// to store and whether it differs from the stored one.

// overlay copies every field of incoming onto existing except nil pointers, so absent
// upstream optionals keep their stored values. Nested structs are overlaid field by field.
func overlay[T any](existing, incoming T) T {
	out := existing
	overlayValue(reflect.ValueOf(&out).Elem(), reflect.ValueOf(incoming))
	return out
}

func overlayValue(dst, src reflect.Value) {
	for i := 0; i < src.NumField(); i++ {
		f := src.Field(i)
		switch f.Kind() {
		case reflect.Pointer:
			if f.IsNil() {
				continue
			}
		case reflect.Struct:
			overlayValue(dst.Field(i), f)
			continue
		}
		dst.Field(i).Set(f)
	}
}

func changed[T any](existing, merged T) bool {
	return !reflect.DeepEqual(existing, merged)
}

func nonEmpty(p *string) bool {
	return p != nil && *p != ""
}

func setIfNonEmpty(dst **string, src *string) {
	if nonEmpty(src) {
		*dst = src
	}
}

// mergeTeam takes name and gender from upstream and fills the descriptive attributes only
// when upstream has them. The stored id casing wins.
func mergeTeam(existing, in models.Team) (models.Team, bool) {
	out := existing
	if in.Name != "" {
		out.Name = in.Name
	}
	out.Gender = in.Gender
	setIfNonEmpty(&out.Abbreviation, in.Abbreviation)
	setIfNonEmpty(&out.Division, in.Division)
	setIfNonEmpty(&out.Conference, in.Conference)
	setIfNonEmpty(&out.Region, in.Region)
	return out, changed(existing, out)
}

func mergeTournament(existing, in models.Tournament) (models.Tournament, bool) {
	out := existing
	out.Name = in.Name
	out.Image = in.Image
	out.IsCancelled = in.IsCancelled
	out.StartDateTime = in.StartDateTime
	out.EndDateTime = in.EndDateTime
	out.IsDualMatch = in.IsDualMatch
	out.TournamentType = in.TournamentType
	out.Gender = in.Gender
	out.EventTypes = in.EventTypes
	out.LevelCategory = in.LevelCategory
	out.RegistrationStatus = in.RegistrationStatus

	setIfNonEmpty(&out.TimeZone, in.TimeZone)
	setIfNonEmpty(&out.URL, in.URL)
	setIfNonEmpty(&out.LocationID, in.LocationID)
	setIfNonEmpty(&out.LocationName, in.LocationName)
	setIfNonEmpty(&out.Town, in.Town)
	setIfNonEmpty(&out.County, in.County)
	setIfNonEmpty(&out.Address, in.Address)
	setIfNonEmpty(&out.Postcode, in.Postcode)
	setIfNonEmpty(&out.LevelID, in.LevelID)
	setIfNonEmpty(&out.LevelName, in.LevelName)
	setIfNonEmpty(&out.OrganizationID, in.OrganizationID)
	setIfNonEmpty(&out.OrganizationName, in.OrganizationName)
	setIfNonEmpty(&out.OrganizationConference, in.OrganizationConference)
	setIfNonEmpty(&out.OrganizationDivision, in.OrganizationDivision)
	if in.Latitude != nil {
		out.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		out.Longitude = in.Longitude
	}

	// Kept once set unless upstream supplies a value.
	setIfNonEmpty(&out.IdentificationCode, in.IdentificationCode)
	setIfNonEmpty(&out.RootProviderID, in.RootProviderID)
	if in.EntriesOpen != nil {
		out.EntriesOpen = in.EntriesOpen
	}
	if in.EntriesClose != nil {
		out.EntriesClose = in.EntriesClose
	}
	return out, changed(existing, out)
}

// mergeMatch overwrites schedule, completion, teams and the conference flag. Home and away
// are never cleared, so teams filled in by reconciliation survive a sync without them.
func mergeMatch(existing, in models.Match) (models.Match, bool) {
	out := overlay(existing, in)
	out.StartDate = in.StartDate
	out.TimeZone = in.TimeZone
	out.NoScheduledTime = in.NoScheduledTime
	out.ScheduledTime = in.ScheduledTime
	out.Completed = in.Completed
	out.IsConferenceMatch = in.IsConferenceMatch
	return out, changed(existing, out)
}

func mergeSchool(existing, in models.SchoolInfo) (models.SchoolInfo, bool) {
	out := overlay(existing, in)
	out.ID = existing.ID
	return out, changed(existing, out)
}

// mergeUpstream is the rule for rows where upstream is the source of truth.
func mergeUpstream[T any](existing, in T) (T, bool) {
	out := overlay(existing, in)
	return out, changed(existing, out)
}
