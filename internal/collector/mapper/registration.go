package mapper

import (
	"strings"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

const customIDPersonID = "personId"

// Registration maps one tournament registration.
func Registration(tournamentID string, raw RawRegistration) (models.TournamentPlayer, error) {
	tournamentID = strings.ToLower(strings.TrimSpace(tournamentID))
	if tournamentID == "" {
		return models.TournamentPlayer{}, missing("registration", "tournamentId", "")
	}
	playerID := registrationPlayerID(raw)
	if playerID == "" {
		return models.TournamentPlayer{}, missing("registration", "playerId", val(raw.PlayerName))
	}

	gender := str(raw.Gender)
	if gender != nil {
		gender = ptr(NormalizeGender(*gender))
	}
	p := models.TournamentPlayer{
		ID:           tournamentID + "_" + playerID,
		TournamentID: tournamentID,
		PlayerID:     playerID,
		FirstName:    str(raw.FirstName),
		LastName:     str(raw.LastName),
		PlayerName:   str(raw.PlayerName),
		Gender:       gender,
		City:         str(raw.City),
		State:        str(raw.State),
	}

	var events []string
	for _, ev := range raw.Events {
		if ev.Division == nil {
			continue
		}
		switch NormalizeEventType(val(ev.Division.EventType)) {
		case "SINGLES":
			events = append(events, "singles")
			p.SinglesEventID = lower(ev.ID)
		case "DOUBLES":
			events = append(events, "doubles")
			p.DoublesEventID = lower(ev.ID)
		}
	}
	p.EventsParticipating = strings.Join(events, ",")

	if partner := registrationPartner(raw.EventEntries, playerID); partner != nil {
		p.Player2ID = ptr(entryPlayerID(*partner))
		p.Player2FirstName = str(partner.FirstName)
		p.Player2LastName = str(partner.LastName)
	}
	return p, nil
}

func registrationPlayerID(raw RawRegistration) string {
	if id := customID(raw.PlayerCustomIDs, customIDPersonID); id != "" {
		return id
	}
	if raw.PlayerID != nil {
		return val(raw.PlayerID.Value)
	}
	return ""
}

// registrationPartner finds the first other player of a confirmed partnership.
func registrationPartner(entries []RawEventEntry, playerID string) *RawEntryPlayer {
	for _, entry := range entries {
		if val(entry.PartnershipStatus) == "" {
			continue
		}
		for i := range entry.Players {
			id := entryPlayerID(entry.Players[i])
			if id != "" && id != playerID {
				return &entry.Players[i]
			}
		}
	}
	return nil
}

func entryPlayerID(p RawEntryPlayer) string {
	if id := customID(p.CustomIDs, customIDPersonID); id != "" {
		return id
	}
	if p.CustomID != nil {
		return val(p.CustomID.Value)
	}
	return ""
}

func customID(ids []RawKeyValue, key string) string {
	for _, kv := range ids {
		if val(kv.Key) == key {
			if v := val(kv.Value); v != "" {
				return v
			}
		}
	}
	return ""
}

func lower(p *string) *string {
	if v := str(p); v != nil {
		return ptr(strings.ToLower(*v))
	}
	return nil
}
