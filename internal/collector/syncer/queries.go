package syncer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const dualMatchTeamFields = `
	id
	name
	abbreviation
	division
	conference
	region
	score
	didWin
	sideNumber`

var dualMatchesQuery = `query dualMatchesPaginated($skip: Int!, $limit: Int!, $filter: DualMatchesFilter, $sort: DualMatchesSort) {
  dualMatchesPaginated(skip: $skip, limit: $limit, filter: $filter, sort: $sort) {
    totalItems
    items {
      id
      startDateTime { timezoneName noScheduledTime dateTimeString }
      homeTeam {` + dualMatchTeamFields + ` }
      teams {` + dualMatchTeamFields + ` }
      isConferenceMatch
      gender
      webLinks { name url }
    }
  }
}`

const tieSideFields = `
	participants { firstName lastName personId }
	score { scoreString sets { setScore tiebreakScore tiebreakSet didWin } }
	teamAbbreviation
	didWin`

var dualMatchQuery = `query dualMatch($id: ID!) {
  dualMatch(id: $id) {
    id
    startDateTime { timezoneName noScheduledTime dateTimeString }
    homeTeam {` + dualMatchTeamFields + ` }
    teams {` + dualMatchTeamFields + ` }
    isConferenceMatch
    gender
    tieMatchUps {
      id
      type
      status
      side1 {` + tieSideFields + ` }
      side2 {` + tieSideFields + ` }
      collectionPosition
      collectionId
    }
  }
}`

const seasonsQuery = `query listSeasons {
  listSeasons(includeDeletedAndPending: false) { id name status startDate endDate }
}`

const rosterQuery = `query getRosterMembers($rosterId: String!, $role: RosterRoleEnum!, $seasonId: String!) {
  getRosterMembers(rosterId: $rosterId, role: $role, seasonId: $seasonId) {
    personId
    tennisId
    standardGivenName
    standardFamilyName
    class
    avatarUrl
    worldTennisNumbers { confidence type tennisNumber isRanked }
  }
}`

// The school query takes its id inline.
const schoolQueryFormat = `query school {
  school(id: %s) {
    id name conference itaRegion rankingAwardRegion ustaSection manId womanId
    division mailingAddress city state zipCode teamType
  }
}`

func schoolQuery(id string) string {
	return fmt.Sprintf(schoolQueryFormat, strconv.Quote(id))
}

const playerMatchesQuery = `query matchUps($personFilter: [td_PersonFilterOptions], $filter: td_MatchUpFilterOptions) {
  td_matchUps(personFilter: $personFilter, filter: $filter) {
    totalItems
    items {
      score {
        scoreString
        sets { winnerGamesWon loserGamesWon winRatio tiebreaker { winnerPointsWon loserPointsWon } }
      }
      sides {
        sideNumber
        players { person { externalID nativeFamilyName nativeGivenName } }
        extensions { name value }
      }
      winningSide
      start
      end
      type
      matchUpFormat
      status
      tournament { providerTournamentId }
      extensions { name value }
      roundName
      collectionPosition
    }
  }
}`

const registrationsQuery = `query GetPlayers($id: UUID!, $queryParameters: QueryParametersPaged!) {
  paginatedPublicTournamentRegistrations(tournamentId: $id, queryParameters: $queryParameters) {
    totalItems
    items {
      firstName: playerFirstName
      gender: playerGender
      lastName: playerLastName
      city: playerCity
      state: playerState
      playerName
      playerId { key value }
      playerCustomIds { key value }
      eventEntries {
        eventId
        partnershipStatus
        players { firstName lastName customId { key value } customIds { key value } }
      }
      events { id division { gender eventType } }
    }
  }
}`

const eventDataQuery = `query TournamentPublicEventData($eventId: ID!, $tournamentId: ID!) {
  tournamentPublicEventData(eventId: $eventId, tournamentId: $tournamentId)
}`

const rankListsQuery = `query td_RankListsPublishDate($sort: td_SortOrder, $filter: td_RankListFilter) {
  td_rankLists(sort: $sort, filter: $filter) {
    items { id publishDate plannedPublishDate }
  }
}`

const rankListQuery = `query td_RankListById($id: String!, $itemPageArgs: td_PaginationArgs) {
  td_rankList(id: $id) {
    id
    createdAt
    divisionType
    gender
    matchFormat
    dateRange { start end }
    rankingItems(itemPageArgs: $itemPageArgs) {
      totalItems
      items {
        rank
        points { total }
        wins { total }
        losses { total }
        participants { participantType itemId name state }
        conference
      }
    }
  }
}`

var finishedStatuses = []string{"DEFAULTED", "RETIRED", "WALKOVER", "COMPLETED", "ABANDONED"}

func dualMatchesVars(offset, limit int, seasonStarting string, divisions []string, completed bool) map[string]any {
	filter := map[string]any{
		"isCompleted": completed,
		"divisions":   divisions,
	}
	if seasonStarting != "" {
		filter["seasonStarting"] = seasonStarting
	}
	return map[string]any{
		"skip":   offset,
		"limit":  limit,
		"sort":   map[string]any{"field": "START_DATE", "direction": "DESCENDING"},
		"filter": filter,
	}
}

func playerMatchesVars(personID string, from, to time.Time) map[string]any {
	return map[string]any{
		"personFilter": map[string]any{
			"ids": []map[string]any{{"type": "ExternalID", "identifier": personID}},
		},
		"filter": map[string]any{
			"start":    map[string]any{"after": from.Format(time.DateOnly)},
			"end":      map[string]any{"before": to.Format(time.DateOnly)},
			"statuses": finishedStatuses,
		},
	}
}

func rankListsVars(division, format, gender string) map[string]any {
	return map[string]any{
		"filter": map[string]any{
			"visible":      true,
			"matchFormat":  format,
			"divisionType": division,
			"gender":       gender,
			"listType":     "STANDING",
		},
		"sort": map[string]any{"field": "plannedPublishDate", "direction": "DESC"},
	}
}

func rankListVars(id string, limit int) map[string]any {
	return map[string]any{
		"id":           id,
		"itemPageArgs": map[string]any{"limit": limit},
	}
}

func registrationsVars(tournamentID string, offset, limit int) map[string]any {
	return map[string]any{
		"id": tournamentID,
		"queryParameters": map[string]any{
			"limit":  limit,
			"offset": offset,
			"sorts":  []map[string]any{{"property": "playerLastName", "sortDirection": "ASCENDING"}},
			"filters": []any{},
		},
	}
}

const searchDateFormat = "2006-01-02T00:00:00.000Z"

type searchPayload struct {
	Filters []searchFilter `json:"filters"`
	Options searchOptions  `json:"options"`
}

type searchFilter struct {
	Key      string            `json:"key"`
	Operator string            `json:"operator"`
	Items    []searchDateRange `json:"items"`
}

type searchDateRange struct {
	MinDate string `json:"minDate"`
	MaxDate string `json:"maxDate,omitempty"`
}

type searchOptions struct {
	Size      int     `json:"size"`
	From      int     `json:"from"`
	SortKey   string  `json:"sortKey"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func tournamentSearch(from, to time.Time, offset, size int) searchPayload {
	return searchPayload{
		Filters: []searchFilter{{
			Key:      "date-range",
			Operator: "Or",
			Items:    []searchDateRange{{MinDate: from.UTC().Format(searchDateFormat), MaxDate: to.UTC().Format(searchDateFormat)}},
		}},
		Options: searchOptions{Size: size, From: offset, SortKey: "date"},
	}
}

// connection is the {totalItems, items} shape of paginated GraphQL fields.
type connection struct {
	TotalItems int               `json:"totalItems"`
	Items      []json.RawMessage `json:"items"`
}

// field decodes data[name] into T.
func field[T any](data json.RawMessage, name string) (T, error) {
	var out T
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return out, fmt.Errorf("failed to decode response data: %w", err)
	}
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return out, fmt.Errorf("response data has no %s", name)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return out, nil
}

// embeddedJSON decodes a value that the upstream may send either as an object or as a JSON
// document inside a string.
func embeddedJSON[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return out, err
		}
		raw = json.RawMessage(s)
	}
	err := json.Unmarshal(raw, &out)
	return out, err
}
