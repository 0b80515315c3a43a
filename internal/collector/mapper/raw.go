package mapper

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Raw upstream records. Optional fields are pointers so that absent and empty stay distinguishable.

type RawTournament struct {
	ID                    *string            `json:"id"`
	IdentificationCode    *string            `json:"identificationCode"`
	Name                  *string            `json:"name"`
	Image                 *string            `json:"image"`
	IsCancelled           *bool              `json:"isCancelled"`
	StartDateTime         *string            `json:"startDateTime"`
	EndDateTime           *string            `json:"endDateTime"`
	TimeZone              *string            `json:"timeZone"`
	URL                   *string            `json:"url"`
	RootProviderID        *string            `json:"rootProviderId"`
	Location              *RawLocation       `json:"location"`
	PrimaryLocation       *RawPrimaryLoc     `json:"primaryLocation"`
	Level                 *RawNamed          `json:"level"`
	LevelCategories       []RawNamed         `json:"levelCategories"`
	Organization          *RawOrganization   `json:"organization"`
	RegistrationRestricts *RawRegistrationRs `json:"registrationRestrictions"`
	Events                []RawEvent         `json:"events"`
}

type RawLocation struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	Geo  *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"geo"`
}

type RawPrimaryLoc struct {
	Town     *string `json:"town"`
	County   *string `json:"county"`
	Address1 *string `json:"address1"`
	Postcode *string `json:"postcode"`
}

type RawNamed struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

type RawOrganization struct {
	ID         *string `json:"id"`
	Name       *string `json:"name"`
	Conference *string `json:"conference"`
	Division   *string `json:"division"`
}

type RawRegistrationRs struct {
	EntriesOpenDateTime      *string  `json:"entriesOpenDateTime"`
	EntriesCloseDateTime     *string  `json:"entriesCloseDateTime"`
	SecondsUntilEntriesOpen  *float64 `json:"secondsUntilEntriesOpen"`
	SecondsUntilEntriesClose *float64 `json:"secondsUntilEntriesClose"`
}

type RawEvent struct {
	ID       *string `json:"id"`
	Division *struct {
		Gender    *string `json:"gender"`
		EventType *string `json:"eventType"`
	} `json:"division"`
}

// RawSearchResult wraps one tournament in the search response.
type RawSearchResult struct {
	Item json.RawMessage `json:"item"`
}

type RawSearchResponse struct {
	Total         int               `json:"total"`
	SearchResults []RawSearchResult `json:"searchResults"`
}

type RawTeam struct {
	ID           *string  `json:"id"`
	Name         *string  `json:"name"`
	Abbreviation *string  `json:"abbreviation"`
	Division     *string  `json:"division"`
	Conference   *string  `json:"conference"`
	Region       *string  `json:"region"`
	Score        *float64 `json:"score"`
	DidWin       *bool    `json:"didWin"`
	SideNumber   *int     `json:"sideNumber"`
}

type RawDateTime struct {
	TimezoneName    *string `json:"timezoneName"`
	NoScheduledTime *bool   `json:"noScheduledTime"`
	DateTimeString  *string `json:"dateTimeString"`
}

type RawWebLink struct {
	Name *string `json:"name"`
	URL  *string `json:"url"`
}

type RawDualMatch struct {
	ID                *string       `json:"id"`
	StartDateTime     *RawDateTime  `json:"startDateTime"`
	HomeTeam          *RawTeam      `json:"homeTeam"`
	Teams             []RawTeam     `json:"teams"`
	IsConferenceMatch *bool         `json:"isConferenceMatch"`
	Gender            *string       `json:"gender"`
	WebLinks          []RawWebLink  `json:"webLinks"`
	TieMatchUps       []RawTieMatch `json:"tieMatchUps"`
}

// RawDualMatchDetail is the single-match query result; it adds tieMatchUps to the list shape.
type RawDualMatchDetail = RawDualMatch

type RawTieMatch struct {
	ID                 *string  `json:"id"`
	Type               *string  `json:"type"`
	Status             *string  `json:"status"`
	Side1              *RawSide `json:"side1"`
	Side2              *RawSide `json:"side2"`
	CollectionPosition *int     `json:"collectionPosition"`
	CollectionID       *string  `json:"collectionId"`
}

type RawSide struct {
	Participants     []RawParticipant `json:"participants"`
	Score            *RawSideScore    `json:"score"`
	TeamAbbreviation *string          `json:"teamAbbreviation"`
	DidWin           *bool            `json:"didWin"`
}

type RawParticipant struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	PersonID  *string `json:"personId"`
}

type RawSideScore struct {
	ScoreString *string      `json:"scoreString"`
	Sets        []RawSideSet `json:"sets"`
}

type RawSideSet struct {
	SetScore      *FlexInt `json:"setScore"`
	TiebreakScore *FlexInt `json:"tiebreakScore"`
	DidWin        *bool    `json:"didWin"`
	TiebreakSet   *bool    `json:"tiebreakSet"`
}

type RawRosterMember struct {
	PersonID           *string  `json:"personId"`
	TennisID           *string  `json:"tennisId"`
	StandardGivenName  *string  `json:"standardGivenName"`
	StandardFamilyName *string  `json:"standardFamilyName"`
	Class              *string  `json:"class"`
	AvatarURL          *string  `json:"avatarUrl"`
	WorldTennisNumbers []RawWTN `json:"worldTennisNumbers"`
}

type RawWTN struct {
	Type         *string  `json:"type"`
	Confidence   *int     `json:"confidence"`
	TennisNumber *float64 `json:"tennisNumber"`
	IsRanked     *bool    `json:"isRanked"`
}

type RawKeyValue struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

type RawRegistration struct {
	FirstName       *string         `json:"firstName"`
	LastName        *string         `json:"lastName"`
	Gender          *string         `json:"gender"`
	City            *string         `json:"city"`
	State           *string         `json:"state"`
	PlayerName      *string         `json:"playerName"`
	PlayerID        *RawKeyValue    `json:"playerId"`
	PlayerCustomIDs []RawKeyValue   `json:"playerCustomIds"`
	Events          []RawEvent      `json:"events"`
	EventEntries    []RawEventEntry `json:"eventEntries"`
}

type RawEventEntry struct {
	EventID           *string          `json:"eventId"`
	PartnershipStatus *string          `json:"partnershipStatus"`
	Players           []RawEntryPlayer `json:"players"`
}

type RawEntryPlayer struct {
	FirstName *string       `json:"firstName"`
	LastName  *string       `json:"lastName"`
	CustomID  *RawKeyValue  `json:"customId"`
	CustomIDs []RawKeyValue `json:"customIds"`
}

// RawEventData is the decoded tournamentPublicEventData payload.
type RawEventData struct {
	Participants []RawDrawParticipant `json:"participants"`
	EventData    *struct {
		DrawsData []RawDraw `json:"drawsData"`
	} `json:"eventData"`
}

type RawDrawParticipant struct {
	ParticipantID            *string  `json:"participantId"`
	ParticipantName          *string  `json:"participantName"`
	ParticipantType          *string  `json:"participantType"`
	IndividualParticipantIDs []string `json:"individualParticipantIds"`
	Teams                    []struct {
		ParticipantOtherName *string `json:"participantOtherName"`
		ParticipantName      *string `json:"participantName"`
		TeamID               *string `json:"teamId"`
		ParticipantID        *string `json:"participantId"`
	} `json:"teams"`
}

type RawDraw struct {
	DrawID        *string        `json:"drawId"`
	DrawName      *string        `json:"drawName"`
	DrawType      *string        `json:"drawType"`
	DrawActive    *bool          `json:"drawActive"`
	DrawCompleted *bool          `json:"drawCompleted"`
	UpdatedAt     *string        `json:"updatedAt"`
	MatchUpFormat *string        `json:"matchUpFormat"`
	Structures    []RawStructure `json:"structures"`
}

type RawStructure struct {
	StructureName       *string                     `json:"structureName"`
	PositionAssignments []json.RawMessage           `json:"positionAssignments"`
	RoundMatchUps       map[string][]RawDrawMatchUp `json:"roundMatchUps"`
}

type RawDrawMatchUp struct {
	MatchUpID     *string `json:"matchUpId"`
	DrawID        *string `json:"drawId"`
	RoundName     *string `json:"roundName"`
	RoundNumber   *int    `json:"roundNumber"`
	RoundPosition *int    `json:"roundPosition"`
	MatchUpType   *string `json:"matchUpType"`
	MatchUpFormat *string `json:"matchUpFormat"`
	MatchUpStatus *string `json:"matchUpStatus"`
	Stage         *string `json:"stage"`
	StructureName *string `json:"structureName"`
	WinningSide   *int    `json:"winningSide"`
	Schedule      *struct {
		ScheduledDate *string `json:"scheduledDate"`
		ScheduledTime *string `json:"scheduledTime"`
		VenueName     *string `json:"venueName"`
	} `json:"schedule"`
	Score *struct {
		ScoreStringSide1 *string `json:"scoreStringSide1"`
		ScoreStringSide2 *string `json:"scoreStringSide2"`
	} `json:"score"`
	Sides []struct {
		SideNumber    *int    `json:"sideNumber"`
		ParticipantID *string `json:"participantId"`
		DrawPosition  *int    `json:"drawPosition"`
		SeedNumber    *int    `json:"seedNumber"`
	} `json:"sides"`
}

type RawPlayerMatch struct {
	Score *struct {
		ScoreString *string             `json:"scoreString"`
		Sets        []RawPlayerMatchSet `json:"sets"`
	} `json:"score"`
	Sides         []RawPlayerMatchSide `json:"sides"`
	WinningSide   *int                 `json:"winningSide"`
	Start         *string              `json:"start"`
	End           *string              `json:"end"`
	Type          *string              `json:"type"`
	MatchUpFormat *string              `json:"matchUpFormat"`
	Status        *string              `json:"status"`
	Tournament    *struct {
		ProviderTournamentID *string `json:"providerTournamentId"`
	} `json:"tournament"`
	Extensions         []RawExtension `json:"extensions"`
	RoundName          *string        `json:"roundName"`
	CollectionPosition *int           `json:"collectionPosition"`
}

type RawPlayerMatchSet struct {
	WinnerGamesWon *int     `json:"winnerGamesWon"`
	LoserGamesWon  *int     `json:"loserGamesWon"`
	WinRatio       *float64 `json:"winRatio"`
	Tiebreaker     *struct {
		WinnerPointsWon *int `json:"winnerPointsWon"`
		LoserPointsWon  *int `json:"loserPointsWon"`
	} `json:"tiebreaker"`
}

type RawPlayerMatchSide struct {
	SideNumber *int `json:"sideNumber"`
	Players    []struct {
		Person *struct {
			ExternalID       *string `json:"externalID"`
			NativeFamilyName *string `json:"nativeFamilyName"`
			NativeGivenName  *string `json:"nativeGivenName"`
		} `json:"person"`
	} `json:"players"`
	Extensions []RawExtension `json:"extensions"`
}

// RawExtension values are arbitrary JSON; only string values are read.
type RawExtension struct {
	Name  *string         `json:"name"`
	Value json.RawMessage `json:"value"`
}

type RawSeason struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	Status    *string `json:"status"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

type RawSchool struct {
	ID                 *string `json:"id"`
	Name               *string `json:"name"`
	Conference         *string `json:"conference"`
	ITARegion          *string `json:"itaRegion"`
	RankingAwardRegion *string `json:"rankingAwardRegion"`
	USTASection        *string `json:"ustaSection"`
	ManID              *string `json:"manId"`
	WomanID            *string `json:"womanId"`
	Division           *string `json:"division"`
	MailingAddress     *string `json:"mailingAddress"`
	City               *string `json:"city"`
	State              *string `json:"state"`
	ZipCode            *string `json:"zipCode"`
	TeamType           *string `json:"teamType"`
}

// RawRankListSummary is one entry of the published-lists index.
type RawRankListSummary struct {
	ID                 *string `json:"id"`
	PublishDate        *string `json:"publishDate"`
	PlannedPublishDate *string `json:"plannedPublishDate"`
}

type RawRankingList struct {
	ID           *string `json:"id"`
	CreatedAt    *string `json:"createdAt"`
	DivisionType *string `json:"divisionType"`
	Gender       *string `json:"gender"`
	MatchFormat  *string `json:"matchFormat"`
	DateRange    *struct {
		Start *string `json:"start"`
		End   *string `json:"end"`
	} `json:"dateRange"`
	RankingItems *struct {
		TotalItems int              `json:"totalItems"`
		Items      []RawRankingItem `json:"items"`
	} `json:"rankingItems"`
}

type RawRankingItem struct {
	Rank         *int                    `json:"rank"`
	Points       *RawTotal               `json:"points"`
	Wins         *RawTotal               `json:"wins"`
	Losses       *RawTotal               `json:"losses"`
	Participants []RawRankingParticipant `json:"participants"`
	Conference   *string                 `json:"conference"`
}

type RawTotal struct {
	Total *float64 `json:"total"`
}

type RawRankingParticipant struct {
	ParticipantType *string `json:"participantType"`
	ItemID          *string `json:"itemId"`
	Name            *string `json:"name"`
	State           *string `json:"state"`
}

// FlexInt decodes an integer sent either as a JSON number or as a numeric string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		*f = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}
