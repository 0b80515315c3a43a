package models

// Team is keyed by the upstream team id. Stored id casing is preserved across syncs.
type Team struct {
	ID           string
	Name         string
	Abbreviation *string
	Division     *string
	Conference   *string
	Region       *string
	Gender       *string
}

// SchoolInfo links a school to its men's and women's team ids.
type SchoolInfo struct {
	ID                 string
	Name               string
	Conference         *string
	ITARegion          *string
	RankingAwardRegion *string
	USTASection        *string
	ManID              *string
	WomanID            *string
	Division           *string
	MailingAddress     *string
	City               *string
	State              *string
	ZipCode            *string
	TeamType           *string
}

// TeamIDs returns the non-empty men's and women's team ids.
func (s SchoolInfo) TeamIDs() []string {
	var ids []string
	for _, id := range []*string{s.ManID, s.WomanID} {
		if id != nil && *id != "" {
			ids = append(ids, *id)
		}
	}
	return ids
}
