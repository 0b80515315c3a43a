package storage

import (
	"context"
	"fmt"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

var teamsTable = table{
	name: "teams",
	keys: []string{"id"},
	cols: []string{"id", "name", "abbreviation", "division", "conference", "region", "gender"},
}

func teamFields(t *models.Team) []any {
	return []any{&t.ID, &t.Name, &t.Abbreviation, &t.Division, &t.Conference, &t.Region, &t.Gender}
}

var schoolsTable = table{
	name: "school_info",
	keys: []string{"id"},
	cols: []string{
		"id", "name", "conference", "ita_region", "ranking_award_region", "usta_section", "man_id", "woman_id",
		"division", "mailing_address", "city", "state", "zip_code", "team_type",
	},
}

func schoolFields(s *models.SchoolInfo) []any {
	return []any{
		&s.ID, &s.Name, &s.Conference, &s.ITARegion, &s.RankingAwardRegion, &s.USTASection, &s.ManID, &s.WomanID,
		&s.Division, &s.MailingAddress, &s.City, &s.State, &s.ZipCode, &s.TeamType,
	}
}

func (x *pgTx) FindTeam(ctx context.Context, id string) (*models.Team, error) {
	var t models.Team
	ok, err := x.findOne(ctx, teamsTable.selectSQL("id = $1"), teamFields(&t), id)
	if err != nil || !ok {
		return nil, wrapFind("team", err)
	}
	return &t, nil
}

func (x *pgTx) FindTeamFold(ctx context.Context, id string) (*models.Team, error) {
	var t models.Team
	ok, err := x.findOne(ctx, teamsTable.selectSQL("UPPER(id) = UPPER($1) ORDER BY id LIMIT 1"), teamFields(&t), id)
	if err != nil || !ok {
		return nil, wrapFind("team", err)
	}
	return &t, nil
}

func (x *pgTx) PutTeam(ctx context.Context, t models.Team) error {
	return x.put(ctx, teamsTable, teamFields(&t))
}

func (x *pgTx) FindSchool(ctx context.Context, id string) (*models.SchoolInfo, error) {
	var s models.SchoolInfo
	ok, err := x.findOne(ctx, schoolsTable.selectSQL("id = $1"), schoolFields(&s), id)
	if err != nil || !ok {
		return nil, wrapFind("school", err)
	}
	return &s, nil
}

func (x *pgTx) FindSchoolByTeam(ctx context.Context, teamID string) (*models.SchoolInfo, error) {
	var s models.SchoolInfo
	ok, err := x.findOne(ctx, schoolsTable.selectSQL("man_id = $1 OR woman_id = $1 ORDER BY id LIMIT 1"), schoolFields(&s), teamID)
	if err != nil || !ok {
		return nil, wrapFind("school", err)
	}
	return &s, nil
}

func (x *pgTx) FindSchoolByTeamFold(ctx context.Context, teamID string) (*models.SchoolInfo, error) {
	var s models.SchoolInfo
	where := "UPPER(man_id) = UPPER($1) OR UPPER(woman_id) = UPPER($1) ORDER BY id LIMIT 1"
	ok, err := x.findOne(ctx, schoolsTable.selectSQL(where), schoolFields(&s), teamID)
	if err != nil || !ok {
		return nil, wrapFind("school", err)
	}
	return &s, nil
}

func (x *pgTx) PutSchool(ctx context.Context, s models.SchoolInfo) error {
	return x.put(ctx, schoolsTable, schoolFields(&s))
}

func (x *pgTx) Schools(ctx context.Context) ([]models.SchoolInfo, error) {
	schools, err := queryList(ctx, x.q, schoolsTable.selectSQL("TRUE ORDER BY id"), schoolFields)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools: %w", err)
	}
	return schools, nil
}

func (x *pgTx) TeamsWithoutSchool(ctx context.Context) ([]models.Team, error) {
	where := `NOT EXISTS (
		SELECT 1 FROM school_info s
		WHERE UPPER(s.man_id) = UPPER(teams.id) OR UPPER(s.woman_id) = UPPER(teams.id)
	) ORDER BY id`
	teams, err := queryList(ctx, x.q, teamsTable.selectSQL(where), teamFields)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams without school: %w", err)
	}
	return teams, nil
}
