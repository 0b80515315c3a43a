package upsert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
)

func TestMergeTeam(t *testing.T) {
	stored := models.Team{ID: "abc", Name: "Old", Abbreviation: sp("OLD"), Conference: sp("SEC"), Gender: sp("MALE")}

	tests := []struct {
		name        string
		in          models.Team
		want        models.Team
		wantChanged bool
	}{
		{
			name:        "same data",
			in:          models.Team{ID: "ABC", Name: "Old", Abbreviation: sp("OLD"), Gender: sp("MALE")},
			want:        stored,
			wantChanged: false,
		},
		{
			name:        "name and abbreviation from upstream",
			in:          models.Team{ID: "ABC", Name: "New", Abbreviation: sp("NEW"), Region: sp("West"), Gender: sp("MALE")},
			want:        models.Team{ID: "abc", Name: "New", Abbreviation: sp("NEW"), Conference: sp("SEC"), Region: sp("West"), Gender: sp("MALE")},
			wantChanged: true,
		},
		{
			name:        "empty attribute does not erase",
			in:          models.Team{ID: "abc", Name: "Old", Abbreviation: sp(""), Conference: nil, Gender: sp("MALE")},
			want:        stored,
			wantChanged: false,
		},
		{
			name:        "gender always from upstream",
			in:          models.Team{ID: "abc", Name: "Old", Gender: sp("FEMALE")},
			want:        models.Team{ID: "abc", Name: "Old", Abbreviation: sp("OLD"), Conference: sp("SEC"), Gender: sp("FEMALE")},
			wantChanged: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := mergeTeam(stored, tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestMergeTournament(t *testing.T) {
	open := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	stored := models.Tournament{
		ID: "t1", Name: "Old", Image: sp("img"), IdentificationCode: sp("CODE"), EntriesOpen: &open,
		LocationName: sp("Courts"), Town: sp("Austin"), RegistrationStatus: models.RegistrationOpen,
	}
	in := models.Tournament{ID: "t1", Name: "New", Town: sp("Dallas"), RegistrationStatus: models.RegistrationClosed}

	got, changed := mergeTournament(stored, in)
	assert.True(t, changed)
	assert.Equal(t, "New", got.Name)
	assert.Nil(t, got.Image, "image always follows upstream")
	assert.Equal(t, "CODE", *got.IdentificationCode)
	assert.Equal(t, open, *got.EntriesOpen)
	assert.Equal(t, "Courts", *got.LocationName)
	assert.Equal(t, "Dallas", *got.Town)
	assert.Equal(t, models.RegistrationClosed, got.RegistrationStatus)
}

func TestMergeMatch_KeepsReconciledTeams(t *testing.T) {
	stored := models.Match{ID: "m", HomeTeamID: sp("A"), AwayTeamID: sp("B"), Season: sp("2024")}
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	in := models.Match{ID: "m", StartDate: &start, NoScheduledTime: true, Completed: true}

	got, changed := mergeMatch(stored, in)
	assert.True(t, changed)
	assert.Equal(t, "A", *got.HomeTeamID)
	assert.Equal(t, "2024", *got.Season)
	assert.True(t, got.Completed)
	assert.Nil(t, got.ScheduledTime)
}

func TestOverlay_NestedStructs(t *testing.T) {
	stored := models.TournamentMatch{ID: "m", Side1: models.MatchSide{SchoolName: sp("Stanford"), Seed: ip(1)}, RoundNumber: 1}
	in := models.TournamentMatch{ID: "m", Side1: models.MatchSide{Seed: ip(2)}, RoundNumber: 2}

	got, changed := mergeUpstream(stored, in)
	assert.True(t, changed)
	assert.Equal(t, "Stanford", *got.Side1.SchoolName)
	assert.Equal(t, 2, *got.Side1.Seed)
	assert.Equal(t, 2, got.RoundNumber)
}
