package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

func strPtr(s string) *string { return &s }

func TestWithTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.WithTx(ctx, func(tx storage.Tx) error {
		require.NoError(t, tx.PutTeam(ctx, models.Team{ID: "T1", Name: "Stanford"}))
		return errors.New("boom")
	})
	require.Error(t, err)

	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		team, err := tx.FindTeam(ctx, "T1")
		assert.Nil(t, team)
		return err
	}))
	assert.Equal(t, 1, s.Commits())
}

func TestFailNextTx(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("commit failed")
	s.FailNextTx(boom)

	err := s.WithTx(ctx, func(tx storage.Tx) error {
		return tx.PutTeam(ctx, models.Team{ID: "T1", Name: "Stanford"})
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		team, _ := tx.FindTeam(ctx, "T1")
		assert.Nil(t, team)
		return nil
	}))
}

func TestSaveAndReplaceOutcomes(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		link := models.WebLink{MatchID: "M1", URL: "https://example.com/box", Name: strPtr("Box score")}
		o, _ := tx.SaveWebLink(ctx, link)
		assert.Equal(t, storage.Inserted, o)
		o, _ = tx.SaveWebLink(ctx, link)
		assert.Equal(t, storage.Unchanged, o)
		link.Name = strPtr("Live")
		o, _ = tx.SaveWebLink(ctx, link)
		assert.Equal(t, storage.Updated, o)

		events := []models.TournamentEvent{{ID: "E2", TournamentID: "t1"}, {ID: "E1", TournamentID: "t1"}}
		o, _ = tx.ReplaceTournamentEvents(ctx, "t1", events)
		assert.Equal(t, storage.Inserted, o)
		o, _ = tx.ReplaceTournamentEvents(ctx, "t1", []models.TournamentEvent{events[1], events[0]})
		assert.Equal(t, storage.Unchanged, o)
		o, _ = tx.ReplaceTournamentEvents(ctx, "t1", events[:1])
		assert.Equal(t, storage.Updated, o)
		return nil
	}))
}

func TestFoldLookups(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.WithTx(ctx, func(tx storage.Tx) error {
		require.NoError(t, tx.PutTeam(ctx, models.Team{ID: "AbC1", Name: "Team"}))
		require.NoError(t, tx.PutTeam(ctx, models.Team{ID: "ZZZ9", Name: "Other"}))
		require.NoError(t, tx.PutSchool(ctx, models.SchoolInfo{ID: "S1", Name: "School", WomanID: strPtr("abc1")}))

		team, err := tx.FindTeamFold(ctx, "ABC1")
		require.NoError(t, err)
		require.NotNil(t, team)
		assert.Equal(t, "AbC1", team.ID)

		school, err := tx.FindSchoolByTeamFold(ctx, "ABC1")
		require.NoError(t, err)
		require.NotNil(t, school)
		assert.Equal(t, "S1", school.ID)

		school, err = tx.FindSchoolByTeam(ctx, "ABC1")
		require.NoError(t, err)
		assert.Nil(t, school, "exact lookup respects case")

		school, err = tx.FindSchoolByTeam(ctx, "abc1")
		require.NoError(t, err)
		require.NotNil(t, school)
		assert.Equal(t, "S1", school.ID)

		orphans, err := tx.TeamsWithoutSchool(ctx)
		require.NoError(t, err)
		require.Len(t, orphans, 1)
		assert.Equal(t, "ZZZ9", orphans[0].ID)
		return nil
	}))
}
