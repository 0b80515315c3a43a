package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage/memstore"
)

func sp(s string) *string { return &s }
func ip(i int) *int       { return &i }

func seed(t *testing.T, store storage.Store, fn func(ctx context.Context, tx storage.Tx) error) {
	t.Helper()
	require.NoError(t, store.WithTx(context.Background(), func(tx storage.Tx) error {
		return fn(context.Background(), tx)
	}))
}

func TestResolveSides(t *testing.T) {
	row := func(team string, side int, home bool) models.MatchTeam {
		return models.MatchTeam{MatchID: "m", TeamID: team, SideNumber: ip(side), IsHomeTeam: home}
	}
	tests := []struct {
		name     string
		rows     []models.MatchTeam
		wantHome *string
		wantAway *string
	}{
		{name: "no rows"},
		{name: "single row", rows: []models.MatchTeam{row("A", 1, false)}, wantHome: sp("A")},
		{name: "flagged home second", rows: []models.MatchTeam{row("A", 1, false), row("B", 2, true)}, wantHome: sp("B"), wantAway: sp("A")},
		{name: "no flags", rows: []models.MatchTeam{row("A", 1, false), row("B", 2, false)}, wantHome: sp("A"), wantAway: sp("B")},
		{name: "both flagged", rows: []models.MatchTeam{row("A", 1, true), row("B", 2, true)}, wantHome: sp("A"), wantAway: sp("B")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, away := ResolveSides(tt.rows)
			assert.Equal(t, tt.wantHome, home)
			assert.Equal(t, tt.wantAway, away)
		})
	}
}

func TestNullTeams(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		for _, m := range []models.Match{
			{ID: "m0"},
			{ID: "m1"},
			{ID: "m2"},
			{ID: "m3", HomeTeamID: sp("KEEP")},
			{ID: "m4", HomeTeamID: sp("B")},
			{ID: "m5", HomeTeamID: sp("B")},
			{ID: "m6", AwayTeamID: sp("A")},
		} {
			require.NoError(t, tx.PutMatch(ctx, m))
		}
		for _, mt := range []models.MatchTeam{
			{MatchID: "m1", TeamID: "A", SideNumber: ip(1)},
			{MatchID: "m2", TeamID: "A", SideNumber: ip(1)},
			{MatchID: "m2", TeamID: "B", SideNumber: ip(2), IsHomeTeam: true},
			{MatchID: "m3", TeamID: "X", SideNumber: ip(1), IsHomeTeam: true},
			{MatchID: "m3", TeamID: "Y", SideNumber: ip(2)},
			{MatchID: "m4", TeamID: "A", SideNumber: ip(1)},
			{MatchID: "m4", TeamID: "B", SideNumber: ip(2)},
			{MatchID: "m5", TeamID: "B", SideNumber: ip(1)},
			{MatchID: "m6", TeamID: "A", SideNumber: ip(1), IsHomeTeam: true},
			{MatchID: "m6", TeamID: "B", SideNumber: ip(2)},
		} {
			if _, err := tx.SaveMatchTeam(ctx, mt); err != nil {
				return err
			}
		}
		return nil
	})

	res, err := Run(ctx, NullTeams{}, store, Options{BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 7, Updated: 5, Unresolved: 3}, res)

	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		m, err := tx.FindMatch(ctx, "m2")
		require.NoError(t, err)
		assert.Equal(t, "B", *m.HomeTeamID)
		assert.Equal(t, "A", *m.AwayTeamID)

		m, err = tx.FindMatch(ctx, "m3")
		require.NoError(t, err)
		assert.Equal(t, "KEEP", *m.HomeTeamID, "existing reference is never overwritten")
		assert.Equal(t, "Y", *m.AwayTeamID)

		m, err = tx.FindMatch(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, "A", *m.HomeTeamID)
		assert.Nil(t, m.AwayTeamID)

		m, err = tx.FindMatch(ctx, "m4")
		require.NoError(t, err)
		assert.Equal(t, "B", *m.HomeTeamID)
		assert.Equal(t, "A", *m.AwayTeamID, "away is never the stored home team")

		m, err = tx.FindMatch(ctx, "m5")
		require.NoError(t, err)
		assert.Equal(t, "B", *m.HomeTeamID)
		assert.Nil(t, m.AwayTeamID, "only row is the home team")

		m, err = tx.FindMatch(ctx, "m6")
		require.NoError(t, err)
		assert.Equal(t, "B", *m.HomeTeamID, "home is never the stored away team")
		assert.Equal(t, "A", *m.AwayTeamID)
		return nil
	})

	again, err := NullTeams{}.Run(ctx, store, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Updated)
}

func TestNullTeams_DryRun(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		require.NoError(t, tx.PutMatch(ctx, models.Match{ID: "m"}))
		_, err := tx.SaveMatchTeam(ctx, models.MatchTeam{MatchID: "m", TeamID: "A", SideNumber: ip(1), IsHomeTeam: true})
		require.NoError(t, err)
		_, err = tx.SaveMatchTeam(ctx, models.MatchTeam{MatchID: "m", TeamID: "B", SideNumber: ip(2)})
		return err
	})

	res, err := NullTeams{}.Run(ctx, store, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		m, err := tx.FindMatch(ctx, "m")
		require.NoError(t, err)
		assert.Nil(t, m.HomeTeamID)
		assert.Nil(t, m.AwayTeamID)
		return nil
	})
}

func TestAbbreviation(t *testing.T) {
	tests := []struct {
		team models.Team
		want string
	}{
		{models.Team{Name: "Stanford", Abbreviation: sp("STAN")}, "STAN"},
		{models.Team{Name: "St. Mary's College"}, "ST."},
		{models.Team{Name: "Ole Miss", Abbreviation: sp(" ")}, "OLE"},
		{models.Team{Name: "ab"}, "AB"},
		{models.Team{Name: "école"}, "ÉCO"},
	}
	for _, tt := range tests {
		t.Run(tt.team.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, Abbreviation(tt.team))
		})
	}
}

func TestAbbreviations(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		require.NoError(t, tx.PutTeam(ctx, models.Team{ID: "H", Name: "St. Mary's College"}))
		require.NoError(t, tx.PutTeam(ctx, models.Team{ID: "A", Name: "Pepperdine", Abbreviation: sp("PEPP")}))
		require.NoError(t, tx.PutMatch(ctx, models.Match{ID: "m", HomeTeamID: sp("H"), AwayTeamID: sp("A")}))
		for _, mt := range []models.MatchTeam{
			{MatchID: "m", TeamID: "H", IsHomeTeam: true},
			{MatchID: "m", TeamID: "A"},
		} {
			if _, err := tx.SaveMatchTeam(ctx, mt); err != nil {
				return err
			}
		}
		require.NoError(t, tx.PutLineup(ctx, models.MatchLineup{ID: "L1", MatchID: "m"}))
		require.NoError(t, tx.PutLineup(ctx, models.MatchLineup{ID: "L2", MatchID: "m", Side2Name: sp("KEEP")}))
		return tx.PutLineup(ctx, models.MatchLineup{ID: "L3", MatchID: "orphan"})
	})

	res, err := Abbreviations{}.Run(ctx, store, Options{})
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 3, Updated: 2, Unresolved: 2}, res)

	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		l, err := tx.FindLineup(ctx, "L1")
		require.NoError(t, err)
		assert.Equal(t, "ST.", *l.Side1Name)
		assert.Equal(t, "PEPP", *l.Side2Name)

		l, err = tx.FindLineup(ctx, "L2")
		require.NoError(t, err)
		assert.Equal(t, "ST.", *l.Side1Name)
		assert.Equal(t, "KEEP", *l.Side2Name)
		return nil
	})

	again, err := Abbreviations{}.Run(ctx, store, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Updated)
}

func TestClassYears(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		for _, s := range []models.Season{
			{ID: "s23", Name: "2023-2024"},
			{ID: "s24", Name: "2024-2025"},
			{ID: "s25", Name: "2025-2026", Status: models.SeasonStatusActive},
			{ID: "s26", Name: "2026-2027"},
		} {
			require.NoError(t, tx.PutSeason(ctx, s))
		}
		for _, ps := range []models.PlayerSeason{
			{PersonID: "p1", SeasonID: "s25", ClassYear: sp("Junior")},
			{PersonID: "p1", SeasonID: "s24", ClassYear: sp("Junior")},
			{PersonID: "p1", SeasonID: "s23"},
			{PersonID: "p1", SeasonID: "s26", ClassYear: sp("Senior")},
			{PersonID: "p2", SeasonID: "s25", ClassYear: sp("Redshirt")},
			{PersonID: "p2", SeasonID: "s24", ClassYear: sp("Senior")},
			{PersonID: "p3", SeasonID: "s25", ClassYear: sp("Freshman")},
			{PersonID: "p3", SeasonID: "s24", ClassYear: sp("Freshman")},
		} {
			require.NoError(t, tx.PutPlayerSeason(ctx, ps))
		}
		return nil
	})

	res, err := ClassYears{}.Run(ctx, store, Options{BatchSize: 1})
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 3, Updated: 1, Skipped: 2}, res, "unknown active label and a later season are skipped")

	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		want := map[string]string{"s23": "Freshman", "s24": "Sophomore", "s25": "Junior"}
		for season, label := range want {
			ps, err := tx.FindPlayerSeason(ctx, "p1", season)
			require.NoError(t, err)
			assert.Equal(t, label, *ps.ClassYear, season)
		}
		later, err := tx.FindPlayerSeason(ctx, "p1", "s26")
		require.NoError(t, err)
		assert.Equal(t, "Senior", *later.ClassYear, "later seasons are left alone")

		ps, err := tx.FindPlayerSeason(ctx, "p2", "s24")
		require.NoError(t, err)
		assert.Equal(t, "Senior", *ps.ClassYear, "unknown active label leaves history alone")
		return nil
	})

	again, err := ClassYears{}.Run(ctx, store, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Updated)
}

func TestClassYears_RequiresOneActiveSeason(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		require.NoError(t, tx.PutSeason(ctx, models.Season{ID: "a", Name: "2024-2025", Status: models.SeasonStatusActive}))
		return tx.PutSeason(ctx, models.Season{ID: "b", Name: "2025-2026", Status: models.SeasonStatusActive})
	})

	_, err := ClassYears{}.Run(ctx, store, Options{})
	assert.ErrorIs(t, err, ErrNoActiveSeason)
}

func TestTeamAttributes(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		require.NoError(t, tx.PutTeam(ctx, models.Team{ID: "m-1", Name: "Stanford"}))
		require.NoError(t, tx.PutTeam(ctx, models.Team{ID: "w-1", Name: "Stanford", Conference: sp("ACC")}))
		require.NoError(t, tx.PutTeam(ctx, models.Team{ID: "lost", Name: "Nowhere"}))
		return tx.PutSchool(ctx, models.SchoolInfo{
			ID: "sc", Name: "Stanford", Conference: sp("Pac-12"), ITARegion: sp("Northwest"),
			ManID: sp("M-1"), WomanID: sp("w-1"),
		})
	})

	res, err := TeamAttributes{}.Run(ctx, store, Options{})
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 3, Updated: 2, Unresolved: 1}, res)

	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		m, err := tx.FindTeam(ctx, "m-1")
		require.NoError(t, err)
		assert.Equal(t, "Pac-12", *m.Conference)
		assert.Equal(t, "Northwest", *m.Region)

		w, err := tx.FindTeam(ctx, "w-1")
		require.NoError(t, err)
		assert.Equal(t, "ACC", *w.Conference, "existing conference is kept")
		assert.Equal(t, "Northwest", *w.Region)
		return nil
	})
}

func TestTeamAttributes_PrefersExactTeamID(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		require.NoError(t, tx.PutTeam(ctx, models.Team{ID: "ABC", Name: "Upper"}))
		require.NoError(t, tx.PutSchool(ctx, models.SchoolInfo{ID: "S1", Name: "Lower", ManID: sp("abc"), Conference: sp("WRONG")}))
		return tx.PutSchool(ctx, models.SchoolInfo{ID: "S2", Name: "Upper", ManID: sp("ABC"), Conference: sp("RIGHT")})
	})

	res, err := TeamAttributes{}.Run(ctx, store, Options{})
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 1, Updated: 1}, res)

	seed(t, store, func(ctx context.Context, tx storage.Tx) error {
		team, err := tx.FindTeam(ctx, "ABC")
		require.NoError(t, err)
		assert.Equal(t, "RIGHT", *team.Conference)
		return nil
	})
}

func TestLookup(t *testing.T) {
	for _, j := range All() {
		got, ok := Lookup(j.Name())
		require.True(t, ok, j.Name())
		assert.Equal(t, j.Name(), got.Name())
	}
	_, ok := Lookup("nope")
	assert.False(t, ok)
}
