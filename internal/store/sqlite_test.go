package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func scored(name, domain string, fit, opp int, priority float64) model.Prospect {
	return model.Prospect{
		Name:             name,
		Domain:           domain,
		Emails:           []string{},
		FitScore:         fit,
		OpportunityScore: opp,
		PriorityScore:    priority,
		Source:           model.SourceMaps,
	}
}

func testSearch(created time.Time) model.Search {
	return model.Search{
		BusinessType: "plumber",
		Query:        "plumber Sydney NSW",
		Location:     "Sydney NSW",
		AdsCount:     2,
		MapsCount:    3,
		OrganicCount: 5,
		CreatedAt:    created,
	}
}

func TestSQLite_SaveAndGetSearch(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	id, err := s.SaveSearch(ctx, testSearch(created), []model.Prospect{
		scored("Acme Plumbing", "acme.com.au", 80, 60, 66),
		scored("Bob's Drains", "", 50, 90, 66),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := s.GetSearch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "plumber", got.BusinessType)
	assert.Equal(t, "Sydney NSW", got.Location)
	assert.Equal(t, 2, got.AdsCount)
	assert.Equal(t, 3, got.MapsCount)
	assert.Equal(t, 5, got.OrganicCount)
	assert.Equal(t, 2, got.ProspectCount)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestSQLite_GetSearch_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.GetSearch(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ListSearches_NewestFirst(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	older, err := s.SaveSearch(ctx, testSearch(base), nil)
	require.NoError(t, err)
	newer, err := s.SaveSearch(ctx, testSearch(base.Add(time.Hour)), nil)
	require.NoError(t, err)

	searches, err := s.ListSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, newer, searches[0].ID)
	assert.Equal(t, older, searches[1].ID)

	searches, err = s.ListSearches(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, searches, 1)
}

func TestSQLite_ListProspects_OrderAndRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	rating := 4.7
	reviews := 120
	full := scored("Acme Plumbing", "acme.com.au", 80, 60, 66)
	full.Website = "https://acme.com.au"
	full.Phone = "02 9000 0000"
	full.Emails = []string{"info@acme.com.au"}
	full.Rating = &rating
	full.ReviewCount = &reviews
	full.FoundInMaps = true
	full.MapsPosition = 1
	full.Signals = &model.WebsiteSignals{URL: "https://acme.com.au", Reachable: true, CMS: "wordpress"}

	id, err := s.SaveSearch(ctx, testSearch(time.Now()), []model.Prospect{
		scored("Low", "low.com", 10, 10, 10),
		full,
		scored("Tie", "tie.com", 50, 90, 66),
	})
	require.NoError(t, err)

	got, err := s.ListProspects(ctx, id, ProspectFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Equal priorities keep their saved order.
	assert.Equal(t, "Acme Plumbing", got[0].Name)
	assert.Equal(t, "Tie", got[1].Name)
	assert.Equal(t, "Low", got[2].Name)

	assert.Equal(t, full, got[0])
	assert.Equal(t, []string{}, got[1].Emails)
}

func TestSQLite_ListProspects_Filters(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	id, err := s.SaveSearch(ctx, testSearch(time.Now()), []model.Prospect{
		scored("A", "a.com", 90, 20, 48),
		scored("B", "b.com", 30, 95, 69),
		scored("C", "c.com", 70, 70, 70),
	})
	require.NoError(t, err)
	other, err := s.SaveSearch(ctx, testSearch(time.Now()), []model.Prospect{
		scored("D", "d.com", 100, 100, 100),
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		searchID string
		filter   ProspectFilter
		want     []string
	}{
		{"all in search", id, ProspectFilter{}, []string{"C", "B", "A"}},
		{"min fit", id, ProspectFilter{MinFit: 70}, []string{"C", "A"}},
		{"min opportunity", id, ProspectFilter{MinOpportunity: 70}, []string{"C", "B"}},
		{"min priority", id, ProspectFilter{MinPriority: 69}, []string{"C", "B"}},
		{"limit", id, ProspectFilter{Limit: 1}, []string{"C"}},
		{"other search", other, ProspectFilter{}, []string{"D"}},
		{"across searches", "", ProspectFilter{MinFit: 90}, []string{"D", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListProspects(ctx, tt.searchID, tt.filter)
			require.NoError(t, err)
			names := make([]string, len(got))
			for i, p := range got {
				names[i] = p.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSQLite_SaveSearch_KeepsProvidedID(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	search := testSearch(time.Now())
	search.ID = "fixed-id"
	id, err := s.SaveSearch(ctx, search, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	_, err = s.SaveSearch(ctx, search, nil)
	assert.Error(t, err)
}
