package store

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProspectQuery(t *testing.T) {
	tests := []struct {
		name     string
		searchID string
		filter   ProspectFilter
		ph       sq.PlaceholderFormat
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filter",
			ph:      sq.Question,
			wantSQL: "SELECT data FROM prospects ORDER BY priority_score DESC, search_id, ordinal LIMIT 100",
		},
		{
			name:     "all criteria dollar",
			searchID: "s1",
			filter:   ProspectFilter{MinFit: 50, MinOpportunity: 40, MinPriority: 45.5, Limit: 10},
			ph:       sq.Dollar,
			wantSQL: "SELECT data FROM prospects WHERE search_id = $1 AND fit_score >= $2 AND opportunity_score >= $3 " +
				"AND priority_score >= $4 ORDER BY priority_score DESC, search_id, ordinal LIMIT 10",
			wantArgs: []any{"s1", 50, 40, 45.5},
		},
		{
			name:     "question placeholders",
			searchID: "s1",
			ph:       sq.Question,
			wantSQL:  "SELECT data FROM prospects WHERE search_id = ? ORDER BY priority_score DESC, search_id, ordinal LIMIT 100",
			wantArgs: []any{"s1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := prospectQuery(tt.searchID, tt.filter, tt.ph)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}
