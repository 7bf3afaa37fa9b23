package store

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// ErrNotFound is returned when a search does not exist.
var ErrNotFound = eris.New("store: not found")

// ProspectFilter specifies criteria for listing prospects. Zero values
// disable a criterion.
type ProspectFilter struct {
	MinFit         int     `json:"min_fit,omitempty"`
	MinOpportunity int     `json:"min_opportunity,omitempty"`
	MinPriority    float64 `json:"min_priority,omitempty"`
	Limit          int     `json:"limit,omitempty"`
}

// Store defines persistence for search runs and their prospects.
type Store interface {
	// Searches
	SaveSearch(ctx context.Context, search model.Search, prospects []model.Prospect) (string, error)
	GetSearch(ctx context.Context, searchID string) (*model.Search, error)
	ListSearches(ctx context.Context, limit int) ([]model.Search, error)

	// Prospects
	ListProspects(ctx context.Context, searchID string, filter ProspectFilter) ([]model.Prospect, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

var prospectColumns = []string{
	"id", "search_id", "ordinal", "name", "domain",
	"fit_score", "opportunity_score", "priority_score", "data",
}

// prospectQuery builds the filtered prospect listing. An empty searchID
// lists across all searches. Results are ordered by descending priority
// and then by their position within the search.
func prospectQuery(searchID string, f ProspectFilter, ph sq.PlaceholderFormat) (string, []any, error) {
	q := sq.Select("data").From("prospects")
	if searchID != "" {
		q = q.Where(sq.Eq{"search_id": searchID})
	}
	if f.MinFit > 0 {
		q = q.Where(sq.GtOrEq{"fit_score": f.MinFit})
	}
	if f.MinOpportunity > 0 {
		q = q.Where(sq.GtOrEq{"opportunity_score": f.MinOpportunity})
	}
	if f.MinPriority > 0 {
		q = q.Where(sq.GtOrEq{"priority_score": f.MinPriority})
	}
	q = q.OrderBy("priority_score DESC", "search_id", "ordinal")

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	q = q.Limit(uint64(limit))

	query, args, err := q.PlaceholderFormat(ph).ToSql()
	return query, args, eris.Wrap(err, "store: build prospect query")
}

// prospectRow flattens a prospect into prospectColumns order.
func prospectRow(id, searchID string, ordinal int, p model.Prospect) ([]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, eris.Wrapf(err, "store: marshal prospect %q", p.Name)
	}
	return []any{
		id, searchID, ordinal, p.Name, p.Domain,
		p.FitScore, p.OpportunityScore, p.PriorityScore, string(data),
	}, nil
}

func decodeProspect(data string) (model.Prospect, error) {
	var p model.Prospect
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return p, eris.Wrap(err, "store: unmarshal prospect")
	}
	if p.Emails == nil {
		p.Emails = []string{}
	}
	return p, nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
