package serpapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/identity"
	"github.com/sells-group/prospect-cli/internal/model"
)

// searchResponse is the subset of a SerpAPI Google response we read.
type searchResponse struct {
	Ads            []adItem        `json:"ads"`
	LocalResults   json.RawMessage `json:"local_results"`
	OrganicResults []organicItem   `json:"organic_results"`
}

type adItem struct {
	Position      *int   `json:"position"`
	Title         string `json:"title"`
	DisplayedLink string `json:"displayed_link"`
	Link          string `json:"link"`
	Description   string `json:"description"`
	BlockPosition string `json:"block_position"`
}

type placeItem struct {
	Position *int     `json:"position"`
	Title    string   `json:"title"`
	Rating   *float64 `json:"rating"`
	Reviews  *float64 `json:"reviews"`
	Type     string   `json:"type"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Website  string   `json:"website"`
	Links    struct {
		Website string `json:"website"`
	} `json:"links"`
}

type organicItem struct {
	Position *int   `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

func (r searchResponse) toResults(query, location string) (*model.SerpResults, error) {
	places, err := decodePlaces(r.LocalResults)
	if err != nil {
		return nil, err
	}

	return &model.SerpResults{
		Query:    query,
		Location: location,
		Ads:      parseAds(r.Ads),
		Maps:     parsePlaces(places),
		Organic:  parseOrganic(r.OrganicResults),
	}, nil
}

// decodePlaces accepts local_results as either {"places": [...]} or a
// bare list. Absent or null yields no places.
func decodePlaces(raw json.RawMessage) ([]placeItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var places []placeItem
		if err := json.Unmarshal(raw, &places); err != nil {
			return nil, eris.Wrap(err, "serpapi: unmarshal local results")
		}
		return places, nil
	case '{':
		var wrapped struct {
			Places []placeItem `json:"places"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, eris.Wrap(err, "serpapi: unmarshal local results")
		}
		return wrapped.Places, nil
	default:
		zap.L().Debug("serpapi: ignoring unexpected local_results shape")
		return nil, nil
	}
}

func parseAds(items []adItem) []model.AdResult {
	out := make([]model.AdResult, 0, len(items))
	for _, ad := range items {
		out = append(out, model.AdResult{
			Position:       positionOr(ad.Position, len(out)+1),
			Headline:       ad.Title,
			DisplayURL:     ad.DisplayedLink,
			DestinationURL: ad.Link,
			Description:    ad.Description,
			IsTop:          strings.EqualFold(ad.BlockPosition, "top"),
		})
	}
	return out
}

func parsePlaces(items []placeItem) []model.MapsResult {
	out := make([]model.MapsResult, 0, len(items))
	for i, p := range items {
		website := p.Website
		if website == "" {
			website = p.Links.Website
		}
		m := model.MapsResult{
			Position: positionOr(p.Position, i+1),
			Name:     p.Title,
			Rating:   p.Rating,
			Category: p.Type,
			Address:  p.Address,
			Phone:    p.Phone,
			Website:  website,
		}
		if p.Reviews != nil {
			n := int(math.Round(*p.Reviews))
			m.ReviewCount = &n
		}
		out = append(out, m)
	}
	return out
}

func parseOrganic(items []organicItem) []model.OrganicResult {
	out := make([]model.OrganicResult, 0, len(items))
	for _, item := range items {
		out = append(out, model.OrganicResult{
			Position: positionOr(item.Position, len(out)+1),
			Title:    item.Title,
			URL:      item.Link,
			Domain:   identity.Domain(item.Link),
			Snippet:  item.Snippet,
		})
	}
	return out
}

func positionOr(p *int, fallback int) int {
	if p == nil || *p <= 0 {
		return fallback
	}
	return *p
}
