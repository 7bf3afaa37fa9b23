package model

import "time"

// Search records one search run and the size of each result block.
type Search struct {
	ID            string    `json:"id"`
	BusinessType  string    `json:"business_type"`
	Query         string    `json:"query"`
	Location      string    `json:"location"`
	AdsCount      int       `json:"ads_count"`
	MapsCount     int       `json:"maps_count"`
	OrganicCount  int       `json:"organic_count"`
	ProspectCount int       `json:"prospect_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewSearch summarises raw results for persistence. ProspectCount is
// filled in when the prospects are saved.
func NewSearch(businessType string, serp SerpResults) Search {
	return Search{
		BusinessType: businessType,
		Query:        serp.Query,
		Location:     serp.Location,
		AdsCount:     len(serp.Ads),
		MapsCount:    len(serp.Maps),
		OrganicCount: len(serp.Organic),
		CreatedAt:    serp.Timestamp,
	}
}
