package model

import "time"

// ResultKind identifies which SERP block a raw result came from.
type ResultKind string

const (
	KindAd      ResultKind = "ad"
	KindMaps    ResultKind = "maps"
	KindOrganic ResultKind = "organic"
)

// AdResult is one paid-search listing.
type AdResult struct {
	Position       int    `json:"position"`
	Headline       string `json:"headline"`
	DisplayURL     string `json:"display_url"`
	DestinationURL string `json:"destination_url"`
	Description    string `json:"description"`
	IsTop          bool   `json:"is_top"` // placed above the organic results
}

// MapsResult is one local-pack listing.
type MapsResult struct {
	Position    int      `json:"position"`
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Category    string   `json:"category,omitempty"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
}

// OrganicResult is one organic listing. Domain is whatever the search
// provider extracted and is not trusted for identity.
type OrganicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Domain   string `json:"domain"`
	Snippet  string `json:"snippet"`
}

// RawResult is a tagged union over the three raw result shapes. Exactly
// the field matching Kind is set.
type RawResult struct {
	Kind    ResultKind
	Ad      *AdResult
	Maps    *MapsResult
	Organic *OrganicResult
}

// FromAd wraps an ad result.
func FromAd(a AdResult) RawResult { return RawResult{Kind: KindAd, Ad: &a} }

// FromMaps wraps a local-pack result.
func FromMaps(m MapsResult) RawResult { return RawResult{Kind: KindMaps, Maps: &m} }

// FromOrganic wraps an organic result.
func FromOrganic(o OrganicResult) RawResult { return RawResult{Kind: KindOrganic, Organic: &o} }

// SerpResults holds every raw result returned for one query.
type SerpResults struct {
	Query     string          `json:"query"`
	Location  string          `json:"location"`
	Timestamp time.Time       `json:"timestamp"`
	Ads       []AdResult      `json:"ads"`
	Maps      []MapsResult    `json:"maps"`
	Organic   []OrganicResult `json:"organic"`
}

// Total returns the number of raw results across all blocks.
func (s SerpResults) Total() int {
	return len(s.Ads) + len(s.Maps) + len(s.Organic)
}
