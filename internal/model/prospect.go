package model

// Source tags record where a prospect was first seen.
const (
	SourceAds     = "ads"
	SourceMaps    = "maps"
	SourceOrganic = "organic"
)

// Prospect is one real-world business assembled from SERP sightings.
// Domain is the primary identity; a prospect without a domain is keyed by
// its normalized name. Phone and Address only ever come from local-pack
// listings.
type Prospect struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
	Domain  string `json:"domain,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	FoundInAds      bool `json:"found_in_ads"`
	AdPosition      int  `json:"ad_position,omitempty"`
	FoundInMaps     bool `json:"found_in_maps"`
	MapsPosition    int  `json:"maps_position,omitempty"`
	FoundInOrganic  bool `json:"found_in_organic"`
	OrganicPosition int  `json:"organic_position,omitempty"`

	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Category    string   `json:"category,omitempty"`

	Emails []string `json:"emails"`

	Signals *WebsiteSignals `json:"signals,omitempty"`

	FitScore         int     `json:"fit_score"`
	OpportunityScore int     `json:"opportunity_score"`
	PriorityScore    float64 `json:"priority_score"`
	OpportunityNotes string  `json:"opportunity_notes,omitempty"`
	Source           string  `json:"source"`
}

// WebsiteSignals are marketing signals read from a prospect's homepage.
type WebsiteSignals struct {
	URL                string   `json:"url"`
	Reachable          bool     `json:"reachable"`
	LoadTimeMS         int      `json:"load_time_ms,omitempty"`
	Title              string   `json:"title,omitempty"`
	MetaDescription    string   `json:"meta_description,omitempty"`
	CMS                string   `json:"cms,omitempty"`
	HasGoogleAnalytics bool     `json:"has_google_analytics"`
	HasFacebookPixel   bool     `json:"has_facebook_pixel"`
	HasGoogleAds       bool     `json:"has_google_ads"`
	HasBookingSystem   bool     `json:"has_booking_system"`
	BookingSystem      string   `json:"booking_system,omitempty"`
	Emails             []string `json:"emails,omitempty"`
	Phones             []string `json:"phones,omitempty"`
	SocialLinks        []string `json:"social_links,omitempty"`
	Error              string   `json:"error,omitempty"`
}
