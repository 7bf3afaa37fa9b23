// Package scorer ranks prospects by how reachable they are (fit) and how
// much their marketing could improve (opportunity).
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/config"
)

// DefaultScoringConfig returns a config.ScoringConfig with the stock
// weights. Fit weights sum to 100.
func DefaultScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		Fit: config.FitWeights{
			Website:     15,
			Phone:       15,
			Email:       10,
			Maps:        15,
			Rating:      10,
			Reviews:     10,
			Ads:         10,
			Organic:     15,
			MinRating:   4.0,
			MinReviews:  10,
			OrganicTopN: 10,
		},
		Opportunity: config.OpportunityWeights{
			NoWebsite:        80,
			NoSignals:        50,
			NoAnalytics:      15,
			NoPixel:          10,
			NoBooking:        15,
			NoEmail:          10,
			WeakCMS:          10,
			SlowSite:         10,
			RunningAds:       -10,
			FullTracking:     -10,
			LowMapsRank:      10,
			WeakOrganic:      20,
			WeakOrganicAfter: 5,
			WeakCMSNames:     []string{"Wix", "Weebly", "GoDaddy Website Builder"},
		},
		FitWeight:         0.4,
		OpportunityWeight: 0.6,
	}
}

// FitWeightSum returns the maximum fit score before capping.
func FitWeightSum(c config.ScoringConfig) int {
	f := c.Fit
	return f.Website + f.Phone + f.Email + f.Maps + f.Rating + f.Reviews + f.Ads + f.Organic
}

// ValidateConfig checks that a ScoringConfig is internally consistent.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	fit := map[string]int{
		"fit.website": c.Fit.Website,
		"fit.phone":   c.Fit.Phone,
		"fit.email":   c.Fit.Email,
		"fit.maps":    c.Fit.Maps,
		"fit.rating":  c.Fit.Rating,
		"fit.reviews": c.Fit.Reviews,
		"fit.ads":     c.Fit.Ads,
		"fit.organic": c.Fit.Organic,
	}
	for name, w := range fit {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}
	if FitWeightSum(c) <= 0 {
		errs = append(errs, "fit weight sum must be > 0")
	}

	if c.Fit.MinRating < 0 || c.Fit.MinRating > 5 {
		errs = append(errs, "fit.min_rating must be between 0 and 5")
	}
	if c.Fit.MinReviews < 0 {
		errs = append(errs, "fit.min_reviews must be >= 0")
	}
	if c.Fit.OrganicTopN < 0 {
		errs = append(errs, "fit.organic_top_n must be >= 0")
	}

	o := c.Opportunity
	if o.NoWebsite < 0 || o.NoWebsite > 100 {
		errs = append(errs, "opportunity.no_website must be between 0 and 100")
	}
	if o.NoSignals < 0 || o.NoSignals > 100 {
		errs = append(errs, "opportunity.no_signals must be between 0 and 100")
	}
	if o.RunningAds > 0 || o.FullTracking > 0 {
		errs = append(errs, "opportunity penalties must be <= 0")
	}

	if c.FitWeight < 0 || c.OpportunityWeight < 0 {
		errs = append(errs, "fit_weight and opportunity_weight must be >= 0")
	}
	// Priority weights should sum to 1 (allow tolerance for floating-point).
	if sum := c.FitWeight + c.OpportunityWeight; math.Abs(sum-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("fit_weight + opportunity_weight should sum to 1, got %.2f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
