package scorer

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

const excellentRating = 4.5

// Scorer computes fit, opportunity and priority scores.
type Scorer struct {
	cfg        config.ScoringConfig
	slowSiteMS int
	weakCMS    map[string]bool
}

// New creates a Scorer. A page load slower than slowSiteMS counts as a
// slow site; zero or less disables the check.
func New(cfg config.ScoringConfig, slowSiteMS int) *Scorer {
	s := &Scorer{
		cfg:        cfg,
		slowSiteMS: slowSiteMS,
		weakCMS:    make(map[string]bool, len(cfg.Opportunity.WeakCMSNames)),
	}
	for _, name := range cfg.Opportunity.WeakCMSNames {
		s.weakCMS[name] = true
	}
	return s
}

// Fit scores how reachable a prospect is, capped at 100.
func (s *Scorer) Fit(p model.Prospect) int {
	w := s.cfg.Fit
	score := 0

	if p.Website != "" {
		score += w.Website
	}
	if p.Phone != "" {
		score += w.Phone
	}
	if len(p.Emails) > 0 {
		score += w.Email
	}
	if p.FoundInMaps {
		score += w.Maps
	}
	if p.Rating != nil && *p.Rating >= w.MinRating {
		score += w.Rating
	}
	if p.ReviewCount != nil && *p.ReviewCount >= w.MinReviews {
		score += w.Reviews
	}
	if p.FoundInAds {
		score += w.Ads
	}
	if p.FoundInOrganic && p.OrganicPosition > 0 && p.OrganicPosition <= w.OrganicTopN {
		score += w.Organic
	}

	return min(score, 100)
}

// Opportunity scores how much a prospect's marketing could improve,
// clamped to 0-100. A prospect without a website scores NoWebsite and one
// whose site could not be analysed scores NoSignals.
func (s *Scorer) Opportunity(p model.Prospect) int {
	w := s.cfg.Opportunity

	if p.Website == "" {
		return w.NoWebsite
	}
	sig := p.Signals
	if sig == nil || !sig.Reachable {
		return w.NoSignals
	}

	score := 0
	if !sig.HasGoogleAnalytics {
		score += w.NoAnalytics
	}
	if !sig.HasFacebookPixel {
		score += w.NoPixel
	}
	if !sig.HasBookingSystem {
		score += w.NoBooking
	}
	if len(sig.Emails) == 0 {
		score += w.NoEmail
	}
	if s.weakCMS[sig.CMS] {
		score += w.WeakCMS
	}
	if s.isSlow(sig) {
		score += w.SlowSite
	}

	if p.FoundInAds {
		score += w.RunningAds
	}
	if sig.HasGoogleAnalytics && sig.HasFacebookPixel {
		score += w.FullTracking
	}

	if p.FoundInMaps && p.MapsPosition > 1 {
		score += w.LowMapsRank
	}
	if s.weakOrganic(p) {
		score += w.WeakOrganic
	}

	return max(0, min(score, 100))
}

// Priority blends fit and opportunity into a single ranking value.
func (s *Scorer) Priority(fit, opportunity int) float64 {
	v := float64(fit)*s.cfg.FitWeight + float64(opportunity)*s.cfg.OpportunityWeight
	return math.Round(v*100) / 100
}

// Notes describes a prospect's marketing gaps in plain English, grouped
// by theme and separated by "; ".
func (s *Scorer) Notes(p model.Prospect) string {
	var notes []string

	if p.Website == "" {
		notes = append(notes, "No website found - needs web presence")
		if p.FoundInMaps {
			notes = append(notes, "Has Google Business Profile but no site to drive traffic to")
		}
		return strings.Join(notes, "; ")
	}

	sig := p.Signals
	if sig == nil || !sig.Reachable {
		return "Website was unreachable during analysis; technical details unknown"
	}

	var seo, tracking, conversion, technical, strengths []string

	switch {
	case !p.FoundInOrganic:
		seo = append(seo, "not ranking in organic search")
	case p.OrganicPosition > s.cfg.Opportunity.WeakOrganicAfter:
		seo = append(seo, fmt.Sprintf("ranking #%d in organic (room to improve)", p.OrganicPosition))
	}
	if p.FoundInMaps && p.MapsPosition > 1 {
		seo = append(seo, fmt.Sprintf("#%d in local pack (not #1)", p.MapsPosition))
	}

	if !sig.HasGoogleAnalytics {
		tracking = append(tracking, "no Google Analytics")
	}
	if !sig.HasFacebookPixel {
		tracking = append(tracking, "no Facebook Pixel")
	}

	if !sig.HasBookingSystem {
		conversion = append(conversion, "no online booking")
	}
	if len(sig.Emails) == 0 {
		conversion = append(conversion, "no visible contact email")
	}
	if p.Phone == "" {
		conversion = append(conversion, "phone not easily found")
	}

	if s.weakCMS[sig.CMS] {
		technical = append(technical, fmt.Sprintf("using %s (limited platform)", sig.CMS))
	}
	if s.isSlow(sig) {
		technical = append(technical, fmt.Sprintf("slow site (%dms load time)", sig.LoadTimeMS))
	}

	if p.FoundInAds {
		strengths = append(strengths, "already running ads")
	}
	if sig.HasGoogleAnalytics && sig.HasFacebookPixel {
		strengths = append(strengths, "has good tracking setup")
	}
	if p.Rating != nil && *p.Rating >= excellentRating {
		strengths = append(strengths, fmt.Sprintf("excellent reviews (%.1f★)", *p.Rating))
	}

	for _, group := range []struct {
		label string
		items []string
	}{
		{"SEO", seo},
		{"Tracking", tracking},
		{"Conversion", conversion},
		{"Technical", technical},
		{"Note", strengths},
	} {
		if len(group.items) > 0 {
			notes = append(notes, group.label+": "+strings.Join(group.items, ", "))
		}
	}

	if len(notes) == 0 {
		return "Well-optimized - limited obvious opportunities"
	}
	return strings.Join(notes, "; ")
}

// Score returns p with every score and the notes filled in.
func (s *Scorer) Score(p model.Prospect) model.Prospect {
	p.FitScore = s.Fit(p)
	p.OpportunityScore = s.Opportunity(p)
	p.PriorityScore = s.Priority(p.FitScore, p.OpportunityScore)
	p.OpportunityNotes = s.Notes(p)
	return p
}

// ScoreAll scores every prospect and orders them by descending priority.
// Ties keep their input order.
func (s *Scorer) ScoreAll(prospects []model.Prospect) []model.Prospect {
	out := make([]model.Prospect, len(prospects))
	for i, p := range prospects {
		out[i] = s.Score(p)
	}
	slices.SortStableFunc(out, func(a, b model.Prospect) int {
		return cmp.Compare(b.PriorityScore, a.PriorityScore)
	})

	if len(out) > 0 {
		zap.L().Debug("scorer: scored prospects",
			zap.Int("count", len(out)),
			zap.Float64("top_priority", out[0].PriorityScore),
		)
	}
	return out
}

func (s *Scorer) isSlow(sig *model.WebsiteSignals) bool {
	return s.slowSiteMS > 0 && sig.LoadTimeMS > s.slowSiteMS
}

func (s *Scorer) weakOrganic(p model.Prospect) bool {
	if !p.FoundInOrganic {
		return true
	}
	return p.OrganicPosition > s.cfg.Opportunity.WeakOrganicAfter
}
