// Package dedup collapses the ad, local-pack and organic results of one
// search into a single prospect per business.
package dedup

import (
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/identity"
	"github.com/sells-group/prospect-cli/internal/model"
)

// DirectoryChecker rejects directory, marketplace and social results.
type DirectoryChecker interface {
	IsDirectoryURL(rawURL, domain string) bool
	IsDirectoryDomain(domain string) bool
}

// PhoneChecker decides whether a listing phone suits the searched location.
type PhoneChecker interface {
	ValidateForLocation(phone, location string) (bool, string)
}

// Engine builds and merges prospects. It keeps no per-run state, so one
// Engine may serve concurrent searches.
type Engine struct {
	dirs   DirectoryChecker
	phones PhoneChecker
}

// New creates an Engine.
func New(dirs DirectoryChecker, phones PhoneChecker) *Engine {
	return &Engine{dirs: dirs, phones: phones}
}

// Build turns one raw result into a prospect. The second return value is
// false when the result is a directory or carries neither a domain nor a
// usable name. location is the searched location used to vet listing
// phones.
func (e *Engine) Build(r model.RawResult, location string) (model.Prospect, bool) {
	var (
		p      model.Prospect
		rawURL string
	)

	switch r.Kind {
	case model.KindMaps:
		if r.Maps == nil {
			return model.Prospect{}, false
		}
		p, rawURL = e.fromMaps(*r.Maps, location), r.Maps.Website
	case model.KindAd:
		if r.Ad == nil {
			return model.Prospect{}, false
		}
		p, rawURL = fromAd(*r.Ad), r.Ad.DestinationURL
	case model.KindOrganic:
		if r.Organic == nil {
			return model.Prospect{}, false
		}
		p, rawURL = fromOrganic(*r.Organic), r.Organic.URL
	default:
		return model.Prospect{}, false
	}

	if p.Domain != "" && e.dirs.IsDirectoryURL(rawURL, p.Domain) {
		zap.L().Debug("dedup: directory filtered",
			zap.String("source", string(r.Kind)), zap.String("domain", p.Domain))
		return model.Prospect{}, false
	}
	if p.Domain == "" && identity.NormalizeName(p.Name) == "" {
		zap.L().Debug("dedup: result has no identity",
			zap.String("source", string(r.Kind)), zap.String("url", rawURL))
		return model.Prospect{}, false
	}

	return p, true
}

func (e *Engine) fromMaps(m model.MapsResult, location string) model.Prospect {
	var domain string
	if m.Website != "" {
		domain = identity.Domain(m.Website)
	}

	phone := m.Phone
	if phone != "" {
		if ok, reason := e.phones.ValidateForLocation(phone, location); !ok {
			zap.L().Debug("dedup: listing phone discarded",
				zap.String("domain", domain), zap.String("phone", phone), zap.String("reason", reason))
			phone = ""
		}
	}

	rating, reviews := m.Rating, m.ReviewCount
	if rating == nil {
		embeddedRating, embeddedReviews := identity.ExtractRating(m.Name)
		rating = embeddedRating
		if reviews == nil {
			reviews = embeddedReviews
		}
	}

	return model.Prospect{
		Name:         identity.CleanBusinessName(m.Name),
		Website:      m.Website,
		Domain:       domain,
		Phone:        phone,
		Address:      m.Address,
		Rating:       rating,
		ReviewCount:  reviews,
		Category:     m.Category,
		FoundInMaps:  true,
		MapsPosition: m.Position,
		Emails:       []string{},
		Source:       model.SourceMaps,
	}
}

// fromAd never sets phone or address; ads do not carry contact data.
func fromAd(a model.AdResult) model.Prospect {
	return model.Prospect{
		Name:       identity.CleanBusinessName(a.Headline),
		Website:    a.DestinationURL,
		Domain:     identity.Domain(a.DestinationURL),
		FoundInAds: true,
		AdPosition: a.Position,
		Emails:     []string{},
		Source:     model.SourceAds,
	}
}

// fromOrganic derives the domain from the result URL and ignores the
// provider's pre-extracted domain.
func fromOrganic(o model.OrganicResult) model.Prospect {
	return model.Prospect{
		Name:            identity.CleanBusinessName(o.Title),
		Website:         o.URL,
		Domain:          identity.Domain(o.URL),
		FoundInOrganic:  true,
		OrganicPosition: o.Position,
		Emails:          []string{},
		Source:          model.SourceOrganic,
	}
}
