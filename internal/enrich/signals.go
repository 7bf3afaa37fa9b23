// Package enrich visits prospect homepages and records marketing signals:
// reachability, load time, CMS, tracking tags, booking widgets and the
// contact links published on the page.
package enrich

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Tracking signature names recognised by Analyze.
const (
	TrackGoogleAnalytics = "google_analytics"
	TrackFacebookPixel   = "facebook_pixel"
	TrackGoogleAds       = "google_ads"
)

// Signature names a technology and the substrings that reveal it in page
// source.
type Signature struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// Rules are the reference lists used to read signals from a page and to
// discard machine-generated addresses.
type Rules struct {
	CMS            []Signature
	Tracking       []Signature
	Booking        []string
	SpamDomains    []string
	SpamLocalParts []string
}

var socialDomains = []string{
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"linkedin.com",
	"youtube.com",
	"tiktok.com",
}

// Analyze extracts signals from a fetched page. Signature matching is a
// case-insensitive substring scan of the raw HTML.
func Analyze(page *Page, rules Rules) *model.WebsiteSignals {
	s := &model.WebsiteSignals{
		URL:        page.URL,
		Reachable:  true,
		LoadTimeMS: int(page.LoadTime.Milliseconds()),
	}

	lower := strings.ToLower(page.HTML)
	s.CMS = matchSignature(lower, rules.CMS)
	for _, sig := range rules.Tracking {
		if !containsAny(lower, sig.Patterns) {
			continue
		}
		switch sig.Name {
		case TrackGoogleAnalytics:
			s.HasGoogleAnalytics = true
		case TrackFacebookPixel:
			s.HasFacebookPixel = true
		case TrackGoogleAds:
			s.HasGoogleAds = true
		default:
			zap.L().Debug("enrich: unknown tracking signature", zap.String("name", sig.Name))
		}
	}
	for _, b := range rules.Booking {
		if b != "" && strings.Contains(lower, strings.ToLower(b)) {
			s.HasBookingSystem = true
			s.BookingSystem = b
			break
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		zap.L().Debug("enrich: parse html", zap.String("url", page.URL), zap.Error(err))
		return s
	}

	s.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		s.MetaDescription = strings.TrimSpace(desc)
	}
	s.Emails, s.Phones, s.SocialLinks = contactLinks(doc)

	return s
}

// contactLinks collects mailto:, tel: and social profile links in
// document order, without duplicates.
func contactLinks(doc *goquery.Document) (emails, phones, social []string) {
	seen := make(map[string]bool)
	add := func(dst *[]string, v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		*dst = append(*dst, v)
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		lower := strings.ToLower(href)

		switch {
		case strings.HasPrefix(lower, "mailto:"):
			add(&emails, mailtoAddress(href[len("mailto:"):]))
		case strings.HasPrefix(lower, "tel:"):
			add(&phones, telNumber(href[len("tel:"):]))
		case containsAny(lower, socialDomains):
			add(&social, href)
		}
	})
	return emails, phones, social
}

func mailtoAddress(v string) string {
	if i := strings.IndexByte(v, '?'); i >= 0 {
		v = v[:i]
	}
	if u, err := url.PathUnescape(v); err == nil {
		v = u
	}
	v = strings.ToLower(strings.TrimSpace(v))
	if at := strings.IndexByte(v, '@'); at <= 0 || at == len(v)-1 {
		return ""
	}
	return v
}

func telNumber(v string) string {
	if u, err := url.PathUnescape(v); err == nil {
		v = u
	}
	return strings.TrimSpace(v)
}

func matchSignature(lower string, sigs []Signature) string {
	for _, sig := range sigs {
		if containsAny(lower, sig.Patterns) {
			return sig.Name
		}
	}
	return ""
}

func containsAny(lower string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
