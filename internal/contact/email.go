package contact

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// genericSLDs are second-level labels under which the registrable domain
// spans three labels, as in example.com.au.
var genericSLDs = map[string]bool{
	"com": true,
	"net": true,
	"org": true,
	"gov": true,
	"edu": true,
}

// EmailValidator checks that an email address belongs to a website's
// domain or to a consumer mail provider.
type EmailValidator struct {
	providers map[string]struct{}
}

// NewEmailValidator builds a validator that accepts addresses at any of the
// given consumer mail provider domains.
func NewEmailValidator(providers []string) *EmailValidator {
	v := &EmailValidator{providers: make(map[string]struct{}, len(providers))}
	for _, p := range providers {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			v.providers[p] = struct{}{}
		}
	}
	return v
}

// ValidateDomain reports whether email plausibly belongs to websiteDomain,
// with a short reason. Missing inputs fail open.
func (v *EmailValidator) ValidateDomain(email, websiteDomain string) (bool, string) {
	if email == "" || websiteDomain == "" {
		return true, "No email or domain"
	}

	var emailDomain string
	if i := strings.LastIndex(email, "@"); i >= 0 {
		emailDomain = strings.ToLower(strings.TrimSpace(email[i+1:]))
	}
	site := strings.ReplaceAll(strings.ToLower(websiteDomain), "www.", "")

	if emailDomain == "" {
		return true, "Invalid email format"
	}

	switch {
	case emailDomain == site:
		return true, "Exact match"
	case strings.HasSuffix(emailDomain, "."+site):
		return true, "Subdomain"
	case strings.HasSuffix(site, "."+emailDomain):
		return true, "Parent domain"
	case baseDomain(emailDomain) == baseDomain(site):
		return true, "Same base domain"
	}

	if _, ok := v.providers[emailDomain]; ok {
		return true, "Generic provider"
	}

	return false, fmt.Sprintf("Domain mismatch: %s vs %s", emailDomain, site)
}

// FilterForDomain keeps, in order, the addresses that pass ValidateDomain.
// Blank entries are dropped.
func (v *EmailValidator) FilterForDomain(emails []string, websiteDomain string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if strings.TrimSpace(e) == "" {
			continue
		}
		ok, reason := v.ValidateDomain(e, websiteDomain)
		if !ok {
			zap.L().Debug("contact: dropped email",
				zap.String("email", e), zap.String("domain", websiteDomain), zap.String("reason", reason))
			continue
		}
		out = append(out, e)
	}
	return out
}

// baseDomain approximates the registrable domain: the last three labels
// under a generic second-level label, otherwise the last two.
func baseDomain(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) >= 3 && genericSLDs[parts[len(parts)-2]] {
		return strings.Join(parts[len(parts)-3:], ".")
	}
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return domain
}
