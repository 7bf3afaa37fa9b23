// Package directory recognises search results that point at directories,
// marketplaces, social networks and review aggregators rather than a
// business's own website.
package directory

import (
	"strings"

	"go.uber.org/zap"
)

// Classifier holds an immutable domain blocklist and URL pattern list.
// It is safe for concurrent use.
type Classifier struct {
	domains  map[string]struct{}
	patterns []string
}

// New builds a Classifier from a blocklist of domains and a list of URL
// path substrings. Entries are lowercased; blanks are ignored.
func New(domains, patterns []string) *Classifier {
	c := &Classifier{
		domains: make(map[string]struct{}, len(domains)),
	}
	for _, d := range domains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			c.domains[d] = struct{}{}
		}
	}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			c.patterns = append(c.patterns, p)
		}
	}
	return c
}

// IsDirectoryDomain reports whether domain equals, or is a subdomain of, a
// blocklisted domain. domain is expected in canonical form.
func (c *Classifier) IsDirectoryDomain(domain string) bool {
	host := strings.ToLower(domain)
	if host == "" {
		return false
	}
	if _, ok := c.domains[host]; ok {
		return true
	}
	// Walk parent domains: a.b.example.com -> b.example.com -> example.com.
	for i := strings.IndexByte(host, '.'); i >= 0; i = strings.IndexByte(host, '.') {
		host = host[i+1:]
		if _, ok := c.domains[host]; ok {
			return true
		}
	}
	return false
}

// IsDirectoryURL reports whether a result is a directory page, either
// because its domain is blocklisted or because the raw URL contains a
// directory-style path segment. The pattern check also fires on domains
// outside the blocklist.
func (c *Classifier) IsDirectoryURL(rawURL, domain string) bool {
	if c.IsDirectoryDomain(domain) {
		zap.L().Debug("directory: blocked domain",
			zap.String("domain", domain), zap.String("reason", "blocklist"))
		return true
	}

	lower := strings.ToLower(rawURL)
	for _, p := range c.patterns {
		if strings.Contains(lower, p) {
			zap.L().Debug("directory: blocked url pattern",
				zap.String("domain", domain), zap.String("pattern", p), zap.String("reason", "url_pattern"))
			return true
		}
	}
	return false
}

// Domains returns the number of blocklisted domains.
func (c *Classifier) Domains() int { return len(c.domains) }
