// Package identity turns noisy search-result URLs and business names into
// stable keys used to recognise the same business across result types.
package identity

import (
	"net/url"
	"strings"
)

// degenerateURLs are scheme-only inputs that parse but carry no host.
var degenerateURLs = map[string]bool{
	"http:":    true,
	"https:":   true,
	"http://":  true,
	"https://": true,
}

const invalidHostChars = " \t\n<>\"';"

// NormalizeDomain extracts the canonical domain from a URL or bare host.
// The result is lowercase with no "www." prefix and no port. The second
// return value is false when no usable domain can be derived; malformed
// input never panics.
//
//	"HTTPS://WWW.Example.COM/page" -> "example.com"
//	"http://sub.example.com.au:8080/" -> "sub.example.com.au"
//	"https:" -> ""
func NormalizeDomain(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	lower := strings.ToLower(s)
	if degenerateURLs[lower] {
		return "", false
	}
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}

	if len(host) < 4 || !strings.Contains(host, ".") {
		return "", false
	}
	if strings.ContainsAny(host, invalidHostChars) {
		return "", false
	}

	return host, true
}

// Domain returns the normalized domain or "" when none can be derived.
func Domain(raw string) string {
	d, _ := NormalizeDomain(raw)
	return d
}
