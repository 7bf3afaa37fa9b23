package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"https://www.example.com/page", "example.com", true},
		{"HTTPS://WWW.Example.COM/page", "example.com", true},
		{"example.com", "example.com", true},
		{"  example.com  ", "example.com", true},
		{"http://sub.example.com.au/", "sub.example.com.au", true},
		{"https://www.joesplumbing.com.au/?utm=1", "joesplumbing.com.au", true},
		{"https://example.com:8443/x", "example.com", true},
		{"www.example.org", "example.org", true},
		{"a.bc", "a.bc", true},
		{"", "", false},
		{"   ", "", false},
		{"https:", "", false},
		{"http:", "", false},
		{"https://", "", false},
		{"http://", "", false},
		{"HTTPS://", "", false},
		{"not a url", "", false},
		{"localhost", "", false},
		{"a.b", "", false},
		{"https://exa<mple.com", "", false},
		{"https://example.com\"/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeDomain(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDomain_Deterministic(t *testing.T) {
	a, _ := NormalizeDomain("HTTPS://WWW.Example.COM/page")
	b, _ := NormalizeDomain("example.com")
	assert.Equal(t, "example.com", a)
	assert.Equal(t, a, b)
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "example.com", Domain("https://example.com"))
	assert.Empty(t, Domain("https:"))
}
