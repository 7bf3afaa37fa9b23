package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auPlan() NumberingPlan {
	return NumberingPlan{
		Regions: []Region{
			{Code: "QLD", Prefix: "07"},
			{Code: "NSW", Prefix: "02"},
			{Code: "VIC", Prefix: "03"},
			{Code: "SA", Prefix: "08"},
			{Code: "WA", Prefix: "08"},
			{Code: "TAS", Prefix: "03"},
			{Code: "NT", Prefix: "08"},
			{Code: "ACT", Prefix: "02"},
		},
		Places: []Place{
			{Keyword: "brisbane", Region: "QLD"},
			{Keyword: "gold coast", Region: "QLD"},
			{Keyword: "qld", Region: "QLD"},
			{Keyword: "sydney", Region: "NSW"},
			{Keyword: "nsw", Region: "NSW"},
			{Keyword: "melbourne", Region: "VIC"},
			{Keyword: "perth", Region: "WA"},
			{Keyword: "hobart", Region: "TAS"},
			{Keyword: "canberra", Region: "ACT"},
			{Keyword: "act", Region: "ACT"},
			{Keyword: "  ", Region: "ACT"},
		},
		MobilePrefixes:   []string{"04"},
		TollFreePrefixes: []string{"1300", "1800", "13"},
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"+61 7 1234 5678", "0712345678"},
		{"61712345678", "0712345678"},
		{"(07) 1234-5678", "0712345678"},
		{"0412 345 678", "0412345678"},
		{"1300 123 456", "1300123456"},
		{"6112", "6112"},
		{"+1 555 0100", "15550100"},
		{"call us", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestValidateForLocation(t *testing.T) {
	v := NewPhoneValidator(auPlan())

	tests := []struct {
		name     string
		phone    string
		location string
		valid    bool
		reason   string
	}{
		{"empty phone", "", "Brisbane", true, "No phone"},
		{"no digits", "n/a", "Brisbane", false, "Invalid format"},
		{"mobile anywhere", "0412 345 678", "Perth WA", true, "Mobile"},
		{"toll free", "1300 123 456", "Brisbane", true, "Toll-free"},
		{"short code", "13 12 34", "Brisbane", true, "Toll-free"},
		{"unknown location", "02 1111 1111", "Springfield", true, "Unknown location"},
		{"matching landline", "07 1234 5678", "Brisbane, QLD", true, "Valid QLD landline"},
		{"country code", "+61 7 1234 5678", "Gold Coast", true, "Valid QLD landline"},
		{"wrong region", "02 9999 0000", "Brisbane", false, "Area code 02 is for NSW, not QLD"},
		{"shared prefix names first region", "08 9999 0000", "Hobart", false, "Area code 08 is for SA, not TAS"},
		{"nsw prefix for act", "02 6200 0000", "Canberra", true, "Valid ACT landline"},
		{"unknown format", "09 1234 5678", "Sydney", true, "Unknown format"},
		{"keyword needs word boundary", "02 1111 1111", "Contact Centre", true, "Unknown location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := v.ValidateForLocation(tt.phone, tt.location)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestRegionFor(t *testing.T) {
	v := NewPhoneValidator(auPlan())

	r, ok := v.RegionFor("Sydney, NSW 2000")
	require.True(t, ok)
	assert.Equal(t, "NSW", r.Code)
	assert.Equal(t, "02", r.Prefix)

	r, ok = v.RegionFor("GOLD   COAST")
	require.True(t, ok)
	assert.Equal(t, "QLD", r.Code)

	_, ok = v.RegionFor("")
	assert.False(t, ok)

	// Keywords match whole words only.
	_, ok = v.RegionFor("Perthville")
	assert.False(t, ok)
	_, ok = v.RegionFor("Actonville")
	assert.False(t, ok)
}

func TestValidateDomain(t *testing.T) {
	v := NewEmailValidator([]string{"gmail.com", "Bigpond.com", ""})

	tests := []struct {
		name   string
		email  string
		domain string
		valid  bool
		reason string
	}{
		{"exact", "info@fallonsolutions.com.au", "fallonsolutions.com.au", true, "Exact match"},
		{"exact mixed case", "Info@FallonSolutions.com.au", "www.fallonsolutions.com.au", true, "Exact match"},
		{"vendor address", "billy@bkc.media", "fallonsolutions.com.au", false, "Domain mismatch: bkc.media vs fallonsolutions.com.au"},
		{"subdomain", "jo@mail.example.com.au", "example.com.au", true, "Subdomain"},
		{"parent", "jo@example.com", "shop.example.com", true, "Parent domain"},
		{"same base", "jo@mail.example.com.au", "shop.example.com.au", true, "Same base domain"},
		{"same base two labels", "jo@a.example.io", "b.example.io", true, "Same base domain"},
		{"generic provider", "joesplumbing@gmail.com", "joesplumbing.com.au", true, "Generic provider"},
		{"generic provider case folded", "joe@BIGPOND.COM", "joesplumbing.com.au", true, "Generic provider"},
		{"different au business", "sales@other.com.au", "example.com.au", false, "Domain mismatch: other.com.au vs example.com.au"},
		{"no email", "", "example.com", true, "No email or domain"},
		{"no domain", "a@b.com", "", true, "No email or domain"},
		{"no at sign", "example.com", "example.com", true, "Invalid email format"},
		{"trailing at", "joe@", "example.com", true, "Invalid email format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := v.ValidateDomain(tt.email, tt.domain)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestFilterForDomain(t *testing.T) {
	v := NewEmailValidator([]string{"gmail.com"})

	got := v.FilterForDomain([]string{
		"info@fallonsolutions.com.au",
		"billy@bkc.media",
		"",
		"owner@gmail.com",
		"support@intercom.io",
		"accounts@fallonsolutions.com.au",
	}, "fallonsolutions.com.au")

	assert.Equal(t, []string{
		"info@fallonsolutions.com.au",
		"owner@gmail.com",
		"accounts@fallonsolutions.com.au",
	}, got)

	assert.Empty(t, v.FilterForDomain(nil, "example.com"))
}
