// Package contact decides whether a phone number or email address harvested
// from one source plausibly belongs to the business being profiled.
package contact

import (
	"fmt"
	"strings"
)

// Region is a geographic numbering region identified by its trunk prefix.
type Region struct {
	Code   string `yaml:"code" json:"code"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// Place maps a location keyword (a city, state abbreviation or state name)
// to a region code.
type Place struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Region  string `yaml:"region" json:"region"`
}

// NumberingPlan is the reference data a PhoneValidator consults.
type NumberingPlan struct {
	Regions          []Region
	Places           []Place
	MobilePrefixes   []string
	TollFreePrefixes []string
}

// PhoneValidator checks landline trunk prefixes against a searched location.
// It is immutable after construction and safe for concurrent use.
type PhoneValidator struct {
	regions  []Region
	byCode   map[string]Region
	places   []Place
	mobile   []string
	tollFree []string
}

// NewPhoneValidator builds a validator from a numbering plan. Places are
// matched in the order given; the first keyword found in the location wins.
func NewPhoneValidator(plan NumberingPlan) *PhoneValidator {
	v := &PhoneValidator{
		regions:  plan.Regions,
		byCode:   make(map[string]Region, len(plan.Regions)),
		mobile:   plan.MobilePrefixes,
		tollFree: plan.TollFreePrefixes,
	}
	for _, r := range plan.Regions {
		v.byCode[strings.ToUpper(r.Code)] = r
	}
	for _, p := range plan.Places {
		kw := strings.Join(strings.Fields(strings.ToLower(p.Keyword)), " ")
		if kw == "" {
			continue
		}
		v.places = append(v.places, Place{Keyword: kw, Region: strings.ToUpper(p.Region)})
	}
	return v
}

// NormalizePhone reduces a phone number to digits, collapsing a leading
// +61 or 61 country code to the 0 trunk prefix.
//
//	"+61 7 1234 5678" -> "0712345678"
//	"(07) 1234-5678"  -> "0712345678"
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	switch {
	case strings.HasPrefix(s, "+61"):
		s = "0" + s[3:]
	case strings.HasPrefix(s, "61") && len(s) > 10:
		s = "0" + s[2:]
	}
	return strings.ReplaceAll(s, "+", "")
}

// RegionFor resolves a free-text location to a region by keyword. The
// second return value is false when no keyword matches.
func (v *PhoneValidator) RegionFor(location string) (Region, bool) {
	text := " " + strings.Join(strings.FieldsFunc(strings.ToLower(location), isSeparator), " ") + " "
	for _, p := range v.places {
		if strings.Contains(text, " "+p.Keyword+" ") {
			r, ok := v.byCode[p.Region]
			return r, ok
		}
	}
	return Region{}, false
}

// ValidateForLocation reports whether phone is plausible for a business
// searched in location. Mobile and toll-free numbers are valid anywhere.
// An unresolvable location fails open.
func (v *PhoneValidator) ValidateForLocation(phone, location string) (bool, string) {
	if strings.TrimSpace(phone) == "" {
		return true, "No phone"
	}

	digits := NormalizePhone(phone)
	if digits == "" {
		return false, "Invalid format"
	}

	if hasAnyPrefix(digits, v.mobile) {
		return true, "Mobile"
	}
	if hasAnyPrefix(digits, v.tollFree) {
		return true, "Toll-free"
	}

	expected, ok := v.RegionFor(location)
	if !ok {
		return true, "Unknown location"
	}

	if strings.HasPrefix(digits, expected.Prefix) {
		return true, fmt.Sprintf("Valid %s landline", expected.Code)
	}

	for _, r := range v.regions {
		if r.Prefix != "" && strings.HasPrefix(digits, r.Prefix) {
			return false, fmt.Sprintf("Area code %s is for %s, not %s", r.Prefix, r.Code, expected.Code)
		}
	}

	return true, "Unknown format"
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', ',', '.', '/', '-', '(', ')', '\t', '\n':
		return true
	}
	return false
}
