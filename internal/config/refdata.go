package config

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/enrich"
)

//go:embed reference.yaml
var defaultReferenceYAML []byte

// ReferenceData is the curated data consulted by directory filtering,
// contact validation and website signal detection. It is loaded once per
// process and treated as read-only.
type ReferenceData struct {
	DirectoryDomains      []string           `yaml:"directory_domains"`
	ExtraDirectoryDomains []string           `yaml:"extra_directory_domains"`
	DirectoryURLPatterns  []string           `yaml:"directory_url_patterns"`
	Regions               []contact.Region   `yaml:"regions"`
	Locations             []contact.Place    `yaml:"locations"`
	MobilePrefixes        []string           `yaml:"mobile_prefixes"`
	TollFreePrefixes      []string           `yaml:"tollfree_prefixes"`
	GenericEmailProviders []string           `yaml:"generic_email_providers"`
	SpamEmailDomains      []string           `yaml:"spam_email_domains"`
	SpamEmailLocalParts   []string           `yaml:"spam_email_local_parts"`
	CMSSignatures         []enrich.Signature `yaml:"cms_signatures"`
	TrackingSignatures    []enrich.Signature `yaml:"tracking_signatures"`
	BookingSignatures     []string           `yaml:"booking_signatures"`
}

// DefaultReferenceData returns the embedded reference data.
func DefaultReferenceData() (*ReferenceData, error) {
	var rd ReferenceData
	if err := yaml.Unmarshal(defaultReferenceYAML, &rd); err != nil {
		return nil, eris.Wrap(err, "config: parse embedded reference data")
	}
	return &rd, nil
}

// LoadReferenceData returns the embedded reference data with the file at
// path applied on top. Lists present in the file replace the defaults and
// extra_directory_domains is appended to the directory blocklist. An
// empty path returns the defaults.
func LoadReferenceData(path string) (*ReferenceData, error) {
	rd, err := DefaultReferenceData()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return rd, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read reference data %s", path)
	}

	var override ReferenceData
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, eris.Wrapf(err, "config: parse reference data %s", path)
	}

	replace(&rd.DirectoryDomains, override.DirectoryDomains)
	replace(&rd.DirectoryURLPatterns, override.DirectoryURLPatterns)
	replace(&rd.Regions, override.Regions)
	replace(&rd.Locations, override.Locations)
	replace(&rd.MobilePrefixes, override.MobilePrefixes)
	replace(&rd.TollFreePrefixes, override.TollFreePrefixes)
	replace(&rd.GenericEmailProviders, override.GenericEmailProviders)
	replace(&rd.SpamEmailDomains, override.SpamEmailDomains)
	replace(&rd.SpamEmailLocalParts, override.SpamEmailLocalParts)
	replace(&rd.CMSSignatures, override.CMSSignatures)
	replace(&rd.TrackingSignatures, override.TrackingSignatures)
	replace(&rd.BookingSignatures, override.BookingSignatures)
	rd.ExtraDirectoryDomains = append(rd.ExtraDirectoryDomains, override.ExtraDirectoryDomains...)

	return rd, nil
}

func replace[T any](dst *[]T, src []T) {
	if len(src) > 0 {
		*dst = src
	}
}

// BlockedDomains returns the directory blocklist including extra domains.
func (r *ReferenceData) BlockedDomains() []string {
	out := make([]string, 0, len(r.DirectoryDomains)+len(r.ExtraDirectoryDomains))
	out = append(out, r.DirectoryDomains...)
	return append(out, r.ExtraDirectoryDomains...)
}

// NumberingPlan returns the phone region tables.
func (r *ReferenceData) NumberingPlan() contact.NumberingPlan {
	return contact.NumberingPlan{
		Regions:          r.Regions,
		Places:           r.Locations,
		MobilePrefixes:   r.MobilePrefixes,
		TollFreePrefixes: r.TollFreePrefixes,
	}
}

// SignalRules returns the signature and spam lists used by enrichment.
func (r *ReferenceData) SignalRules() enrich.Rules {
	return enrich.Rules{
		CMS:            r.CMSSignatures,
		Tracking:       r.TrackingSignatures,
		Booking:        r.BookingSignatures,
		SpamDomains:    r.SpamEmailDomains,
		SpamLocalParts: r.SpamEmailLocalParts,
	}
}
