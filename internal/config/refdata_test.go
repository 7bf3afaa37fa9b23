package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultReferenceData(t *testing.T) {
	rd, err := DefaultReferenceData()
	require.NoError(t, err)

	assert.Contains(t, rd.DirectoryDomains, "yelp.com")
	assert.Contains(t, rd.DirectoryDomains, "hipages.com.au")
	assert.Contains(t, rd.DirectoryURLPatterns, "/r/")
	assert.Contains(t, rd.DirectoryURLPatterns, "/search?")
	assert.Empty(t, rd.ExtraDirectoryDomains)
	require.Len(t, rd.Regions, 8)
	assert.Equal(t, "QLD", rd.Regions[0].Code)
	assert.Equal(t, "07", rd.Regions[0].Prefix)
	assert.Equal(t, "brisbane", rd.Locations[0].Keyword)
	assert.Equal(t, []string{"04"}, rd.MobilePrefixes)
	assert.Equal(t, []string{"1300", "1800", "13"}, rd.TollFreePrefixes)
	assert.Contains(t, rd.GenericEmailProviders, "bigpond.com")
	assert.Contains(t, rd.SpamEmailDomains, "sentry.io")
	assert.Contains(t, rd.SpamEmailLocalParts, "noreply")
	require.NotEmpty(t, rd.CMSSignatures)
	assert.Equal(t, "WordPress", rd.CMSSignatures[0].Name)
	require.Len(t, rd.TrackingSignatures, 3)
	assert.Contains(t, rd.BookingSignatures, "calendly.com")
}

func TestDefaultReferenceData_Tables(t *testing.T) {
	rd, err := DefaultReferenceData()
	require.NoError(t, err)

	plan := rd.NumberingPlan()
	assert.Equal(t, rd.Regions, plan.Regions)
	assert.Equal(t, rd.Locations, plan.Places)

	codes := map[string]bool{}
	for _, r := range rd.Regions {
		codes[r.Code] = true
	}
	for _, l := range rd.Locations {
		assert.True(t, codes[l.Region], "location %q maps to unknown region %q", l.Keyword, l.Region)
	}
}

func TestLoadReferenceData_EmptyPath(t *testing.T) {
	rd, err := LoadReferenceData("")
	require.NoError(t, err)
	def, err := DefaultReferenceData()
	require.NoError(t, err)
	assert.Equal(t, def, rd)
}

func TestLoadReferenceData_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.yaml")
	yaml := `
extra_directory_domains:
  - localdirectory.com.au
generic_email_providers:
  - fastmail.com
regions:
  - {code: AKL, prefix: "09"}
locations:
  - {keyword: auckland, region: AKL}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	rd, err := LoadReferenceData(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"fastmail.com"}, rd.GenericEmailProviders)
	require.Len(t, rd.Regions, 1)
	assert.Equal(t, "AKL", rd.Regions[0].Code)
	assert.Contains(t, rd.DirectoryDomains, "yelp.com")

	blocked := rd.BlockedDomains()
	assert.Contains(t, blocked, "yelp.com")
	assert.Contains(t, blocked, "localdirectory.com.au")
	assert.Len(t, blocked, len(rd.DirectoryDomains)+1)
}

func TestLoadReferenceData_MissingFile(t *testing.T) {
	_, err := LoadReferenceData(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read reference data")
}

func TestLoadReferenceData_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions: {not: [a list"), 0o644))

	_, err := LoadReferenceData(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse reference data")
}
