package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

func tableProspects() []model.Prospect {
	return []model.Prospect{
		{
			Name:          "Acme Plumbing",
			Domain:        "acmeplumbing.com.au",
			Phone:         "02 9000 1234",
			Emails:        []string{},
			FoundInAds:    true,
			AdPosition:    1,
			FoundInMaps:   true,
			MapsPosition:  3,
			FitScore:      70,
			PriorityScore: 58.2,
		},
		{
			Name:   "A Very Long Business Name That Keeps Going Past Forty Runes",
			Emails: []string{},
		},
	}
}

func TestFormatProspects(t *testing.T) {
	var buf bytes.Buffer
	formatProspects(&buf, tableProspects())

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "PRIORITY")
	assert.Contains(t, out, "Acme Plumbing")
	assert.Contains(t, out, "ads#1,maps#3")
	assert.Contains(t, out, "58.2")
	assert.Contains(t, out, "A Very Long Business Name That Keeps ...")
}

func TestFormatSearches(t *testing.T) {
	var buf bytes.Buffer
	formatSearches(&buf, []model.Search{{
		ID:            "abc123",
		Query:         "plumber Sydney NSW",
		Location:      "Sydney NSW",
		MapsCount:     3,
		ProspectCount: 7,
		CreatedAt:     time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}})

	out := buf.String()
	assert.Contains(t, out, "PROSPECTS")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "plumber Sydney NSW")
	assert.Contains(t, out, "2025-06-15 10:30")
}

func TestSeenIn(t *testing.T) {
	assert.Equal(t, "-", seenIn(model.Prospect{}))
	assert.Equal(t, "organic#4", seenIn(model.Prospect{FoundInOrganic: true, OrganicPosition: 4}))
}

func TestWriteOutput_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeOutput(tableProspects(), "json", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []model.Prospect
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 2)
}

func TestWriteOutput_XLSXByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.XLSX")
	require.NoError(t, writeOutput(tableProspects(), "csv", path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Len(t, f.Sheets[0].Rows, 3)
}

func TestWriteOutput_XLSXNeedsPath(t *testing.T) {
	err := writeOutput(tableProspects(), "xlsx", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires --output")
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeOutput(tableProspects(), "yaml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
