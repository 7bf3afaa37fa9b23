// Package export writes scored prospects as CSV, JSON or XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Columns is the fixed column order of tabular exports.
var Columns = []string{
	"name", "domain", "website", "phone", "emails", "address",
	"rating", "reviews", "category",
	"found_in_ads", "ad_position", "found_in_maps", "maps_position",
	"found_in_organic", "organic_position",
	"fit_score", "opportunity_score", "priority_score",
	"opportunity_notes", "source",
}

// Write encodes prospects to w in the given format.
func Write(w io.Writer, format string, prospects []model.Prospect) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return writeCSV(w, prospects)
	case FormatJSON:
		return writeJSON(w, prospects)
	case FormatXLSX:
		f, err := buildWorkbook(prospects)
		if err != nil {
			return err
		}
		return eris.Wrap(f.Write(w), "export: write xlsx")
	default:
		return eris.Errorf("export: unsupported format %q", format)
	}
}

func writeCSV(w io.Writer, prospects []model.Prospect) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}
	for _, p := range prospects {
		if err := cw.Write(Row(p)); err != nil {
			return eris.Wrapf(err, "export: write CSV row %q", p.Name)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush CSV")
}

func writeJSON(w io.Writer, prospects []model.Prospect) error {
	if prospects == nil {
		prospects = []model.Prospect{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(prospects), "export: encode JSON")
}

// Row flattens a prospect into Columns order. Absent optional values are
// empty strings and emails are joined with "; ".
func Row(p model.Prospect) []string {
	return []string{
		p.Name,
		p.Domain,
		p.Website,
		p.Phone,
		strings.Join(p.Emails, "; "),
		p.Address,
		floatPtr(p.Rating),
		intPtr(p.ReviewCount),
		p.Category,
		strconv.FormatBool(p.FoundInAds),
		position(p.AdPosition),
		strconv.FormatBool(p.FoundInMaps),
		position(p.MapsPosition),
		strconv.FormatBool(p.FoundInOrganic),
		position(p.OrganicPosition),
		strconv.Itoa(p.FitScore),
		strconv.Itoa(p.OpportunityScore),
		strconv.FormatFloat(p.PriorityScore, 'f', 2, 64),
		p.OpportunityNotes,
		p.Source,
	}
}

func floatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 1, 64)
}

func intPtr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func position(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
