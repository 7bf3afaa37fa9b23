package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
)

const formatTable = "table"

// writeOutput renders prospects to outputPath, or stdout when empty. An
// .xlsx path always produces a workbook.
func writeOutput(prospects []model.Prospect, format, outputPath string) error {
	if strings.EqualFold(filepath.Ext(outputPath), ".xlsx") {
		format = export.FormatXLSX
	}
	format = strings.ToLower(format)

	if format == export.FormatXLSX {
		if outputPath == "" {
			return eris.New("output: xlsx format requires --output")
		}
		return export.WriteXLSX(outputPath, prospects)
	}

	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "output: create output file %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	if format == formatTable {
		formatProspects(w, prospects)
		return nil
	}
	return export.Write(w, format, prospects)
}

// formatProspects writes a ranked table of prospects to out.
func formatProspects(out io.Writer, prospects []model.Prospect) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tNAME\tDOMAIN\tPHONE\tSEEN IN\tFIT\tOPP\tPRIORITY")
	for i, p := range prospects {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%.1f\n",
			i+1, truncate(p.Name, 40), dash(p.Domain), dash(p.Phone), seenIn(p),
			p.FitScore, p.OpportunityScore, p.PriorityScore)
	}
	_ = w.Flush()
}

// formatSearches writes a table of saved searches to out.
func formatSearches(out io.Writer, searches []model.Search) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tQUERY\tLOCATION\tADS\tMAPS\tORGANIC\tPROSPECTS\tCREATED")
	for _, s := range searches {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			s.ID, truncate(s.Query, 40), s.Location,
			s.AdsCount, s.MapsCount, s.OrganicCount, s.ProspectCount,
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func seenIn(p model.Prospect) string {
	var parts []string
	if p.FoundInAds {
		parts = append(parts, fmt.Sprintf("ads#%d", p.AdPosition))
	}
	if p.FoundInMaps {
		parts = append(parts, fmt.Sprintf("maps#%d", p.MapsPosition))
	}
	if p.FoundInOrganic {
		parts = append(parts, fmt.Sprintf("organic#%d", p.OrganicPosition))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
