package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
)

var prospectsCmd = &cobra.Command{
	Use:   "prospects",
	Short: "Query and export saved prospects",
}

func prospectFilterFromFlags(cmd *cobra.Command) store.ProspectFilter {
	minFit, _ := cmd.Flags().GetInt("min-fit")
	minOpp, _ := cmd.Flags().GetInt("min-opportunity")
	minPriority, _ := cmd.Flags().GetFloat64("min-priority")
	limit, _ := cmd.Flags().GetInt("limit")
	return store.ProspectFilter{
		MinFit:         minFit,
		MinOpportunity: minOpp,
		MinPriority:    minPriority,
		Limit:          limit,
	}
}

func loadProspects(ctx context.Context, cmd *cobra.Command) ([]model.Prospect, error) {
	if err := cfg.Validate("prospects"); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return nil, err
	}

	searchID, _ := cmd.Flags().GetString("search-id")
	if searchID != "" {
		if _, err := st.GetSearch(ctx, searchID); err != nil {
			return nil, err
		}
	}

	prospects, err := st.ListProspects(ctx, searchID, prospectFilterFromFlags(cmd))
	if err != nil {
		return nil, eris.Wrap(err, "prospects")
	}

	merge, _ := cmd.Flags().GetBool("merge")
	if !merge {
		return prospects, nil
	}
	comp, err := loadComponents()
	if err != nil {
		return nil, err
	}
	return comp.engine.MergeProspects(prospects), nil
}

// -- prospects list --

var prospectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved prospects by priority",
	RunE: func(cmd *cobra.Command, _ []string) error {
		prospects, err := loadProspects(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if len(prospects) == 0 {
			fmt.Fprintln(os.Stderr, "No prospects found.")
			return nil
		}
		formatProspects(os.Stdout, prospects)
		return nil
	},
}

// -- prospects export --

var prospectsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved prospects as CSV, JSON or XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		prospects, err := loadProspects(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = cfg.Export.Format
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = cfg.Export.Path
		}

		if err := writeOutput(prospects, format, output); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(os.Stderr, "Exported %d prospects to %s\n", len(prospects), output)
		}
		return nil
	},
}

func addProspectFilterFlags(cmd *cobra.Command, limit int) {
	cmd.Flags().String("search-id", "", "restrict to one search (default all searches)")
	cmd.Flags().Int("min-fit", 0, "minimum fit score")
	cmd.Flags().Int("min-opportunity", 0, "minimum opportunity score")
	cmd.Flags().Float64("min-priority", 0, "minimum priority score")
	cmd.Flags().Int("limit", limit, "max number of prospects")
	cmd.Flags().Bool("merge", false, "merge the same business seen in several searches")
}

func init() {
	addProspectFilterFlags(prospectsListCmd, 50)
	addProspectFilterFlags(prospectsExportCmd, 1000)
	prospectsExportCmd.Flags().String("format", "", "export format: csv, json, xlsx (default export.format)")
	prospectsExportCmd.Flags().StringP("output", "o", "", "output file (default export.path, then stdout)")

	prospectsCmd.AddCommand(prospectsListCmd)
	prospectsCmd.AddCommand(prospectsExportCmd)
	rootCmd.AddCommand(prospectsCmd)
}
