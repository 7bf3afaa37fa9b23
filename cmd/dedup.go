package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// readSerpFile loads saved search results from a JSON file.
func readSerpFile(path string) (*model.SerpResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dedup: read %s", path)
	}
	var serp model.SerpResults
	if err := json.Unmarshal(data, &serp); err != nil {
		return nil, eris.Wrapf(err, "dedup: parse %s", path)
	}
	return &serp, nil
}

var dedupCmd = &cobra.Command{
	Use:   "dedup <results.json>",
	Short: "Deduplicate saved search results offline",
	Long:  "Reads search results saved as JSON (query, location, ads, maps, organic) and prints the merged prospects without calling any external service.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serp, err := readSerpFile(args[0])
		if err != nil {
			return err
		}

		location, _ := cmd.Flags().GetString("location")
		if location != "" {
			serp.Location = location
		}

		comp, err := loadComponents()
		if err != nil {
			return err
		}
		prospects := comp.engine.DeduplicateSERP(*serp)

		score, _ := cmd.Flags().GetBool("score")
		if score {
			sc, err := newScorer()
			if err != nil {
				return err
			}
			prospects = sc.ScoreAll(prospects)
		}

		zap.L().Info("dedup: complete",
			zap.String("file", args[0]),
			zap.Int("raw", serp.Total()),
			zap.Int("prospects", len(prospects)),
		)

		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		return writeOutput(prospects, format, output)
	},
}

func init() {
	dedupCmd.Flags().String("location", "", "override the location stored in the file")
	dedupCmd.Flags().Bool("score", false, "score prospects (without website signals)")
	dedupCmd.Flags().String("format", "json", "output format (table, csv, json, xlsx)")
	dedupCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(dedupCmd)
}
