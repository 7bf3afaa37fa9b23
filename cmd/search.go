package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/dedup"
	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/scorer"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/serpapi"
)

// searchPipeline runs one search end to end. A nil enricher skips website
// checks and a nil store skips persistence.
type searchPipeline struct {
	serp     serpapi.Client
	engine   *dedup.Engine
	enricher *enrich.Enricher
	scorer   *scorer.Scorer
	store    store.Store
}

type searchOutcome struct {
	SearchID  string
	Serp      *model.SerpResults
	Prospects []model.Prospect
}

func (p *searchPipeline) Run(ctx context.Context, businessType, location string) (*searchOutcome, error) {
	log := zap.L().With(zap.String("business_type", businessType), zap.String("location", location))

	serp, err := p.serp.Search(ctx, businessType, location)
	if err != nil {
		return nil, eris.Wrap(err, "search: fetch results")
	}

	prospects := p.engine.DeduplicateSERP(*serp)
	log.Info("search: deduplicated",
		zap.Int("raw", serp.Total()),
		zap.Int("prospects", len(prospects)),
	)

	if p.enricher != nil {
		prospects = p.enricher.EnrichAll(ctx, prospects, location)
	}
	prospects = p.scorer.ScoreAll(prospects)

	out := &searchOutcome{Serp: serp, Prospects: prospects}
	if p.store == nil {
		return out, nil
	}

	id, err := p.store.SaveSearch(ctx, model.NewSearch(businessType, *serp), prospects)
	if err != nil {
		return nil, eris.Wrap(err, "search: save results")
	}
	out.SearchID = id
	log.Info("search: saved", zap.String("search_id", id))
	return out, nil
}

var searchCmd = &cobra.Command{
	Use:   "search <business-type> [location]",
	Short: "Search, deduplicate, enrich and score local businesses",
	Long:  "Queries Google through SerpAPI for a business type in a location, merges the ads, map listings and organic results into prospects, checks each website for marketing signals, scores and saves them.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		location, _ := cmd.Flags().GetString("location")
		if len(args) == 2 {
			location = args[1]
		}
		if location == "" {
			location = cfg.Search.Location
		}
		if location == "" {
			return eris.New("search: location is required (argument, --location or search.location)")
		}

		if err := cfg.Validate("search"); err != nil {
			return err
		}

		comp, err := loadComponents()
		if err != nil {
			return err
		}
		sc, err := newScorer()
		if err != nil {
			return err
		}

		p := &searchPipeline{
			serp:   newSerpClient(cfg.SerpAPI),
			engine: comp.engine,
			scorer: sc,
		}

		skipEnrich, _ := cmd.Flags().GetBool("skip-enrichment")
		if !skipEnrich && !cfg.Search.SkipEnrichment {
			p.enricher = newEnricher(cfg.Enrich, comp)
		}

		noSave, _ := cmd.Flags().GetBool("no-save")
		if !noSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			p.store = st
		}

		out, err := p.Run(ctx, args[0], location)
		if err != nil {
			return err
		}

		if out.SearchID != "" {
			fmt.Fprintf(os.Stderr, "Saved search %s (%d prospects)\n", out.SearchID, len(out.Prospects))
		}

		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		return writeOutput(out.Prospects, format, output)
	},
}

func init() {
	searchCmd.Flags().String("location", "", "search location, e.g. \"Brisbane, QLD\"")
	searchCmd.Flags().Bool("skip-enrichment", false, "skip website signal checks")
	searchCmd.Flags().Bool("no-save", false, "do not persist the search")
	searchCmd.Flags().String("format", formatTable, "output format (table, csv, json, xlsx)")
	searchCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(searchCmd)
}
