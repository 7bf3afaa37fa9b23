package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/dedup"
	"github.com/sells-group/prospect-cli/internal/directory"
	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/scorer"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/serpapi"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "prospects.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// components are the collaborators built from reference data. The
// validators are shared by the engine and the enricher.
type components struct {
	engine      *dedup.Engine
	emails      *contact.EmailValidator
	phones      *contact.PhoneValidator
	rules       enrich.Rules
	directories int
}

func buildComponents(rd *config.ReferenceData) components {
	phones := contact.NewPhoneValidator(rd.NumberingPlan())
	dirs := directory.New(rd.BlockedDomains(), rd.DirectoryURLPatterns)
	return components{
		engine:      dedup.New(dirs, phones),
		emails:      contact.NewEmailValidator(rd.GenericEmailProviders),
		phones:      phones,
		rules:       rd.SignalRules(),
		directories: dirs.Domains(),
	}
}

func loadComponents() (components, error) {
	rd, err := config.LoadReferenceData(cfg.Reference.Path)
	if err != nil {
		return components{}, err
	}
	comp := buildComponents(rd)
	zap.L().Debug("reference data loaded",
		zap.String("path", cfg.Reference.Path),
		zap.Int("directory_domains", comp.directories),
		zap.Int("url_patterns", len(rd.DirectoryURLPatterns)),
	)
	return comp, nil
}

// serpRetryConfig treats max_retries as retries after the first attempt,
// matching the website fetcher.
func serpRetryConfig(c config.SerpAPIConfig) resilience.RetryConfig {
	return resilience.WithRetries(c.MaxRetries)
}

func newSerpClient(c config.SerpAPIConfig) serpapi.Client {
	opts := []serpapi.Option{
		serpapi.WithLocale(c.GoogleDomain, c.GL, c.HL),
		serpapi.WithNumResults(c.NumResults),
		serpapi.WithRateLimit(c.RateLimit),
		serpapi.WithRetry(serpRetryConfig(c)),
	}
	if c.BaseURL != "" {
		opts = append(opts, serpapi.WithBaseURL(c.BaseURL))
	}
	if c.TimeoutSecs > 0 {
		opts = append(opts, serpapi.WithHTTPClient(&http.Client{Timeout: time.Duration(c.TimeoutSecs) * time.Second}))
	}
	return serpapi.NewClient(c.Key, opts...)
}

func newEnricher(c config.EnrichConfig, comp components) *enrich.Enricher {
	fetcher := enrich.NewHTTPFetcher(enrich.FetchOptions{
		UserAgent: c.UserAgent,
		Timeout:   time.Duration(c.TimeoutSecs) * time.Second,
	})
	return enrich.New(fetcher, comp.rules, comp.emails, comp.phones,
		enrich.WithConcurrency(c.Concurrency),
		enrich.WithRateLimit(c.RateLimit),
	)
}

func newScorer() (*scorer.Scorer, error) {
	if err := scorer.ValidateConfig(cfg.Scoring); err != nil {
		return nil, err
	}
	return scorer.New(cfg.Scoring, cfg.Enrich.SlowSiteMS), nil
}
