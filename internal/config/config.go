package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	SerpAPI   SerpAPIConfig   `yaml:"serpapi" mapstructure:"serpapi"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SerpAPIConfig holds SerpAPI credentials and Google search parameters.
type SerpAPIConfig struct {
	Key          string  `yaml:"key" mapstructure:"key"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	GoogleDomain string  `yaml:"google_domain" mapstructure:"google_domain"`
	GL           string  `yaml:"gl" mapstructure:"gl"`
	HL           string  `yaml:"hl" mapstructure:"hl"`
	NumResults   int     `yaml:"num_results" mapstructure:"num_results"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit    float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	MaxRetries   int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// SearchConfig sets defaults for the search command.
type SearchConfig struct {
	Location       string `yaml:"location" mapstructure:"location"`
	SkipEnrichment bool   `yaml:"skip_enrichment" mapstructure:"skip_enrichment"`
}

// EnrichConfig configures website signal collection.
type EnrichConfig struct {
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // fetches per second, 0 = unlimited
	SlowSiteMS  int     `yaml:"slow_site_ms" mapstructure:"slow_site_ms"`
}

// ScoringConfig holds fit and opportunity weights.
type ScoringConfig struct {
	Fit               FitWeights         `yaml:"fit" mapstructure:"fit"`
	Opportunity       OpportunityWeights `yaml:"opportunity" mapstructure:"opportunity"`
	FitWeight         float64            `yaml:"fit_weight" mapstructure:"fit_weight"`
	OpportunityWeight float64            `yaml:"opportunity_weight" mapstructure:"opportunity_weight"`
}

// FitWeights are the points awarded per reachability signal.
type FitWeights struct {
	Website     int     `yaml:"website" mapstructure:"website"`
	Phone       int     `yaml:"phone" mapstructure:"phone"`
	Email       int     `yaml:"email" mapstructure:"email"`
	Maps        int     `yaml:"maps" mapstructure:"maps"`
	Rating      int     `yaml:"rating" mapstructure:"rating"`
	Reviews     int     `yaml:"reviews" mapstructure:"reviews"`
	Ads         int     `yaml:"ads" mapstructure:"ads"`
	Organic     int     `yaml:"organic" mapstructure:"organic"`
	MinRating   float64 `yaml:"min_rating" mapstructure:"min_rating"`
	MinReviews  int     `yaml:"min_reviews" mapstructure:"min_reviews"`
	OrganicTopN int     `yaml:"organic_top_n" mapstructure:"organic_top_n"`
}

// OpportunityWeights are the points added or removed per marketing gap.
type OpportunityWeights struct {
	NoWebsite        int      `yaml:"no_website" mapstructure:"no_website"`
	NoSignals        int      `yaml:"no_signals" mapstructure:"no_signals"`
	NoAnalytics      int      `yaml:"no_analytics" mapstructure:"no_analytics"`
	NoPixel          int      `yaml:"no_pixel" mapstructure:"no_pixel"`
	NoBooking        int      `yaml:"no_booking" mapstructure:"no_booking"`
	NoEmail          int      `yaml:"no_email" mapstructure:"no_email"`
	WeakCMS          int      `yaml:"weak_cms" mapstructure:"weak_cms"`
	SlowSite         int      `yaml:"slow_site" mapstructure:"slow_site"`
	RunningAds       int      `yaml:"running_ads" mapstructure:"running_ads"`
	FullTracking     int      `yaml:"full_tracking" mapstructure:"full_tracking"`
	LowMapsRank      int      `yaml:"low_maps_rank" mapstructure:"low_maps_rank"`
	WeakOrganic      int      `yaml:"weak_organic" mapstructure:"weak_organic"`
	WeakOrganicAfter int      `yaml:"weak_organic_after" mapstructure:"weak_organic_after"`
	WeakCMSNames     []string `yaml:"weak_cms_names" mapstructure:"weak_cms_names"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ExportConfig sets the default export format and output path.
type ExportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// ReferenceConfig points at an optional reference data override file.
type ReferenceConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("serpapi.key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.google_domain", "google.com.au")
	v.SetDefault("serpapi.gl", "au")
	v.SetDefault("serpapi.hl", "en")
	v.SetDefault("serpapi.num_results", 20)
	v.SetDefault("serpapi.timeout_secs", 30)
	v.SetDefault("serpapi.rate_limit", 1.0)
	v.SetDefault("serpapi.max_retries", 2)
	v.SetDefault("search.location", "")
	v.SetDefault("search.skip_enrichment", false)
	v.SetDefault("enrich.concurrency", 5)
	v.SetDefault("enrich.timeout_secs", 10)
	v.SetDefault("enrich.user_agent", "Mozilla/5.0 (compatible; prospect-cli/1.0)")
	v.SetDefault("enrich.rate_limit", 0)
	v.SetDefault("enrich.slow_site_ms", 3000)
	v.SetDefault("scoring.fit.website", 15)
	v.SetDefault("scoring.fit.phone", 15)
	v.SetDefault("scoring.fit.email", 10)
	v.SetDefault("scoring.fit.maps", 15)
	v.SetDefault("scoring.fit.rating", 10)
	v.SetDefault("scoring.fit.reviews", 10)
	v.SetDefault("scoring.fit.ads", 10)
	v.SetDefault("scoring.fit.organic", 15)
	v.SetDefault("scoring.fit.min_rating", 4.0)
	v.SetDefault("scoring.fit.min_reviews", 10)
	v.SetDefault("scoring.fit.organic_top_n", 10)
	v.SetDefault("scoring.opportunity.no_website", 80)
	v.SetDefault("scoring.opportunity.no_signals", 50)
	v.SetDefault("scoring.opportunity.no_analytics", 15)
	v.SetDefault("scoring.opportunity.no_pixel", 10)
	v.SetDefault("scoring.opportunity.no_booking", 15)
	v.SetDefault("scoring.opportunity.no_email", 10)
	v.SetDefault("scoring.opportunity.weak_cms", 10)
	v.SetDefault("scoring.opportunity.slow_site", 10)
	v.SetDefault("scoring.opportunity.running_ads", -10)
	v.SetDefault("scoring.opportunity.full_tracking", -10)
	v.SetDefault("scoring.opportunity.low_maps_rank", 10)
	v.SetDefault("scoring.opportunity.weak_organic", 20)
	v.SetDefault("scoring.opportunity.weak_organic_after", 5)
	v.SetDefault("scoring.opportunity.weak_cms_names", []string{"Wix", "Weebly", "GoDaddy Website Builder"})
	v.SetDefault("scoring.fit_weight", 0.4)
	v.SetDefault("scoring.opportunity_weight", 0.6)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "prospects.db")
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.path", "")
	v.SetDefault("reference.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the keys a command mode needs.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "search":
		if c.SerpAPI.Key == "" {
			errs = append(errs, "serpapi.key is required")
		}
		if c.Enrich.Concurrency < 1 || c.Enrich.Concurrency > 50 {
			errs = append(errs, "enrich.concurrency must be between 1 and 50")
		}
		if c.Scoring.FitWeight < 0 || c.Scoring.OpportunityWeight < 0 {
			errs = append(errs, "scoring weights must be >= 0")
		}
	case "dedup", "prospects", "migrate":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q must be sqlite or postgres", c.Store.Driver))
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
