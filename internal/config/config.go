package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development"` // development|production|test
	Port        string `envconfig:"PORT" default:"8080"`
	ServerURL   string `envconfig:"SERVER_URL"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Dashboard origins allowed by CORS and used for OAuth redirects.
	ClientURL       string `envconfig:"CLIENT_URL" default:"http://localhost:5173"`
	ClientURLBranch string `envconfig:"CLIENT_URL_BRANCH"`

	// Store
	StoreDriver        string `envconfig:"STORE_DRIVER" default:"postgres"` // postgres|supabase
	DatabaseURL        string `envconfig:"DATABASE_URL"`
	AutoMigrate        bool   `envconfig:"AUTO_MIGRATE" default:"true"`
	SupabaseURL        string `envconfig:"SUPABASE_URL"`
	SupabaseServiceKey string `envconfig:"SUPABASE_SERVICE_KEY"`

	// GitHub OAuth app and API
	GitHubClientID      string  `envconfig:"GITHUB_CLIENT_ID"`
	GitHubClientSecret  string  `envconfig:"GITHUB_CLIENT_SECRET"`
	GitHubAPIURL        string  `envconfig:"GITHUB_API_URL" default:"https://api.github.com/"`
	GitHubGraphQLURL    string  `envconfig:"GITHUB_GRAPHQL_URL" default:"https://api.github.com/graphql"`
	GitHubRatePerSecond float64 `envconfig:"GITHUB_RATE_PER_SECOND" default:"5"`
	GitHubRateBurst     int     `envconfig:"GITHUB_RATE_BURST" default:"10"`

	// Sessions
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	// Scheduler
	SchedulerEnabled bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	SchedulerSpec    string        `envconfig:"SCHEDULER_SPEC" default:"* * * * *"`
	JobTimeout       time.Duration `envconfig:"JOB_TIMEOUT" default:"30s"`
	ProbeTimeout     time.Duration `envconfig:"PROBE_TIMEOUT" default:"5s"`
	FetchAttempts    int           `envconfig:"FETCH_ATTEMPTS" default:"3"`
	FetchBackoff     time.Duration `envconfig:"FETCH_BACKOFF" default:"2s"`

	// Caches
	ContributionsCacheFile string        `envconfig:"CONTRIBUTIONS_CACHE_FILE" default:"cache_contributions.json"`
	ContributionsCacheTTL  time.Duration `envconfig:"CONTRIBUTIONS_CACHE_TTL" default:"1h"`
	StreakCacheTTL         time.Duration `envconfig:"STREAK_CACHE_TTL" default:"1h"`

	DebugEndpoints bool `envconfig:"DEBUG_ENDPOINTS" default:"false"`
}

// Load reads .env files (outside production) and then the process environment.
func Load() (*Config, error) {
	if !strings.EqualFold(strings.TrimSpace(getenvDefault("APP_ENV", "development")), "production") {
		// .env.local を優先し、次に .env を読み込む (既存の環境変数は上書きしない)
		for _, file := range []string{".env.local", ".env"} {
			if err := godotenv.Load(file); err != nil {
				log.Debugf("config: %s not loaded (this is fine in production): %v", file, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.ServerURL == "" {
		c.ServerURL = "http://localhost:" + c.Port
	}
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	c.ClientURL = strings.TrimRight(c.ClientURL, "/")
	if c.FetchAttempts <= 0 {
		c.FetchAttempts = 1
	}
}

// Validate checks that required values are present for the selected driver and environment.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for the supabase store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.IsProduction() {
		if c.SessionSecret == "" {
			errs = append(errs, errors.New("SESSION_SECRET is required in production"))
		}
		if c.GitHubClientID == "" || c.GitHubClientSecret == "" {
			errs = append(errs, errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are required in production"))
		}
	}

	if c.JobTimeout <= 0 {
		errs = append(errs, errors.New("JOB_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs with production cookie and logging settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the dashboard origins accepted by CORS.
func (c *Config) AllowedOrigins() []string {
	origins := []string{}
	for _, o := range []string{c.ClientURL, c.ClientURLBranch, "http://localhost:5173", "http://127.0.0.1:5173"} {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || contains(origins, o) {
			continue
		}
		origins = append(origins, o)
	}
	return origins
}

// EffectiveSessionSecret falls back to a development-only key outside production.
func (c *Config) EffectiveSessionSecret() string {
	if c.SessionSecret != "" {
		return c.SessionSecret
	}
	return "daily_diff_secure_key_fallback"
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
