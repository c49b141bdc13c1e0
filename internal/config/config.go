// Package config holds application configuration. Values come from
// defaults, an optional .env file, and RECSCHED_* environment
// variables; command flags override on top.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Target  TargetConfig  `envPrefix:"TARGET_"`
	Fetch   FetchConfig   `envPrefix:"FETCH_"`
	Retry   RetryConfig   `envPrefix:"RETRY_"`
	Rate    RateConfig    `envPrefix:"RATE_"`
	Feed    FeedConfig    `envPrefix:"FEED_"`
	Output  OutputConfig  `envPrefix:"OUTPUT_"`
	Logging LoggingConfig `envPrefix:"LOG_"`
}

// TargetConfig identifies the schedule search page and facility.
type TargetConfig struct {
	BaseURL  string `env:"BASE_URL" envDefault:"https://anc.apm.activecommunities.com/denver/activity/search"`
	Keyword  string `env:"KEYWORD" envDefault:"Carla Madison"`
	Facility string `env:"FACILITY" envDefault:"Carla Madison Rec Center"`
}

// SearchParams returns the query parameters for the schedule search.
// Keys are opaque to the pipeline; only the keyword varies.
func (t TargetConfig) SearchParams() map[string]string {
	return map[string]string{
		"onlineSiteId":          "0",
		"activity_select_param": "2",
		"activity_keyword":      t.Keyword,
		"viewMode":              "list",
	}
}

// FetchConfig tunes the browser fetch. ReadySelector is the DOM marker
// whose presence signals the results have rendered; SettleDelay is the
// fixed wait after the marker appears, tolerating population that
// continues once it shows up.
type FetchConfig struct {
	ReadySelector string        `env:"READY_SELECTOR" envDefault:"tr"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"60s"`
	SettleDelay   time.Duration `env:"SETTLE_DELAY" envDefault:"5s"`
	Headless      bool          `env:"HEADLESS" envDefault:"true"`
	ChromePath    string        `env:"CHROME_PATH"`
	Proxy         string        `env:"PROXY"`
	UserAgent     string        `env:"USER_AGENT" envDefault:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"`
}

// RetryConfig bounds the pipeline run. Backoff between attempts grows
// linearly: BaseDelay * attempt.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	BaseDelay   time.Duration `env:"BASE_DELAY" envDefault:"10s"`
}

// RateConfig throttles requests against the remote host.
type RateConfig struct {
	RequestsPerSecond float64 `env:"RPS" envDefault:"0.5"`
	Burst             int     `env:"BURST" envDefault:"2"`
}

// FeedConfig configures the GroupEx Pro schedule feed.
type FeedConfig struct {
	AccountID int           `env:"ACCOUNT_ID" envDefault:"522"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type OutputConfig struct {
	JSONPath string `env:"JSON" envDefault:"data/schedule.json"`
	CSVPath  string `env:"CSV"`
}

type LoggingConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
	JSON  bool   `env:"JSON" envDefault:"false"`
}

// Load builds a Config from defaults, an optional .env file, and the
// environment. Configuration problems are invalid local invocation and
// fail immediately; they are never retried.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Warn().Err(err).Msg("Failed to load .env file")
		}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "RECSCHED_"}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
