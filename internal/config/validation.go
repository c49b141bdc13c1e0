package config

import (
	"fmt"

	"github.com/denverfit/recsched/internal/query"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validate(c *Config) error {
	if err := query.Validate(c.Target.BaseURL); err != nil {
		return fmt.Errorf("target base URL: %w", err)
	}
	if c.Target.Facility == "" {
		return fmt.Errorf("facility name must not be empty")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be > 0")
	}
	if c.Fetch.SettleDelay < 0 {
		return fmt.Errorf("settle delay must be >= 0")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >= 1")
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("retry base delay must be >= 0")
	}
	if c.Rate.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests per second must be > 0")
	}
	if c.Rate.Burst < 1 {
		return fmt.Errorf("rate limit burst must be >= 1")
	}
	if c.Feed.AccountID < 1 {
		return fmt.Errorf("feed account id must be >= 1")
	}
	if c.Output.JSONPath == "" {
		return fmt.Errorf("output JSON path must not be empty")
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("log level must be one of debug, info, warn, error")
	}
	return nil
}
