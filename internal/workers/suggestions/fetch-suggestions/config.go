// internal/workers/suggestions/fetch-suggestions/config.go
package fetchsuggestions

import (
	"time"

	appconfig "planpal/internal/common/config"
)

type Config struct {
	FetchTimeout time.Duration
	RetryBackoff time.Duration
	MaxRetries   int
	MaxResults   int
	CacheTTL     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		FetchTimeout: 10 * time.Second,
		RetryBackoff: 500 * time.Millisecond,
		MaxRetries:   1,
		MaxResults:   10,
		CacheTTL:     30 * time.Minute,
	}
}

// FromAppConfig builds the worker config from the service configuration.
func FromAppConfig(cfg *appconfig.Config) *Config {
	return &Config{
		FetchTimeout: appconfig.GetDuration(cfg.Suggestions.FetchTimeout),
		RetryBackoff: appconfig.GetDuration(cfg.Suggestions.RetryBackoff),
		MaxRetries:   cfg.Suggestions.MaxRetries,
		MaxResults:   cfg.Suggestions.MaxResults,
		CacheTTL:     appconfig.GetDuration(cfg.Suggestions.CacheTTL),
	}
}
