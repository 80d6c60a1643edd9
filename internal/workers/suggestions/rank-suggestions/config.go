// internal/workers/suggestions/rank-suggestions/config.go
package ranksuggestions

import appconfig "planpal/internal/common/config"

// Score weights. They sum to 1 so the final score stays in [0,1].
const (
	weightRating    = 0.5
	weightBudget    = 0.2
	weightVotes     = 0.2
	weightProximity = 0.1
)

type Config struct {
	MaxDistanceKm float64
}

func LoadConfig() *Config {
	return &Config{
		MaxDistanceKm: 25,
	}
}

// FromAppConfig builds the worker config from the service configuration.
func FromAppConfig(cfg *appconfig.Config) *Config {
	return &Config{
		MaxDistanceKm: cfg.Scoring.MaxDistanceKm,
	}
}
