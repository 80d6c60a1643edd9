// internal/workers/bot/handle-query/config.go
package handlequery

import (
	"time"

	appconfig "planpal/internal/common/config"
)

type Config struct {
	TopN  int
	GenAI appconfig.GenAIConfig
}

func LoadConfig() *Config {
	return &Config{
		TopN: 3,
		GenAI: appconfig.GenAIConfig{
			Timeout:     30000,
			MaxTokens:   512,
			Temperature: 0.7,
		},
	}
}

// FromAppConfig builds the worker config from the service configuration.
func FromAppConfig(cfg *appconfig.Config) *Config {
	return &Config{
		TopN:  cfg.Bot.TopN,
		GenAI: cfg.APIs.GenAI,
	}
}

// GenAITimeout returns the LLM call timeout as a duration.
func (c *Config) GenAITimeout() time.Duration {
	return appconfig.GetDuration(c.GenAI.Timeout)
}
