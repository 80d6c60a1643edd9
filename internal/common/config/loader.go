// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like GOOGLE_PLACES_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent.
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries the usual .env locations so the binary and the tests
// behave the same from any working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig maps well-known environment variables onto fields
// the YAML left empty. Provider keys stay optional throughout.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Providers.Places.APIKey == "" {
		if val := os.Getenv("GOOGLE_PLACES_KEY"); val != "" {
			cfg.Providers.Places.APIKey = val
		}
	}
	if cfg.Providers.Movies.APIKey == "" {
		if val := os.Getenv("TMDB_API_KEY"); val != "" {
			cfg.Providers.Movies.APIKey = val
		}
	}
	if cfg.APIs.GenAI.APIKey == "" {
		if val := os.Getenv("GENAI_API_KEY"); val != "" {
			cfg.APIs.GenAI.APIKey = val
		}
	}
	if cfg.Frontend.BaseURL == "" {
		if val := os.Getenv("BASE_URL"); val != "" {
			cfg.Frontend.BaseURL = val
		}
	}
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Database.Redis.Address = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "outings-service"
	}
	if cfg.App.ListenAddr == "" {
		cfg.App.ListenAddr = ":8080"
	}

	// Database defaults
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	// Provider defaults
	if cfg.Providers.Places.BaseURL == "" {
		cfg.Providers.Places.BaseURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	}
	if cfg.Providers.Places.RadiusMeters == 0 {
		cfg.Providers.Places.RadiusMeters = 5000
	}
	if cfg.Providers.Places.Timeout == 0 {
		cfg.Providers.Places.Timeout = 10000
	}
	if cfg.Providers.Movies.BaseURL == "" {
		cfg.Providers.Movies.BaseURL = "https://api.themoviedb.org/3/discover/movie"
	}
	if cfg.Providers.Movies.Timeout == 0 {
		cfg.Providers.Movies.Timeout = 10000
	}

	// Adapter defaults: 30 minute freshness window, one retry at 500ms.
	if cfg.Suggestions.CacheTTL == 0 {
		cfg.Suggestions.CacheTTL = 1800000
	}
	if cfg.Suggestions.FetchTimeout == 0 {
		cfg.Suggestions.FetchTimeout = 10000
	}
	if cfg.Suggestions.RetryBackoff == 0 {
		cfg.Suggestions.RetryBackoff = 500
	}
	if cfg.Suggestions.MaxRetries == 0 {
		cfg.Suggestions.MaxRetries = 1
	}
	if cfg.Suggestions.MaxResults == 0 {
		cfg.Suggestions.MaxResults = 10
	}

	// Scoring defaults
	if cfg.Scoring.MaxDistanceKm == 0 {
		cfg.Scoring.MaxDistanceKm = 25
	}

	// Bot defaults
	if cfg.Bot.TopN == 0 {
		cfg.Bot.TopN = 3
	}

	// GenAI defaults (only used when an API key is present)
	if cfg.APIs.GenAI.Timeout == 0 {
		cfg.APIs.GenAI.Timeout = 30000
	}
	if cfg.APIs.GenAI.MaxTokens == 0 {
		cfg.APIs.GenAI.MaxTokens = 512
	}
	if cfg.APIs.GenAI.Temperature == 0 {
		cfg.APIs.GenAI.Temperature = 0.7
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Frontend.BaseURL == "" {
		cfg.Frontend.BaseURL = "http://localhost:5173"
	}
}

// validateConfig validates critical configuration fields. Note that
// provider API keys and backing stores are deliberately not required:
// their absence degrades to mock data and in-process implementations.
func validateConfig(cfg *Config) error {
	if cfg.Suggestions.CacheTTL < 0 {
		return fmt.Errorf("suggestions.cache_ttl must not be negative")
	}
	if cfg.Scoring.MaxDistanceKm <= 0 {
		return fmt.Errorf("scoring.max_distance_km must be positive")
	}
	if cfg.Bot.TopN <= 0 {
		return fmt.Errorf("bot.top_n must be positive")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
