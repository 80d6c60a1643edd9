// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Providers   ProvidersConfig   `mapstructure:"providers"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions"`
	Scoring     ScoringConfig     `mapstructure:"scoring"`
	Bot         BotConfig         `mapstructure:"bot"`
	APIs        APIsConfig        `mapstructure:"apis"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Frontend    FrontendConfig    `mapstructure:"frontend"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	ListenAddr  string `mapstructure:"listen_addr"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Configured reports whether a Postgres host was supplied. Without one the
// service runs on the in-memory suggestion store.
func (p PostgresConfig) Configured() bool {
	return p.Host != ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Configured reports whether a Redis address was supplied. Without one the
// service runs on the in-process response cache.
func (r RedisConfig) Configured() bool {
	return r.Address != ""
}

// --- External Suggestion Providers ---

// ProvidersConfig holds settings for the external suggestion sources.
// A missing API key is never an error; the source falls back to its
// fixed mock dataset.
type ProvidersConfig struct {
	Places PlacesConfig `mapstructure:"places"`
	Movies MoviesConfig `mapstructure:"movies"`
}

type PlacesConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	RadiusMeters int    `mapstructure:"radius_meters"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

type MoviesConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// SuggestionsConfig holds cache and fetch behaviour for the source adapter.
type SuggestionsConfig struct {
	CacheTTL     int `mapstructure:"cache_ttl"`     // milliseconds, freshness window
	FetchTimeout int `mapstructure:"fetch_timeout"` // milliseconds
	RetryBackoff int `mapstructure:"retry_backoff"` // milliseconds, base delay
	MaxRetries   int `mapstructure:"max_retries"`
	MaxResults   int `mapstructure:"max_results"`
}

// ScoringConfig holds the constants of the recommendation formula.
type ScoringConfig struct {
	MaxDistanceKm float64 `mapstructure:"max_distance_km"`
}

// BotConfig holds settings for the bot query handler.
type BotConfig struct {
	TopN int `mapstructure:"top_n"`
}

// APIsConfig holds settings for optional external API integrations.
type APIsConfig struct {
	GenAI GenAIConfig `mapstructure:"genai"`
}

type GenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// FrontendConfig holds the base URL used to build shareable group links.
type FrontendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ShareLink builds the join link for a group code.
func (f FrontendConfig) ShareLink(code string) string {
	return fmt.Sprintf("%s/g/%s", f.BaseURL, code)
}
