package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nulzo/intent-router/internal/intent"
	"github.com/nulzo/intent-router/internal/pricing"
	"github.com/nulzo/intent-router/internal/routing"
	"github.com/spf13/viper"
)

const envKeyPrefix = "ENV:"

type Config struct {
	Server     ServerConfig                   `mapstructure:"server"`
	Log        LogConfig                      `mapstructure:"log"`
	Upstream   UpstreamConfig                 `mapstructure:"upstream"`
	Classifier ClassifierConfig               `mapstructure:"classifier"`
	Routing    map[string]routing.ModelConfig `mapstructure:"routing" validate:"dive"`
	Pricing    PricingConfig                  `mapstructure:"pricing"`
	Redis      RedisConfig                    `mapstructure:"redis"`
	Database   DatabaseConfig                 `mapstructure:"database"`
	RateLimit  RateLimitConfig                `mapstructure:"rate_limit"`
	Tracing    TracingConfig                  `mapstructure:"tracing"`
	ModelInfo  ModelInfoConfig                `mapstructure:"model_info"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
	Env  string `mapstructure:"env" validate:"oneof=development test production"`
	// APIKeys guards /v1. Empty disables authentication.
	APIKeys []string `mapstructure:"api_keys"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
}

type UpstreamConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
	Referer string `mapstructure:"referer"`
	Title   string `mapstructure:"title"`
}

// ClassifierConfig replaces the keyword lists of the named intents. Intents
// not listed keep their built-in keywords.
type ClassifierConfig struct {
	Patterns map[string][]string `mapstructure:"patterns"`
}

// PricingConfig is a list rather than a map because model ids may contain
// dots, which viper treats as key separators.
type PricingConfig struct {
	Models []ModelRate `mapstructure:"models" validate:"dive"`
}

type ModelRate struct {
	ID   string  `mapstructure:"id" validate:"required"`
	Rate float64 `mapstructure:"rate" validate:"gte=0"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type DatabaseConfig struct {
	// DSN of the sqlite usage ledger. Empty disables usage recording.
	DSN string `mapstructure:"dsn"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=0"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type ModelInfoConfig struct {
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheSize int           `mapstructure:"cache_size" validate:"gte=0"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("./internal/config")
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	cfg.Upstream.APIKey = resolveSecret(v, cfg.Upstream.APIKey)
	for i, key := range cfg.Server.APIKeys {
		cfg.Server.APIKeys[i] = resolveSecret(v, key)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("upstream.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("upstream.api_key", envKeyPrefix+"OPENROUTER_API_KEY")
	v.SetDefault("upstream.referer", "")
	v.SetDefault("upstream.title", "")
	v.SetDefault("server.api_keys", []string{})
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.dsn", "")
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "intent-router")
	v.SetDefault("model_info.cache_ttl", "10m")
	v.SetDefault("model_info.cache_size", 256)
}

// resolveSecret expands "ENV:NAME" to the value of NAME.
func resolveSecret(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, envKeyPrefix) {
		return value
	}
	name := strings.TrimPrefix(value, envKeyPrefix)
	// Check process environment first (explicit override)
	if val := os.Getenv(name); val != "" {
		return val
	}
	return v.GetString(name)
}

// Patterns merges the configured keyword lists over the built-in ones.
func (c *Config) Patterns() (intent.PatternSet, error) {
	patterns := intent.DefaultPatterns()
	for name, keywords := range c.Classifier.Patterns {
		i, err := intent.ParseIntent(name)
		if err != nil {
			return nil, fmt.Errorf("classifier.patterns: %w", err)
		}
		patterns[i] = keywords
	}
	return patterns, nil
}

// RoutingTable merges configured routes over the built-in table and
// validates the result. A configured route keeps the built-in values for
// any field it leaves out.
func (c *Config) RoutingTable() (routing.Table, error) {
	defaults := routing.DefaultTable()
	override := make(routing.Table, len(c.Routing))
	for name, cfg := range c.Routing {
		i, err := intent.ParseIntent(name)
		if err != nil {
			return nil, fmt.Errorf("routing: %w", err)
		}
		override[i] = cfg.Inherit(defaults[i])
	}
	table := defaults.Merge(override)
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// PricingTable merges configured rates over the built-in ones.
func (c *Config) PricingTable() pricing.Table {
	override := make(map[string]float64, len(c.Pricing.Models))
	for _, m := range c.Pricing.Models {
		override[m.ID] = m.Rate
	}
	return pricing.DefaultTable().Merge(override)
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
