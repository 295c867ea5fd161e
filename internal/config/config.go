package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	OpenAI   OpenAI   `mapstructure:"openai"`
	Admin    Admin    `mapstructure:"admin"`
	Logging  Logging  `mapstructure:"logging"`
}

// Server holds the HTTP server configuration.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the sqlite configuration.
type Database struct {
	Path string `mapstructure:"path"`
}

// OpenAI holds the vision model configuration.
type OpenAI struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Admin holds the bootstrap admin account created on first start, plus
// usernames that are promoted to admin automatically.
type Admin struct {
	Username  string   `mapstructure:"username"`
	Email     string   `mapstructure:"email"`
	Password  string   `mapstructure:"password"`
	Usernames []string `mapstructure:"usernames"`
}

// Logging holds the logger configuration.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given directory (config.yml) with
// environment variable overrides.
func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.path", "data/chartsight.db")
	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.timeout_seconds", 60)
	viper.SetDefault("openai.rate_limit", 2) // requests per second
	viper.SetDefault("openai.rate_limit_burst", 1)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		return fmt.Errorf("openai.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.OpenAI.TimeoutSeconds) * time.Second
}
