package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DataConfig points at the corpus file
type DataConfig struct {
	Path string `mapstructure:"path"`
}

// SearchConfig holds fuzzy matching configuration
type SearchConfig struct {
	Cutoff int `mapstructure:"cutoff"`
	Limit  int `mapstructure:"limit"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	IdleTTL  time.Duration `mapstructure:"idle_ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// New returns a viper instance with defaults and environment binding applied
func New() *viper.Viper {
	v := viper.New()

	// Environment variable settings
	v.SetEnvPrefix("CELEBCO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load loads configuration from environment variables and config files.
// configFile may be empty to search the default locations.
func Load(configFile string) (*Config, error) {
	return LoadWith(New(), configFile)
}

// LoadWith loads configuration using a caller-prepared viper instance,
// e.g. one with command-line flags already bound
func LoadWith(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/celebco/")
	}

	// Config file is optional unless one was named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Data defaults
	v.SetDefault("data.path", "data/celebrity_companies.json")

	// Search defaults
	v.SetDefault("search.cutoff", 60)
	v.SetDefault("search.limit", 5)

	// Rate limit defaults
	v.SetDefault("ratelimit.requests", 5)
	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("ratelimit.idle_ttl", "10m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set CELEBCO_SERVER_PORT)")
	}

	if config.Data.Path == "" {
		return fmt.Errorf("data path is required (set CELEBCO_DATA_PATH)")
	}

	if config.Search.Cutoff < 0 || config.Search.Cutoff > 100 {
		return fmt.Errorf("search cutoff must be between 0 and 100, got: %d", config.Search.Cutoff)
	}

	if config.Search.Limit < 1 {
		return fmt.Errorf("search limit must be at least 1, got: %d", config.Search.Limit)
	}

	if config.RateLimit.Requests < 1 {
		return fmt.Errorf("rate limit requests must be at least 1, got: %d", config.RateLimit.Requests)
	}

	if config.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got: %s", config.RateLimit.Window)
	}

	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
