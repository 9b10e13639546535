package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/utafrali/storefront-session/pkg/config"
)

// Config holds all configuration for the session service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SESSION_HTTP_PORT" envDefault:"8010"`

	// Redis. An empty addr switches the service to the in-memory store,
	// which only makes sense for local development.
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session TTL in hours (default: 7 days)
	SessionTTL int `env:"SESSION_TTL_HOURS" envDefault:"168"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Storefront API
	StorefrontAPIURL      string `env:"STOREFRONT_API_URL" envDefault:"http://localhost:5000"`
	GatewayTimeoutSeconds int    `env:"GATEWAY_TIMEOUT_SECONDS" envDefault:"10"`
	GatewayBreakerEnabled bool   `env:"GATEWAY_BREAKER_ENABLED" envDefault:"true"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load session config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("invalid session TTL: %d", c.SessionTTL)
	}
	if c.GatewayTimeoutSeconds < 1 {
		return fmt.Errorf("invalid gateway timeout: %d", c.GatewayTimeoutSeconds)
	}
	if !strings.HasPrefix(c.StorefrontAPIURL, "http://") && !strings.HasPrefix(c.StorefrontAPIURL, "https://") {
		return fmt.Errorf("invalid storefront API URL: %s", c.StorefrontAPIURL)
	}
	return nil
}
