package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/Rodriguespn/skybridge/pkg/config"
)

// Config holds all configuration for the skybridge service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8000"`

	// Public base URL used for redirect pages and widget asset links.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000"`

	// Stripe. An empty key selects the deterministic fallback gateway.
	StripeAPIKey string `env:"STRIPE_SECRET_KEY"`

	// Kafka. Empty disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load skybridge config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return nil, fmt.Errorf("invalid base URL: %q", cfg.BaseURL)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}

// StripeEnabled reports whether a live Stripe key is configured.
func (c *Config) StripeEnabled() bool {
	return c.StripeAPIKey != ""
}
