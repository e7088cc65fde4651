package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all environment backed configuration for the gateway process.
// Vendor credentials (OpenAI, Azure OpenAI, Anthropic, AWS Bedrock) are
// intentionally not listed here: each provider adapter reads its own
// environment variables at construction time so that a missing credential
// fails only the first request that needs that vendor.
type Config struct {
	// HTTP Server
	HTTPPort    int `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int `env:"METRICS_PORT" envDefault:"9091"`

	// Model catalog document (models + userStorage sections)
	ModelsConfigPath string `env:"MODELS_CONFIG_PATH" envDefault:"config/models.yaml"`

	// Database
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// Outbound HTTP
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"120s"`

	// Observability / Logging
	ServiceName string `env:"SERVICE_NAME" envDefault:"llm-gateway"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.ModelsConfigPath = strings.TrimSpace(cfg.ModelsConfigPath)
	if cfg.ModelsConfigPath == "" {
		return nil, fmt.Errorf("MODELS_CONFIG_PATH must not be empty")
	}

	return cfg, nil
}
