// Package config loads service configuration from the process environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ServerConfig holds the HTTP listener addresses.
type ServerConfig struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
}

// ExchangeRateConfig holds the upstream price source and cache tunables.
// CacheTTLSeconds is the one externally documented knob: the number of
// seconds a derived rate table stays valid.
type ExchangeRateConfig struct {
	ApiUrl          string        `envconfig:"API_URL" default:"https://api.binance.com/api/v3/ticker/price"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	CacheTTLSeconds int           `envconfig:"CACHE_TTL" default:"300"`
}

// CacheTTL returns the cache time-to-live as a duration.
func (c ExchangeRateConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// AppConfig is the root configuration for the service.
type AppConfig struct {
	Server   ServerConfig       `envconfig:"SERVER"`
	Exchange ExchangeRateConfig `envconfig:"EXCHANGE_RATE"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load(logger *slog.Logger) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("App config loaded",
		"http_addr", cfg.Server.HTTPAddr,
		"metrics_addr", cfg.Server.MetricsAddr,
		"exchange_api_url", cfg.Exchange.ApiUrl,
		"exchange_http_timeout", cfg.Exchange.HTTPTimeout,
		"exchange_cache_ttl", cfg.Exchange.CacheTTL(),
	)
	return &cfg, nil
}
