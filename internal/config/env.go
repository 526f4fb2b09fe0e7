// Package config loads selfcord settings from the environment and from
// ~/.selfcord/config.toml.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env is the environment surface. Empty URLs mean the platform defaults.
type Env struct {
	Token          string        `env:"SELFCORD_TOKEN"`
	Cookie         string        `env:"SELFCORD_COOKIE"`
	APIBaseURL     string        `env:"SELFCORD_API_BASE_URL"`
	GatewayURL     string        `env:"SELFCORD_GATEWAY_URL"`
	CookieURL      string        `env:"SELFCORD_COOKIE_URL"`
	ConnectTimeout time.Duration `env:"SELFCORD_CONNECT_TIMEOUT" envDefault:"10s"`
	RequestTimeout time.Duration `env:"SELFCORD_REQUEST_TIMEOUT" envDefault:"10s"`
	LogLevel       string        `env:"SELFCORD_LOG_LEVEL"       envDefault:"info"`
	SecretsDir     string        `env:"SELFCORD_SECRETS_DIR"`
}

func ParseEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func ParseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level %q", raw)
	}
}
