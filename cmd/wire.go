package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/selfcord/internal/adapters/discord/credentials"
	statusadapter "github.com/bnema/selfcord/internal/adapters/render/status"
	tomlrepo "github.com/bnema/selfcord/internal/adapters/repo/toml"
	chainstore "github.com/bnema/selfcord/internal/adapters/secrets/chain"
	"github.com/bnema/selfcord/internal/application"
	"github.com/bnema/selfcord/internal/config"
	"github.com/bnema/selfcord/internal/ports"
	"github.com/spf13/viper"
)

const configDir = ".selfcord"

type app struct {
	service        *application.Service
	statusRenderer func([]application.Status, statusadapter.RenderOptions) (string, error)
	env            config.Env
	identity       credentials.Identity
	logger         *slog.Logger
	httpClient     *http.Client
	now            func() time.Time

	// accountFlag is bound to the persistent --account flag.
	accountFlag string
}

func wireApp() (*app, error) {
	env, err := config.ParseEnv()
	if err != nil {
		return nil, err
	}

	level, err := config.ParseLogLevel(env.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	fileCfg, err := config.LoadFile(filepath.Join(homeDir, configDir, "config.toml"))
	if err != nil {
		return nil, err
	}

	repo, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	secretsDir := env.SecretsDir
	if secretsDir == "" {
		secretsDir = filepath.Join(homeDir, configDir, "secrets")
	}
	secretStore, err := chainstore.NewPassFirstWithFileFallback(secretsDir)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		service:        application.NewService(repo, secretStore, ports.SystemClock{}),
		statusRenderer: statusadapter.Render,
		env:            env,
		identity:       config.Identity(fileCfg, env.CookieURL),
		logger:         logger,
		httpClient:     http.DefaultClient,
		now:            time.Now,
	}, nil
}
