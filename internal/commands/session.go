package commands

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/diogo/healthchat/internal/api"
	"github.com/diogo/healthchat/internal/chat"
	"github.com/diogo/healthchat/internal/config"
	"github.com/diogo/healthchat/internal/logging"
	"github.com/diogo/healthchat/internal/models"
)

// sessionAdapter exposes an api.ChatSession as a chat.Session
type sessionAdapter struct {
	session *api.ChatSession
}

func (a sessionAdapter) SendMessageStream(ctx context.Context, text string) (chat.Stream, error) {
	stream, err := a.session.SendMessageStream(ctx, text)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// connect resolves the credential, negotiates with the backend and returns
// a chat session. On failure the session is nil and the error is a
// ConnectionError.
func connect(ctx context.Context, cfg config.Config) (chat.Session, func(), error) {
	noop := func() {}

	apiKey, err := config.ResolveAPIKey(cfg)
	if err != nil {
		return nil, noop, err
	}

	client, err := api.NewClient(apiKey,
		api.WithModel(models.ModelFromName(cfg.DefaultModel)),
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.TimeoutSeconds),
	)
	if err != nil {
		return nil, noop, err
	}

	session, err := client.CreateSession(ctx)
	if err != nil {
		client.Close()
		return nil, noop, err
	}

	return sessionAdapter{session: session}, client.Close, nil
}

// setupLogging installs the rotating file logger described by cfg
func setupLogging(cfg config.Config) (io.Closer, error) {
	path, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, err
	}
	opts := logging.DefaultOptions(path)
	opts.Level = cfg.LogLevel
	return logging.Setup(opts)
}

// prepare loads configuration, applies flag overrides, starts logging and
// loads the env file. The returned cleanup flushes the log file.
func (d *Dependencies) prepare() (config.Config, func(), error) {
	cfg, loadErr := config.LoadConfig()

	if modelFlag != "" {
		cfg.DefaultModel = modelFlag
	}
	if themeFlag != "" {
		cfg.TUITheme = themeFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if envFileFlag != "" {
		cfg.EnvFile = envFileFlag
	}

	closer, err := d.SetupLogging(cfg)
	if err != nil {
		return cfg, func() {}, err
	}
	cleanup := func() {
		if closer != nil {
			_ = closer.Close()
		}
	}

	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("using default configuration")
	}
	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		log.Warn().Err(err).Msg("env file not loaded")
	}

	log.Debug().Str("model", cfg.DefaultModel).Str("theme", cfg.TUITheme).Msg("configuration ready")
	return cfg, cleanup, nil
}
