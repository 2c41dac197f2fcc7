// ABOUTME: Wiring shared by the commands: config, logger, stores, and the publisher
// ABOUTME: openApp builds everything a command needs and Close releases it
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/bookthread/internal/bluesky"
	"github.com/harper/bookthread/internal/config"
	"github.com/harper/bookthread/internal/core"
	"github.com/harper/bookthread/internal/source"
	"github.com/harper/bookthread/internal/splitter"
	"github.com/harper/bookthread/internal/storage"
	"github.com/harper/bookthread/internal/storage/sqlite"
)

type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	splitter  *splitter.Splitter
	source    *source.Gutenberg
	state     storage.StateStore
	postLog   *sqlite.DB
	publisher *core.Publisher
}

// loadConfig reads .env, the config file, and the environment
func loadConfig(logger *slog.Logger) (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openApp wires the publisher. Only posting needs Bluesky credentials.
func openApp(cmd *cobra.Command, posting bool) (*app, error) {
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig(logger)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		splitter: splitter.New(cfg.MaxGraphemes, cfg.MaxThreadLength),
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	a.state, err = storage.OpenState(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening state: %w", err)
	}

	a.postLog, err = sqlite.Open(cfg.PostLogPath())
	if err != nil {
		_ = a.state.Close()
		return nil, fmt.Errorf("opening post log: %w", err)
	}

	a.source = source.NewGutenberg(cfg.SourceURL, cfg.CacheDir(), httpClient, logger)
	a.publisher = &core.Publisher{
		Source:   a.source,
		Splitter: a.splitter,
		State:    a.state,
		Log:      a.postLog,
		Logger:   logger,
	}

	if posting {
		if cfg.Handle == "" || cfg.Password == "" {
			a.Close()
			return nil, bluesky.ErrMissingCredentials
		}
		session := bluesky.NewSession(cfg.Service, cfg.Handle, cfg.Password, httpClient)
		a.publisher.Poster = bluesky.NewClient(session, bluesky.Options{
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			Logger:     logger,
		})
	}

	return a, nil
}

// Close releases the state store and the post log
func (a *app) Close() {
	var errs []error
	if a.postLog != nil {
		errs = append(errs, a.postLog.Close())
	}
	if a.state != nil {
		errs = append(errs, a.state.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("error closing stores", "error", err)
	}
}
