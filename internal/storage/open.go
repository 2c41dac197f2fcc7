// ABOUTME: Backend selection for progress state
// ABOUTME: Maps the configured backend name to a StateStore
package storage

import (
	"fmt"
	"log/slog"

	"github.com/harper/bookthread/internal/charm"
	"github.com/harper/bookthread/internal/config"
)

// OpenState returns the StateStore selected by cfg.StateBackend
func OpenState(cfg *config.Config, logger *slog.Logger) (StateStore, error) {
	switch cfg.StateBackend {
	case config.BackendFile, "":
		return NewFileStore(cfg.StatePath(), logger), nil
	case config.BackendCharm:
		client, err := charm.Open(charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, err
		}
		return NewCharmStore(client), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}
