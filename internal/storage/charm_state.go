// ABOUTME: Charm KV backend for progress state
// ABOUTME: Lets several machines share one reading cursor via charm cloud sync
package storage

import (
	"context"
	"fmt"

	"github.com/harper/bookthread/internal/charm"
	"github.com/harper/bookthread/internal/models"
)

// jsonKV is the subset of the charm client the store needs
type jsonKV interface {
	Has(key string) (bool, error)
	GetJSON(key string, dest interface{}) error
	SetJSON(key string, value interface{}) error
	Sync() error
	Close() error
}

// CharmStore keeps state as JSON under a single charm key
type CharmStore struct {
	kv  jsonKV
	key string
}

// NewCharmStore wraps an open charm client
func NewCharmStore(kv jsonKV) *CharmStore {
	return &CharmStore{kv: kv, key: charm.StateKey("progress")}
}

// Load reads the state, returning a fresh one if nothing is stored yet
func (c *CharmStore) Load(ctx context.Context) (*models.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ok, err := c.kv.Has(c.key)
	if err != nil {
		return nil, fmt.Errorf("check state: %w", err)
	}
	if !ok {
		return models.NewState(), nil
	}

	var state models.State
	if err := c.kv.GetJSON(c.key, &state); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return &state, nil
}

// Save stores the state and syncs it if auto-sync is on
func (c *CharmStore) Save(ctx context.Context, state *models.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.kv.SetJSON(c.key, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Sync pulls the latest state from charm cloud so a read sees other machines' progress
func (c *CharmStore) Sync() error {
	if err := c.kv.Sync(); err != nil {
		return fmt.Errorf("sync state: %w", err)
	}
	return nil
}

// Close closes the underlying charm client
func (c *CharmStore) Close() error {
	return c.kv.Close()
}
