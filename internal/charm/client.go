// ABOUTME: Charm KV client wrapper for cloud-synced progress state
// ABOUTME: Opened explicitly and passed to its users; SSH keys handle auth
package charm

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/kv"
)

// Key prefixes for stored entities
const (
	StatePrefix = "state:"
)

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// Client wraps charm KV for state storage
type Client struct {
	kv     *kv.KV
	config Config
	mu     sync.Mutex
}

// Open creates a charm client with the given config
func Open(cfg Config) (*Client, error) {
	// kv reads the host from the environment
	if cfg.Host != "" {
		if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
			return nil, fmt.Errorf("set CHARM_HOST: %w", err)
		}
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{
		kv:     db,
		config: cfg,
	}

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return c, nil
}

// Close closes the KV database
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv != nil {
		err := c.kv.Close()
		c.kv = nil
		return err
	}
	return nil
}

// syncIfEnabled pushes writes to the cloud
func (c *Client) syncIfEnabled() {
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
}

// Has reports whether key is stored
func (c *Client) Has(key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return false, fmt.Errorf("failed to list keys: %w", err)
	}
	for _, k := range keys {
		if string(k) == key {
			return true, nil
		}
	}
	return false, nil
}

// SetJSON marshals and stores a value as JSON
func (c *Client) SetJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// GetJSON retrieves and unmarshals a JSON value
func (c *Client) GetJSON(key string, dest interface{}) error {
	c.mu.Lock()
	data, err := c.kv.Get([]byte(key))
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if data == nil {
		return fmt.Errorf("key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// StateKey generates the key for a book's progress state
func StateKey(name string) string {
	return StatePrefix + name
}
