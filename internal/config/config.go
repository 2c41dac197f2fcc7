// ABOUTME: Centralized configuration for bookthread
// ABOUTME: Defaults, then an optional TOML file, then environment variables
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Supported progress-state backends
const (
	BackendFile  = "file"
	BackendCharm = "charm"
)

// Config holds all configuration for a posting run
type Config struct {
	// Bluesky settings
	Handle     string        `toml:"handle"`
	Password   string        `toml:"password"`
	Service    string        `toml:"service"`
	Timeout    time.Duration `toml:"-"`
	MaxRetries int           `toml:"max_retries"`
	RetryDelay time.Duration `toml:"-"`

	// Source settings
	SourceURL string `toml:"source_url"`
	DataDir   string `toml:"data_dir"`

	// Splitter settings
	MaxGraphemes    int `toml:"max_graphemes"`
	MaxThreadLength int `toml:"max_thread_length"`

	// State settings
	StateBackend string `toml:"state_backend"`
	CharmHost    string `toml:"charm_host"`
	CharmDBName  string `toml:"charm_db"`
	AutoSync     bool   `toml:"charm_auto_sync"`
}

// fileConfig carries the durations as strings so TOML can say "30s"
type fileConfig struct {
	Config
	Timeout    string `toml:"timeout"`
	RetryDelay string `toml:"retry_delay"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Service:         "https://bsky.social",
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryDelay:      2 * time.Second,
		SourceURL:       "https://www.gutenberg.org/cache/epub/1564/pg1564.txt",
		DataDir:         defaultDataDir(),
		MaxGraphemes:    300,
		MaxThreadLength: 3,
		StateBackend:    BackendFile,
		CharmHost:       "cloud.charm.sh",
		CharmDBName:     "bookthread",
		AutoSync:        true,
	}
}

// defaultDataDir respects XDG_DATA_HOME set after startup, for testing
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "bookthread")
}

// Load reads configuration from the config file (if any) and environment
func Load() (*Config, error) {
	cfg := Defaults()

	if path := FilePath(); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.mergeEnv()
	return cfg, cfg.Validate()
}

// FilePath returns the config file location, or "" if none exists
func FilePath() string {
	if p := os.Getenv("BOOKTHREAD_CONFIG"); p != "" {
		return p
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	p := filepath.Join(configHome, "bookthread", "config.toml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

func (c *Config) mergeFile(path string) error {
	fc := fileConfig{Config: *c}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse config %s: timeout: %w", path, err)
		}
		fc.Config.Timeout = d
	}
	if fc.RetryDelay != "" {
		d, err := time.ParseDuration(fc.RetryDelay)
		if err != nil {
			return fmt.Errorf("parse config %s: retry_delay: %w", path, err)
		}
		fc.Config.RetryDelay = d
	}

	*c = fc.Config
	return nil
}

func (c *Config) mergeEnv() {
	c.Handle = getEnv("BLUESKY_HANDLE", c.Handle)
	c.Password = getEnv("BLUESKY_PASSWORD", c.Password)
	c.Service = getEnv("BLUESKY_SERVICE", c.Service)
	c.Timeout = getEnvDuration("BLUESKY_TIMEOUT", c.Timeout)
	c.MaxRetries = getEnvInt("BLUESKY_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("BLUESKY_RETRY_DELAY", c.RetryDelay)
	c.SourceURL = getEnv("GUTENBERG_URL", c.SourceURL)
	c.DataDir = getEnv("BOOKTHREAD_DATA_DIR", c.DataDir)
	c.MaxGraphemes = getEnvInt("BOOKTHREAD_MAX_GRAPHEMES", c.MaxGraphemes)
	c.MaxThreadLength = getEnvInt("BOOKTHREAD_MAX_THREAD_LENGTH", c.MaxThreadLength)
	c.StateBackend = getEnv("BOOKTHREAD_STATE_BACKEND", c.StateBackend)
	c.CharmHost = getEnv("CHARM_HOST", c.CharmHost)
	c.CharmDBName = getEnv("CHARM_DB", c.CharmDBName)
	c.AutoSync = getEnvBool("CHARM_AUTO_SYNC", c.AutoSync)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.MaxGraphemes < 1 {
		return fmt.Errorf("BOOKTHREAD_MAX_GRAPHEMES must be positive, got %d", c.MaxGraphemes)
	}
	if c.MaxThreadLength < 1 {
		return fmt.Errorf("BOOKTHREAD_MAX_THREAD_LENGTH must be positive, got %d", c.MaxThreadLength)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("BLUESKY_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.StateBackend != BackendFile && c.StateBackend != BackendCharm {
		return fmt.Errorf("BOOKTHREAD_STATE_BACKEND must be %q or %q, got %q", BackendFile, BackendCharm, c.StateBackend)
	}
	if c.SourceURL == "" {
		return fmt.Errorf("GUTENBERG_URL must not be empty")
	}
	return nil
}

// StatePath returns the JSON progress file location
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.json")
}

// PostLogPath returns the SQLite post log location
func (c *Config) PostLogPath() string {
	return filepath.Join(c.DataDir, "posts.db")
}

// CacheDir returns where the fetched book is cached
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
