package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values
const (
	EnvConfig        = "CHECKLIST_CONFIG"
	EnvAddr          = "CHECKLIST_ADDR"
	EnvStorageDriver = "CHECKLIST_STORAGE_DRIVER"
	EnvStoragePath   = "CHECKLIST_STORAGE_PATH"
	EnvLogLevel      = "CHECKLIST_LOG_LEVEL"
	EnvMaxUsers      = "CHECKLIST_MAX_USERS"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
	Auth    AuthConfig    `yaml:"auth"`
	Seed    SeedConfig    `yaml:"seed"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

// StorageConfig selects the entity store backend
type StorageConfig struct {
	Driver string `yaml:"driver"` // memory | sqlite
	Path   string `yaml:"path"`   // sqlite file; empty means default location
}

// SessionConfig controls the session cookie
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`
}

// AuthConfig holds registration limits
type AuthConfig struct {
	MaxUsers int `yaml:"max_users"`
}

// SeedConfig controls the default admin account
type SeedConfig struct {
	Enabled       *bool  `yaml:"enabled"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

// IsEnabled reports whether seeding runs; unset means yes
func (s SeedConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
	File   string `yaml:"file"`   // empty means stderr
}

// Default returns a config with every field set to its default
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads config from path. An empty path resolves through
// CHECKLIST_CONFIG and then the user's config directory.
// Returns default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			// no home directory; run on defaults and env alone
			return finish(&Config{})
		}
		path = p
	}

	var config Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	return finish(&config)
}

func finish(c *Config) (*Config, error) {
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the config as YAML to path, creating parent directories
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// DefaultPath returns the config file location used when no path is given
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}

	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "checklist", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "checklist", "config.yaml"), nil
}

// applyEnv overlays environment variables onto file values
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvStorageDriver); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvMaxUsers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxUsers, v, err)
		}
		c.Auth.MaxUsers = n
	}
	return nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 10 * time.Second
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			c.Storage.Path = filepath.Join(homeDir, ".checklist", "checklist.db")
		}
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "sessionId"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 24 * time.Hour
	}

	if c.Auth.MaxUsers == 0 {
		c.Auth.MaxUsers = 5
	}

	if c.Seed.Enabled == nil {
		enabled := true
		c.Seed.Enabled = &enabled
	}
	if c.Seed.AdminUsername == "" {
		c.Seed.AdminUsername = "admin"
	}
	if c.Seed.AdminPassword == "" {
		c.Seed.AdminPassword = "123456"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown storage driver %q (want memory or sqlite)", c.Storage.Driver)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}

	if c.Auth.MaxUsers < 0 {
		return fmt.Errorf("auth.max_users must be positive, got %d", c.Auth.MaxUsers)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New("server timeouts must be positive")
	}
	return nil
}
