// Package config handles the configuration directory, file and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "taskbridge"

	// ConfigFile is the YAML configuration filename.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored Google OAuth token filename.
	TokenFile = "token.json"
)

// Backends.
const (
	BackendTickTick    = "ticktick"
	BackendGoogleTasks = "googletasks"
)

// MCP server transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Secret wraps strings that should be redacted in logs and serialization.
// Use Value() to access the actual secret value.
type Secret string

// String implements fmt.Stringer. Always returns redacted value.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the actual secret value.
func (s Secret) Value() string {
	return string(s)
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `koanf:"-"`

	// Debug enables debug logging.
	Debug bool `koanf:"-"`

	// Quiet suppresses informational output.
	Quiet bool `koanf:"-"`

	// Backend selects the task backend: "ticktick" or "googletasks".
	Backend string `koanf:"backend"`

	API       APIConfig       `koanf:"api"`
	Cache     CacheConfig     `koanf:"cache"`
	Log       LogConfig       `koanf:"log"`
	TickTick  TickTickConfig  `koanf:"ticktick"`
	YNAB      YNABConfig      `koanf:"ynab"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Server    ServerConfig    `koanf:"server"`
}

// APIConfig bounds every upstream call.
type APIConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// CacheConfig configures the project listing cache.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // console or json
}

// TickTickConfig holds the TickTick credentials and write policy.
type TickTickConfig struct {
	AccessKey Secret `koanf:"access_key"`
	BaseURL   string `koanf:"base_url"`

	// AllowProjectModification must be "yes" to create, update or delete projects.
	AllowProjectModification string `koanf:"allow_project_modification"`

	// AllowedProjects restricts writes to a comma-separated list of project ids or names.
	AllowedProjects string `koanf:"allowed_projects"`
}

// YNABConfig holds the YNAB credentials.
type YNABConfig struct {
	AccessToken Secret `koanf:"access_token"`
	BaseURL     string `koanf:"base_url"`
}

// RateLimitConfig limits upstream requests per backend client.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

// ServerConfig configures the MCP server transport.
type ServerConfig struct {
	Transport string `koanf:"transport"` // stdio or sse
	Addr      string `koanf:"addr"`
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskbridge or $HOME/.config/taskbridge.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	applyDefaults(cfg)
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to the YAML configuration file.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the Google OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored Google OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// Validate checks enumerated settings and bounds.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendTickTick, BackendGoogleTasks:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.Log.Format)
	}
	switch c.Server.Transport {
	case TransportStdio, TransportSSE:
	default:
		return fmt.Errorf("unknown server transport: %s", c.Server.Transport)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive: %s", c.API.Timeout)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate limit must not be negative: %v", c.RateLimit.RPS)
	}
	return nil
}
