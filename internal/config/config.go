// Package config handles the edgectl configuration file, defaults,
// environment overrides, and the global zerolog logger.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	// DefaultEdgercSection is the credential section used when none is configured.
	DefaultEdgercSection = "default"

	// DefaultCacheTTLSeconds is the default response cache TTL (5 minutes).
	DefaultCacheTTLSeconds = 300

	// DefaultTimeoutSeconds is the default request timeout.
	DefaultTimeoutSeconds = 15

	// MinTimeoutSeconds is the minimum allowed request timeout.
	MinTimeoutSeconds = 1

	// MaxTimeoutSeconds is the maximum allowed request timeout.
	MaxTimeoutSeconds = 120
)

// Environment variables recognised as config overrides. Flags beat env,
// env beats file, file beats defaults.
const (
	EnvEdgercPath    = "EDGECTL_EDGERC"
	EnvEdgercSection = "EDGECTL_SECTION"
	EnvCacheDir      = "EDGECTL_CACHE_DIR"
	EnvCacheTTL      = "EDGECTL_CACHE_TTL_SECONDS"
	EnvCacheEnabled  = "EDGECTL_CACHE_ENABLED"
	EnvLogLevel      = "EDGECTL_LOG_LEVEL"
)

// AuthConfig locates the EdgeGrid credentials file.
type AuthConfig struct {
	// EdgercPath is the path to the INI credentials file (~ is expanded).
	EdgercPath string `yaml:"edgerc"`

	// Section is the credentials section to read.
	Section string `yaml:"section"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	// Enabled toggles response caching.
	Enabled bool `yaml:"enabled"`

	// Directory is where cache entries are persisted (~ is expanded).
	Directory string `yaml:"directory"`

	// TTLSeconds is the freshness window for cached responses.
	TTLSeconds int `yaml:"ttl_seconds"`
}

// NetworkConfig controls the outbound HTTP call.
type NetworkConfig struct {
	// TimeoutSeconds bounds each API request.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// ValidateCerts toggles TLS certificate verification.
	ValidateCerts bool `yaml:"validate_certs"`

	// Proxy is an optional proxy URL applied to all requests.
	Proxy string `yaml:"proxy"`
}

// OutputConfig controls default rendering.
type OutputConfig struct {
	// DefaultFormat is "table" or "json".
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `yaml:"level"`

	// Format is "console" or "json".
	Format string `yaml:"format"`

	// File, when set, duplicates log output to this path.
	File string `yaml:"file"`
}

// Config is the full edgectl configuration.
type Config struct {
	Auth    AuthConfig    `yaml:"auth"`
	Cache   CacheConfig   `yaml:"cache"`
	Network NetworkConfig `yaml:"network"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// configPath is where this config was loaded from / will be saved to.
	configPath string
}

// defaults returns a Config populated with built-in defaults.
func defaults() *Config {
	home, _ := os.UserHomeDir()
	configDir, _ := GetConfigDir()

	return &Config{
		Auth: AuthConfig{
			EdgercPath: filepath.Join(home, ".edgerc"),
			Section:    DefaultEdgercSection,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Directory:  filepath.Join(configDir, "cache"),
			TTLSeconds: DefaultCacheTTLSeconds,
		},
		Network: NetworkConfig{
			TimeoutSeconds: DefaultTimeoutSeconds,
			ValidateCerts:  true,
		},
		Output: OutputConfig{
			DefaultFormat: "table",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// New builds a Config from defaults, the config file (if present), and
// environment overrides, in that order. A missing config file is not an
// error; an unparseable one is.
func New() (*Config, error) {
	cfg := defaults()

	path, err := GetConfigFilePath()
	if err != nil {
		return nil, err
	}
	cfg.configPath = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, unmarshalErr)
		}
	}

	cfg.applyEnvOverrides()
	cfg.Auth.EdgercPath = ExpandPath(cfg.Auth.EdgercPath)
	cfg.Cache.Directory = ExpandPath(cfg.Cache.Directory)

	return cfg, nil
}

// applyEnvOverrides applies EDGECTL_* environment variables onto cfg.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvEdgercPath); v != "" {
		c.Auth.EdgercPath = v
	}
	if v := os.Getenv(EnvEdgercSection); v != "" {
		c.Auth.Section = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Directory = v
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			c.Cache.TTLSeconds = ttl
		}
	}
	if v := os.Getenv(EnvCacheEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks invariants that would otherwise surface mid-request.
func (c *Config) Validate() error {
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be positive, got %d", c.Cache.TTLSeconds)
	}
	if c.Network.TimeoutSeconds < MinTimeoutSeconds || c.Network.TimeoutSeconds > MaxTimeoutSeconds {
		return fmt.Errorf("network.timeout_seconds must be between %d and %d, got %d",
			MinTimeoutSeconds, MaxTimeoutSeconds, c.Network.TimeoutSeconds)
	}
	switch c.Output.DefaultFormat {
	case "table", "json":
	default:
		return fmt.Errorf("output.default_format must be table or json, got %q", c.Output.DefaultFormat)
	}
	return nil
}

// ConfigPath returns the path this config was loaded from.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath overrides where Save writes the config file.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the config as YAML to its config path, creating the parent
// directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		path, err := GetConfigFilePath()
		if err != nil {
			return err
		}
		c.configPath = path
	}

	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
