// Package config loads the lsdb YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leengari/lsdb/internal/storage/medium"
)

// Config is the lsdb configuration file.
type Config struct {
	Database string       `yaml:"database"`
	Medium   MediumConfig `yaml:"medium"`
	Log      LogConfig    `yaml:"log"`
	Server   ServerConfig `yaml:"server"`
}

// MediumConfig selects the key/value store databases are kept in.
type MediumConfig struct {
	Kind       string `yaml:"kind"`
	Path       string `yaml:"path,omitempty"`
	QuotaBytes int64  `yaml:"quota_bytes,omitempty"` // <= 0 means unlimited
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	SeqURL string `yaml:"seq_url,omitempty"` // Seq server; empty disables shipping
}

// ServerConfig controls the TCP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: "default",
		Medium: MediumConfig{
			Kind: string(medium.KindFile),
			Path: "databases",
		},
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Port: 4444},
	}
}

// Load reads a configuration file. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	switch medium.Kind(strings.ToLower(c.Medium.Kind)) {
	case medium.KindMemory, medium.KindMoss, medium.KindSQLite:
	case medium.KindFile:
		if c.Medium.Path == "" {
			return fmt.Errorf("medium.path is required for kind %q", c.Medium.Kind)
		}
	default:
		return fmt.Errorf("unknown medium.kind %q", c.Medium.Kind)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
