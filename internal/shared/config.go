package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/songdl/internal/models"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Download    DownloadConfig    `toml:"download"`
	Provider    ProviderConfig    `toml:"provider"`
	Database    DatabaseConfig    `toml:"database"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// DownloadConfig contains the audio extraction settings and where files land.
type DownloadConfig struct {
	models.FetchOptions
	OutputDir   string `toml:"output_dir"`
	Concurrency int    `toml:"concurrency"`
	Tag         bool   `toml:"tag"`
}

// ProviderConfig tunes calls to the catalog provider.
type ProviderConfig struct {
	SearchLimit       int     `toml:"search_limit"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// Timeout returns the per-call provider timeout, zero meaning none.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	History      bool   `toml:"history"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	c.Download.FetchOptions = c.Download.FetchOptions.WithDefaults()
	if err := c.Download.FetchOptions.Validate(); err != nil {
		return fmt.Errorf("%w: download: %v", ErrInvalidConfig, err)
	}
	if c.Download.Concurrency < 1 {
		return fmt.Errorf("%w: download.concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.Provider.SearchLimit < 1 {
		return fmt.Errorf("%w: provider.search_limit must be at least 1", ErrInvalidConfig)
	}
	if c.Provider.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: provider.requests_per_second cannot be negative", ErrInvalidConfig)
	}
	if c.Provider.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: provider.timeout_seconds cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
