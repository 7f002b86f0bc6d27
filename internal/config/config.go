// Package config provides configuration management for the congress CLI.
// It handles loading, validation, and access to configuration values from
// YAML files and environment variables via Viper.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetPathsConfig returns the local tree layout configuration.
	GetPathsConfig() *PathsConfig
	// GetStorageConfig returns the object storage configuration.
	GetStorageConfig() *StorageConfig
	// Validate validates the configuration.
	Validate() error
}

// Ensure Config implements Interface
var _ Interface = (*Config)(nil)

// PathsConfig describes the local directory layout the pipeline reads and
// writes.
type PathsConfig struct {
	// DataRoot is the raw corpus root, shaped
	// <congress>/bills/<type>/<number>/text-versions/<version>/.
	DataRoot string `yaml:"data_root"`
	// OutputRoot is the published tree of winning descriptors.
	OutputRoot string `yaml:"output_root"`
	// ManifestDir is where manifest JSON files are written.
	ManifestDir string `yaml:"manifest_dir"`
}

// StorageConfig describes the object storage bucket the published tree and
// manifests are synced to. The bucket and prefix also drive HTTPS URL
// construction in the GCS manifest variants.
type StorageConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Endpoint     string `yaml:"endpoint"`
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	UseSSL       bool   `yaml:"use_ssl"`
	FailSilently bool   `yaml:"fail_silently"`
}

// Config represents the application configuration.
type Config struct {
	// Paths holds the local tree layout
	Paths *PathsConfig `yaml:"paths"`
	// Storage holds object storage settings
	Storage *StorageConfig `yaml:"storage"`
}

// GetPathsConfig returns the local tree layout configuration.
func (c *Config) GetPathsConfig() *PathsConfig {
	return c.Paths
}

// GetStorageConfig returns the object storage configuration.
func (c *Config) GetStorageConfig() *StorageConfig {
	return c.Storage
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Paths == nil {
		return ErrMissingPaths
	}
	if c.Paths.DataRoot == "" {
		return fmt.Errorf("%w: paths.data_root", ErrMissingValue)
	}
	if c.Paths.OutputRoot == "" {
		return fmt.Errorf("%w: paths.output_root", ErrMissingValue)
	}
	if c.Storage != nil && c.Storage.Enabled {
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("%w: storage.endpoint", ErrMissingValue)
		}
		if c.Storage.Bucket == "" {
			return fmt.Errorf("%w: storage.bucket", ErrMissingValue)
		}
	}
	return nil
}

// LoadConfig builds a Config from the current Viper state. Defaults and
// environment bindings are set up by the root command before this runs.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Paths: &PathsConfig{
			DataRoot:    viper.GetString("paths.data_root"),
			OutputRoot:  viper.GetString("paths.output_root"),
			ManifestDir: viper.GetString("paths.manifest_dir"),
		},
		Storage: &StorageConfig{
			Enabled:      viper.GetBool("storage.enabled"),
			Endpoint:     viper.GetString("storage.endpoint"),
			Bucket:       viper.GetString("storage.bucket"),
			Prefix:       viper.GetString("storage.prefix"),
			AccessKey:    viper.GetString("storage.access_key"),
			SecretKey:    viper.GetString("storage.secret_key"),
			UseSSL:       viper.GetBool("storage.use_ssl"),
			FailSilently: viper.GetBool("storage.fail_silently"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Errors returned by the config package.
var (
	// ErrMissingPaths is returned when the paths section is absent.
	ErrMissingPaths = errors.New("paths configuration is required")
	// ErrMissingValue is returned when a required value is empty.
	ErrMissingValue = errors.New("missing required configuration value")
)
