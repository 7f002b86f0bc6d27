package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/maddyp86/congress/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Paths: &config.PathsConfig{
			DataRoot:    "data",
			OutputRoot:  "latest_data",
			ManifestDir: ".",
		},
		Storage: &config.StorageConfig{},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingPaths(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Paths = nil
	require.ErrorIs(t, cfg.Validate(), config.ErrMissingPaths)
}

func TestValidate_MissingValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty data root", func(c *config.Config) { c.Paths.DataRoot = "" }},
		{"empty output root", func(c *config.Config) { c.Paths.OutputRoot = "" }},
		{"storage enabled without endpoint", func(c *config.Config) {
			c.Storage.Enabled = true
			c.Storage.Bucket = "b"
		}},
		{"storage enabled without bucket", func(c *config.Config) {
			c.Storage.Enabled = true
			c.Storage.Endpoint = "storage.googleapis.com"
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrMissingValue)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("paths.data_root", "/srv/data")
	viper.Set("paths.output_root", "/srv/latest")
	viper.Set("paths.manifest_dir", "/srv/manifests")
	viper.Set("storage.bucket", "my-bucket")
	viper.Set("storage.prefix", "congress")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "/srv/data", cfg.GetPathsConfig().DataRoot)
	require.Equal(t, "/srv/latest", cfg.GetPathsConfig().OutputRoot)
	require.Equal(t, "my-bucket", cfg.GetStorageConfig().Bucket)
	require.Equal(t, "congress", cfg.GetStorageConfig().Prefix)
	require.False(t, cfg.GetStorageConfig().Enabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("paths.data_root", "/srv/data")
	// output_root intentionally unset

	_, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrMissingValue)
}
