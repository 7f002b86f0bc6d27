// Package cmd implements the command-line interface for the congress
// tool. It provides the root command and subcommands for selecting,
// publishing, and syncing the latest bill text versions.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maddyp86/congress/cmd/latest"
	"github.com/maddyp86/congress/cmd/manifests"
	"github.com/maddyp86/congress/cmd/sync"
	"github.com/maddyp86/congress/cmd/synthesize"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the congress CLI.
	rootCmd = &cobra.Command{
		Use:   "congress",
		Short: "Select and publish the latest bill text versions",
		Long: `A pipeline for curating legislative bill text: it selects the most
recent text-version descriptor per bill from the raw data tree, publishes
the winners atomically, and builds manifests for downstream consumers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("congress version %s\n", "1.0.0")
		},
	})

	// Add subcommands
	rootCmd.AddCommand(latest.Command())
	rootCmd.AddCommand(synthesize.Command())
	rootCmd.AddCommand(manifests.Command())
	rootCmd.AddCommand(sync.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Set config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Enable automatic environment variable reading BEFORE setting defaults
	// so environment variables take precedence over defaults
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults (only used if environment variables or config file
	// don't provide values)
	setDefaults()

	// Read config file. The file is optional: config can come from
	// defaults and environment variables alone.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Config file not found: %v (using defaults and environment variables)\n", err)
	}

	// Bind command-line flags to Viper
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}

	// Map environment variables to config keys
	if err := bindEnvVars(); err != nil {
		return err
	}

	// Set development logging settings
	setupDevelopmentLogging()

	return nil
}

// bindEnvVars binds application environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"logger.level":       {"LOG_LEVEL"},
		"logger.encoding":    {"LOG_FORMAT"},
		"paths.data_root":    {"CONGRESS_DATA_ROOT"},
		"paths.output_root":  {"CONGRESS_OUTPUT_ROOT"},
		"paths.manifest_dir": {"CONGRESS_MANIFEST_DIR"},
		"storage.bucket":     {"GCS_BUCKET", "STORAGE_BUCKET"},
		"storage.prefix":     {"GCS_PREFIX", "STORAGE_PREFIX"},
		"storage.endpoint":   {"STORAGE_ENDPOINT"},
		"storage.access_key": {"STORAGE_ACCESS_KEY"},
		"storage.secret_key": {"STORAGE_SECRET_KEY"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := viper.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", envs[0], err)
		}
	}
	return nil
}

// setupDevelopmentLogging configures development logging settings based
// on environment and debug flag.
func setupDevelopmentLogging() {
	debugFlag := Debug || viper.GetBool("app.debug")
	isDev := viper.GetString("app.environment") == "development"

	if debugFlag {
		viper.Set("logger.level", "debug")
	}
	if isDev {
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}

	Debug = debugFlag
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults - production safe
	viper.SetDefault("app", map[string]any{
		"name":        "congress",
		"version":     "1.0.0",
		"environment": "production",
		"debug":       false,
	})

	// Logger defaults - production safe
	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "json",
	})

	// Local tree defaults mirror the historical script layout
	viper.SetDefault("paths", map[string]any{
		"data_root":    "data",
		"output_root":  "latest_data",
		"manifest_dir": ".",
	})

	// Storage defaults - sync disabled until configured
	viper.SetDefault("storage", map[string]any{
		"enabled":       false,
		"endpoint":      "storage.googleapis.com",
		"bucket":        "",
		"prefix":        "",
		"use_ssl":       true,
		"fail_silently": false,
	})
}
