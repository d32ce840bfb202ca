package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/internal/snapstore"
	"github.com/huangsam/typegate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// snapshotManager is the global snapshot persistence manager instance.
var snapshotManager contract.SnapshotManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "typegate",
	Short:              "Turn type checker output into trackable JSON error reports.",
	Long:               `Typegate aggregates mypy-style diagnostics into stable JSON reports and gates CI on the differences between runs.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		// Running without a subcommand is an invocation mistake, so the
		// exit code is distinct from both success and gate failures.
		_ = cmd.Help()
		os.Exit(int(schema.ExitNoCommand))
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".typegate") // Name of config file (without extension)
		viper.SetConfigType("yaml")      // We'll use YAML format
		viper.AddConfigPath(".")         // Look in the current directory
		viper.AddConfigPath("$HOME")     // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("TYPEGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("output", schema.JSONOut)
	viper.SetDefault("indent", contract.DefaultIndent)
	viper.SetDefault("color", "yes")
	viper.SetDefault("similar", "yes")
	viper.SetDefault("similar-threshold", contract.DefaultSimilarThreshold)
	viper.SetDefault("similar-metric", schema.LevenshteinMetric)
	viper.SetDefault("fail-on", schema.FailOnAny)
	viper.SetDefault("limit", contract.DefaultSnapshotLimit)
	viper.SetDefault("snapshot-backend", schema.SQLiteBackend)
	viper.SetDefault("snapshot-db-connect", "")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	// A single positional argument is the input file; empty means stdin.
	if len(args) == 1 {
		input.InputFileStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return fmt.Errorf("%w: %w", contract.ErrBadArguments, err)
	}

	// 5. Initialize persistence layer with validated config
	if err := snapstore.InitStores(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return fmt.Errorf("failed to initialize snapshot storage: %w", err)
	}
	snapshotManager = snapstore.Manager

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// diffSetupWrapper is sharedSetup with the two positional report paths of
// the diff command wired in.
func diffSetupWrapper(cmd *cobra.Command, args []string) error {
	input.OldReportPathStr = args[0]
	input.NewReportPathStr = args[1]
	return sharedSetup(rootCtx, cmd, nil)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetSnapshotManager sets the global snapshot manager.
func SetSnapshotManager(mgr contract.SnapshotManager) {
	snapshotManager = mgr
}
