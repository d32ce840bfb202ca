// Package cmd defines the command-line interface for typegate.
package cmd

import (
	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.JSONOut), "Output format: json or text or csv")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().IntP("indent", "i", contract.DefaultIndent, "Number of spaces for JSON indentation (0 = compact)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored change output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("similar", "yes", "Pair up reworded messages in diffs (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Float64("similar-threshold", contract.DefaultSimilarThreshold, "Minimum similarity ratio in (0, 1] for a fuzzy match")
	rootCmd.PersistentFlags().String("similar-metric", string(schema.LevenshteinMetric), "Similarity metric: levenshtein or token")
	rootCmd.PersistentFlags().String("fail-on", string(schema.FailOnAny), "Which changes flip the exit code: any or new or none")
	rootCmd.PersistentFlags().String("snapshot-backend", string(schema.SQLiteBackend), "Snapshot backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of parseCmd to Viper
	parseCmd.Flags().String("baseline", "", "Path to a previous report to diff the fresh report against")
	parseCmd.Flags().Bool("snapshot", false, "Save the fresh report as a snapshot")
	parseCmd.Flags().String("label", "", "Label for the saved snapshot")
	if err := viper.BindPFlags(parseCmd.Flags()); err != nil {
		contract.LogFatal("Error binding parse flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().String("baseline", "", "Path to a baseline report (skips snapshot lookup)")
	checkCmd.Flags().String("snapshot-label", "", "Snapshot label to compare against (default: latest snapshot)")
	checkCmd.Flags().Bool("snapshot", false, "Save the fresh report as a snapshot after comparing")
	checkCmd.Flags().String("label", "", "Label for the saved snapshot")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of snapshotSaveCmd to Viper
	snapshotSaveCmd.Flags().String("label", "", "Label for the saved snapshot")
	if err := viper.BindPFlags(snapshotSaveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot save flags", err)
	}

	// Bind all flags of snapshotListCmd to Viper
	snapshotListCmd.Flags().IntP("limit", "l", contract.DefaultSnapshotLimit, "Number of snapshots to display")
	if err := viper.BindPFlags(snapshotListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot list flags", err)
	}

	// Bind all flags of snapshotShowCmd to Viper
	snapshotShowCmd.Flags().String("snapshot-label", "", "Snapshot label to show (default: latest snapshot)")
	if err := viper.BindPFlags(snapshotShowCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot show flags", err)
	}

	// Bind all flags of snapshotMigrateCmd to Viper
	snapshotMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot migrate flags", err)
	}
}
