package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/metriclens/metriclens/internal/config"
	"github.com/metriclens/metriclens/internal/logger"
	"github.com/metriclens/metriclens/internal/resolver"
	"github.com/metriclens/metriclens/internal/storage"
)

var (
	cfgFile      string
	cfg          *config.Config
	log          logger.Logger
	store        *storage.SnapshotStore
	catalogCache = resolver.NewCatalogCache()
)

var rootCmd = &cobra.Command{
	Use:   "metriclens",
	Short: "Snapshot and diff analytics data view catalogs",
	Long: `metriclens captures point-in-time snapshots of a data view's metric and
dimension catalog and computes precise, deterministic diffs between them:
which components were added, removed, or modified, which individual fields
changed, and which changes are backward-incompatible.

Snapshots are plain JSON files; metriclens stores them locally, enforces a
retention policy per data view, and compares any two captures.`,
	Example: `  # Store a snapshot export and apply retention
  metriclens import dataview-export.json

  # Compare the two most recent snapshots of a data view
  metriclens diff "Web Analytics"

  # Compare two snapshot files and flag breaking changes
  metriclens diff --from old.json --to new.json --breaking

  # CI gate: exit 1 when the catalog drifted
  metriclens diff dv_12345 --quiet || echo "catalog changed"`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	log = logger.New(viper.GetString("logging.level"))
	store = storage.NewSnapshotStore(log)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.metriclens/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("snapshot-dir", "", "directory holding stored snapshots")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("storage.snapshot_dir", rootCmd.PersistentFlags().Lookup("snapshot-dir"))
	viper.BindPFlag("output.no_color", rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newLatestCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newPruneCommand())
	rootCmd.AddCommand(newVersionCommand())
}
