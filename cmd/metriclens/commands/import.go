package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a snapshot export in the snapshot directory",
		Long: `Parse a snapshot export file, store it under the configured snapshot
directory with a generated filename, and apply the retention policy for its
data view.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	cmd.Flags().Int("keep", 0, "retention: keep this many snapshots (0 uses the configured default)")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	snapshot, err := store.Load(args[0])
	if err != nil {
		return err
	}

	dir := cfg.Storage.SnapshotDir
	filename := store.GenerateFilename(snapshot.DataViewID, snapshot.DataViewName)
	path, err := store.Save(snapshot, filepath.Join(dir, filename))
	if err != nil {
		return err
	}
	catalogCache.Delete(dir)
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s\n", path)

	keep, _ := cmd.Flags().GetInt("keep")
	if keep <= 0 {
		keep = cfg.Storage.KeepLast
	}
	deleted, err := store.ApplyRetention(dir, snapshot.DataViewID, keep)
	if err != nil {
		return err
	}
	for _, p := range deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "Retired %s\n", p)
	}
	return nil
}
