package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune <data-view>",
		Short: "Apply the retention policy to a data view's snapshots",
		Long: `Delete stored snapshots of a data view beyond the newest --keep entries.
Snapshots of other data views are never touched.`,
		Args: cobra.ExactArgs(1),
		RunE: runPrune,
	}
	cmd.Flags().Int("keep", 0, "number of snapshots to keep (0 uses the configured default)")
	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	dir := cfg.Storage.SnapshotDir
	id, err := resolveDataView(args[0], dir)
	if err != nil {
		return err
	}

	keep, _ := cmd.Flags().GetInt("keep")
	if keep <= 0 {
		keep = cfg.Storage.KeepLast
	}

	deleted, err := store.ApplyRetention(dir, id, keep)
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to prune.")
		return nil
	}
	for _, p := range deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", p)
	}
	catalogCache.Delete(dir)
	return nil
}
