package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLatestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "latest <data-view>",
		Short: "Print the newest snapshot path for a data view",
		Long: `Resolve a data view id or name and print the path of its most recent
stored snapshot. Ambiguous names are rejected with the candidate ids.`,
		Args: cobra.ExactArgs(1),
		RunE: runLatest,
	}
}

func runLatest(cmd *cobra.Command, args []string) error {
	dir := cfg.Storage.SnapshotDir
	id, err := resolveDataView(args[0], dir)
	if err != nil {
		return err
	}
	path, err := store.MostRecent(dir, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
