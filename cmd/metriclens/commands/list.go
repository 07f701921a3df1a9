package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Long: `List the snapshots in the snapshot directory, newest first. Files that
fail to parse are skipped.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	cmd.Flags().String("data-view", "", "only show snapshots for this data view (id or name)")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	dir := cfg.Storage.SnapshotDir

	filterID := ""
	if token, _ := cmd.Flags().GetString("data-view"); token != "" {
		id, err := resolveDataView(token, dir)
		if err != nil {
			return err
		}
		filterID = id
	}

	infos, err := store.List(dir)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATA VIEW\tNAME\tCREATED\tPATH")
	shown := 0
	for _, info := range infos {
		if filterID != "" && info.DataViewID != filterID {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.DataViewID, info.DataViewName, info.CreatedAt, info.Path)
		shown++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if shown == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No snapshots found.")
	}
	return nil
}
