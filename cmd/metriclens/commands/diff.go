package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/metriclens/metriclens/internal/differ"
	"github.com/metriclens/metriclens/internal/output"
	"github.com/metriclens/metriclens/pkg/types"
)

func newDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [data-view]",
		Short: "Compare two catalog snapshots",
		Long: `Compare two catalog snapshots and report added, removed, and modified
metrics and dimensions with field-level detail.

With a data view argument, the two most recent stored snapshots of that view
are compared. With --from/--to, each value is either a snapshot file path or
a data view token (the view's most recent snapshot is used).

Exit codes: 0 = no changes, 1 = changes detected, 2 = error.`,
		Example: `  metriclens diff "Web Analytics"
  metriclens diff --from old.json --to new.json
  metriclens diff dv_12345 --extended --breaking
  metriclens diff dv_12345 --show-only added,removed --format markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDiff,
	}

	cmd.Flags().String("from", "", "source snapshot file or data view token")
	cmd.Flags().String("to", "", "target snapshot file or data view token")
	cmd.Flags().StringSlice("ignore-fields", nil, "field names excluded from modification checks")
	cmd.Flags().Bool("extended", false, "compare the extended structured field set")
	cmd.Flags().StringSlice("show-only", nil, "restrict listed diffs to change types (added, removed, modified, unchanged)")
	cmd.Flags().Bool("metrics-only", false, "compare only metrics")
	cmd.Flags().Bool("dimensions-only", false, "compare only dimensions")
	cmd.Flags().Bool("breaking", false, "report backward-incompatible changes")
	cmd.Flags().String("format", "console", "output format (console, json, yaml, markdown)")
	cmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolP("quiet", "q", false, "suppress output, exit with status only")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	sourcePath, targetPath, err := diffInputs(cmd, args)
	if err != nil {
		return err
	}

	source, err := store.Load(sourcePath)
	if err != nil {
		return err
	}
	target, err := store.Load(targetPath)
	if err != nil {
		return err
	}

	opts, err := diffOptions(cmd)
	if err != nil {
		return err
	}

	comparator := differ.New(opts)
	result := comparator.Compare(source, target, sourcePath, targetPath)

	var breaking []differ.BreakingChange
	if wantBreaking, _ := cmd.Flags().GetBool("breaking"); wantBreaking {
		breaking = differ.DetectBreakingChanges(result)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		if err := renderDiff(cmd, result, breaking); err != nil {
			return err
		}
	}

	if result.Summary.HasChanges() {
		os.Exit(1)
	}
	return nil
}

// diffInputs resolves the source and target snapshot paths from the
// command line.
func diffInputs(cmd *cobra.Command, args []string) (string, string, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	dir := cfg.Storage.SnapshotDir

	if from != "" && to != "" {
		sourcePath, err := snapshotPath(from, dir)
		if err != nil {
			return "", "", err
		}
		targetPath, err := snapshotPath(to, dir)
		if err != nil {
			return "", "", err
		}
		return sourcePath, targetPath, nil
	}
	if from != "" || to != "" {
		return "", "", fmt.Errorf("--from and --to must be given together")
	}
	if len(args) != 1 {
		return "", "", fmt.Errorf("provide a data view or both --from and --to")
	}

	id, err := resolveDataView(args[0], dir)
	if err != nil {
		return "", "", err
	}
	infos, err := store.List(dir)
	if err != nil {
		return "", "", err
	}
	var matching []string
	for _, info := range infos {
		if info.DataViewID == id {
			matching = append(matching, info.Path)
		}
	}
	if len(matching) < 2 {
		return "", "", fmt.Errorf("data view %s has %d stored snapshot(s); need at least 2 to diff", id, len(matching))
	}
	// List is newest first: compare the previous capture against the latest.
	return matching[1], matching[0], nil
}

// snapshotPath interprets a token as a file path when it exists on disk and
// as a data view token otherwise.
func snapshotPath(token, dir string) (string, error) {
	if _, err := os.Stat(token); err == nil {
		return token, nil
	}
	id, err := resolveDataView(token, dir)
	if err != nil {
		return "", err
	}
	return store.MostRecent(dir, id)
}

func diffOptions(cmd *cobra.Command) (differ.Options, error) {
	opts := differ.Options{
		IgnoreFields:      cfg.Diff.IgnoreFields,
		UseExtendedFields: cfg.Diff.ExtendedFields,
	}
	if cmd.Flags().Changed("ignore-fields") {
		opts.IgnoreFields, _ = cmd.Flags().GetStringSlice("ignore-fields")
	}
	if cmd.Flags().Changed("extended") {
		opts.UseExtendedFields, _ = cmd.Flags().GetBool("extended")
	}
	opts.MetricsOnly, _ = cmd.Flags().GetBool("metrics-only")
	opts.DimensionsOnly, _ = cmd.Flags().GetBool("dimensions-only")
	if opts.MetricsOnly && opts.DimensionsOnly {
		return opts, fmt.Errorf("--metrics-only and --dimensions-only are mutually exclusive")
	}

	showOnly, _ := cmd.Flags().GetStringSlice("show-only")
	for _, s := range showOnly {
		ct, err := types.ParseChangeType(s)
		if err != nil {
			return opts, err
		}
		opts.ShowOnly = append(opts.ShowOnly, ct)
	}
	return opts, nil
}

func renderDiff(cmd *cobra.Command, result *types.DiffResult, breaking []differ.BreakingChange) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" && outPath != "-" {
		file, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	switch format {
	case output.FormatJSON:
		return output.RenderJSON(w, result, breaking)
	case output.FormatYAML:
		return output.RenderYAML(w, result, breaking)
	case output.FormatMarkdown:
		return output.RenderMarkdown(w, result, breaking)
	default:
		noColor, _ := cmd.Flags().GetBool("no-color")
		renderer := &output.ConsoleRenderer{NoColor: noColor}
		return renderer.Render(w, result, breaking)
	}
}
