package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/metriclens/metriclens/internal/differ"
	"github.com/metriclens/metriclens/pkg/types"
)

const defaultWidth = 72

// ConsoleRenderer writes a human-readable diff report, optionally colored.
type ConsoleRenderer struct {
	NoColor bool
}

// Render writes the diff result to w. Color is disabled when requested, when
// NO_COLOR is set, or when stdout is not a terminal.
func (r *ConsoleRenderer) Render(w io.Writer, result *types.DiffResult, breaking []differ.BreakingChange) error {
	color.NoColor = r.NoColor || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd()))

	width := defaultWidth
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && tw < width {
		width = tw
	}
	rule := strings.Repeat("=", width)

	fmt.Fprintf(w, "Catalog Changes: %s -> %s\n%s\n", result.SourceLabel, result.TargetLabel, rule)
	if result.Summary.HasChanges() {
		fmt.Fprintf(w, "%s\n\n", result.Summary.Text())
	} else {
		fmt.Fprintf(w, "%s\n", color.GreenString(types.NoChangesText))
	}

	if result.MetadataDiff.HasChanges() {
		fmt.Fprintln(w, "Data view:")
		for _, field := range []string{"name", "owner", "description"} {
			if change, ok := result.MetadataDiff.ChangedFields[field]; ok {
				fmt.Fprintf(w, "  ~ %s: %v -> %v\n", field, change.Old, change.New)
			}
		}
		fmt.Fprintln(w)
	}

	r.renderCategory(w, "Metrics", result.MetricDiffs)
	r.renderCategory(w, "Dimensions", result.DimensionDiffs)

	if len(breaking) > 0 {
		fmt.Fprintf(w, "%s\n", color.RedString("Breaking changes:"))
		for _, b := range breaking {
			fmt.Fprintf(w, "  ! [%s] %s\n", b.Severity, b.Details)
		}
	}
	return nil
}

func (r *ConsoleRenderer) renderCategory(w io.Writer, title string, diffs []types.ComponentDiff) {
	var added, removed, modified []types.ComponentDiff
	for _, d := range diffs {
		switch d.ChangeType {
		case types.ChangeTypeAdded:
			added = append(added, d)
		case types.ChangeTypeRemoved:
			removed = append(removed, d)
		case types.ChangeTypeModified:
			modified = append(modified, d)
		}
	}
	if len(added)+len(removed)+len(modified) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", title)
	for _, d := range added {
		fmt.Fprintf(w, "  %s %s\n", color.GreenString("+"), describe(d))
	}
	for _, d := range modified {
		fmt.Fprintf(w, "  %s %s\n", color.YellowString("~"), describe(d))
		for _, field := range sortedFieldNames(d.ChangedFields) {
			change := d.ChangedFields[field]
			fmt.Fprintf(w, "      %s: %v -> %v\n", field, renderValue(change.Old), renderValue(change.New))
		}
	}
	for _, d := range removed {
		fmt.Fprintf(w, "  %s %s\n", color.RedString("-"), describe(d))
	}
	fmt.Fprintln(w)
}

func describe(d types.ComponentDiff) string {
	if d.Name != "" && d.Name != d.ID {
		return fmt.Sprintf("%s (%s)", d.Name, d.ID)
	}
	return d.ID
}

func renderValue(v any) string {
	if v == nil {
		return "(absent)"
	}
	return fmt.Sprintf("%v", v)
}
