// Package output renders diff results for the CLI. The full report-writer
// suite (Excel, CSV, HTML, PR comments) lives outside this repository and
// consumes the same DiffResult contract.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/metriclens/metriclens/internal/differ"
	"github.com/metriclens/metriclens/pkg/types"
)

// Format identifies a supported output format.
type Format string

const (
	FormatConsole  Format = "console"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatConsole, "":
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", s)
	}
}

// report bundles the diff with its breaking-change findings for the
// structured formats.
type report struct {
	Diff     *types.DiffResult       `json:"diff" yaml:"diff"`
	Breaking []differ.BreakingChange `json:"breaking_changes,omitempty" yaml:"breaking_changes,omitempty"`
}

// RenderJSON writes the diff as indented JSON with non-ASCII preserved.
func RenderJSON(w io.Writer, result *types.DiffResult, breaking []differ.BreakingChange) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report{Diff: result, Breaking: breaking})
}

// RenderYAML writes the diff as YAML.
func RenderYAML(w io.Writer, result *types.DiffResult, breaking []differ.BreakingChange) error {
	return yaml.NewEncoder(w).Encode(report{Diff: result, Breaking: breaking})
}

// RenderMarkdown writes the diff as a Markdown change table.
func RenderMarkdown(w io.Writer, result *types.DiffResult, breaking []differ.BreakingChange) error {
	fmt.Fprintf(w, "## Catalog changes: %s → %s\n\n", result.SourceLabel, result.TargetLabel)
	fmt.Fprintf(w, "%s\n\n", result.Summary.Text())

	if !result.Summary.HasChanges() {
		return nil
	}

	fmt.Fprintln(w, "| Category | Component | Change | Fields |")
	fmt.Fprintln(w, "|---|---|---|---|")
	writeRows(w, "metric", result.MetricDiffs)
	writeRows(w, "dimension", result.DimensionDiffs)
	fmt.Fprintln(w)

	if len(breaking) > 0 {
		fmt.Fprintln(w, "### Breaking changes")
		fmt.Fprintln(w)
		for _, b := range breaking {
			fmt.Fprintf(w, "- **%s** `%s`: %s\n", b.Severity, b.ComponentID, b.Details)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeRows(w io.Writer, category string, diffs []types.ComponentDiff) {
	for _, d := range diffs {
		if d.ChangeType == types.ChangeTypeUnchanged {
			continue
		}
		var fields []string
		for _, name := range sortedFieldNames(d.ChangedFields) {
			change := d.ChangedFields[name]
			fields = append(fields, fmt.Sprintf("%s: %v → %v", name, renderValue(change.Old), renderValue(change.New)))
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n", category, describe(d), d.ChangeType, strings.Join(fields, "; "))
	}
}

func sortedFieldNames(fields map[string]types.FieldChange) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
