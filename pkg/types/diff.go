package types

import (
	"fmt"
	"strings"
	"time"
)

// ChangeType classifies a component between two snapshots.
type ChangeType string

const (
	// ChangeTypeAdded indicates the component exists only in the target.
	ChangeTypeAdded ChangeType = "added"
	// ChangeTypeRemoved indicates the component exists only in the source.
	ChangeTypeRemoved ChangeType = "removed"
	// ChangeTypeModified indicates at least one compared field differs.
	ChangeTypeModified ChangeType = "modified"
	// ChangeTypeUnchanged indicates all compared fields are equal.
	ChangeTypeUnchanged ChangeType = "unchanged"
)

// IsValid checks if the ChangeType is one of the four classifications.
func (ct ChangeType) IsValid() bool {
	switch ct {
	case ChangeTypeAdded, ChangeTypeRemoved, ChangeTypeModified, ChangeTypeUnchanged:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ChangeType.
func (ct ChangeType) String() string {
	return string(ct)
}

// ParseChangeType parses a user-supplied change type string.
func ParseChangeType(s string) (ChangeType, error) {
	ct := ChangeType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.IsValid() {
		return "", fmt.Errorf("invalid change type: %q", s)
	}
	return ct, nil
}

// FieldChange holds the old and new value of a single changed field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ComponentDiff describes how one component changed between two snapshots.
// ChangedFields is populated only for modified components.
type ComponentDiff struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	ChangeType    ChangeType             `json:"change_type"`
	SourceData    Component              `json:"source_data,omitempty"`
	TargetData    Component              `json:"target_data,omitempty"`
	ChangedFields map[string]FieldChange `json:"changed_fields,omitempty"`
}

// MetadataDiff compares catalog-level attributes of the two snapshots.
type MetadataDiff struct {
	SourceName        string                 `json:"source_name"`
	TargetName        string                 `json:"target_name"`
	SourceOwner       string                 `json:"source_owner"`
	TargetOwner       string                 `json:"target_owner"`
	SourceDescription string                 `json:"source_description"`
	TargetDescription string                 `json:"target_description"`
	ChangedFields     map[string]FieldChange `json:"changed_fields,omitempty"`
}

// HasChanges reports whether any catalog attribute differs.
func (m *MetadataDiff) HasChanges() bool {
	return len(m.ChangedFields) > 0
}

// NoChangesText is the fixed sentinel returned by DiffSummary.Text when the
// comparison found nothing.
const NoChangesText = "No changes detected"

// DiffSummary provides exact per-category counts for a comparison. Counts are
// always computed over the full comparison, independent of any presentation
// filtering applied to the diff lists.
type DiffSummary struct {
	MetricsAdded        int `json:"metrics_added"`
	MetricsRemoved      int `json:"metrics_removed"`
	MetricsModified     int `json:"metrics_modified"`
	MetricsUnchanged    int `json:"metrics_unchanged"`
	DimensionsAdded     int `json:"dimensions_added"`
	DimensionsRemoved   int `json:"dimensions_removed"`
	DimensionsModified  int `json:"dimensions_modified"`
	DimensionsUnchanged int `json:"dimensions_unchanged"`
	SourceMetrics       int `json:"source_metrics"`
	TargetMetrics       int `json:"target_metrics"`
	SourceDimensions    int `json:"source_dimensions"`
	TargetDimensions    int `json:"target_dimensions"`
}

// TotalAdded returns the number of added components across both categories.
func (s *DiffSummary) TotalAdded() int {
	return s.MetricsAdded + s.DimensionsAdded
}

// TotalRemoved returns the number of removed components across both categories.
func (s *DiffSummary) TotalRemoved() int {
	return s.MetricsRemoved + s.DimensionsRemoved
}

// TotalModified returns the number of modified components across both categories.
func (s *DiffSummary) TotalModified() int {
	return s.MetricsModified + s.DimensionsModified
}

// TotalChanges returns the number of added, removed, and modified components.
func (s *DiffSummary) TotalChanges() int {
	return s.TotalAdded() + s.TotalRemoved() + s.TotalModified()
}

// HasChanges reports whether the comparison found any change at all.
func (s *DiffSummary) HasChanges() bool {
	return s.TotalChanges() > 0
}

// MetricsChangePercent returns changed metrics as a percentage of the larger
// side's metric count, 0 when both sides are empty.
func (s *DiffSummary) MetricsChangePercent() float64 {
	changed := s.MetricsAdded + s.MetricsRemoved + s.MetricsModified
	return changePercent(changed, s.SourceMetrics, s.TargetMetrics)
}

// DimensionsChangePercent returns changed dimensions as a percentage of the
// larger side's dimension count, 0 when both sides are empty.
func (s *DiffSummary) DimensionsChangePercent() float64 {
	changed := s.DimensionsAdded + s.DimensionsRemoved + s.DimensionsModified
	return changePercent(changed, s.SourceDimensions, s.TargetDimensions)
}

func changePercent(changed, source, target int) float64 {
	denom := source
	if target > denom {
		denom = target
	}
	if denom == 0 {
		return 0
	}
	return float64(changed) / float64(denom) * 100
}

// Text returns a natural-language summary that omits zero categories, e.g.
// "2 metrics added, 1 dimension modified". Returns NoChangesText when the
// comparison found nothing.
func (s *DiffSummary) Text() string {
	var parts []string
	appendPart := func(count int, singular, action string) {
		if count == 0 {
			return
		}
		noun := singular
		if count != 1 {
			noun += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s %s", count, noun, action))
	}

	appendPart(s.MetricsAdded, "metric", "added")
	appendPart(s.MetricsRemoved, "metric", "removed")
	appendPart(s.MetricsModified, "metric", "modified")
	appendPart(s.DimensionsAdded, "dimension", "added")
	appendPart(s.DimensionsRemoved, "dimension", "removed")
	appendPart(s.DimensionsModified, "dimension", "modified")

	if len(parts) == 0 {
		return NoChangesText
	}
	return strings.Join(parts, ", ")
}

// DiffResult is the complete outcome of comparing two snapshots. It is
// transient: produced per comparison call and never persisted by the engine.
type DiffResult struct {
	ReportID       string          `json:"report_id"`
	SourceLabel    string          `json:"source_label"`
	TargetLabel    string          `json:"target_label"`
	ComparedAt     time.Time       `json:"compared_at"`
	Duration       time.Duration   `json:"duration"`
	MetadataDiff   MetadataDiff    `json:"metadata_diff"`
	MetricDiffs    []ComponentDiff `json:"metric_diffs"`
	DimensionDiffs []ComponentDiff `json:"dimension_diffs"`
	Summary        DiffSummary     `json:"summary"`
}

// DiffsByType returns metric and dimension diffs of a given change type, in
// result order (metrics first).
func (r *DiffResult) DiffsByType(ct ChangeType) []ComponentDiff {
	var out []ComponentDiff
	for _, d := range r.MetricDiffs {
		if d.ChangeType == ct {
			out = append(out, d)
		}
	}
	for _, d := range r.DimensionDiffs {
		if d.ChangeType == ct {
			out = append(out, d)
		}
	}
	return out
}
