package differ

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/metriclens/metriclens/pkg/types"
)

// defaultFields is the field set compared for every component pair.
var defaultFields = []string{"name", "title", "description", "type", "schemaPath"}

// extendedFields are the structured fields added when extended comparison is
// on. They can hold nested maps and sequences of arbitrary depth, so they are
// compared by recursive structural equality rather than shallow inequality.
var extendedFields = []string{
	"attribution", "format", "precision", "hidden",
	"bucketing", "persistence", "formula",
}

// Options configures how a comparison is performed.
type Options struct {
	// IgnoreFields are excluded from modification checks. They never affect
	// added/removed detection.
	IgnoreFields []string
	// UseExtendedFields adds the structured field set to the comparison.
	UseExtendedFields bool
	// ShowOnly restricts which change types appear in the returned diff
	// lists. It never affects summary counts.
	ShowOnly []types.ChangeType
	// MetricsOnly skips the dimension category entirely.
	MetricsOnly bool
	// DimensionsOnly skips the metric category entirely.
	DimensionsOnly bool
}

// Comparator computes the structural diff between two catalog snapshots.
// It holds no mutable state between calls; one instance may be shared by
// concurrent callers.
type Comparator struct {
	opts     Options
	fields   []string
	ignored  map[string]struct{}
	showOnly map[types.ChangeType]struct{}
}

// New creates a Comparator with the given options.
func New(opts Options) *Comparator {
	c := &Comparator{
		opts:    opts,
		ignored: make(map[string]struct{}, len(opts.IgnoreFields)),
	}
	c.fields = append(c.fields, defaultFields...)
	if opts.UseExtendedFields {
		c.fields = append(c.fields, extendedFields...)
	}
	for _, f := range opts.IgnoreFields {
		c.ignored[f] = struct{}{}
	}
	if len(opts.ShowOnly) > 0 {
		c.showOnly = make(map[types.ChangeType]struct{}, len(opts.ShowOnly))
		for _, ct := range opts.ShowOnly {
			c.showOnly[ct] = struct{}{}
		}
	}
	return c
}

// Fields returns the active comparison field set.
func (c *Comparator) Fields() []string {
	out := make([]string, len(c.fields))
	copy(out, c.fields)
	return out
}

// categoryResult carries the full per-category comparison before any
// presentation filtering is applied.
type categoryResult struct {
	diffs     []types.ComponentDiff
	added     int
	removed   int
	modified  int
	unchanged int
}

// Compare computes the diff between two snapshots. It is deterministic and
// idempotent: identical inputs produce structurally identical diffs, and
// comparing a snapshot to itself yields all-unchanged output.
func (c *Comparator) Compare(source, target *types.Snapshot, sourceLabel, targetLabel string) *types.DiffResult {
	start := time.Now()

	result := &types.DiffResult{
		ReportID:       uuid.NewString(),
		SourceLabel:    sourceLabel,
		TargetLabel:    targetLabel,
		ComparedAt:     start.UTC(),
		MetricDiffs:    []types.ComponentDiff{},
		DimensionDiffs: []types.ComponentDiff{},
	}

	result.MetadataDiff = c.compareMetadata(source, target)

	if !c.opts.DimensionsOnly {
		metrics := c.compareCategory(source.Metrics, target.Metrics)
		result.MetricDiffs = c.filterShowOnly(metrics.diffs)
		result.Summary.MetricsAdded = metrics.added
		result.Summary.MetricsRemoved = metrics.removed
		result.Summary.MetricsModified = metrics.modified
		result.Summary.MetricsUnchanged = metrics.unchanged
	}
	if !c.opts.MetricsOnly {
		dimensions := c.compareCategory(source.Dimensions, target.Dimensions)
		result.DimensionDiffs = c.filterShowOnly(dimensions.diffs)
		result.Summary.DimensionsAdded = dimensions.added
		result.Summary.DimensionsRemoved = dimensions.removed
		result.Summary.DimensionsModified = dimensions.modified
		result.Summary.DimensionsUnchanged = dimensions.unchanged
	}

	result.Summary.SourceMetrics = len(source.Metrics)
	result.Summary.TargetMetrics = len(target.Metrics)
	result.Summary.SourceDimensions = len(source.Dimensions)
	result.Summary.TargetDimensions = len(target.Dimensions)

	result.Duration = time.Since(start)
	return result
}

// compareCategory diffs one component category using id-indexed lookups.
// The id union is processed in sorted order so output is deterministic.
func (c *Comparator) compareCategory(source, target []types.Component) categoryResult {
	sourceMap := types.IndexComponents(source)
	targetMap := types.IndexComponents(target)

	ids := make([]string, 0, len(sourceMap)+len(targetMap))
	for id := range sourceMap {
		ids = append(ids, id)
	}
	for id := range targetMap {
		if _, seen := sourceMap[id]; !seen {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	res := categoryResult{diffs: make([]types.ComponentDiff, 0, len(ids))}
	for _, id := range ids {
		src, inSource := sourceMap[id]
		tgt, inTarget := targetMap[id]

		switch {
		case !inSource:
			res.diffs = append(res.diffs, types.ComponentDiff{
				ID:         id,
				Name:       tgt.Name(),
				ChangeType: types.ChangeTypeAdded,
				TargetData: tgt,
			})
			res.added++
		case !inTarget:
			res.diffs = append(res.diffs, types.ComponentDiff{
				ID:         id,
				Name:       src.Name(),
				ChangeType: types.ChangeTypeRemoved,
				SourceData: src,
			})
			res.removed++
		default:
			changed := c.changedFields(src, tgt)
			diff := types.ComponentDiff{
				ID:         id,
				Name:       componentName(src, tgt),
				SourceData: src,
				TargetData: tgt,
			}
			if len(changed) > 0 {
				diff.ChangeType = types.ChangeTypeModified
				diff.ChangedFields = changed
				res.modified++
			} else {
				diff.ChangeType = types.ChangeTypeUnchanged
				res.unchanged++
			}
			res.diffs = append(res.diffs, diff)
		}
	}
	return res
}

// changedFields compares each active field present on either side. A field
// absent from both sides is equal; absent-vs-present is a change.
func (c *Comparator) changedFields(source, target types.Component) map[string]types.FieldChange {
	var changed map[string]types.FieldChange
	for _, field := range c.fields {
		if _, skip := c.ignored[field]; skip {
			continue
		}
		oldVal, inSource := source.Field(field)
		newVal, inTarget := target.Field(field)
		if !inSource && !inTarget {
			continue
		}
		if inSource && inTarget && structuralEqual(oldVal, newVal) {
			continue
		}
		if changed == nil {
			changed = make(map[string]types.FieldChange)
		}
		changed[field] = types.FieldChange{Old: oldVal, New: newVal}
	}
	return changed
}

// compareMetadata diffs the catalog-level scalar attributes.
func (c *Comparator) compareMetadata(source, target *types.Snapshot) types.MetadataDiff {
	md := types.MetadataDiff{
		SourceName:        source.DataViewName,
		TargetName:        target.DataViewName,
		SourceOwner:       source.Owner,
		TargetOwner:       target.Owner,
		SourceDescription: source.Description,
		TargetDescription: target.Description,
	}
	record := func(field, oldVal, newVal string) {
		if oldVal == newVal {
			return
		}
		if md.ChangedFields == nil {
			md.ChangedFields = make(map[string]types.FieldChange)
		}
		md.ChangedFields[field] = types.FieldChange{Old: oldVal, New: newVal}
	}
	record("name", source.DataViewName, target.DataViewName)
	record("owner", source.Owner, target.Owner)
	record("description", source.Description, target.Description)
	return md
}

// filterShowOnly restricts the returned diff list to the allowed change
// types. Summary counts are computed before this runs and stay unfiltered.
func (c *Comparator) filterShowOnly(diffs []types.ComponentDiff) []types.ComponentDiff {
	if c.showOnly == nil {
		return diffs
	}
	filtered := make([]types.ComponentDiff, 0, len(diffs))
	for _, d := range diffs {
		if _, ok := c.showOnly[d.ChangeType]; ok {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func componentName(source, target types.Component) string {
	if name := target.Name(); name != "" {
		return name
	}
	return source.Name()
}
