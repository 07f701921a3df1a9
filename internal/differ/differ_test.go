package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metriclens/metriclens/pkg/types"
)

func snapshotWith(metrics, dimensions []types.Component) *types.Snapshot {
	s := types.NewSnapshot("dv1", "Web Analytics")
	if metrics != nil {
		s.Metrics = metrics
	}
	if dimensions != nil {
		s.Dimensions = dimensions
	}
	return s
}

func TestComparator_SelfCompareIsUnchanged(t *testing.T) {
	s := snapshotWith(
		[]types.Component{
			{"id": "m1", "name": "Visits", "type": "int"},
			{"id": "m2", "name": "Revenue", "type": "decimal", "formula": map[string]any{"op": "sum"}},
		},
		[]types.Component{{"id": "d1", "name": "Page"}},
	)

	result := New(Options{UseExtendedFields: true}).Compare(s, s, "a", "b")

	assert.False(t, result.Summary.HasChanges())
	for _, d := range append(result.MetricDiffs, result.DimensionDiffs...) {
		assert.Equal(t, types.ChangeTypeUnchanged, d.ChangeType, "component %s", d.ID)
		assert.Empty(t, d.ChangedFields)
	}
	assert.Equal(t, types.NoChangesText, result.Summary.Text())
}

func TestComparator_AddedModifiedRemovedExample(t *testing.T) {
	source := snapshotWith(nil, []types.Component{{"id": "d1", "name": "Page"}})
	target := snapshotWith(nil, []types.Component{
		{"id": "d1", "name": "Page URL"},
		{"id": "d2", "name": "New"},
	})

	result := New(Options{}).Compare(source, target, "old", "new")

	assert.Equal(t, 1, result.Summary.DimensionsModified)
	assert.Equal(t, 1, result.Summary.DimensionsAdded)
	assert.Equal(t, 0, result.Summary.DimensionsRemoved)

	require.Len(t, result.DimensionDiffs, 2)
	d1 := result.DimensionDiffs[0]
	require.Equal(t, "d1", d1.ID)
	assert.Equal(t, types.ChangeTypeModified, d1.ChangeType)
	require.Contains(t, d1.ChangedFields, "name")
	assert.Equal(t, "Page", d1.ChangedFields["name"].Old)
	assert.Equal(t, "Page URL", d1.ChangedFields["name"].New)

	d2 := result.DimensionDiffs[1]
	assert.Equal(t, "d2", d2.ID)
	assert.Equal(t, types.ChangeTypeAdded, d2.ChangeType)
	assert.Nil(t, d2.SourceData)
}

func TestComparator_ClassificationPartitionsIDUnion(t *testing.T) {
	source := snapshotWith([]types.Component{
		{"id": "a"}, {"id": "b", "name": "x"}, {"id": "c"},
	}, nil)
	target := snapshotWith([]types.Component{
		{"id": "b", "name": "y"}, {"id": "c"}, {"id": "d"},
	}, nil)

	result := New(Options{}).Compare(source, target, "s", "t")

	seen := make(map[string]types.ChangeType)
	for _, d := range result.MetricDiffs {
		_, dup := seen[d.ID]
		require.False(t, dup, "id %s classified twice", d.ID)
		require.True(t, d.ChangeType.IsValid())
		seen[d.ID] = d.ChangeType
	}
	assert.Equal(t, map[string]types.ChangeType{
		"a": types.ChangeTypeRemoved,
		"b": types.ChangeTypeModified,
		"c": types.ChangeTypeUnchanged,
		"d": types.ChangeTypeAdded,
	}, seen)
}

func TestComparator_IgnoreFields(t *testing.T) {
	source := snapshotWith([]types.Component{{"id": "m1", "description": "old"}}, nil)
	target := snapshotWith([]types.Component{{"id": "m1", "description": "new"}}, nil)

	result := New(Options{IgnoreFields: []string{"description"}}).Compare(source, target, "s", "t")

	require.Len(t, result.MetricDiffs, 1)
	assert.Equal(t, types.ChangeTypeUnchanged, result.MetricDiffs[0].ChangeType)
	assert.Equal(t, 1, result.Summary.MetricsUnchanged)
	assert.Equal(t, 0, result.Summary.MetricsModified)
}

func TestComparator_ShowOnlyFiltersListsNotSummary(t *testing.T) {
	source := snapshotWith([]types.Component{
		{"id": "m1", "name": "keep"},
		{"id": "m2", "name": "old name"},
		{"id": "m3"},
	}, nil)
	target := snapshotWith([]types.Component{
		{"id": "m1", "name": "keep"},
		{"id": "m2", "name": "new name"},
		{"id": "m4"},
	}, nil)

	result := New(Options{ShowOnly: []types.ChangeType{types.ChangeTypeAdded}}).Compare(source, target, "s", "t")

	require.Len(t, result.MetricDiffs, 1)
	assert.Equal(t, "m4", result.MetricDiffs[0].ID)
	assert.Equal(t, types.ChangeTypeAdded, result.MetricDiffs[0].ChangeType)

	// Summary still reflects the full unfiltered comparison.
	assert.Equal(t, 1, result.Summary.MetricsAdded)
	assert.Equal(t, 1, result.Summary.MetricsRemoved)
	assert.Equal(t, 1, result.Summary.MetricsModified)
	assert.Equal(t, 1, result.Summary.MetricsUnchanged)
}

func TestComparator_FieldSets(t *testing.T) {
	basic := New(Options{})
	assert.Equal(t, []string{"name", "title", "description", "type", "schemaPath"}, basic.Fields())

	extended := New(Options{UseExtendedFields: true})
	assert.Subset(t, extended.Fields(), basic.Fields())
	assert.Contains(t, extended.Fields(), "attribution")
	assert.Contains(t, extended.Fields(), "formula")
}

func TestComparator_ExtendedFieldsNestedCompare(t *testing.T) {
	source := snapshotWith([]types.Component{{
		"id": "m1",
		"attribution": map[string]any{
			"model":  "lastTouch",
			"window": map[string]any{"days": 30, "granularity": "day"},
		},
	}}, nil)
	target := snapshotWith([]types.Component{{
		"id": "m1",
		"attribution": map[string]any{
			"model":  "lastTouch",
			"window": map[string]any{"days": 60, "granularity": "day"},
		},
	}}, nil)

	// Default field set ignores attribution entirely.
	result := New(Options{}).Compare(source, target, "s", "t")
	assert.Equal(t, 0, result.Summary.MetricsModified)

	// Extended field set compares it structurally.
	result = New(Options{UseExtendedFields: true}).Compare(source, target, "s", "t")
	require.Equal(t, 1, result.Summary.MetricsModified)
	require.Contains(t, result.MetricDiffs[0].ChangedFields, "attribution")
}

func TestComparator_AbsentVsPresentField(t *testing.T) {
	source := snapshotWith([]types.Component{{"id": "m1"}}, nil)
	target := snapshotWith([]types.Component{{"id": "m1", "title": "Now titled"}}, nil)

	result := New(Options{}).Compare(source, target, "s", "t")

	require.Equal(t, 1, result.Summary.MetricsModified)
	change := result.MetricDiffs[0].ChangedFields["title"]
	assert.Nil(t, change.Old)
	assert.Equal(t, "Now titled", change.New)
}

func TestComparator_CategoryRestriction(t *testing.T) {
	source := snapshotWith(
		[]types.Component{{"id": "m1", "name": "a"}},
		[]types.Component{{"id": "d1", "name": "a"}},
	)
	target := snapshotWith(
		[]types.Component{{"id": "m1", "name": "b"}},
		[]types.Component{{"id": "d1", "name": "b"}},
	)

	metricsOnly := New(Options{MetricsOnly: true}).Compare(source, target, "s", "t")
	assert.Equal(t, 1, metricsOnly.Summary.MetricsModified)
	assert.Equal(t, 0, metricsOnly.Summary.DimensionsModified)
	assert.Empty(t, metricsOnly.DimensionDiffs)

	dimensionsOnly := New(Options{DimensionsOnly: true}).Compare(source, target, "s", "t")
	assert.Equal(t, 0, dimensionsOnly.Summary.MetricsModified)
	assert.Equal(t, 1, dimensionsOnly.Summary.DimensionsModified)
	assert.Empty(t, dimensionsOnly.MetricDiffs)
}

func TestComparator_DuplicateIDsLastWins(t *testing.T) {
	source := snapshotWith([]types.Component{
		{"id": "m1", "name": "first"},
		{"id": "m1", "name": "second"},
	}, nil)
	target := snapshotWith([]types.Component{{"id": "m1", "name": "second"}}, nil)

	result := New(Options{}).Compare(source, target, "s", "t")

	require.Len(t, result.MetricDiffs, 1)
	assert.Equal(t, types.ChangeTypeUnchanged, result.MetricDiffs[0].ChangeType)
}

func TestComparator_MetadataDiff(t *testing.T) {
	source := types.NewSnapshot("dv1", "Old Name")
	source.Owner = "alice"
	source.Description = "same"
	target := types.NewSnapshot("dv1", "New Name")
	target.Owner = "bob"
	target.Description = "same"

	result := New(Options{}).Compare(source, target, "s", "t")

	md := result.MetadataDiff
	assert.True(t, md.HasChanges())
	assert.Len(t, md.ChangedFields, 2)
	assert.Equal(t, "Old Name", md.ChangedFields["name"].Old)
	assert.Equal(t, "New Name", md.ChangedFields["name"].New)
	assert.Equal(t, "alice", md.ChangedFields["owner"].Old)
	assert.NotContains(t, md.ChangedFields, "description")
}

func TestComparator_Deterministic(t *testing.T) {
	source := snapshotWith([]types.Component{
		{"id": "z"}, {"id": "a"}, {"id": "m", "name": "x"},
	}, []types.Component{{"id": "d9"}, {"id": "d1"}})
	target := snapshotWith([]types.Component{
		{"id": "m", "name": "y"}, {"id": "b"},
	}, []types.Component{{"id": "d1"}})

	c := New(Options{})
	first := c.Compare(source, target, "s", "t")
	second := c.Compare(source, target, "s", "t")

	// Report ids are fresh per call; everything else is identical.
	assert.NotEqual(t, first.ReportID, second.ReportID)
	assert.Equal(t, first.MetricDiffs, second.MetricDiffs)
	assert.Equal(t, first.DimensionDiffs, second.DimensionDiffs)
	assert.Equal(t, first.Summary, second.Summary)

	// Sorted id order.
	var ids []string
	for _, d := range first.MetricDiffs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"a", "b", "m", "z"}, ids)
}

func TestComparator_MalformedComponentsDoNotPanic(t *testing.T) {
	source := snapshotWith([]types.Component{
		{"name": "no id at all"},
		{"id": "m1", "type": nil},
	}, nil)
	target := snapshotWith([]types.Component{
		{"id": "m1", "type": map[string]any{"weird": true}},
	}, nil)

	assert.NotPanics(t, func() {
		result := New(Options{}).Compare(source, target, "s", "t")
		assert.Equal(t, 1, result.Summary.MetricsModified)
	})
}

func TestComparator_ConcurrentUse(t *testing.T) {
	source := snapshotWith([]types.Component{{"id": "m1", "name": "a"}}, nil)
	target := snapshotWith([]types.Component{{"id": "m1", "name": "b"}}, nil)
	c := New(Options{})

	done := make(chan *types.DiffResult, 16)
	for i := 0; i < 16; i++ {
		go func() {
			done <- c.Compare(source, target, "s", "t")
		}()
	}
	for i := 0; i < 16; i++ {
		result := <-done
		assert.Equal(t, 1, result.Summary.MetricsModified)
	}
}
