package types

import (
	"encoding/json"
	"testing"
)

func TestNewSnapshot_Defaults(t *testing.T) {
	s := NewSnapshot("dv1", "Web Analytics")

	if s.SnapshotVersion != CurrentSnapshotVersion {
		t.Errorf("expected version %q, got %q", CurrentSnapshotVersion, s.SnapshotVersion)
	}
	if s.Metrics == nil || len(s.Metrics) != 0 {
		t.Error("expected empty metrics slice")
	}
	if s.Dimensions == nil || len(s.Dimensions) != 0 {
		t.Error("expected empty dimensions slice")
	}
	if s.CreatedAt == "" {
		t.Error("expected created_at to default to now")
	}
	if s.ParsedCreatedAt().IsZero() {
		t.Error("default created_at should parse")
	}
}

func TestSnapshot_MapRoundTrip(t *testing.T) {
	s := NewSnapshot("dv1", "Web Analytics")
	s.Owner = "analytics-team"
	s.Description = "primary view"
	s.Metadata = map[string]string{"tool_version": "2.1.0"}
	s.Metrics = []Component{
		{"id": "m1", "name": "指标 🎯", "type": "int", "attribution": map[string]any{"model": "lastTouch", "window": float64(30)}},
	}
	s.Dimensions = []Component{
		{"id": "d1", "name": "Page", "custom_key": "survives"},
	}

	restored := SnapshotFromMap(s.ToMap())

	if restored.DataViewID != "dv1" || restored.DataViewName != "Web Analytics" {
		t.Errorf("identity fields lost: %+v", restored)
	}
	if restored.Owner != "analytics-team" || restored.Description != "primary view" {
		t.Error("optional scalar fields lost")
	}
	if restored.GetMetadata("tool_version") != "2.1.0" {
		t.Error("metadata lost")
	}
	if len(restored.Metrics) != 1 || restored.Metrics[0].Name() != "指标 🎯" {
		t.Errorf("non-ASCII metric name did not round-trip: %+v", restored.Metrics)
	}
	if restored.Dimensions[0]["custom_key"] != "survives" {
		t.Error("unknown component key did not survive round trip")
	}
}

func TestSnapshot_JSONRoundTripUnicode(t *testing.T) {
	s := NewSnapshot("dv1", "视图")
	s.Metrics = []Component{{"id": "m1", "name": "指标 🎯"}}

	data, err := json.Marshal(s.ToMap())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	restored := SnapshotFromMap(raw)
	if restored.Metrics[0].Name() != "指标 🎯" {
		t.Errorf("unicode lost: %q", restored.Metrics[0].Name())
	}
}

func TestSnapshotFromMap_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
	}{
		{"empty map", map[string]any{}},
		{"unknown keys", map[string]any{"data_view_id": "dv1", "totally_unknown": []any{"x"}}},
		{"wrong types", map[string]any{"data_view_id": 42, "metrics": "not-a-list"}},
		{"nil values", map[string]any{"data_view_id": nil, "metrics": nil, "metadata": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SnapshotFromMap(tt.input)
			if s == nil {
				t.Fatal("SnapshotFromMap returned nil")
			}
			if s.Metrics == nil || s.Dimensions == nil {
				t.Error("component slices should default to empty, not nil")
			}
			if s.SnapshotVersion == "" {
				t.Error("snapshot_version should default")
			}
		})
	}
}

func TestIndexComponents_LastOccurrenceWins(t *testing.T) {
	components := []Component{
		{"id": "m1", "name": "first"},
		{"id": "m2", "name": "other"},
		{"id": "m1", "name": "second"},
	}

	index := IndexComponents(components)

	if len(index) != 2 {
		t.Fatalf("expected 2 indexed components, got %d", len(index))
	}
	if index["m1"].Name() != "second" {
		t.Errorf("expected later occurrence to win, got %q", index["m1"].Name())
	}
}

func TestIndexComponents_SkipsMissingID(t *testing.T) {
	index := IndexComponents([]Component{{"name": "no id"}, {"id": "m1"}})
	if len(index) != 1 {
		t.Errorf("expected 1 indexed component, got %d", len(index))
	}
}

func TestSnapshot_Clone(t *testing.T) {
	s := NewSnapshot("dv1", "View")
	s.Metrics = []Component{{"id": "m1", "attribution": map[string]any{"model": "lastTouch"}}}
	s.Metadata = map[string]string{"k": "v"}

	clone := s.Clone()
	clone.Metrics[0]["id"] = "mutated"
	clone.Metrics[0]["attribution"].(map[string]any)["model"] = "firstTouch"
	clone.Metadata["k"] = "changed"

	if s.Metrics[0].ID() != "m1" {
		t.Error("clone mutation leaked into original component")
	}
	if s.Metrics[0]["attribution"].(map[string]any)["model"] != "lastTouch" {
		t.Error("clone mutation leaked into nested structure")
	}
	if s.Metadata["k"] != "v" {
		t.Error("clone mutation leaked into metadata")
	}
}

func TestSnapshot_ParsedCreatedAt(t *testing.T) {
	tests := []struct {
		name      string
		createdAt string
		wantZero  bool
	}{
		{"rfc3339", "2024-06-01T10:00:00Z", false},
		{"rfc3339 nano", "2024-06-01T10:00:00.123456789Z", false},
		{"no zone", "2024-06-01T10:00:00", false},
		{"empty", "", true},
		{"garbage", "yesterday", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{CreatedAt: tt.createdAt}
			got := s.ParsedCreatedAt()
			if got.IsZero() != tt.wantZero {
				t.Errorf("ParsedCreatedAt(%q) zero=%v, want %v", tt.createdAt, got.IsZero(), tt.wantZero)
			}
			if !tt.wantZero && got.Year() != 2024 {
				t.Errorf("unexpected parsed time %v", got)
			}
		})
	}
}
