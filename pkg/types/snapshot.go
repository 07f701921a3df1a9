package types

import (
	"time"
)

// CurrentSnapshotVersion is the schema tag written into new snapshots.
const CurrentSnapshotVersion = "1.0"

// Snapshot is an immutable point-in-time capture of a data view's metric and
// dimension catalog. Construction applies defaults; no semantic validation is
// performed so the comparator must tolerate partial or malformed components.
type Snapshot struct {
	SnapshotVersion string            `json:"snapshot_version"`
	CreatedAt       string            `json:"created_at"`
	DataViewID      string            `json:"data_view_id"`
	DataViewName    string            `json:"data_view_name"`
	Owner           string            `json:"owner,omitempty"`
	Description     string            `json:"description,omitempty"`
	Metrics         []Component       `json:"metrics"`
	Dimensions      []Component       `json:"dimensions"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// NewSnapshot creates a snapshot with defaults applied: empty component
// lists, the current schema version, and created_at set to now (UTC).
func NewSnapshot(dataViewID, dataViewName string) *Snapshot {
	return &Snapshot{
		SnapshotVersion: CurrentSnapshotVersion,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		DataViewID:      dataViewID,
		DataViewName:    dataViewName,
		Metrics:         []Component{},
		Dimensions:      []Component{},
	}
}

// ToMap serializes every snapshot field into the snapshot file schema.
func (s *Snapshot) ToMap() map[string]any {
	m := map[string]any{
		"snapshot_version": s.SnapshotVersion,
		"created_at":       s.CreatedAt,
		"data_view_id":     s.DataViewID,
		"data_view_name":   s.DataViewName,
		"owner":            s.Owner,
		"description":      s.Description,
		"metrics":          componentsToAny(s.Metrics),
		"dimensions":       componentsToAny(s.Dimensions),
	}
	if len(s.Metadata) > 0 {
		meta := make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			meta[k] = v
		}
		m["metadata"] = meta
	}
	return m
}

// SnapshotFromMap builds a snapshot from parsed snapshot-file content. It is
// lenient: missing optional keys take defaults and unknown keys are ignored,
// never an error.
func SnapshotFromMap(m map[string]any) *Snapshot {
	s := &Snapshot{
		SnapshotVersion: stringOr(m, "snapshot_version", CurrentSnapshotVersion),
		CreatedAt:       stringOr(m, "created_at", ""),
		DataViewID:      stringOr(m, "data_view_id", ""),
		DataViewName:    stringOr(m, "data_view_name", ""),
		Owner:           stringOr(m, "owner", ""),
		Description:     stringOr(m, "description", ""),
		Metrics:         componentsFromAny(m["metrics"]),
		Dimensions:      componentsFromAny(m["dimensions"]),
	}
	if raw, ok := m["metadata"].(map[string]any); ok {
		s.Metadata = make(map[string]string, len(raw))
		for k, v := range raw {
			if sv, ok := v.(string); ok {
				s.Metadata[k] = sv
			}
		}
	}
	return s
}

// ParsedCreatedAt returns the snapshot's creation time. Unparseable or empty
// timestamps yield the zero time so they sort oldest.
func (s *Snapshot) ParsedCreatedAt() time.Time {
	if s.CreatedAt == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// MetricCount returns the number of metric components.
func (s *Snapshot) MetricCount() int {
	return len(s.Metrics)
}

// DimensionCount returns the number of dimension components.
func (s *Snapshot) DimensionCount() int {
	return len(s.Dimensions)
}

// GetMetadata returns the value of a metadata key, or "" if unset.
func (s *Snapshot) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}

// Clone creates a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	clone := &Snapshot{
		SnapshotVersion: s.SnapshotVersion,
		CreatedAt:       s.CreatedAt,
		DataViewID:      s.DataViewID,
		DataViewName:    s.DataViewName,
		Owner:           s.Owner,
		Description:     s.Description,
	}
	if s.Metrics != nil {
		clone.Metrics = make([]Component, len(s.Metrics))
		for i := range s.Metrics {
			clone.Metrics[i] = s.Metrics[i].Clone()
		}
	}
	if s.Dimensions != nil {
		clone.Dimensions = make([]Component, len(s.Dimensions))
		for i := range s.Dimensions {
			clone.Dimensions[i] = s.Dimensions[i].Clone()
		}
	}
	if s.Metadata != nil {
		clone.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}

// String returns a short human-readable description of the snapshot.
func (s *Snapshot) String() string {
	return "snapshot " + s.DataViewID + " (" + s.CreatedAt + ")"
}

func componentsToAny(components []Component) []any {
	out := make([]any, len(components))
	for i, c := range components {
		out[i] = map[string]any(c)
	}
	return out
}

func componentsFromAny(raw any) []Component {
	items, ok := raw.([]any)
	if !ok {
		return []Component{}
	}
	out := make([]Component, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Component(m))
		}
	}
	return out
}

func stringOr(m map[string]any, key, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}
