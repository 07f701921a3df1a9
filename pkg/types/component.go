package types

import "encoding/json"

// Component is a single metric or dimension record from a data view catalog.
// It is a free-form map so structured fields of arbitrary depth (attribution,
// bucketing, formula, ...) survive a load/save round trip untouched. The only
// key the engine relies on is "id".
type Component map[string]any

// ID returns the component's stable identifier, or "" if missing.
func (c Component) ID() string {
	return c.stringField("id")
}

// Name returns the component's display name, or "" if missing.
func (c Component) Name() string {
	return c.stringField("name")
}

// Field returns the raw value of a field and whether it is present.
func (c Component) Field(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

func (c Component) stringField(key string) string {
	if v, ok := c[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Clone creates a deep copy of the component. JSON round-tripping covers
// every value shape a snapshot file can contain; on marshal failure the
// value falls back to a shallow copy.
func (c Component) Clone() Component {
	if c == nil {
		return nil
	}
	clone := make(Component, len(c))
	for k, v := range c {
		data, err := json.Marshal(v)
		if err != nil {
			clone[k] = v
			continue
		}
		var copied any
		if err := json.Unmarshal(data, &copied); err != nil {
			clone[k] = v
			continue
		}
		clone[k] = copied
	}
	return clone
}

// IndexComponents builds an id-indexed lookup map for a component list.
// Components without an id cannot be matched and are skipped. When two
// components share an id, the later occurrence in slice order wins; this
// tie-break is deliberate and covered by tests.
func IndexComponents(components []Component) map[string]Component {
	index := make(map[string]Component, len(components))
	for _, c := range components {
		id := c.ID()
		if id == "" {
			continue
		}
		index[id] = c
	}
	return index
}
