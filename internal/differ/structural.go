package differ

import "reflect"

// structuralEqual reports deep equality over arbitrary-depth maps, sequences,
// and scalars. Numeric values are compared by value so an int built in code
// equals the float64 the JSON decoder produces for the same number.
func structuralEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case map[string]any:
		bv, ok := asStringMap(b)
		if !ok {
			return false
		}
		return mapsEqual(av, bv)
	}
	if am, ok := asStringMap(a); ok {
		bm, ok := asStringMap(b)
		if !ok {
			return false
		}
		return mapsEqual(am, bm)
	}

	if as, ok := a.([]any); ok {
		bs, ok := b.([]any)
		if !ok {
			return false
		}
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !structuralEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}

	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}

	return reflect.DeepEqual(a, b)
}

func mapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !structuralEqual(av, bv) {
			return false
		}
	}
	return true
}

// asStringMap normalizes map-shaped values, including named map types such
// as types.Component, to a plain map[string]any.
func asStringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
