package standardize

import (
	"time"
)

// Raw is one heterogeneous incoming item before canonicalization.
type Raw = map[string]any

// cloneValue deep-copies maps and slices so standardization never mutates
// the caller's item through shared references.
func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Clone deep-copies a raw item, breaking aliasing before any mutation.
func Clone(m Raw) Raw {
	if m == nil {
		return Raw{}
	}
	return cloneValue(m).(map[string]any)
}

func getString(m Raw, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func getBool(m Raw, key string) (bool, bool) {
	b, ok := m[key].(bool)
	return b, ok
}

func getInt(m Raw, key string) (int, bool) {
	switch n := m[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

func getSlice(m Raw, key string) []any {
	s, _ := m[key].([]any)
	return s
}

// getTime accepts RFC 3339 strings and Unix epoch milliseconds, the two
// timestamp encodings found in stored records.
func getTime(m Raw, key string) (time.Time, bool) {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, true
		}
	case float64:
		if v > 0 {
			return time.UnixMilli(int64(v)).UTC(), true
		}
	}
	return time.Time{}, false
}

func getStringSlice(m Raw, key string) []string {
	var out []string
	for _, v := range getSlice(m, key) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
