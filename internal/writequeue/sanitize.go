package writequeue

import "reflect"

// circularSentinel replaces any value already on the current walk path, so
// a cyclic payload serializes instead of aborting the write.
const circularSentinel = "[circular]"

// sanitizeFields breaks reference cycles in the free-form payload values.
// The returned map is safe to hand to encoding/json.
func sanitizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = sanitizeValue(v, map[uintptr]bool{})
	}
	return out
}

// sanitizeValue walks maps, slices, and pointers, tracking the addresses on
// the current path. Only reference kinds can participate in a cycle;
// everything else passes through untouched.
func sanitizeValue(v any, onPath map[uintptr]bool) any {
	switch tv := v.(type) {
	case map[string]any:
		ptr := reflect.ValueOf(tv).Pointer()
		if onPath[ptr] {
			return circularSentinel
		}
		onPath[ptr] = true
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = sanitizeValue(e, onPath)
		}
		delete(onPath, ptr)
		return out
	case []any:
		ptr := reflect.ValueOf(tv).Pointer()
		if onPath[ptr] {
			return circularSentinel
		}
		onPath[ptr] = true
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = sanitizeValue(e, onPath)
		}
		delete(onPath, ptr)
		return out
	default:
		return v
	}
}
