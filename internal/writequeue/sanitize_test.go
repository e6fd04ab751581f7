package writequeue

import (
	"encoding/json"
	"testing"
)

func TestSanitizeFields_BreaksMapCycle(t *testing.T) {
	t.Parallel()
	inner := map[string]any{"name": "loop"}
	inner["self"] = inner

	out := sanitizeFields(map[string]any{"bank": inner})
	if _, err := json.Marshal(out); err != nil {
		t.Fatalf("sanitized payload must serialize: %v", err)
	}

	got := out["bank"].(map[string]any)
	if got["self"] != circularSentinel {
		t.Fatalf("cycle not replaced, got %v", got["self"])
	}
	if got["name"] != "loop" {
		t.Fatal("sibling values must survive sanitization")
	}
}

func TestSanitizeFields_BreaksSliceCycle(t *testing.T) {
	t.Parallel()
	s := make([]any, 1)
	s[0] = s

	out := sanitizeFields(map[string]any{"topicLists": s})
	if _, err := json.Marshal(out); err != nil {
		t.Fatalf("sanitized payload must serialize: %v", err)
	}
	if out["topicLists"].([]any)[0] != circularSentinel {
		t.Fatal("slice cycle not replaced")
	}
}

func TestSanitizeFields_SharedReferenceIsNotACycle(t *testing.T) {
	t.Parallel()
	shared := map[string]any{"v": 1}
	out := sanitizeFields(map[string]any{
		"bank": map[string]any{"a": shared, "b": shared},
	})

	bank := out["bank"].(map[string]any)
	for _, k := range []string{"a", "b"} {
		m, ok := bank[k].(map[string]any)
		if !ok || m["v"] != 1 {
			t.Fatalf("diamond reference %q mangled: %v", k, bank[k])
		}
	}
}

func TestSanitizeFields_LeavesInputUntouched(t *testing.T) {
	t.Parallel()
	inner := map[string]any{"name": "loop"}
	inner["self"] = inner

	_ = sanitizeFields(map[string]any{"bank": inner})
	if _, ok := inner["self"].(map[string]any); !ok {
		t.Fatal("sanitization must copy, not mutate the caller's payload")
	}
}
