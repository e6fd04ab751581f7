package standardize

// MigrateLegacyType walks an item recursively and retires the overloaded
// legacy "type" field: wherever it holds a question-format value, that value
// is copied into "questionType" and "type" is reset to the generic
// card/topic discriminator. Running the migration twice yields the same
// result as running it once.
func MigrateLegacyType(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		if t, ok := tv["type"].(string); ok && legacyQuestionFormats[t] {
			tv["questionType"] = t
			tv["type"] = string(ClassifyKind(tv))
		}
		for k, e := range tv {
			tv[k] = MigrateLegacyType(e)
		}
		return tv
	case []any:
		for i, e := range tv {
			tv[i] = MigrateLegacyType(e)
		}
		return tv
	default:
		return v
	}
}

// MigrateAll applies the legacy-type migration to a batch of raw items.
func MigrateAll(items []Raw) []Raw {
	for i, m := range items {
		items[i] = MigrateLegacyType(m).(map[string]any)
	}
	return items
}
