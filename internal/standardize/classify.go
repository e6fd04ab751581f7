package standardize

import (
	"regexp"
	"strings"

	"github.com/studyvault/recordsync/internal/types"
)

// Legacy question-format values that may appear in the old "type" field.
var legacyQuestionFormats = map[string]bool{
	"multiple_choice":    true,
	"short_answer":       true,
	"basic":              true,
	"basic_and_reversed": true,
}

var (
	correctAnswerRe = regexp.MustCompile(`(?i)Correct Answer:\s*([a-e])\)`)
	answerLetterRe  = regexp.MustCompile(`(?i)\b([a-e])\)`)
)

// ClassifyKind decides whether a raw item is a card or a topic shell.
// Explicit discriminators win; otherwise the shape decides.
func ClassifyKind(m Raw) types.Kind {
	switch getString(m, "kind", "type") {
	case string(types.KindTopic), "topicShell":
		return types.KindTopic
	case string(types.KindCard):
		return types.KindCard
	}
	if _, ok := m["question"]; ok {
		return types.KindCard
	}
	if _, ok := m["answer"]; ok {
		return types.KindCard
	}
	if _, ok := m["isEmpty"]; ok {
		return types.KindTopic
	}
	if _, ok := m["cards"]; ok {
		return types.KindTopic
	}
	return types.KindCard
}

// mcRule is one predicate in the multiple-choice detection chain.
type mcRule struct {
	name  string
	match func(Raw) bool
}

// mcRules is the fixed-precedence rule chain: first match wins. A populated
// options array must win over any textual heuristic so detection can never
// wipe real options.
var mcRules = []mcRule{
	{"options", func(m Raw) bool { return len(getSlice(m, "options")) > 0 }},
	{"savedOptions", func(m Raw) bool { return len(getSlice(m, "savedOptions")) > 0 }},
	{"questionType", func(m Raw) bool { return getString(m, "questionType") == string(types.MultipleChoice) }},
	{"answerText", func(m Raw) bool { return extractAnswerLetter(getString(m, "answer")) != "" }},
	{"legacyType", func(m Raw) bool { return getString(m, "type") == string(types.MultipleChoice) }},
}

// IsMultipleChoice reports whether the item is a multiple-choice card, and
// the name of the rule that matched.
func IsMultipleChoice(m Raw) (bool, string) {
	for _, r := range mcRules {
		if r.match(m) {
			return true, r.name
		}
	}
	return false, ""
}

// extractAnswerLetter pulls the option letter out of the answer text, if
// any. The explicit "Correct Answer: x)" form is checked before the
// generic "x)" form.
func extractAnswerLetter(answer string) string {
	if answer == "" {
		return ""
	}
	if m := correctAnswerRe.FindStringSubmatch(answer); m != nil {
		return strings.ToLower(m[1])
	}
	if m := answerLetterRe.FindStringSubmatch(answer); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}
