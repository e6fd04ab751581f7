// Package standardize normalizes heterogeneous incoming bank items into the
// two canonical shapes, Card and TopicShell. It is total: any input yields a
// fully-populated item, with irrecoverable inputs logged and skipped over
// rather than failing the batch.
package standardize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/studyvault/recordsync/internal/types"
)

const (
	defaultSubject   = "General"
	defaultExamBoard = "General"
	defaultExamType  = "Course"
	defaultBoxNum    = 1
)

// reviewInterval is the delay before a fresh card's first review.
const reviewInterval = 24 * time.Hour

// Standardize canonicalizes a batch of raw items. Each input is cloned
// before any mutation, so callers keep their originals untouched.
func Standardize(raw []Raw) []types.BankItem {
	return standardizeAt(raw, time.Now().UTC())
}

// standardizeAt is the clock-injected form used by tests.
func standardizeAt(raw []Raw, now time.Time) []types.BankItem {
	out := make([]types.BankItem, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			log.Error().Msg("standardize: nil item skipped")
			continue
		}
		m := Clone(item)
		switch ClassifyKind(m) {
		case types.KindTopic:
			out = append(out, types.NewShellItem(buildShell(m, now)))
		default:
			out = append(out, types.NewCardItem(buildCard(m, now)))
		}
	}
	return out
}

// isStandard reports whether the item already carries the full canonical
// shape: such items only get their multiple-choice sub-type re-validated.
func isStandard(m Raw) bool {
	_, hasCreated := m["createdAt"]
	_, hasUpdated := m["updatedAt"]
	_, hasBoard := m["examBoard"]
	return hasCreated && hasUpdated && hasBoard
}

func buildCard(m Raw, now time.Time) *types.Card {
	c := &types.Card{
		ID:             getString(m, "id"),
		Type:           types.KindCard,
		Subject:        getString(m, "subject"),
		Topic:          getString(m, "topic"),
		Question:       getString(m, "question", "front"),
		Answer:         getString(m, "answer", "back"),
		DetailedAnswer: getString(m, "detailedAnswer"),
		TopicShellID:   getString(m, "topicShellId"),
		ExamBoard:      getString(m, "examBoard"),
		ExamType:       getString(m, "examType"),
		QuestionType:   types.QuestionType(getString(m, "questionType")),
		Options:        decodeOptions(getSlice(m, "options")),
		SavedOptions:   decodeOptions(getSlice(m, "savedOptions")),
	}
	if n, ok := getInt(m, "boxNum"); ok && n >= 1 && n <= types.NumReviewBoxes {
		c.BoxNum = n
	}
	if t, ok := getTime(m, "nextReviewDate"); ok {
		c.NextReviewDate = t
	}
	if t, ok := getTime(m, "createdAt"); ok {
		c.CreatedAt = t
	}
	if t, ok := getTime(m, "updatedAt"); ok {
		c.UpdatedAt = t
	}

	if !isStandard(m) {
		applyCardDefaults(c, now)
	}
	c.UpdatedAt = now

	validateMultipleChoice(c, m)
	return c
}

// applyCardDefaults fills every missing field with its documented default.
func applyCardDefaults(c *types.Card, now time.Time) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Subject == "" {
		c.Subject = defaultSubject
	}
	if c.ExamBoard == "" {
		c.ExamBoard = defaultExamBoard
	}
	if c.ExamType == "" {
		c.ExamType = defaultExamType
	}
	if c.BoxNum == 0 {
		c.BoxNum = defaultBoxNum
	}
	if c.QuestionType == "" {
		c.QuestionType = types.ShortAnswer
	}
	if c.NextReviewDate.IsZero() {
		c.NextReviewDate = now.Add(reviewInterval)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
}

// validateMultipleChoice applies the precedence-ordered detection rules and
// repairs the option set: synthesized from the answer letter when absent,
// restored from savedOptions after an accidental wipe, and always mirrored
// back into savedOptions.
func validateMultipleChoice(c *types.Card, m Raw) {
	mc, rule := IsMultipleChoice(m)
	if !mc {
		if c.QuestionType == "" {
			c.QuestionType = types.ShortAnswer
		}
		return
	}
	c.QuestionType = types.MultipleChoice

	if len(c.Options) == 0 && len(c.SavedOptions) > 0 {
		c.Options = append([]types.Option(nil), c.SavedOptions...)
	}
	if len(c.Options) == 0 {
		if letter := extractAnswerLetter(c.Answer); letter != "" {
			c.Options = synthesizeOptions(letter, detailText(c))
		}
	}
	if len(c.Options) > 0 {
		c.SavedOptions = append([]types.Option(nil), c.Options...)
	}
	if len(c.Options) == 0 {
		log.Error().Str("cardId", c.ID).Str("rule", rule).
			Msg("standardize: multiple-choice card with no recoverable options")
	}
}

func decodeOptions(s []any) []types.Option {
	var out []types.Option
	for _, v := range s {
		switch tv := v.(type) {
		case string:
			out = append(out, types.Option{Text: tv})
		case map[string]any:
			o := types.Option{Text: getString(tv, "text", "answer")}
			o.Correct, _ = getBool(tv, "correct")
			out = append(out, o)
		}
	}
	return out
}

// synthesizeOptions builds placeholder options a)..d) (extended when the
// extracted letter sits past d), marking the matched letter correct and
// giving it the detailed answer text.
func synthesizeOptions(letter, detail string) []types.Option {
	count := 4
	idx := int(letter[0] - 'a')
	if idx >= count {
		count = idx + 1
	}
	out := make([]types.Option, count)
	for i := range out {
		l := string(rune('a' + i))
		if i == idx {
			text := detail
			if text == "" {
				text = fmt.Sprintf("Option %s", strings.ToUpper(l))
			}
			out[i] = types.Option{Text: text, Correct: true}
			continue
		}
		out[i] = types.Option{Text: fmt.Sprintf("Option %s", strings.ToUpper(l))}
	}
	return out
}

func buildShell(m Raw, now time.Time) *types.TopicShell {
	name := getString(m, "name", "topic")
	s := &types.TopicShell{
		ID:           getString(m, "id"),
		Type:         types.KindTopic,
		Subject:      getString(m, "subject"),
		Name:         name,
		Topic:        name,
		ExamBoard:    getString(m, "examBoard"),
		ExamType:     getString(m, "examType"),
		Color:        getString(m, "color"),
		SubjectColor: getString(m, "subjectColor"),
		Cards:        getStringSlice(m, "cards"),
	}
	if t, ok := getTime(m, "createdAt"); ok {
		s.CreatedAt = t
	}
	if !isStandard(m) {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.Subject == "" {
			s.Subject = defaultSubject
		}
		if s.ExamBoard == "" {
			s.ExamBoard = defaultExamBoard
		}
		if s.ExamType == "" {
			s.ExamType = defaultExamType
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
	}
	if v, ok := getBool(m, "isEmpty"); ok {
		s.IsEmpty = v
	} else {
		s.IsEmpty = len(s.Cards) == 0
	}
	s.UpdatedAt = now
	return s
}

// detailText is the body given to the synthesized correct option.
func detailText(c *types.Card) string {
	if c.DetailedAnswer != "" {
		return c.DetailedAnswer
	}
	return c.Answer
}
