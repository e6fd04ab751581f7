package types

import "time"

// ------------------------------
// Core Domain Entities
// ------------------------------

// Kind discriminates the two bank item shapes.
type Kind string

const (
	KindCard  Kind = "card"
	KindTopic Kind = "topic"
)

// QuestionType is the answer format of a card.
type QuestionType string

const (
	ShortAnswer    QuestionType = "short_answer"
	MultipleChoice QuestionType = "multiple_choice"
)

// Option is a single multiple-choice option.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Card is a flashcard stored in the record's bank.
type Card struct {
	ID             string       `json:"id"`
	Type           Kind         `json:"type"`
	Subject        string       `json:"subject"`
	Topic          string       `json:"topic"`
	Question       string       `json:"question"`
	Answer         string       `json:"answer"`
	DetailedAnswer string       `json:"detailedAnswer,omitempty"`
	QuestionType   QuestionType `json:"questionType"`
	Options        []Option     `json:"options"`
	SavedOptions   []Option     `json:"savedOptions"`
	BoxNum         int          `json:"boxNum"`
	TopicShellID   string       `json:"topicShellId,omitempty"`
	ExamBoard      string       `json:"examBoard"`
	ExamType       string       `json:"examType"`
	NextReviewDate time.Time    `json:"nextReviewDate"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Clone returns a deep copy so callers can mutate without aliasing the
// original's slices.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Options = append([]Option(nil), c.Options...)
	cp.SavedOptions = append([]Option(nil), c.SavedOptions...)
	return &cp
}

// TopicShell is the denormalized placeholder entity for one topic. Its
// Cards backlog belongs to the shell for its whole lifetime and must
// survive re-synchronization.
type TopicShell struct {
	ID           string    `json:"id"`
	Type         Kind      `json:"type"`
	Subject      string    `json:"subject"`
	Name         string    `json:"name"`
	Topic        string    `json:"topic"`
	ExamBoard    string    `json:"examBoard"`
	ExamType     string    `json:"examType"`
	Color        string    `json:"color"`
	SubjectColor string    `json:"subjectColor"`
	Cards        []string  `json:"cards"`
	IsEmpty      bool      `json:"isEmpty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the shell.
func (s *TopicShell) Clone() *TopicShell {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Cards = append([]string(nil), s.Cards...)
	return &cp
}

// TopicEntry is one topic inside a TopicList. ID is optional; stable ids
// are derived from subject+name when absent.
type TopicEntry struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// TopicList is the authoritative, user-edited list of topics for a subject.
type TopicList struct {
	Subject   string       `json:"subject"`
	ExamBoard string       `json:"examBoard"`
	ExamType  string       `json:"examType"`
	Topics    []TopicEntry `json:"topics"`
}

// TopicMetadata is a flat audit row kept parallel to the shell set.
type TopicMetadata struct {
	TopicID   string    `json:"topicId"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	ExamBoard string    `json:"examBoard"`
	ExamType  string    `json:"examType"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubjectColors maps a subject's base colour and its per-topic shades.
type SubjectColors struct {
	Base   string            `json:"base"`
	Topics map[string]string `json:"topics"`
}

// ColorMap maps subject name to its colour assignments.
type ColorMap map[string]SubjectColors

// Clone returns a deep copy of the colour map.
func (m ColorMap) Clone() ColorMap {
	if m == nil {
		return nil
	}
	out := make(ColorMap, len(m))
	for subject, sc := range m {
		topics := make(map[string]string, len(sc.Topics))
		for k, v := range sc.Topics {
			topics[k] = v
		}
		out[subject] = SubjectColors{Base: sc.Base, Topics: topics}
	}
	return out
}

// ReviewEntry records one card's position inside a review box.
type ReviewEntry struct {
	CardID         string    `json:"cardId"`
	LastReviewedAt time.Time `json:"lastReviewedAt"`
	NextReviewDate time.Time `json:"nextReviewDate"`
}

// NumReviewBoxes is the Leitner box count.
const NumReviewBoxes = 5
