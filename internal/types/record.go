package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when the remote store has no record for an id.
var ErrNotFound = errors.New("record not found")

// Wire field names of the record document. Operations address fields by
// these names; preservation copies them verbatim between documents.
const (
	FieldBank          = "bank"
	FieldTopicLists    = "topicLists"
	FieldTopicMetadata = "topicMetadata"
	FieldColorMap      = "colorMap"
	FieldLastSavedAt   = "lastSavedAt"
)

// ReviewBoxField returns the wire name of review box n (1-based).
func ReviewBoxField(n int) string { return fmt.Sprintf("reviewBox%d", n) }

// Record is the single remote JSON document holding one user's data.
// ReviewBoxes[0] is box 1.
type Record struct {
	ID            string
	Bank          []BankItem
	TopicLists    []TopicList
	TopicMetadata []TopicMetadata
	ColorMap      ColorMap
	ReviewBoxes   [NumReviewBoxes][]ReviewEntry
	LastSavedAt   time.Time
}

// Box returns the entries of review box n (1-based); nil for an invalid n.
func (r *Record) Box(n int) []ReviewEntry {
	if n < 1 || n > NumReviewBoxes {
		return nil
	}
	return r.ReviewBoxes[n-1]
}

// Cards returns the card subset of the bank.
func (r *Record) Cards() []*Card {
	var out []*Card
	for _, item := range r.Bank {
		if item.Kind == KindCard {
			out = append(out, item.Card)
		}
	}
	return out
}

// Shells returns the topic shell subset of the bank.
func (r *Record) Shells() []*TopicShell {
	var out []*TopicShell
	for _, item := range r.Bank {
		if item.Kind == KindTopic {
			out = append(out, item.Shell)
		}
	}
	return out
}

// FieldMap renders the addressable fields of the record keyed by wire
// name. Fields the fetched document did not carry are omitted, so a
// preserving write never overwrites them with null. LastSavedAt is
// excluded: it is refreshed on every write, never preserved.
func (r *Record) FieldMap() map[string]any {
	fields := make(map[string]any, 4+NumReviewBoxes)
	if r.Bank != nil {
		fields[FieldBank] = r.Bank
	}
	if r.TopicLists != nil {
		fields[FieldTopicLists] = r.TopicLists
	}
	if r.TopicMetadata != nil {
		fields[FieldTopicMetadata] = r.TopicMetadata
	}
	if r.ColorMap != nil {
		fields[FieldColorMap] = r.ColorMap
	}
	for i := 0; i < NumReviewBoxes; i++ {
		if r.ReviewBoxes[i] != nil {
			fields[ReviewBoxField(i+1)] = r.ReviewBoxes[i]
		}
	}
	return fields
}

// MarshalJSON emits the flat document shape with reviewBox1..5.
func (r Record) MarshalJSON() ([]byte, error) {
	doc := map[string]any{
		FieldBank:          r.Bank,
		FieldTopicLists:    r.TopicLists,
		FieldTopicMetadata: r.TopicMetadata,
		FieldColorMap:      r.ColorMap,
		FieldLastSavedAt:   r.LastSavedAt,
	}
	if r.ID != "" {
		doc["id"] = r.ID
	}
	for i := 0; i < NumReviewBoxes; i++ {
		doc[ReviewBoxField(i+1)] = r.ReviewBoxes[i]
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes each known field independently. A field the store
// hands back malformed falls back to its empty value and is logged; a bad
// field never fails the whole document.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decodeField(raw, "id", &r.ID)
	decodeField(raw, FieldBank, &r.Bank)
	decodeField(raw, FieldTopicLists, &r.TopicLists)
	decodeField(raw, FieldTopicMetadata, &r.TopicMetadata)
	decodeField(raw, FieldColorMap, &r.ColorMap)
	decodeField(raw, FieldLastSavedAt, &r.LastSavedAt)
	for i := 0; i < NumReviewBoxes; i++ {
		decodeField(raw, ReviewBoxField(i+1), &r.ReviewBoxes[i])
	}
	return nil
}

func decodeField[T any](raw map[string]json.RawMessage, key string, dst *T) {
	msg, ok := raw[key]
	if !ok || len(msg) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		log.Warn().Err(err).Str("field", key).Msg("malformed record field, using empty value")
		return
	}
	*dst = v
}
