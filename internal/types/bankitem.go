package types

import (
	"encoding/json"
	"fmt"
)

// BankItem is the tagged union stored in the record's bank collection:
// exactly one of Card or Shell is set, discriminated by Kind.
type BankItem struct {
	Kind  Kind
	Card  *Card
	Shell *TopicShell
}

// NewCardItem wraps a card as a bank item.
func NewCardItem(c *Card) BankItem { return BankItem{Kind: KindCard, Card: c} }

// NewShellItem wraps a topic shell as a bank item.
func NewShellItem(s *TopicShell) BankItem { return BankItem{Kind: KindTopic, Shell: s} }

// ID returns the wrapped entity's id, or "" for a zero item.
func (b BankItem) ID() string {
	switch b.Kind {
	case KindCard:
		if b.Card != nil {
			return b.Card.ID
		}
	case KindTopic:
		if b.Shell != nil {
			return b.Shell.ID
		}
	}
	return ""
}

// Clone deep-copies the wrapped entity.
func (b BankItem) Clone() BankItem {
	switch b.Kind {
	case KindCard:
		return BankItem{Kind: KindCard, Card: b.Card.Clone()}
	case KindTopic:
		return BankItem{Kind: KindTopic, Shell: b.Shell.Clone()}
	}
	return b
}

// MarshalJSON emits the wrapped entity flat, with its "type" discriminator.
func (b BankItem) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case KindCard:
		if b.Card == nil {
			return nil, fmt.Errorf("bank item: kind %q with nil card", b.Kind)
		}
		c := *b.Card
		c.Type = KindCard
		return json.Marshal(c)
	case KindTopic:
		if b.Shell == nil {
			return nil, fmt.Errorf("bank item: kind %q with nil shell", b.Kind)
		}
		s := *b.Shell
		s.Type = KindTopic
		return json.Marshal(s)
	default:
		return nil, fmt.Errorf("bank item: unknown kind %q", b.Kind)
	}
}

// UnmarshalJSON inspects the "type" discriminator to decode either shape.
// Items without a recognised discriminator decode as cards; the
// standardizer is the place that repairs their shape, not the codec.
func (b *BankItem) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	if tag.Type == KindTopic {
		var s TopicShell
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s.Type = KindTopic
		*b = BankItem{Kind: KindTopic, Shell: &s}
		return nil
	}
	var c Card
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	c.Type = KindCard
	*b = BankItem{Kind: KindCard, Card: &c}
	return nil
}
