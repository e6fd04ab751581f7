package recordsync

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/studyvault/recordsync/internal/standardize"
	"github.com/studyvault/recordsync/internal/types"
	"github.com/studyvault/recordsync/internal/writequeue"
)

// AddToBank standardizes the new cards and appends them to the record's
// bank: duplicates (against the existing bank and within the batch) are
// dropped, each card is linked to its topic shell when one matches on id or
// on subject + topic name, a matched shell's IsEmpty flips to false, and
// every genuinely new card is seeded into review box 1. The result goes out
// as one preserved full-record write.
func (c *Client) AddToBank(ctx context.Context, req AddToBankRequest) error {
	if err := types.Validate(req); err != nil {
		return err
	}

	rec, err := c.store.FetchRecord(ctx, req.RecordID)
	if errors.Is(err, types.ErrNotFound) {
		rec = &types.Record{ID: req.RecordID}
	} else if err != nil {
		return err
	}

	items := standardize.Standardize(standardize.MigrateAll(req.Cards))

	// Index what the bank already holds.
	existingIDs := make(map[string]bool, len(rec.Bank))
	shellsByID := make(map[string]*types.TopicShell)
	shellsByTopic := make(map[string]*types.TopicShell)
	bank := make([]types.BankItem, 0, len(rec.Bank)+len(items))
	for _, item := range rec.Bank {
		cloned := item.Clone()
		existingIDs[cloned.ID()] = true
		if cloned.Kind == types.KindTopic && cloned.Shell != nil {
			shellsByID[cloned.Shell.ID] = cloned.Shell
			shellsByTopic[topicKey(cloned.Shell.Subject, cloned.Shell.Name)] = cloned.Shell
		}
		bank = append(bank, cloned)
	}

	boxed := make(map[string]bool)
	for i := 0; i < types.NumReviewBoxes; i++ {
		for _, e := range rec.ReviewBoxes[i] {
			boxed[e.CardID] = true
		}
	}

	now := time.Now().UTC()
	box1 := append([]types.ReviewEntry(nil), rec.ReviewBoxes[0]...)
	added := 0
	for _, item := range items {
		if item.Kind != types.KindCard || item.Card == nil {
			continue
		}
		card := item.Card
		if existingIDs[card.ID] {
			continue // already in the bank or earlier in this batch
		}
		existingIDs[card.ID] = true

		shell := shellsByID[card.TopicShellID]
		if shell == nil {
			shell = shellsByTopic[topicKey(card.Subject, card.Topic)]
		}
		if shell != nil {
			card.TopicShellID = shell.ID
			shell.IsEmpty = false
		}

		bank = append(bank, types.NewCardItem(card))
		if !boxed[card.ID] {
			box1 = append(box1, types.ReviewEntry{
				CardID:         card.ID,
				LastReviewedAt: now,
				NextReviewDate: now.Add(24 * time.Hour),
			})
			boxed[card.ID] = true
		}
		added++
	}

	c.log.Info().Str("recordId", req.RecordID).Int("received", len(items)).Int("added", added).
		Msg("adding cards to bank")

	return c.enqueueAndWait(ctx, writequeue.WriteOp{
		Kind:     writequeue.OpFull,
		RecordID: req.RecordID,
		Fields: map[string]any{
			types.FieldBank:         bank,
			types.ReviewBoxField(1): box1,
		},
		PreserveFields: true,
	})
}

// topicKey matches shells case-insensitively on subject and topic name.
func topicKey(subject, name string) string {
	return strings.ToLower(strings.TrimSpace(subject)) + "\x00" + strings.ToLower(strings.TrimSpace(name))
}
