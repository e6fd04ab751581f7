package recordsync

import (
	"context"
	"errors"
	"time"

	"github.com/studyvault/recordsync/internal/types"
	"github.com/studyvault/recordsync/internal/writequeue"
)

// reviewIntervals is the delay until the next review for each box.
var reviewIntervals = [types.NumReviewBoxes]time.Duration{
	24 * time.Hour,
	2 * 24 * time.Hour,
	4 * 24 * time.Hour,
	8 * 24 * time.Hour,
	16 * 24 * time.Hour,
}

// AssignReviewBox moves a card into the given review box. It is the single
// writer of box membership: the card id is removed from every box before it
// is inserted into the target, so a card can never sit in two boxes at
// once. The resulting box fields go out as one preserved write.
func (c *Client) AssignReviewBox(ctx context.Context, req AssignReviewBoxRequest) error {
	if err := types.Validate(req); err != nil {
		return err
	}

	rec, err := c.store.FetchRecord(ctx, req.RecordID)
	if errors.Is(err, types.ErrNotFound) {
		rec = &types.Record{ID: req.RecordID}
	} else if err != nil {
		return err
	}

	fields := make(map[string]any, types.NumReviewBoxes)
	for i := 0; i < types.NumReviewBoxes; i++ {
		box := make([]types.ReviewEntry, 0, len(rec.ReviewBoxes[i]))
		for _, e := range rec.ReviewBoxes[i] {
			if e.CardID != req.CardID {
				box = append(box, e)
			}
		}
		fields[types.ReviewBoxField(i+1)] = box
	}

	now := time.Now().UTC()
	target := fields[types.ReviewBoxField(req.Box)].([]types.ReviewEntry)
	fields[types.ReviewBoxField(req.Box)] = append(target, types.ReviewEntry{
		CardID:         req.CardID,
		LastReviewedAt: now,
		NextReviewDate: now.Add(reviewIntervals[req.Box-1]),
	})

	return c.enqueueAndWait(ctx, writequeue.WriteOp{
		Kind:           writequeue.OpCards,
		RecordID:       req.RecordID,
		Fields:         fields,
		PreserveFields: true,
	})
}
