package recordsync

import (
	"context"
	"errors"

	"github.com/studyvault/recordsync/internal/shellsync"
	"github.com/studyvault/recordsync/internal/types"
	"github.com/studyvault/recordsync/internal/writequeue"
)

// SyncTopicLists writes the topic lists and re-derives the topic shell set
// from them: every subject gets a base colour, every topic a deterministic
// shade and stable id, and existing shells keep their card backlogs. Two
// writes go out in FIFO order on the record's queue: the list itself, then
// the merged shells, colour map, and metadata as one preserved full write.
func (c *Client) SyncTopicLists(ctx context.Context, req SyncTopicListsRequest) error {
	if err := types.Validate(req); err != nil {
		return err
	}

	listReceipt, err := c.queue.Enqueue(ctx, writequeue.WriteOp{
		Kind:     writequeue.OpTopics,
		RecordID: req.RecordID,
		Fields:   map[string]any{types.FieldTopicLists: req.TopicLists},
	})
	if err != nil {
		opsTotal.WithLabelValues(string(writequeue.OpTopics), "rejected").Inc()
		return err
	}

	rec, err := c.store.FetchRecord(ctx, req.RecordID)
	if errors.Is(err, types.ErrNotFound) {
		rec = &types.Record{ID: req.RecordID}
	} else if err != nil {
		return err
	}

	result := shellsync.Sync(req.TopicLists, rec.Bank, rec.ColorMap, rec.TopicMetadata)

	// Cards stay where they are; only the shell subset is re-derived.
	bank := make([]types.BankItem, 0, len(rec.Bank)+len(result.Shells))
	for _, item := range rec.Bank {
		if item.Kind == types.KindCard {
			bank = append(bank, item)
		}
	}
	bank = append(bank, result.Shells...)

	if err := listReceipt.Wait(ctx); err != nil {
		opsTotal.WithLabelValues(string(writequeue.OpTopics), "failed").Inc()
		return err
	}
	opsTotal.WithLabelValues(string(writequeue.OpTopics), "ok").Inc()

	return c.enqueueAndWait(ctx, writequeue.WriteOp{
		Kind:     writequeue.OpFull,
		RecordID: req.RecordID,
		Fields: map[string]any{
			types.FieldBank:          bank,
			types.FieldColorMap:      result.ColorMap,
			types.FieldTopicMetadata: result.Metadata,
			types.FieldTopicLists:    req.TopicLists,
		},
		PreserveFields: true,
	})
}
