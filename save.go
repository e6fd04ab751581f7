package recordsync

import (
	"context"

	"github.com/studyvault/recordsync/internal/standardize"
	"github.com/studyvault/recordsync/internal/types"
	"github.com/studyvault/recordsync/internal/writequeue"
)

// SaveSnapshot standardizes the snapshot's cards, migrates legacy type
// fields, and writes the result as one full-record operation. Collections
// left nil in the request are not written; with PreserveFields set they are
// carried over from the current remote record instead.
//
// A nil return means the write reached the store, not that concurrent
// readers already observe it.
func (c *Client) SaveSnapshot(ctx context.Context, req SaveSnapshotRequest) error {
	if err := types.Validate(req); err != nil {
		return err
	}

	items := standardize.Standardize(standardize.MigrateAll(req.Cards))

	fields := map[string]any{types.FieldBank: items}
	if req.TopicLists != nil {
		fields[types.FieldTopicLists] = req.TopicLists
	}
	if req.TopicMetadata != nil {
		fields[types.FieldTopicMetadata] = req.TopicMetadata
	}
	if req.ColorMap != nil {
		fields[types.FieldColorMap] = req.ColorMap
	}

	return c.enqueueAndWait(ctx, writequeue.WriteOp{
		Kind:           writequeue.OpFull,
		RecordID:       req.RecordID,
		Fields:         fields,
		PreserveFields: req.PreserveFields,
	})
}
