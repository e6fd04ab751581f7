package recordsync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studyvault/recordsync/internal/types"
)

// HandleMessage dispatches a typed kind+payload request from a
// message-passing transport (in-process call, worker message, cross-frame
// message) and returns a result message. It always returns exactly one
// result; an unknown kind or undecodable payload is reported in the result,
// never panicked.
func (c *Client) HandleMessage(ctx context.Context, msg RequestMessage) ResultMessage {
	switch msg.Kind {
	case types.MsgSaveSnapshot:
		var req SaveSnapshotRequest
		return c.result(decodeThen(msg.Payload, &req, func() error {
			return c.SaveSnapshot(ctx, req)
		}), req.RecordID)

	case types.MsgAddToBank:
		var req AddToBankRequest
		return c.result(decodeThen(msg.Payload, &req, func() error {
			return c.AddToBank(ctx, req)
		}), req.RecordID)

	case types.MsgSyncTopicLists:
		var req SyncTopicListsRequest
		return c.result(decodeThen(msg.Payload, &req, func() error {
			return c.SyncTopicLists(ctx, req)
		}), req.RecordID)

	case types.MsgAssignReviewBox:
		var req AssignReviewBoxRequest
		return c.result(decodeThen(msg.Payload, &req, func() error {
			return c.AssignReviewBox(ctx, req)
		}), req.RecordID)

	case types.MsgCreateRecord:
		var req CreateRecordRequest
		var recordID string
		err := decodeThen(msg.Payload, &req, func() error {
			var createErr error
			recordID, createErr = c.CreateRecord(ctx, req)
			return createErr
		})
		return c.result(err, recordID)

	default:
		return ResultMessage{Error: fmt.Sprintf("unknown message kind %q", msg.Kind)}
	}
}

func decodeThen(payload json.RawMessage, dst any, run func() error) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return run()
}

func (c *Client) result(err error, recordID string) ResultMessage {
	if err != nil {
		return ResultMessage{Error: err.Error(), RecordID: recordID}
	}
	return ResultMessage{OK: true, RecordID: recordID}
}
