package recordsync

import (
	"context"

	"github.com/studyvault/recordsync/internal/types"
)

// GetRecord retrieves the current remote record (synchronous read).
func (c *Client) GetRecord(ctx context.Context, recordID string) (*Record, error) {
	return c.store.FetchRecord(ctx, recordID)
}

// CreateRecord materializes an empty record for a new owner and returns its
// id. Called exactly once per owner; precondition failures surface
// synchronously before any network call.
func (c *Client) CreateRecord(ctx context.Context, req CreateRecordRequest) (string, error) {
	if err := types.Validate(req); err != nil {
		return "", err
	}
	initial := map[string]any{
		types.FieldBank:          []types.BankItem{},
		types.FieldTopicLists:    []types.TopicList{},
		types.FieldTopicMetadata: []types.TopicMetadata{},
		types.FieldColorMap:      types.ColorMap{},
	}
	for i := 1; i <= types.NumReviewBoxes; i++ {
		initial[types.ReviewBoxField(i)] = []types.ReviewEntry{}
	}
	return c.store.CreateRecord(ctx, req.OwnerID, initial)
}
