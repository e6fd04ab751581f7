package types

// ------------------------------
// Request Types
// ------------------------------

// SaveSnapshotRequest holds parameters for a full snapshot save. Cards are
// raw UI-shaped items; the standardizer canonicalizes them before the write.
// Optional collections are written only when non-nil.
type SaveSnapshotRequest struct {
	RecordID       string           `json:"recordId" validate:"required"`
	Cards          []map[string]any `json:"cards"`
	TopicLists     []TopicList      `json:"topicLists,omitempty"`
	TopicMetadata  []TopicMetadata  `json:"topicMetadata,omitempty"`
	ColorMap       ColorMap         `json:"colorMap,omitempty"`
	PreserveFields bool             `json:"preserveFields"`
}

// AddToBankRequest holds parameters for appending new cards to the bank.
type AddToBankRequest struct {
	RecordID string           `json:"recordId" validate:"required"`
	Cards    []map[string]any `json:"cards" validate:"required,min=1"`
}

// SyncTopicListsRequest holds parameters for replacing the topic lists and
// re-deriving the shell set.
type SyncTopicListsRequest struct {
	RecordID   string      `json:"recordId" validate:"required"`
	TopicLists []TopicList `json:"topicLists"`
}

// AssignReviewBoxRequest moves one card into a review box. The assignment
// operation is the only writer of box membership.
type AssignReviewBoxRequest struct {
	RecordID string `json:"recordId" validate:"required"`
	CardID   string `json:"cardId" validate:"required"`
	Box      int    `json:"box" validate:"min=1,max=5"`
}

// CreateRecordRequest materializes an empty record for a new owner.
type CreateRecordRequest struct {
	OwnerID string `json:"ownerId" validate:"required"`
}
