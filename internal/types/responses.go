package types

import "encoding/json"

// ------------------------------
// Transport Message Types
// ------------------------------

// Message kinds accepted by the façade's message dispatcher.
const (
	MsgSaveSnapshot    = "saveSnapshot"
	MsgAddToBank       = "addToBank"
	MsgSyncTopicLists  = "syncTopicLists"
	MsgAssignReviewBox = "assignReviewBox"
	MsgCreateRecord    = "createRecord"
)

// RequestMessage is the kind+payload envelope inbound requests arrive in.
// It round-trips unchanged through any message-passing transport.
type RequestMessage struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// ResultMessage is the typed outcome the façade returns for a request.
type ResultMessage struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	RecordID string `json:"recordId,omitempty"`
}
