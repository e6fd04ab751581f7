package recordsync

import (
	"github.com/studyvault/recordsync/internal/store"
	"github.com/studyvault/recordsync/internal/types"
)

// Public type aliases so SDK consumers can import only the recordsync
// package.
type (
	// Credential provider
	TokenProvider = store.TokenProvider
	StaticToken   = store.StaticToken

	// Domain entities
	Record        = types.Record
	BankItem      = types.BankItem
	Card          = types.Card
	TopicShell    = types.TopicShell
	TopicList     = types.TopicList
	TopicEntry    = types.TopicEntry
	TopicMetadata = types.TopicMetadata
	ColorMap      = types.ColorMap
	SubjectColors = types.SubjectColors
	ReviewEntry   = types.ReviewEntry
	// CardOption avoids colliding with the functional Option type.
	CardOption = types.Option

	// Requests
	SaveSnapshotRequest    = types.SaveSnapshotRequest
	AddToBankRequest       = types.AddToBankRequest
	SyncTopicListsRequest  = types.SyncTopicListsRequest
	AssignReviewBoxRequest = types.AssignReviewBoxRequest
	CreateRecordRequest    = types.CreateRecordRequest

	// Transport envelope
	RequestMessage = types.RequestMessage
	ResultMessage  = types.ResultMessage
)

// Errors re-exported in errors.go
