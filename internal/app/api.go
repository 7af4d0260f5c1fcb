package app

import (
	"context"

	"parley/internal/client"
	"parley/internal/store"
)

// BackendAPI is the slice of the backend client the UI depends on.
type BackendAPI interface {
	SessionMessages(ctx context.Context, sessionID string) ([]client.WireMessage, error)
	SendMessage(ctx context.Context, req client.SendMessageRequest) (*client.SendMessageResponse, error)
	ContinueMessage(ctx context.Context, messageID string) (*client.ContinueMessageResponse, error)
	SessionList(ctx context.Context, subProjectID string) ([]client.WireSessionSummary, error)
	MessageHooks(ctx context.Context, messageID string) ([]client.WireHook, error)
}

// PreferenceStore is the narrow persistence surface for process-wide UI
// preferences. The sync engine never sees it.
type PreferenceStore interface {
	PermissionMode() (store.PermissionMode, error)
	SetPermissionMode(mode store.PermissionMode) error
	SessionPin(subProjectID string) (string, error)
	SetSessionPin(subProjectID, sessionID string) error
}
