package client

import (
	"strings"
	"time"

	"parley/internal/types"
)

// WireMessage is the backend's message shape. Conversion into the domain
// Message derives the processing flag and tags the id as authoritative.
type WireMessage struct {
	ID           string        `json:"id"`
	Role         string        `json:"role"`
	Content      types.Content `json:"content"`
	Timestamp    time.Time     `json:"timestamp"`
	SessionID    string        `json:"session_id"`
	Continuation string        `json:"continuation_status,omitempty"`
	ParentID     string        `json:"parent_message_id,omitempty"`
}

func (w WireMessage) ToMessage() types.Message {
	msg := types.Message{
		ID:              types.AuthoritativeID(w.ID),
		Role:            types.Role(strings.TrimSpace(w.Role)),
		Content:         w.Content,
		Timestamp:       w.Timestamp,
		SessionID:       w.SessionID,
		Continuation:    types.ContinuationStatus(strings.TrimSpace(w.Continuation)),
		ParentMessageID: w.ParentID,
	}
	if msg.Continuation == "" {
		msg.Continuation = types.ContinuationNone
	}
	msg.DeriveProcessing()
	return msg
}

func ToMessages(wire []WireMessage) []types.Message {
	if len(wire) == 0 {
		return nil
	}
	out := make([]types.Message, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.ToMessage())
	}
	return out
}

type WireSessionSummary = types.SessionSummary

type WireHook = types.Hook

type messagesResponse struct {
	Messages []WireMessage `json:"messages"`
}

type sessionListResponse struct {
	Sessions []WireSessionSummary `json:"sessions"`
}

type hooksResponse struct {
	Hooks []WireHook `json:"hooks"`
}

type SendMessageRequest struct {
	Prompt         string `json:"prompt"`
	SessionID      string `json:"session_id,omitempty"`
	SubProjectID   string `json:"sub_project_id,omitempty"`
	PermissionMode string `json:"permission_mode,omitempty"`
}

type SendMessageResponse struct {
	SessionID string `json:"session_id"`
	ChatID    string `json:"chat_id"`
}

type ContinueMessageResponse struct {
	NeedsContinuation bool `json:"needs_continuation"`
}
