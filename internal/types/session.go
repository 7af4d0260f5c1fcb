package types

import (
	"strings"
	"time"
)

// SessionSummary is the backend's projection of one conversation thread,
// as returned by the session list endpoint.
type SessionSummary struct {
	SessionID       string     `json:"session_id"`
	ParentSessionID string     `json:"parent_session_id,omitempty"`
	SubProjectID    string     `json:"sub_project_id,omitempty"`
	Preview         string     `json:"preview,omitempty"`
	MessageCount    int        `json:"message_count"`
	SubTask         bool       `json:"is_sub_task,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastActiveAt    *time.Time `json:"last_active_at,omitempty"`
}

// IsSubTask reports whether the session is a breakdown child. Sub-task
// sessions are hidden from the tab strip.
func (s SessionSummary) IsSubTask() bool {
	if s.SubTask {
		return true
	}
	parent := strings.TrimSpace(s.ParentSessionID)
	return parent != "" && parent != strings.TrimSpace(s.SessionID)
}
