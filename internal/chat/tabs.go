package chat

import (
	"strings"

	"parley/internal/types"
)

// Tab is the display projection of one session.
type Tab struct {
	SessionID    string
	Preview      string
	MessageCount int
	Active       bool
	// Virtual marks a tab synthesized for a conversation the backend has not
	// persisted (or returned in the list) yet.
	Virtual bool
}

// TabManager tracks the known sessions of a sub-project and the active one.
// Sub-task sessions of a breakdown are excluded from the strip.
type TabManager struct {
	sessions []types.SessionSummary
	activeID string
	// draft is true while the active conversation has no session id yet
	// (new-session mode, before the first send response pins one).
	draft bool
}

func NewTabManager() *TabManager {
	return &TabManager{}
}

// SetSessions replaces the known-session list, dropping sub-task sessions.
func (t *TabManager) SetSessions(sessions []types.SessionSummary) {
	filtered := make([]types.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		if session.IsSubTask() {
			continue
		}
		if strings.TrimSpace(session.SessionID) == "" {
			continue
		}
		filtered = append(filtered, session)
	}
	t.sessions = filtered
}

// Activate selects an existing session.
func (t *TabManager) Activate(sessionID string) {
	t.activeID = strings.TrimSpace(sessionID)
	t.draft = false
}

// ActivateDraft selects a brand-new conversation with no session id yet.
func (t *TabManager) ActivateDraft() {
	t.activeID = ""
	t.draft = true
}

// PinActive assigns the backend-issued session id to the active draft
// conversation.
func (t *TabManager) PinActive(sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return
	}
	t.activeID = sessionID
	t.draft = false
}

func (t *TabManager) ActiveID() string {
	return t.activeID
}

func (t *TabManager) Draft() bool {
	return t.draft
}

// Tabs returns the strip. The active conversation always has a tab: when it
// is not in the known list (not yet persisted, or just pinned), a virtual
// entry is synthesized so there is never a current conversation without one.
func (t *TabManager) Tabs() []Tab {
	out := make([]Tab, 0, len(t.sessions)+1)
	activeKnown := false
	for _, session := range t.sessions {
		tab := Tab{
			SessionID:    session.SessionID,
			Preview:      session.Preview,
			MessageCount: session.MessageCount,
			Active:       !t.draft && session.SessionID == t.activeID,
		}
		if tab.Active {
			activeKnown = true
		}
		out = append(out, tab)
	}
	if t.draft {
		out = append(out, Tab{Preview: "new conversation", Active: true, Virtual: true})
		return out
	}
	if t.activeID != "" && !activeKnown {
		out = append(out, Tab{SessionID: t.activeID, Preview: "current conversation", Active: true, Virtual: true})
	}
	return out
}

// Known reports whether the session id appears in the known list.
func (t *TabManager) Known(sessionID string) bool {
	for _, session := range t.sessions {
		if session.SessionID == sessionID {
			return true
		}
	}
	return false
}
