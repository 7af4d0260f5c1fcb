package app

import (
	"time"

	"parley/internal/chat"
	"parley/internal/store"
	"parley/internal/types"
)

type sessionListMsg struct {
	sessions []types.SessionSummary
	err      error
}

type prefsLoadedMsg struct {
	mode   store.PermissionMode
	pinned string
	err    error
}

type prefsSavedMsg struct {
	err error
}

// pollTickMsg fires when the scheduler's delay for a tick elapses. Stale
// ticks are ignored in Update; only the current generation drives a fetch.
type pollTickMsg struct {
	tick chat.Tick
}

type pollResultMsg struct {
	tick     chat.Tick
	messages []types.Message
	err      error
}

type sendResultMsg struct {
	token     int
	sessionID string
	chatID    string
	err       error
}

type continueResultMsg struct {
	triggerID string
	needs     bool
	err       error
}

type hooksMsg struct {
	messageID string
	hooks     []types.Hook
	err       error
}

type clipboardResultMsg struct {
	err error
}

type tickMsg time.Time
