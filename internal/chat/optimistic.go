package chat

import (
	"time"

	"parley/internal/types"
)

const (
	// assistantPlaceholderText is what a freshly injected assistant
	// placeholder shows; the waiting classifier knows it by value.
	assistantPlaceholderText = "Thinking..."

	// autoContinuePrompt is the fixed content of a synthesized continuation
	// request.
	autoContinuePrompt = "Continue working on the remaining tasks."
)

// Injector synthesizes temporary messages for immediate display. Injection
// replaces any existing temporary of the same role so at most one temporary
// per (role, pending turn) ever exists.
type Injector struct {
	now func() time.Time
}

func NewInjector() *Injector {
	return &Injector{now: time.Now}
}

func (inj *Injector) clock() time.Time {
	if inj.now == nil {
		return time.Now()
	}
	return inj.now()
}

// InjectUser adds a temporary user message and a temporary processing
// assistant placeholder for the reply, returning both store keys so the
// caller can discard them if the send fails.
func (inj *Injector) InjectUser(store *MessageStore, sessionID, text string) (userKey, assistantKey string) {
	now := inj.clock()
	store.RemoveTemporariesByRole(types.RoleUser)
	user := types.Message{
		ID:        types.NewTemporaryID(),
		Role:      types.RoleUser,
		Content:   types.Content{Text: text},
		Timestamp: now,
		SessionID: sessionID,
	}
	store.Put(user)
	assistantKey = inj.injectAssistantPlaceholder(store, sessionID, user.ID.Key(), now.Add(time.Millisecond))
	return user.ID.Key(), assistantKey
}

// InjectContinuation adds a temporary auto message and a temporary processing
// assistant placeholder, both parented to the triggering assistant message.
func (inj *Injector) InjectContinuation(store *MessageStore, sessionID, triggerKey string) (autoKey, assistantKey string) {
	now := inj.clock()
	store.RemoveTemporariesByRole(types.RoleAuto)
	auto := types.Message{
		ID:              types.NewTemporaryID(),
		Role:            types.RoleAuto,
		Content:         types.Content{Text: autoContinuePrompt},
		Timestamp:       now,
		SessionID:       sessionID,
		ParentMessageID: triggerKey,
	}
	store.Put(auto)
	assistantKey = inj.injectAssistantPlaceholder(store, sessionID, triggerKey, now.Add(time.Millisecond))
	return auto.ID.Key(), assistantKey
}

func (inj *Injector) injectAssistantPlaceholder(store *MessageStore, sessionID, parentKey string, at time.Time) string {
	store.RemoveTemporariesByRole(types.RoleAssistant)
	placeholder := types.Message{
		ID:              types.NewTemporaryID(),
		Role:            types.RoleAssistant,
		Content:         types.Content{Text: assistantPlaceholderText},
		Timestamp:       at,
		SessionID:       sessionID,
		Processing:      true,
		ParentMessageID: parentKey,
	}
	store.Put(placeholder)
	return placeholder.ID.Key()
}
