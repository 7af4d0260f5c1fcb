package chat

import (
	"parley/internal/logging"
	"parley/internal/types"
)

// ContinuationState describes where one assistant message stands in the
// auto-continuation machine. The state is derived from the live store on
// every query; nothing is cached across reconciliation cycles.
type ContinuationState int

const (
	ContinuationIdle ContinuationState = iota
	ContinuationNeedsTrigger
	ContinuationContinuing
	ContinuationResolved
)

// ContinueIntent is a continuation request the controller wants issued.
type ContinueIntent struct {
	// MessageID is the authoritative id of the triggering assistant message.
	MessageID string
	// SessionID is the session the continue request should run against,
	// resolved as next_session_id, else webhook_session_id, else the pinned
	// id. The backend may have advanced the logical session already.
	SessionID string
}

// ContinuationController detects assistant messages that asked for more work
// and drives the synthesized follow-up turn.
type ContinuationController struct {
	log      logging.Logger
	injector *Injector

	// pendingTemps maps a triggering message id to the temporary store keys
	// created for its continuation cycle, so a failed or rejected request can
	// remove them without leaving silent placeholders behind.
	pendingTemps map[string][]string
}

func NewContinuationController(log logging.Logger, injector *Injector) *ContinuationController {
	if log == nil {
		log = logging.Nop()
	}
	if injector == nil {
		injector = NewInjector()
	}
	return &ContinuationController{
		log:          log,
		injector:     injector,
		pendingTemps: map[string][]string{},
	}
}

// Evaluate inspects the store for a continuation trigger. The only
// de-duplication guard is the auto-child check against the current store:
// once a continuation cycle injected (or the server persisted) an auto
// message parented to the trigger, repeated polls cannot re-fire it.
func (c *ContinuationController) Evaluate(store *MessageStore, pinnedSessionID string) *ContinueIntent {
	last, ok := store.LastAssistant()
	if !ok {
		return nil
	}
	if last.ID.Temporary() {
		return nil
	}
	if !last.ContinuationNeeded() {
		return nil
	}
	if store.HasAutoChild(last.ID.Key()) {
		return nil
	}
	return &ContinueIntent{
		MessageID: last.ID.Key(),
		SessionID: resolveContinuationSession(last, pinnedSessionID),
	}
}

// Begin enters the Continuing state: it injects the optimistic auto message
// and processing placeholder parented to the trigger. The caller issues the
// network request afterwards.
func (c *ContinuationController) Begin(store *MessageStore, intent ContinueIntent) {
	autoKey, assistantKey := c.injector.InjectContinuation(store, intent.SessionID, intent.MessageID)
	c.pendingTemps[intent.MessageID] = []string{autoKey, assistantKey}
	c.log.Info("continuation started",
		logging.F("trigger", intent.MessageID),
		logging.F("session", intent.SessionID))
}

// Resolve finishes a continuation cycle. When the backend accepted the
// continuation the temporaries stay; the next polls surface the real
// messages, which supersede them through the reconciler. When the request
// failed or the backend reports nothing to continue, every temporary from
// this cycle is removed immediately.
func (c *ContinuationController) Resolve(store *MessageStore, triggerID string, needsContinuation bool, err error) bool {
	keys, ok := c.pendingTemps[triggerID]
	if !ok {
		return false
	}
	delete(c.pendingTemps, triggerID)
	if err == nil && needsContinuation {
		c.log.Debug("continuation accepted", logging.F("trigger", triggerID))
		return false
	}
	if err != nil {
		c.log.Warn("continuation failed", logging.F("trigger", triggerID), logging.F("err", err))
	} else {
		c.log.Info("continuation not needed after all", logging.F("trigger", triggerID))
	}
	changed := false
	for _, key := range keys {
		if store.Remove(key) {
			changed = true
		}
	}
	return changed
}

// Abandon drops continuation bookkeeping without touching the store; used on
// session teardown where the store is cleared wholesale anyway.
func (c *ContinuationController) Abandon() {
	c.pendingTemps = map[string][]string{}
}

// StateFor derives the machine state of one assistant message.
func (c *ContinuationController) StateFor(store *MessageStore, messageID string) ContinuationState {
	msg, ok := store.Get(messageID)
	if !ok || msg.Role != types.RoleAssistant {
		return ContinuationIdle
	}
	if _, pending := c.pendingTemps[messageID]; pending {
		return ContinuationContinuing
	}
	if msg.Continuation == types.ContinuationInProgress || msg.Continuation == types.ContinuationCompleted {
		return ContinuationResolved
	}
	if msg.ContinuationNeeded() {
		if store.HasAutoChild(messageID) {
			return ContinuationResolved
		}
		return ContinuationNeedsTrigger
	}
	return ContinuationIdle
}

func resolveContinuationSession(trigger types.Message, pinnedSessionID string) string {
	if next := trigger.Content.Meta.NextSessionID; next != "" {
		return next
	}
	if webhook := trigger.Content.Meta.WebhookSessionID; webhook != "" {
		return webhook
	}
	return pinnedSessionID
}
