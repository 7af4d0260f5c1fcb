package chat

import (
	"errors"
	"strings"
	"time"

	"parley/internal/logging"
	"parley/internal/types"
)

// ErrBusy rejects a submit while a response is outstanding. A second send is
// refused, never queued.
var ErrBusy = errors.New("a response is still outstanding")

// Conversation is the composition root of the sync engine for one active
// chat. All mutation funnels through it on a single goroutine; results that
// arrive for a cancelled generation or a stale session are discarded, never
// applied.
type Conversation struct {
	log          logging.Logger
	store        *MessageStore
	injector     *Injector
	reconciler   *Reconciler
	scheduler    *PollScheduler
	continuation *ContinuationController
	tabs         *TabManager

	subProjectID string
	pinned       string
	sendInFlight bool
	sendToken    int
	// pendingSendTemps maps a send token to the temporary store keys created
	// for it, so a failed send removes exactly its own placeholders.
	pendingSendTemps map[int][]string
}

type ConversationOption func(*Conversation)

func WithLogger(log logging.Logger) ConversationOption {
	return func(c *Conversation) {
		if log != nil {
			c.log = log
		}
	}
}

func WithIntervalStrategy(strategy IntervalStrategy) ConversationOption {
	return func(c *Conversation) {
		if strategy != nil {
			c.scheduler = NewPollScheduler(strategy)
		}
	}
}

func WithClock(now func() time.Time) ConversationOption {
	return func(c *Conversation) {
		if now != nil {
			c.injector.now = now
		}
	}
}

func NewConversation(subProjectID string, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		log:              logging.Nop(),
		store:            NewMessageStore(),
		injector:         NewInjector(),
		scheduler:        NewPollScheduler(nil),
		tabs:             NewTabManager(),
		subProjectID:     strings.TrimSpace(subProjectID),
		pendingSendTemps: map[int][]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reconciler = NewReconciler(c.log)
	c.continuation = NewContinuationController(c.log, c.injector)
	c.tabs.ActivateDraft()
	return c
}

func (c *Conversation) SubProjectID() string { return c.subProjectID }

// PinnedSessionID is the session id the UI displays under; empty for a draft
// conversation.
func (c *Conversation) PinnedSessionID() string { return c.pinned }

func (c *Conversation) Timeline() []types.Message { return c.store.Timeline() }

func (c *Conversation) Waiting() bool { return Waiting(c.store, c.sendInFlight) }

func (c *Conversation) Tabs() []Tab { return c.tabs.Tabs() }

func (c *Conversation) SetSessions(sessions []types.SessionSummary) {
	c.tabs.SetSessions(sessions)
}

// SubmitIntent describes the send request the caller must issue.
type SubmitIntent struct {
	Token  int
	Prompt string
	// SessionID is empty for the first message of a draft conversation; the
	// send response pins the authoritative id.
	SessionID string
}

// BeginSubmit validates and stages a user send: it rejects while waiting,
// injects the optimistic user message and assistant placeholder, and returns
// the request the caller must issue.
func (c *Conversation) BeginSubmit(text string) (SubmitIntent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SubmitIntent{}, errors.New("message is empty")
	}
	if c.Waiting() {
		return SubmitIntent{}, ErrBusy
	}
	userKey, assistantKey := c.injector.InjectUser(c.store, c.pinned, text)
	c.sendToken++
	c.pendingSendTemps[c.sendToken] = []string{userKey, assistantKey}
	c.sendInFlight = true
	return SubmitIntent{Token: c.sendToken, Prompt: text, SessionID: c.pinned}, nil
}

// ApplySendResult settles a send request. A result for a token the engine
// no longer tracks belongs to a torn-down conversation and is discarded
// untouched. On failure the optimistic placeholders for that token are
// removed. On success the returned session id pins a draft conversation;
// for an already pinned conversation a different id is a logged anomaly,
// never a re-pin.
func (c *Conversation) ApplySendResult(token int, sessionID string, err error) (Tick, bool) {
	keys, live := c.pendingSendTemps[token]
	if !live {
		c.log.Debug("send result discarded, conversation no longer active",
			logging.F("token", token),
			logging.F("session", sessionID))
		return Tick{}, false
	}
	c.sendInFlight = false
	delete(c.pendingSendTemps, token)
	if err != nil {
		for _, key := range keys {
			c.store.Remove(key)
		}
		return Tick{}, false
	}

	sessionID = strings.TrimSpace(sessionID)
	switch {
	case c.pinned == "" && sessionID != "":
		c.pinned = sessionID
		c.tabs.PinActive(sessionID)
		c.log.Info("session pinned", logging.F("session", sessionID))
	case sessionID != "" && sessionID != c.pinned:
		c.log.Warn("send response session id differs from pinned id",
			logging.F("pinned", c.pinned),
			logging.F("returned", sessionID))
	}
	if c.pinned == "" {
		// Accepted send with no session id: there is nothing to poll, so
		// the optimistic pair would wait forever. Drop it and log.
		for _, key := range keys {
			c.store.Remove(key)
		}
		c.log.Warn("send response carried no session id, dropping optimistic messages",
			logging.F("token", token))
		return Tick{}, false
	}
	// Re-arm so the reply is polled for immediately on a fresh timer; the
	// previous tick, if any, is invalidated rather than left to race.
	return c.scheduler.Arm(c.pinned), true
}

// ValidTick reports whether a poll tick is still current.
func (c *Conversation) ValidTick(tick Tick) bool {
	return c.scheduler.Valid(tick)
}

// ApplyPoll merges a poll result. Stale ticks are discarded. A not-found or
// transport failure degrades to "no new information"; the loop recovers on
// the next tick.
func (c *Conversation) ApplyPoll(tick Tick, snapshot []types.Message, err error) bool {
	if !c.scheduler.Valid(tick) {
		c.log.Debug("poll result discarded for stale tick", logging.F("session", tick.SessionID))
		return false
	}
	if err != nil {
		c.log.Debug("poll failed, keeping current timeline",
			logging.F("session", tick.SessionID),
			logging.F("err", err))
		return false
	}
	return c.reconciler.Merge(c.store, c.pinned, snapshot)
}

// NextPoll re-evaluates the interval from the current waiting state and
// returns the follow-up tick.
func (c *Conversation) NextPoll() (Tick, time.Duration, bool) {
	return c.scheduler.Next(c.Waiting())
}

// EvaluateContinuation checks for a pending continuation trigger and, when
// one fires, stages its optimistic messages. The caller must issue the
// continue request for the returned intent.
func (c *Conversation) EvaluateContinuation() *ContinueIntent {
	intent := c.continuation.Evaluate(c.store, c.pinned)
	if intent == nil {
		return nil
	}
	c.continuation.Begin(c.store, *intent)
	return intent
}

// ApplyContinueResult settles a continue request.
func (c *Conversation) ApplyContinueResult(triggerID string, needsContinuation bool, err error) bool {
	return c.continuation.Resolve(c.store, triggerID, needsContinuation, err)
}

// SwitchSession tears down the active conversation and activates another
// session: the poll timer is cancelled first, the store is replaced (never
// merged), and a fresh tick for the new session is returned for the caller
// to drive the one-shot history fetch and re-armed polling.
func (c *Conversation) SwitchSession(sessionID string) (Tick, bool) {
	sessionID = strings.TrimSpace(sessionID)
	c.teardown()
	if sessionID == "" {
		c.tabs.ActivateDraft()
		return Tick{}, false
	}
	c.pinned = sessionID
	c.tabs.Activate(sessionID)
	return c.scheduler.Arm(sessionID), true
}

// NewSession tears down into a draft conversation; no polling runs until the
// first send response pins a session id.
func (c *Conversation) NewSession() {
	c.teardown()
	c.tabs.ActivateDraft()
}

func (c *Conversation) teardown() {
	c.scheduler.Cancel()
	c.store.Clear()
	c.continuation.Abandon()
	c.pendingSendTemps = map[int][]string{}
	c.sendInFlight = false
	c.pinned = ""
}
