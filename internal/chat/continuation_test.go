package chat

import (
	"errors"
	"testing"

	"parley/internal/types"
)

func needsContinuationMsg(id string, at int64) types.Message {
	msg := authMsg(id, types.RoleAssistant, "wrapped up step one", at)
	msg.Continuation = types.ContinuationNeeded
	return msg
}

func TestEvaluateFiresOnNeededMessage(t *testing.T) {
	store := NewMessageStore()
	store.Put(needsContinuationMsg("m1", 100))
	c := NewContinuationController(nil, NewInjector())

	intent := c.Evaluate(store, "S1")
	if intent == nil {
		t.Fatalf("expected trigger")
	}
	if intent.MessageID != "m1" || intent.SessionID != "S1" {
		t.Fatalf("unexpected intent %+v", intent)
	}
}

func TestEvaluateSkipsProcessingAndEmpty(t *testing.T) {
	store := NewMessageStore()
	c := NewContinuationController(nil, NewInjector())

	processing := authMsg("m1", types.RoleAssistant, "", 100)
	processing.Continuation = types.ContinuationNeeded
	store.Put(processing)
	if c.Evaluate(store, "S1") != nil {
		t.Fatalf("expected no trigger while processing")
	}
}

func TestContinuationDeduplicatesAcrossRepeatedPolls(t *testing.T) {
	store := NewMessageStore()
	c := NewContinuationController(nil, NewInjector())
	store.Put(needsContinuationMsg("m1", 100))

	intent := c.Evaluate(store, "S1")
	if intent == nil {
		t.Fatalf("expected initial trigger")
	}
	c.Begin(store, *intent)

	// Ten re-evaluations against the live store must not re-fire: the
	// injected auto child is the guard.
	for i := 0; i < 10; i++ {
		if c.Evaluate(store, "S1") != nil {
			t.Fatalf("evaluation %d re-fired a pending continuation", i+1)
		}
	}
}

func TestContinuationSessionResolutionPriority(t *testing.T) {
	c := NewContinuationController(nil, NewInjector())

	msg := needsContinuationMsg("m1", 100)
	msg.Content.Meta.NextSessionID = "S-next"
	msg.Content.Meta.WebhookSessionID = "S-webhook"
	store := NewMessageStore()
	store.Put(msg)
	if intent := c.Evaluate(store, "S1"); intent.SessionID != "S-next" {
		t.Fatalf("expected next_session_id to win, got %q", intent.SessionID)
	}

	msg.Content.Meta.NextSessionID = ""
	store.Put(msg)
	if intent := c.Evaluate(store, "S1"); intent.SessionID != "S-webhook" {
		t.Fatalf("expected webhook_session_id fallback, got %q", intent.SessionID)
	}

	msg.Content.Meta.WebhookSessionID = ""
	store.Put(msg)
	if intent := c.Evaluate(store, "S1"); intent.SessionID != "S1" {
		t.Fatalf("expected pinned id fallback, got %q", intent.SessionID)
	}
}

func TestResolveFailureRemovesTemporaries(t *testing.T) {
	store := NewMessageStore()
	c := NewContinuationController(nil, NewInjector())
	store.Put(needsContinuationMsg("m1", 100))

	intent := c.Evaluate(store, "S1")
	c.Begin(store, *intent)
	if len(store.Temporaries()) != 2 {
		t.Fatalf("expected auto and placeholder temporaries")
	}

	if changed := c.Resolve(store, "m1", false, errors.New("boom")); !changed {
		t.Fatalf("expected cleanup to change the store")
	}
	if len(store.Temporaries()) != 0 {
		t.Fatalf("expected no silent placeholders after failure")
	}
	// With the temporaries gone the guard is clear again; a later poll that
	// still reports needed may legitimately re-trigger.
	if c.Evaluate(store, "S1") == nil {
		t.Fatalf("expected trigger available again after cleanup")
	}
}

func TestResolveNotNeededRemovesTemporaries(t *testing.T) {
	store := NewMessageStore()
	c := NewContinuationController(nil, NewInjector())
	store.Put(needsContinuationMsg("m1", 100))

	c.Begin(store, *c.Evaluate(store, "S1"))
	c.Resolve(store, "m1", false, nil)
	if len(store.Temporaries()) != 0 {
		t.Fatalf("expected temporaries removed when backend reports nothing to continue")
	}
}

func TestResolveAcceptedKeepsTemporaries(t *testing.T) {
	store := NewMessageStore()
	c := NewContinuationController(nil, NewInjector())
	store.Put(needsContinuationMsg("m1", 100))

	c.Begin(store, *c.Evaluate(store, "S1"))
	if changed := c.Resolve(store, "m1", true, nil); changed {
		t.Fatalf("expected accepted continuation to leave temporaries for the reconciler")
	}
	if len(store.Temporaries()) != 2 {
		t.Fatalf("expected temporaries kept until polls supersede them")
	}
}

func TestStateFor(t *testing.T) {
	store := NewMessageStore()
	c := NewContinuationController(nil, NewInjector())

	store.Put(needsContinuationMsg("m1", 100))
	if got := c.StateFor(store, "m1"); got != ContinuationNeedsTrigger {
		t.Fatalf("expected needs-trigger, got %d", got)
	}

	c.Begin(store, *c.Evaluate(store, "S1"))
	if got := c.StateFor(store, "m1"); got != ContinuationContinuing {
		t.Fatalf("expected continuing, got %d", got)
	}

	c.Resolve(store, "m1", true, nil)
	if got := c.StateFor(store, "m1"); got != ContinuationResolved {
		t.Fatalf("expected resolved while auto child persists, got %d", got)
	}
}
