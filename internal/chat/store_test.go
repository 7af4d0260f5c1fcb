package chat

import (
	"testing"
	"time"

	"parley/internal/types"
)

func authMsg(id string, role types.Role, text string, at int64) types.Message {
	msg := types.Message{
		ID:        types.AuthoritativeID(id),
		Role:      role,
		Content:   types.Content{Text: text},
		Timestamp: time.Unix(at, 0),
		SessionID: "S1",
	}
	msg.DeriveProcessing()
	return msg
}

func TestStoreOrdersByTimestampThenArrival(t *testing.T) {
	store := NewMessageStore()
	store.Put(authMsg("m2", types.RoleAssistant, "second", 200))
	store.Put(authMsg("m1", types.RoleUser, "first", 100))
	store.Put(authMsg("m3", types.RoleUser, "tied-late", 200))

	timeline := store.Timeline()
	if len(timeline) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(timeline))
	}
	if timeline[0].ID.Key() != "m1" {
		t.Fatalf("expected m1 first, got %s", timeline[0].ID.Key())
	}
	// m2 arrived before m3 and shares its timestamp.
	if timeline[1].ID.Key() != "m2" || timeline[2].ID.Key() != "m3" {
		t.Fatalf("expected arrival-order tiebreak, got %s then %s", timeline[1].ID.Key(), timeline[2].ID.Key())
	}
}

func TestStoreReplaceKeepsArrivalOrder(t *testing.T) {
	store := NewMessageStore()
	store.Put(authMsg("m1", types.RoleAssistant, "", 100))
	store.Put(authMsg("m2", types.RoleAssistant, "x", 100))

	updated := authMsg("m1", types.RoleAssistant, "now settled", 100)
	store.Put(updated)

	timeline := store.Timeline()
	if timeline[0].ID.Key() != "m1" {
		t.Fatalf("expected replaced m1 to keep its slot, got %s", timeline[0].ID.Key())
	}
	if timeline[0].Content.Text != "now settled" {
		t.Fatalf("expected replacement content")
	}
}

func TestTimelineFiltersHookEntries(t *testing.T) {
	store := NewMessageStore()
	store.Put(authMsg("m1", types.RoleUser, "hi", 100))
	store.Put(authMsg("h1", types.RoleHook, "tool ran", 150))
	store.Put(authMsg("m2", types.RoleAssistant, "hello", 200))

	if len(store.Messages()) != 3 {
		t.Fatalf("expected hook retained in store")
	}
	timeline := store.Timeline()
	if len(timeline) != 2 {
		t.Fatalf("expected hook filtered from timeline, got %d entries", len(timeline))
	}
}

func TestHasAutoChild(t *testing.T) {
	store := NewMessageStore()
	store.Put(authMsg("m1", types.RoleAssistant, "more to do", 100))
	if store.HasAutoChild("m1") {
		t.Fatalf("expected no auto child yet")
	}
	auto := authMsg("a1", types.RoleAuto, "continue", 200)
	auto.ParentMessageID = "m1"
	store.Put(auto)
	if !store.HasAutoChild("m1") {
		t.Fatalf("expected auto child detected")
	}
}

func TestRemoveTemporariesByRole(t *testing.T) {
	store := NewMessageStore()
	inj := NewInjector()
	inj.InjectUser(store, "S1", "hello")

	if got := len(store.Temporaries()); got != 2 {
		t.Fatalf("expected user temp and assistant placeholder, got %d", got)
	}
	if removed := store.RemoveTemporariesByRole(types.RoleUser); removed != 1 {
		t.Fatalf("expected one user temp removed, got %d", removed)
	}
	if got := len(store.Temporaries()); got != 1 {
		t.Fatalf("expected placeholder to survive, got %d", got)
	}
}
