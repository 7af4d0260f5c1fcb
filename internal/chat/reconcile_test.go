package chat

import (
	"testing"

	"parley/internal/types"
)

func TestMergeIdempotent(t *testing.T) {
	store := NewMessageStore()
	r := NewReconciler(nil)
	snapshot := []types.Message{
		authMsg("m1", types.RoleUser, "hello", 100),
		authMsg("m2", types.RoleAssistant, "hi", 200),
	}

	if changed := r.Merge(store, "S1", snapshot); !changed {
		t.Fatalf("expected first merge to change the store")
	}
	if changed := r.Merge(store, "S1", snapshot); changed {
		t.Fatalf("expected second identical merge to be a no-op")
	}
	if store.Len() != 2 {
		t.Fatalf("expected no duplicates, got %d entries", store.Len())
	}
}

func TestMergeEmptySnapshotKeepsStore(t *testing.T) {
	store := NewMessageStore()
	r := NewReconciler(nil)
	r.Merge(store, "S1", []types.Message{authMsg("m1", types.RoleUser, "hello", 100)})

	if changed := r.Merge(store, "S1", nil); changed {
		t.Fatalf("expected empty snapshot to report no change")
	}
	if store.Len() != 1 {
		t.Fatalf("expected populated store to survive empty snapshot, got %d", store.Len())
	}
}

func TestMergeSupersedesTemporaries(t *testing.T) {
	store := NewMessageStore()
	r := NewReconciler(nil)
	inj := NewInjector()
	inj.InjectUser(store, "S1", "hello")

	// First poll surfaces only the authoritative user message.
	if changed := r.Merge(store, "S1", []types.Message{authMsg("m1", types.RoleUser, "hello", 500)}); !changed {
		t.Fatalf("expected supersession to change the store")
	}
	temps := store.Temporaries()
	if len(temps) != 1 || temps[0].Role != types.RoleAssistant {
		t.Fatalf("expected only the assistant placeholder to remain, got %v", temps)
	}

	// The assistant reply supersedes the placeholder in turn.
	r.Merge(store, "S1", []types.Message{
		authMsg("m1", types.RoleUser, "hello", 500),
		authMsg("m2", types.RoleAssistant, "hi", 600),
	})
	if len(store.Temporaries()) != 0 {
		t.Fatalf("expected all temporaries superseded")
	}
	if store.Len() != 2 {
		t.Fatalf("expected exactly the two authoritative messages, got %d", store.Len())
	}
}

func TestMergeReplacesOnAnyVisibleDifference(t *testing.T) {
	store := NewMessageStore()
	r := NewReconciler(nil)
	first := authMsg("m1", types.RoleAssistant, "", 100)
	r.Merge(store, "S1", []types.Message{first})

	// Continuation status flips without content changing.
	updated := first
	updated.Continuation = types.ContinuationNeeded
	updated.Content.Text = "done for now"
	updated.DeriveProcessing()
	if changed := r.Merge(store, "S1", []types.Message{updated}); !changed {
		t.Fatalf("expected status change to be detected")
	}
	stored, _ := store.Get("m1")
	if stored.Continuation != types.ContinuationNeeded || stored.Processing {
		t.Fatalf("expected wholesale replacement, got %+v", stored)
	}
}

func TestMergeNormalizesSessionID(t *testing.T) {
	store := NewMessageStore()
	r := NewReconciler(nil)

	drifted := authMsg("m1", types.RoleUser, "hello", 100)
	drifted.SessionID = "S2"
	r.Merge(store, "S1", []types.Message{drifted})

	stored, ok := store.Get("m1")
	if !ok {
		t.Fatalf("expected message stored")
	}
	if stored.SessionID != "S1" {
		t.Fatalf("expected session id normalized onto pin, got %q", stored.SessionID)
	}
}

func TestMergeDropsNonAuthoritativeInput(t *testing.T) {
	store := NewMessageStore()
	r := NewReconciler(nil)
	temp := types.Message{ID: types.NewTemporaryID(), Role: types.RoleUser, Content: types.Content{Text: "x"}}

	if changed := r.Merge(store, "S1", []types.Message{temp}); changed {
		t.Fatalf("expected temporary input to be rejected")
	}
	if store.Len() != 0 {
		t.Fatalf("expected nothing stored")
	}
}

func TestMergeHookEntriesAreInvisible(t *testing.T) {
	store := NewMessageStore()
	r := NewReconciler(nil)
	r.Merge(store, "S1", []types.Message{authMsg("m1", types.RoleUser, "hi", 100)})

	if changed := r.Merge(store, "S1", []types.Message{
		authMsg("m1", types.RoleUser, "hi", 100),
		authMsg("h1", types.RoleHook, "tool log", 150),
	}); changed {
		t.Fatalf("expected hook-only merge to report no visible change")
	}
	if store.Len() != 2 {
		t.Fatalf("expected hook stored anyway")
	}
}
