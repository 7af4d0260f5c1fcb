package chat

import (
	"testing"

	"parley/internal/types"
)

func TestTabsExcludeSubTaskSessions(t *testing.T) {
	m := NewTabManager()
	m.SetSessions([]types.SessionSummary{
		{SessionID: "s1", Preview: "main thread"},
		{SessionID: "s2", ParentSessionID: "s1", Preview: "breakdown child"},
		{SessionID: "s3", SubTask: true},
		{SessionID: "s4", ParentSessionID: "s4", Preview: "self-parented"},
	})
	m.Activate("s1")

	tabs := m.Tabs()
	if len(tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(tabs))
	}
	if tabs[0].SessionID != "s1" || !tabs[0].Active {
		t.Fatalf("expected s1 active, got %+v", tabs[0])
	}
	if tabs[1].SessionID != "s4" {
		t.Fatalf("expected self-parented session kept, got %+v", tabs[1])
	}
}

func TestDraftConversationGetsVirtualTab(t *testing.T) {
	m := NewTabManager()
	m.SetSessions([]types.SessionSummary{{SessionID: "s1"}})
	m.ActivateDraft()

	tabs := m.Tabs()
	if len(tabs) != 2 {
		t.Fatalf("expected known tab plus virtual draft, got %d", len(tabs))
	}
	last := tabs[len(tabs)-1]
	if !last.Virtual || !last.Active || last.SessionID != "" {
		t.Fatalf("expected active virtual draft tab, got %+v", last)
	}
}

func TestActiveUnknownSessionSynthesizesTab(t *testing.T) {
	m := NewTabManager()
	m.SetSessions([]types.SessionSummary{{SessionID: "s1"}})
	m.Activate("s-fresh")

	tabs := m.Tabs()
	last := tabs[len(tabs)-1]
	if !last.Virtual || last.SessionID != "s-fresh" || !last.Active {
		t.Fatalf("expected synthesized tab for unknown active session, got %+v", last)
	}
}

func TestPinActiveReplacesDraft(t *testing.T) {
	m := NewTabManager()
	m.ActivateDraft()
	m.PinActive("S1")

	if m.Draft() {
		t.Fatalf("expected draft cleared by pin")
	}
	if m.ActiveID() != "S1" {
		t.Fatalf("expected active id pinned, got %q", m.ActiveID())
	}
}
