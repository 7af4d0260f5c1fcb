package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPermissionModeDefaultsToAsk(t *testing.T) {
	s := openTestStore(t)

	mode, err := s.PermissionMode()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mode != PermissionModeAsk {
		t.Fatalf("expected ask default, got %q", mode)
	}
}

func TestPermissionModeRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetPermissionMode(PermissionModeFull); err != nil {
		t.Fatalf("set: %v", err)
	}
	mode, err := s.PermissionMode()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mode != PermissionModeFull {
		t.Fatalf("expected full_auto, got %q", mode)
	}
}

func TestNextPermissionModeCycles(t *testing.T) {
	mode := PermissionModeAsk
	seen := map[PermissionMode]bool{}
	for i := 0; i < len(permissionModeOrder); i++ {
		seen[mode] = true
		mode = NextPermissionMode(mode)
	}
	if mode != PermissionModeAsk {
		t.Fatalf("expected cycle back to ask, got %q", mode)
	}
	if len(seen) != len(permissionModeOrder) {
		t.Fatalf("expected all modes visited, got %v", seen)
	}
}

func TestSessionPinRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSessionPin("p1", "S1"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	pinned, err := s.SessionPin("p1")
	if err != nil {
		t.Fatalf("read pin: %v", err)
	}
	if pinned != "S1" {
		t.Fatalf("expected S1, got %q", pinned)
	}

	// Clearing the pin deletes the record.
	if err := s.SetSessionPin("p1", ""); err != nil {
		t.Fatalf("clear pin: %v", err)
	}
	pinned, _ = s.SessionPin("p1")
	if pinned != "" {
		t.Fatalf("expected cleared pin, got %q", pinned)
	}
}
