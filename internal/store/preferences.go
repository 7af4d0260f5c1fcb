package store

import (
	"strings"

	bolt "go.etcd.io/bbolt"
)

type PermissionMode string

const (
	PermissionModeAsk        PermissionMode = "ask"
	PermissionModeAcceptEdits PermissionMode = "accept_edits"
	PermissionModeFull       PermissionMode = "full_auto"
)

var permissionModeOrder = []PermissionMode{
	PermissionModeAsk,
	PermissionModeAcceptEdits,
	PermissionModeFull,
}

var keyPermissionMode = []byte("permission_mode")

// PermissionMode returns the persisted mode, defaulting to ask.
func (s *Store) PermissionMode() (PermissionMode, error) {
	mode := PermissionModeAsk
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return nil
		}
		if raw := b.Get(keyPermissionMode); len(raw) > 0 {
			if parsed, ok := ParsePermissionMode(string(raw)); ok {
				mode = parsed
			}
		}
		return nil
	})
	if err != nil {
		return PermissionModeAsk, err
	}
	return mode, nil
}

func (s *Store) SetPermissionMode(mode PermissionMode) error {
	if _, ok := ParsePermissionMode(string(mode)); !ok {
		mode = PermissionModeAsk
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPreferences).Put(keyPermissionMode, []byte(mode))
	})
}

func ParsePermissionMode(raw string) (PermissionMode, bool) {
	mode := PermissionMode(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range permissionModeOrder {
		if mode == known {
			return known, true
		}
	}
	return "", false
}

// NextPermissionMode cycles ask -> accept_edits -> full_auto -> ask.
func NextPermissionMode(mode PermissionMode) PermissionMode {
	for i, known := range permissionModeOrder {
		if mode == known {
			return permissionModeOrder[(i+1)%len(permissionModeOrder)]
		}
	}
	return PermissionModeAsk
}

// SessionPin remembers the last active session per sub-project so the UI can
// reopen where the user left off.
func (s *Store) SessionPin(subProjectID string) (string, error) {
	subProjectID = strings.TrimSpace(subProjectID)
	if subProjectID == "" {
		return "", nil
	}
	var pinned string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessionPins)
		if b == nil {
			return nil
		}
		pinned = string(b.Get([]byte(subProjectID)))
		return nil
	})
	return pinned, err
}

func (s *Store) SetSessionPin(subProjectID, sessionID string) error {
	subProjectID = strings.TrimSpace(subProjectID)
	if subProjectID == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessionPins)
		if strings.TrimSpace(sessionID) == "" {
			return b.Delete([]byte(subProjectID))
		}
		return b.Put([]byte(subProjectID), []byte(sessionID))
	})
}
