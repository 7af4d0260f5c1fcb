// Package chat implements the conversation synchronization engine: an
// ordered message store fed by optimistic injection and poll reconciliation,
// an adaptive poll scheduler, a waiting-state classifier, an
// auto-continuation controller, and the session tab model.
package chat

import (
	"sort"

	"parley/internal/types"
)

type storeEntry struct {
	msg types.Message
	seq int
}

// MessageStore holds the messages of the active session, keyed by message id.
// It is owned by exactly one Conversation and mutated only on the UI event
// loop, so it carries no locking.
type MessageStore struct {
	entries map[string]storeEntry
	nextSeq int
}

func NewMessageStore() *MessageStore {
	return &MessageStore{entries: map[string]storeEntry{}}
}

func (s *MessageStore) Len() int {
	return len(s.entries)
}

func (s *MessageStore) Get(key string) (types.Message, bool) {
	entry, ok := s.entries[key]
	return entry.msg, ok
}

// Put inserts the message or replaces the stored record wholesale. A
// replacement keeps the original arrival sequence so sort ties stay stable.
func (s *MessageStore) Put(msg types.Message) {
	key := msg.ID.Key()
	if key == "" {
		return
	}
	if existing, ok := s.entries[key]; ok {
		s.entries[key] = storeEntry{msg: msg, seq: existing.seq}
		return
	}
	s.nextSeq++
	s.entries[key] = storeEntry{msg: msg, seq: s.nextSeq}
}

func (s *MessageStore) Remove(key string) bool {
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

func (s *MessageStore) Clear() {
	s.entries = map[string]storeEntry{}
	s.nextSeq = 0
}

// Messages returns every stored message sorted by timestamp ascending,
// ties broken by arrival order into the store.
func (s *MessageStore) Messages() []types.Message {
	ordered := make([]storeEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.msg.Timestamp.Equal(b.msg.Timestamp) {
			return a.msg.Timestamp.Before(b.msg.Timestamp)
		}
		return a.seq < b.seq
	})
	out := make([]types.Message, 0, len(ordered))
	for _, entry := range ordered {
		out = append(out, entry.msg)
	}
	return out
}

// Timeline is Messages with hook-role entries filtered out; this is what the
// UI renders as the conversation.
func (s *MessageStore) Timeline() []types.Message {
	all := s.Messages()
	out := all[:0]
	for _, msg := range all {
		if msg.Role == types.RoleHook {
			continue
		}
		out = append(out, msg)
	}
	return out
}

func (s *MessageStore) Temporaries() []types.Message {
	var out []types.Message
	for _, msg := range s.Messages() {
		if msg.ID.Temporary() {
			out = append(out, msg)
		}
	}
	return out
}

// LastAssistant returns the most recent assistant message in timeline order.
func (s *MessageStore) LastAssistant() (types.Message, bool) {
	timeline := s.Timeline()
	for i := len(timeline) - 1; i >= 0; i-- {
		if timeline[i].Role == types.RoleAssistant {
			return timeline[i], true
		}
	}
	return types.Message{}, false
}

// HasAutoChild reports whether any auto-role message references parentKey.
// This is the sole de-duplication guard for auto-continuation and must be
// asked of the live store on every evaluation.
func (s *MessageStore) HasAutoChild(parentKey string) bool {
	if parentKey == "" {
		return false
	}
	for _, entry := range s.entries {
		if entry.msg.Role == types.RoleAuto && entry.msg.ParentMessageID == parentKey {
			return true
		}
	}
	return false
}

// RemoveTemporariesByRole drops every temporary message with the given role
// and returns how many were removed.
func (s *MessageStore) RemoveTemporariesByRole(role types.Role) int {
	removed := 0
	for key, entry := range s.entries {
		if entry.msg.ID.Temporary() && entry.msg.Role == role {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
