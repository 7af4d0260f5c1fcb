package chat

import (
	"parley/internal/logging"
	"parley/internal/types"
)

// Reconciler merges polled authoritative snapshots into a MessageStore. It is
// the only writer of server-origin data.
type Reconciler struct {
	log logging.Logger
}

func NewReconciler(log logging.Logger) *Reconciler {
	if log == nil {
		log = logging.Nop()
	}
	return &Reconciler{log: log}
}

// Merge applies a snapshot against the store and reports whether the visible
// timeline changed.
//
// An empty snapshot carries no information: polled history can transiently
// come back empty before the backend record propagates, and wiping a
// populated timeline over that would lose data. The store is left untouched.
//
// Incoming messages whose session id differs from the pinned id are
// normalized onto the pinned id before insertion; the pin itself never moves.
// A message already present is replaced wholesale whenever its visible state
// differs, never merged field by field.
func (r *Reconciler) Merge(store *MessageStore, pinnedSessionID string, snapshot []types.Message) bool {
	if len(snapshot) == 0 {
		return false
	}

	changed := false
	insertedRoles := map[types.Role]bool{}
	for _, incoming := range snapshot {
		if incoming.ID.Temporary() || incoming.ID.Zero() {
			// Snapshots are authoritative by contract; anything else is a
			// caller bug and is dropped rather than stored.
			r.log.Warn("reconcile: dropped non-authoritative snapshot message", logging.F("role", string(incoming.Role)))
			continue
		}
		if pinnedSessionID != "" && incoming.SessionID != pinnedSessionID {
			r.log.Warn("reconcile: session id mismatch, normalizing display",
				logging.F("pinned", pinnedSessionID),
				logging.F("incoming", incoming.SessionID),
				logging.F("message", incoming.ID.Key()))
			incoming.SessionID = pinnedSessionID
		}

		existing, ok := store.Get(incoming.ID.Key())
		if !ok {
			store.Put(incoming)
			insertedRoles[incoming.Role] = true
			if incoming.Role != types.RoleHook {
				changed = true
			}
			continue
		}
		if !existing.Equivalent(incoming) {
			store.Put(incoming)
			if incoming.Role != types.RoleHook {
				changed = true
			}
		}
	}

	// Temporary supersession: an authoritative message newly arrived for a
	// role occupies the logical slot its temporary was holding open.
	for role := range insertedRoles {
		if store.RemoveTemporariesByRole(role) > 0 {
			changed = true
		}
	}
	return changed
}
