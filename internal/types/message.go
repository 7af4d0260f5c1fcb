package types

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleAuto      Role = "auto"
	RoleHook      Role = "hook"
)

type ContinuationStatus string

const (
	ContinuationNone       ContinuationStatus = "none"
	ContinuationNeeded     ContinuationStatus = "needed"
	ContinuationInProgress ContinuationStatus = "in_progress"
	ContinuationCompleted  ContinuationStatus = "completed"
)

// MessageID distinguishes server-assigned identity from client-synthesized
// identity at the type level. Temporary ids are never sent to the backend
// and never survive reconciliation against an authoritative snapshot.
type MessageID struct {
	value     string
	temporary bool
}

func AuthoritativeID(value string) MessageID {
	return MessageID{value: value}
}

func NewTemporaryID() MessageID {
	return MessageID{value: uuid.NewString(), temporary: true}
}

func (id MessageID) Temporary() bool { return id.temporary }

func (id MessageID) Zero() bool { return id.value == "" }

func (id MessageID) String() string { return id.value }

// Key returns the store key for the id. Temporary and authoritative ids can
// never collide because temporary values are freshly generated UUIDs.
func (id MessageID) Key() string { return id.value }

// ContentMeta carries the assistant-message metadata the sync engine cares
// about. Unknown metadata keys from the wire are dropped on decode.
type ContentMeta struct {
	Status             string `json:"status,omitempty"`
	PlanningInProgress bool   `json:"planning_in_progress,omitempty"`
	BreakdownParent    bool   `json:"is_breakdown_parent,omitempty"`
	NextSessionID      string `json:"next_session_id,omitempty"`
	WebhookSessionID   string `json:"webhook_session_id,omitempty"`
}

type Content struct {
	Text string      `json:"text"`
	Meta ContentMeta `json:"metadata,omitempty"`
}

const (
	contentStatusProcessing = "processing"
	contentStatusCompleted  = "completed"
)

type Message struct {
	ID           MessageID
	Role         Role
	Content      Content
	Timestamp    time.Time
	SessionID    string
	Processing   bool
	Continuation ContinuationStatus
	// ParentMessageID is a weak back-reference: it links an auto message to
	// the assistant message that triggered it, and an assistant reply to its
	// triggering auto message.
	ParentMessageID string
}

// DeriveProcessing recomputes the processing flag from metadata and content.
// An assistant message with an explicit completed status is settled even when
// its text is still empty.
func (m *Message) DeriveProcessing() {
	if m.Role != RoleAssistant {
		m.Processing = false
		return
	}
	switch m.Content.Meta.Status {
	case contentStatusProcessing:
		m.Processing = true
	case contentStatusCompleted:
		m.Processing = false
	default:
		m.Processing = m.Content.Text == ""
	}
}

func (m *Message) ContinuationNeeded() bool {
	return m.Continuation == ContinuationNeeded && !m.Processing && m.Content.Text != ""
}

// Equivalent reports whether two messages carry the same visible state. The
// comparison is structural over the fields that matter rather than a
// serialized-form comparison, so key order can never produce a false change.
func (m Message) Equivalent(other Message) bool {
	return m.ID.Key() == other.ID.Key() &&
		m.Role == other.Role &&
		m.Content.Text == other.Content.Text &&
		m.Content.Meta == other.Content.Meta &&
		m.Processing == other.Processing &&
		m.Continuation == other.Continuation &&
		m.ParentMessageID == other.ParentMessageID
}

type Hook struct {
	ID        string    `json:"id"`
	MessageID string    `json:"message_id"`
	Name      string    `json:"name"`
	Output    string    `json:"output,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
