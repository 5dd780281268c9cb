package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action is the lifecycle transition an event records.
type Action string

const (
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionSoftDeleted Action = "soft_deleted"
	ActionRestored    Action = "restored"
)

// Event is emitted from the lifecycle services to capture every record
// transition. Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	RecordID  uuid.UUID `json:"record_id"`
	Action    Action    `json:"action"`
	RequestID string    `json:"request_id,omitempty"`
}
