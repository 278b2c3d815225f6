package clinical

import (
	"time"

	"github.com/google/uuid"
)

// NoteEvent is announced to clinician tooling after a note is stored.
type NoteEvent struct {
	NoteID      uuid.UUID   `json:"note_id"`
	UserID      uuid.UUID   `json:"user_id"`
	Severity    Severity    `json:"severity"`
	TriggerType TriggerType `json:"trigger_type"`
	CreatedAt   time.Time   `json:"created_at"`
}
