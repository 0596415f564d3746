package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is a domain event staged in Postgres alongside the write that
// produced it, awaiting delivery to JetStream.
type OutboxEvent struct {
	ID            uuid.UUID       `json:"id"`
	CompetitionID uuid.UUID       `json:"competition_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	SentAt        *time.Time      `json:"sent_at,omitempty"`
}
