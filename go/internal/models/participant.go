package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant represents a user's active membership in a competition
type Participant struct {
	CompetitionID uuid.UUID `json:"competition_id"`
	UserID        uuid.UUID `json:"participant_id"`
	JoinedAt      time.Time `json:"joined_at"`
}
