package models

import (
	"time"

	"github.com/google/uuid"
)

// Result represents a participant's recorded time for a competition.
// Rank is derived from the competition's full result set and refreshed
// whenever that set changes; it is never authoritative on its own.
type Result struct {
	CompetitionID uuid.UUID `json:"competition_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	ResultTime    int       `json:"result_time"` // raw elapsed seconds
	Penalties     int       `json:"penalties"`
	Rank          int       `json:"rank"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
