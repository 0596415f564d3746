package models

import (
	"time"

	"github.com/google/uuid"
)

// Exercise is one movement in a competition's workout, performed in
// ExecutionOrder relative to its siblings.
type Exercise struct {
	ID             uuid.UUID `json:"id"`
	CompetitionID  uuid.UUID `json:"competition_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Sets           int       `json:"sets"`
	Reps           int       `json:"reps"`
	ExecutionOrder int       `json:"execution_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
