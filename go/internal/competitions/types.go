package competitions

import (
	"time"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

// CreateCompetitionRequest represents the data needed to create a competition
type CreateCompetitionRequest struct {
	OrganizerID      uuid.UUID        `json:"organizer_id" validate:"required"`
	Name             string           `json:"name" validate:"required"`
	Description      string           `json:"competition_description"`
	Location         *models.Location `json:"location,omitempty"`
	ImageURL         string           `json:"image,omitempty"`
	Date             time.Time        `json:"date" validate:"required"`
	ParticipantLimit int              `json:"participant_limit"`
	PenaltyTime      int              `json:"penalty_time"`
}

// UpdateCompetitionRequest represents the organizer-editable fields
type UpdateCompetitionRequest struct {
	Name             string           `json:"name" validate:"required"`
	Description      string           `json:"competition_description"`
	Location         *models.Location `json:"location,omitempty"`
	ImageURL         string           `json:"image,omitempty"`
	Date             time.Time        `json:"date" validate:"required"`
	ParticipantLimit int              `json:"participant_limit"`
	PenaltyTime      int              `json:"penalty_time"`
}
