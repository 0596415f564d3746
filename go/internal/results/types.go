package results

import (
	"github.com/google/uuid"
)

// SubmitResultRequest represents an organizer-entered result. ResultTime
// accepts both "H:MM:SS" and "MM:SS" forms.
type SubmitResultRequest struct {
	ParticipantID uuid.UUID `json:"participant_id" validate:"required"`
	ResultTime    string    `json:"result_time" validate:"required"`
	Penalties     int       `json:"penalties"`
}

// ScoreboardEntry is a standing joined with the participant's display name.
type ScoreboardEntry struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Username      string    `json:"username"`
	ResultTime    int       `json:"result_time"`
	Penalties     int       `json:"penalties"`
	FinalTime     int       `json:"final_time"`
	Rank          int       `json:"rank"`
}
