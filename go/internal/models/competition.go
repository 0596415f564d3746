package models

import (
	"time"

	"github.com/google/uuid"
)

// CompetitionStatus represents the lifecycle state of a competition
type CompetitionStatus string

const (
	CompetitionStatusOpen      CompetitionStatus = "Open"
	CompetitionStatusStarted   CompetitionStatus = "Started"
	CompetitionStatusFinished  CompetitionStatus = "Finished"
	CompetitionStatusCancelled CompetitionStatus = "Cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s CompetitionStatus) Terminal() bool {
	return s == CompetitionStatusFinished || s == CompetitionStatusCancelled
}

// Location is the optional geocoded venue of a competition
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Competition represents a scheduled fitness competition
type Competition struct {
	ID               uuid.UUID         `json:"competition_id"`
	OrganizerID      uuid.UUID         `json:"organizer_id"`
	Name             string            `json:"name"`
	Description      string            `json:"competition_description"`
	Location         *Location         `json:"location,omitempty"`
	ImageURL         string            `json:"image,omitempty"`
	Date             time.Time         `json:"date"`
	ParticipantLimit int               `json:"participant_limit"` // 0 = unlimited
	PenaltyTime      int               `json:"penalty_time"`      // seconds added per penalty
	Status           CompetitionStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
