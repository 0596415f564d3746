package exercises

import "errors"

var (
	// ErrNotFound is returned when no exercise exists for the given id
	ErrNotFound = errors.New("exercise not found")

	// ErrNotOrganizer is returned when a caller other than the organizer edits the workout
	ErrNotOrganizer = errors.New("caller is not the organizer")

	// ErrCompetitionClosed is returned when editing the workout of a Finished or Cancelled competition
	ErrCompetitionClosed = errors.New("competition is closed")
)
