package competitions

import "errors"

var (
	// ErrNotFound is returned when no competition exists for the given id
	ErrNotFound = errors.New("competition not found")

	// ErrNotOrganizer is returned when a caller other than the organizer mutates a competition
	ErrNotOrganizer = errors.New("caller is not the organizer")

	// ErrCompetitionClosed is returned when mutating a Finished or Cancelled competition
	ErrCompetitionClosed = errors.New("competition is closed")

	// ErrInvalidTransition is returned for status changes that regress or skip the lifecycle
	ErrInvalidTransition = errors.New("invalid status transition")
)
