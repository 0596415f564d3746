package results

import "errors"

var (
	// ErrNoParticipant is returned when submitting a result for a user who never joined
	ErrNoParticipant = errors.New("no participant for result")

	// ErrNotFound is returned when no result exists for the pair
	ErrNotFound = errors.New("result not found")

	// ErrNotOrganizer is returned when a non-organizer enters or deletes results
	ErrNotOrganizer = errors.New("caller is not the organizer")
)
