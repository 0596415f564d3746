package participants

import "errors"

var (
	// ErrAlreadyJoined is returned when the user already holds a participant row
	ErrAlreadyJoined = errors.New("already joined")

	// ErrNotOpen is returned when joining a competition that is not Open
	ErrNotOpen = errors.New("competition not open for joining")

	// ErrCapacityExceeded is returned when the participant limit is reached
	ErrCapacityExceeded = errors.New("participant limit reached")

	// ErrNotParticipant is returned when leaving a competition the user never joined
	ErrNotParticipant = errors.New("not a participant")

	// ErrNotOrganizer is returned when a non-organizer cancels a competition
	ErrNotOrganizer = errors.New("caller is not the organizer")

	// ErrFinished is returned when cancelling an already finished competition
	ErrFinished = errors.New("competition already finished")
)
