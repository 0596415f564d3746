package participants

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/calisnet/engine/go/internal/events"
	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ParticipantsRepository defines what the app layer needs from the repository.
// CreateParticipant must apply the status, capacity, and uniqueness checks
// atomically with the insert.
type ParticipantsRepository interface {
	CreateParticipant(ctx context.Context, competitionID, userID uuid.UUID, joinedAt time.Time) (*models.Participant, error)
	DeleteParticipant(ctx context.Context, competitionID, userID uuid.UUID) error
	CancelCompetition(ctx context.Context, competitionID uuid.UUID) error
	Exists(ctx context.Context, competitionID, userID uuid.UUID) (bool, error)
	ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Participant, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Participant, error)
}

// CompetitionGetter resolves competitions for organizer and status checks
type CompetitionGetter interface {
	GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error)
}

// EventRecorder records domain events for asynchronous delivery
type EventRecorder interface {
	RecordCompetitionCancelled(ctx context.Context, payload events.CompetitionCancelledPayload) error
}

// App is the participation ledger: joins, leaves, and organizer cancellation
type App struct {
	repo         ParticipantsRepository
	competitions CompetitionGetter
	recorder     EventRecorder
	clock        clockwork.Clock
}

// NewApp creates a new participants App
func NewApp(repo ParticipantsRepository, competitions CompetitionGetter, recorder EventRecorder, clock clockwork.Clock) *App {
	return &App{
		repo:         repo,
		competitions: competitions,
		recorder:     recorder,
		clock:        clock,
	}
}

// Join admits a user into a competition. Fails with ErrAlreadyJoined,
// ErrNotOpen, or ErrCapacityExceeded per the ledger invariants.
func (a *App) Join(ctx context.Context, competitionID, userID uuid.UUID) (*models.Participant, error) {
	if competitionID == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("competition id and user id are required")
	}

	participant, err := a.repo.CreateParticipant(ctx, competitionID, userID, a.clock.Now())
	if err != nil {
		return nil, err
	}

	log.Printf("User %s joined competition %s", userID, competitionID)
	return participant, nil
}

// Leave removes a user's participation. An existing result for the pair is
// kept as historical record; it no longer counts toward capacity because
// capacity is checked against participant rows only.
func (a *App) Leave(ctx context.Context, competitionID, userID uuid.UUID) error {
	if err := a.repo.DeleteParticipant(ctx, competitionID, userID); err != nil {
		return err
	}

	log.Printf("User %s left competition %s", userID, competitionID)
	return nil
}

// Cancel transitions a competition to Cancelled. Only the organizer may
// cancel, from any state except Finished. Cancelling an already cancelled
// competition is a no-op. Participants are notified through the recorded
// cancellation event.
func (a *App) Cancel(ctx context.Context, competitionID, actorID uuid.UUID) error {
	competition, err := a.competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if competition.OrganizerID != actorID {
		return ErrNotOrganizer
	}
	switch competition.Status {
	case models.CompetitionStatusFinished:
		return ErrFinished
	case models.CompetitionStatusCancelled:
		return nil
	}

	if err := a.repo.CancelCompetition(ctx, competitionID); err != nil {
		return err
	}

	current, err := a.repo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return fmt.Errorf("failed to list participants for cancellation notice: %w", err)
	}

	participantIDs := make([]uuid.UUID, len(current))
	for i, p := range current {
		participantIDs[i] = p.UserID
	}

	payload := events.CompetitionCancelledPayload{
		CompetitionID:   competitionID,
		CompetitionName: competition.Name,
		ParticipantIDs:  participantIDs,
		CancelledAt:     a.clock.Now(),
	}
	if err := a.recorder.RecordCompetitionCancelled(ctx, payload); err != nil {
		return fmt.Errorf("failed to record cancellation event: %w", err)
	}

	log.Printf("Competition %s cancelled by organizer %s (%d participants notified)",
		competitionID, actorID, len(participantIDs))
	return nil
}

// IsParticipant reports whether the user currently participates in the competition.
func (a *App) IsParticipant(ctx context.Context, competitionID, userID uuid.UUID) (bool, error) {
	return a.repo.Exists(ctx, competitionID, userID)
}

// ListByCompetition retrieves a competition's current participants.
func (a *App) ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Participant, error) {
	return a.repo.ListByCompetition(ctx, competitionID)
}

// ListByUser retrieves every participation of a user.
func (a *App) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Participant, error) {
	return a.repo.ListByUser(ctx, userID)
}
