package competitions

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

// CompetitionsRepository defines what the app layer needs from the repository
type CompetitionsRepository interface {
	CreateCompetition(ctx context.Context, req CreateCompetitionRequest, status models.CompetitionStatus) (*models.Competition, error)
	GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Competition, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]models.Competition, error)
	UpdateCompetition(ctx context.Context, id uuid.UUID, req UpdateCompetitionRequest) (*models.Competition, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.CompetitionStatus) (*models.Competition, error)
	DeleteCompetition(ctx context.Context, id uuid.UUID) error
}

// App handles competition business logic
type App struct {
	repo CompetitionsRepository
}

// NewApp creates a new competitions App
func NewApp(repo CompetitionsRepository) *App {
	return &App{repo: repo}
}

// CreateCompetition creates a new competition in the Open state.
func (a *App) CreateCompetition(ctx context.Context, req CreateCompetitionRequest) (*models.Competition, error) {
	if err := validateCompetitionFields(req.Name, req.ParticipantLimit, req.PenaltyTime, req.Date); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.OrganizerID == uuid.Nil {
		return nil, fmt.Errorf("validation failed: organizer id is required")
	}

	competition, err := a.repo.CreateCompetition(ctx, req, models.CompetitionStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}

	log.Printf("Created competition: %s (%s)", competition.Name, competition.ID)
	return competition, nil
}

// GetCompetition retrieves a competition by id.
func (a *App) GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	return a.repo.GetCompetition(ctx, id)
}

// ListByOrganizer retrieves the competitions owned by an organizer.
func (a *App) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Competition, error) {
	return a.repo.ListByOrganizer(ctx, organizerID)
}

// ListUpcoming retrieves open competitions scheduled at or after now.
func (a *App) ListUpcoming(ctx context.Context, from time.Time) ([]models.Competition, error) {
	return a.repo.ListUpcoming(ctx, from)
}

// UpdateCompetition updates an existing competition. Only the organizer may
// edit, and only while the competition is not Finished or Cancelled.
func (a *App) UpdateCompetition(ctx context.Context, id, actorID uuid.UUID, req UpdateCompetitionRequest) (*models.Competition, error) {
	if err := validateCompetitionFields(req.Name, req.ParticipantLimit, req.PenaltyTime, req.Date); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := a.repo.GetCompetition(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OrganizerID != actorID {
		return nil, ErrNotOrganizer
	}
	if existing.Status.Terminal() {
		return nil, ErrCompetitionClosed
	}

	competition, err := a.repo.UpdateCompetition(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update competition: %w", err)
	}

	log.Printf("Updated competition: %s (%s)", competition.Name, competition.ID)
	return competition, nil
}

// AdvanceStatus moves a competition one step along Open -> Started -> Finished.
// Cancellation goes through the participation ledger, not this path.
func (a *App) AdvanceStatus(ctx context.Context, id, actorID uuid.UUID, next models.CompetitionStatus) (*models.Competition, error) {
	existing, err := a.repo.GetCompetition(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OrganizerID != actorID {
		return nil, ErrNotOrganizer
	}
	if nextStatus, ok := forwardTransitions[existing.Status]; !ok || nextStatus != next {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, next)
	}

	competition, err := a.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("failed to advance competition status: %w", err)
	}

	log.Printf("Competition %s advanced to %s", competition.ID, competition.Status)
	return competition, nil
}

// DeleteCompetition removes a competition and its dependent rows. Organizer
// only.
func (a *App) DeleteCompetition(ctx context.Context, id, actorID uuid.UUID) error {
	existing, err := a.repo.GetCompetition(ctx, id)
	if err != nil {
		return err
	}
	if existing.OrganizerID != actorID {
		return ErrNotOrganizer
	}

	if err := a.repo.DeleteCompetition(ctx, id); err != nil {
		return fmt.Errorf("failed to delete competition: %w", err)
	}

	log.Printf("Deleted competition: %s", id)
	return nil
}

// forwardTransitions is the monotonic lifecycle; Cancelled is reachable
// separately from any non-terminal state.
var forwardTransitions = map[models.CompetitionStatus]models.CompetitionStatus{
	models.CompetitionStatusOpen:    models.CompetitionStatusStarted,
	models.CompetitionStatusStarted: models.CompetitionStatusFinished,
}

func validateCompetitionFields(name string, participantLimit, penaltyTime int, date time.Time) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if participantLimit < 0 {
		return fmt.Errorf("participant limit cannot be negative")
	}
	if penaltyTime < 0 {
		return fmt.Errorf("penalty time cannot be negative")
	}
	return nil
}
