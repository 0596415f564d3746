package exercises

import (
	"context"
	"fmt"
	"log"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

// ExercisesRepository defines what the app layer needs from the repository
type ExercisesRepository interface {
	CreateExercise(ctx context.Context, competitionID uuid.UUID, req CreateExerciseRequest) (*models.Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error)
	ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Exercise, error)
	UpdateExercise(ctx context.Context, id uuid.UUID, req UpdateExerciseRequest) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, id uuid.UUID) error
}

// CompetitionGetter resolves competitions for organizer and lifecycle checks
type CompetitionGetter interface {
	GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error)
}

// App handles workout definition business logic
type App struct {
	repo         ExercisesRepository
	competitions CompetitionGetter
}

// NewApp creates a new exercises App
func NewApp(repo ExercisesRepository, competitions CompetitionGetter) *App {
	return &App{repo: repo, competitions: competitions}
}

// AddExercise appends a movement to the competition's workout. Only the
// organizer may edit the workout, and only while the competition is not
// Finished or Cancelled.
func (a *App) AddExercise(ctx context.Context, competitionID, actorID uuid.UUID, req CreateExerciseRequest) (*models.Exercise, error) {
	if err := validateExerciseFields(req.Name, req.Sets, req.Reps, req.ExecutionOrder); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := a.gateEdit(ctx, competitionID, actorID); err != nil {
		return nil, err
	}

	exercise, err := a.repo.CreateExercise(ctx, competitionID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	log.Printf("Added exercise %q to competition %s (order %d)",
		exercise.Name, competitionID, exercise.ExecutionOrder)
	return exercise, nil
}

// ListByCompetition retrieves the competition's workout in execution order.
func (a *App) ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Exercise, error) {
	if _, err := a.competitions.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	return a.repo.ListByCompetition(ctx, competitionID)
}

// UpdateExercise edits a movement. The exercise must belong to the given
// competition; the organizer and lifecycle gates match AddExercise.
func (a *App) UpdateExercise(ctx context.Context, competitionID, exerciseID, actorID uuid.UUID, req UpdateExerciseRequest) (*models.Exercise, error) {
	if err := validateExerciseFields(req.Name, req.Sets, req.Reps, req.ExecutionOrder); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := a.gateEdit(ctx, competitionID, actorID); err != nil {
		return nil, err
	}
	if _, err := a.mustBelong(ctx, competitionID, exerciseID); err != nil {
		return nil, err
	}

	exercise, err := a.repo.UpdateExercise(ctx, exerciseID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	return exercise, nil
}

// DeleteExercise removes a movement from the competition's workout.
func (a *App) DeleteExercise(ctx context.Context, competitionID, exerciseID, actorID uuid.UUID) error {
	if err := a.gateEdit(ctx, competitionID, actorID); err != nil {
		return err
	}
	if _, err := a.mustBelong(ctx, competitionID, exerciseID); err != nil {
		return err
	}

	if err := a.repo.DeleteExercise(ctx, exerciseID); err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}

	log.Printf("Deleted exercise %s from competition %s", exerciseID, competitionID)
	return nil
}

func (a *App) gateEdit(ctx context.Context, competitionID, actorID uuid.UUID) error {
	competition, err := a.competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if competition.OrganizerID != actorID {
		return ErrNotOrganizer
	}
	if competition.Status.Terminal() {
		return ErrCompetitionClosed
	}
	return nil
}

func (a *App) mustBelong(ctx context.Context, competitionID, exerciseID uuid.UUID) (*models.Exercise, error) {
	exercise, err := a.repo.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if exercise.CompetitionID != competitionID {
		return nil, ErrNotFound
	}
	return exercise, nil
}

func validateExerciseFields(name string, sets, reps, executionOrder int) error {
	if name == "" {
		return fmt.Errorf("exercise name is required")
	}
	if sets <= 0 {
		return fmt.Errorf("sets must be positive, got %d", sets)
	}
	if reps <= 0 {
		return fmt.Errorf("reps must be positive, got %d", reps)
	}
	if executionOrder < 0 {
		return fmt.Errorf("execution order must not be negative, got %d", executionOrder)
	}
	return nil
}
