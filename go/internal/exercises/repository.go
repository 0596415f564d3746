package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements exercise data access against Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new exercises repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const exerciseColumns = `id, competition_id, name, description, sets, reps,
	execution_order, created_at, updated_at`

// CreateExercise inserts a movement into the competition's workout.
func (r *Repository) CreateExercise(ctx context.Context, competitionID uuid.UUID, req CreateExerciseRequest) (*models.Exercise, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO exercises (
			id, competition_id, name, description, sets, reps, execution_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+exerciseColumns,
		uuid.New(), competitionID, req.Name, req.Description,
		req.Sets, req.Reps, req.ExecutionOrder,
	)

	exercise, err := scanExercise(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return exercise, nil
}

// GetExercise retrieves an exercise by id.
func (r *Repository) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)

	exercise, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return exercise, nil
}

// ListByCompetition retrieves the competition's workout ordered by execution
// order, oldest first among order ties.
func (r *Repository) ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Exercise, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises
		 WHERE competition_id = $1
		 ORDER BY execution_order, created_at`, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	var out []models.Exercise
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		out = append(out, *exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exercises: %w", err)
	}
	return out, nil
}

// UpdateExercise edits a movement in place.
func (r *Repository) UpdateExercise(ctx context.Context, id uuid.UUID, req UpdateExerciseRequest) (*models.Exercise, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE exercises
		SET name = $2, description = $3, sets = $4, reps = $5,
		    execution_order = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+exerciseColumns,
		id, req.Name, req.Description, req.Sets, req.Reps, req.ExecutionOrder,
	)

	exercise, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	return exercise, nil
}

// DeleteExercise removes a movement.
func (r *Repository) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := row.Scan(
		&exercise.ID, &exercise.CompetitionID, &exercise.Name,
		&exercise.Description, &exercise.Sets, &exercise.Reps,
		&exercise.ExecutionOrder, &exercise.CreatedAt, &exercise.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &exercise, nil
}
