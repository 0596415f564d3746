package results

import (
	"context"
	"fmt"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/calisnet/engine/go/internal/sqlutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements result data access against Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new results repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertResult inserts or replaces the result for a (competition, participant) pair.
func (r *Repository) UpsertResult(ctx context.Context, result models.Result) (*models.Result, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO results (competition_id, participant_id, result_time, penalties, rank)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (competition_id, participant_id)
		DO UPDATE SET result_time = $3, penalties = $4, rank = $5, updated_at = now()
		RETURNING competition_id, participant_id, result_time, penalties, rank, created_at, updated_at`,
		result.CompetitionID, result.ParticipantID, result.ResultTime, result.Penalties, result.Rank,
	)

	var saved models.Result
	err := row.Scan(&saved.CompetitionID, &saved.ParticipantID, &saved.ResultTime,
		&saved.Penalties, &saved.Rank, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert result: %w", err)
	}
	return &saved, nil
}

// DeleteResult removes the result for a pair.
func (r *Repository) DeleteResult(ctx context.Context, competitionID, participantID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM results WHERE competition_id = $1 AND participant_id = $2`,
		competitionID, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCompetition retrieves all results for a competition.
func (r *Repository) ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT competition_id, participant_id, result_time, penalties, rank, created_at, updated_at
		 FROM results WHERE competition_id = $1 ORDER BY rank ASC, participant_id ASC`,
		competitionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	return collectResults(rows)
}

// ListByParticipant retrieves every result a user has across competitions.
func (r *Repository) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]models.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT competition_id, participant_id, result_time, penalties, rank, created_at, updated_at
		 FROM results WHERE participant_id = $1`,
		participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results by participant: %w", err)
	}
	defer rows.Close()

	return collectResults(rows)
}

// SaveRanks persists recomputed rank fields for a competition in one transaction.
func (r *Repository) SaveRanks(ctx context.Context, competitionID uuid.UUID, ranks map[uuid.UUID]int) error {
	return sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		for participantID, rank := range ranks {
			_, err := tx.Exec(ctx,
				`UPDATE results SET rank = $3, updated_at = now()
				 WHERE competition_id = $1 AND participant_id = $2`,
				competitionID, participantID, rank,
			)
			if err != nil {
				return fmt.Errorf("failed to save rank for %s: %w", participantID, err)
			}
		}
		return nil
	})
}

func collectResults(rows pgx.Rows) ([]models.Result, error) {
	var results []models.Result
	for rows.Next() {
		var result models.Result
		err := rows.Scan(&result.CompetitionID, &result.ParticipantID, &result.ResultTime,
			&result.Penalties, &result.Rank, &result.CreatedAt, &result.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}
