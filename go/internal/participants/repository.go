package participants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calisnet/engine/go/internal/competitions"
	"github.com/calisnet/engine/go/internal/models"
	"github.com/calisnet/engine/go/internal/sqlutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements participant data access against Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new participants repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateParticipant inserts a participant row, enforcing the Open-status and
// capacity invariants atomically. The competition row is locked for the
// duration of the check so two concurrent joins at the capacity boundary
// cannot both be admitted.
func (r *Repository) CreateParticipant(ctx context.Context, competitionID, userID uuid.UUID, joinedAt time.Time) (*models.Participant, error) {
	var participant *models.Participant

	err := sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		var (
			status models.CompetitionStatus
			limit  int
		)
		err := tx.QueryRow(ctx,
			`SELECT status, participant_limit FROM competitions WHERE id = $1 FOR UPDATE`,
			competitionID,
		).Scan(&status, &limit)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return competitions.ErrNotFound
			}
			return fmt.Errorf("failed to lock competition: %w", err)
		}

		if status != models.CompetitionStatusOpen {
			return ErrNotOpen
		}

		if limit > 0 {
			var count int
			err := tx.QueryRow(ctx,
				`SELECT COUNT(*) FROM participants WHERE competition_id = $1`,
				competitionID,
			).Scan(&count)
			if err != nil {
				return fmt.Errorf("failed to count participants: %w", err)
			}
			if count >= limit {
				return ErrCapacityExceeded
			}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO participants (competition_id, user_id, joined_at) VALUES ($1, $2, $3)`,
			competitionID, userID, joinedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrAlreadyJoined
			}
			return fmt.Errorf("failed to insert participant: %w", err)
		}

		participant = &models.Participant{
			CompetitionID: competitionID,
			UserID:        userID,
			JoinedAt:      joinedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// DeleteParticipant removes a participant row. Result rows for the pair are
// kept as historical record.
func (r *Repository) DeleteParticipant(ctx context.Context, competitionID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM participants WHERE competition_id = $1 AND user_id = $2`,
		competitionID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotParticipant
	}
	return nil
}

// CancelCompetition marks a competition Cancelled. Status gating is the app layer's concern.
func (r *Repository) CancelCompetition(ctx context.Context, competitionID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE competitions SET status = $2, updated_at = now() WHERE id = $1`,
		competitionID, models.CompetitionStatusCancelled,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel competition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return competitions.ErrNotFound
	}
	return nil
}

// Exists reports whether the (competition, user) pair holds a participant row.
func (r *Repository) Exists(ctx context.Context, competitionID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM participants WHERE competition_id = $1 AND user_id = $2)`,
		competitionID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

// ListByCompetition retrieves a competition's participants in join order.
func (r *Repository) ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]models.Participant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT competition_id, user_id, joined_at FROM participants
		 WHERE competition_id = $1 ORDER BY joined_at ASC`,
		competitionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	return collectParticipants(rows)
}

// ListByUser retrieves every participation of a user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Participant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT competition_id, user_id, joined_at FROM participants
		 WHERE user_id = $1 ORDER BY joined_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	return collectParticipants(rows)
}

func collectParticipants(rows pgx.Rows) ([]models.Participant, error) {
	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.CompetitionID, &p.UserID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}
	return participants, nil
}
