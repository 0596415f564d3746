package competitions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/calisnet/engine/go/internal/sqlutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sqlc-dev/pqtype"
)

// Repository implements competition data access against Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new competitions repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const competitionColumns = `id, organizer_id, name, description, location, image_url, date,
	participant_limit, penalty_time, status, created_at, updated_at`

// CreateCompetition inserts a new competition owned by its organizer.
func (r *Repository) CreateCompetition(ctx context.Context, req CreateCompetitionRequest, status models.CompetitionStatus) (*models.Competition, error) {
	location, err := locationJSON(req.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to encode location: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO competitions (
			id, organizer_id, name, description, location, image_url, date,
			participant_limit, penalty_time, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+competitionColumns,
		uuid.New(), req.OrganizerID, req.Name, req.Description,
		sqlutil.ToNullRawMessage(location), req.ImageURL, req.Date,
		req.ParticipantLimit, req.PenaltyTime, status,
	)

	competition, err := scanCompetition(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}
	return competition, nil
}

// GetCompetition retrieves a competition by id.
func (r *Repository) GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+competitionColumns+` FROM competitions WHERE id = $1`, id)

	competition, err := scanCompetition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return competition, nil
}

// ListByOrganizer retrieves all competitions owned by an organizer, newest first.
func (r *Repository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Competition, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+competitionColumns+` FROM competitions WHERE organizer_id = $1 ORDER BY date DESC`,
		organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions by organizer: %w", err)
	}
	defer rows.Close()

	return collectCompetitions(rows)
}

// ListUpcoming retrieves open competitions scheduled at or after the given time.
func (r *Repository) ListUpcoming(ctx context.Context, from time.Time) ([]models.Competition, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+competitionColumns+` FROM competitions
		 WHERE status = $1 AND date >= $2 ORDER BY date ASC`,
		models.CompetitionStatusOpen, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming competitions: %w", err)
	}
	defer rows.Close()

	return collectCompetitions(rows)
}

// UpdateCompetition replaces the organizer-editable fields.
func (r *Repository) UpdateCompetition(ctx context.Context, id uuid.UUID, req UpdateCompetitionRequest) (*models.Competition, error) {
	location, err := locationJSON(req.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to encode location: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE competitions
		SET name = $2, description = $3, location = $4, image_url = $5, date = $6,
			participant_limit = $7, penalty_time = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+competitionColumns,
		id, req.Name, req.Description, sqlutil.ToNullRawMessage(location),
		req.ImageURL, req.Date, req.ParticipantLimit, req.PenaltyTime,
	)

	competition, err := scanCompetition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update competition: %w", err)
	}
	return competition, nil
}

// UpdateStatus sets the lifecycle status. Transition legality is the app layer's concern.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.CompetitionStatus) (*models.Competition, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE competitions SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+competitionColumns,
		id, status,
	)

	competition, err := scanCompetition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update competition status: %w", err)
	}
	return competition, nil
}

// DeleteCompetition removes a competition and cascades to participants and results.
func (r *Repository) DeleteCompetition(ctx context.Context, id uuid.UUID) error {
	return sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM results WHERE competition_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete competition results: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM participants WHERE competition_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete competition participants: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM competitions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete competition: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompetition(row rowScanner) (*models.Competition, error) {
	var (
		c        models.Competition
		location pqtype.NullRawMessage
	)
	err := row.Scan(
		&c.ID, &c.OrganizerID, &c.Name, &c.Description, &location, &c.ImageURL,
		&c.Date, &c.ParticipantLimit, &c.PenaltyTime, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if raw := sqlutil.FromNullRawMessage(location); raw != nil {
		var loc models.Location
		if err := json.Unmarshal(raw, &loc); err != nil {
			return nil, fmt.Errorf("failed to decode location: %w", err)
		}
		c.Location = &loc
	}
	return &c, nil
}

func collectCompetitions(rows pgx.Rows) ([]models.Competition, error) {
	var competitions []models.Competition
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan competition: %w", err)
		}
		competitions = append(competitions, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read competitions: %w", err)
	}
	return competitions, nil
}

func locationJSON(loc *models.Location) (json.RawMessage, error) {
	if loc == nil {
		return nil, nil
	}
	return json.Marshal(loc)
}
