package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calisnet/engine/go/internal/events"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stages and drains outbox events. Inserts run in the caller's
// request path; fetching and marking belong to the worker.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordCompetitionCancelled stages a cancellation notice for delivery.
func (r *Repository) RecordCompetitionCancelled(ctx context.Context, payload events.CompetitionCancelledPayload) error {
	return r.insert(ctx, payload.CompetitionID, events.TypeCompetitionCancelled, payload)
}

// RecordStandingsUpdated stages a recomputed scoreboard for delivery.
func (r *Repository) RecordStandingsUpdated(ctx context.Context, payload events.StandingsUpdatedPayload) error {
	return r.insert(ctx, payload.CompetitionID, events.TypeStandingsUpdated, payload)
}

func (r *Repository) insert(ctx context.Context, competitionID uuid.UUID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	query := `
		INSERT INTO outbox_events (id, competition_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, NOW())`

	if _, err := r.pool.Exec(ctx, query, uuid.New(), competitionID, eventType, data); err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	return nil
}

// FetchUnsent returns the oldest undelivered events. Delivery is
// at-least-once; the publisher deduplicates by event id, so a batch picked
// up twice across worker restarts is harmless.
func (r *Repository) FetchUnsent(ctx context.Context, limit int32) ([]OutboxEvent, error) {
	query := `
		SELECT id, competition_id, event_type, payload, created_at
		FROM outbox_events
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var out []OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		if err := rows.Scan(&event.ID, &event.CompetitionID, &event.EventType, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// CountPending returns how many events still await delivery.
func (r *Repository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox_events WHERE sent_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending outbox events: %w", err)
	}
	return count, nil
}

// MarkSent stamps the delivered events.
func (r *Repository) MarkSent(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE outbox_events SET sent_at = NOW() WHERE id = ANY($1)`
	if _, err := r.pool.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to mark outbox events as sent: %w", err)
	}
	return nil
}
