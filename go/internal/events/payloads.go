// Package events holds the payload shapes shared by the outbox publisher and
// the live gateway, kept separate to avoid cyclic imports.
package events

import (
	"time"

	"github.com/calisnet/engine/go/internal/scoring"
	"github.com/google/uuid"
)

// Event types carried through the outbox and fanned out by the gateway.
const (
	TypeCompetitionCancelled = "CompetitionCancelled"
	TypeStandingsUpdated     = "StandingsUpdated"
)

// CompetitionCancelledPayload notifies current participants of a cancellation.
type CompetitionCancelledPayload struct {
	CompetitionID   uuid.UUID   `json:"competition_id"`
	CompetitionName string      `json:"competition_name"`
	ParticipantIDs  []uuid.UUID `json:"participant_ids"`
	CancelledAt     time.Time   `json:"cancelled_at"`
}

// StandingsUpdatedPayload carries the recomputed scoreboard after a result
// insert, update, or delete.
type StandingsUpdatedPayload struct {
	CompetitionID uuid.UUID          `json:"competition_id"`
	Standings     []scoring.Standing `json:"standings"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
