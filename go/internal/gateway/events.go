// Package gateway fans competition events out to WebSocket subscribers.
// Clients subscribe per competition and receive cancellation notices and
// live scoreboard updates as JSON frames.
package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/calisnet/engine/go/internal/events"
)

// CompetitionEvent is the frame pushed to subscribed clients.
type CompetitionEvent struct {
	ID            string          `json:"id"`
	CompetitionID string          `json:"competition_id"`
	Type          EventType       `json:"type"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data"`
}

type EventType string

const (
	EventTypeCompetitionCancelled EventType = events.TypeCompetitionCancelled
	EventTypeStandingsUpdated     EventType = events.TypeStandingsUpdated
)

// ParseEventPayload decodes an event frame's data into its payload struct.
func ParseEventPayload(event *CompetitionEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeCompetitionCancelled:
		var payload events.CompetitionCancelledPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeStandingsUpdated:
		var payload events.StandingsUpdatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("unknown event type: %s", event.Type)
	}
}
