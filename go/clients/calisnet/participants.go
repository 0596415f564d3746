package calisnet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

type wireParticipant struct {
	CompetitionID string `json:"competition_id"`
	ParticipantID string `json:"participant_id"`
	UserID        string `json:"userId"` // older revisions used camelCase
}

func (w wireParticipant) normalize(defaultCompetitionID uuid.UUID) (models.Participant, error) {
	userID, err := parseID(w.ParticipantID, w.UserID)
	if err != nil {
		return models.Participant{}, fmt.Errorf("participant: %w", err)
	}

	competitionID := defaultCompetitionID
	if w.CompetitionID != "" {
		competitionID, err = parseID(w.CompetitionID)
		if err != nil {
			return models.Participant{}, fmt.Errorf("participant %s: %w", userID, err)
		}
	}

	return models.Participant{CompetitionID: competitionID, UserID: userID}, nil
}

// GetParticipants fetches a competition's participants. An empty roster
// surfaces as an error wrapping clients.ErrNotFound; callers decide whether
// that means "nobody joined yet" or a missing competition.
func (c *Client) GetParticipants(ctx context.Context, competitionID uuid.UUID) ([]models.Participant, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s?competition_id=%s", ParticipantsEndpoint, competitionID))
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	return c.decodeParticipants(body, competitionID)
}

// GetParticipationsByUser fetches every competition a user participates in.
func (c *Client) GetParticipationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Participant, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s?participant_id=%s", ParticipantsEndpoint, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get participations: %w", err)
	}

	return c.decodeParticipants(body, uuid.Nil)
}

func (c *Client) decodeParticipants(body []byte, defaultCompetitionID uuid.UUID) ([]models.Participant, error) {
	var wire []wireParticipant
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participants: %w, raw response: %s", err, string(body))
	}

	participants := make([]models.Participant, 0, len(wire))
	for _, w := range wire {
		participant, err := w.normalize(defaultCompetitionID)
		if err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}
	return participants, nil
}
