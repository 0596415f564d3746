package calisnet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

type wireResult struct {
	CompetitionID string      `json:"competition_id"`
	ParticipantID string      `json:"participant_id"`
	ResultTime    flexSeconds `json:"result_time"`
	Penalties     int         `json:"penalties"`
	Rank          int         `json:"rank"`
}

func (w wireResult) normalize(defaultCompetitionID uuid.UUID) (models.Result, error) {
	participantID, err := parseID(w.ParticipantID)
	if err != nil {
		return models.Result{}, fmt.Errorf("result: %w", err)
	}

	competitionID := defaultCompetitionID
	if w.CompetitionID != "" {
		competitionID, err = parseID(w.CompetitionID)
		if err != nil {
			return models.Result{}, fmt.Errorf("result for %s: %w", participantID, err)
		}
	}

	return models.Result{
		CompetitionID: competitionID,
		ParticipantID: participantID,
		ResultTime:    int(w.ResultTime),
		Penalties:     w.Penalties,
		Rank:          w.Rank,
	}, nil
}

// GetResults fetches a competition's results. An empty scoreboard surfaces
// as an error wrapping clients.ErrNotFound; callers decide whether that
// means "no results entered yet" or a missing competition.
func (c *Client) GetResults(ctx context.Context, competitionID uuid.UUID) ([]models.Result, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s?competition_id=%s", ResultsEndpoint, competitionID))
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	return c.decodeResults(body, competitionID)
}

// GetResultsByParticipant fetches every result a user holds across competitions.
func (c *Client) GetResultsByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Result, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s", ResultsByParticipantEndpoint, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get results by participant: %w", err)
	}

	return c.decodeResults(body, uuid.Nil)
}

func (c *Client) decodeResults(body []byte, defaultCompetitionID uuid.UUID) ([]models.Result, error) {
	var wire []wireResult
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w, raw response: %s", err, string(body))
	}

	results := make([]models.Result, 0, len(wire))
	for _, w := range wire {
		result, err := w.normalize(defaultCompetitionID)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
