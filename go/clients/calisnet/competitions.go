package calisnet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

type wireCompetition struct {
	CompetitionID string           `json:"competition_id"`
	ID            string           `json:"id"`
	OrganizerID   string           `json:"organizer_id"`
	Name          string           `json:"name"`
	Description   string           `json:"competition_description"`
	Location      *models.Location `json:"location"`
	Image         string           `json:"image"`
	Date          string           `json:"date"`
	Limit         int              `json:"participant_limit"`
	PenaltyTime   flexSeconds      `json:"penalty_time"`
	Status        string           `json:"status"`
}

func (w wireCompetition) normalize() (models.Competition, error) {
	id, err := parseID(w.CompetitionID, w.ID)
	if err != nil {
		return models.Competition{}, fmt.Errorf("competition: %w", err)
	}

	var organizerID uuid.UUID
	if w.OrganizerID != "" {
		organizerID, err = parseID(w.OrganizerID)
		if err != nil {
			return models.Competition{}, fmt.Errorf("competition %s: %w", id, err)
		}
	}

	date, err := parseDate(w.Date)
	if err != nil {
		return models.Competition{}, fmt.Errorf("competition %s: %w", id, err)
	}

	status := models.CompetitionStatus(w.Status)
	if w.Status == "" {
		status = models.CompetitionStatusOpen
	}

	return models.Competition{
		ID:               id,
		OrganizerID:      organizerID,
		Name:             w.Name,
		Description:      w.Description,
		Location:         w.Location,
		ImageURL:         w.Image,
		Date:             date,
		ParticipantLimit: w.Limit,
		PenaltyTime:      int(w.PenaltyTime),
		Status:           status,
	}, nil
}

// GetCompetition fetches one competition by id.
func (c *Client) GetCompetition(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s", CompetitionsEndpoint, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}

	var wire wireCompetition
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal competition: %w, raw response: %s", err, string(body))
	}

	competition, err := wire.normalize()
	if err != nil {
		return nil, err
	}
	return &competition, nil
}
