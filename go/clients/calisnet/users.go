package calisnet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

type wireUser struct {
	UserID   string `json:"user_id"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (w wireUser) normalize() (models.User, error) {
	id, err := parseID(w.UserID, w.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("user: %w", err)
	}
	return models.User{ID: id, Username: w.Username, Email: w.Email}, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s", UsersEndpoint, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return c.decodeUser(body)
}

// GetUserByUsername fetches a user by username.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s", UserByUsernameEndpoint, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return c.decodeUser(body)
}

func (c *Client) decodeUser(body []byte) (*models.User, error) {
	var wire wireUser
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w, raw response: %s", err, string(body))
	}

	user, err := wire.normalize()
	if err != nil {
		return nil, err
	}
	return &user, nil
}
