package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an athlete account
type User struct {
	ID        uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
