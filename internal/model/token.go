package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionToken is the persisted record of an issued access token.
// Rows are never deleted; logout flips IsRevoked.
type SessionToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	IsRevoked bool      `json:"is_revoked"`
}
