package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the verified identity behind a bearer token. The access guard
// stores it on the request context.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenID   string    `json:"token_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Remaining is how long the token stays valid from now.
func (s Session) Remaining(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}
