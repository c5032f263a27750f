package domain

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the verified payload of a session token.
// ExpiresAt is always after IssuedAt; both have second precision.
type Claims struct {
	Subject   uuid.UUID
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the authenticated caller, produced once per request by the
// authentication gate and passed explicitly to handlers and use cases.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// Identity returns the caller identity carried by the claims.
func (c Claims) Identity() Identity {
	return Identity{UserID: c.Subject, Username: c.Username}
}
