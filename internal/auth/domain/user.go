package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash is an argon2id PHC string.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterInput contains the data for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput contains the credentials of a login attempt. ClientIP keys the
// brute-force counters.
type LoginInput struct {
	Username string
	Password string
	ClientIP string
}

// Session is the result of a successful register or login.
type Session struct {
	Token  string
	Claims Claims
	User   *User
}
