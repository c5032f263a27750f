package dto

import (
	"time"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
)

// UserResponse is the public view of a user. The password hash is never exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// MapUserToResponse converts a domain user to its public view.
func MapUserToResponse(user *authDomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// MapSessionToResponse converts a session to the register/login response.
func MapSessionToResponse(session *authDomain.Session) AuthResponse {
	return AuthResponse{
		Token:     session.Token,
		ExpiresAt: session.Claims.ExpiresAt.UTC(),
		User:      MapUserToResponse(session.User),
	}
}
