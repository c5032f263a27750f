package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password1"}
	}

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(*RegisterRequest) {}},
		{name: "username too short", mutate: func(r *RegisterRequest) { r.Username = "ab" }, wantErr: "username"},
		{
			name:    "username too long",
			mutate:  func(r *RegisterRequest) { r.Username = strings.Repeat("a", 51) },
			wantErr: "username",
		},
		{name: "username blank", mutate: func(r *RegisterRequest) { r.Username = "   " }, wantErr: "username"},
		{name: "missing email", mutate: func(r *RegisterRequest) { r.Email = "" }, wantErr: "email"},
		{name: "invalid email", mutate: func(r *RegisterRequest) { r.Email = "alice" }, wantErr: "email"},
		{name: "short password", mutate: func(r *RegisterRequest) { r.Password = "1234567" }, wantErr: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoginRequest(t *testing.T) {
	t.Run("Error_MissingFields", func(t *testing.T) {
		req := LoginRequest{}
		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "username")
		assert.Contains(t, err.Error(), "password")
	})

	t.Run("Success_ToInput", func(t *testing.T) {
		req := LoginRequest{Username: "alice", Password: "pw"}
		assert.NoError(t, req.Validate())
		assert.Equal(t, &authDomain.LoginInput{Username: "alice", Password: "pw", ClientIP: "10.0.0.1"},
			req.ToInput("10.0.0.1"))
	})
}

func TestMapSessionToResponse(t *testing.T) {
	user := &authDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "secret-hash",
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	expires := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	resp := MapSessionToResponse(&authDomain.Session{
		Token:  "jwt",
		Claims: authDomain.Claims{Subject: user.ID, ExpiresAt: expires},
		User:   user,
	})

	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, expires, resp.ExpiresAt)
	assert.Equal(t, UserResponse{
		ID:        user.ID.String(),
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: user.CreatedAt,
	}, resp.User)
}
