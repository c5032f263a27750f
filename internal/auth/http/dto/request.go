// Package dto provides data transfer objects for the auth HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	customValidation "github.com/allisson/nexusdb/internal/validation"
)

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration rules: a username of 3 to 50 characters from
// [a-zA-Z0-9_.-], a valid email, and a password of at least 8 characters.
func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			customValidation.Username,
			validation.RuneLength(3, 50).Error("username must be between 3 and 50 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			customValidation.Email,
			validation.Length(3, 255).Error("email must be at most 255 characters"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			customValidation.PasswordStrength{MinLength: 8},
			validation.Length(0, 128).Error("password must be at most 128 characters"),
		),
	)
}

// ToInput converts the request to the use case input.
func (r *RegisterRequest) ToInput() *authDomain.RegisterInput {
	return &authDomain.RegisterInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required.Error("username is required")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

// ToInput converts the request to the use case input, keyed by the caller's IP.
func (r *LoginRequest) ToInput(clientIP string) *authDomain.LoginInput {
	return &authDomain.LoginInput{
		Username: r.Username,
		Password: r.Password,
		ClientIP: clientIP,
	}
}
