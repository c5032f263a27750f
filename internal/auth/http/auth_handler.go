// Package http provides the gin handlers for registration, login and the current
// user, plus the bearer token authenticator used by every protected route.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	"github.com/allisson/nexusdb/internal/auth/http/dto"
	authUseCase "github.com/allisson/nexusdb/internal/auth/usecase"
	"github.com/allisson/nexusdb/internal/httputil"
	customValidation "github.com/allisson/nexusdb/internal/validation"
)

// AuthHandler handles account HTTP requests.
type AuthHandler struct {
	authUseCase authUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authUseCase authUseCase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// RegisterHandler creates an account.
// POST /v1/auth/register - Returns 201 Created with a token and the new user.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	session, err := h.authUseCase.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSessionToResponse(session))
}

// LoginHandler exchanges credentials for a token.
// POST /v1/auth/login - Returns 200 OK with a token and the user. Failures count
// against the client IP.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	session, err := h.authUseCase.Login(c.Request.Context(), req.ToInput(c.ClientIP()))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// MeHandler returns the authenticated user.
// GET /v1/auth/me - Mounted behind Authenticator.Require.
func (h *AuthHandler) MeHandler(c *gin.Context, identity authDomain.Identity) {
	user, err := h.authUseCase.Me(c.Request.Context(), identity)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}
