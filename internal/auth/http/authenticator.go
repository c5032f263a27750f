package http

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	authService "github.com/allisson/nexusdb/internal/auth/service"
	"github.com/allisson/nexusdb/internal/httputil"
)

// IdentityHandler is a gin handler that receives the verified caller explicitly.
type IdentityHandler func(c *gin.Context, identity authDomain.Identity)

// UserGate rejects authenticated users that must not proceed, such as banned ones.
type UserGate interface {
	CheckUser(ctx context.Context, userID uuid.UUID) error
}

// Authenticator verifies bearer tokens and hands the resulting identity to the
// wrapped handler.
type Authenticator struct {
	tokenService authService.TokenService
	userGate     UserGate
	logger       *slog.Logger
}

// NewAuthenticator creates an Authenticator. userGate may be nil.
func NewAuthenticator(
	tokenService authService.TokenService,
	userGate UserGate,
	logger *slog.Logger,
) *Authenticator {
	return &Authenticator{
		tokenService: tokenService,
		userGate:     userGate,
		logger:       logger,
	}
}

// Require returns a gin handler that authenticates the request and then calls next.
//
// Responses:
//   - 401 unauthorized: no bearer token
//   - 401 invalid_token / token_expired: verification failed
//   - 403 access_denied: the user is banned
func (a *Authenticator) Require(next IdentityHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.Authenticate(c)
		if err != nil {
			httputil.HandleErrorGin(c, err, a.logger)
			return
		}
		next(c, identity)
	}
}

// Authenticate verifies the request's bearer token and runs the user gate.
func (a *Authenticator) Authenticate(c *gin.Context) (authDomain.Identity, error) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return authDomain.Identity{}, authDomain.ErrUnauthenticated
	}

	claims, err := a.tokenService.Verify(token)
	if err != nil {
		return authDomain.Identity{}, err
	}
	identity := claims.Identity()

	if a.userGate != nil {
		if err := a.userGate.CheckUser(c.Request.Context(), identity.UserID); err != nil {
			return authDomain.Identity{}, err
		}
	}
	return identity, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
