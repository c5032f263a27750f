// Package http provides the gin middleware that rejects banned client IPs and users.
package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	banUseCase "github.com/allisson/nexusdb/internal/ban/usecase"
	apperrors "github.com/allisson/nexusdb/internal/errors"
	"github.com/allisson/nexusdb/internal/httputil"
)

// BanGate consults the ban store before a request reaches its handler.
// A lookup failure rejects the request with 500; access is never granted on error.
type BanGate struct {
	banUseCase banUseCase.BanUseCase
	logger     *slog.Logger
}

// NewBanGate creates a BanGate.
func NewBanGate(banUseCase banUseCase.BanUseCase, logger *slog.Logger) *BanGate {
	return &BanGate{
		banUseCase: banUseCase,
		logger:     logger,
	}
}

// IPGate returns middleware that responds 403 access_denied when the client IP
// has an active ban.
func (g *BanGate) IPGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		banned, err := g.banUseCase.IsBanned(c.Request.Context(), banDomain.KindIP, ip)
		if err != nil {
			httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to check ip ban"), g.logger)
			return
		}
		if banned {
			g.logger.Warn("rejected banned ip", slog.String("ip", ip))
			httputil.HandleErrorGin(c, banDomain.ErrBanned, g.logger)
			return
		}

		c.Next()
	}
}

// CheckUser returns banDomain.ErrBanned when userID has an active USER ban.
// It runs after authentication, once the identity is known.
func (g *BanGate) CheckUser(ctx context.Context, userID uuid.UUID) error {
	banned, err := g.banUseCase.IsBanned(ctx, banDomain.KindUser, userID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to check user ban")
	}
	if banned {
		g.logger.Warn("rejected banned user", slog.String("user_id", userID.String()))
		return banDomain.ErrBanned
	}
	return nil
}
