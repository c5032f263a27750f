// Package http exposes proof-of-work challenges over HTTP: an issuing endpoint and a
// middleware that demands a solved challenge before the wrapped route runs.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	challengeDomain "github.com/allisson/nexusdb/internal/challenge/domain"
	challengeUseCase "github.com/allisson/nexusdb/internal/challenge/usecase"
	"github.com/allisson/nexusdb/internal/httputil"
)

const (
	// HeaderChallengeID carries the id of the solved challenge.
	HeaderChallengeID = "X-Challenge-ID"
	// HeaderChallengeNonce carries the nonce that solves it.
	HeaderChallengeNonce = "X-Challenge-Nonce"
)

// ChallengeResponse is the JSON body returned for a newly issued challenge.
type ChallengeResponse struct {
	ChallengeID string    `json:"challenge_id"`
	Difficulty  int       `json:"difficulty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ChallengeHandler handles HTTP requests for proof-of-work challenges.
type ChallengeHandler struct {
	challengeUseCase challengeUseCase.ChallengeUseCase
	logger           *slog.Logger
}

// NewChallengeHandler creates a new challenge handler.
func NewChallengeHandler(
	challengeUseCase challengeUseCase.ChallengeUseCase,
	logger *slog.Logger,
) *ChallengeHandler {
	return &ChallengeHandler{
		challengeUseCase: challengeUseCase,
		logger:           logger,
	}
}

// IssueHandler issues a challenge at the server's configured difficulty.
// POST /v1/challenges - Returns 201 Created.
func (h *ChallengeHandler) IssueHandler(c *gin.Context) {
	challenge, err := h.challengeUseCase.Issue(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, ChallengeResponse{
		ChallengeID: challenge.ID,
		Difficulty:  challenge.Difficulty,
		ExpiresAt:   challenge.ExpiresAt,
	})
}

// RequireProofOfWork returns middleware that consumes the challenge named by the
// X-Challenge-ID header and checks the X-Challenge-Nonce against it. Missing headers,
// unknown or expired challenges and wrong nonces all respond 403 challenge_failed.
func (h *ChallengeHandler) RequireProofOfWork() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderChallengeID)
		nonce := c.GetHeader(HeaderChallengeNonce)
		if id == "" || nonce == "" {
			httputil.HandleErrorGin(c, challengeDomain.ErrChallengeFailed, h.logger)
			return
		}

		ok, err := h.challengeUseCase.Verify(c.Request.Context(), id, nonce)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		if !ok {
			h.logger.Warn("proof of work rejected",
				slog.String("challenge_id", id),
				slog.String("ip", c.ClientIP()),
			)
			httputil.HandleErrorGin(c, challengeDomain.ErrChallengeFailed, h.logger)
			return
		}

		c.Next()
	}
}
