// Package http provides the gin handlers for saved scripts.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	apperrors "github.com/allisson/nexusdb/internal/errors"
	"github.com/allisson/nexusdb/internal/httputil"
	"github.com/allisson/nexusdb/internal/script/http/dto"
	scriptUseCase "github.com/allisson/nexusdb/internal/script/usecase"
	customValidation "github.com/allisson/nexusdb/internal/validation"
)

// ScriptHandler handles script HTTP requests.
type ScriptHandler struct {
	scriptUseCase scriptUseCase.ScriptUseCase
	logger        *slog.Logger
}

// NewScriptHandler creates a new ScriptHandler.
func NewScriptHandler(scriptUseCase scriptUseCase.ScriptUseCase, logger *slog.Logger) *ScriptHandler {
	return &ScriptHandler{
		scriptUseCase: scriptUseCase,
		logger:        logger,
	}
}

// CreateHandler stores a new script.
// POST /v1/scripts - Returns 201 Created, or 422 for a rejected query.
func (h *ScriptHandler) CreateHandler(c *gin.Context, identity authDomain.Identity) {
	var req dto.ScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	script, err := h.scriptUseCase.Create(c.Request.Context(), identity, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapScriptToResponse(script))
}

// ListHandler lists the caller's scripts, newest first.
// GET /v1/scripts?offset=0&limit=50 - Returns 200 OK.
func (h *ScriptHandler) ListHandler(c *gin.Context, identity authDomain.Identity) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	scripts, err := h.scriptUseCase.List(c.Request.Context(), identity, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewListResponse(dto.MapScriptsToResponse(scripts), page))
}

// DeleteHandler removes a script.
// DELETE /v1/scripts/:id - Returns 204 No Content.
func (h *ScriptHandler) DeleteHandler(c *gin.Context, identity authDomain.Identity) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "invalid script id"),
			h.logger,
		)
		return
	}

	if err := h.scriptUseCase.Delete(c.Request.Context(), identity, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
