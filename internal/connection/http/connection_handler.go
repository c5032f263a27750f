// Package http provides the gin handlers for saved database connections. Every
// handler runs behind the authenticator and only ever touches the caller's own rows.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	"github.com/allisson/nexusdb/internal/connection/http/dto"
	connectionUseCase "github.com/allisson/nexusdb/internal/connection/usecase"
	apperrors "github.com/allisson/nexusdb/internal/errors"
	"github.com/allisson/nexusdb/internal/httputil"
	customValidation "github.com/allisson/nexusdb/internal/validation"
)

// ConnectionHandler handles connection HTTP requests.
type ConnectionHandler struct {
	connectionUseCase connectionUseCase.ConnectionUseCase
	queryGuard        *customValidation.QueryGuard
	logger            *slog.Logger
}

// NewConnectionHandler creates a new ConnectionHandler.
func NewConnectionHandler(
	connectionUseCase connectionUseCase.ConnectionUseCase,
	queryGuard *customValidation.QueryGuard,
	logger *slog.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{
		connectionUseCase: connectionUseCase,
		queryGuard:        queryGuard,
		logger:            logger,
	}
}

// CreateHandler stores a new connection.
// POST /v1/connections - Returns 201 Created.
func (h *ConnectionHandler) CreateHandler(c *gin.Context, identity authDomain.Identity) {
	req, ok := h.bindConnection(c)
	if !ok {
		return
	}

	conn, err := h.connectionUseCase.Create(c.Request.Context(), identity, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapConnectionToResponse(conn))
}

// ListHandler lists the caller's connections, newest first.
// GET /v1/connections?offset=0&limit=50 - Returns 200 OK.
func (h *ConnectionHandler) ListHandler(c *gin.Context, identity authDomain.Identity) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	conns, err := h.connectionUseCase.List(c.Request.Context(), identity, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewListResponse(dto.MapConnectionsToResponse(conns), page))
}

// GetHandler returns one connection.
// GET /v1/connections/:id - Returns 200 OK.
func (h *ConnectionHandler) GetHandler(c *gin.Context, identity authDomain.Identity) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	conn, err := h.connectionUseCase.Get(c.Request.Context(), identity, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConnectionToResponse(conn))
}

// UpdateHandler replaces a connection's fields.
// PUT /v1/connections/:id - Returns 200 OK.
func (h *ConnectionHandler) UpdateHandler(c *gin.Context, identity authDomain.Identity) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	req, ok := h.bindConnection(c)
	if !ok {
		return
	}

	conn, err := h.connectionUseCase.Update(c.Request.Context(), identity, id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConnectionToResponse(conn))
}

// DeleteHandler removes a connection.
// DELETE /v1/connections/:id - Returns 204 No Content.
func (h *ConnectionHandler) DeleteHandler(c *gin.Context, identity authDomain.Identity) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.connectionUseCase.Delete(c.Request.Context(), identity, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExecuteHandler screens a query and acknowledges it.
// POST /v1/connections/:id/execute - Returns 200 OK, or 422 for a rejected query.
func (h *ConnectionHandler) ExecuteHandler(c *gin.Context, identity authDomain.Identity) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.connectionUseCase.Execute(c.Request.Context(), identity, id, req.Query)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapQueryResultToResponse(result))
}

func (h *ConnectionHandler) bindConnection(c *gin.Context) (*dto.ConnectionRequest, bool) {
	var req dto.ConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return nil, false
	}
	if err := req.Validate(h.queryGuard); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return nil, false
	}
	return &req, true
}

func (h *ConnectionHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "invalid connection id"),
			h.logger,
		)
		return uuid.Nil, false
	}
	return id, true
}
