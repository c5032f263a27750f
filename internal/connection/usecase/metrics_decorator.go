package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
	apperrors "github.com/allisson/nexusdb/internal/errors"
	"github.com/allisson/nexusdb/internal/metrics"
)

// connectionUseCaseWithMetrics decorates ConnectionUseCase with metrics instrumentation.
type connectionUseCaseWithMetrics struct {
	next    ConnectionUseCase
	metrics metrics.BusinessMetrics
}

// NewConnectionUseCaseWithMetrics wraps a ConnectionUseCase with metrics recording.
func NewConnectionUseCaseWithMetrics(useCase ConnectionUseCase, m metrics.BusinessMetrics) ConnectionUseCase {
	return &connectionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *connectionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, status string) {
	c.metrics.RecordOperation(ctx, "connection", operation, status)
	c.metrics.RecordDuration(ctx, "connection", operation, time.Since(start), status)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Create records metrics for connection creation.
func (c *connectionUseCaseWithMetrics) Create(
	ctx context.Context,
	identity authDomain.Identity,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	start := time.Now()
	conn, err := c.next.Create(ctx, identity, input)
	c.record(ctx, "connection_create", start, status(err))
	return conn, err
}

// Get records metrics for connection retrieval.
func (c *connectionUseCaseWithMetrics) Get(
	ctx context.Context,
	identity authDomain.Identity,
	id uuid.UUID,
) (*connectionDomain.Connection, error) {
	start := time.Now()
	conn, err := c.next.Get(ctx, identity, id)
	c.record(ctx, "connection_get", start, status(err))
	return conn, err
}

// List records metrics for connection listing.
func (c *connectionUseCaseWithMetrics) List(
	ctx context.Context,
	identity authDomain.Identity,
	offset, limit int,
) ([]*connectionDomain.Connection, error) {
	start := time.Now()
	conns, err := c.next.List(ctx, identity, offset, limit)
	c.record(ctx, "connection_list", start, status(err))
	return conns, err
}

// Update records metrics for connection updates.
func (c *connectionUseCaseWithMetrics) Update(
	ctx context.Context,
	identity authDomain.Identity,
	id uuid.UUID,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	start := time.Now()
	conn, err := c.next.Update(ctx, identity, id, input)
	c.record(ctx, "connection_update", start, status(err))
	return conn, err
}

// Delete records metrics for connection deletion.
func (c *connectionUseCaseWithMetrics) Delete(ctx context.Context, identity authDomain.Identity, id uuid.UUID) error {
	start := time.Now()
	err := c.next.Delete(ctx, identity, id)
	c.record(ctx, "connection_delete", start, status(err))
	return err
}

// Execute records metrics for query submission. A query refused by the guard is
// recorded as "rejected".
func (c *connectionUseCaseWithMetrics) Execute(
	ctx context.Context,
	identity authDomain.Identity,
	id uuid.UUID,
	query string,
) (*connectionDomain.QueryResult, error) {
	start := time.Now()
	result, err := c.next.Execute(ctx, identity, id, query)

	s := status(err)
	if err != nil && apperrors.Is(err, apperrors.ErrInvalidInput) {
		s = "rejected"
	}
	c.record(ctx, "connection_execute", start, s)
	return result, err
}
