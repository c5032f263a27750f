package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	connectionDomain "github.com/allisson/nexusdb/internal/connection/domain"
	cryptoService "github.com/allisson/nexusdb/internal/crypto/service"
	"github.com/allisson/nexusdb/internal/database"
	apperrors "github.com/allisson/nexusdb/internal/errors"
	"github.com/allisson/nexusdb/internal/validation"
)

type connectionUseCase struct {
	txManager  database.TxManager
	repo       ConnectionRepository
	cipher     cryptoService.CredentialCipher
	queryGuard *validation.QueryGuard
	logger     *slog.Logger
	now        func() time.Time
}

// NewConnectionUseCase creates a ConnectionUseCase. A nil now uses time.Now.
func NewConnectionUseCase(
	txManager database.TxManager,
	repo ConnectionRepository,
	cipher cryptoService.CredentialCipher,
	queryGuard *validation.QueryGuard,
	logger *slog.Logger,
	now func() time.Time,
) ConnectionUseCase {
	if now == nil {
		now = time.Now
	}
	return &connectionUseCase{
		txManager:  txManager,
		repo:       repo,
		cipher:     cipher,
		queryGuard: queryGuard,
		logger:     logger,
		now:        now,
	}
}

// Create encrypts the password, if any, and stores a new disconnected connection.
func (c *connectionUseCase) Create(
	ctx context.Context,
	identity authDomain.Identity,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	now := c.now().UTC()
	conn := &connectionDomain.Connection{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    identity.UserID,
		Status:    connectionDomain.StatusDisconnected,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.apply(conn, input, true); err != nil {
		return nil, err
	}

	if err := c.repo.Create(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Get returns a connection owned by the caller.
func (c *connectionUseCase) Get(
	ctx context.Context,
	identity authDomain.Identity,
	id uuid.UUID,
) (*connectionDomain.Connection, error) {
	return c.repo.Get(ctx, id, identity.UserID)
}

// List returns a page of the caller's connections.
func (c *connectionUseCase) List(
	ctx context.Context,
	identity authDomain.Identity,
	offset, limit int,
) ([]*connectionDomain.Connection, error) {
	return c.repo.List(ctx, identity.UserID, offset, limit)
}

// Update replaces the connection fields inside a transaction. A nil password keeps
// the stored ciphertext.
func (c *connectionUseCase) Update(
	ctx context.Context,
	identity authDomain.Identity,
	id uuid.UUID,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	var updated *connectionDomain.Connection
	err := c.txManager.WithTx(ctx, func(ctx context.Context) error {
		conn, err := c.repo.Get(ctx, id, identity.UserID)
		if err != nil {
			return err
		}

		if err := c.apply(conn, input, false); err != nil {
			return err
		}
		conn.UpdatedAt = c.now().UTC()

		if err := c.repo.Update(ctx, conn); err != nil {
			return err
		}
		updated = conn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a connection owned by the caller.
func (c *connectionUseCase) Delete(ctx context.Context, identity authDomain.Identity, id uuid.UUID) error {
	return c.repo.Delete(ctx, id, identity.UserID)
}

// Execute checks ownership and the query guard, then acknowledges the query.
func (c *connectionUseCase) Execute(
	ctx context.Context,
	identity authDomain.Identity,
	id uuid.UUID,
	query string,
) (*connectionDomain.QueryResult, error) {
	conn, err := c.repo.Get(ctx, id, identity.UserID)
	if err != nil {
		return nil, err
	}

	if err := c.queryGuard.ValidateQuery(query); err != nil {
		c.logger.Warn("query rejected",
			slog.String("user_id", identity.UserID.String()),
			slog.String("connection_id", conn.ID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	c.logger.Info("query accepted",
		slog.String("user_id", identity.UserID.String()),
		slog.String("connection_id", conn.ID.String()),
		slog.String("db_type", string(conn.DBType)),
		slog.Int("query_length", len(query)),
	)
	return connectionDomain.NewAcknowledgement(), nil
}

// apply copies input onto conn. With create set, a nil or empty password stores nothing;
// otherwise a nil password leaves the stored one untouched.
func (c *connectionUseCase) apply(
	conn *connectionDomain.Connection,
	input *connectionDomain.ConnectionInput,
	create bool,
) error {
	conn.Name = strings.TrimSpace(input.Name)
	conn.DBType = input.DBType
	conn.Host = input.Host
	conn.Port = input.Port
	conn.Username = input.Username
	conn.DatabaseName = input.DatabaseName

	switch {
	case input.Password == nil:
		if create {
			conn.EncryptedPassword = nil
		}
	case *input.Password == "":
		conn.EncryptedPassword = nil
	default:
		encrypted, err := c.cipher.EncryptString(*input.Password)
		if err != nil {
			return apperrors.Wrap(err, "failed to encrypt connection password")
		}
		conn.EncryptedPassword = &encrypted
	}
	return nil
}
