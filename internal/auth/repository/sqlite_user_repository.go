package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
	"github.com/allisson/nexusdb/internal/database"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

// SQLiteUserRepository handles user persistence for SQLite.
// UUIDs are stored as TEXT and timestamps as INTEGER Unix nanoseconds.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Create inserts a new user. A taken username or email returns ErrUserAlreadyExists.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID.String(),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UnixNano(),
		user.UpdatedAt.UnixNano(),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return authDomain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *SQLiteUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, email, password_hash, created_at, updated_at
			  FROM users WHERE id = ?`

	return r.scanUser(querier.QueryRowContext(ctx, query, id.String()), "failed to get user by id")
}

// GetByUsername retrieves a user by username.
func (r *SQLiteUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, email, password_hash, created_at, updated_at
			  FROM users WHERE username = ?`

	return r.scanUser(querier.QueryRowContext(ctx, query, username), "failed to get user by username")
}

func (r *SQLiteUserRepository) scanUser(row *sql.Row, msg string) (*authDomain.User, error) {
	var user authDomain.User
	var id string
	var createdAt, updatedAt int64
	err := row.Scan(&id, &user.Username, &user.Email, &user.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, msg)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse user id")
	}
	user.ID = parsed
	user.CreatedAt = time.Unix(0, createdAt).UTC()
	user.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &user, nil
}

// isSQLiteUniqueViolation checks if the error is a SQLite UNIQUE constraint failure.
func isSQLiteUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
