// Package usecase defines the ban store: recording bans and answering whether an
// identity is currently denied access.
package usecase

import (
	"context"
	"time"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
)

// BanRepository defines persistence operations for ban records.
// Implementations must support transaction-aware operations via context propagation.
type BanRepository interface {
	// Create appends a ban record. Records are never updated.
	Create(ctx context.Context, ban *banDomain.BannedEntity) error

	// IsBanned reports whether any record for (kind, value) has a nil expiry or one after now.
	IsBanned(ctx context.Context, kind banDomain.Kind, value string, now time.Time) (bool, error)

	// ListActive returns the records for (kind, value) active at now, newest first.
	ListActive(ctx context.Context, kind banDomain.Kind, value string, now time.Time) ([]*banDomain.BannedEntity, error)
}

// BanUseCase defines the ban store operations used by the abuse guard, the HTTP ban
// gates and the CLI.
type BanUseCase interface {
	// Record validates the input and always inserts a new record, even when an active
	// ban for the same identity already exists.
	Record(ctx context.Context, input *banDomain.RecordInput) (*banDomain.BannedEntity, error)

	// IsBanned evaluates expiry against the clock at call time.
	IsBanned(ctx context.Context, kind banDomain.Kind, value string) (bool, error)

	ListActive(ctx context.Context, kind banDomain.Kind, value string) ([]*banDomain.BannedEntity, error)
}
