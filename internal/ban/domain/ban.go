// Package domain defines banned entities: durable, append-only records denying access to
// a client IP or a user.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/nexusdb/internal/errors"
)

// Kind is the type of identity a ban applies to.
type Kind string

const (
	// KindIP bans a client IP address.
	KindIP Kind = "IP"
	// KindUser bans a user, identified by user id.
	KindUser Kind = "USER"
)

var (
	// ErrBanned is returned when the caller is banned, whether the ban was just
	// triggered or already existed.
	ErrBanned = errors.Wrap(errors.ErrForbidden, "access denied")

	// ErrInvalidKind indicates an entity kind other than IP or USER.
	ErrInvalidKind = errors.Wrap(errors.ErrInvalidInput, "entity kind must be IP or USER")

	// ErrEmptyValue indicates a ban without a value.
	ErrEmptyValue = errors.Wrap(errors.ErrInvalidInput, "ban value must not be empty")
)

// ParseKind converts user input (case-insensitive) into a Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(value))) {
	case KindIP:
		return KindIP, nil
	case KindUser:
		return KindUser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, value)
	}
}

// BannedEntity is one ban record. Records are never updated; a nil ExpiresAt is permanent.
type BannedEntity struct {
	ID        uuid.UUID
	Kind      Kind
	Value     string
	Reason    *string
	BannedAt  time.Time
	ExpiresAt *time.Time
	CreatedBy *string
}

// ActiveAt reports whether the record denies access at instant now.
func (b *BannedEntity) ActiveAt(now time.Time) bool {
	return b.ExpiresAt == nil || b.ExpiresAt.After(now)
}

// Permanent reports whether the record never expires.
func (b *BannedEntity) Permanent() bool {
	return b.ExpiresAt == nil
}

// RecordInput describes a new ban. A nil Duration records a permanent ban.
type RecordInput struct {
	Kind      Kind
	Value     string
	Reason    *string
	Duration  *time.Duration
	CreatedBy *string
}

// Validate checks the input before a record is built.
func (in RecordInput) Validate() error {
	if in.Kind != KindIP && in.Kind != KindUser {
		return fmt.Errorf("%w: %q", ErrInvalidKind, in.Kind)
	}
	if strings.TrimSpace(in.Value) == "" {
		return ErrEmptyValue
	}
	if in.Duration != nil && *in.Duration <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "ban duration must be positive")
	}
	return nil
}
