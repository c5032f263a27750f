package validation

import (
	"regexp"
	"unicode/utf8"

	apperrors "github.com/allisson/nexusdb/internal/errors"
)

const (
	// MaxQueryLength is the longest accepted query, in characters.
	MaxQueryLength = 100_000
	// MaxIdentifierLength is the longest accepted identifier, in characters.
	MaxIdentifierLength = 255
)

var (
	ErrDangerousQuery    = apperrors.Wrap(apperrors.ErrInvalidInput, "query contains potentially dangerous SQL patterns")
	ErrQueryTooLong      = apperrors.Wrap(apperrors.ErrInvalidInput, "query too long (max 100000 characters)")
	ErrInvalidIdentifier = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid identifier format")
	ErrIdentifierTooLong = apperrors.Wrap(apperrors.ErrInvalidInput, "identifier too long (max 255 characters)")
)

// QueryGuard rejects query text and identifiers that match known injection shapes.
// It is a deny list, not a parser: it blocks comment smuggling, stacked data/schema
// statements and UNION-based extraction, and nothing more. Safe for concurrent use.
type QueryGuard struct {
	dangerous  []*regexp.Regexp
	identifier *regexp.Regexp
}

// NewQueryGuard compiles the guard patterns once.
func NewQueryGuard() *QueryGuard {
	return &QueryGuard{
		dangerous: []*regexp.Regexp{
			regexp.MustCompile(`--`),
			regexp.MustCompile(`/\*|\*/`),
			regexp.MustCompile(`(?i);\s*(drop|delete|update|insert|create|alter)\b`),
			regexp.MustCompile(`(?is)\bunion\b.*\bselect\b`),
		},
		identifier: regexp.MustCompile(`^[A-Za-z0-9_.]+$`),
	}
}

// ValidateQuery returns ErrQueryTooLong or ErrDangerousQuery, or nil for an accepted query.
func (g *QueryGuard) ValidateQuery(query string) error {
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	for _, pattern := range g.dangerous {
		if pattern.MatchString(query) {
			return ErrDangerousQuery
		}
	}
	return nil
}

// ValidateIdentifier accepts non-empty names of ASCII letters, digits, underscores and dots.
func (g *QueryGuard) ValidateIdentifier(identifier string) error {
	if len(identifier) > MaxIdentifierLength {
		return ErrIdentifierTooLong
	}
	if !g.identifier.MatchString(identifier) {
		return ErrInvalidIdentifier
	}
	return nil
}
