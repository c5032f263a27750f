// Package validation holds the request rules shared by the HTTP handlers and the
// QueryGuard that screens identifiers and submitted queries.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/nexusdb/internal/errors"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)
)

// WrapValidationError turns a rule failure into ErrInvalidInput so the HTTP layer
// answers 422 with the rule messages.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

type charClass uint8

const (
	classUpper charClass = 1 << iota
	classLower
	classNumber
	classSpecial
)

func classesOf(s string) charClass {
	var c charClass
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			c |= classUpper
		case unicode.IsLower(r):
			c |= classLower
		case unicode.IsNumber(r):
			c |= classNumber
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			c |= classSpecial
		}
	}
	return c
}

// PasswordStrength is a password rule. Only MinLength is enforced for account
// registration; the character class flags are opt-in.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate implements validation.Rule.
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}

	have := classesOf(s)
	checks := []struct {
		required bool
		class    charClass
		code     string
		what     string
	}{
		{p.RequireUpper, classUpper, "validation_password_uppercase", "an uppercase letter"},
		{p.RequireLower, classLower, "validation_password_lowercase", "a lowercase letter"},
		{p.RequireNumber, classNumber, "validation_password_number", "a number"},
		{p.RequireSpecial, classSpecial, "validation_password_special", "a special character"},
	}
	for _, c := range checks {
		if c.required && have&c.class == 0 {
			return validation.NewError(c.code, "password must contain at least "+c.what)
		}
	}
	return nil
}

// Email accepts a conventional local@domain.tld address.
var Email = validation.NewStringRuleWithError(
	emailRegex.MatchString,
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// Username accepts letters, digits, underscores, dots and hyphens.
var Username = validation.NewStringRuleWithError(
	usernameRegex.MatchString,
	validation.NewError("validation_username_format",
		"may contain only letters, digits, underscores, dots and hyphens"),
)

// NotBlank rejects strings that are empty after trimming.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Identifier validates a database object name with the QueryGuard identifier rules.
// Empty strings pass so that optional fields can be combined with validation.Required.
func Identifier(guard *QueryGuard) validation.Rule {
	return validation.By(func(value interface{}) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v == nil {
				return nil
			}
			s = *v
		default:
			return validation.NewError("validation_identifier_type", "must be a string")
		}
		if s == "" {
			return nil
		}
		if err := guard.ValidateIdentifier(s); err != nil {
			return validation.NewError(
				"validation_identifier",
				"must contain only letters, digits, underscores and dots (max 255)",
			)
		}
		return nil
	})
}
