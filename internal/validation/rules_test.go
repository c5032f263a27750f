package validation

import (
	"strings"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/nexusdb/internal/errors"
)

func TestPasswordStrength(t *testing.T) {
	strict := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name     string
		rule     PasswordStrength
		password any
		errMsg   string
	}{
		{"valid", strict, "SecurePass123!", ""},
		{"too short reports the minimum", strict, "Sh0rt!", "password must be at least 8 characters"},
		{"missing uppercase", strict, "securepass123!", "uppercase letter"},
		{"missing lowercase", strict, "SECUREPASS123!", "lowercase letter"},
		{"missing number", strict, "SecurePass!", "number"},
		{"missing special", strict, "SecurePass123", "special character"},
		{"length only", PasswordStrength{MinLength: 12}, "alllowercaseletters", ""},
		{"two digit minimum", PasswordStrength{MinLength: 12}, "short", "at least 12 characters"},
		{"not a string", strict, 42, "password must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate(tt.password)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestStringRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  validation.Rule
		value string
		valid bool
	}{
		{"email valid", Email, "alice@example.com", true},
		{"email plus tag", Email, "alice+db@example.co.uk", true},
		{"email missing at", Email, "alice.example.com", false},
		{"email missing tld", Email, "alice@example", false},
		{"username plain", Username, "alice_01", true},
		{"username dotted", Username, "a.l-ice", true},
		{"username space", Username, "alice smith", false},
		{"username quote", Username, "alice'--", false},
		{"not blank ok", NotBlank, "x", true},
		{"not blank spaces", NotBlank, "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, tt.rule)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestIdentifierRule(t *testing.T) {
	rule := Identifier(NewQueryGuard())
	name := "analytics.events"
	var nilName *string

	assert.NoError(t, validation.Validate("users", rule))
	assert.NoError(t, validation.Validate("", rule))
	assert.NoError(t, validation.Validate(&name, rule))
	assert.NoError(t, validation.Validate(nilName, rule))
	assert.Error(t, validation.Validate("users; DROP", rule))
	assert.Error(t, validation.Validate(strings.Repeat("a", 256), rule))
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), assert.AnError.Error())
}
