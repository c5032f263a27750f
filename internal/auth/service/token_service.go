package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/nexusdb/internal/auth/domain"
)

// sessionClaims is the JWT payload: sub, username, iat, exp.
type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// jwtTokenService implements TokenService with HS256 JWTs.
type jwtTokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// NewTokenService creates an HS256 TokenService. now may be nil to use time.Now.
func NewTokenService(secret string, expiration time.Duration, now func() time.Time) TokenService {
	if now == nil {
		now = time.Now
	}

	return &jwtTokenService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(now),
		),
	}
}

// Issue signs a token expiring after the configured duration.
func (s *jwtTokenService) Issue(subject uuid.UUID, username string) (string, authDomain.Claims, error) {
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.expiration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", authDomain.Claims{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, authDomain.Claims{
		Subject:   subject,
		Username:  username,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify parses and validates token. The signature is checked before the expiry, so
// only a correctly signed token can be reported as expired.
func (s *jwtTokenService) Verify(token string) (authDomain.Claims, error) {
	claims := &sessionClaims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return authDomain.Claims{}, authDomain.ErrTokenExpired
		}
		return authDomain.Claims{}, authDomain.ErrTokenInvalid
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil || claims.IssuedAt == nil || claims.Username == "" {
		return authDomain.Claims{}, authDomain.ErrTokenInvalid
	}

	return authDomain.Claims{
		Subject:   subject,
		Username:  claims.Username,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
