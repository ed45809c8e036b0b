package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-conference-manager/internal/model"
)

const signingAlgorithm = "HS256"

// TokenManager issues and decodes stateless HS256 bearer tokens.
// The secret and default TTL are fixed at construction.
type TokenManager struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, defaultTTL time.Duration) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token signing secret is required")
	}
	if defaultTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &TokenManager{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

// WithClock returns a copy of m that reads time from now.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	clone := *m
	clone.now = now
	return &clone
}

func (m *TokenManager) DefaultTTL() time.Duration {
	return m.defaultTTL
}

// Issue signs a token for subject that expires after ttl; ttl <= 0 uses the default.
func (m *TokenManager) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, fmt.Errorf("%w: token subject is required", model.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	now := m.now().UTC()
	// NumericDate truncates to whole seconds; report the expiry the token carries.
	expiresAt := jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: expiresAt,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt.Time, nil
}

// Decode validates signature and expiry and returns the subject. Every
// failure is reported as model.ErrInvalidToken.
func (m *TokenManager) Decode(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims,
		func(*jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{signingAlgorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return "", model.ErrInvalidToken
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return "", model.ErrInvalidToken
	}

	return claims.Subject, nil
}
