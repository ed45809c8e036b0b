package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-conference-manager/internal/model"
)

func newTestManager(t *testing.T, now time.Time) *TokenManager {
	t.Helper()

	manager, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	return manager.WithClock(func() time.Time { return now })
}

func TestTokenManager_IssueAndDecode(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manager := newTestManager(t, now)

	token, expiresAt, err := manager.Issue("42", 30*time.Minute)
	require.NoError(t, err)
	require.Equal(t, now.Add(30*time.Minute), expiresAt)

	subject, err := manager.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "42", subject)
}

func TestTokenManager_DefaultTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manager := newTestManager(t, now)

	_, expiresAt, err := manager.Issue("7", 0)
	require.NoError(t, err)
	require.Equal(t, now.Add(time.Hour), expiresAt)
}

func TestTokenManager_ExpiryMatchesClaimPrecision(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 750*int(time.Millisecond), time.UTC)
	manager := newTestManager(t, now)

	token, expiresAt, err := manager.Issue("42", time.Hour)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC), expiresAt.UTC())

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	require.True(t, claims.ExpiresAt.Time.Equal(expiresAt))

	_, err = manager.WithClock(func() time.Time { return expiresAt.Add(-time.Second) }).Decode(token)
	require.NoError(t, err)
}

func TestTokenManager_ExpiredTokenIsInvalid(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := newTestManager(t, issuedAt).Issue("42", time.Hour)
	require.NoError(t, err)

	_, err = newTestManager(t, issuedAt.Add(59*time.Minute)).Decode(token)
	require.NoError(t, err)

	_, err = newTestManager(t, issuedAt.Add(time.Hour+time.Second)).Decode(token)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenManager_ForgedAndMalformedTokensAreInvalid(t *testing.T) {
	t.Parallel()

	now := time.Now()
	manager := newTestManager(t, now)

	other, err := NewTokenManager("other-secret", time.Hour)
	require.NoError(t, err)
	forged, _, err := other.Issue("42", time.Hour)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "42",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"wrong secret": forged,
		"alg none":     noneToken,
		"missing exp":  noExpiry,
		"missing sub":  noSubject,
		"garbage":      "not.a.jwt",
		"empty":        "",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := manager.Decode(token)
			require.ErrorIs(t, err, model.ErrInvalidToken)
		})
	}
}

func TestTokenManager_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("", time.Hour)
	require.Error(t, err)

	_, err = NewTokenManager("secret", 0)
	require.Error(t, err)

	manager, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)

	_, _, err = manager.Issue("  ", time.Hour)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}
