package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-conference-manager/internal/model"
	"go-conference-manager/internal/repository"
	"go-conference-manager/internal/security"
)

const testCost = 4

type fixture struct {
	store        *repository.MemoryStore
	hasher       *security.PasswordHasher
	tokens       *security.TokenManager
	auth         *AuthService
	users        *UserService
	institutions *InstitutionService
}

func newFixture(t *testing.T, openRegistration bool) *fixture {
	t.Helper()

	store := repository.NewMemoryStore()
	hasher := security.NewPasswordHasher(testCost)
	tokens, err := security.NewTokenManager("service-test-secret", time.Hour)
	require.NoError(t, err)

	auth, err := NewAuthService(store.Users, hasher, tokens, AuthOptions{
		OpenRegistration: openRegistration,
		QueryTimeout:     time.Second,
	})
	require.NoError(t, err)

	return &fixture{
		store:        store,
		hasher:       hasher,
		tokens:       tokens,
		auth:         auth,
		users:        NewUserService(store.Users, hasher, time.Second),
		institutions: NewInstitutionService(store.Institutions, store.Users, time.Second),
	}
}

func (f *fixture) seedUser(t *testing.T, email string, password string, role model.Role, enabled bool) model.User {
	t.Helper()

	digest, err := f.hasher.Hash(password)
	require.NoError(t, err)

	u, err := f.store.Users.Create(context.Background(), model.User{
		Name:         email,
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		Enabled:      enabled,
	})
	require.NoError(t, err)

	return u
}

func ptr[T any](v T) *T {
	return &v
}
