package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"go-conference-manager/internal/model"
	"go-conference-manager/internal/repository"
	"go-conference-manager/internal/security"
)

func TestEnsureFirstSuperuser(t *testing.T) {
	t.Parallel()

	store := repository.NewMemoryStore()
	hasher := security.NewPasswordHasher(testCost)
	ctx := context.Background()
	seed := FirstSuperuser{Email: "root@example.com", Password: "changeme-now"}

	require.NoError(t, EnsureFirstSuperuser(ctx, store.Users, hasher, seed))
	require.NoError(t, EnsureFirstSuperuser(ctx, store.Users, hasher, seed))

	users, err := store.Users.List(ctx, model.Page{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, model.RoleSuperAdmin, users[0].Role)
	require.True(t, users[0].Enabled)
	require.Equal(t, "Administrator", users[0].Name)
	require.True(t, hasher.Verify("changeme-now", users[0].PasswordHash))
}

func TestEnsureFirstSuperuser_DisabledWithoutEmail(t *testing.T) {
	t.Parallel()

	store := repository.NewMemoryStore()

	require.NoError(t, EnsureFirstSuperuser(context.Background(), store.Users, security.NewPasswordHasher(testCost), FirstSuperuser{}))

	users, err := store.Users.List(context.Background(), model.Page{})
	require.NoError(t, err)
	require.Empty(t, users)
}
