package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go-conference-manager/internal/model"
	"go-conference-manager/internal/security"
)

type FirstSuperuser struct {
	Email    string
	Password string
	Name     string
}

// EnsureFirstSuperuser creates the initial SuperAdmin when no account with
// that email exists yet. An empty email disables seeding.
func EnsureFirstSuperuser(ctx context.Context, users UserStore, hasher *security.PasswordHasher, seed FirstSuperuser) error {
	email := strings.TrimSpace(seed.Email)
	if email == "" {
		return nil
	}

	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		slog.Debug("first superuser already present", "email", email)
		return nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return fmt.Errorf("look up first superuser: %w", err)
	}

	digest, err := hasher.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("hash first superuser password: %w", err)
	}

	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = "Administrator"
	}

	ts := now()
	created, err := users.Create(ctx, model.User{
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Role:         model.RoleSuperAdmin,
		Enabled:      true,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	})
	if errors.Is(err, model.ErrDuplicateEmail) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create first superuser: %w", err)
	}

	slog.Info("first superuser created", "user_id", created.ID, "email", created.Email)
	return nil
}
