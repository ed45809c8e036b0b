// Package access turns a bearer token into an authorised user by running an
// ordered pipeline of gates. Each level includes every check of the levels
// below it.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go-conference-manager/internal/model"
)

type Level int

const (
	Authenticated Level = iota
	Active
	AdminPrivilege
	SuperAdminPrivilege
)

func (l Level) String() string {
	switch l {
	case Authenticated:
		return "authenticated"
	case Active:
		return "active"
	case AdminPrivilege:
		return "admin"
	case SuperAdminPrivilege:
		return "superadmin"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Guard inspects a resolved user and returns nil when the user may pass.
type Guard func(model.User) error

func CheckActive(u model.User) error {
	if !u.Enabled {
		return model.ErrInactiveAccount
	}
	return nil
}

func CheckAdminPrivilege(u model.User) error {
	if !u.Role.HasAdminPrivilege() {
		return model.ErrInsufficientPrivilege
	}
	return nil
}

func CheckSuperAdminPrivilege(u model.User) error {
	if !u.Role.IsSuperAdmin() {
		return model.ErrInsufficientPrivilege
	}
	return nil
}

// guards[i] is the check added by Level(i+1).
var guards = []Guard{
	CheckActive,
	CheckAdminPrivilege,
	CheckSuperAdminPrivilege,
}

// Resolver maps a bearer token to the user it was issued for.
type Resolver interface {
	ResolveToken(ctx context.Context, token string) (model.User, error)
}

type Chain struct {
	resolver Resolver
}

func NewChain(resolver Resolver) *Chain {
	return &Chain{resolver: resolver}
}

// Require resolves the token once and runs every gate up to level, stopping
// at the first failure.
func (c *Chain) Require(ctx context.Context, token string, level Level) (model.User, error) {
	if level < Authenticated || level > SuperAdminPrivilege {
		return model.User{}, fmt.Errorf("%w: unknown access level %d", model.ErrInvalidInput, int(level))
	}

	user, err := c.resolver.ResolveToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrInvalidToken) || errors.Is(err, model.ErrUserNotFound) {
			return model.User{}, fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
		}
		return model.User{}, fmt.Errorf("resolve identity: %w", err)
	}

	for _, guard := range guards[:level] {
		if err := guard(user); err != nil {
			slog.Debug("access gate rejected request", "user_id", user.ID, "level", level.String(), "reason", err)
			return model.User{}, err
		}
	}

	return user, nil
}
