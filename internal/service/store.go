package service

import (
	"context"
	"time"

	"go-conference-manager/internal/model"
)

// UserStore is implemented by repository.UserRepository and the in-memory store.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	Update(ctx context.Context, u model.User) (model.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page model.Page) ([]model.User, error)
	ListByInstitution(ctx context.Context, institutionID int64, page model.Page) ([]model.User, error)
}

type InstitutionStore interface {
	FindByID(ctx context.Context, id int64) (model.Institution, error)
	FindByName(ctx context.Context, name string) (model.Institution, error)
	Create(ctx context.Context, inst model.Institution) (model.Institution, error)
	Update(ctx context.Context, inst model.Institution) (model.Institution, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page model.Page) ([]model.Institution, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

const defaultQueryTimeout = 5 * time.Second

// bounded derives a context that ends after the store query timeout.
func bounded(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func now() time.Time {
	return time.Now().UTC()
}
