package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-conference-manager/internal/model"
	"go-conference-manager/internal/security"
)

type UserService struct {
	users        UserStore
	hasher       *security.PasswordHasher
	queryTimeout time.Duration
}

func NewUserService(users UserStore, hasher *security.PasswordHasher, queryTimeout time.Duration) *UserService {
	return &UserService{users: users, hasher: hasher, queryTimeout: queryTimeout}
}

func (s *UserService) List(ctx context.Context, page model.Page) ([]model.User, error) {
	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	return s.users.List(qctx, page.Normalize())
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	return s.users.FindByID(qctx, id)
}

// Create adds an enabled account on behalf of a super administrator.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	role := model.RoleAuthor
	if req.Role != nil {
		if !req.Role.Valid() {
			return model.User{}, fmt.Errorf("%w: unknown role", model.ErrInvalidInput)
		}
		role = *req.Role
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, err
	}

	ts := now()
	user := model.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		ContactNo:     strings.TrimSpace(req.ContactNo),
		Title:         strings.TrimSpace(req.Title),
		Department:    strings.TrimSpace(req.Department),
		PasswordHash:  digest,
		Role:          role,
		Enabled:       true,
		InstitutionID: req.InstitutionID,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	return s.users.Create(qctx, user)
}

// Update applies a partial update. Only a super administrator may touch a
// SuperAdmin account or hand out the SuperAdmin role.
func (s *UserService) Update(ctx context.Context, actor model.User, id int64, req model.UpdateUserRequest) (model.User, error) {
	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.FindByID(qctx, id)
	if err != nil {
		return model.User{}, err
	}

	if user.Role.IsSuperAdmin() && !actor.Role.IsSuperAdmin() {
		return model.User{}, model.ErrInsufficientPrivilege
	}

	if req.Role != nil {
		if !req.Role.Valid() {
			return model.User{}, fmt.Errorf("%w: unknown role", model.ErrInvalidInput)
		}
		if req.Role.IsSuperAdmin() && !actor.Role.IsSuperAdmin() {
			return model.User{}, model.ErrInsufficientPrivilege
		}
		user.Role = *req.Role
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.ContactNo != nil {
		user.ContactNo = strings.TrimSpace(*req.ContactNo)
	}
	if req.Title != nil {
		user.Title = strings.TrimSpace(*req.Title)
	}
	if req.Department != nil {
		user.Department = strings.TrimSpace(*req.Department)
	}
	if req.Enabled != nil {
		user.Enabled = *req.Enabled
	}
	if req.InstitutionID != nil {
		user.InstitutionID = req.InstitutionID
	}
	if req.Password != nil {
		digest, hashErr := s.hasher.Hash(*req.Password)
		if hashErr != nil {
			return model.User{}, hashErr
		}
		user.PasswordHash = digest
	}

	user.UpdatedAt = now()

	return s.users.Update(qctx, user)
}

// Delete removes a user. Acting on one's own id is refused before any lookup.
func (s *UserService) Delete(ctx context.Context, actor model.User, id int64) (model.User, error) {
	if id == actor.ID {
		return model.User{}, model.ErrSelfDeletionForbidden
	}

	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.FindByID(qctx, id)
	if err != nil {
		return model.User{}, err
	}

	if user.Role.IsSuperAdmin() && !actor.Role.IsSuperAdmin() {
		return model.User{}, model.ErrInsufficientPrivilege
	}

	if err := s.users.Delete(qctx, id); err != nil {
		return model.User{}, err
	}

	return user, nil
}
