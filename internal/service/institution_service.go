package service

import (
	"context"
	"strings"
	"time"

	"go-conference-manager/internal/model"
)

type InstitutionService struct {
	institutions InstitutionStore
	users        UserStore
	queryTimeout time.Duration
}

func NewInstitutionService(institutions InstitutionStore, users UserStore, queryTimeout time.Duration) *InstitutionService {
	return &InstitutionService{institutions: institutions, users: users, queryTimeout: queryTimeout}
}

func (s *InstitutionService) List(ctx context.Context, page model.Page) ([]model.Institution, error) {
	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	return s.institutions.List(qctx, page.Normalize())
}

func (s *InstitutionService) Get(ctx context.Context, id int64) (model.Institution, error) {
	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	return s.institutions.FindByID(qctx, id)
}

// ForUser returns the institution the user belongs to.
func (s *InstitutionService) ForUser(ctx context.Context, user model.User) (model.Institution, error) {
	if user.InstitutionID == nil {
		return model.Institution{}, model.ErrInstitutionNotFound
	}

	return s.Get(ctx, *user.InstitutionID)
}

func (s *InstitutionService) Create(ctx context.Context, req model.CreateInstitutionRequest) (model.Institution, error) {
	ts := now()
	inst := model.Institution{
		Name:       strings.TrimSpace(req.Name),
		Address:    strings.TrimSpace(req.Address),
		Email:      strings.TrimSpace(req.Email),
		ContactNo:  strings.TrimSpace(req.ContactNo),
		Membership: strings.TrimSpace(req.Membership),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}

	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	return s.institutions.Create(qctx, inst)
}

func (s *InstitutionService) Update(ctx context.Context, id int64, req model.UpdateInstitutionRequest) (model.Institution, error) {
	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	inst, err := s.institutions.FindByID(qctx, id)
	if err != nil {
		return model.Institution{}, err
	}

	if req.Name != nil {
		inst.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		inst.Address = strings.TrimSpace(*req.Address)
	}
	if req.Email != nil {
		inst.Email = strings.TrimSpace(*req.Email)
	}
	if req.ContactNo != nil {
		inst.ContactNo = strings.TrimSpace(*req.ContactNo)
	}
	if req.Membership != nil {
		inst.Membership = strings.TrimSpace(*req.Membership)
	}

	inst.UpdatedAt = now()

	return s.institutions.Update(qctx, inst)
}

// Delete removes the institution and detaches its members.
func (s *InstitutionService) Delete(ctx context.Context, id int64) (model.Institution, error) {
	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	inst, err := s.institutions.FindByID(qctx, id)
	if err != nil {
		return model.Institution{}, err
	}

	if err := s.institutions.Delete(qctx, id); err != nil {
		return model.Institution{}, err
	}

	return inst, nil
}

// Users lists the members of an institution; ErrInstitutionNotFound when
// the institution does not exist.
func (s *InstitutionService) Users(ctx context.Context, id int64, page model.Page) ([]model.User, error) {
	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	if _, err := s.institutions.FindByID(qctx, id); err != nil {
		return nil, err
	}

	return s.users.ListByInstitution(qctx, id, page.Normalize())
}
