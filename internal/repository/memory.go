package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go-conference-manager/internal/model"
)

// MemoryStore keeps users, institutions and audit entries in process memory.
// It mirrors the PostgreSQL constraints: unique email, unique institution name,
// institution foreign key with ON DELETE SET NULL.
type MemoryStore struct {
	Users        *MemoryUserRepository
	Institutions *MemoryInstitutionRepository
	Audit        *MemoryAuditRepository
}

type memoryState struct {
	mu                sync.RWMutex
	users             map[int64]model.User
	institutions      map[int64]model.Institution
	audit             []model.AuditEntry
	nextUserID        int64
	nextInstitutionID int64
}

func NewMemoryStore() *MemoryStore {
	state := &memoryState{
		users:        map[int64]model.User{},
		institutions: map[int64]model.Institution{},
	}

	return &MemoryStore{
		Users:        &MemoryUserRepository{state: state},
		Institutions: &MemoryInstitutionRepository{state: state},
		Audit:        &MemoryAuditRepository{state: state},
	}
}

func (s *MemoryStore) Health(context.Context) error {
	return nil
}

type MemoryUserRepository struct {
	state *memoryState
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id int64) (model.User, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	u, ok := r.state.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	u, ok := r.state.userByEmailLocked(email)
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u model.User) (model.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, exists := r.state.userByEmailLocked(u.Email); exists {
		return model.User{}, model.ErrDuplicateEmail
	}
	if !r.state.institutionExistsLocked(u.InstitutionID) {
		return model.User{}, model.ErrInstitutionNotFound
	}

	r.state.nextUserID++
	u.ID = r.state.nextUserID
	r.state.users[u.ID] = u

	return u, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, u model.User) (model.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.users[u.ID]; !ok {
		return model.User{}, model.ErrUserNotFound
	}
	if other, exists := r.state.userByEmailLocked(u.Email); exists && other.ID != u.ID {
		return model.User{}, model.ErrDuplicateEmail
	}
	if !r.state.institutionExistsLocked(u.InstitutionID) {
		return model.User{}, model.ErrInstitutionNotFound
	}

	r.state.users[u.ID] = u
	return u, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(r.state.users, id)
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context, page model.Page) ([]model.User, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	return pageUsers(r.state.users, page, func(model.User) bool { return true }), nil
}

func (r *MemoryUserRepository) ListByInstitution(_ context.Context, institutionID int64, page model.Page) ([]model.User, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	return pageUsers(r.state.users, page, func(u model.User) bool {
		return u.InstitutionID != nil && *u.InstitutionID == institutionID
	}), nil
}

type MemoryInstitutionRepository struct {
	state *memoryState
}

func (r *MemoryInstitutionRepository) FindByID(_ context.Context, id int64) (model.Institution, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	inst, ok := r.state.institutions[id]
	if !ok {
		return model.Institution{}, model.ErrInstitutionNotFound
	}
	return inst, nil
}

func (r *MemoryInstitutionRepository) FindByName(_ context.Context, name string) (model.Institution, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	inst, ok := r.state.institutionByNameLocked(name)
	if !ok {
		return model.Institution{}, model.ErrInstitutionNotFound
	}
	return inst, nil
}

func (r *MemoryInstitutionRepository) Create(_ context.Context, inst model.Institution) (model.Institution, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, exists := r.state.institutionByNameLocked(inst.Name); exists {
		return model.Institution{}, model.ErrDuplicateInstitution
	}

	r.state.nextInstitutionID++
	inst.ID = r.state.nextInstitutionID
	r.state.institutions[inst.ID] = inst

	return inst, nil
}

func (r *MemoryInstitutionRepository) Update(_ context.Context, inst model.Institution) (model.Institution, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.institutions[inst.ID]; !ok {
		return model.Institution{}, model.ErrInstitutionNotFound
	}
	if other, exists := r.state.institutionByNameLocked(inst.Name); exists && other.ID != inst.ID {
		return model.Institution{}, model.ErrDuplicateInstitution
	}

	r.state.institutions[inst.ID] = inst
	return inst, nil
}

func (r *MemoryInstitutionRepository) Delete(_ context.Context, id int64) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.institutions[id]; !ok {
		return model.ErrInstitutionNotFound
	}
	delete(r.state.institutions, id)

	for userID, u := range r.state.users {
		if u.InstitutionID != nil && *u.InstitutionID == id {
			u.InstitutionID = nil
			r.state.users[userID] = u
		}
	}
	return nil
}

func (r *MemoryInstitutionRepository) List(_ context.Context, page model.Page) ([]model.Institution, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	page = page.Normalize()
	ids := make([]int64, 0, len(r.state.institutions))
	for id := range r.state.institutions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]model.Institution, 0)
	for _, id := range window(ids, page) {
		out = append(out, r.state.institutions[id])
	}
	return out, nil
}

type MemoryAuditRepository struct {
	state *memoryState
}

func (r *MemoryAuditRepository) Log(_ context.Context, entry model.AuditEntry) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	r.state.audit = append(r.state.audit, entry)
	return nil
}

func (r *MemoryAuditRepository) Query(_ context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	query = normalizeAuditQuery(query)

	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	action := strings.TrimSpace(query.Action)
	status := strings.TrimSpace(query.Status)

	matched := make([]model.AuditEntry, 0)
	// newest first
	for i := len(r.state.audit) - 1; i >= 0; i-- {
		e := r.state.audit[i]
		if action != "" && !strings.EqualFold(e.Action, action) {
			continue
		}
		if status != "" && !strings.EqualFold(e.Status, status) {
			continue
		}
		if query.ActorID != 0 && e.Actor.UserID != query.ActorID {
			continue
		}
		matched = append(matched, e)
	}

	meta := auditMeta(query, len(matched))
	start := min(meta.Skip, len(matched))
	end := min(start+query.Limit, len(matched))

	return matched[start:end], meta, nil
}

func (s *memoryState) userByEmailLocked(email string) (model.User, bool) {
	needle := strings.TrimSpace(email)
	for _, u := range s.users {
		if strings.EqualFold(u.Email, needle) {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *memoryState) institutionByNameLocked(name string) (model.Institution, bool) {
	needle := strings.TrimSpace(name)
	for _, inst := range s.institutions {
		if strings.EqualFold(inst.Name, needle) {
			return inst, true
		}
	}
	return model.Institution{}, false
}

func (s *memoryState) institutionExistsLocked(id *int64) bool {
	if id == nil {
		return true
	}
	_, ok := s.institutions[*id]
	return ok
}

func pageUsers(users map[int64]model.User, page model.Page, keep func(model.User) bool) []model.User {
	page = page.Normalize()

	ids := make([]int64, 0, len(users))
	for id, u := range users {
		if keep(u) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]model.User, 0)
	for _, id := range window(ids, page) {
		out = append(out, users[id])
	}
	return out
}

func window(ids []int64, page model.Page) []int64 {
	start := min(page.Skip, len(ids))
	end := min(start+page.Limit, len(ids))
	return ids[start:end]
}
