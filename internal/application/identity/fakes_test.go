package identity

import (
	"context"
	"sync"
	"time"

	domain "github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
	touches  map[uuid.UUID]int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[uuid.UUID]*domain.Session),
		touches:  make(map[uuid.UUID]int),
	}
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) FindActiveForUser(_ context.Context, userID uuid.UUID) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Session
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) Invalidate(_ context.Context, id uuid.UUID, reason shared.SessionInvalidReason) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false, shared.ErrNotFound
	}
	if !s.IsActive {
		return false, nil
	}
	now := time.Now()
	s.IsActive = false
	s.InvalidatedReason = string(reason)
	s.InvalidatedAt = &now
	return true, nil
}

func (r *fakeSessionRepo) TouchLastActivity(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.IsActive {
		s.LastActivityAt = time.Now()
		r.touches[id]++
	}
	return nil
}

func (r *fakeSessionRepo) touchCount(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.touches[id]
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) Save(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SaveGrant(_ context.Context, _ *domain.ResourceGrant) error { return nil }

func (r *fakeUserRepo) DeleteGrant(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID) error {
	return nil
}

type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*domain.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[uuid.UUID]*domain.Tenant)}
}

func (r *fakeTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTenantRepo) FindByCode(_ context.Context, code string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.Code == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTenantRepo) Save(_ context.Context, t *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tenants[t.ID] = &cp
	return nil
}
