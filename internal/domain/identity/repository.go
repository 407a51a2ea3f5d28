package identity

import (
	"context"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantRepository defines persistence operations for tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository defines persistence operations for users. Reads resolve
// roles and grants eagerly; the permission resolver works on the loaded
// principal without further round trips.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
	SaveGrant(ctx context.Context, grant *ResourceGrant) error
	DeleteGrant(ctx context.Context, userID uuid.UUID, resourceType string, resourceID uuid.UUID) error
}

// RoleRepository defines persistence operations for roles. Roles are
// global; none of these operations is tenant-scoped.
type RoleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	FindAll(ctx context.Context) ([]Role, error)
	Save(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionRepository defines the session registry's persistence surface.
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	// FindActiveForUser returns all currently active sessions for a principal.
	FindActiveForUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	Create(ctx context.Context, session *Session) error
	// Invalidate atomically flips an active session to inactive with the
	// given reason. It reports whether this call performed the flip, so
	// racing callers can tell who superseded the session.
	Invalidate(ctx context.Context, id uuid.UUID, reason shared.SessionInvalidReason) (bool, error)
	// TouchLastActivity records activity; failures are the caller's to ignore.
	TouchLastActivity(ctx context.Context, id uuid.UUID) error
}
