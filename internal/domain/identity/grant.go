package identity

import (
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ResourceGrant is an instance-specific permission entry owned by a single
// principal: it names one resource (type + id) and a permission tuple for
// it. When a grant exists for the exact (type, id) pair it is authoritative
// for that resource; it does not fall through to role-level checks.
type ResourceGrant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_grant_user_resource"`
	ResourceType string    `gorm:"size:50;not null;uniqueIndex:idx_grant_user_resource"`
	ResourceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_grant_user_resource"`
	PermissionSet
	GrantedBy uuid.UUID `gorm:"type:uuid;not null"`
	GrantedAt time.Time `gorm:"not null"`
}

// TableName implements the GORM table naming convention
func (ResourceGrant) TableName() string {
	return "resource_grants"
}

// NewResourceGrant creates a grant of the given permissions on one
// resource instance. An all-false tuple is a valid deny grant: the
// grant's presence is what makes it authoritative for the resource, so
// an empty tuple withholds the resource even from principals whose role
// would otherwise allow it.
func NewResourceGrant(userID uuid.UUID, resourceType string, resourceID uuid.UUID, perms PermissionSet, grantedBy uuid.UUID) (*ResourceGrant, error) {
	if err := validateModule(resourceType); err != nil {
		return nil, err
	}
	if userID == uuid.Nil || resourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GRANT", "Grant requires a user and a resource")
	}

	return &ResourceGrant{
		ID:            uuid.New(),
		UserID:        userID,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		PermissionSet: perms,
		GrantedBy:     grantedBy,
		GrantedAt:     time.Now(),
	}, nil
}

// Matches reports whether the grant targets the exact (type, id) pair
func (g *ResourceGrant) Matches(resourceType string, resourceID uuid.UUID) bool {
	return g.ResourceType == resourceType && g.ResourceID == resourceID
}
