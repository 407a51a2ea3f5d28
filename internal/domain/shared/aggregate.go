package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identifier and timestamps shared by every record
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity returns a BaseEntity with a fresh ID and both timestamps
// set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Versioned is implemented by every mutable record guarded by optimistic
// concurrency. The version counter starts at 1 for tracked records (0 is
// the unversioned legacy default), increments by exactly one per successful
// write, and is never client-settable beyond "the version I last read".
type Versioned interface {
	GetVersion() int64
	IncrementVersion()
}

// VersionedEntity provides the version counter for optimistic locking.
type VersionedEntity struct {
	BaseEntity
	Version int64 `gorm:"not null;default:1"`
}

// GetVersion returns the record version for optimistic locking
func (v *VersionedEntity) GetVersion() int64 {
	return v.Version
}

// IncrementVersion increments the version number
func (v *VersionedEntity) IncrementVersion() {
	v.Version++
}

// NewVersionedEntity creates a versioned entity at version 1
func NewVersionedEntity() VersionedEntity {
	return VersionedEntity{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// TenantEntity extends VersionedEntity with the tenant isolation boundary.
// TenantID is stamped at creation and immutable thereafter.
type TenantEntity struct {
	VersionedEntity
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// NewTenantEntity creates a new tenant-scoped entity
func NewTenantEntity(tenantID uuid.UUID) TenantEntity {
	return TenantEntity{
		VersionedEntity: NewVersionedEntity(),
		TenantID:        tenantID,
	}
}

// NewTenantEntityWithCreator creates a new tenant-scoped entity with creator info
func NewTenantEntityWithCreator(tenantID, createdBy uuid.UUID) TenantEntity {
	e := NewTenantEntity(tenantID)
	e.CreatedBy = &createdBy
	return e
}

// BelongsTo reports whether the entity is owned by the given tenant.
func (t *TenantEntity) BelongsTo(tenantID uuid.UUID) bool {
	return t.TenantID == tenantID
}

// SetCreatedBy sets the creator user ID
func (t *TenantEntity) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}
