package identity

import (
	"strings"
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
)

// Tenant is the isolation boundary grouping all data belonging to one
// customer organization. Every tenant-scoped entity carries an immutable
// reference to exactly one tenant.
type Tenant struct {
	shared.VersionedEntity
	Code     string `gorm:"size:50;uniqueIndex;not null"`
	Name     string `gorm:"size:200;not null"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName implements the GORM table naming convention
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant
func NewTenant(code, name string) (*Tenant, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}

	return &Tenant{
		VersionedEntity: shared.NewVersionedEntity(),
		Code:            strings.ToLower(code),
		Name:            name,
		IsActive:        true,
	}, nil
}

// Deactivate disables the tenant; all requests carrying its identity are refused upstream.
func (t *Tenant) Deactivate() error {
	if !t.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Tenant is already inactive")
	}
	t.IsActive = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Activate re-enables the tenant
func (t *Tenant) Activate() error {
	if t.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.IsActive = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

