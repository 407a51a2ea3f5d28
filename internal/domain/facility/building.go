package facility

import (
	"strings"
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Building is a structure on a site.
type Building struct {
	shared.TenantEntity
	SiteID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"size:200;not null"`
	FloorCount int       `gorm:"not null;default:0"`
}

// TableName implements the GORM table naming convention
func (Building) TableName() string {
	return "buildings"
}

// NewBuilding creates a building on a site. The site must belong to the
// same tenant; a mismatch is a CrossTenantReference, never auto-corrected.
func NewBuilding(tenantID uuid.UUID, site *Site, name string) (*Building, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantContextMissing
	}
	if site == nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building requires a site")
	}
	if !site.BelongsTo(tenantID) {
		return nil, shared.ErrCrossTenantReference
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BUILDING_NAME", "Building name cannot be empty")
	}

	return &Building{
		TenantEntity: shared.NewTenantEntity(tenantID),
		SiteID:       site.ID,
		Name:         name,
	}, nil
}

// Rename changes the building name
func (b *Building) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_BUILDING_NAME", "Building name cannot be empty")
	}
	b.Name = name
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}
