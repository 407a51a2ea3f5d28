package facility

import (
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Floor is one level of a building.
type Floor struct {
	shared.TenantEntity
	BuildingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Level      int       `gorm:"not null"`
	Name       string    `gorm:"size:100"`
}

// TableName implements the GORM table naming convention
func (Floor) TableName() string {
	return "floors"
}

// NewFloor creates a floor inside a building of the same tenant
func NewFloor(tenantID uuid.UUID, building *Building, level int, name string) (*Floor, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantContextMissing
	}
	if building == nil {
		return nil, shared.NewDomainError("INVALID_FLOOR", "Floor requires a building")
	}
	if !building.BelongsTo(tenantID) {
		return nil, shared.ErrCrossTenantReference
	}

	return &Floor{
		TenantEntity: shared.NewTenantEntity(tenantID),
		BuildingID:   building.ID,
		Level:        level,
		Name:         name,
	}, nil
}
