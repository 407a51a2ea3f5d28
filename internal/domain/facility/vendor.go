package facility

import (
	"strings"
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Vendor is a service company engaged by one tenant.
type Vendor struct {
	shared.TenantEntity
	Name         string `gorm:"size:200;not null"`
	ContactEmail string `gorm:"size:255"`
	Phone        string `gorm:"size:50"`
	IsApproved   bool   `gorm:"not null;default:false"`
}

// TableName implements the GORM table naming convention
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a vendor under the given tenant
func NewVendor(tenantID uuid.UUID, name, contactEmail string) (*Vendor, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantContextMissing
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR_NAME", "Vendor name cannot be empty")
	}

	return &Vendor{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		ContactEmail: strings.ToLower(strings.TrimSpace(contactEmail)),
	}, nil
}

// Approve marks the vendor as approved for engagement
func (v *Vendor) Approve() error {
	if v.IsApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Vendor is already approved")
	}
	v.IsApproved = true
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}
