package facility

import (
	"strings"
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetStatus is the operational state of an asset
type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
)

// Asset is a tracked piece of equipment placed on a floor.
type Asset struct {
	shared.TenantEntity
	FloorID      *uuid.UUID      `gorm:"type:uuid;index"`
	Tag          string          `gorm:"size:50;not null;index"`
	Name         string          `gorm:"size:200;not null"`
	Category     string          `gorm:"size:100"`
	Status       AssetStatus     `gorm:"size:20;not null;default:'active'"`
	PurchaseCost decimal.Decimal `gorm:"type:decimal(14,2)"`
	PurchasedAt  *time.Time
	VendorID     *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName implements the GORM table naming convention
func (Asset) TableName() string {
	return "assets"
}

// NewAsset creates an asset under the given tenant
func NewAsset(tenantID uuid.UUID, tag, name string) (*Asset, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantContextMissing
	}
	tag = strings.TrimSpace(tag)
	name = strings.TrimSpace(name)
	if tag == "" {
		return nil, shared.NewDomainError("INVALID_ASSET_TAG", "Asset tag cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ASSET_NAME", "Asset name cannot be empty")
	}

	return &Asset{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Tag:          tag,
		Name:         name,
		Status:       AssetStatusActive,
		PurchaseCost: decimal.Zero,
	}, nil
}

// PlaceOnFloor moves the asset onto a floor of the same tenant
func (a *Asset) PlaceOnFloor(floor *Floor) error {
	if floor == nil {
		return shared.NewDomainError("INVALID_FLOOR", "Floor is required")
	}
	if !floor.BelongsTo(a.TenantID) {
		return shared.ErrCrossTenantReference
	}
	a.FloorID = &floor.ID
	a.touch()
	return nil
}

// AssignVendor links the asset's servicing vendor within the same tenant
func (a *Asset) AssignVendor(vendor *Vendor) error {
	if vendor == nil {
		return shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	if !vendor.BelongsTo(a.TenantID) {
		return shared.ErrCrossTenantReference
	}
	a.VendorID = &vendor.ID
	a.touch()
	return nil
}

// SetPurchase records purchase cost and date
func (a *Asset) SetPurchase(cost decimal.Decimal, at time.Time) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_PURCHASE_COST", "Purchase cost cannot be negative")
	}
	a.PurchaseCost = cost
	a.PurchasedAt = &at
	a.touch()
	return nil
}

// ChangeStatus moves the asset through its lifecycle
func (a *Asset) ChangeStatus(status AssetStatus) error {
	switch status {
	case AssetStatusActive, AssetStatusMaintenance, AssetStatusRetired:
	default:
		return shared.NewDomainError("INVALID_ASSET_STATUS", "Unknown asset status")
	}
	if a.Status == AssetStatusRetired && status != AssetStatusRetired {
		return shared.NewDomainError("INVALID_STATE", "Retired assets cannot be reactivated")
	}
	a.Status = status
	a.touch()
	return nil
}

func (a *Asset) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
