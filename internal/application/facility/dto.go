package facility

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSiteInput contains input for site creation
type CreateSiteInput struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=500"`
	City    string `json:"city" binding:"max=100"`
	Country string `json:"country" binding:"max=100"`
}

// UpdateSiteInput contains the mutable site fields. Nil pointers leave the
// stored value untouched.
type UpdateSiteInput struct {
	Name    *string `json:"name" binding:"omitempty,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	City    *string `json:"city" binding:"omitempty,max=100"`
	Country *string `json:"country" binding:"omitempty,max=100"`
}

// CreateBuildingInput contains input for adding a building to a site
type CreateBuildingInput struct {
	SiteID uuid.UUID `json:"site_id" binding:"required"`
	Name   string    `json:"name" binding:"required,max=200"`
}

// CreateFloorInput contains input for adding a floor to a building
type CreateFloorInput struct {
	BuildingID uuid.UUID `json:"building_id" binding:"required"`
	Level      int       `json:"level"`
	Name       string    `json:"name" binding:"max=100"`
}

// CreateAssetInput contains input for asset creation
type CreateAssetInput struct {
	Tag      string `json:"tag" binding:"required,max=50"`
	Name     string `json:"name" binding:"required,max=200"`
	Category string `json:"category" binding:"max=100"`
}

// UpdateAssetInput contains the mutable asset fields
type UpdateAssetInput struct {
	Name     *string          `json:"name" binding:"omitempty,max=200"`
	Category *string          `json:"category" binding:"omitempty,max=100"`
	Status   *string          `json:"status" binding:"omitempty,oneof=active maintenance retired"`
	FloorID  *uuid.UUID       `json:"floor_id"`
	VendorID *uuid.UUID       `json:"vendor_id"`
	Cost     *decimal.Decimal `json:"purchase_cost"`
}

// CreateVendorInput contains input for vendor creation
type CreateVendorInput struct {
	Name         string `json:"name" binding:"required,max=200"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	Phone        string `json:"phone" binding:"max=50"`
}

// CreateDocumentInput contains input for registering document metadata
type CreateDocumentInput struct {
	Name        string `json:"name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"max=100"`
	SizeBytes   int64  `json:"size_bytes" binding:"min=0"`
	StorageKey  string `json:"storage_key" binding:"required,max=500"`

	AttachedType string     `json:"attached_type" binding:"omitempty,oneof=assets sites vendors"`
	AttachedID   *uuid.UUID `json:"attached_id"`
}

// PurchaseInput records acquisition details on an asset
type PurchaseInput struct {
	Cost        decimal.Decimal `json:"cost" binding:"required"`
	PurchasedAt time.Time       `json:"purchased_at" binding:"required"`
	VendorID    *uuid.UUID      `json:"vendor_id"`
}
