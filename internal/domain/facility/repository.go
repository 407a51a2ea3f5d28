package facility

import (
	"context"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repositories here take no tenant parameter: implementations resolve the
// tenant from the request context and refuse to run without one. The
// explicit cross-tenant administrative path is a property of the data
// access layer, not of these interfaces.

// SiteRepository defines persistence operations for sites
type SiteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Site, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Site, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, site *Site) error
	Update(ctx context.Context, site *Site, assertedVersion int64, changes map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error

	// The building and floor hierarchy is managed through the site aggregate.
	CreateBuilding(ctx context.Context, building *Building) error
	FindBuildings(ctx context.Context, siteID uuid.UUID) ([]Building, error)
	FindBuildingByID(ctx context.Context, id uuid.UUID) (*Building, error)
	CreateFloor(ctx context.Context, floor *Floor) error
	FindFloors(ctx context.Context, buildingID uuid.UUID) ([]Floor, error)
	FindFloorByID(ctx context.Context, id uuid.UUID) (*Floor, error)
}

// AssetRepository defines persistence operations for assets
type AssetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Asset, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, asset *Asset) error
	Update(ctx context.Context, asset *Asset, assertedVersion int64, changes map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentRepository defines persistence operations for document metadata
type DocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindAttachedTo(ctx context.Context, attachedType string, attachedID uuid.UUID) ([]Document, error)
	Create(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VendorRepository defines persistence operations for vendors
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Vendor, error)
	Create(ctx context.Context, vendor *Vendor) error
	Update(ctx context.Context, vendor *Vendor, assertedVersion int64, changes map[string]any) error
}
