package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/facilityos/backend/internal/domain/facility"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/facilityos/backend/internal/infrastructure/persistence/optimistic"
	"github.com/facilityos/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVendorRepository implements facility.VendorRepository using GORM
type GormVendorRepository struct {
	db *tenant.TenantDB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *tenant.TenantDB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID within the context tenant
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*facility.Vendor, error) {
	var vendor facility.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindAll lists vendors for the context tenant
func (r *GormVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]facility.Vendor, error) {
	query := r.db.WithContext(ctx).Model(&facility.Vendor{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ?", pattern)
	}
	query = applyIDScope(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, VendorSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var vendors []facility.Vendor
	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Create persists a new vendor; the tenant stamp comes from the context
func (r *GormVendorRepository) Create(ctx context.Context, vendor *facility.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

// Update applies a guarded update and refreshes the entity on success
func (r *GormVendorRepository) Update(ctx context.Context, vendor *facility.Vendor, assertedVersion int64, changes map[string]any) error {
	db := r.db.WithContext(ctx)
	if err := optimistic.Update(db, &facility.Vendor{}, vendor.ID, assertedVersion, changes); err != nil {
		return err
	}
	return db.First(vendor, "id = ?", vendor.ID).Error
}
