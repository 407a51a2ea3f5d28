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

// GormSiteRepository implements facility.SiteRepository using GORM.
// All operations run through the tenant-scoped connection.
type GormSiteRepository struct {
	db *tenant.TenantDB
}

// NewGormSiteRepository creates a new GormSiteRepository
func NewGormSiteRepository(db *tenant.TenantDB) *GormSiteRepository {
	return &GormSiteRepository{db: db}
}

// FindByID finds a site by its ID within the context tenant
func (r *GormSiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*facility.Site, error) {
	var site facility.Site
	if err := r.db.WithContext(ctx).First(&site, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

// FindAll lists sites for the context tenant with pagination and search
func (r *GormSiteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]facility.Site, error) {
	query := r.db.WithContext(ctx).Model(&facility.Site{})
	query = applySiteSearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, SiteSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var sites []facility.Site
	if err := query.Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// Count returns the number of sites matching the filter
func (r *GormSiteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&facility.Site{})
	query = applySiteSearch(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new site; the tenant stamp comes from the context
func (r *GormSiteRepository) Create(ctx context.Context, site *facility.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

// Update applies a guarded update and refreshes the entity on success
func (r *GormSiteRepository) Update(ctx context.Context, site *facility.Site, assertedVersion int64, changes map[string]any) error {
	db := r.db.WithContext(ctx)
	if err := optimistic.Update(db, &facility.Site{}, site.ID, assertedVersion, changes); err != nil {
		return err
	}
	return db.First(site, "id = ?", site.ID).Error
}

// Delete removes a site within the context tenant
func (r *GormSiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&facility.Site{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CreateBuilding persists a building under a site of the same tenant
func (r *GormSiteRepository) CreateBuilding(ctx context.Context, building *facility.Building) error {
	return r.db.WithContext(ctx).Create(building).Error
}

// FindBuildings lists the buildings of a site
func (r *GormSiteRepository) FindBuildings(ctx context.Context, siteID uuid.UUID) ([]facility.Building, error) {
	var buildings []facility.Building
	err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("name ASC").
		Find(&buildings).Error
	if err != nil {
		return nil, err
	}
	return buildings, nil
}

// CreateFloor persists a floor under a building of the same tenant
func (r *GormSiteRepository) CreateFloor(ctx context.Context, floor *facility.Floor) error {
	return r.db.WithContext(ctx).Create(floor).Error
}

// FindBuildingByID finds a building within the context tenant
func (r *GormSiteRepository) FindBuildingByID(ctx context.Context, id uuid.UUID) (*facility.Building, error) {
	var building facility.Building
	if err := r.db.WithContext(ctx).First(&building, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &building, nil
}

// FindFloorByID finds a floor within the context tenant
func (r *GormSiteRepository) FindFloorByID(ctx context.Context, id uuid.UUID) (*facility.Floor, error) {
	var floor facility.Floor
	if err := r.db.WithContext(ctx).First(&floor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &floor, nil
}

// FindFloors lists the floors of a building
func (r *GormSiteRepository) FindFloors(ctx context.Context, buildingID uuid.UUID) ([]facility.Floor, error) {
	var floors []facility.Floor
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("level ASC").
		Find(&floors).Error
	if err != nil {
		return nil, err
	}
	return floors, nil
}

func applySiteSearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR city ILIKE ?", pattern, pattern)
	}
	return applyIDScope(query, filter)
}
