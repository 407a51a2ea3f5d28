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

// GormAssetRepository implements facility.AssetRepository using GORM
type GormAssetRepository struct {
	db *tenant.TenantDB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *tenant.TenantDB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by its ID within the context tenant
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*facility.Asset, error) {
	var asset facility.Asset
	if err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// FindAll lists assets for the context tenant with pagination and search
func (r *GormAssetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]facility.Asset, error) {
	query := r.db.WithContext(ctx).Model(&facility.Asset{})
	query = applyAssetSearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, AssetSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var assets []facility.Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Count returns the number of assets matching the filter
func (r *GormAssetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&facility.Asset{})
	query = applyAssetSearch(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new asset; the tenant stamp comes from the context
func (r *GormAssetRepository) Create(ctx context.Context, asset *facility.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// Update applies a guarded update and refreshes the entity on success
func (r *GormAssetRepository) Update(ctx context.Context, asset *facility.Asset, assertedVersion int64, changes map[string]any) error {
	db := r.db.WithContext(ctx)
	if err := optimistic.Update(db, &facility.Asset{}, asset.ID, assertedVersion, changes); err != nil {
		return err
	}
	return db.First(asset, "id = ?", asset.ID).Error
}

// Delete removes an asset within the context tenant
func (r *GormAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&facility.Asset{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func applyAssetSearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("tag ILIKE ? OR name ILIKE ? OR category ILIKE ?", pattern, pattern, pattern)
	}
	return applyIDScope(query, filter)
}
