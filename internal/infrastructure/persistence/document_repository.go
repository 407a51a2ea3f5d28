package persistence

import (
	"context"
	"errors"

	"github.com/facilityos/backend/internal/domain/facility"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/facilityos/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements facility.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *tenant.TenantDB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *tenant.TenantDB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by its ID within the context tenant
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*facility.Document, error) {
	var doc facility.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindAttachedTo lists documents attached to a given entity
func (r *GormDocumentRepository) FindAttachedTo(ctx context.Context, attachedType string, attachedID uuid.UUID) ([]facility.Document, error) {
	var docs []facility.Document
	err := r.db.WithContext(ctx).
		Where("attached_type = ? AND attached_id = ?", attachedType, attachedID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Create persists document metadata; the tenant stamp comes from the context
func (r *GormDocumentRepository) Create(ctx context.Context, doc *facility.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// Delete removes document metadata within the context tenant
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&facility.Document{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
