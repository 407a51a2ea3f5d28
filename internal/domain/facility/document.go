package facility

import (
	"strings"
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Document is file metadata attached to another facility resource. The file
// bytes themselves live behind the DocumentStorage collaborator; this
// aggregate only tracks identity, attachment and ownership.
type Document struct {
	shared.TenantEntity
	Name         string     `gorm:"size:255;not null"`
	ContentType  string     `gorm:"size:100"`
	SizeBytes    int64      `gorm:"not null;default:0"`
	StorageKey   string     `gorm:"size:500;not null"`
	AttachedType string     `gorm:"size:50;index"`
	AttachedID   *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName implements the GORM table naming convention
func (Document) TableName() string {
	return "documents"
}

// NewDocument creates document metadata under the given tenant
func NewDocument(tenantID uuid.UUID, name, contentType, storageKey string, sizeBytes int64) (*Document, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantContextMissing
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NAME", "Document name cannot be empty")
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Document requires a storage key")
	}
	if sizeBytes < 0 {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_SIZE", "Document size cannot be negative")
	}

	return &Document{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		ContentType:  contentType,
		SizeBytes:    sizeBytes,
		StorageKey:   storageKey,
	}, nil
}

// AttachToAsset links the document to an asset of the same tenant
func (d *Document) AttachToAsset(asset *Asset) error {
	if asset == nil {
		return shared.NewDomainError("INVALID_ATTACHMENT", "Asset is required")
	}
	if !asset.BelongsTo(d.TenantID) {
		return shared.ErrCrossTenantReference
	}
	d.AttachedType = "assets"
	d.AttachedID = &asset.ID
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}
