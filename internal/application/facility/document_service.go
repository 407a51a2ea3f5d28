package facility

import (
	"context"
	"io"

	"github.com/facilityos/backend/internal/application/access"
	"github.com/facilityos/backend/internal/domain/facility"
	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentService manages document metadata. Payload bytes live behind
// the DocumentStorage collaborator; this service only brokers them.
type DocumentService struct {
	documents facility.DocumentRepository
	assets    facility.AssetRepository
	storage   facility.DocumentStorage
	resolver  *access.Resolver
	logger    *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documents facility.DocumentRepository,
	assets facility.AssetRepository,
	storage facility.DocumentStorage,
	resolver *access.Resolver,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		assets:    assets,
		storage:   storage,
		resolver:  resolver,
		logger:    logger,
	}
}

// Get returns document metadata the principal may view
func (s *DocumentService) Get(ctx context.Context, actor *identity.User, id uuid.UUID) (*facility.Document, error) {
	d, err := s.resolver.Require(actor, identity.ModuleDocuments, identity.ActionView, &id)
	if err != nil {
		return nil, maskDenial(d, err)
	}
	return s.documents.FindByID(ctx, id)
}

// Open streams the payload of a document the principal may view
func (s *DocumentService) Open(ctx context.Context, actor *identity.User, id uuid.UUID) (io.ReadCloser, *facility.Document, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.storage.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return body, doc, nil
}

// ListFor returns the documents attached to an entity
func (s *DocumentService) ListFor(ctx context.Context, actor *identity.User, attachedType string, attachedID uuid.UUID) ([]facility.Document, error) {
	if _, err := s.resolver.Require(actor, identity.ModuleDocuments, identity.ActionView, nil); err != nil {
		return nil, err
	}
	return s.documents.FindAttachedTo(ctx, attachedType, attachedID)
}

// Create registers metadata, optionally attached to an asset of the same
// tenant
func (s *DocumentService) Create(ctx context.Context, actor *identity.User, input CreateDocumentInput) (*facility.Document, error) {
	if _, err := s.resolver.Require(actor, identity.ModuleDocuments, identity.ActionCreate, nil); err != nil {
		return nil, err
	}

	doc, err := facility.NewDocument(actor.TenantID, input.Name, input.ContentType, input.StorageKey, input.SizeBytes)
	if err != nil {
		return nil, err
	}
	doc.CreatedBy = &actor.ID

	if input.AttachedID != nil && input.AttachedType == identity.ModuleAssets {
		asset, err := s.assets.FindByID(ctx, *input.AttachedID)
		if err != nil {
			return nil, shared.ErrCrossTenantReference
		}
		if err := doc.AttachToAsset(asset); err != nil {
			return nil, err
		}
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes metadata and asks storage to drop the payload. A storage
// failure does not resurrect the metadata.
func (s *DocumentService) Delete(ctx context.Context, actor *identity.User, id uuid.UUID) error {
	d, err := s.resolver.Require(actor, identity.ModuleDocuments, identity.ActionDelete, &id)
	if err != nil {
		return maskDenial(d, err)
	}

	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Remove(ctx, doc.StorageKey); err != nil {
		s.logger.Warn("Failed to remove document payload",
			zap.String("storage_key", doc.StorageKey),
			zap.Error(err))
	}
	return nil
}
