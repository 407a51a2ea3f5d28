package facility

import (
	"context"

	"github.com/facilityos/backend/internal/application/access"
	"github.com/facilityos/backend/internal/domain/facility"
	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssetService implements the asset module operations. Every operation
// takes the acting principal explicitly; the tenant comes from the
// request context via the data access layer.
type AssetService struct {
	assets   facility.AssetRepository
	sites    facility.SiteRepository
	vendors  facility.VendorRepository
	resolver *access.Resolver
	audit    facility.AuditSink
	logger   *zap.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(
	assets facility.AssetRepository,
	sites facility.SiteRepository,
	vendors facility.VendorRepository,
	resolver *access.Resolver,
	audit facility.AuditSink,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		assets:   assets,
		sites:    sites,
		vendors:  vendors,
		resolver: resolver,
		audit:    audit,
		logger:   logger,
	}
}

// maskDenial hides resources whose denial came from an instance grant: to
// that caller the resource does not exist. Module-level denials stay
// visible as permission errors.
func maskDenial(d access.Decision, err error) error {
	if d.Source == access.SourceInstance {
		return shared.ErrNotFound
	}
	return err
}

func (s *AssetService) record(ctx context.Context, event string, d access.Decision, id uuid.UUID) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, event, map[string]any{
		"resource_id": id.String(),
		"module":      d.Module,
		"action":      d.Action,
		"source":      string(d.Source),
	})
	if err != nil {
		s.logger.Debug("Audit record failed", zap.Error(err))
	}
}

// Get returns one asset the principal may view
func (s *AssetService) Get(ctx context.Context, actor *identity.User, id uuid.UUID) (*facility.Asset, error) {
	d, err := s.resolver.Require(actor, identity.ModuleAssets, identity.ActionView, &id)
	if err != nil {
		return nil, maskDenial(d, err)
	}
	return s.assets.FindByID(ctx, id)
}

// List returns the page of assets inside the principal's scope. The
// scope runs inside the query, so excluded rows never occupy page slots
// and the total counts only what the caller may see.
func (s *AssetService) List(ctx context.Context, actor *identity.User, filter shared.Filter) (*shared.Paginated[facility.Asset], error) {
	scope := s.resolver.ScopeFor(actor, identity.ModuleAssets, identity.ActionView)
	if !scope.All && len(scope.Include) == 0 {
		empty := shared.NewPaginated([]facility.Asset{}, 0, filter.Page, filter.PageSize)
		return &empty, nil
	}
	filter = scope.Narrow(filter)

	assets, err := s.assets.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.assets.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(assets, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Create registers a new asset for the principal's tenant
func (s *AssetService) Create(ctx context.Context, actor *identity.User, input CreateAssetInput) (*facility.Asset, error) {
	d, err := s.resolver.Require(actor, identity.ModuleAssets, identity.ActionCreate, nil)
	if err != nil {
		return nil, err
	}

	asset, err := facility.NewAsset(actor.TenantID, input.Tag, input.Name)
	if err != nil {
		return nil, err
	}
	asset.Category = input.Category
	asset.CreatedBy = &actor.ID

	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	s.record(ctx, "asset.created", d, asset.ID)
	return asset, nil
}

// Update applies a guarded partial update. The asserted version is the
// one the caller last read; a stale assertion fails with the current
// version attached.
func (s *AssetService) Update(ctx context.Context, actor *identity.User, id uuid.UUID, assertedVersion int64, input UpdateAssetInput) (*facility.Asset, error) {
	d, err := s.resolver.Require(actor, identity.ModuleAssets, identity.ActionEdit, &id)
	if err != nil {
		return nil, maskDenial(d, err)
	}

	asset, err := s.assets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if input.Name != nil {
		changes["name"] = *input.Name
	}
	if input.Category != nil {
		changes["category"] = *input.Category
	}
	if input.Status != nil {
		if err := asset.ChangeStatus(facility.AssetStatus(*input.Status)); err != nil {
			return nil, err
		}
		changes["status"] = *input.Status
	}
	if input.FloorID != nil {
		floor, err := s.sites.FindFloorByID(ctx, *input.FloorID)
		if err != nil {
			return nil, shared.ErrCrossTenantReference
		}
		if err := asset.PlaceOnFloor(floor); err != nil {
			return nil, err
		}
		changes["floor_id"] = *input.FloorID
	}
	if input.VendorID != nil {
		vendor, err := s.vendors.FindByID(ctx, *input.VendorID)
		if err != nil {
			return nil, shared.ErrCrossTenantReference
		}
		if err := asset.AssignVendor(vendor); err != nil {
			return nil, err
		}
		changes["vendor_id"] = *input.VendorID
	}
	if input.Cost != nil {
		changes["purchase_cost"] = *input.Cost
	}
	if len(changes) == 0 {
		return asset, nil
	}

	if err := s.assets.Update(ctx, asset, assertedVersion, changes); err != nil {
		return nil, err
	}
	s.record(ctx, "asset.updated", d, asset.ID)
	return asset, nil
}

// RecordPurchase records acquisition details on an asset under the same
// version guard as any other edit
func (s *AssetService) RecordPurchase(ctx context.Context, actor *identity.User, id uuid.UUID, assertedVersion int64, input PurchaseInput) (*facility.Asset, error) {
	d, err := s.resolver.Require(actor, identity.ModuleAssets, identity.ActionEdit, &id)
	if err != nil {
		return nil, maskDenial(d, err)
	}

	asset, err := s.assets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := asset.SetPurchase(input.Cost, input.PurchasedAt); err != nil {
		return nil, err
	}
	changes := map[string]any{
		"purchase_cost": input.Cost,
		"purchased_at":  input.PurchasedAt,
	}
	if input.VendorID != nil {
		vendor, err := s.vendors.FindByID(ctx, *input.VendorID)
		if err != nil {
			return nil, shared.ErrCrossTenantReference
		}
		if err := asset.AssignVendor(vendor); err != nil {
			return nil, err
		}
		changes["vendor_id"] = *input.VendorID
	}

	if err := s.assets.Update(ctx, asset, assertedVersion, changes); err != nil {
		return nil, err
	}
	s.record(ctx, "asset.purchase_recorded", d, asset.ID)
	return asset, nil
}

// Delete removes an asset
func (s *AssetService) Delete(ctx context.Context, actor *identity.User, id uuid.UUID) error {
	d, err := s.resolver.Require(actor, identity.ModuleAssets, identity.ActionDelete, &id)
	if err != nil {
		return maskDenial(d, err)
	}
	if err := s.assets.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "asset.deleted", d, id)
	return nil
}
