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

// VendorService implements the vendor module operations
type VendorService struct {
	vendors  facility.VendorRepository
	resolver *access.Resolver
	logger   *zap.Logger
}

// NewVendorService creates a new VendorService
func NewVendorService(vendors facility.VendorRepository, resolver *access.Resolver, logger *zap.Logger) *VendorService {
	return &VendorService{vendors: vendors, resolver: resolver, logger: logger}
}

// Get returns one vendor the principal may view
func (s *VendorService) Get(ctx context.Context, actor *identity.User, id uuid.UUID) (*facility.Vendor, error) {
	d, err := s.resolver.Require(actor, identity.ModuleVendors, identity.ActionView, &id)
	if err != nil {
		return nil, maskDenial(d, err)
	}
	return s.vendors.FindByID(ctx, id)
}

// List returns vendors inside the principal's scope
func (s *VendorService) List(ctx context.Context, actor *identity.User, filter shared.Filter) ([]facility.Vendor, error) {
	scope := s.resolver.ScopeFor(actor, identity.ModuleVendors, identity.ActionView)
	if !scope.All && len(scope.Include) == 0 {
		return []facility.Vendor{}, nil
	}

	vendors, err := s.vendors.FindAll(ctx, scope.Narrow(filter))
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

// Create registers a new vendor for the principal's tenant
func (s *VendorService) Create(ctx context.Context, actor *identity.User, input CreateVendorInput) (*facility.Vendor, error) {
	if _, err := s.resolver.Require(actor, identity.ModuleVendors, identity.ActionCreate, nil); err != nil {
		return nil, err
	}

	vendor, err := facility.NewVendor(actor.TenantID, input.Name, input.ContactEmail)
	if err != nil {
		return nil, err
	}
	vendor.Phone = input.Phone
	vendor.CreatedBy = &actor.ID

	if err := s.vendors.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Approve marks a vendor as approved for purchasing
func (s *VendorService) Approve(ctx context.Context, actor *identity.User, id uuid.UUID, assertedVersion int64) (*facility.Vendor, error) {
	d, err := s.resolver.Require(actor, identity.ModuleVendors, identity.ActionEdit, &id)
	if err != nil {
		return nil, maskDenial(d, err)
	}

	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := vendor.Approve(); err != nil {
		return nil, err
	}
	if err := s.vendors.Update(ctx, vendor, assertedVersion, map[string]any{"is_approved": true}); err != nil {
		return nil, err
	}
	return vendor, nil
}
