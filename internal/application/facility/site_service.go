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

// SiteService implements the site module operations, including the
// building and floor hierarchy beneath each site
type SiteService struct {
	sites    facility.SiteRepository
	resolver *access.Resolver
	audit    facility.AuditSink
	logger   *zap.Logger
}

// NewSiteService creates a new SiteService
func NewSiteService(
	sites facility.SiteRepository,
	resolver *access.Resolver,
	audit facility.AuditSink,
	logger *zap.Logger,
) *SiteService {
	return &SiteService{sites: sites, resolver: resolver, audit: audit, logger: logger}
}

func (s *SiteService) record(ctx context.Context, event string, d access.Decision, id uuid.UUID) {
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

// Get returns one site the principal may view
func (s *SiteService) Get(ctx context.Context, actor *identity.User, id uuid.UUID) (*facility.Site, error) {
	d, err := s.resolver.Require(actor, identity.ModuleSites, identity.ActionView, &id)
	if err != nil {
		return nil, maskDenial(d, err)
	}
	return s.sites.FindByID(ctx, id)
}

// List returns the page of sites inside the principal's scope
func (s *SiteService) List(ctx context.Context, actor *identity.User, filter shared.Filter) (*shared.Paginated[facility.Site], error) {
	scope := s.resolver.ScopeFor(actor, identity.ModuleSites, identity.ActionView)
	if !scope.All && len(scope.Include) == 0 {
		empty := shared.NewPaginated([]facility.Site{}, 0, filter.Page, filter.PageSize)
		return &empty, nil
	}
	filter = scope.Narrow(filter)

	sites, err := s.sites.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.sites.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(sites, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Create registers a new site for the principal's tenant
func (s *SiteService) Create(ctx context.Context, actor *identity.User, input CreateSiteInput) (*facility.Site, error) {
	d, err := s.resolver.Require(actor, identity.ModuleSites, identity.ActionCreate, nil)
	if err != nil {
		return nil, err
	}

	site, err := facility.NewSite(actor.TenantID, input.Name, input.Address)
	if err != nil {
		return nil, err
	}
	site.City = input.City
	site.Country = input.Country
	site.CreatedBy = &actor.ID

	if err := s.sites.Create(ctx, site); err != nil {
		return nil, err
	}
	s.record(ctx, "site.created", d, site.ID)
	return site, nil
}

// Update applies a guarded partial update to a site
func (s *SiteService) Update(ctx context.Context, actor *identity.User, id uuid.UUID, assertedVersion int64, input UpdateSiteInput) (*facility.Site, error) {
	d, err := s.resolver.Require(actor, identity.ModuleSites, identity.ActionEdit, &id)
	if err != nil {
		return nil, maskDenial(d, err)
	}

	site, err := s.sites.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if input.Name != nil {
		if err := site.Rename(*input.Name); err != nil {
			return nil, err
		}
		changes["name"] = site.Name
	}
	if input.Address != nil {
		changes["address"] = *input.Address
	}
	if input.City != nil {
		changes["city"] = *input.City
	}
	if input.Country != nil {
		changes["country"] = *input.Country
	}
	if len(changes) == 0 {
		return site, nil
	}

	if err := s.sites.Update(ctx, site, assertedVersion, changes); err != nil {
		return nil, err
	}
	s.record(ctx, "site.updated", d, site.ID)
	return site, nil
}

// Delete removes a site
func (s *SiteService) Delete(ctx context.Context, actor *identity.User, id uuid.UUID) error {
	d, err := s.resolver.Require(actor, identity.ModuleSites, identity.ActionDelete, &id)
	if err != nil {
		return maskDenial(d, err)
	}
	if err := s.sites.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "site.deleted", d, id)
	return nil
}

// AddBuilding creates a building under a site of the same tenant
func (s *SiteService) AddBuilding(ctx context.Context, actor *identity.User, input CreateBuildingInput) (*facility.Building, error) {
	d, err := s.resolver.Require(actor, identity.ModuleBuildings, identity.ActionCreate, nil)
	if err != nil {
		return nil, err
	}

	site, err := s.sites.FindByID(ctx, input.SiteID)
	if err != nil {
		return nil, err
	}
	building, err := facility.NewBuilding(actor.TenantID, site, input.Name)
	if err != nil {
		return nil, err
	}
	building.CreatedBy = &actor.ID

	if err := s.sites.CreateBuilding(ctx, building); err != nil {
		return nil, err
	}
	s.record(ctx, "building.created", d, building.ID)
	return building, nil
}

// Buildings lists the buildings of a site
func (s *SiteService) Buildings(ctx context.Context, actor *identity.User, siteID uuid.UUID) ([]facility.Building, error) {
	if _, err := s.resolver.Require(actor, identity.ModuleBuildings, identity.ActionView, nil); err != nil {
		return nil, err
	}
	return s.sites.FindBuildings(ctx, siteID)
}

// AddFloor creates a floor under a building of the same tenant
func (s *SiteService) AddFloor(ctx context.Context, actor *identity.User, input CreateFloorInput) (*facility.Floor, error) {
	d, err := s.resolver.Require(actor, identity.ModuleFloors, identity.ActionCreate, nil)
	if err != nil {
		return nil, err
	}

	building, err := s.sites.FindBuildingByID(ctx, input.BuildingID)
	if err != nil {
		return nil, err
	}
	floor, err := facility.NewFloor(actor.TenantID, building, input.Level, input.Name)
	if err != nil {
		return nil, err
	}
	floor.CreatedBy = &actor.ID

	if err := s.sites.CreateFloor(ctx, floor); err != nil {
		return nil, err
	}
	s.record(ctx, "floor.created", d, floor.ID)
	return floor, nil
}

// Floors lists the floors of a building
func (s *SiteService) Floors(ctx context.Context, actor *identity.User, buildingID uuid.UUID) ([]facility.Floor, error) {
	if _, err := s.resolver.Require(actor, identity.ModuleFloors, identity.ActionView, nil); err != nil {
		return nil, err
	}
	return s.sites.FindFloors(ctx, buildingID)
}
