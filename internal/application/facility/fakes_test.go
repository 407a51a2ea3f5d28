package facility

import (
	"context"
	"sync"

	domain "github.com/facilityos/backend/internal/domain/facility"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// filterAdmits mirrors how the real repositories apply the filter's ID
// constraints inside the query.
func filterAdmits(filter shared.Filter, id uuid.UUID) bool {
	if len(filter.IncludeIDs) > 0 {
		found := false
		for _, in := range filter.IncludeIDs {
			if in == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, ex := range filter.ExcludeIDs {
		if ex == id {
			return false
		}
	}
	return true
}

type fakeAssetRepo struct {
	mu     sync.Mutex
	assets map[uuid.UUID]*domain.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[uuid.UUID]*domain.Asset)}
}

func (r *fakeAssetRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssetRepo) FindAll(_ context.Context, filter shared.Filter) ([]domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		if filterAdmits(filter, a.ID) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) Count(_ context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id := range r.assets {
		if filterAdmits(filter, id) {
			n++
		}
	}
	return n, nil
}

func (r *fakeAssetRepo) Create(_ context.Context, a *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *fakeAssetRepo) Update(_ context.Context, a *domain.Asset, assertedVersion int64, changes map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.assets[a.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != assertedVersion {
		return shared.NewVersionConflictError(assertedVersion, stored.Version)
	}
	if name, ok := changes["name"].(string); ok {
		stored.Name = name
	}
	if cat, ok := changes["category"].(string); ok {
		stored.Category = cat
	}
	if status, ok := changes["status"].(string); ok {
		stored.Status = domain.AssetStatus(status)
	}
	stored.Version = assertedVersion + 1
	*a = *stored
	return nil
}

func (r *fakeAssetRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.assets, id)
	return nil
}

type fakeSiteRepo struct {
	mu        sync.Mutex
	sites     map[uuid.UUID]*domain.Site
	buildings map[uuid.UUID]*domain.Building
	floors    map[uuid.UUID]*domain.Floor
}

func newFakeSiteRepo() *fakeSiteRepo {
	return &fakeSiteRepo{
		sites:     make(map[uuid.UUID]*domain.Site),
		buildings: make(map[uuid.UUID]*domain.Building),
		floors:    make(map[uuid.UUID]*domain.Floor),
	}
}

func (r *fakeSiteRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSiteRepo) FindAll(_ context.Context, filter shared.Filter) ([]domain.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Site, 0, len(r.sites))
	for _, s := range r.sites {
		if filterAdmits(filter, s.ID) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSiteRepo) Count(_ context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id := range r.sites {
		if filterAdmits(filter, id) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSiteRepo) Create(_ context.Context, s *domain.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sites[s.ID] = &cp
	return nil
}

func (r *fakeSiteRepo) Update(_ context.Context, s *domain.Site, assertedVersion int64, changes map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sites[s.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != assertedVersion {
		return shared.NewVersionConflictError(assertedVersion, stored.Version)
	}
	if name, ok := changes["name"].(string); ok {
		stored.Name = name
	}
	stored.Version = assertedVersion + 1
	*s = *stored
	return nil
}

func (r *fakeSiteRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sites[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.sites, id)
	return nil
}

func (r *fakeSiteRepo) CreateBuilding(_ context.Context, b *domain.Building) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.buildings[b.ID] = &cp
	return nil
}

func (r *fakeSiteRepo) FindBuildings(_ context.Context, siteID uuid.UUID) ([]domain.Building, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Building
	for _, b := range r.buildings {
		if b.SiteID == siteID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeSiteRepo) FindBuildingByID(_ context.Context, id uuid.UUID) (*domain.Building, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buildings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeSiteRepo) CreateFloor(_ context.Context, f *domain.Floor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.floors[f.ID] = &cp
	return nil
}

func (r *fakeSiteRepo) FindFloors(_ context.Context, buildingID uuid.UUID) ([]domain.Floor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Floor
	for _, f := range r.floors {
		if f.BuildingID == buildingID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeSiteRepo) FindFloorByID(_ context.Context, id uuid.UUID) (*domain.Floor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.floors[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

type fakeVendorRepo struct {
	mu      sync.Mutex
	vendors map[uuid.UUID]*domain.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: make(map[uuid.UUID]*domain.Vendor)}
}

func (r *fakeVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVendorRepo) FindAll(_ context.Context, filter shared.Filter) ([]domain.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		if filterAdmits(filter, v.ID) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVendorRepo) Create(_ context.Context, v *domain.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.vendors[v.ID] = &cp
	return nil
}

func (r *fakeVendorRepo) Update(_ context.Context, v *domain.Vendor, assertedVersion int64, changes map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.vendors[v.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != assertedVersion {
		return shared.NewVersionConflictError(assertedVersion, stored.Version)
	}
	if approved, ok := changes["is_approved"].(bool); ok {
		stored.IsApproved = approved
	}
	stored.Version = assertedVersion + 1
	*v = *stored
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []string
}

func (a *recordingAudit) Record(_ context.Context, event string, _ map[string]any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}
