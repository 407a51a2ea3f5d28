package facility

import (
	"context"
	"testing"

	"github.com/facilityos/backend/internal/application/access"
	identitydomain "github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type siteFixture struct {
	svc    *SiteService
	sites  *fakeSiteRepo
	tenant uuid.UUID
}

func newSiteFixture(t *testing.T) *siteFixture {
	t.Helper()
	sites := newFakeSiteRepo()
	svc := NewSiteService(sites, access.NewResolver(), &recordingAudit{}, zap.NewNop())
	return &siteFixture{svc: svc, sites: sites, tenant: uuid.New()}
}

func (f *siteFixture) admin(t *testing.T) *identitydomain.User {
	t.Helper()
	u, err := identitydomain.NewUser(f.tenant, uuid.NewString()+"@acme.test", "Admin", "password-1", 4)
	require.NoError(t, err)
	role, err := identitydomain.NewRole(identitydomain.AdminRoleName)
	require.NoError(t, err)
	require.NoError(t, u.AssignRole(*role))
	return u
}

func TestSiteHierarchyCreation(t *testing.T) {
	f := newSiteFixture(t)
	admin := f.admin(t)
	ctx := context.Background()

	site, err := f.svc.Create(ctx, admin, CreateSiteInput{Name: "HQ Campus", City: "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, f.tenant, site.TenantID)

	building, err := f.svc.AddBuilding(ctx, admin, CreateBuildingInput{SiteID: site.ID, Name: "Tower A"})
	require.NoError(t, err)
	assert.Equal(t, site.ID, building.SiteID)

	floor, err := f.svc.AddFloor(ctx, admin, CreateFloorInput{BuildingID: building.ID, Level: 3, Name: "R&D"})
	require.NoError(t, err)
	assert.Equal(t, building.ID, floor.BuildingID)

	floors, err := f.svc.Floors(ctx, admin, building.ID)
	require.NoError(t, err)
	assert.Len(t, floors, 1)
}

func TestSiteAddBuildingUnknownSite(t *testing.T) {
	f := newSiteFixture(t)
	admin := f.admin(t)

	_, err := f.svc.AddBuilding(context.Background(), admin, CreateBuildingInput{SiteID: uuid.New(), Name: "Orphan"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSiteUpdateRename(t *testing.T) {
	f := newSiteFixture(t)
	admin := f.admin(t)
	ctx := context.Background()

	site, err := f.svc.Create(ctx, admin, CreateSiteInput{Name: "Old Name"})
	require.NoError(t, err)

	name := "New Name"
	updated, err := f.svc.Update(ctx, admin, site.ID, site.Version, UpdateSiteInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, site.Version+1, updated.Version)
}

func TestSiteUpdateNoChangesIsNoop(t *testing.T) {
	f := newSiteFixture(t)
	admin := f.admin(t)
	ctx := context.Background()

	site, err := f.svc.Create(ctx, admin, CreateSiteInput{Name: "Depot"})
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, admin, site.ID, site.Version, UpdateSiteInput{})
	require.NoError(t, err)
	assert.Equal(t, site.Version, got.Version)
}
