package persistence

import (
	"context"
	"testing"

	"github.com/facilityos/backend/internal/domain/facility"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAsset(t *testing.T, repo *GormAssetRepository, tenantID uuid.UUID, tag string) *facility.Asset {
	t.Helper()
	a, err := facility.NewAsset(tenantID, tag, "Air handler "+tag)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctxForTenant(tenantID), a))
	return a
}

func TestAssetRepositoryTenantIsolation(t *testing.T) {
	_, tdb := openTestDB(t)
	repo := NewGormAssetRepository(tdb)
	tenantA, tenantB := uuid.New(), uuid.New()

	mine := seedAsset(t, repo, tenantA, "AHU-001")
	theirs := seedAsset(t, repo, tenantB, "AHU-002")

	got, err := repo.FindByID(ctxForTenant(tenantA), mine.ID)
	require.NoError(t, err)
	assert.Equal(t, tenantA, got.TenantID)

	_, err = repo.FindByID(ctxForTenant(tenantA), theirs.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	all, err := repo.FindAll(ctxForTenant(tenantA), shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAssetRepositoryRequiresTenant(t *testing.T) {
	_, tdb := openTestDB(t)
	repo := NewGormAssetRepository(tdb)

	_, err := repo.FindAll(context.Background(), shared.DefaultFilter())
	assert.ErrorIs(t, err, shared.ErrTenantContextMissing)
}

func TestAssetRepositoryGuardedUpdate(t *testing.T) {
	_, tdb := openTestDB(t)
	repo := NewGormAssetRepository(tdb)
	tenantA := uuid.New()
	ctx := ctxForTenant(tenantA)

	a := seedAsset(t, repo, tenantA, "GEN-001")
	require.Equal(t, int64(1), a.Version)

	err := repo.Update(ctx, a, 1, map[string]any{
		"name":          "Backup generator",
		"purchase_cost": decimal.NewFromInt(25000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.Version)
	assert.Equal(t, "Backup generator", a.Name)

	// a writer holding the old version loses
	err = repo.Update(ctx, a, 1, map[string]any{"name": "stale"})
	require.Error(t, err)
	var vc *shared.VersionConflictError
	require.ErrorAs(t, err, &vc)
	assert.Equal(t, int64(2), vc.Current)
}

func TestAssetRepositoryUpdateCannotCrossTenants(t *testing.T) {
	_, tdb := openTestDB(t)
	repo := NewGormAssetRepository(tdb)
	tenantA, tenantB := uuid.New(), uuid.New()

	theirs := seedAsset(t, repo, tenantB, "CH-001")

	// from tenantA's view the record does not exist at all
	err := repo.Update(ctxForTenant(tenantA), theirs, theirs.Version, map[string]any{"name": "hijack"})
	assert.Error(t, err)

	got, err := repo.FindByID(ctxForTenant(tenantB), theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, "Air handler CH-001", got.Name)
}

func TestAssetRepositoryExcludedIDsLeaveFullPages(t *testing.T) {
	_, tdb := openTestDB(t)
	repo := NewGormAssetRepository(tdb)
	tenantA := uuid.New()
	ctx := ctxForTenant(tenantA)

	// the excluded asset sorts first; in-query exclusion must still
	// yield a full first page and a matching total
	hidden := seedAsset(t, repo, tenantA, "PMP-000")
	seedAsset(t, repo, tenantA, "PMP-001")
	seedAsset(t, repo, tenantA, "PMP-002")
	seedAsset(t, repo, tenantA, "PMP-003")

	filter := shared.DefaultFilter()
	filter.OrderBy = "tag"
	filter.OrderDir = "asc"
	filter.PageSize = 2
	filter.ExcludeIDs = []uuid.UUID{hidden.ID}

	page, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "PMP-001", page[0].Tag)
	assert.Equal(t, "PMP-002", page[1].Tag)

	total, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestAssetRepositoryIncludedIDsPaginate(t *testing.T) {
	_, tdb := openTestDB(t)
	repo := NewGormAssetRepository(tdb)
	tenantA := uuid.New()
	ctx := ctxForTenant(tenantA)

	a1 := seedAsset(t, repo, tenantA, "CH-001")
	a2 := seedAsset(t, repo, tenantA, "CH-002")
	a3 := seedAsset(t, repo, tenantA, "CH-003")
	seedAsset(t, repo, tenantA, "CH-004")

	filter := shared.DefaultFilter()
	filter.OrderBy = "tag"
	filter.OrderDir = "asc"
	filter.PageSize = 2
	filter.IncludeIDs = []uuid.UUID{a1.ID, a2.ID, a3.ID}

	page, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, a1.ID, page[0].ID)
	assert.Equal(t, a2.ID, page[1].ID)

	total, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestAssetRepositoryDelete(t *testing.T) {
	_, tdb := openTestDB(t)
	repo := NewGormAssetRepository(tdb)
	tenantA, tenantB := uuid.New(), uuid.New()

	theirs := seedAsset(t, repo, tenantB, "ELV-001")

	err := repo.Delete(ctxForTenant(tenantA), theirs.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.Delete(ctxForTenant(tenantB), theirs.ID))
}
