package persistence

import (
	"context"
	"testing"

	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *GormUserRepository, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(uuid.New(), email, "Dana", "s3cret-pass", 4)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), u))
	return u
}

func TestUserFindByEmailLoadsRolesAndGrants(t *testing.T) {
	db, _ := openTestDB(t)
	users := NewGormUserRepository(db)
	roles := NewGormRoleRepository(db)

	role, err := identity.NewRole("Technician")
	require.NoError(t, err)
	require.NoError(t, role.SetPermission(identity.ModuleAssets, identity.PermissionSet{View: true, Edit: true}))
	require.NoError(t, roles.Save(context.Background(), role))

	u := seedUser(t, users, "dana@acme.test")
	require.NoError(t, u.AssignRole(*role))
	require.NoError(t, users.Save(context.Background(), u))

	assetID := uuid.New()
	grant, err := identity.NewResourceGrant(u.ID, identity.ModuleAssets, assetID, identity.FullAccess(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, users.SaveGrant(context.Background(), grant))

	got, err := users.FindByEmail(context.Background(), "DANA@acme.test")
	require.NoError(t, err)
	require.Len(t, got.Roles, 1)
	require.Len(t, got.Roles[0].Permissions, 1)
	assert.True(t, got.Roles[0].Allows(identity.ModuleAssets, identity.ActionEdit))
	require.Len(t, got.Grants, 1)
	assert.Equal(t, assetID, got.Grants[0].ResourceID)
}

func TestSaveGrantReplacesTuple(t *testing.T) {
	db, _ := openTestDB(t)
	users := NewGormUserRepository(db)
	u := seedUser(t, users, "lee@acme.test")

	assetID := uuid.New()
	first, err := identity.NewResourceGrant(u.ID, identity.ModuleAssets, assetID, identity.ReadOnly(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, users.SaveGrant(context.Background(), first))

	second, err := identity.NewResourceGrant(u.ID, identity.ModuleAssets, assetID, identity.FullAccess(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, users.SaveGrant(context.Background(), second))

	got, err := users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, got.Grants, 1)
	assert.True(t, got.Grants[0].Allows(identity.ActionDelete))
}

func TestDeleteGrant(t *testing.T) {
	db, _ := openTestDB(t)
	users := NewGormUserRepository(db)
	u := seedUser(t, users, "kim@acme.test")

	assetID := uuid.New()
	grant, err := identity.NewResourceGrant(u.ID, identity.ModuleAssets, assetID, identity.ReadOnly(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, users.SaveGrant(context.Background(), grant))

	require.NoError(t, users.DeleteGrant(context.Background(), u.ID, identity.ModuleAssets, assetID))
	err = users.DeleteGrant(context.Background(), u.ID, identity.ModuleAssets, assetID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRoleSavePrunesRemovedModules(t *testing.T) {
	db, _ := openTestDB(t)
	roles := NewGormRoleRepository(db)

	role, err := identity.NewRole("Auditor")
	require.NoError(t, err)
	require.NoError(t, role.SetPermission(identity.ModuleAssets, identity.ReadOnly()))
	require.NoError(t, role.SetPermission(identity.ModuleSites, identity.ReadOnly()))
	require.NoError(t, roles.Save(context.Background(), role))

	require.NoError(t, role.RemovePermission(identity.ModuleSites))
	require.NoError(t, roles.Save(context.Background(), role))

	got, err := roles.FindByName(context.Background(), "Auditor")
	require.NoError(t, err)
	require.Len(t, got.Permissions, 1)
	assert.Equal(t, identity.ModuleAssets, got.Permissions[0].Module)
}
