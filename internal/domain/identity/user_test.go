package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser(uuid.New(), "pat@example.com", "Pat", "s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	return u
}

func TestNewUser(t *testing.T) {
	u := newTestUser(t)
	assert.Equal(t, "pat@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))

	_, err := NewUser(uuid.New(), "not-an-email", "Pat", "s3cret-pass", bcrypt.MinCost)
	assert.Error(t, err)

	_, err = NewUser(uuid.New(), "pat@example.com", "Pat", "short", bcrypt.MinCost)
	assert.Error(t, err)

	_, err = NewUser(uuid.Nil, "pat@example.com", "Pat", "s3cret-pass", bcrypt.MinCost)
	assert.Error(t, err)
}

func TestUserIsAdmin(t *testing.T) {
	u := newTestUser(t)
	assert.False(t, u.IsAdmin())

	admin, _ := NewRole(AdminRoleName)
	require.NoError(t, u.AssignRole(*admin))
	assert.True(t, u.IsAdmin())
}

func TestUserAssignRevokeRole(t *testing.T) {
	u := newTestUser(t)
	role, _ := NewRole("Contractor")

	require.NoError(t, u.AssignRole(*role))
	assert.Error(t, u.AssignRole(*role))

	require.NoError(t, u.RevokeRole(role.ID))
	assert.Error(t, u.RevokeRole(role.ID))
}

func TestUserGrantFor(t *testing.T) {
	u := newTestUser(t)
	assetID := uuid.New()

	grant, err := NewResourceGrant(u.ID, ModuleAssets, assetID, ReadOnly(), uuid.New())
	require.NoError(t, err)
	u.Grants = append(u.Grants, *grant)

	found := u.GrantFor(ModuleAssets, assetID)
	require.NotNil(t, found)
	assert.True(t, found.Allows(ActionView))

	assert.Nil(t, u.GrantFor(ModuleAssets, uuid.New()))
	assert.Nil(t, u.GrantFor(ModuleDocuments, assetID))
}

func TestNewResourceGrantDeniesWithEmptyTuple(t *testing.T) {
	u := newTestUser(t)
	assetID := uuid.New()

	grant, err := NewResourceGrant(u.ID, ModuleAssets, assetID, PermissionSet{}, uuid.New())
	require.NoError(t, err)
	u.Grants = append(u.Grants, *grant)

	found := u.GrantFor(ModuleAssets, assetID)
	require.NotNil(t, found)
	for _, action := range []string{ActionView, ActionCreate, ActionEdit, ActionDelete} {
		assert.False(t, found.Allows(action), action)
	}
}

func TestNewResourceGrantValidation(t *testing.T) {
	_, err := NewResourceGrant(uuid.New(), "widgets", uuid.New(), ReadOnly(), uuid.New())
	assert.Error(t, err, "unknown resource type")

	_, err = NewResourceGrant(uuid.Nil, ModuleAssets, uuid.New(), ReadOnly(), uuid.New())
	assert.Error(t, err)
}
