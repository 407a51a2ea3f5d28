package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/facilityos/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type scopedWidget struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string
}

func (scopedWidget) TableName() string { return "sites" }

type globalThing struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func (globalThing) TableName() string { return "roles" }

func setupDB(t *testing.T) (*TenantDB, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&scopedWidget{}, &globalThing{}))
	return NewTenantDB(db, ScopedTables()...), db
}

func tenantCtx(tenantID uuid.UUID) context.Context {
	ctx, _ := logger.WithTenantID(context.Background(), logger.FromContext(context.Background()), tenantID.String())
	return ctx
}

func TestCreateStampsTenantFromContext(t *testing.T) {
	tdb, _ := setupDB(t)
	tenantA := uuid.New()

	w := scopedWidget{ID: uuid.New(), Name: "hq"}
	require.NoError(t, tdb.WithContext(tenantCtx(tenantA)).Create(&w).Error)
	assert.Equal(t, tenantA, w.TenantID)
}

func TestCreateRejectsMismatchedTenant(t *testing.T) {
	tdb, _ := setupDB(t)
	tenantA := uuid.New()

	w := scopedWidget{ID: uuid.New(), TenantID: uuid.New(), Name: "rogue"}
	err := tdb.WithContext(tenantCtx(tenantA)).Create(&w).Error
	assert.ErrorIs(t, err, shared.ErrCrossTenantReference)
}

func TestCreateWithoutTenantFails(t *testing.T) {
	tdb, _ := setupDB(t)

	w := scopedWidget{ID: uuid.New(), Name: "orphan"}
	err := tdb.WithContext(context.Background()).Create(&w).Error
	assert.ErrorIs(t, err, shared.ErrTenantContextMissing)
}

func TestQueryFiltersByContextTenant(t *testing.T) {
	tdb, _ := setupDB(t)
	tenantA, tenantB := uuid.New(), uuid.New()

	require.NoError(t, tdb.WithContext(tenantCtx(tenantA)).Create(&scopedWidget{ID: uuid.New(), Name: "a1"}).Error)
	require.NoError(t, tdb.WithContext(tenantCtx(tenantA)).Create(&scopedWidget{ID: uuid.New(), Name: "a2"}).Error)
	require.NoError(t, tdb.WithContext(tenantCtx(tenantB)).Create(&scopedWidget{ID: uuid.New(), Name: "b1"}).Error)

	var got []scopedWidget
	require.NoError(t, tdb.WithContext(tenantCtx(tenantA)).Find(&got).Error)
	assert.Len(t, got, 2)
	for _, w := range got {
		assert.Equal(t, tenantA, w.TenantID)
	}
}

func TestQueryWithoutTenantFails(t *testing.T) {
	tdb, _ := setupDB(t)

	var got []scopedWidget
	err := tdb.WithContext(context.Background()).Find(&got).Error
	assert.ErrorIs(t, err, shared.ErrTenantContextMissing)
}

func TestUpdateCannotReachOtherTenant(t *testing.T) {
	tdb, _ := setupDB(t)
	tenantA, tenantB := uuid.New(), uuid.New()

	foreign := scopedWidget{ID: uuid.New(), Name: "theirs"}
	require.NoError(t, tdb.WithContext(tenantCtx(tenantB)).Create(&foreign).Error)

	res := tdb.WithContext(tenantCtx(tenantA)).
		Model(&scopedWidget{}).
		Where("id = ?", foreign.ID).
		Update("name", "mine now")
	require.NoError(t, res.Error)
	assert.Equal(t, int64(0), res.RowsAffected)

	var check scopedWidget
	require.NoError(t, tdb.WithContext(tenantCtx(tenantB)).First(&check, "id = ?", foreign.ID).Error)
	assert.Equal(t, "theirs", check.Name)
}

func TestDeleteScopedToTenant(t *testing.T) {
	tdb, _ := setupDB(t)
	tenantA, tenantB := uuid.New(), uuid.New()

	foreign := scopedWidget{ID: uuid.New(), Name: "keep"}
	require.NoError(t, tdb.WithContext(tenantCtx(tenantB)).Create(&foreign).Error)

	res := tdb.WithContext(tenantCtx(tenantA)).Delete(&scopedWidget{}, "id = ?", foreign.ID)
	require.NoError(t, res.Error)
	assert.Equal(t, int64(0), res.RowsAffected)

	var count int64
	require.NoError(t, tdb.WithContext(tenantCtx(tenantB)).Model(&scopedWidget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHandleReusableAcrossStatements(t *testing.T) {
	tdb, _ := setupDB(t)
	tenantA := uuid.New()

	first := scopedWidget{ID: uuid.New(), Name: "first"}
	second := scopedWidget{ID: uuid.New(), Name: "second"}
	require.NoError(t, tdb.WithContext(tenantCtx(tenantA)).Create(&first).Error)
	require.NoError(t, tdb.WithContext(tenantCtx(tenantA)).Create(&second).Error)

	db := tdb.WithContext(tenantCtx(tenantA))

	var one scopedWidget
	require.NoError(t, db.First(&one, "id = ?", first.ID).Error)

	// the id condition above must not carry into the next statement
	var got []scopedWidget
	require.NoError(t, db.Find(&got).Error)
	assert.Len(t, got, 2)

	res := db.Model(&scopedWidget{}).Where("id = ?", second.ID).Update("name", "renamed")
	require.NoError(t, res.Error)
	assert.Equal(t, int64(1), res.RowsAffected)

	var check scopedWidget
	require.NoError(t, db.First(&check, "id = ?", second.ID).Error)
	assert.Equal(t, "renamed", check.Name)
}

func TestExplicitOverrideStillFilters(t *testing.T) {
	tdb, _ := setupDB(t)
	tenantA, tenantB := uuid.New(), uuid.New()

	require.NoError(t, tdb.WithContext(tenantCtx(tenantA)).Create(&scopedWidget{ID: uuid.New(), Name: "a"}).Error)
	require.NoError(t, tdb.WithContext(tenantCtx(tenantB)).Create(&scopedWidget{ID: uuid.New(), Name: "b"}).Error)

	// carrier says tenantA, override redirects to tenantB
	var got []scopedWidget
	require.NoError(t, tdb.WithTenant(tenantCtx(tenantA), tenantB).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, tenantB, got[0].TenantID)
}

func TestOverrideWithNilTenantFails(t *testing.T) {
	tdb, _ := setupDB(t)

	var got []scopedWidget
	err := tdb.WithTenant(context.Background(), uuid.Nil).Find(&got).Error
	assert.ErrorIs(t, err, shared.ErrTenantContextMissing)
}

func TestUnscopedTablesPassThrough(t *testing.T) {
	tdb, _ := setupDB(t)

	// no tenant in context, yet global tables work
	g := globalThing{ID: uuid.New(), Name: "Admin"}
	require.NoError(t, tdb.Unscoped().WithContext(context.Background()).Create(&g).Error)

	var got []globalThing
	require.NoError(t, tdb.Unscoped().WithContext(context.Background()).Find(&got).Error)
	assert.Len(t, got, 1)
}

func TestTransactionRequiresTenant(t *testing.T) {
	tdb, _ := setupDB(t)

	err := tdb.Transaction(context.Background(), func(tx *gorm.DB) error { return nil })
	assert.ErrorIs(t, err, shared.ErrTenantContextMissing)
}

func TestTransactionScopesCallback(t *testing.T) {
	tdb, _ := setupDB(t)
	tenantA, tenantB := uuid.New(), uuid.New()

	require.NoError(t, tdb.WithContext(tenantCtx(tenantA)).Create(&scopedWidget{ID: uuid.New(), Name: "a"}).Error)
	require.NoError(t, tdb.WithContext(tenantCtx(tenantB)).Create(&scopedWidget{ID: uuid.New(), Name: "b"}).Error)

	err := tdb.Transaction(tenantCtx(tenantA), func(tx *gorm.DB) error {
		var got []scopedWidget
		if err := tx.Find(&got).Error; err != nil {
			return err
		}
		if len(got) != 1 || got[0].TenantID != tenantA {
			return errors.New("transaction leaked across tenants")
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestResolvePrecedence(t *testing.T) {
	carrier, override := uuid.New(), uuid.New()

	ctx := tenantCtx(carrier)
	got, ok := Resolve(ctx)
	require.True(t, ok)
	assert.Equal(t, carrier, got)

	got, ok = Resolve(WithOverride(ctx, override))
	require.True(t, ok)
	assert.Equal(t, override, got)

	_, ok = Resolve(context.Background())
	assert.False(t, ok)
}
