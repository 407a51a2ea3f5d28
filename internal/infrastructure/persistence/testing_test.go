package persistence

import (
	"context"
	"testing"

	"github.com/facilityos/backend/internal/domain/facility"
	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/infrastructure/logger"
	"github.com/facilityos/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) (*gorm.DB, *tenant.TenantDB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and serializes
	// concurrent test writers
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&identity.Tenant{},
		&identity.Role{},
		&identity.ModulePermission{},
		&identity.User{},
		&identity.ResourceGrant{},
		&identity.Session{},
		&facility.Site{},
		&facility.Building{},
		&facility.Floor{},
		&facility.Asset{},
		&facility.Document{},
		&facility.Vendor{},
	))
	return db, tenant.NewTenantDB(db, tenant.ScopedTables()...)
}

func ctxForTenant(tenantID uuid.UUID) context.Context {
	ctx, _ := logger.WithTenantID(context.Background(), logger.FromContext(context.Background()), tenantID.String())
	return ctx
}
