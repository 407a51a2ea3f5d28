// Package tenant provides multi-tenant database scoping for GORM.
//
// It is the single data-access surface for tenant-scoped entities: a
// decorator around the GORM client plus callbacks that inject
// WHERE tenant_id = ? into every read, update and delete, and stamp
// tenant_id on create. The tenant is resolved from the request context;
// an explicit per-call override exists for supervised cross-tenant
// administrative flows, and that override still injects the filter.
// There is no call form that skips tenant filtering for scoped tables.
//
// Usage:
//
//	db := tenant.NewTenantDB(gormDB)
//	db.WithContext(ctx).Find(&assets) // WHERE tenant_id = '...' is auto-added
package tenant

import (
	"context"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/facilityos/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidTenantID is returned when the tenant identifier is not a UUID
var ErrInvalidTenantID = shared.NewDomainError("INVALID_TENANT_ID", "Invalid tenant identifier format")

// overrideKey carries an explicit tenant override through the context
type overrideKey struct{}

// WithOverride returns a context carrying an explicit tenant override for
// supervised cross-tenant administrative flows. The override takes
// precedence over the carrier but is still injected as a filter; it never
// disables isolation.
func WithOverride(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, overrideKey{}, tenantID)
}

// OverrideFromContext returns the explicit tenant override, if any
func OverrideFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(overrideKey{}).(uuid.UUID)
	return id, ok
}

// Resolve returns the tenant for the given context: explicit override
// first, then the request carrier. The second result reports whether a
// tenant resolved at all.
func Resolve(ctx context.Context) (uuid.UUID, bool) {
	if id, ok := OverrideFromContext(ctx); ok && id != uuid.Nil {
		return id, true
	}
	if raw := logger.GetTenantID(ctx); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

// TenantDB wraps GORM DB with automatic tenant scoping
type TenantDB struct {
	db           *gorm.DB
	tenantColumn string
}

// NewTenantDB creates a new TenantDB and registers the isolation callbacks
// for the given scoped tables. Tables outside the set (global roles,
// identity infrastructure) are not intercepted.
func NewTenantDB(db *gorm.DB, scopedTables ...string) *TenantDB {
	cb := newCallback("tenant_id", scopedTables)
	cb.register(db)
	return &TenantDB{
		db:           db,
		tenantColumn: "tenant_id",
	}
}

// WithContext returns a GORM DB scoped to the tenant resolved from context.
// If no tenant resolves, the returned DB errors on any operation with
// TenantContextMissing; the query is never executed.
//
// The returned handle is a reusable session: conditions added by one
// statement do not leak into the next, so callers may run several
// queries off the same handle.
func (t *TenantDB) WithContext(ctx context.Context) *gorm.DB {
	tenantID, ok := Resolve(ctx)
	if !ok {
		db := t.db.WithContext(ctx)
		_ = db.AddError(shared.ErrTenantContextMissing)
		return db
	}
	return t.scoped(t.db.WithContext(ctx), tenantID)
}

// WithTenant returns a GORM DB scoped to an explicitly supplied tenant.
// This is the supervised escape hatch for trusted cross-tenant
// administrative flows: it bypasses carrier resolution but still enforces
// the same filter injection.
func (t *TenantDB) WithTenant(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	if tenantID == uuid.Nil {
		db := t.db.WithContext(ctx)
		_ = db.AddError(shared.ErrTenantContextMissing)
		return db
	}
	return t.scoped(t.db.WithContext(WithOverride(ctx, tenantID)), tenantID)
}

// scoped pins the tenant filter and promotes the handle to a new session,
// so every statement derived from it starts from the filter alone instead
// of accumulating the previous statement's conditions.
func (t *TenantDB) scoped(db *gorm.DB, tenantID uuid.UUID) *gorm.DB {
	return db.Where(t.tenantColumn+" = ?", tenantID).Session(&gorm.Session{})
}

// Transaction executes a function within a transaction scoped to the
// context tenant. The callback receives an already-scoped handle.
func (t *TenantDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tenantID, ok := Resolve(ctx)
	if !ok {
		return shared.ErrTenantContextMissing
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(t.scoped(tx, tenantID))
	})
}

// Unscoped returns the underlying DB without the wrapper. The isolation
// callbacks registered at construction still apply to scoped tables; this
// exists for migrations and for identity tables outside the scoped set.
func (t *TenantDB) Unscoped() *gorm.DB {
	return t.db
}
