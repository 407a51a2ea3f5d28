package tenant

import (
	"reflect"
	"strings"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// callback injects tenant conditions into GORM operations for a fixed set
// of scoped tables. Registration happens once per *gorm.DB in NewTenantDB.
type callback struct {
	column string
	tables map[string]struct{}
}

func newCallback(column string, tables []string) *callback {
	set := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
	}
	return &callback{column: column, tables: set}
}

func (c *callback) register(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", c.beforeRead)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", c.beforeRead)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", c.beforeWrite)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", c.beforeWrite)
	_ = db.Callback().Create().Before("gorm:create").Register("tenant:before_create", c.beforeCreate)
}

// scoped reports whether the current statement targets a tenant-scoped table
func (c *callback) scoped(db *gorm.DB) bool {
	if db.Statement == nil {
		return false
	}
	table := db.Statement.Table
	if table == "" && db.Statement.Schema != nil {
		table = db.Statement.Schema.Table
	}
	if table == "" {
		return false
	}
	_, ok := c.tables[table]
	return ok
}

// inject adds WHERE tenant_id = ? for the statement's table, or fails the
// statement when no tenant resolves from the context.
func (c *callback) inject(db *gorm.DB) {
	tenantID, ok := Resolve(db.Statement.Context)
	if !ok {
		_ = db.AddError(shared.ErrTenantContextMissing)
		return
	}
	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Name: c.column}, Value: tenantID},
		},
	})
}

// beforeRead ensures every query and row scan against a scoped table
// carries a tenant condition. A statement that already names one, via the
// wrapper scope or an explicit Where, passes through unchanged.
func (c *callback) beforeRead(db *gorm.DB) {
	if !c.scoped(db) || c.hasTenantCondition(db) {
		return
	}
	c.inject(db)
}

// beforeWrite guards updates and deletes the same way as reads. A write
// with no resolvable tenant and no existing tenant condition is rejected
// before it reaches the database.
func (c *callback) beforeWrite(db *gorm.DB) {
	if !c.scoped(db) || c.hasTenantCondition(db) {
		return
	}
	c.inject(db)
}

// beforeCreate stamps the context tenant onto new records. A record that
// already carries a tenant keeps it only when it matches the resolved
// tenant; a mismatch is rejected as a cross-tenant reference.
func (c *callback) beforeCreate(db *gorm.DB) {
	if !c.scoped(db) || db.Statement.Schema == nil {
		return
	}
	field := db.Statement.Schema.LookUpField(c.column)
	if field == nil {
		return
	}
	tenantID, ok := Resolve(db.Statement.Context)
	if !ok {
		_ = db.AddError(shared.ErrTenantContextMissing)
		return
	}

	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := c.stamp(db, field, rv.Index(i), tenantID); err != nil {
				_ = db.AddError(err)
				return
			}
		}
	case reflect.Struct:
		if err := c.stamp(db, field, rv, tenantID); err != nil {
			_ = db.AddError(err)
		}
	}
}

func (c *callback) stamp(db *gorm.DB, field *schema.Field, rv reflect.Value, tenantID uuid.UUID) error {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	current, isZero := field.ValueOf(db.Statement.Context, rv)
	if !isZero {
		if existing, ok := current.(uuid.UUID); ok && existing != tenantID {
			return shared.ErrCrossTenantReference
		}
		return nil
	}
	return field.Set(db.Statement.Context, rv, tenantID)
}

// hasTenantCondition reports whether the statement already constrains the
// tenant column, either through a structured clause or a raw SQL fragment.
func (c *callback) hasTenantCondition(db *gorm.DB) bool {
	where, ok := db.Statement.Clauses["WHERE"]
	if !ok {
		return false
	}
	w, ok := where.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, expr := range w.Exprs {
		if c.mentionsTenant(expr) {
			return true
		}
	}
	return false
}

func (c *callback) mentionsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		return c.columnMatches(e.Column)
	case clause.IN:
		return c.columnMatches(e.Column)
	case clause.Expr:
		return strings.Contains(e.SQL, c.column)
	case clause.AndConditions:
		for _, sub := range e.Exprs {
			if c.mentionsTenant(sub) {
				return true
			}
		}
	case clause.OrConditions:
		for _, sub := range e.Exprs {
			if c.mentionsTenant(sub) {
				return true
			}
		}
	}
	return false
}

func (c *callback) columnMatches(col interface{}) bool {
	switch v := col.(type) {
	case clause.Column:
		return v.Name == c.column
	case string:
		return strings.Contains(v, c.column)
	}
	return false
}
