package persistence

import (
	"context"
	"errors"

	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRoleRepository implements identity.RoleRepository using GORM.
// Roles are global; no tenant scoping applies.
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by ID with module permissions loaded
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByName finds a role by its unique name
func (r *GormRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	var role identity.Role
	err := r.db.WithContext(ctx).Preload("Permissions").
		Where("name = ?", name).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindAll lists all roles with module permissions loaded
func (r *GormRoleRepository) FindAll(ctx context.Context) ([]identity.Role, error) {
	var roles []identity.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Save creates or updates a role together with its module permissions.
// Permission rows removed from the role are deleted, so the stored set
// always mirrors the aggregate.
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(role).Error; err != nil {
			return err
		}
		keep := make([]string, 0, len(role.Permissions))
		for _, p := range role.Permissions {
			keep = append(keep, p.Module)
		}
		q := tx.Where("role_id = ?", role.ID)
		if len(keep) > 0 {
			q = q.Where("module NOT IN ?", keep)
		}
		return q.Delete(&identity.ModulePermission{}).Error
	})
}

// Delete removes a role. System roles cannot be deleted.
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role identity.Role
		if err := tx.First(&role, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if role.IsSystem {
			return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
		}
		if err := tx.Where("role_id = ?", id).Delete(&identity.ModulePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&identity.Role{}, "id = ?", id).Error
	})
}
