package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements identity.UserRepository using GORM.
// Principal resolution happens before the tenant carrier is populated,
// so this repository runs on the raw connection. Reads load roles with
// their module permissions and the user's instance grants in one go.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) eager(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Preload("Grants")
}

// FindByID finds a user by ID with roles and grants loaded
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var u identity.User
	if err := r.eager(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail finds a user by email with roles and grants loaded
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var u identity.User
	err := r.eager(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Save creates or updates a user together with role assignments
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(u).Error
}

// SaveGrant upserts an instance grant, replacing the permission tuple for
// an existing user/resource pair
func (r *GormUserRepository) SaveGrant(ctx context.Context, grant *identity.ResourceGrant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "resource_type"}, {Name: "resource_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"can_view", "can_create", "can_edit", "can_delete", "granted_by", "granted_at",
			}),
		}).
		Create(grant).Error
}

// DeleteGrant removes an instance grant
func (r *GormUserRepository) DeleteGrant(ctx context.Context, userID uuid.UUID, resourceType string, resourceID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, resourceType, resourceID).
		Delete(&identity.ResourceGrant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
