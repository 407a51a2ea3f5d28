package identity

import (
	"strings"
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AdminRoleName is the designated universal-admin role. Principals holding
// it bypass permission resolution entirely. It does not bypass tenant
// isolation; cross-tenant access goes through the explicit per-request
// override instead.
const AdminRoleName = "Admin"

// Modules (permission domains) known to the platform.
const (
	ModuleSites     = "sites"
	ModuleBuildings = "buildings"
	ModuleFloors    = "floors"
	ModuleAssets    = "assets"
	ModuleDocuments = "documents"
	ModuleVendors   = "vendors"
	ModuleUsers     = "users"
)

// Actions of the permission 4-tuple.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// KnownModules lists every permission domain
var KnownModules = []string{
	ModuleSites, ModuleBuildings, ModuleFloors,
	ModuleAssets, ModuleDocuments, ModuleVendors, ModuleUsers,
}

// PermissionSet is the per-module 4-tuple of booleans.
// It is a value object.
type PermissionSet struct {
	View   bool `json:"view" gorm:"column:can_view;not null;default:false"`
	Create bool `json:"create" gorm:"column:can_create;not null;default:false"`
	Edit   bool `json:"edit" gorm:"column:can_edit;not null;default:false"`
	Delete bool `json:"delete" gorm:"column:can_delete;not null;default:false"`
}

// Allows reports whether the given action is set in the tuple.
func (p PermissionSet) Allows(action string) bool {
	switch action {
	case ActionView:
		return p.View
	case ActionCreate:
		return p.Create
	case ActionEdit:
		return p.Edit
	case ActionDelete:
		return p.Delete
	default:
		return false
	}
}

// IsEmpty returns true when no action is granted
func (p PermissionSet) IsEmpty() bool {
	return !p.View && !p.Create && !p.Edit && !p.Delete
}

// FullAccess returns a tuple with every action set
func FullAccess() PermissionSet {
	return PermissionSet{View: true, Create: true, Edit: true, Delete: true}
}

// ReadOnly returns a tuple with only view set
func ReadOnly() PermissionSet {
	return PermissionSet{View: true}
}

// ModulePermission is one row of a role's permission bundle.
type ModulePermission struct {
	RoleID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_role_module"`
	Module string    `gorm:"size:50;not null;uniqueIndex:idx_role_module"`
	PermissionSet
	CreatedAt time.Time `gorm:"not null"`
}

// TableName implements the GORM table naming convention
func (ModulePermission) TableName() string {
	return "role_module_permissions"
}

// Role is a named bundle of per-module permission defaults. Roles are
// global: they are shared across tenants and carry no tenant reference.
type Role struct {
	shared.VersionedEntity
	Name        string `gorm:"size:100;uniqueIndex;not null"`
	Description string `gorm:"size:500"`
	IsSystem    bool   `gorm:"not null;default:false"`
	Permissions []ModulePermission `gorm:"foreignKey:RoleID"`
}

// TableName implements the GORM table naming convention
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a new role
func NewRole(name string) (*Role, error) {
	if err := validateRoleName(name); err != nil {
		return nil, err
	}
	return &Role{
		VersionedEntity: shared.NewVersionedEntity(),
		Name:            strings.TrimSpace(name),
		Permissions:     make([]ModulePermission, 0),
	}, nil
}

// IsAdmin reports whether this is the universal-admin role
func (r *Role) IsAdmin() bool {
	return r.Name == AdminRoleName
}

// PermissionFor returns the permission tuple for a module. Absent modules
// yield an empty tuple (deny all).
func (r *Role) PermissionFor(module string) PermissionSet {
	for _, mp := range r.Permissions {
		if mp.Module == module {
			return mp.PermissionSet
		}
	}
	return PermissionSet{}
}

// SetPermission sets the permission tuple for a module, replacing any
// existing entry for the same module.
func (r *Role) SetPermission(module string, perms PermissionSet) error {
	if err := validateModule(module); err != nil {
		return err
	}

	for i := range r.Permissions {
		if r.Permissions[i].Module == module {
			r.Permissions[i].PermissionSet = perms
			r.touch()
			return nil
		}
	}

	r.Permissions = append(r.Permissions, ModulePermission{
		RoleID:        r.ID,
		Module:        module,
		PermissionSet: perms,
		CreatedAt:     time.Now(),
	})
	r.touch()
	return nil
}

// RemovePermission removes the permission tuple for a module
func (r *Role) RemovePermission(module string) error {
	for i := range r.Permissions {
		if r.Permissions[i].Module == module {
			r.Permissions = append(r.Permissions[:i], r.Permissions[i+1:]...)
			r.touch()
			return nil
		}
	}
	return shared.NewDomainError("MODULE_NOT_GRANTED", "Role has no permissions for this module")
}

// Allows reports whether the role grants the action on the module.
// The admin role allows everything.
func (r *Role) Allows(module, action string) bool {
	if r.IsAdmin() {
		return true
	}
	return r.PermissionFor(module).Allows(action)
}

// CanDelete returns true if the role can be deleted
func (r *Role) CanDelete() bool {
	return !r.IsSystem
}

func (r *Role) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}

func validateModule(module string) error {
	for _, m := range KnownModules {
		if m == module {
			return nil
		}
	}
	return shared.NewDomainError("UNKNOWN_MODULE", "Unknown permission module")
}
