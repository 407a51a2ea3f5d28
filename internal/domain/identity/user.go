package identity

import (
	"strings"
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an authenticated principal. A user belongs to exactly one tenant
// for the lifetime of any session, holds zero or more global roles, and
// zero or more instance-level resource grants.
type User struct {
	shared.VersionedEntity
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	DisplayName  string    `gorm:"size:200;not null"`
	PasswordHash string    `gorm:"size:100;not null"`
	IsActive     bool      `gorm:"not null;default:true"`

	Roles  []Role          `gorm:"many2many:user_roles"`
	Grants []ResourceGrant `gorm:"foreignKey:UserID"`
}

// TableName implements the GORM table naming convention
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with a bcrypt-hashed credential
func NewUser(tenantID uuid.UUID, email, displayName, password string, bcryptCost int) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantContextMissing
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}

	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	return &User{
		VersionedEntity: shared.NewVersionedEntity(),
		TenantID:        tenantID,
		Email:           email,
		DisplayName:     strings.TrimSpace(displayName),
		PasswordHash:    string(hash),
		IsActive:        true,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether any of the user's roles is the universal-admin role
func (u *User) IsAdmin() bool {
	for i := range u.Roles {
		if u.Roles[i].IsAdmin() {
			return true
		}
	}
	return false
}

// GrantFor returns the instance grant for the exact (type, id) pair, or nil
func (u *User) GrantFor(resourceType string, resourceID uuid.UUID) *ResourceGrant {
	for i := range u.Grants {
		if u.Grants[i].Matches(resourceType, resourceID) {
			return &u.Grants[i]
		}
	}
	return nil
}

// AssignRole attaches a role to the user
func (u *User) AssignRole(role Role) error {
	for i := range u.Roles {
		if u.Roles[i].ID == role.ID {
			return shared.NewDomainError("ROLE_ALREADY_ASSIGNED", "User already has this role")
		}
	}
	u.Roles = append(u.Roles, role)
	u.touch()
	return nil
}

// RevokeRole detaches a role from the user
func (u *User) RevokeRole(roleID uuid.UUID) error {
	for i := range u.Roles {
		if u.Roles[i].ID == roleID {
			u.Roles = append(u.Roles[:i], u.Roles[i+1:]...)
			u.touch()
			return nil
		}
	}
	return shared.NewDomainError("ROLE_NOT_ASSIGNED", "User does not have this role")
}

// Deactivate disables the user account
func (u *User) Deactivate() error {
	if !u.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.IsActive = false
	u.touch()
	return nil
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
