package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains credentials and the device presenting them
type LoginInput struct {
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required"`
	DeviceFingerprint string `json:"-"`
}

// UserSummary is the principal view returned to clients
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	Roles       []string  `json:"roles"`
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	SessionID uuid.UUID   `json:"-"`
	ExpiresAt time.Time   `json:"expires_at"`
	Reused    bool        `json:"-"`
	User      UserSummary `json:"user"`
}
