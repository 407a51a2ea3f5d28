package identity

import (
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Session is one device's authenticated window for one principal. A session
// is immutable once invalidated: a later login produces a new record, never
// a resurrected one. The only exception is the concurrent-create race
// window, where a very recent active session for the same principal and
// device fingerprint is reused instead of duplicated.
type Session struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID          uuid.UUID `gorm:"type:uuid;not null;index"`
	DeviceFingerprint string    `gorm:"size:128;not null;index"`
	CreatedAt         time.Time `gorm:"not null"`
	ExpiresAt         time.Time `gorm:"not null;index"`
	LastActivityAt    time.Time `gorm:"not null"`
	IsActive          bool      `gorm:"not null;default:true;index"`
	InvalidatedReason string    `gorm:"size:20"`
	InvalidatedAt     *time.Time
}

// TableName implements the GORM table naming convention
func (Session) TableName() string {
	return "sessions"
}

// NewSession creates an active session for a principal on one device
func NewSession(userID, tenantID uuid.UUID, fingerprint string, ttl time.Duration) (*Session, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session requires a principal")
	}
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantContextMissing
	}
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session TTL must be positive")
	}

	now := time.Now()
	return &Session{
		ID:                uuid.New(),
		UserID:            userID,
		TenantID:          tenantID,
		DeviceFingerprint: fingerprint,
		CreatedAt:         now,
		ExpiresAt:         now.Add(ttl),
		LastActivityAt:    now,
		IsActive:          true,
	}, nil
}

// IsExpired reports whether the session has passed its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsUsable reports whether the session can authenticate a request
func (s *Session) IsUsable(now time.Time) bool {
	return s.IsActive && !s.IsExpired(now)
}

// Invalidate marks the session unusable with the given reason. Invalidation
// is terminal; invalidating an already-invalid session is an error so racing
// callers cannot both claim to have superseded it.
func (s *Session) Invalidate(reason shared.SessionInvalidReason) error {
	if !s.IsActive {
		return shared.NewDomainError("SESSION_ALREADY_INVALIDATED", "Session is already invalidated")
	}
	now := time.Now()
	s.IsActive = false
	s.InvalidatedReason = string(reason)
	s.InvalidatedAt = &now
	return nil
}

// InvalidReason returns the invalidation reason, defaulting expired sessions
// that were never explicitly invalidated to the expiry reason.
func (s *Session) InvalidReason(now time.Time) shared.SessionInvalidReason {
	if s.InvalidatedReason != "" {
		return shared.SessionInvalidReason(s.InvalidatedReason)
	}
	if s.IsExpired(now) {
		return shared.SessionReasonExpired
	}
	return shared.SessionReasonRevoked
}

// Touch records activity on the session
func (s *Session) Touch(now time.Time) {
	s.LastActivityAt = now
}

// CreatedWithin reports whether the session was created inside the given
// window ending at now. Used to reuse a just-created session when two
// logins race.
func (s *Session) CreatedWithin(window time.Duration, now time.Time) bool {
	return now.Sub(s.CreatedAt) <= window
}
