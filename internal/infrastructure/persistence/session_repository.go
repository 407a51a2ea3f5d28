package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSessionRepository implements identity.SessionRepository using GORM.
// Sessions are resolved before the tenant carrier exists, so this
// repository runs on the raw connection.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID finds a session by ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Session, error) {
	var s identity.Session
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindActiveForUser returns all currently active sessions for a principal,
// newest first
func (r *GormSessionRepository) FindActiveForUser(ctx context.Context, userID uuid.UUID) ([]identity.Session, error) {
	var sessions []identity.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// Create persists a new session
func (r *GormSessionRepository) Create(ctx context.Context, s *identity.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Invalidate flips an active session to inactive in a single conditional
// update. The returned bool reports whether this call performed the flip;
// of several racing callers exactly one sees true.
func (r *GormSessionRepository) Invalidate(ctx context.Context, id uuid.UUID, reason shared.SessionInvalidReason) (bool, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&identity.Session{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"is_active":          false,
			"invalidated_reason": string(reason),
			"invalidated_at":     now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// distinguish an already-invalidated session from a missing one
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.Session{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, shared.ErrNotFound
	}
	return false, nil
}

// TouchLastActivity records activity on a session. It is advisory; the
// caller treats failures as ignorable.
func (r *GormSessionRepository) TouchLastActivity(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&identity.Session{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("last_activity_at", time.Now().UTC()).Error
}

// PurgeExpired deletes sessions that expired before the cutoff
func (r *GormSessionRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&identity.Session{})
	return res.RowsAffected, res.Error
}
