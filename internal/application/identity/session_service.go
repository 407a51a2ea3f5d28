package identity

import (
	"context"
	"errors"
	"time"

	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/facilityos/backend/internal/infrastructure/config"
	"github.com/facilityos/backend/internal/infrastructure/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService owns the session registry: establishing sessions under
// the device policy, resolving cookies back to principals, invalidation
// with exactly-once notification, and advisory activity touches.
type SessionService struct {
	sessions identity.SessionRepository
	users    identity.UserRepository
	locker   session.Locker
	notifier session.Notifier
	throttle session.ActivityThrottle
	cfg      config.SessionConfig
	logger   *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessions identity.SessionRepository,
	users identity.UserRepository,
	locker session.Locker,
	notifier session.Notifier,
	throttle session.ActivityThrottle,
	cfg config.SessionConfig,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		locker:   locker,
		notifier: notifier,
		throttle: throttle,
		cfg:      cfg,
		logger:   logger,
	}
}

// Establish creates a session for an authenticated principal. Creation is
// serialized per principal: a concurrent login from the same device that
// lands inside the reuse window gets the session the other caller just
// created instead of a duplicate. A login that does create a session
// supersedes the principal's prior sessions: older same-device sessions
// always, and sessions on other devices when the single-session-per-device
// policy is on, so those clients learn they were logged out elsewhere.
func (s *SessionService) Establish(ctx context.Context, user *identity.User, fingerprint string) (*identity.Session, bool, error) {
	release, err := s.locker.Acquire(ctx, user.ID)
	if err != nil {
		return nil, false, err
	}
	defer release()

	now := time.Now()
	active, err := s.sessions.FindActiveForUser(ctx, user.ID)
	if err != nil {
		return nil, false, err
	}

	for i := range active {
		existing := &active[i]
		if !existing.IsUsable(now) {
			continue
		}
		if existing.DeviceFingerprint == fingerprint {
			if existing.CreatedWithin(s.cfg.ReuseWindow, now) {
				s.logger.Info("Reusing session created by concurrent login",
					zap.String("session_id", existing.ID.String()),
					zap.String("user_id", user.ID.String()))
				return existing, true, nil
			}
			if err := s.invalidate(ctx, existing, shared.SessionReasonReplaced); err != nil {
				return nil, false, err
			}
			continue
		}
		if s.cfg.SingleSessionPerDevice {
			if err := s.invalidate(ctx, existing, shared.SessionReasonReplaced); err != nil {
				return nil, false, err
			}
		}
	}

	created, err := identity.NewSession(user.ID, user.TenantID, fingerprint, s.cfg.TTL)
	if err != nil {
		return nil, false, err
	}
	if err := s.sessions.Create(ctx, created); err != nil {
		return nil, false, err
	}
	s.logger.Info("Session established",
		zap.String("session_id", created.ID.String()),
		zap.String("user_id", user.ID.String()))
	return created, false, nil
}

// Resolve maps a presented session ID back to its principal. Expired or
// invalidated sessions yield a SessionInvalidatedError carrying the
// reason; an expired session is flipped to inactive on first detection.
func (s *SessionService) Resolve(ctx context.Context, sessionID uuid.UUID) (*identity.Session, *identity.User, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrUnauthorized
		}
		return nil, nil, err
	}

	now := time.Now()
	if !sess.IsUsable(now) {
		reason := sess.InvalidReason(now)
		if sess.IsActive && sess.IsExpired(now) {
			// lazily retire; whoever flips it sends the one notification
			if err := s.invalidate(ctx, sess, shared.SessionReasonExpired); err != nil {
				s.logger.Warn("Failed to retire expired session", zap.Error(err))
			}
		}
		return nil, nil, shared.NewSessionInvalidatedError(reason)
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrUnauthorized
		}
		return nil, nil, err
	}
	if !user.IsActive {
		if err := s.invalidate(ctx, sess, shared.SessionReasonRevoked); err != nil {
			s.logger.Warn("Failed to revoke session of inactive user", zap.Error(err))
		}
		return nil, nil, shared.NewSessionInvalidatedError(shared.SessionReasonRevoked)
	}
	return sess, user, nil
}

// Invalidate retires a session with the given reason. It is idempotent;
// the notification goes out only from the call that performed the flip.
func (s *SessionService) Invalidate(ctx context.Context, sessionID uuid.UUID, reason shared.SessionInvalidReason) error {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.invalidate(ctx, sess, reason)
}

func (s *SessionService) invalidate(ctx context.Context, sess *identity.Session, reason shared.SessionInvalidReason) error {
	flipped, err := s.sessions.Invalidate(ctx, sess.ID, reason)
	if err != nil {
		return err
	}
	if !flipped {
		return nil
	}
	event := session.InvalidationEvent{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		TenantID:  sess.TenantID,
		Reason:    reason,
		At:        time.Now(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		// the session is already retired; the notification is best effort
		s.logger.Error("Failed to publish session invalidation",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err))
	}
	return nil
}

// Touch records activity on a session. It never fails the request: the
// write is throttled to one per touch period and errors are only logged.
func (s *SessionService) Touch(ctx context.Context, sessionID uuid.UUID) {
	ok, err := s.throttle.ShouldTouch(ctx, sessionID, s.cfg.TouchPeriod)
	if err != nil {
		s.logger.Debug("Activity throttle unavailable", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if err := s.sessions.TouchLastActivity(ctx, sessionID); err != nil {
		s.logger.Debug("Failed to touch session activity",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
	}
}
