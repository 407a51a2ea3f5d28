// Package session holds the distributed coordination pieces of the session
// registry: a per-principal creation lock, the invalidation notification
// channel, and a throttle for activity touches. Redis backs all three in
// deployment; in-memory implementations exist for tests and single-node
// setups.
package session

import (
	"context"
	"time"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvalidationEvent is published exactly once when a session is
// invalidated, by whichever caller performed the flip
type InvalidationEvent struct {
	SessionID uuid.UUID                   `json:"session_id"`
	UserID    uuid.UUID                   `json:"user_id"`
	TenantID  uuid.UUID                   `json:"tenant_id"`
	Reason    shared.SessionInvalidReason `json:"reason"`
	At        time.Time                   `json:"at"`
}

// Locker serializes session creation per principal so concurrent logins
// from the same device reconcile instead of racing
type Locker interface {
	// Acquire blocks until the principal's lock is held or ctx ends.
	// The returned function releases the lock.
	Acquire(ctx context.Context, userID uuid.UUID) (release func(), err error)
}

// Notifier delivers session invalidation events to interested consumers
type Notifier interface {
	Publish(ctx context.Context, event InvalidationEvent) error
}

// ActivityThrottle rate-limits last-activity writes. ShouldTouch returns
// true at most once per period for a given session.
type ActivityThrottle interface {
	ShouldTouch(ctx context.Context, sessionID uuid.UUID, period time.Duration) (bool, error)
}
