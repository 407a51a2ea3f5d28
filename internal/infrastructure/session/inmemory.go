package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryLocker implements Locker for tests and single-node deployments
type InMemoryLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]chan struct{}
}

// NewInMemoryLocker creates a new InMemoryLocker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{locks: make(map[uuid.UUID]chan struct{})}
}

// Acquire blocks until the principal's lock is free or ctx ends
func (l *InMemoryLocker) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	for {
		l.mu.Lock()
		held, ok := l.locks[userID]
		if !ok {
			ch := make(chan struct{})
			l.locks[userID] = ch
			l.mu.Unlock()
			return func() {
				l.mu.Lock()
				delete(l.locks, userID)
				l.mu.Unlock()
				close(ch)
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-held:
		}
	}
}

// InMemoryNotifier implements Notifier by recording published events.
// Tests use it to assert exactly-once delivery.
type InMemoryNotifier struct {
	mu     sync.Mutex
	events []InvalidationEvent
}

// NewInMemoryNotifier creates a new InMemoryNotifier
func NewInMemoryNotifier() *InMemoryNotifier {
	return &InMemoryNotifier{}
}

// Publish records the event
func (n *InMemoryNotifier) Publish(_ context.Context, event InvalidationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

// Events returns a copy of everything published so far
func (n *InMemoryNotifier) Events() []InvalidationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]InvalidationEvent, len(n.events))
	copy(out, n.events)
	return out
}

// InMemoryActivityThrottle implements ActivityThrottle in process memory
type InMemoryActivityThrottle struct {
	mu   sync.Mutex
	seen map[uuid.UUID]time.Time
}

// NewInMemoryActivityThrottle creates a new InMemoryActivityThrottle
func NewInMemoryActivityThrottle() *InMemoryActivityThrottle {
	return &InMemoryActivityThrottle{seen: make(map[uuid.UUID]time.Time)}
}

// ShouldTouch returns true at most once per period for a session
func (t *InMemoryActivityThrottle) ShouldTouch(_ context.Context, sessionID uuid.UUID, period time.Duration) (bool, error) {
	if period <= 0 {
		return true, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if last, ok := t.seen[sessionID]; ok && now.Sub(last) < period {
		return false, nil
	}
	t.seen[sessionID] = now
	return true, nil
}
