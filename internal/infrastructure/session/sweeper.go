package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweeperStore is the slice of the session store the sweeper needs.
type SweeperStore interface {
	// PurgeExpired deletes sessions that expired before the cutoff and
	// returns how many rows went away.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// SweeperConfig holds session sweeper configuration
type SweeperConfig struct {
	// Interval between sweep runs
	Interval time.Duration
	// Retention keeps expired sessions around for a grace period so a
	// client presenting a stale cookie still gets the invalidation
	// reason instead of an unknown-session error.
	Retention time.Duration
}

// DefaultSweeperConfig returns a configuration suitable for most deployments
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:  time.Hour,
		Retention: 7 * 24 * time.Hour,
	}
}

// Sweeper periodically purges long-expired sessions from the registry.
// Expiry itself is enforced at resolve time; the sweeper only reclaims
// storage.
type Sweeper struct {
	store  SweeperStore
	config SweeperConfig
	logger *zap.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewSweeper creates a new session sweeper
func NewSweeper(store SweeperStore, config SweeperConfig, logger *zap.Logger) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultSweeperConfig().Interval
	}
	if config.Retention < 0 {
		config.Retention = 0
	}
	return &Sweeper{
		store:  store,
		config: config,
		logger: logger,
	}
}

// Start begins the sweep loop
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Session sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("retention", s.config.Retention),
	)
	return nil
}

// Stop halts the sweep loop, waiting for an in-flight sweep to finish
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Session sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Session sweeper stop timed out")
		return ctx.Err()
	}
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.config.Retention)
	purged, err := s.store.PurgeExpired(ctx, cutoff)
	if err != nil {
		s.logger.Error("Session sweep failed", zap.Error(err))
		return
	}
	if purged > 0 {
		s.logger.Info("Purged expired sessions", zap.Int64("count", purged))
	}
}
