package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSweeperStore struct {
	calls  atomic.Int64
	purged int64
	err    error
}

func (f *fakeSweeperStore) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	f.calls.Add(1)
	return f.purged, f.err
}

func TestSweeperPurgesOnInterval(t *testing.T) {
	store := &fakeSweeperStore{purged: 3}
	s := NewSweeper(store, SweeperConfig{Interval: 10 * time.Millisecond, Retention: time.Hour}, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		_ = s.Stop(context.Background())
	}()

	assert.Eventually(t, func() bool {
		return store.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	store := &fakeSweeperStore{}
	s := NewSweeper(store, SweeperConfig{Interval: time.Hour}, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}

func TestSweeperStartIsIdempotent(t *testing.T) {
	store := &fakeSweeperStore{}
	s := NewSweeper(store, SweeperConfig{Interval: time.Hour}, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}

func TestSweeperSurvivesStoreErrors(t *testing.T) {
	store := &fakeSweeperStore{err: errors.New("connection lost")}
	s := NewSweeper(store, SweeperConfig{Interval: 10 * time.Millisecond}, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		_ = s.Stop(context.Background())
	}()

	assert.Eventually(t, func() bool {
		return store.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}
