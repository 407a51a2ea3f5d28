package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, repo *GormSessionRepository, userID uuid.UUID) *identity.Session {
	t.Helper()
	s, err := identity.NewSession(userID, uuid.New(), "fp-chrome-linux", time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestSessionInvalidateFlipsOnce(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewGormSessionRepository(db)
	s := seedSession(t, repo, uuid.New())

	flipped, err := repo.Invalidate(context.Background(), s.ID, shared.SessionReasonReplaced)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = repo.Invalidate(context.Background(), s.ID, shared.SessionReasonRevoked)
	require.NoError(t, err)
	assert.False(t, flipped)

	got, err := repo.FindByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, string(shared.SessionReasonReplaced), got.InvalidatedReason)
	assert.NotNil(t, got.InvalidatedAt)
}

func TestSessionInvalidateConcurrentSingleWinner(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewGormSessionRepository(db)
	s := seedSession(t, repo, uuid.New())

	const callers = 8
	var wg sync.WaitGroup
	wins := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flipped, err := repo.Invalidate(context.Background(), s.ID, shared.SessionReasonReplaced)
			if err == nil && flipped {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	total := 0
	for range wins {
		total++
	}
	assert.Equal(t, 1, total)
}

func TestSessionInvalidateMissing(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewGormSessionRepository(db)

	_, err := repo.Invalidate(context.Background(), uuid.New(), shared.SessionReasonExpired)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestFindActiveForUserSkipsInvalidated(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewGormSessionRepository(db)
	userID := uuid.New()

	s1 := seedSession(t, repo, userID)
	seedSession(t, repo, userID)
	seedSession(t, repo, uuid.New())

	_, err := repo.Invalidate(context.Background(), s1.ID, shared.SessionReasonRevoked)
	require.NoError(t, err)

	active, err := repo.FindActiveForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestTouchLastActivity(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewGormSessionRepository(db)
	s := seedSession(t, repo, uuid.New())
	before := s.LastActivityAt

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.TouchLastActivity(context.Background(), s.ID))

	got, err := repo.FindByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, got.LastActivityAt.After(before))
}

func TestPurgeExpiredKeepsLiveAndRecentSessions(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewGormSessionRepository(db)

	live := seedSession(t, repo, uuid.New())

	longDead, err := identity.NewSession(uuid.New(), uuid.New(), "fp-old", time.Hour)
	require.NoError(t, err)
	longDead.ExpiresAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, repo.Create(context.Background(), longDead))

	recentlyDead, err := identity.NewSession(uuid.New(), uuid.New(), "fp-recent", time.Hour)
	require.NoError(t, err)
	recentlyDead.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Create(context.Background(), recentlyDead))

	purged, err := repo.PurgeExpired(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.FindByID(context.Background(), longDead.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindByID(context.Background(), live.ID)
	assert.NoError(t, err)
	_, err = repo.FindByID(context.Background(), recentlyDead.ID)
	assert.NoError(t, err)
}
