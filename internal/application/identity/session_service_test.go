package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/facilityos/backend/internal/infrastructure/config"
	"github.com/facilityos/backend/internal/infrastructure/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sessionFixture struct {
	svc      *SessionService
	sessions *fakeSessionRepo
	users    *fakeUserRepo
	notifier *session.InMemoryNotifier
}

func newSessionFixture(t *testing.T, cfg config.SessionConfig) *sessionFixture {
	t.Helper()
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo()
	notifier := session.NewInMemoryNotifier()
	svc := NewSessionService(
		sessions,
		users,
		session.NewInMemoryLocker(),
		notifier,
		session.NewInMemoryActivityThrottle(),
		cfg,
		zap.NewNop(),
	)
	return &sessionFixture{svc: svc, sessions: sessions, users: users, notifier: notifier}
}

func defaultSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		TTL:                    time.Hour,
		SingleSessionPerDevice: true,
		ReuseWindow:            3 * time.Second,
		TouchPeriod:            time.Minute,
		BcryptCost:             4,
	}
}

func seedActiveUser(t *testing.T, f *sessionFixture) *domain.User {
	t.Helper()
	u, err := domain.NewUser(uuid.New(), "worker@acme.test", "Worker", "password-1", 4)
	require.NoError(t, err)
	require.NoError(t, f.users.Save(context.Background(), u))
	return u
}

func TestEstablishCreatesSession(t *testing.T) {
	f := newSessionFixture(t, defaultSessionConfig())
	u := seedActiveUser(t, f)

	sess, reused, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, u.ID, sess.UserID)
	assert.Equal(t, u.TenantID, sess.TenantID)
	assert.True(t, sess.IsActive)
}

func TestEstablishSupersedesSameDevice(t *testing.T) {
	cfg := defaultSessionConfig()
	cfg.ReuseWindow = 0
	f := newSessionFixture(t, cfg)
	u := seedActiveUser(t, f)

	first, _, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)

	second, reused, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := f.sessions.FindByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, string(shared.SessionReasonReplaced), got.InvalidatedReason)

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, first.ID, events[0].SessionID)
	assert.Equal(t, shared.SessionReasonReplaced, events[0].Reason)
}

func TestEstablishSupersedesOtherDevices(t *testing.T) {
	cfg := defaultSessionConfig()
	cfg.ReuseWindow = 0
	f := newSessionFixture(t, cfg)
	u := seedActiveUser(t, f)

	laptop, _, err := f.svc.Establish(context.Background(), u, "fp-laptop")
	require.NoError(t, err)
	phone, _, err := f.svc.Establish(context.Background(), u, "fp-phone")
	require.NoError(t, err)

	got, err := f.sessions.FindByID(context.Background(), laptop.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, string(shared.SessionReasonReplaced), got.InvalidatedReason)

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, laptop.ID, events[0].SessionID)
	assert.Equal(t, shared.SessionReasonReplaced, events[0].Reason)

	active, err := f.sessions.FindActiveForUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, phone.ID, active[0].ID)
}

func TestEstablishKeepsOtherDevicesWhenPolicyOff(t *testing.T) {
	cfg := defaultSessionConfig()
	cfg.ReuseWindow = 0
	cfg.SingleSessionPerDevice = false
	f := newSessionFixture(t, cfg)
	u := seedActiveUser(t, f)

	laptop, _, err := f.svc.Establish(context.Background(), u, "fp-laptop")
	require.NoError(t, err)
	_, _, err = f.svc.Establish(context.Background(), u, "fp-phone")
	require.NoError(t, err)

	got, err := f.sessions.FindByID(context.Background(), laptop.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Empty(t, f.notifier.Events())
}

func TestEstablishReusesRacingSession(t *testing.T) {
	f := newSessionFixture(t, defaultSessionConfig())
	u := seedActiveUser(t, f)

	first, _, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)

	// a second login from the same device inside the reuse window gets
	// the session the first one created
	second, reused, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, f.notifier.Events())
}

func TestEstablishConcurrentSameDevice(t *testing.T) {
	f := newSessionFixture(t, defaultSessionConfig())
	u := seedActiveUser(t, f)

	const callers = 6
	var wg sync.WaitGroup
	ids := make(chan [2]any, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, reused, err := f.svc.Establish(context.Background(), u, "fp-1")
			if err != nil {
				t.Error(err)
				return
			}
			ids <- [2]any{sess.ID, reused}
		}()
	}
	wg.Wait()
	close(ids)

	created := 0
	for pair := range ids {
		if !pair[1].(bool) {
			created++
		}
	}
	assert.Equal(t, 1, created)

	active, err := f.sessions.FindActiveForUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestResolveActiveSession(t *testing.T) {
	f := newSessionFixture(t, defaultSessionConfig())
	u := seedActiveUser(t, f)
	sess, _, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)

	gotSess, gotUser, err := f.svc.Resolve(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, gotSess.ID)
	assert.Equal(t, u.ID, gotUser.ID)
}

func TestResolveUnknownSession(t *testing.T) {
	f := newSessionFixture(t, defaultSessionConfig())

	_, _, err := f.svc.Resolve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestResolveExpiredSessionRetiresOnce(t *testing.T) {
	cfg := defaultSessionConfig()
	cfg.TTL = time.Millisecond
	f := newSessionFixture(t, cfg)
	u := seedActiveUser(t, f)
	sess, _, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_, _, err = f.svc.Resolve(context.Background(), sess.ID)
		var inv *shared.SessionInvalidatedError
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, shared.SessionReasonExpired, inv.Reason)
	}
	assert.Len(t, f.notifier.Events(), 1)
}

func TestResolveInvalidatedSessionCarriesReason(t *testing.T) {
	f := newSessionFixture(t, defaultSessionConfig())
	u := seedActiveUser(t, f)
	sess, _, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Invalidate(context.Background(), sess.ID, shared.SessionReasonReplaced))

	_, _, err = f.svc.Resolve(context.Background(), sess.ID)
	var inv *shared.SessionInvalidatedError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, shared.SessionReasonReplaced, inv.Reason)
}

func TestResolveDeactivatedUserRevokes(t *testing.T) {
	f := newSessionFixture(t, defaultSessionConfig())
	u := seedActiveUser(t, f)
	sess, _, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)

	require.NoError(t, u.Deactivate())
	require.NoError(t, f.users.Save(context.Background(), u))

	_, _, err = f.svc.Resolve(context.Background(), sess.ID)
	var inv *shared.SessionInvalidatedError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, shared.SessionReasonRevoked, inv.Reason)
	assert.Len(t, f.notifier.Events(), 1)
}

func TestInvalidateNotifiesExactlyOnce(t *testing.T) {
	f := newSessionFixture(t, defaultSessionConfig())
	u := seedActiveUser(t, f)
	sess, _, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Invalidate(context.Background(), sess.ID, shared.SessionReasonRevoked))
	require.NoError(t, f.svc.Invalidate(context.Background(), sess.ID, shared.SessionReasonRevoked))
	assert.Len(t, f.notifier.Events(), 1)
}

func TestTouchIsThrottled(t *testing.T) {
	f := newSessionFixture(t, defaultSessionConfig())
	u := seedActiveUser(t, f)
	sess, _, err := f.svc.Establish(context.Background(), u, "fp-1")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		f.svc.Touch(context.Background(), sess.ID)
	}
	assert.Equal(t, 1, f.sessions.touchCount(sess.ID))
}
