package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/session"
)

type memoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *memoryTokenStore) LoadToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memoryTokenStore) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *memoryTokenStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

type fakeRefresher struct {
	calls int32
	token string
	err   error
	gate  chan struct{}
}

func (r *fakeRefresher) Refresh(ctx context.Context) (string, error) {
	atomic.AddInt32(&r.calls, 1)
	if r.gate != nil {
		<-r.gate
	}
	return r.token, r.err
}

func (r *fakeRefresher) callCount() int32 {
	return atomic.LoadInt32(&r.calls)
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := domain.TokenClaims{
		UserID: uuid.NewString(),
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestRefreshTokenNoSession(t *testing.T) {
	refresher := &fakeRefresher{}
	mgr, err := session.NewManager(&memoryTokenStore{}, refresher)
	require.NoError(t, err)

	token, err := mgr.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, mgr.HasToken())
	assert.EqualValues(t, 0, refresher.callCount())
}

func TestRefreshTokenValidTokenSkipsNetwork(t *testing.T) {
	store := &memoryTokenStore{token: signedToken(t, time.Now().Add(time.Hour))}
	refresher := &fakeRefresher{err: errors.New("should not be called")}

	mgr, err := session.NewManager(store, refresher)
	require.NoError(t, err)

	token, err := mgr.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.token, token)
	assert.EqualValues(t, 0, refresher.callCount())
}

func TestRefreshTokenExpiredTriggersSingleRefresh(t *testing.T) {
	expired := signedToken(t, time.Now().Add(-time.Minute))
	fresh := signedToken(t, time.Now().Add(time.Hour))

	store := &memoryTokenStore{token: expired}
	refresher := &fakeRefresher{token: fresh, gate: make(chan struct{})}

	mgr, err := session.NewManager(store, refresher)
	require.NoError(t, err)

	const callers = 16
	results := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := mgr.RefreshToken(context.Background())
			assert.NoError(t, err)
			results[i] = token
		}(i)
	}

	// Hold the in-flight refresh open long enough for callers to pile up,
	// then let it complete.
	time.Sleep(50 * time.Millisecond)
	close(refresher.gate)
	wg.Wait()

	for _, token := range results {
		assert.Equal(t, fresh, token)
	}
	assert.EqualValues(t, 1, refresher.callCount())

	persisted, err := store.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, fresh, persisted)
}

func TestRefreshTokenDenialLogsOut(t *testing.T) {
	store := &memoryTokenStore{token: signedToken(t, time.Now().Add(-time.Minute))}
	refresher := &fakeRefresher{err: domain.ErrAuthDenied}

	mgr, err := session.NewManager(store, refresher)
	require.NoError(t, err)

	token, err := mgr.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, mgr.HasToken())
	assert.Nil(t, mgr.Claims())

	persisted, err := store.LoadToken()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestRefreshTokenTransientFailureKeepsSession(t *testing.T) {
	expired := signedToken(t, time.Now().Add(-time.Minute))
	store := &memoryTokenStore{token: expired}
	refresher := &fakeRefresher{err: errors.New("connection refused")}

	mgr, err := session.NewManager(store, refresher)
	require.NoError(t, err)

	token, err := mgr.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)

	// The session survives so a later call can retry the refresh.
	assert.True(t, mgr.HasToken())
	assert.EqualValues(t, 1, refresher.callCount())

	refresher.err = nil
	refresher.token = signedToken(t, time.Now().Add(time.Hour))

	token, err = mgr.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, refresher.token, token)
	assert.EqualValues(t, 2, refresher.callCount())
}

func TestNewManagerDiscardsUndecodableToken(t *testing.T) {
	store := &memoryTokenStore{token: "not-a-jwt"}

	mgr, err := session.NewManager(store, &fakeRefresher{})
	require.NoError(t, err)
	assert.False(t, mgr.HasToken())

	persisted, err := store.LoadToken()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestLoginLogoutRoundtrip(t *testing.T) {
	store := &memoryTokenStore{}
	mgr, err := session.NewManager(store, &fakeRefresher{})
	require.NoError(t, err)

	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, mgr.Login(token))
	assert.True(t, mgr.HasToken())
	require.NotNil(t, mgr.Claims())
	assert.Equal(t, "user@example.com", mgr.Claims().Email)

	require.NoError(t, mgr.Logout())
	assert.False(t, mgr.HasToken())
	assert.Nil(t, mgr.Claims())
}
