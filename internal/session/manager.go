// Package session owns the current credential token and the single-flight
// refresh protocol every outbound request passes through.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/avolkov/sadhana-tracker/internal/domain"
)

// TokenStore persists the raw token across process restarts.
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// Refresher exchanges the refresh credential for a new access token. It
// must return domain.ErrAuthDenied for an explicit 401/403 rejection; any
// other error is treated as transient.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Manager is the process-wide session context: constructed once at startup,
// injected into the request layer, torn down on logout. It guarantees at
// most one in-flight refresh call at any time; concurrent callers share
// that call's outcome.
type Manager struct {
	mu     sync.Mutex
	token  string
	claims *domain.TokenClaims

	tokens    TokenStore
	refresher Refresher
	group     singleflight.Group
	now       func() time.Time
}

// NewManager builds a manager primed from the persisted token. A persisted
// token that fails to decode is discarded (logout semantics).
func NewManager(tokens TokenStore, refresher Refresher) (*Manager, error) {
	m := &Manager{
		tokens:    tokens,
		refresher: refresher,
		now:       time.Now,
	}

	token, err := tokens.LoadToken()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return m, nil
	}

	claims, err := domain.DecodeToken(token)
	if err != nil {
		log.Printf("session: discarding undecodable persisted token: %v", err)
		if err := tokens.ClearToken(); err != nil {
			return nil, err
		}
		return m, nil
	}

	m.token = token
	m.claims = claims
	return m, nil
}

// Login persists the token and makes its claims current.
func (m *Manager) Login(token string) error {
	claims, err := domain.DecodeToken(token)
	if err != nil {
		return err
	}
	if err := m.tokens.SaveToken(token); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.claims = claims
	m.mu.Unlock()
	return nil
}

// Logout clears the persisted token and the in-memory session.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.token = ""
	m.claims = nil
	m.mu.Unlock()
	return m.tokens.ClearToken()
}

// HasToken reports whether a token is currently held, valid or not. The
// request layer uses it to distinguish "retry later" from "log in again"
// when RefreshToken yields no token.
func (m *Manager) HasToken() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// Claims returns the decoded claims of the held token, or nil.
func (m *Manager) Claims() *domain.TokenClaims {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claims
}

// RefreshToken returns a token fit to authenticate the next request, or ""
// when the caller must treat the request as unauthenticated.
//
// The common case (held token not yet expired) does no I/O. An expired
// token triggers a refresh; concurrent callers never trigger parallel
// refresh calls — they await the single in-flight attempt and observe its
// result. An explicit denial logs the session out; a transient failure
// leaves the held token intact so a later call can retry.
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	token := m.token
	claims := m.claims
	m.mu.Unlock()

	if token == "" {
		return "", nil
	}

	if claims == nil {
		var err error
		claims, err = domain.DecodeToken(token)
		if err != nil {
			if lerr := m.Logout(); lerr != nil {
				return "", lerr
			}
			return "", nil
		}
		m.mu.Lock()
		if m.token == token {
			m.claims = claims
		}
		m.mu.Unlock()
	}

	if claims.ExpiresAt.After(m.now()) {
		return token, nil
	}

	result, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		return m.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (m *Manager) doRefresh(ctx context.Context) (string, error) {
	newToken, err := m.refresher.Refresh(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuthDenied) {
			if lerr := m.Logout(); lerr != nil {
				return "", lerr
			}
			return "", nil
		}
		// Transient: keep the held token and claims so a subsequent call
		// can attempt refresh again.
		log.Printf("session: refresh failed, will retry: %v", err)
		return "", nil
	}

	if err := m.Login(newToken); err != nil {
		return "", err
	}
	return newToken, nil
}
