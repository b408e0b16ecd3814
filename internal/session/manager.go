// Package session owns the in-memory auth state of the owner app.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	evbus "github.com/asaskevich/EventBus"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// EventChanged is published with the new model.Session after every transition.
const EventChanged = "session:changed"

// fallbackRestoreError is used when a failed restore carries no message.
const fallbackRestoreError = "Failed to retrieve user data"

// Authenticator is the owner auth API.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*model.LoginResponse, error)
	// Verify checks the stored token on the authenticated path.
	Verify(ctx context.Context) (*model.VerifyResponse, error)
}

// TokenStore persists the bearer token.
type TokenStore interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Manager is the session state machine. It starts in status loading.
//
// Login and Logout are two-phase: memory is updated first, then persistence
// is awaited. A persistence failure returns an error wrapping model.ErrPersist
// while the in-memory state keeps the new value.
type Manager struct {
	store TokenStore
	auth  Authenticator
	bus   evbus.Bus

	mu    sync.RWMutex
	state model.Session
	// gen counts Login/Logout calls so a slow restore cannot overwrite them
	gen uint64
}

// NewManager creates a manager. bus may be nil.
func NewManager(store TokenStore, auth Authenticator, bus evbus.Bus) *Manager {
	return &Manager{
		store: store,
		auth:  auth,
		bus:   bus,
		state: model.Session{Status: model.StatusLoading},
	}
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySession(m.state)
}

// RestoreSession re-validates the persisted token. No token resolves to an
// anonymous succeeded session; any verify failure resolves to failed with no
// user. Safe to call again.
func (m *Manager) RestoreSession(ctx context.Context) error {
	m.mu.Lock()
	m.state.Status = model.StatusLoading
	gen := m.gen
	m.mu.Unlock()
	m.publish()

	token := m.store.Get(ctx)
	if token == "" {
		m.mu.Lock()
		if m.gen == gen {
			m.state = model.Session{Status: model.StatusSucceeded}
		} else if m.state.Status == model.StatusLoading {
			m.state.Status = model.StatusSucceeded
		}
		m.mu.Unlock()
		log.Printf("[Session] Restore: no stored token, anonymous")
		m.publish()
		return nil
	}

	resp, err := m.auth.Verify(ctx)

	m.mu.Lock()
	changed := m.gen != gen
	switch {
	case err != nil && changed && m.state.User != nil:
		// a login completed while verifying; it wins
	case err != nil:
		m.state = model.Session{Status: model.StatusFailed, Error: restoreMessage(err)}
	case changed:
		// keep whatever login/logout decided, only leave loading
		if m.state.Status == model.StatusLoading {
			m.state.Status = model.StatusSucceeded
		}
	default:
		m.state = model.Session{
			Status: model.StatusSucceeded,
			User:   &model.User{Token: token, Username: resp.Username},
		}
	}
	state := copySession(m.state)
	m.mu.Unlock()

	if err != nil {
		log.Printf("[Session] Restore FAILED: %v", err)
	} else {
		log.Printf("[Session] Restore OK: user=%s", state.Username())
	}
	m.publish()
	return err
}

// Login records user as signed in, then persists the token.
func (m *Manager) Login(ctx context.Context, user model.User) error {
	if user.Token == "" {
		return fmt.Errorf("login: empty token")
	}

	m.mu.Lock()
	m.gen++
	u := user
	m.state = model.Session{Status: model.StatusSucceeded, User: &u}
	m.mu.Unlock()
	m.publish()

	if err := m.store.Set(ctx, user.Token); err != nil {
		log.Printf("[Session] Login persist FAILED: user=%s err=%v", user.Username, err)
		return fmt.Errorf("%w: %w", model.ErrPersist, err)
	}

	log.Printf("[Session] Login OK: user=%s", user.Username)
	return nil
}

// Logout clears the user, then removes the persisted token. Idempotent.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.gen++
	wasSignedIn := m.state.User != nil
	m.state.User = nil
	m.mu.Unlock()
	m.publish()

	if err := m.store.Clear(ctx); err != nil {
		log.Printf("[Session] Logout persist FAILED: err=%v", err)
		return fmt.Errorf("%w: %w", model.ErrPersist, err)
	}

	if wasSignedIn {
		log.Printf("[Session] Logout OK")
	}
	return nil
}

// SignIn calls the login endpoint and records the result. When only
// persistence fails, the user is returned along with the ErrPersist error.
func (m *Manager) SignIn(ctx context.Context, username, password string) (*model.User, error) {
	resp, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	user := model.User{Token: resp.Token, Username: resp.Username}
	if err := m.Login(ctx, user); err != nil {
		return &user, err
	}
	return &user, nil
}

func (m *Manager) publish() {
	if m.bus == nil {
		return
	}
	m.bus.Publish(EventChanged, m.Snapshot())
}

// restoreMessage prefers the server's message, then the error text.
func restoreMessage(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackRestoreError
}

func copySession(s model.Session) model.Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
