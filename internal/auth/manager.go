package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/ticktick-mcp/internal/ticktick"
)

// Status is the result of a status query.
type Status struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// Manager owns the authentication state for the process. It starts
// unauthenticated; Login and Resume move it to authenticated, Logout
// moves it back. It implements ticktick.Authenticator, which is how the
// client adapter gates its operations.
type Manager struct {
	api   *ticktick.API
	store *Store

	mu            sync.RWMutex
	authenticated bool
	username      string
}

// NewManager creates a manager over the given API client and store.
func NewManager(api *ticktick.API, store *Store) *Manager {
	return &Manager{api: api, store: store}
}

// Login verifies the credentials against the backend and persists them
// on success. On failure the state is unchanged.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return &ticktick.ValidationError{Field: "credentials", Reason: "username and password are required"}
	}

	if _, err := m.api.Signon(ctx, username, password); err != nil {
		return err
	}

	m.mu.Lock()
	m.authenticated = true
	m.username = username
	m.mu.Unlock()

	if err := m.store.Save(&Credentials{
		Username:      username,
		Password:      password,
		Authenticated: true,
	}); err != nil {
		// Persistence is a side effect; the session itself is valid.
		slog.Warn("failed to persist credentials", "error", err)
	}

	slog.Info("authenticated with TickTick", "username", username)
	return nil
}

// Resume tries to re-establish a session from persisted or environment
// credentials. Failure is silent apart from a log line; the process just
// starts unauthenticated.
func (m *Manager) Resume(ctx context.Context) bool {
	creds, err := m.store.Load()
	if err != nil || creds == nil {
		return false
	}

	if err := m.Login(ctx, creds.Username, creds.Password); err != nil {
		slog.Warn("failed to resume session from saved credentials", "error", err)
		return false
	}
	return true
}

// Logout drops the session and clears the credential store.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.authenticated = false
	m.username = ""
	m.mu.Unlock()

	m.api.ClearToken()
	return m.store.Clear()
}

// Authenticated reports whether a session is established.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// Status returns the current authentication state without side effects.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{Authenticated: m.authenticated, Username: m.username}
}
