// Package session owns the operator's authenticated-session lifecycle:
// restore on startup, login, logout, and the always-current session value the
// rest of the console reads.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/evalia-hr/evalia-console/internal/hrapi"
)

// State is the lifecycle state of the manager.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateRestoring     State = "restoring"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Session is a read-only snapshot of the current authentication state.
// IsLoading is true only while the startup restore is in flight.
type Session struct {
	Token           string
	RefreshToken    string
	User            hrapi.User
	IsAuthenticated bool
	IsLoading       bool
}

// API is the slice of the HR API the lifecycle manager depends on.
type API interface {
	Login(ctx context.Context, email, password string) (hrapi.Credentials, error)
	Me(ctx context.Context, token string) (hrapi.User, error)
	Logout(ctx context.Context, token string) error
}

// Manager is the sole writer of the session value and of the persisted
// credentials. All other components read through Snapshot.
type Manager struct {
	api    API
	store  CredentialStore
	logger *slog.Logger

	mu      sync.RWMutex
	state   State
	session Session
}

// NewManager constructs an uninitialized Manager.
func NewManager(api API, store CredentialStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:    api,
		store:  store,
		logger: logger,
		state:  StateUninitialized,
	}
}

// Restore validates any persisted credential against the identity endpoint.
// It runs once per process; later calls are no-ops. Any failure clears the
// persisted credential and leaves the session anonymous.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return
	}
	m.state = StateRestoring
	m.session = Session{IsLoading: true}
	m.mu.Unlock()

	creds, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoCredentials) {
			m.logger.Warn("restore: load credentials", slog.Any("error", err))
			m.clearStore(ctx)
		}
		m.settle(StateAnonymous, Session{})
		return
	}

	user, err := m.api.Me(ctx, creds.Token)
	if err != nil {
		m.logger.Warn("restore: credential rejected", slog.Any("error", err))
		m.clearStore(ctx)
		m.settle(StateAnonymous, Session{})
		return
	}

	m.settle(StateAuthenticated, Session{
		Token:           creds.Token,
		RefreshToken:    creds.RefreshToken,
		User:            user,
		IsAuthenticated: true,
	})
	m.logger.Info("session restored", slog.Int64("user_id", user.ID), slog.String("role", user.RoleName()))
}

// Login authenticates against the HR API. On success the credential is
// persisted and the session populated; on failure the session is untouched
// and the classified error is returned for display. No retry happens here.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	creds, err := m.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, Credentials{Token: creds.Token, RefreshToken: creds.RefreshToken}); err != nil {
		m.logger.Warn("login: persist credentials", slog.Any("error", err))
	}
	m.settle(StateAuthenticated, Session{
		Token:           creds.Token,
		RefreshToken:    creds.RefreshToken,
		User:            creds.User,
		IsAuthenticated: true,
	})
	m.logger.Info("login succeeded", slog.Int64("user_id", creds.User.ID), slog.String("role", creds.User.RoleName()))
	return nil
}

// Logout notifies the HR API best-effort, then always clears the persisted
// credential and the session. The local logout cannot fail.
func (m *Manager) Logout(ctx context.Context) {
	token := m.Snapshot().Token
	if token != "" {
		if err := m.api.Logout(ctx, token); err != nil {
			m.logger.Warn("logout: remote invalidation failed", slog.Any("error", err))
		}
	}
	m.clearStore(ctx)
	m.settle(StateAnonymous, Session{})
	m.logger.Info("logged out")
}

// Snapshot returns a copy of the current session value.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) settle(state State, sess Session) {
	m.mu.Lock()
	m.state = state
	m.session = sess
	m.mu.Unlock()
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("clear credentials", slog.Any("error", err))
	}
}
