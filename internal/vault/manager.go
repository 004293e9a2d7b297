package vault

import (
	"context"
	"sync"
)

// Manager is the single shared handle to the active session of a vault.
// One mutex guards whether a session exists and every operation run on it.
type Manager struct {
	engine *Engine

	mu      sync.Mutex
	session *Session
}

// NewManager returns a locked Manager.
func NewManager(engine *Engine) *Manager {
	return &Manager{engine: engine}
}

// Unlock opens a session with passphrase.
func (m *Manager) Unlock(ctx context.Context, passphrase string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return ErrAlreadyUnlocked
	}

	s, err := m.engine.Open(ctx, passphrase)
	if err != nil {
		return err
	}
	m.session = s

	return nil
}

// Lock destroys the active session, if any.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return
	}
	m.session.Destroy()
	m.session = nil
}

// IsUnlocked reports whether a session is active.
func (m *Manager) IsUnlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.session != nil
}

// Do runs fn with the active session while holding the lock.
func (m *Manager) Do(fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return ErrLocked
	}
	return fn(m.session)
}
