package session

import "sync"

// Manager owns one session per logged-in picker. All transitions run under
// its lock, so a device's workflow is strictly sequential: an in-flight
// commit finishes or fails before the next action is processed.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Do runs fn against the picker's session, creating it on first use.
func (m *Manager) Do(userID, userName string, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = New(userID, userName)
		m.sessions[userID] = s
	}
	return fn(s)
}

// Drop discards a picker's session, if any. Used on logout.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
