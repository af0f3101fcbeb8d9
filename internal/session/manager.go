package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pantrylens/backend/internal/domain"
)

// Manager owns the open scanning sessions, keyed by generated handle.
// Idle sessions are expired by a background janitor so abandoned scans
// do not accumulate.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	extractor Extractor
	config    Config
	idleTTL   time.Duration
}

// NewManager creates a session manager. idleTTL of zero disables expiry.
func NewManager(extractor Extractor, config Config, idleTTL time.Duration) *Manager {
	m := &Manager{
		sessions:  make(map[string]*Session),
		extractor: extractor,
		config:    config,
		idleTTL:   idleTTL,
	}

	if idleTTL > 0 {
		go m.cleanupExpired()
	}

	return m
}

// Open creates a new scanning session and returns it
func (m *Manager) Open() *Session {
	s := newSession(uuid.NewString(), m.extractor, m.config)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the open session for a handle
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.sessions[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Close destroys a session; subsequent observations fail with ErrSessionClosed
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, exists := m.sessions[id]
	if exists {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !exists {
		return domain.ErrSessionNotFound
	}
	s.close()
	return nil
}

// Count returns the number of open sessions (for debugging/monitoring)
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// cleanupExpired removes idle sessions periodically
func (m *Manager) cleanupExpired() {
	interval := m.idleTTL / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-m.idleTTL)

		m.mu.Lock()
		var expired []*Session
		for id, s := range m.sessions {
			if s.idleSince().Before(cutoff) {
				expired = append(expired, s)
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()

		for _, s := range expired {
			s.close()
		}
	}
}
