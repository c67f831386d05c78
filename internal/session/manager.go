package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a session ID is unknown.
var ErrNotFound = errors.New("session not found")

// Manager holds active sessions in memory.
//
// Manager is safe for concurrent use by multiple goroutines.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[uuid.UUID]*Session
	maxHistory int
	logger     *slog.Logger
}

// NewManager creates a Manager. maxHistory bounds the number of
// messages kept per session; values <= 0 disable trimming.
func NewManager(maxHistory int, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions:   make(map[uuid.UUID]*Session),
		maxHistory: maxHistory,
		logger:     logger,
	}
}

// Create starts a new session with the given listener filters.
func (m *Manager) Create(genre, province string) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.New(),
		History:   NewHistory(),
		Genre:     genre,
		Province:  province,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("created session", "id", s.ID)
	return s
}

// Get retrieves a session by ID.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Append records a completed exchange on a session and trims the
// history to the configured window.
func (m *Manager) Append(id uuid.UUID, userInput string, reply string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	s.History.Add(userInput, reply)
	s.History.Trim(m.maxHistory)

	m.mu.Lock()
	s.UpdatedAt = time.Now().UTC()
	m.mu.Unlock()

	return nil
}

// Messages returns a copy of a session's history.
func (m *Manager) Messages(id uuid.UUID) ([]*ai.Message, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return s.History.Messages(), nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.logger.Debug("deleted session", "id", id)
}

// PurgeIdle removes sessions that have not been touched within ttl
// and returns how many were dropped.
func (m *Manager) PurgeIdle(ttl time.Duration) int {
	cutoff := time.Now().UTC().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			purged++
		}
	}

	if purged > 0 {
		m.logger.Debug("purged idle sessions", "count", purged)
	}
	return purged
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
