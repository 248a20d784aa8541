package storage

import (
	"sync"

	"github.com/aliskhannn/vocab-trainer-bot/internal/service"
)

// SessionStorage provides in-memory storage for the active study session of each user.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*service.Session
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*service.Session),
	}
}

// Store saves the session of a user, replacing any previous one.
func (s *SessionStorage) Store(userID int64, session *service.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
}

// Get retrieves the session of a user.
func (s *SessionStorage) Get(userID int64) (*service.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok
}

// Delete removes the session of a user.
func (s *SessionStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// UserIDs returns the users with an active session.
func (s *SessionStorage) UserIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of active sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
