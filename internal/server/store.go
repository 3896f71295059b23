package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-schema-collector/internal/types"
	"github.com/jonathan/job-schema-collector/internal/wizard"
)

// SessionStore keeps wizard sessions in memory, keyed by session ID.
type SessionStore struct {
	mu       sync.Mutex
	schema   *types.Schema
	ttl      time.Duration
	sessions map[uuid.UUID]*storedSession
	now      func() time.Time
}

type storedSession struct {
	session  wizard.Session
	lastSeen time.Time
}

// NewSessionStore creates a store whose fresh sessions use schema. Sessions
// idle for longer than ttl are dropped by Prune.
func NewSessionStore(schema *types.Schema, ttl time.Duration) *SessionStore {
	return &SessionStore{
		schema:   schema,
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*storedSession),
		now:      time.Now,
	}
}

// Get returns the session for id, or a fresh one if none is stored.
func (s *SessionStore) Get(id uuid.UUID) wizard.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.sessions[id]; ok {
		stored.lastSeen = s.now()
		return stored.session
	}
	return wizard.NewSession(s.schema)
}

// Update applies fn to the session for id and stores the result. When fn
// fails nothing is stored and the previous session is returned with the error.
func (s *SessionStore) Update(id uuid.UUID, fn func(wizard.Session) (wizard.Session, error)) (wizard.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := wizard.NewSession(s.schema)
	if stored, ok := s.sessions[id]; ok {
		current = stored.session
	}

	next, err := fn(current)
	if err != nil {
		return current, err
	}
	s.sessions[id] = &storedSession{session: next, lastSeen: s.now()}
	return next, nil
}

// Prune drops idle sessions and returns how many were removed.
func (s *SessionStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, stored := range s.sessions {
		if stored.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
