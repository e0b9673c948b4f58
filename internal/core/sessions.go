package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Session is a short-lived handoff of selected jobs to a companion client,
// addressed either by job IDs or by stored links.
type Session struct {
	ID        string
	JobIDs    []int64
	JobLinks  []string
	CreatedAt time.Time
}

// SessionStore keeps sessions in memory with TTL eviction. Sessions are
// transient by design; losing them on restart is fine.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Create(jobIDs []int64, jobLinks []string) Session {
	session := Session{
		ID:        newSessionID(),
		JobIDs:    append([]int64(nil), jobIDs...),
		JobLinks:  append([]string(nil), jobLinks...),
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if s.now().Sub(session.CreatedAt) > s.ttl {
		delete(s.sessions, id)
		return Session{}, false
	}
	return session, true
}

// StartJanitor evicts expired sessions in the background so abandoned
// handoffs don't accumulate.
func (s *SessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictExpired()
			}
		}
	}()
}

func (s *SessionStore) evictExpired() {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	for id, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
}

func newSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// rand.Read only fails when the OS entropy source is broken.
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
