package core

import (
	"testing"
	"time"
)

func TestSessionStoreCreateAndGet(t *testing.T) {
	s := NewSessionStore(time.Minute)

	created := s.Create([]int64{1, 2}, []string{"https://jobs.example.com/acme/1"})
	if created.ID == "" {
		t.Fatalf("expected session id")
	}

	got, ok := s.Get(created.ID)
	if !ok {
		t.Fatalf("session not found")
	}
	if len(got.JobIDs) != 2 || len(got.JobLinks) != 1 {
		t.Fatalf("unexpected session contents: %+v", got)
	}
}

func TestSessionStoreIDsAreUnique(t *testing.T) {
	s := NewSessionStore(time.Minute)

	a := s.Create([]int64{1}, nil)
	b := s.Create([]int64{1}, nil)
	if a.ID == b.ID {
		t.Fatalf("expected distinct session ids")
	}
}

func TestSessionStoreExpiresOnRead(t *testing.T) {
	s := NewSessionStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	created := s.Create(nil, []string{"https://jobs.example.com/acme/1"})

	now = now.Add(30 * time.Second)
	if _, ok := s.Get(created.ID); !ok {
		t.Fatalf("session expired too early")
	}

	now = now.Add(45 * time.Second)
	if _, ok := s.Get(created.ID); ok {
		t.Fatalf("expected expired session")
	}
}

func TestSessionStoreJanitorEviction(t *testing.T) {
	s := NewSessionStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	created := s.Create(nil, nil)
	now = now.Add(2 * time.Minute)
	s.evictExpired()

	s.mu.Lock()
	_, stillThere := s.sessions[created.ID]
	s.mu.Unlock()
	if stillThere {
		t.Fatalf("expected janitor to evict expired session")
	}
}
