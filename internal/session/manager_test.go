package session

import (
	"errors"
	"testing"
	"time"

	"github.com/pantrylens/backend/internal/domain"
)

func newTestManager() *Manager {
	extractor := &fakeExtractor{results: map[string][]domain.DateCandidate{
		"frame": {candidateFor("2027-12-25", 0.9)},
	}}
	return NewManager(extractor, syncConfig(), 0)
}

func TestManager_OpenAndGet(t *testing.T) {
	m := newTestManager()

	s := m.Open()
	if s.ID == "" {
		t.Fatal("opened session has empty ID")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}
	if m.Count() != 1 {
		t.Errorf("count = %d, want 1", m.Count())
	}
}

func TestManager_GetUnknownID(t *testing.T) {
	m := newTestManager()

	if _, err := m.Get("no-such-session"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_Close(t *testing.T) {
	m := newTestManager()
	s := m.Open()

	if err := m.Close(s.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("count = %d, want 0 after close", m.Count())
	}
	if _, err := m.Get(s.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get after close error = %v, want ErrSessionNotFound", err)
	}
	// The session object itself is dead too
	if err := s.Observe("frame"); !errors.Is(err, domain.ErrSessionClosed) {
		t.Errorf("Observe after close error = %v, want ErrSessionClosed", err)
	}

	if err := m.Close(s.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("double close error = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_ExpiresIdleSessions(t *testing.T) {
	extractor := &fakeExtractor{results: map[string][]domain.DateCandidate{}}
	m := NewManager(extractor, syncConfig(), 20*time.Millisecond)

	s := m.Open()

	deadline := time.Now().Add(2 * time.Second)
	for m.Count() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if m.Count() != 0 {
		t.Fatalf("count = %d, want 0 after idle TTL", m.Count())
	}

	// The janitor closes the session just after dropping the handle
	var err error
	for time.Now().Before(deadline) {
		if err = s.Observe("frame"); err != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !errors.Is(err, domain.ErrSessionClosed) {
		t.Errorf("Observe on expired session error = %v, want ErrSessionClosed", err)
	}
}

func TestManager_IndependentSessions(t *testing.T) {
	m := newTestManager()

	a := m.Open()
	b := m.Open()
	if a.ID == b.ID {
		t.Fatal("two opened sessions share an ID")
	}

	if err := a.Observe("frame"); err != nil {
		t.Fatalf("observe: %v", err)
	}

	if got := a.Snapshot().State; got != StateAccumulating {
		t.Errorf("session a state = %s, want accumulating", got)
	}
	if got := b.Snapshot().State; got != StateListening {
		t.Errorf("session b state = %s, want listening", got)
	}
}
