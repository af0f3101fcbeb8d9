package session

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/pantrylens/backend/internal/domain"
)

// State is the live-scanning state machine position
type State string

const (
	// StateListening - session open, nothing observed yet
	StateListening State = "listening"
	// StateAccumulating - candidates observed, ledger updating
	StateAccumulating State = "accumulating"
	// StateConfirmed - a candidate crossed the selection threshold or was
	// selected explicitly by the caller
	StateConfirmed State = "confirmed"
)

// Extractor produces date candidates from one text observation. Satisfied
// by usecase.DateService.
type Extractor interface {
	FindAllDates(text string) ([]domain.DateCandidate, error)
}

// Config holds tuning for a live scanning session
type Config struct {
	// DebounceDelay is how long after the last observation extraction
	// runs; rapid successive frames collapse into one pass. Zero means
	// process synchronously (used by tests and one-shot callers).
	DebounceDelay time.Duration
	// LedgerStep is added to a value key's accumulated confidence per
	// observation, capped at 1.0.
	LedgerStep float64
	// SelectThreshold is the accumulated confidence at which the best
	// guess is auto-selected.
	SelectThreshold float64
	// HistoryCapacity bounds the recent-candidate history.
	HistoryCapacity int

	EnableDebugLogging bool
}

func (c Config) withDefaults() Config {
	if c.LedgerStep <= 0 {
		c.LedgerStep = 0.15
	}
	if c.SelectThreshold <= 0 {
		c.SelectThreshold = 0.6
	}
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = 20
	}
	return c
}

// Session fuses repeated noisy observations from a live scan into a single
// confident candidate. All mutation happens behind one mutex, so a reset is
// atomic with respect to the next observation.
type Session struct {
	ID string

	mu           sync.Mutex
	state        State
	ledger       map[string]float64
	history      []domain.DateCandidate
	timer        *time.Timer
	pendingText  string
	bestGuess    *domain.DateCandidate
	selected     *domain.DateCandidate
	lastActivity time.Time
	closed       bool

	extractor Extractor
	config    Config
}

// Snapshot is a point-in-time view of a session for callers
type Snapshot struct {
	ID         string                 `json:"id"`
	State      State                  `json:"state"`
	BestGuess  *domain.DateCandidate  `json:"bestGuess,omitempty"`
	Selected   *domain.DateCandidate  `json:"selected,omitempty"`
	Candidates []domain.DateCandidate `json:"candidates,omitempty"`
	LedgerSize int                    `json:"ledgerSize"`
}

func newSession(id string, extractor Extractor, config Config) *Session {
	return &Session{
		ID:           id,
		state:        StateListening,
		ledger:       make(map[string]float64),
		lastActivity: time.Now(),
		extractor:    extractor,
		config:       config.withDefaults(),
	}
}

// Observe feeds one OCR text observation into the session. A new
// observation cancels any pending scheduled extraction and reschedules it
// after the debounce delay, so rapid successive frames collapse into one
// extraction pass over the latest text.
func (s *Session) Observe(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}

	s.lastActivity = time.Now()
	s.pendingText = text

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if s.config.DebounceDelay <= 0 {
		s.processPendingLocked()
		return nil
	}

	s.timer = time.AfterFunc(s.config.DebounceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.processPendingLocked()
	})
	return nil
}

// processPendingLocked runs extraction on the latest pending text and folds
// the results into the ledger. Caller holds s.mu.
func (s *Session) processPendingLocked() {
	text := s.pendingText
	s.pendingText = ""
	if text == "" {
		return
	}

	candidates, err := s.extractor.FindAllDates(text)
	if err != nil || len(candidates) == 0 {
		return
	}

	// Accumulate confidence per rounded value key; ledger entries only
	// ever grow until reset.
	for i, c := range candidates {
		key := c.DayKey()
		accumulated := s.ledger[key] + s.config.LedgerStep
		if accumulated > 1.0 {
			accumulated = 1.0
		}
		s.ledger[key] = accumulated
		candidates[i] = c.WithConfidence(accumulated)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	for _, c := range candidates {
		s.history = append(s.history, c)
	}
	if overflow := len(s.history) - s.config.HistoryCapacity; overflow > 0 {
		s.history = append(s.history[:0:0], s.history[overflow:]...)
	}

	top := candidates[0]
	s.bestGuess = &top
	s.state = StateAccumulating

	if top.Confidence >= s.config.SelectThreshold {
		s.selected = &top
		s.state = StateConfirmed
	}

	if s.config.EnableDebugLogging {
		log.Printf("[SESSION] %s observed %d candidates, best %s conf=%.2f state=%s",
			s.ID, len(candidates), top.DayKey(), top.Confidence, s.state)
	}
}

// Select confirms a candidate explicitly on behalf of the caller
func (s *Session) Select(candidate domain.DateCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}

	s.selected = &candidate
	s.state = StateConfirmed
	s.lastActivity = time.Now()
	return nil
}

// Reset discards the ledger and history outright and returns the session to
// listening. The ledger is recreated, never partially cleared, to avoid
// stale-key bugs.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.ledger = make(map[string]float64)
	s.history = nil
	s.pendingText = ""
	s.bestGuess = nil
	s.selected = nil
	s.state = StateListening
	s.lastActivity = time.Now()
	return nil
}

// Snapshot returns a copy of the session's current standing
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.ID,
		State:      s.state,
		LedgerSize: len(s.ledger),
	}
	if s.bestGuess != nil {
		c := *s.bestGuess
		snap.BestGuess = &c
	}
	if s.selected != nil {
		c := *s.selected
		snap.Selected = &c
	}
	snap.Candidates = append(snap.Candidates, s.history...)
	return snap
}

// close marks the session unusable; pending work is dropped
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.closed = true
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}
