package service

import (
	"sync"
	"time"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
)

// DefaultSessionID is used when a caller does not name a session.
const DefaultSessionID = "default"

// Session holds one operator's visible transcript. Every exchange takes a
// ticket from Begin; only the holder of the newest ticket may append, so a
// slow earlier reply cannot land after a newer one.
type Session struct {
	mu       sync.Mutex
	id       string
	seq      uint64
	turns    []domain.Turn
	maxTurns int
	touched  time.Time
}

func newSession(id string, maxTurns int) *Session {
	return &Session{id: id, maxTurns: maxTurns, touched: time.Now()}
}

func (s *Session) ID() string { return s.id }

// Begin issues the ticket for a new exchange.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.touched = time.Now()
	return s.seq
}

// Commit appends turns if ticket is still the newest one. It reports
// whether the turns were appended.
func (s *Session) Commit(ticket uint64, turns ...domain.Turn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.seq {
		return false
	}
	s.turns = append(s.turns, turns...)
	if s.maxTurns > 0 && len(s.turns) > s.maxTurns {
		kept := s.turns[len(s.turns)-s.maxTurns:]
		// The transcript never opens on a reply whose question was trimmed.
		for len(kept) > 0 && kept[0].Role != domain.RoleUser {
			kept = kept[1:]
		}
		s.turns = append([]domain.Turn(nil), kept...)
	}
	s.touched = time.Now()
	return true
}

// Transcript returns a copy of the visible turns.
func (s *Session) Transcript() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Messages returns the transcript in completion-request form.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, 0, len(s.turns))
	for _, t := range s.turns {
		out = append(out, domain.Message{Role: t.Role, Content: t.Content})
	}
	return out
}

// Clear drops the transcript. Outstanding tickets become stale.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.turns = nil
}

// SessionRegistry keeps sessions in memory for the process lifetime or
// until dismissed.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	maxTurns int
}

func NewSessionRegistry(maxTurns int) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		maxTurns: maxTurns,
	}
}

// Get returns the session for id, creating it on first use.
func (r *SessionRegistry) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = newSession(id, r.maxTurns)
		r.sessions[id] = s
	}
	return s
}

func (r *SessionRegistry) Lookup(id string) (*Session, bool) {
	if id == "" {
		id = DefaultSessionID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Dismiss forgets the session and its transcript. Replies still in flight
// for it are discarded on commit.
func (r *SessionRegistry) Dismiss(id string) bool {
	if id == "" {
		id = DefaultSessionID
	}
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Clear()
	}
	return ok
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Expire dismisses sessions idle since before cutoff and returns how many
// were removed.
func (r *SessionRegistry) Expire(cutoff time.Time) int {
	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.touched.Before(cutoff)
		s.mu.Unlock()
		if idle {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Clear()
	}
	return len(stale)
}
