// Package sessions keeps per-thread chat history in memory for the lifetime
// of the process.
package sessions

import (
	"context"
	"errors"
	"sync"
	"unicode"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const maxThreadIDLen = 128

var ErrInvalidThread = errors.New("invalid thread id")

// Turn is one message in a thread. Seq starts at 1 and has no gaps.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Seq     int    `json:"seq"`
}

// Session is the history of one thread. Callers that read history, call a
// model and append the result must hold the session lock for the whole
// sequence.
type Session struct {
	id   string
	lock chan struct{}

	mu    sync.RWMutex
	turns []Turn
}

func newSession(id string) *Session {
	return &Session{id: id, lock: make(chan struct{}, 1)}
}

func (s *Session) ID() string { return s.id }

// Lock blocks until the session is free or ctx is done.
func (s *Session) Lock(ctx context.Context) error {
	select {
	case s.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) Unlock() {
	select {
	case <-s.lock:
	default:
		panic("sessions: unlock of unlocked session")
	}
}

// Append adds a turn and returns it with its sequence number.
func (s *Session) Append(role Role, content string) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Turn{Role: role, Content: content, Seq: len(s.turns) + 1}
	s.turns = append(s.turns, t)
	return t
}

// History returns a copy of the turns in order.
func (s *Session) History() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Registry maps thread ids to sessions. Sessions are never evicted.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the session for threadID, creating it on first use.
func (r *Registry) Get(threadID string) (*Session, error) {
	if err := ValidateThreadID(threadID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[threadID]
	if !ok {
		s = newSession(threadID)
		r.sessions[threadID] = s
	}
	return s, nil
}

// Lookup returns an existing session without creating one.
func (r *Registry) Lookup(threadID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[threadID]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func ValidateThreadID(id string) error {
	if id == "" || len(id) > maxThreadIDLen {
		return ErrInvalidThread
	}
	for _, c := range id {
		if unicode.IsControl(c) || unicode.IsSpace(c) {
			return ErrInvalidThread
		}
	}
	return nil
}
