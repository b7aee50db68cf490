// Package session keeps one router and one sidebar per visitor.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mchmarny/patientnav/pkg/menu"
	"github.com/mchmarny/patientnav/pkg/router"
	"github.com/mchmarny/patientnav/pkg/sidebar"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Session is a visitor's component instance.
type Session struct {
	ID      string
	Router  *router.Router
	Sidebar *sidebar.Sidebar

	mu       sync.Mutex
	lastSeen time.Time
	unbind   func()
}

// Do runs fn with the session's actions serialised.
func (s *Session) Do(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Hooks receive session lifecycle and navigation events.
type Hooks struct {
	// Observer is attached to every sidebar.
	Observer sidebar.Observer

	// Navigated is called on every route change of any session.
	Navigated func(prev, next string)

	// Count is called with the number of live sessions after it changes.
	Count func(n int)
}

// Store holds live sessions keyed by id.
type Store struct {
	menu  *menu.Menu
	ttl   time.Duration
	hooks Hooks
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty store. Sessions idle longer than ttl are
// removed by Sweep.
func NewStore(m *menu.Menu, ttl time.Duration, hooks Hooks) *Store {
	return &Store{
		menu:     m,
		ttl:      ttl,
		hooks:    hooks,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session positioned at start with a closed sidebar.
func (st *Store) Create(start string) *Session {
	var opts []sidebar.Option
	if st.hooks.Observer != nil {
		opts = append(opts, sidebar.WithObserver(st.hooks.Observer))
	}

	s := &Session{
		ID:       uuid.NewString(),
		Router:   router.New(start),
		Sidebar:  sidebar.New(st.menu, opts...),
		lastSeen: st.now(),
	}
	unbind := s.Sidebar.Bind(s.Router)
	var unsub func()
	if st.hooks.Navigated != nil {
		unsub = s.Router.Subscribe(st.hooks.Navigated)
	}
	s.unbind = func() {
		unbind()
		if unsub != nil {
			unsub()
		}
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	slog.Debug("session created", "session", s.ID, "path", s.Router.Current())
	st.count(n)
	return s
}

// Get returns the live session for id and marks it as seen.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(st.now())
	return s, nil
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Delete removes the session for id, releasing its router subscriptions.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if !ok {
		return
	}
	s.unbind()
	st.count(n)
}

// Sweep removes sessions idle longer than the ttl and returns how many.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	for _, s := range expired {
		s.unbind()
	}
	if len(expired) > 0 {
		slog.Debug("sessions expired", "count", len(expired), "remaining", n)
		st.count(n)
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st.Sweep()
		}
	}
}

func (st *Store) count(n int) {
	if st.hooks.Count != nil {
		st.hooks.Count(n)
	}
}
