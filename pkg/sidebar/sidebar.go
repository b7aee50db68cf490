// Package sidebar implements the patient panel navigation sidebar: a fixed
// menu, a two-state visibility flag for small screens, and active-route
// highlighting against a router.
package sidebar

import (
	"sync"

	"github.com/mchmarny/patientnav/pkg/menu"
	"github.com/mchmarny/patientnav/pkg/router"
)

// State is the small-screen visibility of the sidebar.
type State int

const (
	// Closed is the initial state.
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Action names what triggered a transition.
type Action string

const (
	ActionOpen        Action = "open"
	ActionClose       Action = "close"
	ActionOverlay     Action = "overlay"
	ActionRouteChange Action = "route_change"
)

// Observer is told about every action, including no-ops where from == to.
type Observer interface {
	Transition(action Action, from, to State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(action Action, from, to State)

// Transition calls f.
func (f ObserverFunc) Transition(action Action, from, to State) { f(action, from, to) }

// Option configures a Sidebar.
type Option func(*Sidebar)

// WithObserver reports transitions to o.
func WithObserver(o Observer) Option {
	return func(s *Sidebar) { s.observer = o }
}

// Sidebar owns one visitor's visibility state. It is safe for concurrent
// use; concurrent actions resolve last-event-wins.
type Sidebar struct {
	menu     *menu.Menu
	observer Observer

	mu     sync.Mutex
	state  State
	router *router.Router
	unbind func()
}

// New returns a closed sidebar rendering m.
func New(m *menu.Menu, opts ...Option) *Sidebar {
	s := &Sidebar{menu: m, state: Closed}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current visibility.
func (s *Sidebar) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsOpen reports whether the sidebar is open.
func (s *Sidebar) IsOpen() bool {
	return s.State() == Open
}

// Open shows the sidebar. Opening an open sidebar is a no-op.
func (s *Sidebar) Open() State {
	return s.set(ActionOpen, Open)
}

// Close hides the sidebar from its close control.
func (s *Sidebar) Close() State {
	return s.set(ActionClose, Closed)
}

// Dismiss hides the sidebar from the overlay.
func (s *Sidebar) Dismiss() State {
	return s.set(ActionOverlay, Closed)
}

func (s *Sidebar) set(action Action, to State) State {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.Transition(action, from, to)
	}
	return to
}

// Bind attaches the sidebar to r: every route change closes it and the
// active item follows r's current path. A previous binding is released.
// The returned function detaches the sidebar again.
func (s *Sidebar) Bind(r *router.Router) (unbind func()) {
	unsub := r.Subscribe(func(_, _ string) {
		s.set(ActionRouteChange, Closed)
	})

	s.mu.Lock()
	prev := s.unbind
	s.router = r
	s.unbind = unsub
	s.mu.Unlock()

	if prev != nil {
		prev()
	}

	return func() {
		unsub()
		s.mu.Lock()
		if s.router == r {
			s.router = nil
			s.unbind = nil
		}
		s.mu.Unlock()
	}
}

// Path returns the bound router's current path, or "" when unbound.
func (s *Sidebar) Path() string {
	s.mu.Lock()
	r := s.router
	s.mu.Unlock()
	if r == nil {
		return ""
	}
	return r.Current()
}

// Entries returns the menu items with their active flag for the current path.
func (s *Sidebar) Entries() []menu.Entry {
	return s.menu.Entries(s.Path())
}

// Active returns the highlighted item, if any.
func (s *Sidebar) Active() (menu.Item, bool) {
	return s.menu.Active(s.Path())
}
