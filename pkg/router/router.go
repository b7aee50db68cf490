// Package router holds the current location of one visitor and notifies
// subscribers when it changes.
package router

import (
	"strings"
	"sync"
)

// Listener is called after the current path changed from prev to next.
type Listener func(prev, next string)

// Router tracks a current path. The zero value is not usable; use New.
type Router struct {
	mu        sync.Mutex
	current   string
	nextID    int
	listeners map[int]Listener
}

// New returns a router positioned at start.
func New(start string) *Router {
	return &Router{
		current:   Canonical(start),
		listeners: make(map[int]Listener),
	}
}

// Canonical strips trailing slashes; an empty path becomes "/".
func Canonical(path string) string {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "/"
	}
	return path
}

// Current returns the current path.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate moves to path. Listeners run synchronously, in subscription
// order, only when the canonical path differs from the current one.
// It reports whether the route changed.
func (r *Router) Navigate(path string) bool {
	next := Canonical(path)

	r.mu.Lock()
	prev := r.current
	if prev == next {
		r.mu.Unlock()
		return false
	}
	r.current = next
	ls := r.snapshot()
	r.mu.Unlock()

	for _, l := range ls {
		l(prev, next)
	}
	return true
}

// Subscribe registers l and returns a function removing it.
// The returned function is safe to call more than once.
func (r *Router) Subscribe(l Listener) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

// snapshot returns listeners ordered by id. Callers hold r.mu.
func (r *Router) snapshot() []Listener {
	ls := make([]Listener, 0, len(r.listeners))
	for id := 0; id < r.nextID; id++ {
		if l, ok := r.listeners[id]; ok {
			ls = append(ls, l)
		}
	}
	return ls
}
