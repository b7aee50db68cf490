// Package panel serves the patient panel pages and the sidebar toggle
// actions over HTTP.
package panel

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mchmarny/patientnav/pkg/menu"
	"github.com/mchmarny/patientnav/pkg/router"
	"github.com/mchmarny/patientnav/pkg/session"
	"github.com/mchmarny/patientnav/pkg/sidebar"
)

const (
	// CookieName carries the visitor's session id.
	CookieName = "patientnav_session"

	// HomePath is where bare visits and new sessions start.
	HomePath = "/patient"
)

// Panel wires the menu and session store to HTTP routes.
type Panel struct {
	menu         *menu.Menu
	store        *session.Store
	cookieSecure bool
	cookieMaxAge time.Duration
}

// Option configures a Panel.
type Option func(*Panel)

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(p *Panel) { p.cookieSecure = secure }
}

// WithCookieMaxAge sets the session cookie lifetime.
func WithCookieMaxAge(d time.Duration) Option {
	return func(p *Panel) { p.cookieMaxAge = d }
}

// New returns a panel backed by store.
func New(m *menu.Menu, store *session.Store, opts ...Option) *Panel {
	p := &Panel{menu: m, store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Routes returns the panel's HTTP handler.
func (p *Panel) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(redirectTrailingSlash)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, HomePath, http.StatusFound)
	})
	r.Get(HomePath, p.handlePage)
	r.Get(HomePath+"/*", p.handlePage)
	r.Post(sidebar.OpenPath, p.handleOpen)
	r.Post(sidebar.ClosePath, p.handleClose)
	r.Get("/api/menu", p.menu.Handler().ServeHTTP)
	r.Get("/api/sidebar", p.handleState)
	return r
}

// session returns the visitor's session, starting one at start when the
// cookie is missing or stale.
func (p *Panel) session(w http.ResponseWriter, r *http.Request, start string) *session.Session {
	if c, err := r.Cookie(CookieName); err == nil {
		s, err := p.store.Get(c.Value)
		if err == nil {
			return s
		}
		if !errors.Is(err, session.ErrNotFound) {
			slog.Error("session lookup failed", "error", err)
		}
	}

	s := p.store.Create(start)
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if p.cookieMaxAge > 0 {
		cookie.MaxAge = int(p.cookieMaxAge / time.Second)
	}
	http.SetCookie(w, cookie)
	return s
}

func (p *Panel) handlePage(w http.ResponseWriter, r *http.Request) {
	path := router.Canonical(r.URL.Path)
	s := p.session(w, r, path)

	var view sidebar.View
	s.Do(func(s *session.Session) {
		s.Router.Navigate(path)
		view = s.Sidebar.Snapshot()
	})

	pg := page{Sidebar: view}
	status := http.StatusOK
	if item, ok := p.menu.Active(path); ok {
		pg.Title = item.Name
		pg.Heading = item.Name
		pg.Body = "Your " + item.Name + " overview."
	} else {
		status = http.StatusNotFound
		pg.Title = "Not Found"
		pg.Heading = "Page not found"
		pg.Body = "The page " + path + " does not exist."
	}

	templ.Handler(layout(pg), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (p *Panel) handleOpen(w http.ResponseWriter, r *http.Request) {
	p.toggle(w, r, func(sb *sidebar.Sidebar) { sb.Open() })
}

func (p *Panel) handleClose(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("via") == string(sidebar.ActionOverlay) {
		p.toggle(w, r, func(sb *sidebar.Sidebar) { sb.Dismiss() })
		return
	}
	p.toggle(w, r, func(sb *sidebar.Sidebar) { sb.Close() })
}

// toggle applies act and answers with the sidebar fragment for HTMX, or a
// redirect back to the current page otherwise.
func (p *Panel) toggle(w http.ResponseWriter, r *http.Request, act func(*sidebar.Sidebar)) {
	s := p.session(w, r, HomePath)

	var view sidebar.View
	s.Do(func(s *session.Session) {
		act(s.Sidebar)
		view = s.Sidebar.Snapshot()
	})

	if IsHTMXRequest(r) {
		templ.Handler(sidebar.Render(view)).ServeHTTP(w, r)
		return
	}
	http.Redirect(w, r, view.Path, http.StatusSeeOther)
}

type stateResponse struct {
	Open   bool   `json:"open"`
	Path   string `json:"path"`
	Active string `json:"active,omitempty"`
}

func (p *Panel) handleState(w http.ResponseWriter, r *http.Request) {
	s := p.session(w, r, HomePath)

	var resp stateResponse
	s.Do(func(s *session.Session) {
		resp.Open = s.Sidebar.IsOpen()
		resp.Path = s.Sidebar.Path()
		if item, ok := s.Sidebar.Active(); ok {
			resp.Active = item.Name
		}
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode sidebar state", "error", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"url", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
