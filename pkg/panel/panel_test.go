package panel

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mchmarny/patientnav/pkg/menu"
	"github.com/mchmarny/patientnav/pkg/session"
)

type client struct {
	t      *testing.T
	routes chi.Router
	cookie *http.Cookie
}

func setup(t *testing.T) *client {
	t.Helper()
	m := menu.Default()
	store := session.NewStore(m, time.Hour, session.Hooks{})
	return &client{t: t, routes: New(m, store).Routes()}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.routes.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set(HTMXRequestHeader, "true")
	}
	return c.do(req)
}

func (c *client) state() stateResponse {
	c.t.Helper()
	rec := c.get("/api/sidebar")
	var s stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		c.t.Fatalf("decode state: %v", err)
	}
	return s
}

func TestRootRedirectsToDashboard(t *testing.T) {
	rec := setup(t).get("/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != HomePath {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPageHighlightsActiveItem(t *testing.T) {
	c := setup(t)
	rec := c.get("/patient/messages")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<a href="/patient/messages" aria-current="page"`) {
		t.Fatal("messages link not marked current")
	}
	if n := strings.Count(body, `aria-current="page"`); n != 1 {
		t.Fatalf("expected one current link, got %d", n)
	}
	if !strings.Contains(body, "<title>Messages | Patient Panel</title>") {
		t.Fatal("missing page title")
	}
	if c.cookie == nil {
		t.Fatal("expected session cookie")
	}
	if st := c.state(); st.Active != "Messages" || st.Open {
		t.Fatalf("state = %+v", st)
	}
}

func TestUnknownPatientPage(t *testing.T) {
	c := setup(t)
	rec := c.get("/patient/unknown")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "aria-current") {
		t.Fatal("unexpected active item")
	}
	if st := c.state(); st.Active != "" || st.Path != "/patient/unknown" {
		t.Fatalf("state = %+v", st)
	}
}

func TestOpenThenNavigateCloses(t *testing.T) {
	c := setup(t)
	c.get("/patient")

	rec := c.post("/sidebar/open", nil, false)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/patient" {
		t.Fatalf("open: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if !c.state().Open {
		t.Fatal("expected open sidebar")
	}

	body := c.get("/patient/settings").Body.String()
	if !strings.Contains(body, `data-state="closed"`) {
		t.Fatal("page after route change should render a closed sidebar")
	}
	if c.state().Open {
		t.Fatal("route change should close the sidebar")
	}
}

func TestReloadSamePageKeepsOpen(t *testing.T) {
	c := setup(t)
	c.get("/patient/messages")
	c.post("/sidebar/open", nil, false)

	body := c.get("/patient/messages").Body.String()
	if !strings.Contains(body, `data-state="open"`) {
		t.Fatal("same route should keep the sidebar open")
	}
}

func TestCloseVariants(t *testing.T) {
	for _, via := range []string{"close", "overlay", ""} {
		t.Run(via, func(t *testing.T) {
			c := setup(t)
			c.get("/patient")
			c.post("/sidebar/open", nil, false)

			rec := c.post("/sidebar/close", url.Values{"via": {via}}, false)
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d", rec.Code)
			}
			if c.state().Open {
				t.Fatal("expected closed sidebar")
			}
			c.post("/sidebar/close", url.Values{"via": {via}}, false)
			if c.state().Open {
				t.Fatal("repeated close should stay closed")
			}
		})
	}
}

func TestHTMXToggleReturnsFragment(t *testing.T) {
	c := setup(t)
	c.get("/patient/prescriptions")

	rec := c.post("/sidebar/open", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, `<div id="sidebar" data-state="open">`) {
		t.Fatalf("unexpected fragment: %.80q", body)
	}
	if strings.Contains(body, "<html") {
		t.Fatal("fragment should not include the document shell")
	}
	if !strings.Contains(body, `aria-label="Sidebar overlay"`) {
		t.Fatal("open fragment missing overlay")
	}

	rec = c.post("/sidebar/close", url.Values{"via": {"overlay"}}, true)
	if !strings.HasPrefix(rec.Body.String(), `<div id="sidebar" data-state="closed">`) {
		t.Fatalf("unexpected close fragment: %.80q", rec.Body.String())
	}
}

func TestSessionsDoNotShareState(t *testing.T) {
	a := setup(t)
	b := &client{t: t, routes: a.routes}
	a.get("/patient")
	b.get("/patient")

	a.post("/sidebar/open", nil, false)
	if b.state().Open {
		t.Fatal("second visitor saw first visitor's sidebar open")
	}
	if a.cookie.Value == b.cookie.Value {
		t.Fatal("visitors share a session id")
	}
}

func TestStaleCookieStartsNewSession(t *testing.T) {
	c := setup(t)
	c.cookie = &http.Cookie{Name: CookieName, Value: "expired"}
	c.get("/patient")
	if c.cookie.Value == "expired" {
		t.Fatal("expected a fresh session cookie")
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	rec := setup(t).get("/patient/messages/?tab=inbox")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/patient/messages?tab=inbox" {
		t.Fatalf("location = %q", loc)
	}
}

func TestMenuAPI(t *testing.T) {
	rec := setup(t).get("/api/menu")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"Health Logs"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestIsHTMXRequest(t *testing.T) {
	if IsHTMXRequest(nil) {
		t.Fatal("nil request")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsHTMXRequest(req) {
		t.Fatal("plain request")
	}
	req.Header.Set(HTMXRequestHeader, "TRUE")
	if !IsHTMXRequest(req) {
		t.Fatal("htmx request not detected")
	}
}
