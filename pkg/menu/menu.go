package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mchmarny/patientnav/pkg/icon"
)

// ErrInvalidMenu is returned by Validate for a malformed table.
var ErrInvalidMenu = errors.New("invalid menu")

// Menu is the immutable navigation table of the patient panel.
type Menu struct {
	items []Item
}

var defaultItems = []Item{
	{Name: "Dashboard", Href: "/patient", Icon: icon.Home},
	{Name: "Prescriptions", Href: "/patient/prescriptions", Icon: icon.ClipboardDocumentList},
	{Name: "Health Logs", Href: "/patient/health-logs", Icon: icon.UserGroup},
	{Name: "Messages", Href: "/patient/messages", Icon: icon.ChatBubbleLeftRight},
	{Name: "Settings", Href: "/patient/settings", Icon: icon.Cog},
}

// New builds a menu from items, copying them so later changes to the
// slice do not leak into the menu.
func New(items ...Item) (*Menu, error) {
	m := &Menu{items: append([]Item(nil), items...)}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Default returns the patient panel menu.
func Default() *Menu {
	m, err := New(defaultItems...)
	if err != nil {
		panic(fmt.Sprintf("default menu: %v", err))
	}
	return m
}

// Validate checks that every item has a name and href and that both are unique.
func (m *Menu) Validate() error {
	if len(m.items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidMenu)
	}
	names := make(map[string]struct{}, len(m.items))
	hrefs := make(map[string]struct{}, len(m.items))
	for i, it := range m.items {
		if it.Name == "" || it.Href == "" {
			return fmt.Errorf("%w: item %d missing name or href", ErrInvalidMenu, i)
		}
		if _, dup := names[it.Name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidMenu, it.Name)
		}
		if _, dup := hrefs[it.Href]; dup {
			return fmt.Errorf("%w: duplicate href %q", ErrInvalidMenu, it.Href)
		}
		names[it.Name] = struct{}{}
		hrefs[it.Href] = struct{}{}
	}
	return nil
}

// Items returns a copy of the menu items in display order.
func (m *Menu) Items() []Item {
	return append([]Item(nil), m.items...)
}

// Len is the number of items.
func (m *Menu) Len() int {
	return len(m.items)
}

// Active returns the item whose href equals path.
// Hrefs are unique, so at most one item matches.
func (m *Menu) Active(path string) (Item, bool) {
	for _, it := range m.items {
		if it.IsActive(path) {
			return it, true
		}
	}
	return Item{}, false
}

// Entries returns every item with its active flag computed against path.
func (m *Menu) Entries(path string) []Entry {
	entries := make([]Entry, len(m.items))
	for i, it := range m.items {
		entries[i] = Entry{Item: it, Active: it.IsActive(path)}
	}
	return entries
}

// Handles reports whether path is one of the menu targets.
func (m *Menu) Handles(path string) bool {
	_, ok := m.Active(path)
	return ok
}

// MarshalJSON encodes the menu as its item list.
func (m *Menu) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items []Item `json:"items"`
	}{Items: m.items})
}

// Handler returns an HTTP handler that responds with the menu as JSON.
func (m *Menu) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(m); err != nil {
			slog.Error("failed to encode menu", "error", err, "url", r.URL.Path)
			return
		}

		slog.Debug("menu response sent", "method", r.Method, "url", r.URL.Path)
	})
}
