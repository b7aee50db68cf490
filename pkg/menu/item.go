package menu

import "github.com/mchmarny/patientnav/pkg/icon"

// Item is a single navigable entry of the sidebar.
type Item struct {
	// Name is the display label, unique within a menu.
	Name string `json:"name"`

	// Href is the target path, compared verbatim against the current route.
	Href string `json:"href"`

	// Icon names the glyph rendered next to the label.
	Icon icon.Name `json:"icon"`
}

// Entry pairs an item with its highlight state for one render.
type Entry struct {
	Item
	Active bool `json:"active"`
}

// IsActive reports whether the item is the active route for path.
func (i Item) IsActive(path string) bool {
	return path == i.Href
}
