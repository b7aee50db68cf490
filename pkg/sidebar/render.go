package sidebar

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mchmarny/patientnav/pkg/icon"
	"github.com/mchmarny/patientnav/pkg/menu"
)

// Element id the HTMX toggle forms swap.
const ElementID = "sidebar"

const (
	OpenPath  = "/sidebar/open"
	ClosePath = "/sidebar/close"
)

// View is a consistent snapshot of a sidebar for rendering.
type View struct {
	State   State
	Path    string
	Entries []menu.Entry
}

// Snapshot captures the sidebar's state and entries.
func (s *Sidebar) Snapshot() View {
	path := s.Path()
	return View{
		State:   s.State(),
		Path:    path,
		Entries: s.menu.Entries(path),
	}
}

// Component renders the sidebar as it is now.
func (s *Sidebar) Component() templ.Component {
	return Render(s.Snapshot())
}

// Render draws the toggle control, the overlay while open, and the panel.
func Render(v View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		open := v.State == Open
		h := &html{ctx: ctx, w: w}

		h.raw(`<div id="` + ElementID + `" data-state="` + v.State.String() + `">`)

		tabindex := "0"
		if open {
			tabindex = "-1"
		}
		h.form(OpenPath, "")
		h.raw(`<button type="submit" aria-label="Open Sidebar" aria-expanded="` + boolAttr(open) + `" tabindex="` + tabindex +
			`" class="fixed z-40 left-0 top-1/2 -translate-y-1/2 bg-primary-600 text-white rounded-r-full shadow-md p-2 focus:outline-none focus:ring-2 focus:ring-primary-400 transition hover:bg-primary-700 lg:hidden">`)
		h.component(icon.SVG(icon.ChevronRight, "h-6 w-6"))
		h.raw(`</button></form>`)

		if open {
			h.form(ClosePath, string(ActionOverlay))
			h.raw(`<button type="submit" aria-label="Sidebar overlay" class="fixed inset-0 bg-black/40 z-40 lg:hidden"></button></form>`)
		}

		translate := "-translate-x-full"
		if open {
			translate = "translate-x-0"
		}
		h.raw(`<aside class="fixed top-0 left-0 h-screen w-64 bg-gradient-to-b from-primary-50 via-white to-medical-50 shadow-xl border-r border-gray-200 flex flex-col z-50 transition-transform duration-200 ` +
			translate + ` lg:translate-x-0 lg:static lg:top-auto">`)

		h.raw(`<div class="flex items-center gap-3 px-6 h-20 border-b border-gray-100 bg-white/80 backdrop-blur">`)
		h.raw(`<div class="flex items-center justify-center h-12 w-12 rounded-full bg-primary-100 shadow-inner"><span class="text-primary-600 text-2xl font-bold">🩺</span></div>`)
		h.raw(`<div><span class="block text-lg font-bold text-primary-700 tracking-wide">Patient Panel</span><span class="block text-xs text-gray-400">Your Health Hub</span></div>`)
		h.raw(`<div class="ml-auto lg:hidden">`)
		h.form(ClosePath, string(ActionClose))
		h.raw(`<button type="submit" aria-label="Close Sidebar" class="p-1">`)
		h.component(icon.SVG(icon.XMark, "h-7 w-7 text-gray-500"))
		h.raw(`</button></form></div></div>`)

		h.raw(`<nav class="flex-1 mt-4 px-2 lg:px-4"><ul class="space-y-1">`)
		for _, e := range v.Entries {
			h.entry(e)
		}
		h.raw(`</ul></nav>`)

		h.raw(`<div class="mt-auto mb-6 mx-4 p-4 bg-medical-50 rounded-xl shadow-sm hidden md:block">`)
		h.raw(`<h3 class="text-sm font-medium text-primary-700 mb-2 tracking-wide">Quick Stats</h3>`)
		h.raw(`<div class="text-xs text-gray-600 space-y-1 font-mono"><p>• 3 pending reminders</p><p>• 1 new prescription</p><p>• Next appointment: Tomorrow</p></div></div>`)
		h.raw(`<div class="hidden lg:block mt-auto px-6 pb-6"><div class="h-2 w-full rounded-xl bg-gradient-to-r from-primary-200 via-medical-200 to-primary-100 opacity-70"></div></div>`)

		h.raw(`</aside></div>`)
		return h.err
	})
}

type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) component(c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// form opens a POST form that also works as an HTMX swap of the sidebar.
func (h *html) form(action, via string) {
	h.raw(`<form method="post" action="` + action + `" hx-post="` + action + `" hx-target="#` + ElementID + `" hx-swap="outerHTML">`)
	if via != "" {
		h.raw(`<input type="hidden" name="via" value="` + templ.EscapeString(via) + `">`)
	}
}

func (h *html) entry(e menu.Entry) {
	link := []string{"flex items-center px-4 py-2 text-base rounded-lg transition-colors group"}
	glyph := []string{"mr-3 h-6 w-6"}
	current := ""
	if e.Active {
		link = append(link, "bg-primary-100 text-primary-700 font-semibold shadow-inner")
		glyph = append(glyph, "text-primary-500")
		current = ` aria-current="page"`
	} else {
		link = append(link, "text-gray-700 hover:bg-primary-50 hover:text-primary-700")
		glyph = append(glyph, "text-gray-400 group-hover:text-primary-400")
	}

	h.raw(`<li><a href="` + templ.EscapeString(e.Href) + `"` + current + ` class="` + strings.Join(link, " ") + `">`)
	h.component(icon.SVG(e.Icon, strings.Join(glyph, " ")))
	h.raw(`<span class="truncate">` + templ.EscapeString(e.Name) + `</span></a></li>`)
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
