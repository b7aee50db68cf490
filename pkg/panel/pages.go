package panel

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mchmarny/patientnav/pkg/sidebar"
)

// AppName is the product name shown in page titles.
const AppName = "Patient Panel"

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

type page struct {
	Title   string
	Heading string
	Body    string
	Sidebar sidebar.View
}

func pageTitle(title string) string {
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

// layout renders the document shell with the sidebar beside the main content.
func layout(p page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(pageTitle(p.Title))+`</title>`+
			`<script src="`+htmxScript+`" defer></script></head>`+
			`<body class="bg-gray-50"><div class="flex min-h-screen">`); err != nil {
			return err
		}
		if err := sidebar.Render(p.Sidebar).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<main class="flex-1 p-6 lg:p-10"><h1 class="text-2xl font-bold text-primary-700">`+
			templ.EscapeString(p.Heading)+`</h1><p class="mt-4 text-gray-600">`+
			templ.EscapeString(p.Body)+`</p></main></div></body></html>`)
		return err
	})
}
