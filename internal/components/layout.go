package components

import (
	"github.com/a-h/templ"

	"github.com/conneroisu/sparkle/internal/catalog"
)

// LayoutProps describes one full page.
type LayoutProps struct {
	Title       string
	Description string
	CSS         string
	Loading     bool
	Current     string // route used to mark the active nav link
	Catalog     *catalog.Catalog
	Body        templ.Component
	Footer      templ.Component
	HeadExtra   templ.Component
}

// Layout is the page shell: head, spinner while loading, navbar, body and
// footer. The interaction script is appended at the end of body.
func Layout(p LayoutProps) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("<!DOCTYPE html>")
		h.open("html", "lang", "en")
		h.open("head")
		h.open("meta", "charset", "UTF-8")
		h.open("meta", "name", "viewport", "content", "width=device-width, initial-scale=1.0")
		h.elem("title", p.Title)
		h.open("meta", "name", "description", "content", p.Description)
		if p.CSS != "" {
			h.open("style")
			h.raw(p.CSS)
			h.close("style")
		}
		h.render(p.HeadExtra)
		h.close("head")

		h.open("body", "class", "font-sans", "data-loading", boolString(p.Loading))
		if p.Loading {
			h.render(LoadingSpinner())
		}
		h.open("div", "class", "min-h-screen")
		h.render(Navbar(p.Catalog, p.Current))
		h.render(p.Body)
		h.render(p.Footer)
		h.close("div")
		h.open("script")
		h.raw(interactionScript)
		h.close("script")
		h.close("body")
		h.close("html")
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Main wraps page sections in the main landmark.
func Main(children ...templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.open("main")
		for _, c := range children {
			h.render(c)
		}
		h.close("main")
	})
}
