package components

import (
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/sparkle/internal/catalog"
)

// Navbar renders the fixed top bar. The link matching current carries
// aria-current="page".
func Navbar(c *catalog.Catalog, current string) templ.Component {
	return component(func(h *htmlWriter) {
		h.open("nav", "class", "navbar fixed top-0 left-0 right-0 z-50", "aria-label", "Main navigation")
		h.open("div", "class", "max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 flex justify-between items-center h-20")
		h.elem("a", catalog.BrandName, "href", "/", "class", "text-rose-gold text-2xl font-display")

		h.open("ul", "class", "nav-links hidden md:flex space-x-8")
		for _, l := range c.NavLinks {
			active := ""
			class := "text-ivory hover:text-rose-gold"
			if l.Href == current {
				active = "page"
				class = "text-rose-gold"
			}
			h.open("li")
			h.elem("a", l.Label, "href", l.Href, "class", class, "aria-current", active)
			h.close("li")
		}
		h.close("ul")

		h.open("div", "class", "flex items-center space-x-4")
		h.iconButton("Shopping bag", "M15.75 10.5V6a3.75 3.75 0 10-7.5 0v4.5m11.356-1.993l1.263 12c.07.665-.45 1.243-1.119 1.243H4.25a1.125 1.125 0 01-1.12-1.243l1.264-12A1.125 1.125 0 015.513 7.5h12.974c.576 0 1.059.435 1.119 1.007z")
		h.iconButton("Account", "M15.75 6a3.75 3.75 0 11-7.5 0 3.75 3.75 0 017.5 0zM4.501 20.118a7.5 7.5 0 0114.998 0")
		h.iconButton("Open menu", "M3.75 6.75h16.5M3.75 12h16.5m-16.5 5.25h16.5")
		h.close("div")

		h.close("div")
		h.close("nav")
	})
}

func (h *htmlWriter) iconButton(label, path string) {
	h.open("button", "type", "button", "class", "text-ivory hover:text-rose-gold", "aria-label", label)
	h.open("svg", "class", "w-6 h-6", "fill", "none", "viewBox", "0 0 24 24", "stroke", "currentColor", "aria-hidden", "true")
	h.open("path", "stroke-linecap", "round", "stroke-linejoin", "round", "stroke-width", "1.5", "d", path)
	h.close("path")
	h.close("svg")
	h.close("button")
}

// Footer renders the testimonials band, link columns and newsletter form.
// testimonials is the rendered Testimonials leaf.
func Footer(c *catalog.Catalog, testimonials templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.open("footer", "class", "bg-charcoal text-ivory py-12")
		h.open("div", "class", "max-w-7xl mx-auto px-4 sm:px-6 lg:px-8")

		h.open("div", "class", "grid grid-cols-1 lg:grid-cols-2 gap-8 mb-12")
		h.open("div", "class", "flex flex-col justify-center text-center lg:text-left")
		h.elem("h2", "From the people", "class", "text-xl sm:text-2xl font-display mb-4")
		h.open("p", "class", "text-ivory/80 text-sm sm:text-base")
		h.text("We love hearing from our customers!")
		h.raw("<br>")
		h.text("You're the reason we're here and the reason we do what we do.")
		h.close("p")
		h.close("div")
		h.render(testimonials)
		h.close("div")

		h.open("div", "class", "grid grid-cols-1 sm:grid-cols-3 gap-8")
		h.linkColumn("Shop", c.ShopLinks)
		h.linkColumn("Contact", c.ContactLinks)

		h.open("div", "class", "text-center sm:text-left col-span-1")
		h.elem("h3", "Subscribe to our newsletter", "class", "font-display mb-2 text-base sm:text-lg")
		h.elem("p", "For product announcements and exclusive insights", "class", "text-xs sm:text-sm mb-4")
		h.open("form", "class", "flex flex-col gap-2", "onsubmit", "return false")
		h.elem("label", "Email address", "for", "newsletter-email", "class", "sr-only")
		h.open("input", "id", "newsletter-email", "type", "email", "placeholder", "Input your email",
			"class", "w-full px-3 py-2 rounded-md bg-charcoal border border-ivory/30")
		h.elem("button", "Subscribe", "type", "submit", "class", "px-4 py-2 bg-rose-gold text-ivory rounded-md")
		h.close("form")
		h.close("div")
		h.close("div")

		h.elem("p", "© "+itoa(time.Now().Year())+" "+catalog.BrandName+". All rights reserved.",
			"class", "text-center text-ivory/60 text-xs mt-12")
		h.close("div")
		h.close("footer")
	})
}

func (h *htmlWriter) linkColumn(title string, links []catalog.Link) {
	h.open("div", "class", "text-center sm:text-left")
	h.elem("h3", title, "class", "font-display mb-2 text-base sm:text-lg")
	h.open("ul", "class", "space-y-1")
	for _, l := range links {
		h.open("li")
		h.elem("a", l.Label, "href", l.Href, "class", "text-ivory/80 hover:text-rose-gold text-sm")
		h.close("li")
	}
	h.close("ul")
	h.close("div")
}
