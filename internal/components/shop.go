package components

import (
	"github.com/a-h/templ"

	"github.com/conneroisu/sparkle/internal/catalog"
	"github.com/conneroisu/sparkle/internal/imageopt"
	"github.com/conneroisu/sparkle/internal/pagination"
)

// ShopHeader is the shop title bar with search and filter chips.
func ShopHeader(c *catalog.Catalog) templ.Component {
	return component(func(h *htmlWriter) {
		h.open("header", "class", "shop-header pt-28 pb-8 bg-ivory")
		h.open("div", "class", "max-w-7xl mx-auto px-4 sm:px-6 lg:px-8")
		h.elem("h1", "Our Products", "class", "text-4xl font-display text-charcoal mb-6")
		h.open("form", "role", "search", "class", "mb-6", "onsubmit", "return false")
		h.elem("label", "Search products", "for", "shop-search", "class", "sr-only")
		h.open("input", "id", "shop-search", "type", "search", "placeholder", "Find jewelry you like...",
			"class", "w-full px-4 py-2 rounded-full border border-charcoal/20")
		h.close("form")
		h.open("div", "class", "flex flex-wrap gap-2")
		for i, f := range c.ShopFilters {
			pressed := "false"
			if i == 0 {
				pressed = "true"
			}
			h.elem("button", f, "type", "button", "aria-pressed", pressed, "class", "px-4 py-1 rounded-full border border-rose-gold text-rose-gold")
		}
		h.close("div")
		h.close("div")
		h.close("header")
	})
}

// ProductCard is one shop grid entry. While loading it renders a skeleton.
func ProductCard(item catalog.ShopItem, loading, failed bool) templ.Component {
	return component(func(h *htmlWriter) {
		h.open("article", "class", "product-card bg-white rounded-lg shadow-md overflow-hidden max-w-sm mx-auto")
		if loading {
			h.open("div", "class", "w-full", "aria-hidden", "true")
			h.open("div", "class", "w-full h-48 bg-charcoal/20 animate-pulse")
			h.close("div")
			h.open("div", "class", "p-4 space-y-2")
			h.raw(`<div class="h-6 w-3/4 bg-charcoal/20 rounded"></div><div class="h-5 w-1/4 bg-charcoal/20 rounded"></div>`)
			h.close("div")
			h.close("div")
			h.close("article")
			return
		}
		h.render(Image(ImageProps{Data: imageopt.Data(item.ImageURL), Alt: item.Name, Class: "w-full h-48", Failed: failed}))
		h.open("div", "class", "p-4")
		h.elem("h3", item.Name, "class", "text-lg font-medium text-gray-800")
		h.open("p", "class", "text-gray-600 text-sm")
		h.text(item.PriceLabel())
		h.elem("span", "In Stock", "class", "ml-2 text-rose-gold/80 text-xs")
		h.close("p")
		h.close("div")
		h.close("article")
	})
}

// ProductGrid is the leaf for one page of shop items.
func ProductGrid(items []catalog.ShopItem) *Section {
	refs := make([]string, len(items))
	for i, it := range items {
		refs[i] = it.ImageURL
	}

	return NewSection(ProductGridID, refs, func(st State) templ.Component {
		return component(func(h *htmlWriter) {
			h.open("div", "class", "product-grid max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-8 grid grid-cols-1 sm:grid-cols-2 lg:grid-cols-4 gap-6")
			for _, it := range items {
				h.render(ProductCard(it, st.Loading, st.Results.Failed(it.ImageURL)))
			}
			h.close("div")
		})
	})
}

// PageHref maps a page number to its URL.
type PageHref func(page int) string

// Pagination renders the pager for current of total pages. Previous and
// next are disabled buttons at the ends and links elsewhere.
func Pagination(current, total int, href PageHref) templ.Component {
	return component(func(h *htmlWriter) {
		if total < 1 {
			return
		}
		h.open("nav", "class", "pagination max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-4", "aria-label", "Pagination")
		h.open("div", "class", "flex flex-wrap justify-center items-center gap-1 sm:gap-2")

		h.pagerEdge("<", "Previous page", current-1, pagination.HasPrev(current), href)
		for _, slot := range pagination.VisiblePages(current, total) {
			if slot.Ellipsis {
				h.elem("span", "...", "class", "page-ellipsis", "aria-hidden", "true")
				continue
			}
			class := "page-link bg-charcoal/20 text-charcoal"
			active := ""
			if slot.Page == current {
				class = "page-link bg-rose-gold text-ivory font-bold"
				active = "page"
			}
			h.elem("a", itoa(slot.Page), "href", href(slot.Page), "class", class,
				"aria-current", active, "aria-label", "Page "+itoa(slot.Page))
		}
		h.pagerEdge(">", "Next page", current+1, pagination.HasNext(current, total), href)

		h.close("div")
		h.close("nav")
	})
}

func (h *htmlWriter) pagerEdge(text, label string, target int, enabled bool, href PageHref) {
	if !enabled {
		h.elem("button", text, "type", "button", "disabled", "true", "aria-label", label, "class", "page-edge bg-charcoal/10 text-charcoal/40")
		return
	}
	h.elem("a", text, "href", href(target), "aria-label", label, "class", "page-edge bg-rose-gold text-ivory")
}
