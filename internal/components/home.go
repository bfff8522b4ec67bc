package components

import (
	"github.com/a-h/templ"

	"github.com/conneroisu/sparkle/internal/carousel"
	"github.com/conneroisu/sparkle/internal/catalog"
	"github.com/conneroisu/sparkle/internal/imageopt"
)

// Leaf identifiers reported to the load gate.
const (
	HeroID             = "Hero"
	FeaturedProductsID = "FeaturedProducts"
	CollectionsID      = "Collections"
	SelectionID        = "Selection"
	TestimonialsID     = "Testimonials"
	ProductGridID      = "ProductGrid"
)

// DefaultProductsToShow is the carousel width rendered into static markup,
// before the script measures the viewport.
var DefaultProductsToShow = carousel.ProductsToShow(carousel.DesktopWidth)

// Hero is the landing banner with two overlapping images.
func Hero(c *catalog.Catalog) *Section {
	hero := c.Images.Banners["hero"]
	detail := c.Images.Products[catalog.CategoryBracelets][0]

	return NewSection(HeroID, []string{hero, detail}, func(st State) templ.Component {
		return component(func(h *htmlWriter) {
			h.open("section", "class", "hero relative min-h-screen pb-4 bg-emerald overflow-hidden")
			h.open("div", "class", "relative max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 pt-32 grid grid-cols-1 lg:grid-cols-2 gap-12 items-center")

			h.open("div", "class", "text-center lg:text-left")
			h.elem("h1", "Sparkle & Shine: Exquisite Elegance Unveiled", "class", "text-4xl md:text-5xl lg:text-6xl font-display text-rose-gold leading-tight mb-6")
			h.elem("p", "Discover our collection of handcrafted jewelry pieces", "class", "text-ivory text-lg md:text-xl max-w-lg mx-auto lg:mx-0")
			h.elem("a", "Explore Collection", "href", "/collections", "class", "inline-block mt-8 px-8 py-3 bg-rose-gold text-ivory rounded-full")
			h.close("div")

			h.open("div", "class", "relative mt-12 lg:mt-0")
			if st.Loading {
				h.render(Skeleton(AspectSquare, "w-[80%] rounded-3xl shadow-xl"))
			} else {
				h.open("div", "class", "relative z-10 flex justify-end")
				h.render(Image(ImageProps{
					Data: imageopt.Data(hero), Alt: "Elegant necklace", Loading: "eager",
					Class: "w-[80%] overflow-hidden rounded-3xl shadow-xl", Failed: st.Results.Failed(hero),
				}))
				h.render(Image(ImageProps{
					Data: imageopt.Data(detail), Alt: "Ring detail",
					Class: "absolute left-[2%] top-[60%] h-[30%] w-[40%] overflow-hidden rounded-3xl shadow-xl", Failed: st.Results.Failed(detail),
				}))
				h.close("div")
			}
			h.close("div")

			h.close("div")
			h.close("section")
		})
	})
}

// Services is the band of three selling points. It loads no images.
func Services(c *catalog.Catalog) templ.Component {
	return component(func(h *htmlWriter) {
		h.open("section", "class", "services py-16 bg-ivory", "aria-label", "Our services")
		h.open("div", "class", "max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 grid grid-cols-1 md:grid-cols-3 gap-8")
		for _, s := range c.Services {
			h.open("div", "id", "service-"+s.ID, "class", "text-center p-6")
			h.open("svg", "class", "w-12 h-12 mx-auto mb-4 text-rose-gold", "fill", "none", "viewBox", "0 0 24 24", "stroke", "currentColor", "aria-hidden", "true")
			h.open("path", "stroke-linecap", "round", "stroke-linejoin", "round", "stroke-width", "1.5", "d", s.Icon)
			h.close("path")
			h.close("svg")
			h.elem("h3", s.Title, "class", "text-lg font-display mb-2")
			h.elem("p", s.Description, "class", "text-charcoal/70")
			h.close("div")
		}
		h.close("div")
		h.close("section")
	})
}

// FeaturedProducts is the auto-advancing product carousel with its viewer.
func FeaturedProducts(c *catalog.Catalog) *Section {
	return NewSection(FeaturedProductsID, productRefs(c.Featured), func(st State) templ.Component {
		return productCarousel(carouselProps{
			id:       "featured",
			title:    "Featured Products",
			subtitle: "Explore our handcrafted jewelry collection.",
			products: c.Featured,
		}, st)
	})
}

// Selection is the second product carousel, paired with a heading column.
func Selection(c *catalog.Catalog) *Section {
	return NewSection(SelectionID, productRefs(c.Selection), func(st State) templ.Component {
		return productCarousel(carouselProps{
			id:       "selection",
			title:    "Our Selection of Jewelry",
			subtitle: "Discover elegance in every piece, crafted to perfection.",
			products: c.Selection,
		}, st)
	})
}

type carouselProps struct {
	id       string
	title    string
	subtitle string
	products []catalog.Product
}

func productCarousel(p carouselProps, st State) templ.Component {
	show := DefaultProductsToShow
	car := carousel.New(len(p.products))

	return component(func(h *htmlWriter) {
		h.open("section", "id", p.id, "class", "py-16 bg-ivory")
		h.open("div", "class", "max-w-7xl mx-auto px-4 sm:px-6 lg:px-8")
		h.open("div", "class", "mb-12 text-center")
		h.elem("h2", p.title, "class", "text-4xl md:text-5xl font-display text-charcoal mb-4 tracking-tight")
		h.elem("p", p.subtitle, "class", "text-charcoal/70 max-w-md mx-auto text-lg")
		h.elem("a", "Shop Now", "href", "/shop", "class", "inline-block mt-6 px-8 py-3 border-2 border-rose-gold text-rose-gold rounded-full font-display")
		h.close("div")

		h.open("div", "class", "relative", "data-carousel", p.id, "data-length", itoa(car.Len()),
			"data-interval", itoa(int(carousel.AutoplayInterval.Milliseconds())))
		h.open("div", "class", "overflow-hidden")
		if st.Loading {
			h.open("div", "class", "flex")
			for range show {
				h.open("div", "class", "flex-shrink-0 px-2 w-full lg:w-1/4")
				h.render(Skeleton(AspectPortrait, "h-72"))
				h.close("div")
			}
			h.close("div")
		} else {
			h.open("div", "class", "carousel-track flex", "style", "transform:"+car.Transform(show))
			for i, prod := range carousel.Window(p.products, show) {
				h.open("div", "class", "carousel-item flex-shrink-0 px-2 w-full md:w-1/2 lg:w-1/4 cursor-pointer",
					"data-viewer-open", p.id+"-viewer", "data-index", itoa(i%len(p.products)),
					"data-name", prod.Name, "data-src", prod.Image.Original,
					"data-detail", prod.Category.Label()+" - "+prod.PriceLabel())
				h.render(Image(ImageProps{
					Data: prod.Image, Alt: prod.Name, Loading: "eager",
					Class: "w-full h-72 overflow-hidden rounded-lg mb-4 shadow-md", Failed: st.Results.Failed(prod.Image.Original),
				}))
				h.elem("h3", prod.Name, "class", "font-display text-lg md:text-xl text-charcoal mb-1 text-center")
				h.elem("p", prod.PriceLabel(), "class", "text-rose-gold text-center text-base md:text-lg")
				h.close("div")
			}
			h.close("div")
		}
		h.close("div")

		if !st.Loading {
			h.open("div", "class", "flex justify-center mt-6 space-x-6 items-center")
			h.elem("button", "‹", "type", "button", "data-carousel-prev", p.id, "aria-label", "Previous slide", "class", "bg-rose-gold text-ivory p-3 rounded-full")
			h.open("div", "class", "flex space-x-2")
			for i := range p.products {
				current := ""
				if i == car.Index() {
					current = "true"
				}
				h.open("button", "type", "button", "data-carousel-goto", itoa(i), "aria-label", "Go to slide "+itoa(i+1),
					"aria-current", current, "class", "w-2 h-2 rounded-full bg-rose-gold/30")
				h.close("button")
			}
			h.close("div")
			h.elem("button", "›", "type", "button", "data-carousel-next", p.id, "aria-label", "Next slide", "class", "bg-rose-gold text-ivory p-3 rounded-full")
			h.close("div")
		}
		h.close("div")

		h.close("div")
		h.render(ViewerModal(p.id + "-viewer"))
		h.close("section")
	})
}

// Collections is the horizontal strip of themed collections.
func Collections(c *catalog.Catalog) *Section {
	refs := make([]string, len(c.Collections))
	for i, col := range c.Collections {
		refs[i] = col.Image.Original
	}

	return NewSection(CollectionsID, refs, func(st State) templ.Component {
		return component(func(h *htmlWriter) {
			h.open("section", "id", "collections", "class", "py-16 bg-ivory")
			h.open("div", "class", "max-w-7xl mx-auto px-4 sm:px-6 lg:px-8")
			h.open("div", "class", "text-center mb-12")
			h.elem("h2", "Our Collections", "class", "text-4xl md:text-5xl font-display text-charcoal mb-4")
			h.elem("p", "Discover exquisite designs crafted with passion and precision.", "class", "text-charcoal/70 max-w-md mx-auto text-lg")
			h.close("div")

			h.open("div", "class", "flex overflow-x-auto gap-6 pb-4")
			for _, col := range c.Collections {
				if st.Loading {
					h.render(Skeleton(AspectPortrait, "flex-shrink-0 w-72"))
					continue
				}
				h.open("button", "type", "button", "class", "collection-card flex-shrink-0 w-72 relative rounded-lg overflow-hidden text-left",
					"aria-label", "View "+col.Title+" collection", "data-theme", col.Theme,
					"data-viewer-open", "collections-viewer", "data-name", col.Title, "data-src", col.Image.Original, "data-detail", col.Description)
				h.render(Image(ImageProps{Data: col.Image, Alt: col.Title, Class: "w-full h-96", Failed: st.Results.Failed(col.Image.Original)}))
				h.open("div", "class", "absolute bottom-0 p-4")
				h.elem("h3", col.Title, "class", "text-xl md:text-2xl font-display text-ivory")
				h.elem("p", col.Description, "class", "text-ivory/90 text-sm")
				h.close("div")
				h.close("button")
			}
			h.close("div")

			h.open("div", "class", "text-center mt-12")
			h.elem("a", "Shop All Collections", "href", "/collections", "class", "inline-block px-8 py-3 border-2 border-rose-gold text-rose-gold rounded-full font-display text-lg")
			h.close("div")
			h.close("div")
			h.render(ViewerModal("collections-viewer"))
			h.close("section")
		})
	})
}

// Testimonials is the rotating customer quote panel mounted in the footer.
func Testimonials(c *catalog.Catalog) *Section {
	refs := make([]string, len(c.Testimonials))
	for i, t := range c.Testimonials {
		refs[i] = t.Image.Original
	}
	car := carousel.New(len(c.Testimonials))

	return NewSection(TestimonialsID, refs, func(st State) templ.Component {
		return component(func(h *htmlWriter) {
			h.open("div", "class", "testimonials relative flex flex-col md:flex-row bg-emerald rounded-lg overflow-hidden",
				"data-carousel", "testimonials", "data-length", itoa(car.Len()),
				"data-interval", itoa(int(carousel.AutoplayInterval.Milliseconds())))

			h.open("div", "class", "relative w-full md:w-2/5 h-64 md:h-auto")
			if st.Loading {
				h.render(Skeleton(AspectTall, "w-full h-full"))
			} else {
				for i, t := range c.Testimonials {
					h.open("div", "class", "absolute inset-0", "data-slide", itoa(i), "hidden", flag(i != car.Index()))
					h.render(Image(ImageProps{Data: t.Image, Alt: "Testimonial by " + t.Author, Class: "w-full h-full", Failed: st.Results.Failed(t.Image.Original)}))
					h.close("div")
				}
			}
			h.close("div")

			h.open("div", "class", "relative w-full md:w-3/5 p-6 pb-24 md:p-8")
			for i, t := range c.Testimonials {
				h.open("blockquote", "data-slide", itoa(i), "hidden", flag(i != car.Index()))
				h.elem("p", t.Text, "class", "text-ivory text-lg leading-relaxed mb-6")
				h.elem("h3", t.Author, "class", "font-display text-lg font-semibold mb-1 text-ivory")
				h.elem("p", t.Location, "class", "text-sm text-ivory/80")
				h.close("blockquote")
			}
			h.open("div", "class", "absolute left-6 right-6 bottom-6 flex justify-between items-center")
			h.open("div", "class", "flex space-x-2")
			for i := range c.Testimonials {
				h.open("button", "type", "button", "data-carousel-goto", itoa(i), "aria-label", "Go to slide "+itoa(i+1), "class", "w-2 h-2 rounded-full bg-ivory/40")
				h.close("button")
			}
			h.close("div")
			h.open("div", "class", "flex space-x-2")
			h.elem("button", "‹", "type", "button", "data-carousel-prev", "testimonials", "aria-label", "Previous testimonial", "class", "p-2 rounded-full bg-ivory/20 text-ivory")
			h.elem("button", "›", "type", "button", "data-carousel-next", "testimonials", "aria-label", "Next testimonial", "class", "p-2 rounded-full bg-ivory/20 text-ivory")
			h.close("div")
			h.close("div")
			h.close("div")

			h.close("div")
		})
	})
}

func productRefs(products []catalog.Product) []string {
	refs := make([]string, len(products))
	for i, p := range products {
		refs[i] = p.Image.Original
	}
	return refs
}
