// Package page composes catalog data and components into routable pages
// and runs the per-mount load gate session for each.
package page

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/sparkle/internal/catalog"
	"github.com/conneroisu/sparkle/internal/components"
	serrors "github.com/conneroisu/sparkle/internal/errors"
	"github.com/conneroisu/sparkle/internal/pagination"
)

// ItemsPerPage is the shop grid page size.
const ItemsPerPage = 10

// Page is one route of the storefront.
type Page struct {
	Route       string
	Title       string
	Description string
	Leaves      []*components.Section

	catalog *catalog.Catalog
	compose func(leaf func(id string) templ.Component) (body, footer templ.Component)
}

// sections renders the page content and footer for st.
func (p *Page) sections(st components.State) (body, footer templ.Component) {
	return p.compose(func(id string) templ.Component {
		for _, l := range p.Leaves {
			if l.ID() == id {
				return l.Render(st)
			}
		}
		return templ.NopComponent
	})
}

// LeafIDs lists the leaves in mount order.
func (p *Page) LeafIDs() []string {
	ids := make([]string, len(p.Leaves))
	for i, l := range p.Leaves {
		ids[i] = l.ID()
	}
	return ids
}

// Site is the full set of pages built from one catalog.
type Site struct {
	Name    string
	Catalog *catalog.Catalog
	pages   []*Page
	byRoute map[string]*Page
}

// NewSite builds every page: home, the first shop page and one route per
// further shop page.
func NewSite(name string, c *catalog.Catalog) *Site {
	if name == "" {
		name = catalog.BrandName
	}
	s := &Site{Name: name, Catalog: c, byRoute: make(map[string]*Page)}

	s.add(s.home())
	total := pagination.TotalPages(len(c.ShopItems), ItemsPerPage)
	for n := 1; n <= max(total, 1); n++ {
		s.add(s.shop(n, total))
	}
	return s
}

// Pages returns pages in build order.
func (s *Site) Pages() []*Page {
	return s.pages
}

// Lookup finds the page serving route. Trailing slashes are ignored.
func (s *Site) Lookup(route string) (*Page, error) {
	if p, ok := s.byRoute[normalize(route)]; ok {
		return p, nil
	}
	return nil, serrors.NewValidationError(serrors.ErrCodeUnknownRoute, "no page for route").
		WithRoute(route)
}

// ShopRoute is the URL of shop page n.
func ShopRoute(n int) string {
	if n <= 1 {
		return "/shop"
	}
	return "/shop/page/" + strconv.Itoa(n)
}

// ParseShopPage extracts the page number from a shop route.
func ParseShopPage(route string) (int, error) {
	route = normalize(route)
	if route == "/shop" {
		return 1, nil
	}
	rest, ok := strings.CutPrefix(route, "/shop/page/")
	if !ok {
		return 0, serrors.NewValidationError(serrors.ErrCodeUnknownRoute, "not a shop route").WithRoute(route)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 2 {
		return 0, serrors.NewValidationError(serrors.ErrCodePageOutOfRange, fmt.Sprintf("invalid shop page %q", rest)).WithRoute(route)
	}
	return n, nil
}

func (s *Site) add(p *Page) {
	s.pages = append(s.pages, p)
	s.byRoute[p.Route] = p
}

func (s *Site) title(section string) string {
	return section + " | " + s.Name
}

func (s *Site) home() *Page {
	c := s.Catalog
	return &Page{
		Route:       "/",
		Title:       s.title("Home"),
		Description: "Discover our collection of handcrafted jewelry pieces",
		catalog:     c,
		Leaves: []*components.Section{
			components.Hero(c),
			components.FeaturedProducts(c),
			components.Collections(c),
			components.Selection(c),
			components.Testimonials(c),
		},
		compose: func(leaf func(string) templ.Component) (templ.Component, templ.Component) {
			body := components.Main(
				leaf(components.HeroID),
				components.Services(c),
				leaf(components.FeaturedProductsID),
				leaf(components.CollectionsID),
				leaf(components.SelectionID),
			)
			return body, components.Footer(c, leaf(components.TestimonialsID))
		},
	}
}

func (s *Site) shop(n, total int) *Page {
	c := s.Catalog
	grid := components.ProductGrid(pagination.Slice(c.ShopItems, n, ItemsPerPage))
	title := s.title("Shop")
	if n > 1 {
		title = s.title(fmt.Sprintf("Shop - Page %d", n))
	}
	return &Page{
		Route:       ShopRoute(n),
		Title:       title,
		Description: "Browse our jewelry collection",
		catalog:     c,
		Leaves:      []*components.Section{grid, components.Testimonials(c)},
		compose: func(leaf func(string) templ.Component) (templ.Component, templ.Component) {
			body := components.Main(
				components.ShopHeader(c),
				leaf(components.ProductGridID),
				components.Pagination(n, total, ShopRoute),
			)
			return body, components.Footer(c, leaf(components.TestimonialsID))
		},
	}
}

func normalize(route string) string {
	if route == "" || route == "/" {
		return "/"
	}
	return "/" + strings.Trim(route, "/")
}
