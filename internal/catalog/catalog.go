// Package catalog holds the storefront's static data: image locations,
// products, collections, testimonials and navigation. Everything is built in
// memory; nothing is read from disk or the network.
package catalog

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/sparkle/internal/imageopt"
)

// BrandName is shown in the navbar and footer.
const BrandName = "SilverHub"

var titleCaser = cases.Title(language.English)

// Category groups products by jewelry type.
type Category string

const (
	CategoryBracelets Category = "bracelets"
	CategoryEarrings  Category = "earrings"
	CategoryNecklaces Category = "necklaces"
	CategoryRings     Category = "rings"
)

// Label returns the display name, e.g. "Bracelets".
func (c Category) Label() string {
	return titleCaser.String(string(c))
}

// Images is the table of image paths under the public directory.
type Images struct {
	Banners     map[string]string
	Products    map[Category][]string
	Collections map[string]string
	Modals      []string
}

// DefaultImages mirrors the files shipped in public/images.
func DefaultImages() Images {
	return Images{
		Banners: map[string]string{
			"hero":       "/images/products/necklaces/myimg1.webp",
			"collection": "/images/products/necklaces/myimg1.webp",
		},
		Products: map[Category][]string{
			CategoryBracelets: {
				"/images/products/bracelets/img33.webp",
				"/images/products/bracelets/img34.webp",
				"/images/products/bracelets/img35.webp",
				"/images/products/bracelets/img36.webp",
			},
			CategoryEarrings: {
				"/images/products/necklaces/img45.webp",
				"/images/products/necklaces/img46.webp",
			},
			CategoryNecklaces: {
				"/images/products/necklaces/myimg1.webp",
				"/images/products/necklaces/myimg2.webp",
			},
			CategoryRings: {
				"/images/products/rings/img2.webp",
				"/images/products/rings/img3.webp",
			},
		},
		Collections: map[string]string{
			"gold":   "/images/collections/myimg57.webp",
			"silver": "/images/collections/img32.webp",
		},
		Modals: []string{
			"/images/modal/myimg52.jpg",
			"/images/modal/myimg53.jpg",
			"/images/modal/myimg54.jpg",
			"/images/modal/myimg55.jpg",
			"/images/modal/myimg56.jpg",
			"/images/modal/myimg58.jpg",
			"/images/modal/myimg61.jpg",
		},
	}
}

// Product is a purchasable item.
type Product struct {
	ID       int
	Name     string
	Price    float64
	Category Category
	Image    imageopt.ImageData
}

// PriceLabel formats the price with two decimals, e.g. "$168.76".
func (p Product) PriceLabel() string {
	return FormatPrice(p.Price)
}

// FormatPrice formats an amount in dollars with two decimals.
func FormatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Collection is a themed group shown in the horizontal collection strip.
type Collection struct {
	Title       string
	Theme       string
	Description string
	Image       imageopt.ImageData
}

// Testimonial is a customer quote.
type Testimonial struct {
	Text     string
	Author   string
	Location string
	Image    imageopt.ImageData
}

// Service is a selling point in the services band.
type Service struct {
	ID          string
	Title       string
	Description string
	Icon        string // SVG path data
}

// Link is a navigation entry.
type Link struct {
	Href  string
	Label string
}

// ShopItem is a product card in the shop grid.
type ShopItem struct {
	Name     string
	Price    float64
	ImageURL string
}

// PriceLabel formats the price with two decimals.
func (s ShopItem) PriceLabel() string {
	return FormatPrice(s.Price)
}

// Catalog is the complete static data set.
type Catalog struct {
	Images       Images
	Featured     []Product
	Collections  []Collection
	Selection    []Product
	Testimonials []Testimonial
	Services     []Service
	NavLinks     []Link
	ShopLinks    []Link
	ContactLinks []Link
	ShopItems    []ShopItem
	ShopFilters  []string
}

// Default builds the storefront catalog.
func Default() *Catalog {
	img := DefaultImages()
	bracelets := img.Products[CategoryBracelets]
	necklaces := img.Products[CategoryNecklaces]

	featured := []Product{
		{ID: 1, Name: "Diamond Bracelet", Price: 168.76, Category: CategoryBracelets, Image: imageopt.Data(bracelets[0])},
		{ID: 2, Name: "Diamond Bracelet", Price: 168.76, Category: CategoryBracelets, Image: imageopt.Data(bracelets[1])},
		{ID: 3, Name: "Diamond Necklace", Price: 168.76, Category: CategoryNecklaces, Image: imageopt.Data(necklaces[0])},
		{ID: 4, Name: "Diamond Necklace", Price: 168.76, Category: CategoryNecklaces, Image: imageopt.Data(necklaces[1])},
		{ID: 5, Name: "Diamond Necklace", Price: 168.76, Category: CategoryNecklaces, Image: imageopt.Data(necklaces[0])},
		{ID: 6, Name: "Diamond Necklace", Price: 168.76, Category: CategoryNecklaces, Image: imageopt.Data(necklaces[1])},
	}

	gold := imageopt.Data(img.Collections["gold"])
	silver := imageopt.Data(img.Collections["silver"])
	collections := []Collection{
		{Title: "Luxurious Lustre", Theme: "gold", Description: "Opulent gold pieces that exude timeless elegance.", Image: gold},
		{Title: "Radiant Reflections", Theme: "silver", Description: "Shimmering silver designs for a modern sparkle.", Image: silver},
		{Title: "Majestic Mementos", Theme: "gold", Description: "Bold gold keepsakes with regal charm.", Image: gold},
		{Title: "Blissful Baubles", Theme: "silver", Description: "Playful yet sophisticated silver trinkets.", Image: silver},
		{Title: "Timeless Treasures", Theme: "gold", Description: "Classic gold treasures for every generation.", Image: gold},
		{Title: "Divine Diamonds", Theme: "silver", Description: "Exquisite diamond-studded silver masterpieces.", Image: silver},
	}

	selection := []Product{
		{ID: 101, Name: "Shimmering Ring", Price: 168.76, Category: CategoryRings, Image: imageopt.Data(bracelets[0])},
		{ID: 102, Name: "Exquisite Earrings", Price: 125.28, Category: CategoryEarrings, Image: imageopt.Data(necklaces[1])},
		{ID: 103, Name: "Elegance Earrings", Price: 620.73, Category: CategoryEarrings, Image: imageopt.Data(bracelets[1])},
		{ID: 104, Name: "Luxury Collection", Price: 327.71, Category: CategoryNecklaces, Image: imageopt.Data(necklaces[0])},
	}

	const (
		ringQuote    = "The ring itself is stunning, with a beautiful design that catches the light and sparkles from every angle. The quality of the materials used is evident, as the ring feels substantial and durable. The gemstone is exquisite, with a vibrant color and exceptional clarity."
		detailQuote  = "I absolutely love the attention to detail in this piece. The craftsmanship is exceptional, and it's even more beautiful in person."
		qualityQuote = "The quality exceeded my expectations. This piece is truly a work of art that I'll cherish forever."
	)
	testimonials := []Testimonial{
		{Text: ringQuote, Author: "Anna Fernandez", Location: "USA", Image: imageopt.Data(img.Modals[0])},
		{Text: detailQuote, Author: "Sarah Johnson", Location: "UK", Image: imageopt.Data(img.Modals[1])},
		{Text: qualityQuote, Author: "Maria Garcia", Location: "Spain", Image: imageopt.Data(img.Modals[2])},
		{Text: ringQuote, Author: "Anna Fernandez", Location: "USA", Image: imageopt.Data(img.Modals[3])},
		{Text: detailQuote, Author: "Sarah Johnson", Location: "UK", Image: imageopt.Data(img.Modals[4])},
		{Text: qualityQuote, Author: "Maria Garcia", Location: "Spain", Image: imageopt.Data(img.Modals[5])},
		{Text: qualityQuote, Author: "Maria Garcia", Location: "Spain", Image: imageopt.Data(img.Modals[6])},
	}

	const lorem = "Ea esse elit anim commodo laborum pariatur nisi. Voluptate elit d"
	services := []Service{
		{ID: "delivery", Title: "Delivery", Description: lorem, Icon: "M13 16V6a1 1 0 00-1-1H4a1 1 0 00-1 1v10a1 1 0 001 1h1m8-1a1 1 0 01-1 1H9m4-1V8a1 1 0 011-1h2.586a1 1 0 01.707.293l3.414 3.414a1 1 0 01.293.707V16a1 1 0 01-1 1h-1m-6-1a1 1 0 001 1h1M5 17a2 2 0 104 0m-4 0a2 2 0 114 0m6 0a2 2 0 104 0m-4 0a2 2 0 114 0"},
		{ID: "customerCare", Title: "Customer care", Description: lorem, Icon: "M18.364 5.636l-3.536 3.536m0 5.656l3.536 3.536M9.172 9.172L5.636 5.636m3.536 9.192l-3.536 3.536M21 12a9 9 0 11-18 0 9 9 0 0118 0zm-5 0a4 4 0 11-8 0 4 4 0 018 0z"},
		{ID: "paymentSecurity", Title: "Payment security", Description: lorem, Icon: "M12 15v2m-6 4h12a2 2 0 002-2v-6a2 2 0 00-2-2H6a2 2 0 00-2 2v6a2 2 0 002 2zm10-10V7a4 4 0 00-8 0v4h8z"},
	}

	return &Catalog{
		Images:       img,
		Featured:     featured,
		Collections:  collections,
		Selection:    selection,
		Testimonials: testimonials,
		Services:     services,
		NavLinks: []Link{
			{Href: "/", Label: "Home"},
			{Href: "/shop", Label: "Shop"},
			{Href: "/collections", Label: "Collections"},
			{Href: "/about", Label: "About"},
			{Href: "/contact", Label: "Contact"},
		},
		ShopLinks: []Link{
			{Href: "/collections", Label: "Collections"},
			{Href: "/about", Label: "About"},
		},
		ContactLinks: []Link{
			{Href: "/privacy", Label: "Privacy"},
			{Href: "/terms", Label: "Terms"},
		},
		ShopItems:   ShopItems(25),
		ShopFilters: ShopFilters(),
	}
}

// ShopItems generates the shop grid inventory: "Jewelry Item N" priced
// 49.99 plus 10 per position, each with a placeholder photo.
func ShopItems(n int) []ShopItem {
	items := make([]ShopItem, n)
	for i := range items {
		items[i] = ShopItem{
			Name:     fmt.Sprintf("Jewelry Item %d", i+1),
			Price:    49.99 + float64(i)*10,
			ImageURL: fmt.Sprintf("https://picsum.photos/300/200?random=%d", i+1),
		}
	}
	return items
}

// ShopFilters returns the filter chips shown in the shop header.
func ShopFilters() []string {
	cats := []Category{CategoryRings, CategoryBracelets, CategoryNecklaces, CategoryEarrings}
	filters := make([]string, 0, len(cats)+2)
	filters = append(filters, "All")
	for _, c := range cats {
		filters = append(filters, c.Label())
	}
	return append(filters, "Sort by price")
}

// AllImagePaths returns every distinct local image the catalog references,
// sorted.
func (c *Catalog) AllImagePaths() []string {
	seen := make(map[string]bool)
	add := func(p string) { seen[p] = true }

	for _, p := range c.Images.Banners {
		add(p)
	}
	for _, ps := range c.Images.Products {
		for _, p := range ps {
			add(p)
		}
	}
	for _, p := range c.Images.Collections {
		add(p)
	}
	for _, p := range c.Images.Modals {
		add(p)
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
