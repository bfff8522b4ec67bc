package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Bracelets", CategoryBracelets.Label())
	assert.Equal(t, "Rings", CategoryRings.Label())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$168.76", FormatPrice(168.76))
	assert.Equal(t, "$49.99", FormatPrice(49.99))
	assert.Equal(t, "$289.99", FormatPrice(49.99+24*10))
}

func TestDefaultCatalogShape(t *testing.T) {
	c := Default()

	assert.Len(t, c.Featured, 6)
	assert.Len(t, c.Collections, 6)
	assert.Len(t, c.Selection, 4)
	assert.Len(t, c.Testimonials, 7)
	assert.Len(t, c.Services, 3)
	assert.Len(t, c.NavLinks, 5)
	assert.Len(t, c.ShopItems, 25)

	assert.Equal(t, "Diamond Bracelet", c.Featured[0].Name)
	assert.Equal(t, "$168.76", c.Featured[0].PriceLabel())
	assert.Equal(t, "/images/products/bracelets/img33.webp", c.Featured[0].Image.Original)
}

func TestShopItems(t *testing.T) {
	items := ShopItems(3)
	require.Len(t, items, 3)
	assert.Equal(t, "Jewelry Item 1", items[0].Name)
	assert.Equal(t, "$59.99", items[1].PriceLabel())
	assert.Equal(t, "https://picsum.photos/300/200?random=3", items[2].ImageURL)
}

func TestShopFilters(t *testing.T) {
	assert.Equal(t, []string{"All", "Rings", "Bracelets", "Necklaces", "Earrings", "Sort by price"}, ShopFilters())
}

func TestAllImagePathsDistinctAndLocal(t *testing.T) {
	paths := Default().AllImagePaths()
	require.NotEmpty(t, paths)

	seen := make(map[string]bool)
	for _, p := range paths {
		assert.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
		assert.True(t, strings.HasPrefix(p, "/images/"), p)
	}
	assert.True(t, seen["/images/modal/myimg61.jpg"])
}
