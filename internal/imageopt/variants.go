// Package imageopt derives the variant paths the storefront references for
// each catalog image. It rewrites paths only; no pixels are encoded here.
package imageopt

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

var (
	rasterExt = regexp.MustCompile(`\.(jpg|jpeg|png)$`)
	anyExt    = regexp.MustCompile(`\.(jpg|jpeg|png|webp)$`)
)

// Variants are the derived URLs for one image.
type Variants struct {
	Src         string `json:"src"`
	WebP        string `json:"webp"`
	Placeholder string `json:"placeholder"`
	Thumbnail   string `json:"thumbnail"`
}

// Optimize returns the variant URLs for url. A leading slash is normalized
// so every result is rooted. Images already in WebP keep their path for the
// WebP variant. Extensions outside jpg/jpeg/png/webp are left untouched.
func Optimize(url string) Variants {
	p := strings.TrimPrefix(url, "/")

	webp := p
	if !strings.HasSuffix(strings.ToLower(p), ".webp") {
		webp = rasterExt.ReplaceAllString(p, ".webp")
	}

	return Variants{
		Src:         "/" + p,
		WebP:        "/" + webp,
		Placeholder: "/" + anyExt.ReplaceAllString(p, "-placeholder.$1"),
		Thumbnail:   "/" + anyExt.ReplaceAllString(p, "-thumb.$1"),
	}
}

// Size names the responsive widths produced for every image.
type Size string

const (
	SizeSM Size = "sm"
	SizeMD Size = "md"
	SizeLG Size = "lg"
	SizeXL Size = "xl"
)

// Sizes maps each responsive size to its pixel width.
var Sizes = map[Size]int{
	SizeSM: 320,
	SizeMD: 768,
	SizeLG: 1024,
	SizeXL: 1920,
}

// OrderedSizes lists Sizes from smallest to largest.
var OrderedSizes = []Size{SizeSM, SizeMD, SizeLG, SizeXL}

// ImageData is the record components receive for an image.
type ImageData struct {
	Original    string          `json:"original"`
	WebP        string          `json:"webp"`
	Optimized   string          `json:"optimized"`
	Placeholder string          `json:"placeholder"`
	Responsive  map[Size]string `json:"responsive"`
}

// Data builds the ImageData for path. Until processed variants are
// published every field points at the original file.
func Data(p string) ImageData {
	responsive := make(map[Size]string, len(Sizes))
	for size := range Sizes {
		responsive[size] = p
	}
	return ImageData{
		Original:    p,
		WebP:        p,
		Optimized:   p,
		Placeholder: p,
		Responsive:  responsive,
	}
}

// SrcSet renders a srcset attribute from the responsive variants. It is
// empty while every variant still points at the original.
func (d ImageData) SrcSet() string {
	parts := make([]string, 0, len(OrderedSizes))
	distinct := false
	for _, size := range OrderedSizes {
		src, ok := d.Responsive[size]
		if !ok {
			continue
		}
		if src != d.Original {
			distinct = true
		}
		parts = append(parts, src+" "+strconv.Itoa(Sizes[size])+"w")
	}
	if !distinct {
		return ""
	}
	return strings.Join(parts, ", ")
}

// variantName inserts suffix between the base name and extension.
func variantName(file, suffix, ext string) string {
	base := strings.TrimSuffix(path.Base(file), path.Ext(file))
	return base + suffix + ext
}
