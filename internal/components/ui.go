package components

import (
	"github.com/a-h/templ"

	"github.com/conneroisu/sparkle/internal/imageopt"
)

// DefaultSizes is the sizes attribute used when a srcset is present.
const DefaultSizes = "(max-width: 640px) 100vw, (max-width: 768px) 50vw, (max-width: 1024px) 33vw, 25vw"

// LoadingSpinner is the full-screen overlay shown while the gate is closed.
func LoadingSpinner() templ.Component {
	return component(func(h *htmlWriter) {
		h.open("div", "id", "sparkle-loading", "class", "loading-overlay fixed inset-0 bg-charcoal/50 flex items-center justify-center z-50",
			"role", "status", "aria-live", "polite")
		h.open("div", "class", "animate-spin rounded-full h-16 w-16 border-t-2 border-b-2 border-rose-gold")
		h.close("div")
		h.elem("span", "Loading", "class", "sr-only")
		h.close("div")
	})
}

// Aspect is a skeleton aspect ratio.
type Aspect string

const (
	AspectSquare   Aspect = "1/1"
	AspectPortrait Aspect = "3/4"
	AspectTall     Aspect = "4/5"
)

func (a Aspect) class() string {
	switch a {
	case AspectPortrait:
		return "aspect-[3/4]"
	case AspectTall:
		return "aspect-[4/5]"
	default:
		return "aspect-square"
	}
}

// Skeleton is a pulsing placeholder block.
func Skeleton(aspect Aspect, class string) templ.Component {
	return component(func(h *htmlWriter) {
		h.open("div", "class", joinClass("skeleton bg-gray-200 animate-pulse rounded-lg", aspect.class(), class), "aria-hidden", "true")
		h.close("div")
	})
}

// ImageProps configures Image.
type ImageProps struct {
	Data    imageopt.ImageData
	Alt     string
	Class   string
	Loading string // "lazy" or "eager"
	Failed  bool
}

// Image renders a picture with a WebP source when one exists. A failed
// load overlays the "Image failed to load" notice.
func Image(p ImageProps) templ.Component {
	loading := p.Loading
	if loading == "" {
		loading = "lazy"
	}
	return component(func(h *htmlWriter) {
		h.open("div", "class", joinClass("relative", p.Class))
		srcset := p.Data.SrcSet()
		sizes := ""
		if srcset != "" {
			sizes = DefaultSizes
		}
		webp := ""
		if p.Data.WebP != p.Data.Original {
			webp = p.Data.WebP
		}
		if webp != "" {
			h.open("picture")
			h.open("source", "type", "image/webp", "srcset", webp)
		}
		h.open("img", "src", p.Data.Original, "alt", p.Alt, "loading", loading,
			"srcset", srcset, "sizes", sizes, "class", "w-full h-full object-cover")
		if webp != "" {
			h.close("picture")
		}
		if p.Failed {
			h.open("div", "class", "image-failed absolute inset-0 flex items-center justify-center bg-gray-100")
			h.elem("span", "Image failed to load", "class", "text-gray-500")
			h.close("div")
		}
		h.close("div")
	})
}

func joinClass(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
