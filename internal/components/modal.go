package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/conneroisu/sparkle/internal/viewer"
)

// ViewerModal is the hidden zoomable image dialog opened by elements
// carrying data-viewer-open="id". Its initial transform comes from a closed
// viewer so the static markup matches the reset state.
func ViewerModal(id string) templ.Component {
	v := viewer.New[string]()

	return component(func(h *htmlWriter) {
		h.open("div", "id", id, "class", "viewer fixed inset-0 bg-black/80 flex items-center justify-center z-50 px-4 py-6",
			"role", "dialog", "aria-modal", "true", "aria-label", "Product viewer", "hidden", "true",
			"data-min-zoom", formatZoom(viewer.MinZoom), "data-max-zoom", formatZoom(viewer.MaxZoom), "data-zoom-step", formatZoom(viewer.ZoomStep))
		h.open("div", "class", "bg-ivory p-6 sm:p-8 rounded-2xl max-w-xl shadow-2xl flex flex-col")
		h.elem("h3", "", "class", "viewer-title text-2xl sm:text-3xl font-display text-charcoal mb-4")
		h.open("div", "class", "viewer-stage relative w-full aspect-[4/5] mb-4 overflow-hidden rounded-lg", "style", "cursor:"+v.Cursor())
		h.open("img", "class", "viewer-image w-full h-full object-cover", "alt", "Selected item",
			"style", "transform:"+v.Transform()+";transform-origin:"+v.TransformOrigin())
		h.elem("span", "Click to zoom in", "class", "viewer-hint absolute bottom-2 right-2 text-ivory text-xs bg-charcoal/60 px-2 py-1 rounded")
		h.close("div")
		h.elem("p", "", "class", "viewer-detail text-charcoal text-base sm:text-lg mb-6")
		h.open("div", "class", "flex justify-between items-center")
		h.open("div", "class", "flex space-x-2")
		h.elem("button", "Zoom In", "type", "button", "data-viewer-action", "zoom-in", "class", "px-4 py-2 bg-rose-gold/20 text-rose-gold rounded-full")
		h.elem("button", "Zoom Out", "type", "button", "data-viewer-action", "zoom-out", "class", "px-4 py-2 bg-rose-gold/20 text-rose-gold rounded-full")
		h.elem("button", "Reset", "type", "button", "data-viewer-action", "reset", "class", "px-4 py-2 bg-rose-gold/20 text-rose-gold rounded-full")
		h.close("div")
		h.elem("button", "Close", "type", "button", "data-viewer-action", "close", "class", "px-6 py-2 bg-rose-gold text-ivory rounded-full")
		h.close("div")
		h.close("div")
		h.close("div")
	})
}

func formatZoom(z float64) string {
	return strconv.FormatFloat(z, 'f', -1, 64)
}
