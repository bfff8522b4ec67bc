// Package viewer models the product image modal: selection, zoom and the
// pan origin that follows the pointer.
package viewer

import (
	"fmt"
	"strconv"
)

// Zoom limits.
const (
	MinZoom  = 1.0
	MaxZoom  = 3.0
	ZoomStep = 0.5
)

// Rect is an element's bounding box in client coordinates.
type Rect struct {
	Left, Top, Width, Height float64
}

// Origin is the transform origin as fractions of the image box. Values are
// not clamped; a pointer outside the box yields fractions outside [0,1].
type Origin struct {
	X, Y float64
}

// Viewer is the modal state for one carousel. T is the selected item type.
type Viewer[T any] struct {
	selected *T
	zoom     float64
	origin   Origin
}

// New returns a closed viewer.
func New[T any]() *Viewer[T] {
	return &Viewer[T]{zoom: MinZoom}
}

// Open selects item and shows the modal at zoom 1.
func (v *Viewer[T]) Open(item T) {
	v.selected = &item
	v.resetZoom()
}

// Close hides the modal and resets zoom and origin.
func (v *Viewer[T]) Close() {
	v.selected = nil
	v.resetZoom()
}

// Selected returns the open item.
func (v *Viewer[T]) Selected() (T, bool) {
	if v.selected == nil {
		var zero T
		return zero, false
	}
	return *v.selected, true
}

// IsOpen reports whether an item is selected.
func (v *Viewer[T]) IsOpen() bool { return v.selected != nil }

// Zoom is the current scale factor.
func (v *Viewer[T]) Zoom() float64 { return v.zoom }

// Origin is the current transform origin.
func (v *Viewer[T]) Origin() Origin { return v.origin }

// ZoomIn increases zoom by one step, capped at MaxZoom.
func (v *Viewer[T]) ZoomIn() {
	v.zoom = min(v.zoom+ZoomStep, MaxZoom)
}

// ZoomOut decreases zoom by one step, floored at MinZoom.
func (v *Viewer[T]) ZoomOut() {
	v.zoom = max(v.zoom-ZoomStep, MinZoom)
}

// Reset returns to zoom 1 with the origin at the top-left corner.
func (v *Viewer[T]) Reset() { v.resetZoom() }

// Pan moves the origin to the pointer position inside rect. It has no
// effect at zoom 1 or on a degenerate rect.
func (v *Viewer[T]) Pan(clientX, clientY float64, rect Rect) bool {
	if v.zoom <= MinZoom || rect.Width == 0 || rect.Height == 0 {
		return false
	}
	v.origin = Origin{
		X: (clientX - rect.Left) / rect.Width,
		Y: (clientY - rect.Top) / rect.Height,
	}
	return true
}

// Transform is the CSS transform for the image.
func (v *Viewer[T]) Transform() string {
	return "scale(" + strconv.FormatFloat(v.zoom, 'f', -1, 64) + ")"
}

// TransformOrigin is the CSS transform-origin for the image.
func (v *Viewer[T]) TransformOrigin() string {
	return fmt.Sprintf("%s%% %s%%",
		strconv.FormatFloat(v.origin.X*100, 'f', -1, 64),
		strconv.FormatFloat(v.origin.Y*100, 'f', -1, 64))
}

// Cursor is "move" while zoomed and "zoom-in" otherwise.
func (v *Viewer[T]) Cursor() string {
	if v.zoom > MinZoom {
		return "move"
	}
	return "zoom-in"
}

func (v *Viewer[T]) resetZoom() {
	v.zoom = MinZoom
	v.origin = Origin{}
}
