// Package carousel holds the slide index arithmetic behind the product
// carousels.
package carousel

import (
	"strconv"
	"time"
)

// AutoplayInterval is how often an idle carousel advances.
const AutoplayInterval = 5 * time.Second

// Breakpoints for ProductsToShow, in CSS pixels.
const (
	DesktopWidth = 1024
	TabletWidth  = 768
)

// Carousel tracks the current slide over a fixed number of items.
// The zero value is unusable; call New.
type Carousel struct {
	index   int
	length  int
	hovered bool
}

// New returns a carousel over n items positioned at the first one.
func New(n int) *Carousel {
	return &Carousel{length: n}
}

// Index is the current slide.
func (c *Carousel) Index() int { return c.index }

// Len is the number of distinct items.
func (c *Carousel) Len() int { return c.length }

// Next advances one slide, wrapping to 0 after the last.
func (c *Carousel) Next() {
	if c.length == 0 {
		return
	}
	c.index++
	if c.index >= c.length {
		c.index = 0
	}
}

// Prev steps back one slide, wrapping to the last item before 0.
func (c *Carousel) Prev() {
	if c.length == 0 {
		return
	}
	c.index--
	if c.index < 0 {
		c.index = c.length - 1
	}
}

// GoTo jumps to slide i. Out of range values are ignored.
func (c *Carousel) GoTo(i int) bool {
	if i < 0 || i >= c.length {
		return false
	}
	c.index = i
	return true
}

// SetHovered pauses or resumes autoplay.
func (c *Carousel) SetHovered(h bool) { c.hovered = h }

// Tick is the autoplay step: it advances unless the pointer is over the
// carousel or loading is still in progress.
func (c *Carousel) Tick(loading bool) bool {
	if loading || c.hovered {
		return false
	}
	c.Next()
	return true
}

// OffsetPercent is the translateX offset, as a percentage, that brings the
// current slide to the left edge when show items are visible.
func (c *Carousel) OffsetPercent(show int) float64 {
	if show <= 0 {
		return 0
	}
	return float64(c.index) * 100 / float64(show)
}

// Transform renders OffsetPercent as a CSS transform value.
func (c *Carousel) Transform(show int) string {
	return "translateX(-" + strconv.FormatFloat(c.OffsetPercent(show), 'f', -1, 64) + "%)"
}

// ProductsToShow is how many items fit side by side at a viewport width.
func ProductsToShow(width int) int {
	switch {
	case width >= DesktopWidth:
		return 4
	case width >= TabletWidth:
		return 2
	default:
		return 1
	}
}

// Window returns the rendered sequence: every item followed by the first
// show items again, so the last slides never leave a gap.
func Window[T any](items []T, show int) []T {
	show = min(max(show, 0), len(items))
	out := make([]T, 0, len(items)+show)
	out = append(out, items...)
	return append(out, items[:show]...)
}
