// Package pagination computes the page window shown by the shop grid pager.
package pagination

// MaxVisible is the number of numbered slots the pager aims to show.
const MaxVisible = 5

// Slot is one entry in the pager: a page number or an ellipsis.
type Slot struct {
	Page     int
	Ellipsis bool
}

// VisiblePages returns the slots to render for current out of total pages.
// The first and last pages are always present; a window of neighbours
// around current fills the middle and gaps collapse into ellipses. Totals of
// MaxVisible or fewer list every page.
func VisiblePages(current, total int) []Slot {
	if total <= 0 {
		return nil
	}
	if total <= MaxVisible {
		slots := make([]Slot, total)
		for i := range slots {
			slots[i] = Slot{Page: i + 1}
		}
		return slots
	}

	half := (MaxVisible - 2) / 2
	start := max(2, current-half)
	end := min(total-1, current+half)

	if end-start+1 < MaxVisible-2 {
		if current <= half+1 {
			end = MaxVisible - 1
		} else {
			start = total - MaxVisible + 2
		}
	}

	slots := []Slot{{Page: 1}}
	if start > 2 {
		slots = append(slots, Slot{Ellipsis: true})
	}
	for p := start; p <= end; p++ {
		slots = append(slots, Slot{Page: p})
	}
	if end < total-1 {
		slots = append(slots, Slot{Ellipsis: true})
	}
	return append(slots, Slot{Page: total})
}

// TotalPages is the number of pages needed for n items at perPage each.
func TotalPages(n, perPage int) int {
	if n <= 0 || perPage <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// Bounds returns the half-open item range [lo, hi) shown on page current.
// Pages outside [1, TotalPages] yield an empty range.
func Bounds(current, perPage, n int) (lo, hi int) {
	if current < 1 || perPage <= 0 {
		return 0, 0
	}
	lo = (current - 1) * perPage
	if lo >= n {
		return 0, 0
	}
	return lo, min(lo+perPage, n)
}

// Slice returns the items shown on page current.
func Slice[T any](items []T, current, perPage int) []T {
	lo, hi := Bounds(current, perPage, len(items))
	return items[lo:hi]
}

// HasPrev reports whether a previous page exists.
func HasPrev(current int) bool {
	return current > 1
}

// HasNext reports whether a next page exists.
func HasNext(current, total int) bool {
	return current < total
}

// Clamp forces current into [1, total]. A zero total clamps to 1.
func Clamp(current, total int) int {
	if total < 1 {
		return 1
	}
	return min(max(current, 1), total)
}
