package domain

import "math"

// PageRequest selects a 1-based page of a listing.
type PageRequest struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip. Offsets too large for an int
// saturate, so the page stays past the end instead of wrapping around.
func (p PageRequest) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}

	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}

	return (p.Number - 1) * p.Size
}

// Page is one page of results together with the total row count.
type Page[T any] struct {
	Items []T
	Total int64
}
