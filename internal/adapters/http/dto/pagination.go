package dto

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// DefaultLimit is the default number of items per page.
const DefaultLimit = 6

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// MaxPage bounds the page query parameter; anything above is past the end
// of any listing.
const MaxPage = math.MaxInt32

// Query parameters that select a page.
const (
	QueryPage  = "page"
	QueryLimit = "limit"
)

// Paging holds the page size bounds applied to list requests.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPaging returns the built-in page size bounds.
func DefaultPaging() Paging {
	return Paging{DefaultSize: DefaultLimit, MaxSize: MaxLimit}
}

// PageRequest reads the page and limit query parameters. Values that are
// missing or not positive integers fall back to the first page and the
// default size; oversized limits and pages are clamped.
func (p Paging) PageRequest(c *gin.Context) domain.PageRequest {
	size := p.DefaultSize
	if size <= 0 {
		size = DefaultLimit
	}

	maxSize := p.MaxSize
	if maxSize <= 0 {
		maxSize = MaxLimit
	}

	if n, ok := positiveInt(c.Query(QueryLimit)); ok {
		size = n
	}

	size = min(size, maxSize)

	number := 1
	if n, ok := positiveInt(c.Query(QueryPage)); ok {
		number = min(n, MaxPage)
	}

	return domain.PageRequest{Number: number, Size: size}
}

func positiveInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return n, true
	}

	if err != nil || n < 1 {
		return 0, false
	}

	return n, true
}

// Paginated is the envelope of every paginated listing.
type Paginated[T any] struct {
	// Count is the total number of items across all pages.
	Count int64 `json:"count"`

	// Next is the absolute URL of the following page, or null on the last page.
	Next *string `json:"next"`

	// Previous is the absolute URL of the preceding page, or null on the first page.
	Previous *string `json:"previous"`

	// Results holds the items of the requested page.
	Results []T `json:"results"`
}

// NewPaginated builds the envelope for one page of results. Links keep the
// request's other query parameters.
func NewPaginated[T any](c *gin.Context, page domain.PageRequest, total int64, results []T) Paginated[T] {
	if results == nil {
		results = []T{}
	}

	out := Paginated[T]{Count: total, Results: results}

	if page.Size <= 0 {
		return out
	}

	if int64(page.Number)*int64(page.Size) < total {
		next := pageURL(c.Request, page.Number+1)
		out.Next = &next
	}

	if page.Number > 1 {
		prev := pageURL(c.Request, page.Number-1)
		out.Previous = &prev
	}

	return out
}

// pageURL rebuilds the absolute request URL pointing at page number.
func pageURL(r *http.Request, number int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := r.URL.Query()
	if number <= 1 {
		query.Del(QueryPage)
	} else {
		query.Set(QueryPage, strconv.Itoa(number))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: query.Encode(),
	}

	return u.String()
}
