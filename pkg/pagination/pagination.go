package pagination

import (
	"fmt"
	"net/http"
	"strconv"

	apperrors "github.com/asqwklop12/sparta/pkg/errors"
)

const (
	DefaultSize   = 10
	MaxSize       = 100
	DefaultSortBy = "id"
)

// Request describes one page window: a 0-based page index, a page size, the
// field to order by and the direction.
type Request struct {
	Page   int
	Size   int
	SortBy string
	Asc    bool
}

// Offset is the number of rows skipped before the window starts.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Limit is the maximum number of rows in the window.
func (r Request) Limit() int {
	return r.Size
}

// Validate rejects negative pages and sizes outside 1..MaxSize.
func (r Request) Validate() error {
	if r.Page < 0 {
		return apperrors.InvalidInput("page must not be negative")
	}
	if r.Size < 1 || r.Size > MaxSize {
		return apperrors.InvalidInput(fmt.Sprintf("size must be between 1 and %d", MaxSize))
	}
	return nil
}

// FromRequest reads page, size, sortBy and isAsc from the query string.
// The wire page is 1-based; the returned Request is 0-based.
func FromRequest(r *http.Request) (Request, error) {
	q := r.URL.Query()
	req := Request{Page: 0, Size: DefaultSize, SortBy: DefaultSortBy, Asc: false}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return Request{}, apperrors.InvalidInput("page must be a positive integer")
		}
		req.Page = page - 1
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return Request{}, apperrors.InvalidInput("size must be an integer")
		}
		req.Size = size
	}
	if v := q.Get("sortBy"); v != "" {
		req.SortBy = v
	}
	if v := q.Get("isAsc"); v != "" {
		asc, err := strconv.ParseBool(v)
		if err != nil {
			return Request{}, apperrors.InvalidInput("isAsc must be true or false")
		}
		req.Asc = asc
	}

	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Page is one window of a sorted listing plus the totals needed to navigate it.
type Page[T any] struct {
	Content       []T  `json:"content"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

// NewPage builds a Page from the window contents and the total row count.
func NewPage[T any](content []T, totalElements int, req Request) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = totalElements / req.Size
		if totalElements%req.Size > 0 {
			totalPages++
		}
	}

	return Page[T]{
		Content:       content,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page+1 >= totalPages,
	}
}

// Map converts every element of p with fn, keeping the page metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, v := range p.Content {
		out = append(out, fn(v))
	}

	return Page[U]{
		Content:       out,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}
