// Package pagination implements the page-number scheme shared by every list endpoint.
package pagination

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	errors "github.com/frahmantamala/company-api/internal"
)

// Params is a resolved page request. Page is 1-based.
type Params struct {
	Page     int
	PageSize int
}

func (p Params) Limit() int {
	return p.PageSize
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is the list envelope: the items on the requested page plus the total row count.
type Page[T any] struct {
	Items []T   `json:"items"`
	Count int64 `json:"count"`
}

// NewPage never yields a null items array.
func NewPage[T any](items []T, count int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Count: count}
}

// FromRequest reads ?page=N. A missing page means the first one; anything that is not a
// positive integer, or a page whose offset would not fit in an int, is a validation error.
func FromRequest(r *http.Request, pageSize int) (Params, *errors.AppError) {
	params := Params{Page: 1, PageSize: pageSize}

	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return params, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || (pageSize > 0 && page-1 > math.MaxInt/pageSize) {
		return params, errors.NewValidationFieldError("page", "page must be a positive integer", errors.ErrCodeInvalidPage)
	}

	params.Page = page
	return params, nil
}
