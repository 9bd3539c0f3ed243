// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/spf13/cast"
)

// Defaults for offset pagination.
const (
	DefaultPage  = 1
	DefaultLimit = 15
	MaxLimit     = 50
)

// Info describes one page of a list. Skip is not serialized.
type Info struct {
	CurrentPage  int64 `json:"currentPage"`
	ItemsPerPage int64 `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int64 `json:"totalPages"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
	Skip         int64 `json:"-"`
}

// Params reads ?page= and ?limit=. Missing, non-numeric or non-positive
// values fall back to the defaults; limit is capped at MaxLimit.
func Params(r *http.Request) (page, limit int64) {
	return parse(query.Get(r, "page"), DefaultPage, 0), parse(query.Get(r, "limit"), DefaultLimit, MaxLimit)
}

func parse(raw string, def, max int64) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := cast.ToInt64E(raw)
	if err != nil || n < 1 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// Skip returns the offset of page for the given limit.
func Skip(page, limit int64) int64 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// Compute derives the page metadata from the request values and the total.
func Compute(page, limit, total int64) Info {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	pages := (total + limit - 1) / limit
	return Info{
		CurrentPage:  page,
		ItemsPerPage: limit,
		TotalItems:   total,
		TotalPages:   pages,
		HasNextPage:  page < pages,
		HasPrevPage:  page > 1,
		Skip:         Skip(page, limit),
	}
}

// Envelope is the body of every paginated list response.
type Envelope struct {
	Success    bool `json:"success"`
	Data       any  `json:"data"`
	Pagination Info `json:"pagination"`
}

// Wrap builds the envelope for data.
func Wrap(data any, info Info) Envelope {
	return Envelope{Success: true, Data: data, Pagination: info}
}
