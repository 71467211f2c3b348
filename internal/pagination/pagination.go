// Package pagination turns untrusted page/limit query parameters into a bounded
// skip/limit window and wraps a fetched page into the envelope returned by list endpoints.
//
// Nothing here ever fails: malformed input degrades to page 1 with the caller's default
// page size. Both operations are pure, so they are safe to call from concurrent requests.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Defaults used by list endpoints that don't configure their own window.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

const (
	pageParam  = "page"
	limitParam = "limit"
)

// Params is the resolved window: the page the client asked for, the clamped page size
// and the number of rows the store has to skip to reach that page.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// Resolve parses page and limit from a string-keyed parameter map.
// Absent keys count as not provided. Anything that isn't a positive base-10 integer
// falls back to 1 for page and defaultLimit for limit. The final limit is
// min(maxLimit, max(1, limit)); the clamp is applied to the default as well, so a
// maxLimit below defaultLimit wins over the default. Page is capped at MaxInt/limit so
// Skip never overflows.
func Resolve(query map[string]string, defaultLimit, maxLimit int) Params {
	page := parsePositive(query[pageParam], 1)
	limit := parsePositive(query[limitParam], defaultLimit)

	page = max(1, page)
	limit = min(maxLimit, max(1, limit))
	// keep (page-1)*limit representable; a non-positive maxLimit leaves limit at or below 0
	if limit > 0 {
		page = min(page, math.MaxInt/limit)
	}

	return Params{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

// FromValues resolves the window from a request query string. Only the first value of
// each parameter is considered.
func FromValues(values url.Values, defaultLimit, maxLimit int) Params {
	query := make(map[string]string, 2)
	for _, key := range [...]string{pageParam, limitParam} {
		if vs, ok := values[key]; ok && len(vs) > 0 {
			query[key] = vs[0]
		}
	}
	return Resolve(query, defaultLimit, maxLimit)
}

// parsePositive returns fallback for empty, non-numeric, overflowing or non-positive input.
func parsePositive(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Meta carries the derived page metadata of a Result.
type Meta struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalItems      int  `json:"totalItems"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Result is the envelope list endpoints serialize as their 200 body.
type Result[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// Build wraps one page of data. totalItems is the number of rows matching the query
// across all pages; page and limit are the values returned by Resolve.
func Build[T any](data []T, totalItems, page, limit int) Result[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := TotalPages(totalItems, limit)
	return Result[T]{
		Data: data,
		Pagination: Meta{
			CurrentPage:     page,
			TotalPages:      totalPages,
			TotalItems:      totalItems,
			ItemsPerPage:    limit,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}
}

// TotalPages is ceil(totalItems / limit). A non-positive limit or total yields 0.
func TotalPages(totalItems, limit int) int {
	if totalItems <= 0 || limit <= 0 {
		return 0
	}
	return (totalItems + limit - 1) / limit
}
