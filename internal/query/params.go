// Package query turns listing query strings into bun select queries: field
// filters, ordering, pagination and field selection.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Listing query parameters with a fixed meaning. They are never treated as
// field filters.
const (
	ParamType    = "type"
	ParamChildOf = "child_of"
	ParamOrder   = "order"
	ParamSearch  = "search"
	ParamOffset  = "offset"
	ParamLimit   = "limit"
	ParamFields  = "fields"
)

var reserved = map[string]bool{
	ParamType:    true,
	ParamChildOf: true,
	ParamOrder:   true,
	ParamSearch:  true,
	ParamOffset:  true,
	ParamLimit:   true,
	ParamFields:  true,
}

// IsReserved reports whether name is a listing parameter rather than a filter.
func IsReserved(name string) bool {
	return reserved[name]
}

// Value returns the last value of a repeated parameter, the one a filter
// would use too.
func Value(values url.Values, name string) string {
	return last(values[name])
}

// DefaultLimit is the page size used when the request sets none.
const DefaultLimit = 20

// Options carries the pagination limits from configuration.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

func (o Options) defaultLimit() int {
	if o.DefaultLimit > 0 {
		return o.DefaultLimit
	}
	return DefaultLimit
}

// Pagination is a validated offset/limit window.
type Pagination struct {
	Offset int
	Limit  int
}

// BadRequest returns an error the HTTP layer answers with a 400.
func BadRequest(format string, args ...any) error {
	return goerrors.New(fmt.Sprintf(format, args...), goerrors.CategoryBadInput)
}

// NotFound returns an error the HTTP layer answers with a 404.
func NotFound(message string) error {
	return goerrors.New(message, goerrors.CategoryNotFound)
}

// ParsePagination reads offset and limit. Both must be non-negative integers.
func ParsePagination(values url.Values, opts Options) (Pagination, error) {
	page := Pagination{Limit: opts.defaultLimit()}

	if values.Has(ParamOffset) {
		offset, err := strconv.Atoi(strings.TrimSpace(Value(values, ParamOffset)))
		if err != nil || offset < 0 {
			return Pagination{}, BadRequest("offset must be a positive integer")
		}
		page.Offset = offset
	}

	if values.Has(ParamLimit) {
		limit, err := strconv.Atoi(strings.TrimSpace(Value(values, ParamLimit)))
		if err != nil || limit < 0 {
			return Pagination{}, BadRequest("limit must be a positive integer")
		}
		page.Limit = limit
	}

	if opts.MaxLimit > 0 && page.Limit > opts.MaxLimit {
		return Pagination{}, BadRequest("limit cannot be higher than %d", opts.MaxLimit)
	}
	return page, nil
}

// ParseFields returns the requested field names in request order. Without a
// fields parameter only the title is shown.
func ParseFields(values url.Values) []string {
	if !values.Has(ParamFields) {
		return []string{"title"}
	}
	return strings.Split(Value(values, ParamFields), ",")
}

// SelectFields keeps the requested names that are API fields, dropping
// duplicates and keeping the request order.
func SelectFields(requested, apiFields []string) []string {
	allowed := make(map[string]bool, len(apiFields))
	for _, name := range apiFields {
		allowed[name] = true
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(requested))
	for _, name := range requested {
		if !allowed[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// UniqueFields drops duplicates from names, keeping the first occurrence.
func UniqueFields(names []string) []string {
	return SelectFields(names, names)
}
